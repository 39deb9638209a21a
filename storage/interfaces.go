package storage

import (
	"context"
	"errors"

	"github.com/wpstar1/githighlight/models"
)

// ErrNotFound is returned by RecordStore.GetByName when no record with the
// given name exists.
var ErrNotFound = errors.New("record not found")

// RecordStore is the queryable upsert-capable persistence surface for
// enriched repositories. The repository name is the natural key: update vs
// insert decisions go through GetByName, independent of the collected date.
// All queries are exact-match equality filters.
type RecordStore interface {
	GetByName(ctx context.Context, name string) (*models.Repository, error)
	Insert(ctx context.Context, repo *models.Repository) error
	Update(ctx context.Context, repo *models.Repository) error
	ListByDate(ctx context.Context, date string) ([]*models.Repository, error)
	LatestDate(ctx context.Context) (string, error)
	Close() error
}
