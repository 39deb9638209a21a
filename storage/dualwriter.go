package storage

import (
	"context"
	"errors"

	"github.com/wpstar1/githighlight/models"
	"github.com/wpstar1/githighlight/utils"
)

// DualWriter persists the final enriched set to both surfaces: the dated
// snapshot and the record store. The writes are independent and best-effort;
// a failure in one is logged and never prevents or rolls back the other.
type DualWriter struct {
	snapshots *SnapshotStore
	store     RecordStore
	logger    *utils.Logger
}

// NewDualWriter creates a DualWriter over the given surfaces.
func NewDualWriter(snapshots *SnapshotStore, store RecordStore, logger *utils.Logger) *DualWriter {
	return &DualWriter{snapshots: snapshots, store: store, logger: logger}
}

// Write merges repos into the snapshot for date and upserts each record into
// the record store by name. The returned error aggregates what went wrong
// for the caller's log; every write has already been attempted by then.
func (w *DualWriter) Write(ctx context.Context, date string, repos []*models.Repository) error {
	var errs []error

	if err := w.snapshots.Write(date, repos); err != nil {
		w.logger.Error("[dualwriter] Snapshot write failed for %s: %v", date, err)
		errs = append(errs, err)
	}

	failed := 0
	for _, repo := range repos {
		if err := w.upsert(ctx, repo); err != nil {
			w.logger.Error("[dualwriter] Record store upsert failed for %s: %v", repo.Name, err)
			errs = append(errs, err)
			failed++
		}
	}

	w.logger.Info("[dualwriter] Record store: %d/%d upserts succeeded", len(repos)-failed, len(repos))
	return errors.Join(errs...)
}

// upsert updates the existing row for the record's name or inserts a new
// one. The existing row's identity and creation timestamp are preserved.
func (w *DualWriter) upsert(ctx context.Context, repo *models.Repository) error {
	existing, err := w.store.GetByName(ctx, repo.Name)
	switch {
	case errors.Is(err, ErrNotFound):
		return w.store.Insert(ctx, repo)
	case err != nil:
		return err
	default:
		repo.ID = existing.ID
		repo.CreatedAt = existing.CreatedAt
		return w.store.Update(ctx, repo)
	}
}
