package services

import (
	"context"
	"os"

	"github.com/wpstar1/githighlight/models"
	"github.com/wpstar1/githighlight/storage"
	"github.com/wpstar1/githighlight/utils"
)

// Reconciler resolves "which day's data do we serve" for read-side callers.
// It never raises past the caller: every failure degrades to the next
// fallback and ultimately to an empty result with a logged reason.
type Reconciler struct {
	snapshots *storage.SnapshotStore
	store     storage.RecordStore
	logger    *utils.Logger
}

// NewReconciler creates a Reconciler over both persistence surfaces.
func NewReconciler(snapshots *storage.SnapshotStore, store storage.RecordStore, logger *utils.Logger) *Reconciler {
	return &Reconciler{snapshots: snapshots, store: store, logger: logger}
}

// Resolve returns the records to serve for the requested date plus the date
// actually served, using the fallback chain: exact snapshot → newest
// snapshot → record store rows for the requested date → record store rows
// for its most recent date. Records come back most-recently-added first.
func (r *Reconciler) Resolve(ctx context.Context, date string) (string, []*models.Repository) {
	if repos, err := r.snapshots.Read(date); err == nil {
		return date, reversed(repos)
	} else if !os.IsNotExist(err) {
		r.logger.Warn("[reconciler] Snapshot for %s unreadable: %v", date, err)
	}

	latestDate, repos, err := r.snapshots.Latest()
	if err != nil {
		r.logger.Warn("[reconciler] Latest snapshot lookup failed: %v", err)
	} else if latestDate != "" {
		r.logger.Info("[reconciler] No snapshot for %s — serving %s", date, latestDate)
		return latestDate, reversed(repos)
	}

	if repos, err := r.store.ListByDate(ctx, date); err != nil {
		r.logger.Warn("[reconciler] Record store query for %s failed: %v", date, err)
	} else if len(repos) > 0 {
		return date, reversed(repos)
	}

	storeDate, err := r.store.LatestDate(ctx)
	if err != nil {
		r.logger.Warn("[reconciler] Record store latest-date query failed: %v", err)
		return date, nil
	}
	if storeDate == "" {
		r.logger.Info("[reconciler] No data on either surface — serving empty set")
		return date, nil
	}

	repos, err = r.store.ListByDate(ctx, storeDate)
	if err != nil {
		r.logger.Warn("[reconciler] Record store query for %s failed: %v", storeDate, err)
		return date, nil
	}
	return storeDate, reversed(repos)
}

// reversed returns a copy in most-recently-added-first order.
func reversed(repos []*models.Repository) []*models.Repository {
	out := make([]*models.Repository, len(repos))
	for i, r := range repos {
		out[len(repos)-1-i] = r
	}
	return out
}
