package services

import (
	"github.com/wpstar1/githighlight/models"
	"github.com/wpstar1/githighlight/utils"
)

// Merger combines candidates from multiple listing views into one set keyed
// by repository name. First occurrence wins: when the same name appears in
// more than one view, the entry from the earlier view is kept whole and the
// later duplicate is discarded without field merging.
type Merger struct {
	logger *utils.Logger
}

// NewMerger creates a Merger with the given logger.
func NewMerger(logger *utils.Logger) *Merger {
	return &Merger{logger: logger}
}

// Merge flattens the view results in order, deduplicating by name. The
// returned slice preserves first-seen order so downstream writes are
// deterministic.
func (m *Merger) Merge(views ...[]*models.RawRepo) []*models.RawRepo {
	seen := make(map[string]struct{})
	merged := make([]*models.RawRepo, 0)
	dropped := 0

	for _, view := range views {
		for _, repo := range view {
			if _, dup := seen[repo.Name]; dup {
				m.logger.Debug("[merger] Duplicate candidate skipped: %s (view %s)", repo.Name, repo.View)
				dropped++
				continue
			}
			seen[repo.Name] = struct{}{}
			merged = append(merged, repo)
		}
	}

	m.logger.Info("[merger] Merged %d views into %d candidates (dropped %d duplicates)",
		len(views), len(merged), dropped)
	return merged
}
