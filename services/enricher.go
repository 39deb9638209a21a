package services

import (
	"context"
	"time"

	"github.com/wpstar1/githighlight/models"
	"github.com/wpstar1/githighlight/utils"
)

// ReadmeFetcher retrieves extended descriptive text for a candidate.
type ReadmeFetcher interface {
	FetchReadme(ctx context.Context, name string) (string, error)
}

// Enricher runs the per-candidate stages: README retrieval, code example
// extraction and summary generation. Candidates are independent; one
// candidate's degradation never affects another, and the output order
// matches the input order regardless of completion order.
type Enricher struct {
	readmes    ReadmeFetcher
	summarizer *Summarizer
	pool       *utils.WorkerPool
	logger     *utils.Logger
}

// NewEnricher creates an Enricher. The pool bounds backend concurrency and
// paces calls to avoid throttling.
func NewEnricher(readmes ReadmeFetcher, summarizer *Summarizer, pool *utils.WorkerPool, logger *utils.Logger) *Enricher {
	return &Enricher{
		readmes:    readmes,
		summarizer: summarizer,
		pool:       pool,
		logger:     logger,
	}
}

// Enrich turns merged candidates into persistable records collected on the
// given date.
func (e *Enricher) Enrich(ctx context.Context, candidates []*models.RawRepo, date string) []*models.Repository {
	records := make([]*models.Repository, len(candidates))

	for i, candidate := range candidates {
		i, candidate := i, candidate
		e.pool.Submit(func() {
			records[i] = e.enrichOne(ctx, candidate, date)
		})
	}
	e.pool.Wait()

	return records
}

func (e *Enricher) enrichOne(ctx context.Context, candidate *models.RawRepo, date string) *models.Repository {
	e.logger.Info("[enricher] Processing %s", candidate.Name)

	stars := NormalizeStars(candidate.RawStars)

	readme, err := e.readmes.FetchReadme(ctx, candidate.Name)
	if err != nil {
		e.logger.Warn("[enricher] README unavailable for %s: %v", candidate.Name, err)
		readme = ""
	}

	code := ExtractCodeExample(readme)
	summary := e.summarizer.Summarize(ctx, candidate, readme, stars)

	// The README is the preferred snippet source; the generator's labeled
	// code section fills in only when the README yielded nothing.
	if code == NoExampleFound && summary.Code != "" {
		code = TruncateSnippet(summary.Code)
	}

	if summary.Fallback {
		e.logger.Warn("[enricher] Degraded record for %s (fallback summary)", candidate.Name)
	}

	return &models.Repository{
		Name:          candidate.Name,
		Link:          candidate.Link,
		Summary:       summary.Summary,
		Feature:       summary.Feature,
		Code:          code,
		Stars:         stars,
		CollectedDate: date,
		CreatedAt:     time.Now().UTC(),
		Degraded:      summary.Fallback,
	}
}
