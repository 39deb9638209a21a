package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/wpstar1/githighlight/config"
	"github.com/wpstar1/githighlight/models"
	"github.com/wpstar1/githighlight/utils"
)

const (
	defaultTrendingURL = "https://github.com/trending"
	defaultAPIURL      = "https://api.github.com"
	repoBaseURL        = "https://github.com/"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	acceptLanguage = "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7"
)

// ErrFetchFailed marks a listing view whose fetch retries were exhausted.
// Callers treat it as "this view contributed nothing", not as a run abort.
var ErrFetchFailed = errors.New("trending fetch failed")

// Scraper retrieves trending repository listings and README contents.
type Scraper struct {
	// TrendingURL and APIURL are overridable for tests.
	TrendingURL string
	APIURL      string

	token  string
	since  string
	limit  int
	client *http.Client
	logger *utils.Logger
	retry  *utils.RetryConfig
}

// New creates a ready-to-use GitHub Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		TrendingURL: defaultTrendingURL,
		APIURL:      defaultAPIURL,
		token:       cfg.GitHubToken,
		since:       cfg.Since,
		limit:       cfg.Limit,
		client: &http.Client{
			Timeout: time.Duration(cfg.HTTPTimeoutSec) * time.Second,
		},
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// FetchView retrieves one trending listing view in source order. Exhausted
// retries yield an empty slice and an error wrapping ErrFetchFailed; a
// malformed row within a good response is skipped, never fatal.
func (s *Scraper) FetchView(ctx context.Context, view config.View) ([]*models.RawRepo, error) {
	url := s.TrendingURL
	if view.Language != "" {
		url += "/" + view.Language
	}
	if s.since != "" {
		url += "?since=" + s.since
	}

	s.logger.Info("[trending] Fetching view %q — %s", view.Name(), url)

	var doc *goquery.Document
	err := s.retry.Do(fmt.Sprintf("fetch-trending-%s", view.Name()), func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept-Language", acceptLanguage)

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		doc, err = goquery.NewDocumentFromReader(resp.Body)
		if err != nil {
			return fmt.Errorf("parse listing markup: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("view %q: %w: %v", view.Name(), ErrFetchFailed, err)
	}

	repos := s.extractRepos(doc, view)
	s.logger.Info("[trending] View %q returned %d repositories", view.Name(), len(repos))
	return repos, nil
}

// extractRepos walks the listing rows and extracts one candidate per row.
func (s *Scraper) extractRepos(doc *goquery.Document, view config.View) []*models.RawRepo {
	var repos []*models.RawRepo

	doc.Find("article.Box-row").EachWithBreak(func(_ int, item *goquery.Selection) bool {
		if s.limit > 0 && len(repos) >= s.limit {
			return false
		}

		repo, err := extractRepo(item)
		if err != nil {
			s.logger.Warn("[trending] Skipping malformed listing row: %v", err)
			return true
		}

		repo.View = view.Name()
		repo.FetchedAt = time.Now()
		repos = append(repos, repo)
		return true
	})

	return repos
}

// extractRepo pulls the candidate fields out of one listing row.
func extractRepo(item *goquery.Selection) (*models.RawRepo, error) {
	nameEl := item.Find("h2 a").First()
	if nameEl.Length() == 0 {
		return nil, errors.New("row has no repository heading")
	}

	// The heading wraps "owner / name" across lines; strip all whitespace
	// to recover the canonical identifier.
	name := stripWhitespace(nameEl.Text())
	if name == "" {
		return nil, errors.New("row has an empty repository name")
	}

	description := strings.TrimSpace(item.Find("p").First().Text())

	stars := "0"
	if el := item.Find("span.d-inline-block.float-sm-right").First(); el.Length() > 0 {
		stars = strings.TrimSpace(el.Text())
	}

	language := strings.TrimSpace(item.Find("span[itemprop='programmingLanguage']").First().Text())

	return &models.RawRepo{
		Name:        name,
		Link:        repoBaseURL + name,
		Description: description,
		RawStars:    stars,
		Language:    language,
	}, nil
}

func stripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
