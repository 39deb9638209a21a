package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/wpstar1/githighlight/models"
	"github.com/wpstar1/githighlight/utils"
)

const recordTable = "repositories"

// RESTStore talks to a PostgREST-style table endpoint (Supabase). Filters
// are equality-only query parameters; auth rides on the apikey and bearer
// headers.
type RESTStore struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *utils.Logger
}

// restRepo is the wire shape of one table row.
type restRepo struct {
	ID            int64  `json:"id,omitempty"`
	Name          string `json:"name"`
	Link          string `json:"link"`
	Summary       string `json:"summary"`
	Feature       string `json:"feature"`
	Code          string `json:"code"`
	Stars         int    `json:"stars"`
	CollectedDate string `json:"collected_date"`
	CreatedAt     string `json:"created_at,omitempty"`
}

// NewRESTStore creates a record store client for the given Supabase project
// URL and service key.
func NewRESTStore(baseURL, apiKey string, logger *utils.Logger) *RESTStore {
	return &RESTStore{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

func (s *RESTStore) endpoint(query string) string {
	u := fmt.Sprintf("%s/rest/v1/%s", s.baseURL, recordTable)
	if query != "" {
		u += "?" + query
	}
	return u
}

func (s *RESTStore) do(ctx context.Context, method, url string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("rest: marshal body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("rest: build request: %w", err)
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=minimal")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rest: %s %s: %w", method, url, err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("rest: %s returned %d: %s", method, resp.StatusCode, string(msg))
	}
	return resp, nil
}

func (s *RESTStore) get(ctx context.Context, query string) ([]restRepo, error) {
	resp, err := s.do(ctx, http.MethodGet, s.endpoint(query), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var rows []restRepo
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("rest: decode rows: %w", err)
	}
	return rows, nil
}

// GetByName returns the record with the given name or ErrNotFound.
func (s *RESTStore) GetByName(ctx context.Context, name string) (*models.Repository, error) {
	rows, err := s.get(ctx, "name=eq."+url.QueryEscape(name)+"&limit=1")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return fromRESTRepo(rows[0]), nil
}

// Insert creates a new row with the record's creation timestamp.
func (s *RESTStore) Insert(ctx context.Context, repo *models.Repository) error {
	resp, err := s.do(ctx, http.MethodPost, s.endpoint(""), toRESTRepo(repo, true))
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// Update rewrites the mutable fields of the row matching the record's name.
// Identity and creation metadata are left untouched.
func (s *RESTStore) Update(ctx context.Context, repo *models.Repository) error {
	patch := map[string]any{
		"link":           repo.Link,
		"summary":        repo.Summary,
		"feature":        repo.Feature,
		"code":           repo.Code,
		"stars":          repo.Stars,
		"collected_date": repo.CollectedDate,
	}
	resp, err := s.do(ctx, http.MethodPatch, s.endpoint("name=eq."+url.QueryEscape(repo.Name)), patch)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// ListByDate returns all records collected on the given date in insertion
// order.
func (s *RESTStore) ListByDate(ctx context.Context, date string) ([]*models.Repository, error) {
	rows, err := s.get(ctx, "collected_date=eq."+url.QueryEscape(date)+"&order=id.asc")
	if err != nil {
		return nil, err
	}

	repos := make([]*models.Repository, 0, len(rows))
	for _, row := range rows {
		repos = append(repos, fromRESTRepo(row))
	}
	return repos, nil
}

// LatestDate returns the most recent collected date in the store, or ""
// when the store is empty.
func (s *RESTStore) LatestDate(ctx context.Context) (string, error) {
	rows, err := s.get(ctx, "select=collected_date&order=collected_date.desc&limit=1")
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].CollectedDate, nil
}

// Close is a no-op; the store is a stateless HTTP client.
func (s *RESTStore) Close() error { return nil }

func toRESTRepo(r *models.Repository, withCreatedAt bool) restRepo {
	row := restRepo{
		Name:          r.Name,
		Link:          r.Link,
		Summary:       r.Summary,
		Feature:       r.Feature,
		Code:          r.Code,
		Stars:         r.Stars,
		CollectedDate: r.CollectedDate,
	}
	if withCreatedAt && !r.CreatedAt.IsZero() {
		row.CreatedAt = r.CreatedAt.UTC().Format(time.RFC3339)
	}
	return row
}

func fromRESTRepo(row restRepo) *models.Repository {
	repo := &models.Repository{
		ID:            row.ID,
		Name:          row.Name,
		Link:          row.Link,
		Summary:       row.Summary,
		Feature:       row.Feature,
		Code:          row.Code,
		Stars:         row.Stars,
		CollectedDate: row.CollectedDate,
	}
	if row.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339, row.CreatedAt); err == nil {
			repo.CreatedAt = t
		}
	}
	return repo
}
