package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/wpstar1/githighlight/models"
)

// PostgresStore implements RecordStore against a directly-reachable
// PostgreSQL database (the REST store's table, minus the HTTP hop).
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection, runs schema migrations and returns a
// ready-to-use store.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 5; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	ps := &PostgresStore{db: db}
	if err := ps.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return ps, nil
}

func (ps *PostgresStore) migrate() error {
	_, err := ps.db.Exec(`
		CREATE TABLE IF NOT EXISTS repositories (
			id             SERIAL PRIMARY KEY,
			name           TEXT        UNIQUE NOT NULL,
			link           TEXT        NOT NULL,
			summary        TEXT        NOT NULL DEFAULT '',
			feature        TEXT        NOT NULL DEFAULT '',
			code           TEXT        NOT NULL DEFAULT '',
			stars          INTEGER     NOT NULL DEFAULT 0,
			collected_date DATE        NOT NULL,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_repositories_collected_date ON repositories(collected_date);
	`)
	return err
}

// GetByName returns the record with the given name or ErrNotFound.
func (ps *PostgresStore) GetByName(ctx context.Context, name string) (*models.Repository, error) {
	row := ps.db.QueryRowContext(ctx, `
		SELECT id, name, link, summary, feature, code, stars,
		       to_char(collected_date, 'YYYY-MM-DD'), created_at
		FROM repositories
		WHERE name = $1
	`, name)

	repo, err := scanRepo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: get %s: %w", name, err)
	}
	return repo, nil
}

// Insert creates a new row.
func (ps *PostgresStore) Insert(ctx context.Context, repo *models.Repository) error {
	_, err := ps.db.ExecContext(ctx, `
		INSERT INTO repositories (name, link, summary, feature, code, stars, collected_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, repo.Name, repo.Link, repo.Summary, repo.Feature, repo.Code, repo.Stars,
		repo.CollectedDate, createdAtOrNow(repo))
	if err != nil {
		return fmt.Errorf("postgres: insert %s: %w", repo.Name, err)
	}
	return nil
}

// Update rewrites the mutable fields of the row matching the record's name.
func (ps *PostgresStore) Update(ctx context.Context, repo *models.Repository) error {
	_, err := ps.db.ExecContext(ctx, `
		UPDATE repositories
		SET link = $2, summary = $3, feature = $4, code = $5, stars = $6, collected_date = $7
		WHERE name = $1
	`, repo.Name, repo.Link, repo.Summary, repo.Feature, repo.Code, repo.Stars, repo.CollectedDate)
	if err != nil {
		return fmt.Errorf("postgres: update %s: %w", repo.Name, err)
	}
	return nil
}

// ListByDate returns all records collected on the given date in insertion order.
func (ps *PostgresStore) ListByDate(ctx context.Context, date string) ([]*models.Repository, error) {
	rows, err := ps.db.QueryContext(ctx, `
		SELECT id, name, link, summary, feature, code, stars,
		       to_char(collected_date, 'YYYY-MM-DD'), created_at
		FROM repositories
		WHERE collected_date = $1
		ORDER BY id
	`, date)
	if err != nil {
		return nil, fmt.Errorf("postgres: list by date %s: %w", date, err)
	}
	defer rows.Close()

	var repos []*models.Repository
	for rows.Next() {
		repo, err := scanRepo(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		repos = append(repos, repo)
	}
	return repos, rows.Err()
}

// LatestDate returns the most recent collected date, or "" when empty.
func (ps *PostgresStore) LatestDate(ctx context.Context) (string, error) {
	var date string
	err := ps.db.QueryRowContext(ctx, `
		SELECT to_char(collected_date, 'YYYY-MM-DD')
		FROM repositories
		ORDER BY collected_date DESC
		LIMIT 1
	`).Scan(&date)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("postgres: latest date: %w", err)
	}
	return date, nil
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRepo(row rowScanner) (*models.Repository, error) {
	repo := &models.Repository{}
	err := row.Scan(&repo.ID, &repo.Name, &repo.Link, &repo.Summary, &repo.Feature,
		&repo.Code, &repo.Stars, &repo.CollectedDate, &repo.CreatedAt)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

func createdAtOrNow(repo *models.Repository) time.Time {
	if repo.CreatedAt.IsZero() {
		return time.Now().UTC()
	}
	return repo.CreatedAt
}
