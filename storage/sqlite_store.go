package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/wpstar1/githighlight/models"
)

// SQLiteStore implements RecordStore on a local SQLite file, for runs that
// have no hosted record store reachable.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and
// initializes the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("sqlite: create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	ss := &SQLiteStore{db: db}
	if err := ss.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: init schema: %w", err)
	}
	return ss, nil
}

func (ss *SQLiteStore) initSchema() error {
	_, err := ss.db.Exec(`
		CREATE TABLE IF NOT EXISTS repositories (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			name           TEXT NOT NULL UNIQUE,
			link           TEXT NOT NULL,
			summary        TEXT NOT NULL DEFAULT '',
			feature        TEXT NOT NULL DEFAULT '',
			code           TEXT NOT NULL DEFAULT '',
			stars          INTEGER NOT NULL DEFAULT 0,
			collected_date TEXT NOT NULL,
			created_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_repositories_collected_date ON repositories(collected_date);
	`)
	return err
}

// GetByName returns the record with the given name or ErrNotFound.
func (ss *SQLiteStore) GetByName(ctx context.Context, name string) (*models.Repository, error) {
	row := ss.db.QueryRowContext(ctx, `
		SELECT id, name, link, summary, feature, code, stars, collected_date, created_at
		FROM repositories
		WHERE name = ?
	`, name)

	repo, err := scanRepo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get %s: %w", name, err)
	}
	return repo, nil
}

// Insert creates a new row.
func (ss *SQLiteStore) Insert(ctx context.Context, repo *models.Repository) error {
	_, err := ss.db.ExecContext(ctx, `
		INSERT INTO repositories (name, link, summary, feature, code, stars, collected_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, repo.Name, repo.Link, repo.Summary, repo.Feature, repo.Code, repo.Stars,
		repo.CollectedDate, createdAtOrNow(repo))
	if err != nil {
		return fmt.Errorf("sqlite: insert %s: %w", repo.Name, err)
	}
	return nil
}

// Update rewrites the mutable fields of the row matching the record's name.
func (ss *SQLiteStore) Update(ctx context.Context, repo *models.Repository) error {
	_, err := ss.db.ExecContext(ctx, `
		UPDATE repositories
		SET link = ?, summary = ?, feature = ?, code = ?, stars = ?, collected_date = ?
		WHERE name = ?
	`, repo.Link, repo.Summary, repo.Feature, repo.Code, repo.Stars, repo.CollectedDate, repo.Name)
	if err != nil {
		return fmt.Errorf("sqlite: update %s: %w", repo.Name, err)
	}
	return nil
}

// ListByDate returns all records collected on the given date in insertion order.
func (ss *SQLiteStore) ListByDate(ctx context.Context, date string) ([]*models.Repository, error) {
	rows, err := ss.db.QueryContext(ctx, `
		SELECT id, name, link, summary, feature, code, stars, collected_date, created_at
		FROM repositories
		WHERE collected_date = ?
		ORDER BY id
	`, date)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list by date %s: %w", date, err)
	}
	defer rows.Close()

	var repos []*models.Repository
	for rows.Next() {
		repo, err := scanRepo(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan row: %w", err)
		}
		repos = append(repos, repo)
	}
	return repos, rows.Err()
}

// LatestDate returns the most recent collected date, or "" when empty.
func (ss *SQLiteStore) LatestDate(ctx context.Context) (string, error) {
	var date string
	err := ss.db.QueryRowContext(ctx, `
		SELECT collected_date
		FROM repositories
		ORDER BY collected_date DESC
		LIMIT 1
	`).Scan(&date)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("sqlite: latest date: %w", err)
	}
	return date, nil
}

func (ss *SQLiteStore) Close() error {
	return ss.db.Close()
}
