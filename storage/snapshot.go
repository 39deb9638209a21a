package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wpstar1/githighlight/models"
	"github.com/wpstar1/githighlight/utils"
)

// SnapshotStore persists one JSON file per calendar date under a data
// directory. Writes are append-merge: names already present in the day's
// file are left untouched, new names are appended in input order.
type SnapshotStore struct {
	dir    string
	logger *utils.Logger
}

// NewSnapshotStore creates the data directory if needed.
func NewSnapshotStore(dir string, logger *utils.Logger) (*SnapshotStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("snapshot: create data dir: %w", err)
	}
	return &SnapshotStore{dir: dir, logger: logger}, nil
}

func (s *SnapshotStore) path(date string) string {
	return filepath.Join(s.dir, date+".json")
}

// Write merges repos into the snapshot for the given date.
func (s *SnapshotStore) Write(date string, repos []*models.Repository) error {
	existing, err := s.Read(date)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("snapshot: read existing %s: %w", date, err)
	}

	seen := make(map[string]struct{}, len(existing))
	for _, r := range existing {
		seen[r.Name] = struct{}{}
	}

	merged := existing
	appended := 0
	for _, r := range repos {
		if _, dup := seen[r.Name]; dup {
			continue
		}
		seen[r.Name] = struct{}{}
		merged = append(merged, r)
		appended++
	}

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("snapshot: marshal %s: %w", date, err)
	}

	if err := os.WriteFile(s.path(date), data, 0644); err != nil {
		return fmt.Errorf("snapshot: write %s: %w", date, err)
	}

	s.logger.Info("[snapshot] %s now holds %d records (%d appended)", date, len(merged), appended)
	return nil
}

// Read loads the snapshot for an exact date. A missing file surfaces as an
// os.IsNotExist error so callers can distinguish absence from corruption.
func (s *SnapshotStore) Read(date string) ([]*models.Repository, error) {
	data, err := os.ReadFile(s.path(date))
	if err != nil {
		return nil, err
	}

	var repos []*models.Repository
	if err := json.Unmarshal(data, &repos); err != nil {
		return nil, fmt.Errorf("snapshot: parse %s: %w", date, err)
	}

	for _, r := range repos {
		r.CollectedDate = date
	}
	return repos, nil
}

// Latest returns the most recently dated snapshot by filename ordering,
// or ("", nil, nil) when no snapshot exists at all.
func (s *SnapshotStore) Latest() (string, []*models.Repository, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return "", nil, fmt.Errorf("snapshot: list data dir: %w", err)
	}
	if len(matches) == 0 {
		return "", nil, nil
	}

	// ISO date filenames sort lexicographically by date.
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	newest := matches[0]
	date := strings.TrimSuffix(filepath.Base(newest), ".json")

	repos, err := s.Read(date)
	if err != nil {
		return "", nil, err
	}
	return date, repos, nil
}
