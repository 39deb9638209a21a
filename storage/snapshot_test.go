package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/wpstar1/githighlight/models"
	"github.com/wpstar1/githighlight/utils"
)

func newSnapshotStore(t *testing.T) *SnapshotStore {
	t.Helper()
	s, err := NewSnapshotStore(t.TempDir(), utils.NewLogger())
	if err != nil {
		t.Fatalf("NewSnapshotStore: %v", err)
	}
	return s
}

func TestSnapshotWriteThenRead(t *testing.T) {
	s := newSnapshotStore(t)
	in := []*models.Repository{
		{Name: "a/one", Link: "https://github.com/a/one", Stars: 100},
		{Name: "b/two", Link: "https://github.com/b/two", Stars: 200},
	}

	if err := s.Write("2026-08-29", in); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := s.Read("2026-08-29")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].Name != "a/one" || got[1].Name != "b/two" {
		t.Errorf("input order not preserved: %q, %q", got[0].Name, got[1].Name)
	}
	if got[0].CollectedDate != "2026-08-29" {
		t.Errorf("collected date not set on read: %q", got[0].CollectedDate)
	}
}

func TestSnapshotWriteAppendsOnlyNewNames(t *testing.T) {
	s := newSnapshotStore(t)

	first := []*models.Repository{{Name: "a/one", Stars: 100}}
	if err := s.Write("2026-08-29", first); err != nil {
		t.Fatalf("first Write: %v", err)
	}

	// Second run of the same day: a/one again (with fresher stars) plus a
	// newcomer. The existing entry must win, the newcomer must be appended.
	second := []*models.Repository{
		{Name: "a/one", Stars: 150},
		{Name: "c/three", Stars: 300},
	}
	if err := s.Write("2026-08-29", second); err != nil {
		t.Fatalf("second Write: %v", err)
	}

	got, err := s.Read("2026-08-29")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].Name != "a/one" || got[0].Stars != 100 {
		t.Errorf("existing entry was overwritten: %q stars=%d", got[0].Name, got[0].Stars)
	}
	if got[1].Name != "c/three" {
		t.Errorf("newcomer not appended: %q", got[1].Name)
	}
}

func TestSnapshotReadMissingDate(t *testing.T) {
	s := newSnapshotStore(t)

	_, err := s.Read("1999-01-01")
	if !os.IsNotExist(err) {
		t.Errorf("missing snapshot should surface as not-exist, got %v", err)
	}
}

func TestSnapshotLatest(t *testing.T) {
	s := newSnapshotStore(t)

	date, repos, err := s.Latest()
	if err != nil || date != "" || repos != nil {
		t.Fatalf("empty dir: got (%q, %v, %v), want empty", date, repos, err)
	}

	for _, d := range []string{"2026-08-10", "2026-08-28", "2026-08-01"} {
		if err := s.Write(d, []*models.Repository{{Name: "r/" + d}}); err != nil {
			t.Fatalf("Write %s: %v", d, err)
		}
	}

	date, repos, err = s.Latest()
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if date != "2026-08-28" {
		t.Errorf("latest date = %q, want 2026-08-28", date)
	}
	if len(repos) != 1 || repos[0].Name != "r/2026-08-28" {
		t.Errorf("latest records wrong: %v", repos)
	}
}

func TestSnapshotInternalFieldsStayOutOfFile(t *testing.T) {
	s := newSnapshotStore(t)
	in := []*models.Repository{{Name: "a/one", ID: 7, CollectedDate: "2026-08-29", Degraded: true}}

	if err := s.Write("2026-08-29", in); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(s.dir, "2026-08-29.json"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	for _, field := range []string{"\"id\"", "collected_date", "degraded", "created_at"} {
		if bytes.Contains(data, []byte(field)) {
			t.Errorf("snapshot file leaks internal field %s", field)
		}
	}
}
