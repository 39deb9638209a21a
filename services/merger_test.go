package services

import (
	"testing"

	"github.com/wpstar1/githighlight/models"
	"github.com/wpstar1/githighlight/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger() }

func TestMergeFirstOccurrenceWins(t *testing.T) {
	first := []*models.RawRepo{
		{Name: "a", RawStars: "1", View: "korean"},
		{Name: "b", RawStars: "first", View: "korean"},
	}
	second := []*models.RawRepo{
		{Name: "b", RawStars: "second", View: "default"},
		{Name: "c", RawStars: "3", View: "default"},
	}

	merged := NewMerger(newTestLogger()).Merge(first, second)

	if len(merged) != 3 {
		t.Fatalf("merged count: got %d, want 3", len(merged))
	}

	got := make(map[string]*models.RawRepo, len(merged))
	for _, r := range merged {
		got[r.Name] = r
	}
	for _, name := range []string{"a", "b", "c"} {
		if got[name] == nil {
			t.Fatalf("missing candidate %q", name)
		}
	}

	// "b" must be the first list's entry, fields unmerged.
	if got["b"] != first[1] {
		t.Errorf("duplicate %q resolved to later view's entry", "b")
	}
	if got["b"].RawStars != "first" {
		t.Errorf("duplicate fields merged: got stars %q, want %q", got["b"].RawStars, "first")
	}
}

func TestMergePreservesFirstSeenOrder(t *testing.T) {
	merged := NewMerger(newTestLogger()).Merge(
		[]*models.RawRepo{{Name: "x"}, {Name: "y"}},
		[]*models.RawRepo{{Name: "y"}, {Name: "z"}},
	)

	want := []string{"x", "y", "z"}
	for i, name := range want {
		if merged[i].Name != name {
			t.Errorf("position %d: got %q, want %q", i, merged[i].Name, name)
		}
	}
}

func TestMergeEndToEndStarTexts(t *testing.T) {
	viewA := []*models.RawRepo{{Name: "a", RawStars: "2k+"}}
	viewB := []*models.RawRepo{{Name: "a", RawStars: "1k+"}, {Name: "b", RawStars: "500"}}

	merged := NewMerger(newTestLogger()).Merge(viewA, viewB)

	wantStars := map[string]int{"a": 2000, "b": 500}
	for _, r := range merged {
		if got := NormalizeStars(r.RawStars); got != wantStars[r.Name] {
			t.Errorf("%s: normalized stars = %d, want %d", r.Name, got, wantStars[r.Name])
		}
	}
}
