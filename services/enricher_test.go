package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/wpstar1/githighlight/models"
	"github.com/wpstar1/githighlight/utils"
)

type fakeReadmes struct {
	readmes map[string]string
	errs    map[string]error
}

func (f *fakeReadmes) FetchReadme(_ context.Context, name string) (string, error) {
	if err, ok := f.errs[name]; ok {
		return "", err
	}
	return f.readmes[name], nil
}

type scriptedBackend struct{}

func (scriptedBackend) Complete(_ context.Context, _, user string) (string, error) {
	// Echo the repository name back so each record is distinguishable.
	for _, line := range strings.Split(user, "\n") {
		if rest, ok := strings.CutPrefix(line, "- Repository: "); ok {
			return fmt.Sprintf("Summary: About %s.\nFeatures:\n- does things", rest), nil
		}
	}
	return "", errors.New("no repository line in prompt")
}

func testEnricher(t *testing.T, readmes ReadmeFetcher, backend CompletionClient) *Enricher {
	t.Helper()
	logger := newTestLogger()
	pool := utils.NewWorkerPool(4, 0, 0)
	return NewEnricher(readmes, NewSummarizer(backend, logger), pool, logger)
}

func TestEnrichPreservesInputOrder(t *testing.T) {
	var candidates []*models.RawRepo
	for i := 0; i < 12; i++ {
		candidates = append(candidates, &models.RawRepo{
			Name:     fmt.Sprintf("owner/repo%02d", i),
			RawStars: "1.5k",
		})
	}

	e := testEnricher(t, &fakeReadmes{}, scriptedBackend{})
	records := e.Enrich(context.Background(), candidates, "2026-08-29")

	if len(records) != len(candidates) {
		t.Fatalf("got %d records, want %d", len(records), len(candidates))
	}
	for i, rec := range records {
		if rec.Name != candidates[i].Name {
			t.Errorf("record %d: got %q, want %q", i, rec.Name, candidates[i].Name)
		}
		if rec.Stars != 1500 {
			t.Errorf("record %d: stars = %d, want 1500", i, rec.Stars)
		}
		if rec.CollectedDate != "2026-08-29" {
			t.Errorf("record %d: collected date = %q", i, rec.CollectedDate)
		}
	}
}

func TestEnrichTolerateReadmeFailure(t *testing.T) {
	readmes := &fakeReadmes{
		readmes: map[string]string{"a/one": "```go\npkg main\n```"},
		errs:    map[string]error{"b/two": errors.New("404 not found")},
	}
	candidates := []*models.RawRepo{
		{Name: "a/one", RawStars: "10"},
		{Name: "b/two", RawStars: "20", Description: "a tool"},
	}

	e := testEnricher(t, readmes, scriptedBackend{})
	records := e.Enrich(context.Background(), candidates, "2026-08-29")

	if records[0].Code != "pkg main" {
		t.Errorf("healthy candidate: code = %q, want %q", records[0].Code, "pkg main")
	}
	if records[1] == nil {
		t.Fatal("candidate with failing README must still yield a record")
	}
	if records[1].Code != NoExampleFound {
		t.Errorf("failed README: code = %q, want sentinel", records[1].Code)
	}
	if records[1].Summary == "" {
		t.Error("failed README: summary must still be generated")
	}
}

func TestEnrichMarksDegradedOnBackendFailure(t *testing.T) {
	backend := &fakeBackend{err: errors.New("backend down")}
	e := testEnricher(t, &fakeReadmes{}, backend)

	records := e.Enrich(context.Background(), []*models.RawRepo{
		{Name: "x/y", RawStars: "10"},
	}, "2026-08-29")

	rec := records[0]
	if !rec.Degraded {
		t.Error("record should be marked degraded when the backend fails")
	}
	if rec.Summary == "" || !strings.Contains(rec.Summary, "x/y") {
		t.Errorf("degraded record still needs a usable summary, got %q", rec.Summary)
	}
}

func TestEnrichUsesGeneratorCodeWhenReadmeHasNone(t *testing.T) {
	backend := &fakeBackend{response: "Summary: ok\nCode:\nfetch(url)"}
	e := testEnricher(t, &fakeReadmes{}, backend)

	records := e.Enrich(context.Background(), []*models.RawRepo{
		{Name: "c/d", RawStars: "5"},
	}, "2026-08-29")

	if records[0].Code != "fetch(url)" {
		t.Errorf("code = %q, want generator section", records[0].Code)
	}
}
