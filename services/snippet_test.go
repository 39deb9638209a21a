package services

import (
	"strings"
	"testing"
)

func TestExtractCodeExampleFencedBlock(t *testing.T) {
	readme := "# Project\n\nInstall it:\n\n```go\nfmt.Println(\"hello\")\n```\n\nMore `inline` text.\n"

	got := ExtractCodeExample(readme)
	want := "fmt.Println(\"hello\")"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExtractCodeExampleInlineFallback(t *testing.T) {
	readme := "Run `make install` and then `make test` to verify."

	got := ExtractCodeExample(readme)
	if got != "make install" {
		t.Errorf("got %q, want first inline span %q", got, "make install")
	}
}

func TestExtractCodeExampleCommandFallback(t *testing.T) {
	readme := "Installation\n\nnpm install some-package\n\nThen configure it."

	got := ExtractCodeExample(readme)
	if got != "npm install some-package" {
		t.Errorf("got %q, want %q", got, "npm install some-package")
	}
}

func TestExtractCodeExampleSentinel(t *testing.T) {
	got := ExtractCodeExample("Just prose. Nothing resembling code at all.")
	if got != NoExampleFound {
		t.Errorf("got %q, want sentinel %q", got, NoExampleFound)
	}
}

func TestExtractCodeExampleTruncation(t *testing.T) {
	block := strings.Repeat("x", 500)
	readme := "```\n" + block + "\n```"

	got := ExtractCodeExample(readme)
	if len(got) != 303 {
		t.Errorf("truncated length: got %d, want 303", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated value should end with ellipsis marker, got %q", got[len(got)-10:])
	}
}

func TestExtractCodeExampleShortBlockNotTruncated(t *testing.T) {
	readme := "```\nshort\n```"
	if got := ExtractCodeExample(readme); got != "short" {
		t.Errorf("got %q, want %q", got, "short")
	}
}
