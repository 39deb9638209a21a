package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/wpstar1/githighlight/models"
	"github.com/wpstar1/githighlight/utils"
)

// CompletionClient is the text-generation backend contract.
type CompletionClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// maxReadmeExcerpt bounds how much README text is embedded in the prompt.
const maxReadmeExcerpt = 3000

const systemPrompt = "You are a technical content writer. You summarize GitHub " +
	"repositories and extract their key capabilities."

const promptTemplate = `Below is information about a GitHub repository:
- Repository: %s
- Link: %s
- Stars: %d
- Description / README excerpt:
"""
%s
"""

Write the following three sections, each starting on its own line with the exact label shown:
Summary: a concise summary of what this project does, in 2-4 sentences.
Features: the main capabilities, one per line as short bullet points.
Code: a short illustrative code or usage example, if one is apparent (otherwise omit this section).`

// Summarizer produces the summary/feature/code fields for one candidate,
// falling back to deterministic templated text whenever the backend fails
// or emits nothing recognizable. It never returns an error: generation
// failures degrade the one record instead.
type Summarizer struct {
	client CompletionClient
	logger *utils.Logger
}

// NewSummarizer creates a Summarizer backed by the given completion client.
func NewSummarizer(client CompletionClient, logger *utils.Logger) *Summarizer {
	return &Summarizer{client: client, logger: logger}
}

// Summarize makes a single backend call for the candidate. stars must
// already be normalized; excerpt is the README text (may be empty).
func (s *Summarizer) Summarize(ctx context.Context, repo *models.RawRepo, excerpt string, stars int) models.Summary {
	if excerpt == "" {
		excerpt = repo.Description
	}
	if len(excerpt) > maxReadmeExcerpt {
		excerpt = excerpt[:maxReadmeExcerpt]
	}

	prompt := fmt.Sprintf(promptTemplate, repo.Name, repo.Link, stars, excerpt)

	content, err := s.client.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		s.logger.Warn("[summarizer] Backend call failed for %s: %v — using fallback", repo.Name, err)
		return s.fallback(repo, stars)
	}

	summary, ok := parseLabeledResponse(content)
	if !ok {
		s.logger.Warn("[summarizer] No recognizable labels in response for %s — using fallback", repo.Name)
		return s.fallback(repo, stars)
	}
	return summary
}

// parseLabeledResponse scans the backend text line by line for the Summary/
// Features/Code labels. Lines between labels belong to the last seen
// section; feature lines get their bullet glyphs stripped. ok is false when
// no label was recognized at all.
func parseLabeledResponse(content string) (models.Summary, bool) {
	var summaryLines, featureLines, codeLines []string
	section := ""
	found := false

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case hasLabel(trimmed, "Summary:"):
			section = "summary"
			found = true
			if rest := labelRest(trimmed, "Summary:"); rest != "" {
				summaryLines = append(summaryLines, rest)
			}
			continue
		case hasLabel(trimmed, "Features:"):
			section = "feature"
			found = true
			if rest := labelRest(trimmed, "Features:"); rest != "" {
				featureLines = append(featureLines, stripBullet(rest))
			}
			continue
		case hasLabel(trimmed, "Code:"):
			section = "code"
			found = true
			if rest := labelRest(trimmed, "Code:"); rest != "" {
				codeLines = append(codeLines, rest)
			}
			continue
		}

		if trimmed == "" {
			continue
		}

		switch section {
		case "summary":
			summaryLines = append(summaryLines, trimmed)
		case "feature":
			if b := stripBullet(trimmed); b != "" {
				featureLines = append(featureLines, b)
			}
		case "code":
			if strings.HasPrefix(trimmed, "```") {
				continue
			}
			codeLines = append(codeLines, line)
		}
	}

	if !found {
		return models.Summary{}, false
	}

	return models.Summary{
		Summary: strings.Join(summaryLines, " "),
		Feature: strings.Join(featureLines, "\n"),
		Code:    strings.TrimSpace(strings.Join(codeLines, "\n")),
	}, true
}

func hasLabel(line, label string) bool {
	return strings.HasPrefix(strings.ToLower(line), strings.ToLower(label))
}

func labelRest(line, label string) string {
	return strings.TrimSpace(line[len(label):])
}

// stripBullet removes leading bullet/numbering glyphs from a feature line.
func stripBullet(line string) string {
	return strings.TrimSpace(strings.TrimLeft(line, "-*•·0123456789. )"))
}

// fallback builds deterministic text from the candidate's own metadata.
func (s *Summarizer) fallback(repo *models.RawRepo, stars int) models.Summary {
	short := repo.Name
	if i := strings.LastIndex(short, "/"); i >= 0 && i+1 < len(short) {
		short = short[i+1:]
	}

	language := repo.Language
	if language == "" {
		language = "open source"
	}

	summary := fmt.Sprintf("%s is a %s project with %d stars on GitHub.", repo.Name, language, stars)
	if repo.Description != "" {
		summary += " " + repo.Description
	}

	return models.Summary{
		Summary:  summary,
		Feature:  fmt.Sprintf("Provides %s-related functionality.", short),
		Fallback: true,
	}
}
