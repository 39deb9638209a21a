package services

import "regexp"

// NoExampleFound is returned when no code example can be derived from the
// README text.
const NoExampleFound = "no example found"

// maxSnippetLen caps persisted code examples.
const maxSnippetLen = 300

var (
	fencedBlockRegexp = regexp.MustCompile("(?s)```[a-zA-Z0-9_+.-]*\\n(.*?)\\n```")
	inlineCodeRegexp  = regexp.MustCompile("`([^`\\n]+)`")
	commandRegexp     = regexp.MustCompile(`(?m)^[ \t]*(?:[$>]|npm|yarn|pip|pipx|python|git|go|cargo|docker|brew|make)\s+\S[^\n]*`)
)

// ExtractCodeExample derives a short illustrative snippet from README text.
// Tiers, each tried only when the previous finds nothing: first fenced code
// block, first inline backtick span, first shell/tool invocation line, then
// a fixed sentinel.
func ExtractCodeExample(text string) string {
	if m := fencedBlockRegexp.FindStringSubmatch(text); len(m) == 2 {
		return TruncateSnippet(m[1])
	}

	if m := inlineCodeRegexp.FindStringSubmatch(text); len(m) == 2 {
		return TruncateSnippet(m[1])
	}

	if m := commandRegexp.FindString(text); m != "" {
		return TruncateSnippet(trimLeadingSpace(m))
	}

	return NoExampleFound
}

// TruncateSnippet caps a snippet at maxSnippetLen bytes, appending an
// ellipsis marker when it was cut.
func TruncateSnippet(s string) string {
	if len(s) <= maxSnippetLen {
		return s
	}
	return s[:maxSnippetLen] + "..."
}

func trimLeadingSpace(s string) string {
	for len(s) > 0 && (s[0] == ' ' || s[0] == '\t') {
		s = s[1:]
	}
	return s
}
