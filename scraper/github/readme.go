package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// readmeEnvelope is the JSON wrapper the contents API returns; the payload
// is base64 with embedded newlines.
type readmeEnvelope struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// FetchReadme retrieves the README text for an "owner/name" identifier.
// Failures are reported but callers are expected to tolerate an empty
// string and proceed with degraded inputs.
func (s *Scraper) FetchReadme(ctx context.Context, name string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/readme", s.APIURL, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("readme request for %s: %w", name, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if s.token != "" {
		req.Header.Set("Authorization", "token "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("readme fetch for %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("readme fetch for %s: status %d", name, resp.StatusCode)
	}

	var envelope readmeEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", fmt.Errorf("readme decode for %s: %w", name, err)
	}

	raw := strings.ReplaceAll(envelope.Content, "\n", "")
	text, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", fmt.Errorf("readme base64 for %s: %w", name, err)
	}

	return string(text), nil
}
