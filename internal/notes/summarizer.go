package notes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// FallbackSummary is shown when the AI endpoint is unreachable or broken.
const FallbackSummary = "Error connecting to AI. Please check your connection."

// Summarizer is a thin client for the external summarization endpoint:
// POST {"text": ...} -> {"summary": ...}.
type Summarizer struct {
	endpoint string
	client   *http.Client
}

func NewSummarizer(endpoint string) *Summarizer {
	return &Summarizer{
		endpoint: endpoint,
		client:   http.DefaultClient,
	}
}

type summarizeRequest struct {
	Text string `json:"text"`
}

type summarizeResponse struct {
	Summary string `json:"summary"`
}

func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	if s.endpoint == "" {
		return "", fmt.Errorf("summarize: no endpoint configured")
	}

	body, err := json.Marshal(summarizeRequest{Text: text})
	if err != nil {
		return "", fmt.Errorf("summarize: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("summarize: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("summarize: unexpected status %d", resp.StatusCode)
	}

	var out summarizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("summarize: decode response: %w", err)
	}
	return out.Summary, nil
}
