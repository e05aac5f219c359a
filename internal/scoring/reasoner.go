// Package scoring turns a completed questionnaire into an affordability
// score via an external reasoning collaborator, and submits the result
// to the platform. Scoring degrades instead of failing: a broken
// collaborator or unparsable output yields a default score so the
// session can always complete.
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Reasoner is the external reasoning collaborator: it takes a system
// prompt (the scoring rubric) and a user message (the Q&A transcript)
// and returns free-form text expected to contain a JSON score object.
type Reasoner interface {
	Reason(ctx context.Context, system, message string) (string, error)
}

// HTTPReasoner calls a utility-model endpoint over HTTP. The endpoint
// accepts {"system": ..., "message": ...} and replies with either a
// {"content": ...} envelope or plain text.
type HTTPReasoner struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPReasoner creates a reasoner client with a bounded timeout.
func NewHTTPReasoner(endpoint, apiKey string, timeout time.Duration) *HTTPReasoner {
	return &HTTPReasoner{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

type reasonRequest struct {
	System  string `json:"system"`
	Message string `json:"message"`
}

type reasonResponse struct {
	Content string `json:"content"`
}

// Reason sends one completion request. Single attempt, no retry.
func (r *HTTPReasoner) Reason(ctx context.Context, system, message string) (string, error) {
	body, err := json.Marshal(reasonRequest{System: system, Message: message})
	if err != nil {
		return "", fmt.Errorf("encoding reason request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building reason request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling reasoner: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("reasoner returned %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading reasoner response: %w", err)
	}

	// Prefer the content envelope; fall back to the raw body text.
	var envelope reasonResponse
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Content != "" {
		return envelope.Content, nil
	}
	return strings.TrimSpace(string(raw)), nil
}
