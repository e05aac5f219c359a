package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kubemoney/scorecard/internal/questionnaire"
)

// Payload is the submit endpoint's wire contract.
type Payload struct {
	Responses map[string]string `json:"responses"`
	Score     int               `json:"score"`
	Reasoning string            `json:"reasoning"`
}

// Submitter posts the final score and normalized answers to the
// platform. A failed submission is reported as an error, never raised
// as a fatal condition: the caller tears the session down regardless.
type Submitter struct {
	endpoint string
	client   *http.Client
}

// NewSubmitter creates a submission client with a bounded timeout.
func NewSubmitter(endpoint string, timeout time.Duration) *Submitter {
	return &Submitter{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Submit re-normalizes the recorded answers (numeric select answers
// become option text) and POSTs the payload. Single attempt; transport
// failures and non-2xx statuses come back as errors.
func (s *Submitter) Submit(ctx context.Context, questions []questionnaire.Question, responses questionnaire.Responses, score int, reasoning string) error {
	formatted := make(map[string]string, len(responses))
	for _, resp := range responses {
		formatted[resp.QuestionID] = questionnaire.NormalizeResponse(questions, resp.QuestionID, resp.Value)
	}

	body, err := json.Marshal(Payload{
		Responses: formatted,
		Score:     score,
		Reasoning: reasoning,
	})
	if err != nil {
		return fmt.Errorf("encoding submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building submission request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("submitting score: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("submit endpoint returned %d", resp.StatusCode)
	}

	return nil
}
