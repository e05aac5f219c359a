// Package questionnaire implements the dependency-driven questionnaire
// engine behind the credit_score tool.
//
// The engine is deliberately stateless: Session is an explicit value that
// the caller reads at the start of a turn and writes back at the end.
// Persistence between turns belongs to the surrounding runtime (the
// state store), never to this package.
package questionnaire

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SessionKey is the fixed key under which the questionnaire session is
// persisted by the surrounding runtime.
const SessionKey = "credit_score_state"

// QuestionType distinguishes how an answer is interpreted.
type QuestionType string

const (
	TypeSelect QuestionType = "select"
	TypeNumber QuestionType = "number"
	TypeText   QuestionType = "text"
)

// Dependency gates a question on a prior question's canonical answer.
// The question becomes eligible only when the target question has been
// answered and its normalized answer equals Value (case-insensitively).
type Dependency struct {
	QuestionID string `json:"question_id"`
	Value      string `json:"value"`
}

// Question is one entry in the catalog. Immutable once loaded for a session.
type Question struct {
	ID         string       `json:"id"`
	Text       string       `json:"text"`
	Type       QuestionType `json:"type"`
	Options    []string     `json:"options,omitempty"`
	Dependency *Dependency  `json:"dependency,omitempty"`
}

// Format renders a question for presentation: select questions get a
// 1-based numbered option list, number questions get an input hint.
func (q Question) Format() string {
	if len(q.Options) > 0 {
		var sb strings.Builder
		sb.WriteString(q.Text)
		for i, opt := range q.Options {
			sb.WriteString(fmt.Sprintf("\n%d. %s", i+1, opt))
		}
		return sb.String()
	}
	if q.Type == TypeNumber {
		return q.Text + " (Please enter a number)"
	}
	return q.Text
}

// Find returns the catalog question with the given id.
func Find(questions []Question, id string) (Question, bool) {
	for _, q := range questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Response is one recorded answer, stored raw as given by the user.
type Response struct {
	QuestionID string `json:"question_id"`
	Value      string `json:"value"`
}

// Responses is the answer set in answered order. Answering the same
// question again overwrites the value in place; entries are never
// removed before session end.
type Responses []Response

// Has reports whether a question has been answered.
func (r Responses) Has(id string) bool {
	_, ok := r.Get(id)
	return ok
}

// Get returns the raw recorded value for a question.
func (r Responses) Get(id string) (string, bool) {
	for _, resp := range r {
		if resp.QuestionID == id {
			return resp.Value, true
		}
	}
	return "", false
}

// Set records an answer, overwriting any previous value for the same
// question while preserving its original position.
func (r *Responses) Set(id, value string) {
	for i := range *r {
		if (*r)[i].QuestionID == id {
			(*r)[i].Value = value
			return
		}
	}
	*r = append(*r, Response{QuestionID: id, Value: value})
}

// AnswerInput is a raw answer resolved at the tool boundary. Structured
// payloads (JSON objects echoing a "text" field back from the transport)
// are unwrapped exactly once, before any engine state is touched.
type AnswerInput struct {
	// QuestionID addresses the question explicitly. Empty means "the
	// question the session pointer is currently on".
	QuestionID string
	// Raw is the answer text after structured unwrapping.
	Raw string
	// Structured is true when Raw was extracted from a JSON payload.
	Structured bool
}

// ParseAnswer resolves a raw tool argument into an AnswerInput. A value
// that parses as a JSON object with a string "text" field is treated as
// a structured echo-back and unwrapped; anything else passes through.
func ParseAnswer(questionID, raw string) AnswerInput {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		var payload map[string]any
		if err := json.Unmarshal([]byte(trimmed), &payload); err == nil {
			if text, ok := payload["text"].(string); ok {
				return AnswerInput{
					QuestionID: questionID,
					Raw:        strings.TrimSpace(text),
					Structured: true,
				}
			}
		}
	}
	return AnswerInput{QuestionID: questionID, Raw: trimmed}
}
