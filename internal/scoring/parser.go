package scoring

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Provenance records how a score was obtained, for observability.
type Provenance string

const (
	// ProvenanceStructured: the reasoner returned a parsable JSON object.
	ProvenanceStructured Provenance = "structured"
	// ProvenanceFallback: the score was extracted by numeric pattern match.
	ProvenanceFallback Provenance = "fallback"
	// ProvenanceDefault: no score could be obtained; the default applies.
	ProvenanceDefault Provenance = "default"
)

// Result is a well-typed scoring outcome. Score is always in [0,100].
type Result struct {
	Score      int        `json:"score"`
	Reasoning  string     `json:"reasoning"`
	Provenance Provenance `json:"provenance"`
}

var scorePattern = regexp.MustCompile(`\d+`)

// ParseScore converts raw reasoner output into a Result. It attempts a
// structured JSON parse first, then falls back to extracting the first
// integer literal with the trailing text as reasoning. The score is
// clamped into [0,100] unconditionally; output with no number at all
// yields the default result rather than an error.
func ParseScore(raw string) Result {
	var structured struct {
		Score     *float64 `json:"score"`
		Reasoning string   `json:"reasoning"`
	}
	trimmed := strings.TrimSpace(raw)
	if err := json.Unmarshal([]byte(trimmed), &structured); err == nil && structured.Score != nil {
		reasoning := structured.Reasoning
		if reasoning == "" {
			reasoning = "No reasoning provided by the scoring model."
		}
		return Result{
			Score:      clampScore(int(*structured.Score)),
			Reasoning:  reasoning,
			Provenance: ProvenanceStructured,
		}
	}

	match := scorePattern.FindStringIndex(raw)
	if match == nil {
		return Result{
			Score:      0,
			Reasoning:  "No score found in model response. Using default score.",
			Provenance: ProvenanceDefault,
		}
	}

	n, err := strconv.Atoi(raw[match[0]:match[1]])
	if err != nil {
		return Result{
			Score:      0,
			Reasoning:  "No score found in model response. Using default score.",
			Provenance: ProvenanceDefault,
		}
	}

	reasoning := strings.Trim(strings.TrimSpace(raw[match[1]:]), `.,:"'`)
	if reasoning == "" {
		reasoning = "Score extracted from model response."
	}

	return Result{
		Score:      clampScore(n),
		Reasoning:  reasoning,
		Provenance: ProvenanceFallback,
	}
}

// clampScore bounds a score into the [0,100] scale.
func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
