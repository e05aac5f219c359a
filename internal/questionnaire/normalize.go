package questionnaire

import "strings"

// Normalize maps a raw answer to its canonical value for the given
// question. Canonical values are what dependency comparisons and the
// final submission see.
//
// Rules:
//   - select + all-digit answer: 1-based index into the options; in
//     range resolves to the option text, out of range passes the raw
//     string through unchanged (defensive, not an error).
//   - select + free text: case-insensitive exact match against the
//     options resolves to the matching option's exact text; no match
//     passes the raw text through.
//   - everything else: the trimmed text with surrounding quotes stripped.
func Normalize(q Question, in AnswerInput) string {
	raw := trimAnswer(in.Raw)

	if q.Type != TypeSelect || len(q.Options) == 0 {
		return raw
	}

	if isDigits(raw) {
		idx := parseIndex(raw) - 1
		if idx >= 0 && idx < len(q.Options) {
			return q.Options[idx]
		}
		return raw
	}

	for _, opt := range q.Options {
		if strings.EqualFold(raw, opt) {
			return opt
		}
	}
	return raw
}

// NormalizeResponse is Normalize keyed by question id. Answers to
// questions no longer in the catalog are trimmed and passed through.
func NormalizeResponse(questions []Question, id, raw string) string {
	q, ok := Find(questions, id)
	if !ok {
		return trimAnswer(raw)
	}
	return Normalize(q, AnswerInput{QuestionID: id, Raw: raw})
}

// trimAnswer strips surrounding whitespace and quote characters.
func trimAnswer(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'`)
}

// isDigits reports whether s is non-empty and consists only of digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseIndex converts an all-digit string to an int. Inputs too large
// for an option index saturate rather than overflow.
func parseIndex(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
		if n > 1<<20 {
			return 1 << 20
		}
	}
	return n
}
