package questionnaire

import (
	"errors"
	"strings"
)

// ErrDependencyCycle is returned when the catalog's dependency graph
// contains a cycle. Questions on a cycle can never become eligible, so
// this is a defined failure rather than a silently dropped question.
var ErrDependencyCycle = errors.New("questionnaire: dependency cycle detected")

// Recompute derives the new ordered active-question list from the full
// catalog, the answers recorded so far, and the previously active list.
//
// The result contains no duplicates and nothing already answered.
// Questions that were already active keep their relative order; newly
// eligible questions are appended in catalog order.
func Recompute(all []Question, responses Responses, previous []Question) ([]Question, error) {
	if err := detectCycle(all); err != nil {
		return nil, err
	}

	// Canonical answers keyed by question id, for dependency comparison.
	normalized := make(map[string]string, len(responses))
	for _, resp := range responses {
		normalized[resp.QuestionID] = NormalizeResponse(all, resp.QuestionID, resp.Value)
	}

	// Candidate set: dependency-free unanswered questions, then a
	// fixed-point pass over dependent questions.
	candidate := make(map[string]bool, len(all))
	var candidates []Question
	for _, q := range all {
		if q.Dependency == nil && !responses.Has(q.ID) {
			candidates = append(candidates, q)
			candidate[q.ID] = true
		}
	}

	for added := true; added; {
		added = false
		for _, q := range all {
			if q.Dependency == nil || candidate[q.ID] || responses.Has(q.ID) {
				continue
			}
			answer, answered := normalized[q.Dependency.QuestionID]
			if !answered {
				continue
			}
			if strings.EqualFold(answer, q.Dependency.Value) {
				candidates = append(candidates, q)
				candidate[q.ID] = true
				added = true
			}
		}
	}

	// Stability: previously active unanswered questions keep their
	// positions, then new candidates append in catalog order.
	seen := make(map[string]bool, len(previous)+len(candidates))
	var active []Question
	for _, q := range previous {
		if !responses.Has(q.ID) && !seen[q.ID] {
			active = append(active, q)
			seen[q.ID] = true
		}
	}
	for _, q := range candidates {
		if !responses.Has(q.ID) && !seen[q.ID] {
			active = append(active, q)
			seen[q.ID] = true
		}
	}

	return active, nil
}

// detectCycle walks each question's dependency chain. A chain that
// revisits a question is a cycle: those questions can never activate,
// because activation would require an answer that can never be asked for.
func detectCycle(all []Question) error {
	for _, start := range all {
		seen := make(map[string]bool)
		cur := start
		for cur.Dependency != nil {
			if seen[cur.ID] {
				return ErrDependencyCycle
			}
			seen[cur.ID] = true
			next, ok := Find(all, cur.Dependency.QuestionID)
			if !ok {
				break
			}
			cur = next
		}
	}
	return nil
}
