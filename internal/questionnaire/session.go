package questionnaire

import (
	"errors"
	"strings"
)

// ErrNoQuestions is returned when a session cannot be created because
// the catalog is empty or contains no askable starting question.
var ErrNoQuestions = errors.New("questionnaire: no questions available")

// ErrNoCurrentQuestion is returned when an answer arrives without a
// question id and the session has no current question to attach it to.
var ErrNoCurrentQuestion = errors.New("questionnaire: no current question to answer")

// Session is the full per-conversation questionnaire state. It is a
// plain value: callers load it at the start of a turn, call Record, and
// persist whatever comes back. Invariant: no question in Active has an
// entry in Responses.
type Session struct {
	Questions []Question `json:"all_questions"`
	Active    []Question `json:"active_questions"`
	Index     int        `json:"current_question_index"`
	CurrentID string     `json:"current_question_id"`
	Responses Responses  `json:"responses"`
}

// NewSession seeds a session from a freshly loaded catalog: the active
// queue starts with every dependency-free question and the pointer on
// the first of them.
func NewSession(questions []Question) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	var initial []Question
	for _, q := range questions {
		if q.Dependency == nil {
			initial = append(initial, q)
		}
	}
	if len(initial) == 0 {
		return nil, ErrNoQuestions
	}

	return &Session{
		Questions: questions,
		Active:    initial,
		Index:     0,
		CurrentID: initial[0].ID,
		Responses: Responses{},
	}, nil
}

// Current returns the question the session is waiting on.
func (s *Session) Current() (Question, bool) {
	if s.Index < 0 || s.Index >= len(s.Active) {
		return Question{}, false
	}
	return s.Active[s.Index], true
}

// TurnResult is the state machine's outcome after recording one answer.
type TurnResult struct {
	// Complete is true when no eligible unanswered question remains and
	// the session should move to scoring.
	Complete bool
	// Next is the question to ask when Complete is false.
	Next Question
}

// Record applies one answer to the session. The input may address a
// question explicitly by id, or implicitly target the current pointer's
// question. It records the raw value, recomputes the active set,
// advances the pointer, and re-resolves once more if the pointer ran
// past the end (a just-recorded answer may have unlocked questions).
func (s *Session) Record(in AnswerInput) (TurnResult, error) {
	id := in.QuestionID
	if id == "" {
		cur, ok := s.Current()
		if !ok {
			return TurnResult{}, ErrNoCurrentQuestion
		}
		id = cur.ID
	}

	s.Responses.Set(id, strings.TrimSpace(in.Raw))

	active, err := Recompute(s.Questions, s.Responses, s.Active)
	if err != nil {
		return TurnResult{}, err
	}
	s.Active = active
	s.Index++

	if s.Index >= len(s.Active) {
		before := len(s.Active)
		active, err = Recompute(s.Questions, s.Responses, s.Active)
		if err != nil {
			return TurnResult{}, err
		}
		s.Active = active

		if len(s.Active) == 0 {
			s.CurrentID = ""
			return TurnResult{Complete: true}, nil
		}

		// Clamp the pointer back into bounds.
		s.Index = before
		if s.Index > len(s.Active)-1 {
			s.Index = len(s.Active) - 1
		}
	}

	next := s.Active[s.Index]
	s.CurrentID = next.ID
	return TurnResult{Next: next}, nil
}
