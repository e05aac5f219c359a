package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/kubemoney/scorecard/internal/questionnaire"
	"github.com/kubemoney/scorecard/internal/scoring"
	"github.com/kubemoney/scorecard/internal/state"
	"github.com/mark3labs/mcp-go/mcp"
)

// CreditScoreTool handles the credit_score MCP tool. It drives the
// turn-by-turn affordability questionnaire: one question per call, with
// the session persisted in the state store between calls. When the last
// eligible question is answered it scores the answer set, submits the
// result, and tears the session down.
type CreditScoreTool struct {
	sessions  *state.Store
	loader    *questionnaire.Loader
	scorer    *scoring.Scorer
	submitter *scoring.Submitter
}

// NewCreditScoreTool creates a CreditScoreTool with its collaborators.
func NewCreditScoreTool(sessions *state.Store, loader *questionnaire.Loader, scorer *scoring.Scorer, submitter *scoring.Submitter) *CreditScoreTool {
	return &CreditScoreTool{
		sessions:  sessions,
		loader:    loader,
		scorer:    scorer,
		submitter: submitter,
	}
}

// Definition returns the MCP tool definition for registration.
func (t *CreditScoreTool) Definition() mcp.Tool {
	return mcp.NewTool("credit_score",
		mcp.WithDescription(
			"Calculate the user's affordability score through a guided questionnaire. "+
				"Call without arguments to start (or resume) the assessment: the tool asks one "+
				"question at a time and echoes the current Question ID. Relay each question to "+
				"the user verbatim, then call again with 'question_id' and 'answer' set to the "+
				"user's response. For select questions the user may answer with the option "+
				"number or the option text. When every applicable question is answered, the "+
				"tool scores the responses, submits them, and returns the final score with "+
				"its reasoning.",
		),
		mcp.WithString("question_id",
			mcp.Description("ID of the question being answered, as echoed by the previous call. "+
				"Omit to answer the current question."),
		),
		mcp.WithString("answer",
			mcp.Description("The user's answer: an option number, option text, or free text."),
		),
		mcp.WithBoolean("reset",
			mcp.Description("Discard any in-progress assessment and start over (default: false)."),
		),
	)
}

// Handle processes one questionnaire turn.
func (t *CreditScoreTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reset := boolArg(req, "reset", false)

	raw, err := t.sessions.Get(questionnaire.SessionKey)
	if err != nil {
		return nil, fmt.Errorf("loading session state: %w", err)
	}

	if reset || raw == nil {
		return t.begin(ctx)
	}

	var sess questionnaire.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		// Corrupted state is unrecoverable mid-flight; restart.
		log.Printf("credit_score: discarding unreadable session state: %v", err)
		return t.begin(ctx)
	}

	return t.answer(ctx, &sess, req)
}

// begin loads the catalog, seeds a fresh session, and asks the first
// question. No session is created when the catalog is unavailable.
func (t *CreditScoreTool) begin(ctx context.Context) (*mcp.CallToolResult, error) {
	questions := t.loader.Fetch(ctx)

	sess, err := questionnaire.NewSession(questions)
	if err != nil {
		if errors.Is(err, questionnaire.ErrNoQuestions) {
			return mcp.NewToolResultError(
				"I'm unable to fetch or load the credit score questions. " +
					"Please ensure the questions endpoint is reachable or that the local " +
					"snapshot file exists and is properly formatted.",
			), nil
		}
		return nil, fmt.Errorf("creating session: %w", err)
	}

	if err := t.persist(sess); err != nil {
		return nil, err
	}

	first, _ := sess.Current()
	return mcp.NewToolResultText(fmt.Sprintf(
		"I'll help you calculate your affordability score. I'll ask you a series of questions one by one.\n\n%s\n\nQuestion ID: %s",
		first.Format(), first.ID,
	)), nil
}

// answer records one answer and either asks the next question or runs
// the terminal scoring and submission step.
func (t *CreditScoreTool) answer(ctx context.Context, sess *questionnaire.Session, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	questionID := req.GetString("question_id", "")
	rawAnswer := req.GetString("answer", "")

	input := questionnaire.ParseAnswer(questionID, rawAnswer)

	turn, err := sess.Record(input)
	if err != nil {
		switch {
		case errors.Is(err, questionnaire.ErrNoCurrentQuestion):
			return mcp.NewToolResultText(
				"There are no more questions to answer. Call credit_score with reset=true to restart the assessment.",
			), nil
		case errors.Is(err, questionnaire.ErrDependencyCycle):
			// The catalog itself is broken; nothing to resume.
			if clearErr := t.sessions.Set(questionnaire.SessionKey, nil); clearErr != nil {
				log.Printf("credit_score: clearing session after cycle: %v", clearErr)
			}
			return mcp.NewToolResultError(
				"The question set contains a dependency cycle and cannot be completed. The assessment has been reset.",
			), nil
		}
		return nil, fmt.Errorf("recording answer: %w", err)
	}

	if turn.Complete {
		return t.finish(ctx, sess)
	}

	if err := t.persist(sess); err != nil {
		return nil, err
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Thank you. %s\n\nQuestion ID: %s",
		turn.Next.Format(), turn.Next.ID,
	)), nil
}

// finish runs scoring and submission, then clears the session
// unconditionally — a failed submission never blocks teardown.
func (t *CreditScoreTool) finish(ctx context.Context, sess *questionnaire.Session) (*mcp.CallToolResult, error) {
	result := t.scorer.Score(ctx, sess.Questions, sess.Responses)

	outcome := "accepted"
	if err := t.submitter.Submit(ctx, sess.Questions, sess.Responses, result.Score, result.Reasoning); err != nil {
		outcome = err.Error()
		log.Printf("credit_score: submission failed: %v", err)
	}

	if _, err := t.sessions.RecordSubmission(state.Submission{
		SessionKey: questionnaire.SessionKey,
		Score:      result.Score,
		Reasoning:  result.Reasoning,
		Outcome:    outcome,
	}); err != nil {
		log.Printf("credit_score: recording submission audit: %v", err)
	}

	if err := t.sessions.Set(questionnaire.SessionKey, nil); err != nil {
		log.Printf("credit_score: clearing session state: %v", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Thank you for answering all the questions. Based on your responses, your affordability score is %d out of 100.\n\n"+
			"Reasoning: %s\n\n"+
			"This score indicates your current financial standing and ability to afford credit. Higher scores indicate better affordability.",
		result.Score, result.Reasoning,
	)), nil
}

// persist writes the session back to the state store.
func (t *CreditScoreTool) persist(sess *questionnaire.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session state: %w", err)
	}
	if err := t.sessions.Set(questionnaire.SessionKey, data); err != nil {
		return fmt.Errorf("saving session state: %w", err)
	}
	return nil
}
