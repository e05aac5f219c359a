// Package server wires all MCP components and creates the server
// instance. It is the composition root: concrete collaborators are
// created here and injected into the tools that depend on them. No
// business logic lives here — only wiring.
package server

import (
	"fmt"

	"github.com/kubemoney/scorecard/internal/config"
	"github.com/kubemoney/scorecard/internal/questionnaire"
	"github.com/kubemoney/scorecard/internal/scoring"
	"github.com/kubemoney/scorecard/internal/state"
	"github.com/kubemoney/scorecard/internal/tools"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with both tools registered.
//
// The returned cleanup function closes the state store's database
// connection and must be called on shutdown (typically via defer).
func New() (*server.MCPServer, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, noop, fmt.Errorf("loading configuration: %w", err)
	}

	// Session persistence is required: without it the questionnaire
	// cannot survive between turns.
	sessions, err := state.New(state.Config{DataDir: cfg.DataDir})
	if err != nil {
		return nil, noop, fmt.Errorf("opening state store: %w", err)
	}
	cleanup := func() { _ = sessions.Close() }

	s := server.NewMCPServer(
		"scorecard",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	loader := questionnaire.NewLoader(cfg.QuestionsURL, cfg.SnapshotPath, cfg.Timeout())
	reasoner := scoring.NewHTTPReasoner(cfg.ReasonerURL, cfg.ReasonerAPIKey, cfg.Timeout())
	scorer := scoring.NewScorer(reasoner)
	submitter := scoring.NewSubmitter(cfg.SubmitURL, cfg.Timeout())

	creditScore := tools.NewCreditScoreTool(sessions, loader, scorer, submitter)
	s.AddTool(creditScore.Definition(), creditScore.Handle)

	salesAgent := tools.NewSalesAgentTool(cfg.SalesRequestURL, cfg.SalesProfileURL, cfg.Timeout())
	s.AddTool(salesAgent.Definition(), salesAgent.Handle)

	return s, cleanup, nil
}

// noop is the default cleanup when initialization fails early.
func noop() {}

// serverInstructions tells the AI how to drive the tools.
func serverInstructions() string {
	return `You have access to Scorecard, an affordability assessment server.

## credit_score — guided affordability questionnaire

The tool asks ONE question per call and tracks the session for you.

Protocol:
1. Call credit_score with no arguments to start (or with reset=true to
   start over). The response contains the first question and its
   Question ID.
2. Show the question to the user exactly as returned, including any
   numbered options.
3. When the user answers, call credit_score again with:
   - question_id: the ID echoed in the previous response
   - answer: the user's answer (option number, option text, or free text)
4. Repeat until the tool returns the final affordability score and its
   reasoning. The question flow is adaptive: answers can unlock
   follow-up questions, so never assume how many remain.

Rules:
- Never invent or reorder questions; always relay the tool's output.
- Never answer on the user's behalf.
- If the user wants to start over, call credit_score with reset=true.

## sales_agent — sales agent application

Use action=request with bank_name and position to submit an
application, or action=status to check it. Both require the user's
access_token from their logged-in session context. If the tool reports
that the user must log in, relay that — do not retry without a token.`
}
