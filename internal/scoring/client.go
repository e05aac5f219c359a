package scoring

import (
	"context"
	"fmt"
	"strings"

	"github.com/kubemoney/scorecard/internal/questionnaire"
)

// scoringRubric is the fixed system prompt for the reasoning
// collaborator: five 20-point affordability bands plus the factors the
// model should weigh.
const scoringRubric = `You are a financial expert specializing in credit scoring and affordability assessment.

Your task is to analyze the user's responses and calculate an affordability score on a scale of 0-100.

SCORING GUIDELINES:
- 0-20: Very Poor Affordability - High financial risk, very limited ability to afford credit
- 21-40: Poor Affordability - Significant financial constraints, limited ability to take on debt
- 41-60: Moderate Affordability - Some financial stability, moderate ability to handle credit
- 61-80: Good Affordability - Financially stable, good ability to manage debt obligations
- 81-100: Excellent Affordability - Very financially secure, excellent ability to handle credit

FACTORS TO CONSIDER:
- Income Level: Higher income improves affordability
- Debt-to-Income Ratio: Lower ratio improves affordability
- Education Level: Higher education often correlates with better financial stability
- Employment Status: Stable employment improves affordability
- Business Metrics (if applicable): Profitable businesses with stable operations rate higher

RESPONSE FORMAT:
Provide your analysis as a JSON object with:
1. A numeric score between 0-100
2. A brief explanation of the reasoning

Example:
{
  "score": 75,
  "reasoning": "Good income level, moderate debt, stable employment"
}`

// Scorer formats the answered questionnaire and asks the reasoning
// collaborator for an affordability score.
type Scorer struct {
	reasoner Reasoner
}

// NewScorer creates a Scorer backed by the given reasoning collaborator.
func NewScorer(r Reasoner) *Scorer {
	return &Scorer{reasoner: r}
}

// Score builds the Q&A transcript and obtains a scored result. It never
// returns an error: a failed collaborator call or unusable output
// degrades to a default zero score with a diagnostic reasoning string.
func (s *Scorer) Score(ctx context.Context, questions []questionnaire.Question, responses questionnaire.Responses) Result {
	transcript := Transcript(questions, responses)

	out, err := s.reasoner.Reason(ctx, scoringRubric,
		"Please calculate an affordability score based on these responses:\n\n"+transcript)
	if err != nil {
		return Result{
			Score:      0,
			Reasoning:  fmt.Sprintf("Error during score calculation: %v", err),
			Provenance: ProvenanceDefault,
		}
	}

	return ParseScore(out)
}

// Transcript renders answered questions as question/answer pairs, in
// answered order, with canonical (normalized) answer values. Answers to
// questions missing from the catalog fall back to "id: value" lines.
func Transcript(questions []questionnaire.Question, responses questionnaire.Responses) string {
	var blocks []string
	for _, resp := range responses {
		value := questionnaire.NormalizeResponse(questions, resp.QuestionID, resp.Value)
		if q, ok := questionnaire.Find(questions, resp.QuestionID); ok {
			blocks = append(blocks, fmt.Sprintf("Question: %s\nAnswer: %s", q.Text, value))
		} else {
			blocks = append(blocks, fmt.Sprintf("%s: %s", resp.QuestionID, value))
		}
	}
	return strings.Join(blocks, "\n\n")
}
