package llm

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/interview-assistant/internal/observability"
	"github.com/jonathan/interview-assistant/internal/types"
)

// NoAnswerFeedback is returned for empty or whitespace-only answers. No remote
// call is made for those.
const NoAnswerFeedback = "No answer provided."

// Grader implements the grading service contract. Every operation is total:
// remote failures are logged and replaced by a deterministic local fallback so
// the interview never stalls on AI unavailability.
type Grader struct {
	client Client
	logger *zap.Logger
	now    func() time.Time
}

// NewGrader creates a grader over the given LLM client.
func NewGrader(client Client, logger *zap.Logger) *Grader {
	return &Grader{client: client, logger: logger, now: time.Now}
}

// GenerateQuestion produces the question for the given index, steered by the
// candidate's resume profile when one is present. On remote failure it selects
// from the fixed per-difficulty fallback pool.
func (g *Grader) GenerateQuestion(ctx context.Context, difficulty types.Difficulty, index int, profile *types.ResumeProfile) types.Question {
	prompt := buildQuestionPrompt(difficulty, profile)

	text, err := g.client.GenerateContent(ctx, prompt)
	if err != nil || strings.TrimSpace(text) == "" {
		g.logger.Warn("question generation failed, using fallback pool",
			zap.String("difficulty", string(difficulty)),
			zap.Int("index", index),
			zap.Error(err))
		observability.QuestionsGenerated.WithLabelValues("fallback").Inc()
		return FallbackQuestion(difficulty, index)
	}

	observability.QuestionsGenerated.WithLabelValues("ai").Inc()
	return types.NewQuestion(strings.TrimSpace(text), difficulty, index, g.now())
}

// EvaluateAnswer grades a single answer. Empty answers short-circuit to score
// zero without a remote call. Remote failures fall back to the length
// heuristic with tiered template feedback.
func (g *Grader) EvaluateAnswer(ctx context.Context, question, answer string, difficulty types.Difficulty) types.Evaluation {
	if strings.TrimSpace(answer) == "" {
		return types.Evaluation{Score: 0, Feedback: NoAnswerFeedback}
	}

	prompt := buildEvaluationPrompt(question, answer, difficulty)

	text, err := g.client.GenerateContent(ctx, prompt)
	if err != nil {
		g.logger.Warn("answer evaluation failed, using heuristic scoring",
			zap.String("difficulty", string(difficulty)),
			zap.Error(err))
		observability.AnswersGraded.WithLabelValues("fallback").Inc()
		return fallbackEvaluation(answer, difficulty)
	}

	observability.AnswersGraded.WithLabelValues("ai").Inc()
	return parseEvaluation(text, answer, difficulty)
}

// GenerateFinalSummary computes the final score from the answer list and asks
// the model for a prose summary. On failure the summary comes from the fixed
// score-band templates; the score is local arithmetic either way.
func (g *Grader) GenerateFinalSummary(ctx context.Context, answers []types.Answer) types.Summary {
	finalScore := FinalScore(answers)

	prompt := buildSummaryPrompt(answers, finalScore)

	text, err := g.client.GenerateContent(ctx, prompt)
	if err != nil || strings.TrimSpace(text) == "" {
		g.logger.Warn("final summary generation failed, using score-band template",
			zap.Int("final_score", finalScore),
			zap.Error(err))
		observability.SummariesGenerated.WithLabelValues("fallback").Inc()
		return types.Summary{Score: finalScore, Summary: fallbackSummary(finalScore)}
	}

	observability.SummariesGenerated.WithLabelValues("ai").Inc()
	return types.Summary{Score: finalScore, Summary: strings.TrimSpace(text)}
}
