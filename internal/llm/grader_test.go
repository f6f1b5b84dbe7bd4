package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/interview-assistant/internal/types"
)

// stubClient returns canned responses or a fixed error.
type stubClient struct {
	response string
	err      error
	calls    int
}

func (s *stubClient) GenerateContent(_ context.Context, _ string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubClient) Close() error { return nil }

func newTestGrader(client Client) *Grader {
	return NewGrader(client, zap.NewNop())
}

func TestGenerateQuestion_RemoteSuccess(t *testing.T) {
	g := newTestGrader(&stubClient{response: "How do you use channels in Go?"})

	q := g.GenerateQuestion(context.Background(), types.DifficultyMedium, 2, nil)

	assert.Equal(t, "How do you use channels in Go?", q.Text)
	assert.Equal(t, types.DifficultyMedium, q.Difficulty)
	assert.Equal(t, 60, q.MaxTime)
	assert.Equal(t, types.SourceAI, q.Source)
}

func TestGenerateQuestion_FallbackIsDeterministic(t *testing.T) {
	g := newTestGrader(&stubClient{err: errors.New("network down")})

	// Scenario: generation fails for index 3 at medium difficulty. The
	// fallback must be pool[3 % len(pool)] with the medium time limit.
	q := g.GenerateQuestion(context.Background(), types.DifficultyMedium, 3, nil)

	pool := fallbackQuestions[types.DifficultyMedium]
	assert.Equal(t, pool[3%len(pool)], q.Text)
	assert.Equal(t, 60, q.MaxTime)
	assert.Equal(t, "fallback-medium-3", q.ID)
	assert.Equal(t, types.SourceFallback, q.Source)

	again := g.GenerateQuestion(context.Background(), types.DifficultyMedium, 3, nil)
	assert.Equal(t, q, again)
}

func TestGenerateQuestion_FallbackWrapsPool(t *testing.T) {
	g := newTestGrader(&stubClient{err: errors.New("down")})

	for index := 0; index < 12; index++ {
		q := g.GenerateQuestion(context.Background(), types.DifficultyEasy, index, nil)
		pool := fallbackQuestions[types.DifficultyEasy]
		assert.Equal(t, pool[index%len(pool)], q.Text, "index %d", index)
	}
}

func TestGenerateQuestion_ProfileSteersPrompt(t *testing.T) {
	profile := &types.ResumeProfile{
		Technologies: []string{"go", "postgresql", "docker", "kubernetes"},
	}
	prompt := buildQuestionPrompt(types.DifficultyHard, profile)
	assert.Contains(t, prompt, "go, postgresql, docker")
	assert.NotContains(t, prompt, "kubernetes", "only top 3 technologies steer the prompt")

	generic := buildQuestionPrompt(types.DifficultyHard, nil)
	assert.Contains(t, generic, "common full-stack technologies")
}

func TestEvaluateAnswer_EmptyAnswerShortCircuits(t *testing.T) {
	stub := &stubClient{response: "SCORE: 9\nFEEDBACK: great"}
	g := newTestGrader(stub)

	for _, answer := range []string{"", "   ", "\n\t "} {
		ev := g.EvaluateAnswer(context.Background(), "Q?", answer, types.DifficultyEasy)
		assert.Equal(t, 0, ev.Score)
		assert.Equal(t, NoAnswerFeedback, ev.Feedback)
	}
	assert.Equal(t, 0, stub.calls, "no remote call for empty answers")
}

func TestEvaluateAnswer_ParsesScoreAndFeedback(t *testing.T) {
	g := newTestGrader(&stubClient{response: "SCORE: 8\nFEEDBACK: Solid answer with good examples."})

	ev := g.EvaluateAnswer(context.Background(), "Q?", "an answer", types.DifficultyMedium)

	assert.Equal(t, 8, ev.Score)
	assert.Equal(t, "Solid answer with good examples.", ev.Feedback)
}

func TestEvaluateAnswer_ClampsScore(t *testing.T) {
	g := newTestGrader(&stubClient{response: "SCORE: 42\nFEEDBACK: over-enthusiastic"})

	ev := g.EvaluateAnswer(context.Background(), "Q?", "an answer", types.DifficultyMedium)
	assert.Equal(t, 10, ev.Score)
}

func TestEvaluateAnswer_MissingScoreUsesHeuristic(t *testing.T) {
	answer := strings.Repeat("x", 90)
	g := newTestGrader(&stubClient{response: "FEEDBACK: no score line here"})

	ev := g.EvaluateAnswer(context.Background(), "Q?", answer, types.DifficultyMedium)

	assert.Equal(t, heuristicScore(answer, types.DifficultyMedium), ev.Score)
	assert.Equal(t, "no score line here", ev.Feedback)
}

func TestEvaluateAnswer_RemoteFailureUsesHeuristic(t *testing.T) {
	g := newTestGrader(&stubClient{err: errors.New("timeout")})

	answer := strings.Repeat("detailed explanation ", 10)
	ev := g.EvaluateAnswer(context.Background(), "Q?", answer, types.DifficultyHard)

	assert.Equal(t, heuristicScore(answer, types.DifficultyHard), ev.Score)
	assert.NotEmpty(t, ev.Feedback)
	assert.Equal(t, types.SourceFallback, ev.Source)
}

func TestHeuristicScore_DifficultyDivisors(t *testing.T) {
	answer := strings.Repeat("a", 100)

	assert.Equal(t, 8, heuristicScore(answer, types.DifficultyEasy))   // 100/20+3
	assert.Equal(t, 5, heuristicScore(answer, types.DifficultyMedium)) // 100/30+2
	assert.Equal(t, 3, heuristicScore(answer, types.DifficultyHard))   // 100/50+1

	long := strings.Repeat("a", 1000)
	assert.Equal(t, 10, heuristicScore(long, types.DifficultyEasy), "clamped at 10")
}

func TestHeuristicFeedback_Tiers(t *testing.T) {
	// easy: len 80 -> 80/20+3 = 7 -> positive tier
	positive := heuristicFeedback(strings.Repeat("a", 80), types.DifficultyEasy)
	assert.Contains(t, positive, "Good understanding")

	// easy: len 20 -> 20/20+3 = 4 -> mixed tier
	mixed := heuristicFeedback(strings.Repeat("a", 20), types.DifficultyEasy)
	assert.Contains(t, mixed, "Decent attempt")

	// hard: len 20 -> 20/50+1 = 1 -> depth tier
	depth := heuristicFeedback(strings.Repeat("a", 20), types.DifficultyHard)
	assert.Contains(t, depth, "needs more depth")
}

func TestFinalScore_RoundedMean(t *testing.T) {
	scores := []int{9, 8, 7, 6, 8, 7}
	answers := make([]types.Answer, len(scores))
	for i, s := range scores {
		answers[i] = types.Answer{Score: s}
	}

	// mean = 45/6 = 7.5, final = round(75) = 75
	assert.Equal(t, 75, FinalScore(answers))
	assert.Equal(t, 0, FinalScore(nil))
}

func TestGenerateFinalSummary_FallbackBands(t *testing.T) {
	g := newTestGrader(&stubClient{err: errors.New("down")})

	makeAnswers := func(score int) []types.Answer {
		answers := make([]types.Answer, types.TotalQuestions)
		for i := range answers {
			answers[i] = types.Answer{Score: score}
		}
		return answers
	}

	excellent := g.GenerateFinalSummary(context.Background(), makeAnswers(9))
	assert.Equal(t, 90, excellent.Score)
	assert.Contains(t, excellent.Summary, "Excellent candidate")

	good := g.GenerateFinalSummary(context.Background(), makeAnswers(7))
	assert.Equal(t, 70, good.Score)
	assert.Contains(t, good.Summary, "Good candidate")

	average := g.GenerateFinalSummary(context.Background(), makeAnswers(5))
	assert.Equal(t, 50, average.Score)
	assert.Contains(t, average.Summary, "Average candidate")

	below := g.GenerateFinalSummary(context.Background(), makeAnswers(2))
	assert.Equal(t, 20, below.Score)
	assert.Contains(t, below.Summary, "Below average")
}

func TestGenerateFinalSummary_ScenarioC(t *testing.T) {
	// Six answers scoring [9,8,7,6,8,7] with the summary service down must
	// yield 75 and the "Good candidate" band (60-79).
	scores := []int{9, 8, 7, 6, 8, 7}
	answers := make([]types.Answer, len(scores))
	for i, s := range scores {
		answers[i] = types.Answer{Score: s}
	}

	g := newTestGrader(&stubClient{err: errors.New("unavailable")})
	result := g.GenerateFinalSummary(context.Background(), answers)

	require.Equal(t, 75, result.Score)
	assert.Contains(t, result.Summary, "Good candidate")
}

func TestGenerateFinalSummary_RemoteSummaryKeepsLocalScore(t *testing.T) {
	g := newTestGrader(&stubClient{response: "A strong performance overall."})

	answers := []types.Answer{{Score: 10}, {Score: 10}}
	result := g.GenerateFinalSummary(context.Background(), answers)

	assert.Equal(t, 100, result.Score, "score is local arithmetic even on remote success")
	assert.Equal(t, "A strong performance overall.", result.Summary)
}
