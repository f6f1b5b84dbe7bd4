package llm

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/interview-assistant/internal/types"
)

var (
	scoreRe    = regexp.MustCompile(`SCORE:\s*(\d+)`)
	feedbackRe = regexp.MustCompile(`(?s)FEEDBACK:\s*(.+)`)
)

// parseEvaluation decodes a SCORE/FEEDBACK response. A missing or non-numeric
// score falls back to the length heuristic; missing feedback falls back to the
// tiered template. The score is clamped to [0,10].
func parseEvaluation(text, answer string, difficulty types.Difficulty) types.Evaluation {
	score := -1
	if m := scoreRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			score = n
		}
	}
	if score < 0 {
		score = heuristicScore(answer, difficulty)
	}

	feedback := ""
	if m := feedbackRe.FindStringSubmatch(text); m != nil {
		feedback = strings.TrimSpace(m[1])
	}
	if feedback == "" {
		feedback = heuristicFeedback(answer, difficulty)
	}

	return types.Evaluation{Score: clampScore(score), Feedback: feedback, Source: types.SourceAI}
}

// clampScore bounds a per-answer score to [0,10].
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}
