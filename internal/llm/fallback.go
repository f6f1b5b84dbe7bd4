package llm

import (
	"math"
	"strings"

	"github.com/jonathan/interview-assistant/internal/types"
)

// fallbackQuestions is the fixed per-difficulty pool used when question
// generation fails. Selection is questionIndex mod pool size, so fallback
// behavior is total and deterministic.
var fallbackQuestions = map[types.Difficulty][]string{
	types.DifficultyEasy: {
		"What is the difference between let, const, and var in JavaScript?",
		"How do you create a functional component in React?",
		"What is the purpose of the useState hook?",
		"How do you handle click events in React?",
		"What is the difference between == and === in JavaScript?",
		"How do you import and export modules in JavaScript?",
	},
	types.DifficultyMedium: {
		"How do you fetch data from an API in React?",
		"Explain how useEffect works in React with an example.",
		"How do you handle form validation in a React application?",
		"What is the difference between props and state in React?",
		"How do you create a REST API endpoint in Node.js?",
		"How do you connect a React app to a database?",
	},
	types.DifficultyHard: {
		"How do you implement user authentication in a full-stack application?",
		"Explain how you would optimize a slow React application.",
		"How do you handle error boundaries in React?",
		"How do you implement real-time features using WebSockets?",
		"How do you secure API endpoints in Node.js?",
		"How do you implement pagination in a React application?",
	},
}

// FallbackQuestion returns the deterministic local substitute for a failed
// question generation: fallbackQuestions[difficulty][index mod pool size].
func FallbackQuestion(difficulty types.Difficulty, index int) types.Question {
	pool := fallbackQuestions[difficulty]
	text := pool[index%len(pool)]
	return types.NewFallbackQuestion(text, difficulty, index)
}

// heuristicScore grades an answer locally from its length, scaled by
// difficulty-specific divisors and clamped to [0,10].
func heuristicScore(answer string, difficulty types.Difficulty) int {
	length := len(strings.TrimSpace(answer))

	var score int
	switch difficulty {
	case types.DifficultyEasy:
		score = length/20 + 3
	case types.DifficultyMedium:
		score = length/30 + 2
	default:
		score = length/50 + 1
	}

	if score > 10 {
		score = 10
	}
	return score
}

// heuristicFeedback returns the template feedback tier for a heuristic score.
func heuristicFeedback(answer string, difficulty types.Difficulty) string {
	score := heuristicScore(answer, difficulty)

	switch {
	case score >= 7:
		return "Good understanding demonstrated. Your answer shows solid technical knowledge."
	case score >= 4:
		return "Decent attempt but could benefit from more detail and specific examples."
	default:
		return "Answer needs more depth and technical accuracy. Consider reviewing the fundamentals."
	}
}

// fallbackEvaluation combines the heuristic score and feedback tiers.
func fallbackEvaluation(answer string, difficulty types.Difficulty) types.Evaluation {
	return types.Evaluation{
		Score:    heuristicScore(answer, difficulty),
		Feedback: heuristicFeedback(answer, difficulty),
		Source:   types.SourceFallback,
	}
}

// FinalScore computes the overall result from per-answer scores:
// round(mean * 10). Each answer score is in [0,10] so the result is in [0,100].
func FinalScore(answers []types.Answer) int {
	if len(answers) == 0 {
		return 0
	}
	total := 0
	for _, a := range answers {
		total += a.Score
	}
	mean := float64(total) / float64(len(answers))
	return int(math.Round(mean * 10))
}

// fallbackSummary picks the fixed score-band template for a final score.
func fallbackSummary(finalScore int) string {
	switch {
	case finalScore >= 80:
		return "Excellent candidate with strong technical skills and clear communication. Demonstrates deep understanding of full-stack concepts."
	case finalScore >= 60:
		return "Good candidate with solid fundamentals and practical knowledge. Shows potential with some areas for improvement in advanced concepts."
	case finalScore >= 40:
		return "Average candidate with basic understanding of core concepts. Needs improvement in technical depth and problem-solving approach."
	default:
		return "Below average performance with significant gaps in technical knowledge and communication skills."
	}
}
