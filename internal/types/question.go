package types

import (
	"fmt"
	"time"
)

// Question is a transient prompt shown to the candidate. It is not persisted
// independently; it exists only as the current question of the active session
// and is superseded, never mutated, when the next question is generated.
type Question struct {
	ID         string     `json:"id"`
	Text       string     `json:"question"`
	Difficulty Difficulty `json:"difficulty"`
	MaxTime    int        `json:"max_time"` // seconds, fixed by difficulty
	Category   string     `json:"category"`
	Source     Source     `json:"source,omitempty"`
}

// NewQuestion builds a generated question with a timestamped ID.
func NewQuestion(text string, difficulty Difficulty, index int, now time.Time) Question {
	return Question{
		ID:         fmt.Sprintf("%s-%d-%d", difficulty, index, now.UnixMilli()),
		Text:       text,
		Difficulty: difficulty,
		MaxTime:    difficulty.MaxTime(),
		Category:   fmt.Sprintf("Full Stack Development - %s", titleCase(string(difficulty))),
		Source:     SourceAI,
	}
}

// NewFallbackQuestion builds a question from the local fallback pool. The ID is
// deterministic so repeated fallbacks for the same index collapse to one identity.
func NewFallbackQuestion(text string, difficulty Difficulty, index int) Question {
	return Question{
		ID:         fmt.Sprintf("fallback-%s-%d", difficulty, index),
		Text:       text,
		Difficulty: difficulty,
		MaxTime:    difficulty.MaxTime(),
		Category:   fmt.Sprintf("Full Stack Development - %s", titleCase(string(difficulty))),
		Source:     SourceFallback,
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
