package types

// Source records where a grading result came from: the AI service or the
// deterministic local fallback. Results produced by local rules alone, such as
// the zero score for an empty answer, carry no source.
type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
)

// Evaluation is the grading verdict for a single answer.
type Evaluation struct {
	Score    int    `json:"score"` // 0-10
	Feedback string `json:"feedback"`
	Source   Source `json:"source,omitempty"`
}

// Summary is the final interview verdict over all six answers.
type Summary struct {
	Score   int    `json:"score"` // 0-100
	Summary string `json:"summary"`
}
