package llm

import (
	"fmt"
	"strings"

	"github.com/jonathan/interview-assistant/internal/types"
)

var questionDifficultyPrompts = map[types.Difficulty]string{
	types.DifficultyEasy:   "Generate a simple, practical interview question about basic concepts. Focus on fundamental knowledge that can be answered in 20 seconds.",
	types.DifficultyMedium: "Generate a practical interview question about intermediate concepts. Should be answerable in 60 seconds with specific examples.",
	types.DifficultyHard:   "Generate a focused interview question about advanced concepts. Should be answerable in 120 seconds with clear explanations.",
}

var genericDifficultyPrompts = map[types.Difficulty]string{
	types.DifficultyEasy:   "Generate a simple, practical question about basic full-stack concepts that can be answered in 20 seconds.",
	types.DifficultyMedium: "Generate a focused question about intermediate full-stack concepts that can be answered in 60 seconds with examples.",
	types.DifficultyHard:   "Generate a specific question about advanced full-stack concepts that can be answered in 120 seconds with clear explanations.",
}

// buildQuestionPrompt steers question generation toward the candidate's top
// technologies when a resume profile is present, otherwise falls back to a
// generic full-stack prompt.
func buildQuestionPrompt(difficulty types.Difficulty, profile *types.ResumeProfile) string {
	if profile.Empty() {
		return fmt.Sprintf(`%s

Focus on these common full-stack technologies:
- Frontend: JavaScript, React, HTML/CSS
- Backend: Node.js, Express, APIs
- Database: MongoDB, SQL basics
- Tools: Git, npm/yarn

Requirements for %s level:
- Keep it simple and focused on ONE concept
- Should be practical and commonly used
- Answerable within %d seconds
- Ask about practical implementation, not theory
- Avoid complex system design
- Focus on "how do you..." or "explain how..." format

Generate ONE focused question. Respond with just the question text.`,
			genericDifficultyPrompts[difficulty], difficulty, difficulty.MaxTime())
	}

	primaryTech := topItems(profile.Technologies, 3)
	if primaryTech == "" {
		primaryTech = topItems(profile.Skills, 3)
	}
	if primaryTech == "" {
		primaryTech = "JavaScript, React, Node.js"
	}

	return fmt.Sprintf(`%s

Candidate's Primary Technologies: %s

Requirements for %s level:
- Question MUST be about: %s
- Keep it simple and focused on ONE concept
- Should be practical and commonly used in projects
- Answerable within the time limit (%d seconds)
- Ask about HOW they use it in their projects
- Avoid complex system design questions
- Focus on practical implementation

Generate ONE focused question following this pattern. Respond with just the question text.`,
		questionDifficultyPrompts[difficulty], primaryTech, difficulty, primaryTech, difficulty.MaxTime())
}

// buildEvaluationPrompt asks for a structured SCORE/FEEDBACK verdict.
func buildEvaluationPrompt(question, answer string, difficulty types.Difficulty) string {
	return fmt.Sprintf(`You are a friendly technical interviewer evaluating a full-stack developer candidate's answer.

Question (%s level): %s

Candidate's Answer: %s

Evaluate this answer focusing on:
- Technical accuracy (is it correct?)
- Practical knowledge (do they understand how to use it?)
- Clarity (is the explanation clear?)
- Appropriate depth for %s level

Scoring guide:
- 8-10: Excellent answer with correct technical details
- 6-7: Good answer with minor gaps or unclear parts
- 4-5: Basic understanding but missing key details
- 1-3: Some understanding but significant errors
- 0: No meaningful answer

Provide encouraging feedback that helps them learn:
- Acknowledge what they got right
- Gently point out areas to improve
- Give specific learning suggestions

Respond in this exact format:
SCORE: [number from 0-10]
FEEDBACK: [your encouraging feedback here]`, difficulty, question, answer, difficulty)
}

// buildSummaryPrompt presents all graded answers for a final verdict.
func buildSummaryPrompt(answers []types.Answer, finalScore int) string {
	var sb strings.Builder
	for i, a := range answers {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "Question %d (%s): %s\nAnswer: %s\nScore: %d/10\nFeedback: %s",
			i+1, a.Difficulty, a.Question, a.Answer, a.Score, a.Feedback)
	}

	return fmt.Sprintf(`You are an expert technical interviewer providing a final evaluation summary.

Interview Results:
%s

Overall Score: %d/100

Please provide a comprehensive summary (3-4 sentences) that includes:
1. Overall assessment of technical skills
2. Key strengths demonstrated
3. Areas for improvement
4. Hiring recommendation

Be professional, constructive, and specific.`, sb.String(), finalScore)
}

// topItems joins the first n entries of items with ", ".
func topItems(items []string, n int) string {
	if len(items) == 0 {
		return ""
	}
	if len(items) > n {
		items = items[:n]
	}
	return strings.Join(items, ", ")
}
