package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CandidateStatus is the interview lifecycle state of a candidate.
type CandidateStatus string

const (
	StatusPending    CandidateStatus = "pending"
	StatusInProgress CandidateStatus = "in-progress"
	StatusCompleted  CandidateStatus = "completed"
)

// ResumeProfile is the best-effort structured record extracted from a resume.
// All fields may be empty; an empty profile steers question generation to a
// generic full-stack prompt instead of the candidate's technologies.
type ResumeProfile struct {
	Skills       []string `json:"skills"`
	Experience   []string `json:"experience"`
	Projects     []string `json:"projects"`
	Technologies []string `json:"technologies"`
	Text         string   `json:"text"`
	FileName     string   `json:"file_name,omitempty"`
}

// Empty reports whether the profile carries nothing usable for steering.
func (p *ResumeProfile) Empty() bool {
	if p == nil {
		return true
	}
	return len(p.Skills) == 0 && len(p.Technologies) == 0 && len(p.Experience) == 0
}

// Answer is one graded response to one question. The question text is
// snapshotted into the answer so historical display is stable even if question
// definitions change. Answers are immutable once created and append-only.
type Answer struct {
	QuestionID string     `json:"question_id"`
	Question   string     `json:"question"`
	Answer     string     `json:"answer"`
	Difficulty Difficulty `json:"difficulty"`
	TimeSpent  int        `json:"time_spent"` // seconds
	MaxTime    int        `json:"max_time"`   // seconds
	Score      int        `json:"score"`      // 0-10
	Feedback   string     `json:"feedback"`
}

// Candidate is a single interviewee's full session record: identity, resume
// profile, interview progress, graded answers and the chat transcript.
type Candidate struct {
	ID           string         `json:"id" validate:"required"`
	Name         string         `json:"name" validate:"required"`
	Email        string         `json:"email" validate:"required,email"`
	Phone        string         `json:"phone" validate:"required"`
	ResumeData   *ResumeProfile `json:"resume_data,omitempty"`

	Score   int             `json:"score"` // 0-100, final
	Summary string          `json:"summary"`
	Status  CandidateStatus `json:"status"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// CurrentQuestionIndex equals len(Answers) at all times. It never
	// decreases and reaches TotalQuestions exactly once, at completion.
	CurrentQuestionIndex int           `json:"current_question_index"`
	Answers              []Answer      `json:"answers"`
	ChatHistory          []ChatMessage `json:"chat_history"`

	// One-shot flags for the welcome-back and start-prompt flows.
	HasSeenWelcome         bool `json:"has_seen_welcome"`
	HasBeenPromptedToStart bool `json:"has_been_prompted_to_start"`
}

// NewCandidate creates a pending candidate with an empty interview record.
func NewCandidate(name, email, phone string, profile *ResumeProfile, now time.Time) Candidate {
	return Candidate{
		ID:          uuid.New().String(),
		Name:        name,
		Email:       email,
		Phone:       phone,
		ResumeData:  profile,
		Status:      StatusPending,
		CreatedAt:   now,
		Answers:     []Answer{},
		ChatHistory: []ChatMessage{},
	}
}

// CheckProgress verifies the progress invariant: the question index equals the
// number of recorded answers and stays within the six-question schedule.
func (c *Candidate) CheckProgress() error {
	if c.CurrentQuestionIndex != len(c.Answers) {
		return fmt.Errorf("candidate %s: question index %d does not match %d recorded answers",
			c.ID, c.CurrentQuestionIndex, len(c.Answers))
	}
	if c.CurrentQuestionIndex > TotalQuestions {
		return fmt.Errorf("candidate %s: question index %d exceeds %d", c.ID, c.CurrentQuestionIndex, TotalQuestions)
	}
	if c.Status == StatusCompleted && c.CompletedAt == nil {
		return fmt.Errorf("candidate %s: completed without a completion timestamp", c.ID)
	}
	return nil
}

// Completed reports whether all questions have been answered.
func (c *Candidate) Completed() bool {
	return c.CurrentQuestionIndex >= TotalQuestions
}
