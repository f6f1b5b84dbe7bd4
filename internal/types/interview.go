package types

import (
	"fmt"
	"time"
)

// ActiveTab identifies which of the two UI tabs is in front. Switching away
// from the interviewee tab pauses the timer; switching back resumes it.
type ActiveTab string

const (
	TabInterviewee ActiveTab = "interviewee"
	TabInterviewer ActiveTab = "interviewer"
)

// Valid reports whether t is a known tab.
func (t ActiveTab) Valid() bool {
	return t == TabInterviewee || t == TabInterviewer
}

// TimerState tracks the countdown for the current question. Timestamps are
// wall-clock so elapsed time can be reconciled across pauses and restores.
//
// Invariants: IsRunning and PausedAt are never both set, and Remaining stays
// within [0, TotalDuration].
type TimerState struct {
	IsRunning     bool       `json:"is_running"`
	StartTime     *time.Time `json:"start_time,omitempty"`
	PausedAt      *time.Time `json:"paused_at,omitempty"`
	TotalDuration int        `json:"total_duration"` // seconds
	Remaining     int        `json:"remaining"`      // seconds
	LastUpdated   *time.Time `json:"last_updated,omitempty"`
}

// Validate checks the timer invariants.
func (ts *TimerState) Validate() error {
	if ts.IsRunning && ts.PausedAt != nil {
		return fmt.Errorf("timer cannot be running and paused at once")
	}
	if ts.Remaining < 0 || ts.Remaining > ts.TotalDuration {
		return fmt.Errorf("timer remaining %d outside [0,%d]", ts.Remaining, ts.TotalDuration)
	}
	return nil
}

// InterviewState is the root aggregate and single source of truth for one
// interview session. It is persisted whole and restored at process start.
// The presentation layer never mutates it directly; every change goes through
// a named store operation.
type InterviewState struct {
	// CurrentCandidate is a resolved copy of the active roster entry.
	// Updates must propagate to both; see Store.UpdateCandidate.
	CurrentCandidate *Candidate  `json:"current_candidate,omitempty"`
	Candidates       []Candidate `json:"candidates"`

	IsInterviewActive bool      `json:"is_interview_active"`
	CurrentQuestion   *Question `json:"current_question,omitempty"`

	// TimeRemaining mirrors Timer.Remaining for backward compatibility with
	// the unversioned snapshot layout.
	TimeRemaining int `json:"time_remaining"`

	ShowWelcomeBack bool       `json:"show_welcome_back"`
	ActiveTab       ActiveTab  `json:"active_tab"`
	Timer           TimerState `json:"timer"`
}

// NewInterviewState returns the empty aggregate.
func NewInterviewState() InterviewState {
	return InterviewState{
		Candidates: []Candidate{},
		ActiveTab:  TabInterviewee,
	}
}

// FindCandidate returns the roster entry with the given ID, or nil.
func (s *InterviewState) FindCandidate(id string) *Candidate {
	for i := range s.Candidates {
		if s.Candidates[i].ID == id {
			return &s.Candidates[i]
		}
	}
	return nil
}
