// Package timer implements the per-question countdown: wall-clock timer state
// transitions plus the per-question gating (start on first keystroke, page
// visibility, exactly-one-submission) that the interview engine consults.
package timer

import (
	"time"

	"github.com/jonathan/interview-assistant/internal/types"
)

// ExpiredAnswerFallback is submitted when time runs out with an empty input.
const ExpiredAnswerFallback = "No answer provided (time expired)"

// Initialize starts a fresh running timer for the given duration.
func Initialize(ts *types.TimerState, duration int, now time.Time) {
	*ts = types.TimerState{
		IsRunning:     true,
		StartTime:     &now,
		TotalDuration: duration,
		Remaining:     duration,
		LastUpdated:   &now,
	}
}

// Pause stops a running timer, capturing the pause instant. Pausing a timer
// that is not running is a no-op.
func Pause(ts *types.TimerState, now time.Time) {
	if !ts.IsRunning {
		return
	}
	ts.IsRunning = false
	ts.PausedAt = &now
	ts.LastUpdated = &now
}

// Resume restarts a paused timer. The wall-clock interval spent paused is not
// charged against the candidate: Remaining is left untouched.
func Resume(ts *types.TimerState, now time.Time) {
	if ts.IsRunning || ts.PausedAt == nil {
		return
	}
	ts.IsRunning = true
	ts.PausedAt = nil
	ts.LastUpdated = &now
}

// SetRemaining records a new remaining value, clamped to [0, TotalDuration].
func SetRemaining(ts *types.TimerState, remaining int, now time.Time) {
	if remaining < 0 {
		remaining = 0
	}
	if ts.TotalDuration > 0 && remaining > ts.TotalDuration {
		remaining = ts.TotalDuration
	}
	ts.Remaining = remaining
	ts.LastUpdated = &now
}

// ExpiredAnswer returns the text submitted on expiry: the draft captured at
// the moment time ran out, or the fixed fallback when it is empty.
func ExpiredAnswer(draft string) string {
	if draft == "" {
		return ExpiredAnswerFallback
	}
	return draft
}
