package timer

import (
	"strings"
	"sync"
)

// Controller tracks the per-question countdown gates that live outside the
// persisted aggregate: whether the candidate has started typing, the draft
// answer captured so far, page visibility and window focus, and the
// one-submission latch shared by manual submit and timer expiry.
//
// The controller is reset whenever a new question is loaded. It never
// decides on its own to submit; the engine consults it on each tick.
type Controller struct {
	mu         sync.Mutex
	questionID string
	started    bool
	draft      string
	visible    bool
	focused    bool
	submitted  bool
}

// NewController returns a controller for a freshly loaded page: visible,
// focused, no question armed.
func NewController() *Controller {
	return &Controller{visible: true, focused: true}
}

// ResetForQuestion clears the draft, disarms the countdown and re-opens the
// submission latch for a newly loaded question.
func (c *Controller) ResetForQuestion(questionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.questionID = questionID
	c.started = false
	c.draft = ""
	c.submitted = false
}

// NoteTyping captures the current input text as the draft answer and arms the
// countdown on the first non-empty input. It reports whether this call armed
// the timer.
func (c *Controller) NoteTyping(text string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = text
	if !c.started && len(text) > 0 {
		c.started = true
		return true
	}
	return false
}

// Started reports whether the candidate has begun typing for the current
// question. It never reverts until the next question is loaded.
func (c *Controller) Started() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started
}

// Draft returns the answer text captured so far, trimmed.
func (c *Controller) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.TrimSpace(c.draft)
}

// SetVisible records a page-visibility change.
func (c *Controller) SetVisible(visible bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visible = visible
}

// SetFocused records a window focus/blur change.
func (c *Controller) SetFocused(focused bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.focused = focused
}

// PageActive reports whether the page is both visible and focused. Losing
// either pauses the countdown; regaining both resumes it.
func (c *Controller) PageActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible && c.focused
}

// ConsumeSubmission closes the one-submission latch for the current question.
// It returns true for exactly one caller; a concurrent or later time-up and
// manual submit cannot both win.
func (c *Controller) ConsumeSubmission() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitted {
		return false
	}
	c.submitted = true
	return true
}

// QuestionID returns the ID the controller is currently armed for.
func (c *Controller) QuestionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.questionID
}
