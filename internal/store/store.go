// Package store owns the persisted interview aggregate. Every mutation goes
// through a named operation that mirrors a user intent; each operation
// persists the whole aggregate before returning. The presentation layer only
// ever reads copies.
package store

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/interview-assistant/internal/timer"
	"github.com/jonathan/interview-assistant/internal/types"
)

// Store is the single source of truth for one interview session. The logical
// model is single-user, but the HTTP adapter is concurrent, so a mutex guards
// the aggregate.
type Store struct {
	mu      sync.Mutex
	state   types.InterviewState
	storage Storage
	logger  *zap.Logger
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithNow overrides the wall clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New builds a store, restoring any persisted snapshot. A snapshot that fails
// validation or decoding is logged and ignored; interview continuity wins
// over strictness.
func New(storage Storage, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		state:   types.NewInterviewState(),
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := storage.Load()
	if err != nil {
		logger.Warn("failed to load snapshot, starting fresh", zap.Error(err))
		return s
	}
	if data == nil {
		return s
	}

	state, err := DecodeSnapshot(data)
	if err != nil {
		logger.Warn("snapshot rejected, starting fresh", zap.Error(err))
		return s
	}

	s.state = state
	s.repairRestoredState()
	return s
}

// repairRestoredState reconciles inconsistencies left in a restored
// snapshot and arms the welcome-back flow.
func (s *Store) repairRestoredState() {
	// Duplicate transcript IDs are a corruption condition; the repair is to
	// clear the history rather than surface an error.
	if c := s.state.CurrentCandidate; c != nil && hasDuplicateMessageIDs(c.ChatHistory) {
		s.logger.Warn("duplicate transcript message ids detected, clearing chat history",
			zap.String("candidate_id", c.ID))
		s.clearChatHistoryLocked()
	}

	// A restored question restarts its countdown from the full time limit:
	// the draft and the started flag did not survive the reload either.
	if q := s.state.CurrentQuestion; q != nil {
		s.state.TimeRemaining = q.MaxTime
		s.state.Timer = types.TimerState{
			TotalDuration: q.MaxTime,
			Remaining:     q.MaxTime,
		}
	} else {
		s.state.TimeRemaining = 0
	}

	// Welcome-back prompt: an in-progress candidate with at least one
	// recorded answer who has not dismissed the prompt yet.
	if c := s.state.CurrentCandidate; c != nil &&
		c.Status == types.StatusInProgress &&
		len(c.Answers) > 0 &&
		!c.HasSeenWelcome {
		s.state.ShowWelcomeBack = true
	}
}

func hasDuplicateMessageIDs(history []types.ChatMessage) bool {
	seen := make(map[string]struct{}, len(history))
	for _, msg := range history {
		if _, dup := seen[msg.ID]; dup {
			return true
		}
		seen[msg.ID] = struct{}{}
	}
	return false
}

// persistLocked saves the aggregate. Persistence failures are logged, not
// propagated: a failed save must not stall the interview.
func (s *Store) persistLocked() {
	data, err := EncodeSnapshot(s.state)
	if err != nil {
		s.logger.Error("failed to encode snapshot", zap.Error(err))
		return
	}
	if err := s.storage.Save(data); err != nil {
		s.logger.Error("failed to save snapshot", zap.Error(err))
	}
}

// View returns a deep copy of the aggregate for reads.
func (s *Store) View() types.InterviewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(&s.state)
}

// AddCandidate appends a candidate to the roster and makes it current.
func (s *Store) AddCandidate(c types.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Candidates = append(s.state.Candidates, c)
	current := c
	s.state.CurrentCandidate = &current
	s.persistLocked()
}

// CurrentCandidate returns a copy of the active candidate, or nil.
func (s *Store) CurrentCandidate() *types.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.CurrentCandidate == nil {
		return nil
	}
	c := cloneCandidate(s.state.CurrentCandidate)
	return &c
}

// CurrentCandidateID returns the active candidate's ID, or "".
func (s *Store) CurrentCandidateID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.CurrentCandidate == nil {
		return ""
	}
	return s.state.CurrentCandidate.ID
}

// UpdateCandidate applies a mutation to the roster entry with the given ID
// and, when it is also the active candidate, to the active slot. Callers must
// not assume one can be updated without the other.
func (s *Store) UpdateCandidate(id string, mutate func(*types.Candidate)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateCandidateLocked(id, mutate)
}

func (s *Store) updateCandidateLocked(id string, mutate func(*types.Candidate)) error {
	entry := s.state.FindCandidate(id)
	if entry == nil {
		return fmt.Errorf("candidate %s not found", id)
	}
	mutate(entry)

	if s.state.CurrentCandidate != nil && s.state.CurrentCandidate.ID == id {
		current := cloneCandidate(entry)
		s.state.CurrentCandidate = &current
	}
	s.persistLocked()
	return nil
}

// StartInterview activates the interview and moves the current candidate to
// in-progress.
func (s *Store) StartInterview() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsInterviewActive = true
	if s.state.CurrentCandidate != nil {
		id := s.state.CurrentCandidate.ID
		_ = s.updateCandidateLocked(id, func(c *types.Candidate) {
			c.Status = types.StatusInProgress
		})
		return
	}
	s.persistLocked()
}

// EndInterview deactivates the interview and marks the current candidate
// completed with a completion timestamp.
func (s *Store) EndInterview() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsInterviewActive = false
	if s.state.CurrentCandidate != nil {
		id := s.state.CurrentCandidate.ID
		completedAt := s.now()
		_ = s.updateCandidateLocked(id, func(c *types.Candidate) {
			c.Status = types.StatusCompleted
			c.CompletedAt = &completedAt
		})
		return
	}
	s.persistLocked()
}

// IsInterviewActive reports whether an interview is running.
func (s *Store) IsInterviewActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsInterviewActive
}

// SetCurrentQuestion replaces the current question and resets the countdown
// to its full time limit.
func (s *Store) SetCurrentQuestion(q types.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	question := q
	s.state.CurrentQuestion = &question
	s.state.TimeRemaining = q.MaxTime
	s.state.Timer = types.TimerState{
		TotalDuration: q.MaxTime,
		Remaining:     q.MaxTime,
	}
	s.persistLocked()
}

// CurrentQuestion returns a copy of the current question, or nil.
func (s *Store) CurrentQuestion() *types.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.CurrentQuestion == nil {
		return nil
	}
	q := *s.state.CurrentQuestion
	return &q
}

// AddAnswer appends a graded answer to the current candidate and advances the
// question index, keeping the progress invariant.
func (s *Store) AddAnswer(a types.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.CurrentCandidate == nil {
		return fmt.Errorf("no active candidate to record answer for")
	}
	id := s.state.CurrentCandidate.ID
	return s.updateCandidateLocked(id, func(c *types.Candidate) {
		c.Answers = append(c.Answers, a)
		c.CurrentQuestionIndex++
	})
}

// AddChatMessage appends a transcript entry to the current candidate. A
// duplicate message ID indicates corruption; the history is cleared and the
// new entry becomes its first message.
func (s *Store) AddChatMessage(msg types.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.CurrentCandidate == nil {
		return fmt.Errorf("no active candidate to record message for")
	}

	for _, existing := range s.state.CurrentCandidate.ChatHistory {
		if existing.ID == msg.ID {
			s.logger.Warn("duplicate transcript message id, clearing chat history",
				zap.String("message_id", msg.ID))
			s.clearChatHistoryLocked()
			break
		}
	}

	id := s.state.CurrentCandidate.ID
	return s.updateCandidateLocked(id, func(c *types.Candidate) {
		c.ChatHistory = append(c.ChatHistory, msg)
	})
}

// ClearChatHistory empties the current candidate's transcript.
func (s *Store) ClearChatHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearChatHistoryLocked()
	s.persistLocked()
}

func (s *Store) clearChatHistoryLocked() {
	if s.state.CurrentCandidate == nil {
		return
	}
	id := s.state.CurrentCandidate.ID
	if entry := s.state.FindCandidate(id); entry != nil {
		entry.ChatHistory = []types.ChatMessage{}
	}
	s.state.CurrentCandidate.ChatHistory = []types.ChatMessage{}
}

// SetShowWelcomeBack toggles the resumed-session prompt.
func (s *Store) SetShowWelcomeBack(show bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ShowWelcomeBack = show
	s.persistLocked()
}

// ResetCurrentSession detaches the active candidate and clears the active
// interview, question and countdown. The roster is untouched.
func (s *Store) ResetCurrentSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentCandidate = nil
	s.state.IsInterviewActive = false
	s.state.CurrentQuestion = nil
	s.state.TimeRemaining = 0
	s.state.Timer = types.TimerState{}
	s.persistLocked()
}

// SetActiveTab switches the active UI tab and carries the timer side effects:
// leaving the interviewee tab pauses a running countdown; returning resumes a
// paused one without charging the paused interval.
func (s *Store) SetActiveTab(tab types.ActiveTab) error {
	if !tab.Valid() {
		return fmt.Errorf("unknown tab %q", tab)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	switch {
	case s.state.ActiveTab == types.TabInterviewee && tab == types.TabInterviewer:
		timer.Pause(&s.state.Timer, now)
	case s.state.ActiveTab == types.TabInterviewer && tab == types.TabInterviewee:
		if s.state.CurrentQuestion != nil {
			timer.Resume(&s.state.Timer, now)
		}
	}

	s.state.ActiveTab = tab
	s.persistLocked()
	return nil
}

// ActiveTab returns the tab currently in front.
func (s *Store) ActiveTab() types.ActiveTab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ActiveTab
}

// InitializeTimer starts a fresh running countdown for the given duration.
func (s *Store) InitializeTimer(duration int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	timer.Initialize(&s.state.Timer, duration, s.now())
	s.state.TimeRemaining = duration
	s.persistLocked()
}

// PauseTimer pauses a running countdown.
func (s *Store) PauseTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	timer.Pause(&s.state.Timer, s.now())
	s.persistLocked()
}

// ResumeTimer resumes a paused countdown without charging the paused interval.
func (s *Store) ResumeTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	timer.Resume(&s.state.Timer, s.now())
	s.persistLocked()
}

// UpdateTimerRemaining records a new remaining value, mirrored into the
// backward-compatible TimeRemaining field.
func (s *Store) UpdateTimerRemaining(remaining int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	timer.SetRemaining(&s.state.Timer, remaining, s.now())
	s.state.TimeRemaining = s.state.Timer.Remaining
	s.persistLocked()
}

// DecrementTime ticks the countdown down one second and returns the new
// remaining value.
func (s *Store) DecrementTime() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	remaining := s.state.TimeRemaining - 1
	timer.SetRemaining(&s.state.Timer, remaining, s.now())
	s.state.TimeRemaining = s.state.Timer.Remaining
	s.persistLocked()
	return s.state.TimeRemaining
}

// TimeRemaining returns the countdown's remaining seconds.
func (s *Store) TimeRemaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.TimeRemaining
}

// TimerRunning reports whether the persisted countdown is running.
func (s *Store) TimerRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Timer.IsRunning
}

func cloneState(state *types.InterviewState) types.InterviewState {
	out := *state
	out.Candidates = make([]types.Candidate, len(state.Candidates))
	for i := range state.Candidates {
		out.Candidates[i] = cloneCandidate(&state.Candidates[i])
	}
	if state.CurrentCandidate != nil {
		c := cloneCandidate(state.CurrentCandidate)
		out.CurrentCandidate = &c
	}
	if state.CurrentQuestion != nil {
		q := *state.CurrentQuestion
		out.CurrentQuestion = &q
	}
	return out
}

func cloneCandidate(c *types.Candidate) types.Candidate {
	out := *c
	out.Answers = append([]types.Answer(nil), c.Answers...)
	out.ChatHistory = append([]types.ChatMessage(nil), c.ChatHistory...)
	if c.ResumeData != nil {
		profile := *c.ResumeData
		profile.Skills = append([]string(nil), c.ResumeData.Skills...)
		profile.Experience = append([]string(nil), c.ResumeData.Experience...)
		profile.Projects = append([]string(nil), c.ResumeData.Projects...)
		profile.Technologies = append([]string(nil), c.ResumeData.Technologies...)
		out.ResumeData = &profile
	}
	return out
}
