// Package engine drives the interview conversation: candidate intake, the
// ready/start handshake, question loading, answer grading, the countdown tick
// and completion. It owns the ordering rules; the store owns the state.
package engine

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/jonathan/interview-assistant/internal/observability"
	"github.com/jonathan/interview-assistant/internal/store"
	"github.com/jonathan/interview-assistant/internal/timer"
	"github.com/jonathan/interview-assistant/internal/types"
)

// GradingService produces questions, per-answer evaluations and the final
// summary. All methods are total; implementations fall back to deterministic
// local results rather than returning errors.
type GradingService interface {
	GenerateQuestion(ctx context.Context, difficulty types.Difficulty, index int, profile *types.ResumeProfile) types.Question
	EvaluateAnswer(ctx context.Context, question, answer string, difficulty types.Difficulty) types.Evaluation
	GenerateFinalSummary(ctx context.Context, answers []types.Answer) types.Summary
}

// sessionStamp identifies the session a slow grading call belongs to. A
// response whose stamp no longer matches the live session is discarded instead
// of being applied to whoever is active now.
type sessionStamp struct {
	candidateID string
	generation  uint64
}

// Engine coordinates one interview session over the store.
type Engine struct {
	store    *store.Store
	grader   GradingService
	control  *timer.Controller
	logger   *zap.Logger
	validate *validator.Validate
	now      func() time.Time

	// flight collapses concurrent generation requests for the same question
	// index into one upstream call.
	flight singleflight.Group

	// generation increments whenever the session is replaced, invalidating
	// stamps taken before the switch.
	generation atomic.Uint64

	// questionDelay is the pause between grading feedback and the next
	// question announcement.
	questionDelay time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithQuestionDelay sets the pause before loading the next question.
func WithQuestionDelay(d time.Duration) Option {
	return func(e *Engine) { e.questionDelay = d }
}

// WithNow overrides the wall clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine over the given store and grading service.
func New(st *store.Store, grader GradingService, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:         st,
		grader:        grader,
		control:       timer.NewController(),
		logger:        logger,
		validate:      validator.New(),
		now:           time.Now,
		questionDelay: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns a copy of the full session state for display.
func (e *Engine) State() types.InterviewState {
	return e.store.View()
}

// newCandidateRequest carries intake fields through validation.
type newCandidateRequest struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
	Phone string `validate:"required"`
}

// CreateCandidate registers a new candidate, makes them current and posts the
// personalized welcome message. The welcome already tells them how to start,
// so the one-time start prompt is marked as delivered.
func (e *Engine) CreateCandidate(ctx context.Context, name, email, phone string, profile *types.ResumeProfile) (types.Candidate, error) {
	req := newCandidateRequest{
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
		Phone: strings.TrimSpace(phone),
	}
	if err := e.validate.Struct(req); err != nil {
		return types.Candidate{}, fmt.Errorf("invalid candidate details: %w", err)
	}

	candidate := types.NewCandidate(req.Name, req.Email, req.Phone, profile, e.now())
	e.store.AddCandidate(candidate)
	e.generation.Add(1)
	e.control.ResetForQuestion("")

	if err := e.postBot(welcomeMessage(req.Name, profile)); err != nil {
		return types.Candidate{}, err
	}
	err := e.store.UpdateCandidate(candidate.ID, func(c *types.Candidate) {
		c.HasBeenPromptedToStart = true
	})
	if err != nil {
		return types.Candidate{}, err
	}

	e.logger.Info("candidate created",
		zap.String("candidate_id", candidate.ID),
		zap.Bool("resume_profile", !profile.Empty()))
	return candidate, nil
}

func welcomeMessage(name string, profile *types.ResumeProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s! Welcome to your personalized interview.", name)

	if !profile.Empty() && len(profile.Technologies) > 0 {
		top := profile.Technologies
		if len(top) > 3 {
			top = top[:3]
		}
		fmt.Fprintf(&b, " I see you have experience with %s. I'll be asking you questions tailored to your background.", strings.Join(top, ", "))

		var detected []string
		if n := len(profile.Skills); n > 0 {
			detected = append(detected, fmt.Sprintf("%d skills", n))
		}
		if n := len(profile.Technologies); n > 0 {
			detected = append(detected, fmt.Sprintf("%d technologies", n))
		}
		if n := len(profile.Experience); n > 0 {
			detected = append(detected, fmt.Sprintf("%d experience entries", n))
		}
		if n := len(profile.Projects); n > 0 {
			detected = append(detected, fmt.Sprintf("%d projects", n))
		}
		if len(detected) > 0 {
			fmt.Fprintf(&b, "\n\nDetected from your resume: %s.", strings.Join(detected, ", "))
		}
	} else {
		b.WriteString(" I'll be asking you general full-stack developer questions since I couldn't extract specific technologies from your resume.")
	}

	b.WriteString("\n\nI'll ask you 6 questions: 2 easy, 2 medium, and 2 hard. Each question has a time limit and will be based on your actual skills and experience.")
	b.WriteString("\n\nPlease type \"ready\" or \"start\" when you're ready to begin the interview.")
	return b.String()
}

// HandleInput routes one line of candidate input. Before the interview it is
// the start handshake; during a question it is an answer submission; anything
// else is echoed with at most one reminder of how to start.
func (e *Engine) HandleInput(ctx context.Context, text string) error {
	input := strings.TrimSpace(text)
	if input == "" {
		return nil
	}

	view := e.store.View()
	if view.CurrentCandidate == nil {
		return fmt.Errorf("no active interview session")
	}

	switch {
	case !view.IsInterviewActive && view.CurrentQuestion == nil && isStartIntent(input):
		if err := e.postUser(input); err != nil {
			return err
		}
		return e.startInterview(ctx)

	case view.IsInterviewActive && view.CurrentQuestion != nil:
		timeSpent := view.CurrentQuestion.MaxTime - view.TimeRemaining
		if err := e.postUser(input); err != nil {
			return err
		}
		return e.submitAnswer(ctx, input, timeSpent)

	default:
		if err := e.postUser(input); err != nil {
			return err
		}
		if !view.IsInterviewActive && view.CurrentQuestion == nil && !view.CurrentCandidate.HasBeenPromptedToStart {
			err := e.store.UpdateCandidate(view.CurrentCandidate.ID, func(c *types.Candidate) {
				c.HasBeenPromptedToStart = true
			})
			if err != nil {
				return err
			}
			return e.postBot(`Please type "ready" or "start" when you're ready to begin the interview.`)
		}
		return nil
	}
}

func isStartIntent(input string) bool {
	switch strings.ToLower(input) {
	case "ready", "start", "yes":
		return true
	}
	return false
}

func (e *Engine) startInterview(ctx context.Context) error {
	e.store.StartInterview()
	if err := e.postBot("Starting your interview! Generating your first question..."); err != nil {
		return err
	}
	return e.loadQuestion(ctx, 0)
}

// loadQuestion generates and announces the question at the given index.
// Concurrent requests for the same index collapse into one generation call,
// and a result arriving after the session changed is dropped.
func (e *Engine) loadQuestion(ctx context.Context, index int) error {
	_, err, _ := e.flight.Do(fmt.Sprintf("question-%d", index), func() (interface{}, error) {
		stamp := e.currentStamp()
		candidate := e.store.CurrentCandidate()
		if candidate == nil {
			return nil, fmt.Errorf("no active interview session")
		}

		difficulty, err := types.DifficultyForIndex(index)
		if err != nil {
			return nil, err
		}

		if index > 0 {
			msg := fmt.Sprintf("Generating %s question %d/%d...", difficulty, index+1, types.TotalQuestions)
			if err := e.postBot(msg); err != nil {
				return nil, err
			}
		}

		question := e.grader.GenerateQuestion(ctx, difficulty, index, candidate.ResumeData)

		if stamp != e.currentStamp() {
			e.logger.Info("discarding question for replaced session",
				zap.String("candidate_id", stamp.candidateID),
				zap.Int("index", index))
			return nil, nil
		}

		if question.Source == types.SourceFallback {
			notice := "AI service temporarily unavailable. Using pre-selected question - interview continues normally!"
			if index == 0 {
				notice = "AI service temporarily unavailable. Using pre-selected questions - your interview will continue normally!"
			}
			if err := e.postSystem(notice); err != nil {
				return nil, err
			}
		}

		e.store.SetCurrentQuestion(question)
		e.control.ResetForQuestion(question.ID)

		announce := fmt.Sprintf("Question %d/%d (%s) - %ds\n\n%s\n\nTimer starts when you begin typing your answer.",
			index+1, types.TotalQuestions, strings.ToUpper(string(question.Difficulty)), question.MaxTime, question.Text)
		return nil, e.postBot(announce)
	})
	return err
}

// submitAnswer grades one answer and advances the interview. The submission
// latch guarantees at most one recorded answer per question even when a manual
// submit and the time-up path race.
func (e *Engine) submitAnswer(ctx context.Context, answer string, timeSpent int) error {
	if !e.control.ConsumeSubmission() {
		e.logger.Debug("duplicate submission ignored",
			zap.String("question_id", e.control.QuestionID()))
		return nil
	}

	question := e.store.CurrentQuestion()
	candidate := e.store.CurrentCandidate()
	if question == nil || candidate == nil {
		return fmt.Errorf("no question awaiting an answer")
	}

	if err := e.postBot("Evaluating your answer..."); err != nil {
		return err
	}

	stamp := e.currentStamp()
	evaluation := e.grader.EvaluateAnswer(ctx, question.Text, answer, question.Difficulty)
	if stamp != e.currentStamp() {
		e.logger.Info("discarding evaluation for replaced session",
			zap.String("candidate_id", stamp.candidateID))
		return nil
	}

	if evaluation.Source == types.SourceFallback {
		if err := e.postSystem("AI evaluation service temporarily unavailable. Using basic scoring - interview continues!"); err != nil {
			return err
		}
	}

	err := e.store.AddAnswer(types.Answer{
		QuestionID: question.ID,
		Question:   question.Text,
		Answer:     answer,
		Difficulty: question.Difficulty,
		TimeSpent:  timeSpent,
		MaxTime:    question.MaxTime,
		Score:      evaluation.Score,
		Feedback:   evaluation.Feedback,
	})
	if err != nil {
		return err
	}

	feedback := fmt.Sprintf("Score: %d/10\n\nFeedback: %s", evaluation.Score, evaluation.Feedback)
	if err := e.postBot(feedback); err != nil {
		return err
	}

	return e.advanceAfterAnswer(ctx)
}

// advanceAfterAnswer moves to the next question or completes the interview.
// The session can be replaced while feedback is being posted; with no current
// candidate left there is nothing to advance.
func (e *Engine) advanceAfterAnswer(ctx context.Context) error {
	updated := e.store.CurrentCandidate()
	if updated == nil {
		e.logger.Info("session replaced after grading, not advancing")
		return nil
	}
	if updated.Completed() {
		return e.complete(ctx)
	}

	if err := e.pause(ctx); err != nil {
		return err
	}
	if err := e.postBot("Loading next question..."); err != nil {
		return err
	}
	return e.loadQuestion(ctx, updated.CurrentQuestionIndex)
}

// Tick advances the countdown by one second and fires the time-up submission
// when it reaches zero. It reports the remaining time. Ticks are ignored
// unless the countdown is actually live: interview active, question present,
// timer armed by typing, page visible and focused, interviewee tab in front.
func (e *Engine) Tick(ctx context.Context) (int, error) {
	view := e.store.View()
	if !view.IsInterviewActive || view.CurrentQuestion == nil || view.TimeRemaining <= 0 {
		return view.TimeRemaining, nil
	}
	if !e.control.Started() || !e.control.PageActive() || view.ActiveTab != types.TabInterviewee {
		return view.TimeRemaining, nil
	}

	remaining := e.store.DecrementTime()
	if remaining > 0 {
		return remaining, nil
	}

	// Time is up: submit the draft captured at expiry, never the live input,
	// with the full time limit charged.
	answer := timer.ExpiredAnswer(e.control.Draft())
	e.logger.Info("time expired, submitting captured draft",
		zap.String("question_id", view.CurrentQuestion.ID))
	return 0, e.submitAnswer(ctx, answer, view.CurrentQuestion.MaxTime)
}

// NoteTyping records the candidate's in-progress answer and starts both the
// countdown and the persisted timer on the first keystroke.
func (e *Engine) NoteTyping(text string) {
	question := e.store.CurrentQuestion()
	if question == nil {
		return
	}
	if e.control.NoteTyping(text) {
		e.store.InitializeTimer(question.MaxTime)
		e.logger.Debug("countdown armed", zap.String("question_id", question.ID))
	}
}

// SetPageVisible records browser tab visibility, pausing the timer while the
// page is hidden and resuming it when it returns.
func (e *Engine) SetPageVisible(visible bool) {
	wasActive := e.control.PageActive()
	e.control.SetVisible(visible)
	e.syncTimerToPageState(wasActive)
}

// SetWindowFocused records window focus, with the same pause semantics as
// visibility.
func (e *Engine) SetWindowFocused(focused bool) {
	wasActive := e.control.PageActive()
	e.control.SetFocused(focused)
	e.syncTimerToPageState(wasActive)
}

func (e *Engine) syncTimerToPageState(wasActive bool) {
	active := e.control.PageActive()
	if wasActive == active || !e.control.Started() {
		return
	}
	if active {
		e.store.ResumeTimer()
	} else {
		e.store.PauseTimer()
	}
}

// SetActiveTab switches between the interviewee and interviewer views.
func (e *Engine) SetActiveTab(tab types.ActiveTab) error {
	return e.store.SetActiveTab(tab)
}

// ContinueSession resumes a restored in-progress interview: the welcome-back
// prompt is dismissed for good and the candidate is greeted by name.
func (e *Engine) ContinueSession() error {
	candidate := e.store.CurrentCandidate()
	if candidate == nil {
		return fmt.Errorf("no session to continue")
	}
	err := e.store.UpdateCandidate(candidate.ID, func(c *types.Candidate) {
		c.HasSeenWelcome = true
	})
	if err != nil {
		return err
	}
	e.store.SetShowWelcomeBack(false)
	return e.postBot(fmt.Sprintf("Welcome back, %s! You can continue your interview here.", candidate.Name))
}

// RestartSession abandons the restored session and clears the way for a new
// candidate. The completed roster is kept.
func (e *Engine) RestartSession() {
	e.store.SetShowWelcomeBack(false)
	e.store.ResetCurrentSession()
	e.generation.Add(1)
	e.control.ResetForQuestion("")
}

func (e *Engine) complete(ctx context.Context) error {
	candidate := e.store.CurrentCandidate()
	if candidate == nil {
		return fmt.Errorf("no candidate to complete")
	}

	if err := e.postBot("Interview completed! Generating your final score and summary..."); err != nil {
		return err
	}

	stamp := e.currentStamp()
	result := e.grader.GenerateFinalSummary(ctx, candidate.Answers)
	if stamp != e.currentStamp() {
		e.logger.Info("discarding final summary for replaced session",
			zap.String("candidate_id", stamp.candidateID))
		return nil
	}

	err := e.store.UpdateCandidate(candidate.ID, func(c *types.Candidate) {
		c.Score = result.Score
		c.Summary = result.Summary
	})
	if err != nil {
		return err
	}
	e.store.EndInterview()
	observability.InterviewsCompleted.Inc()
	e.logger.Info("interview completed",
		zap.String("candidate_id", candidate.ID),
		zap.Int("final_score", result.Score))

	return e.postBot(fmt.Sprintf("Final Score: %d/100\n\nSummary: %s", result.Score, result.Summary))
}

func (e *Engine) currentStamp() sessionStamp {
	return sessionStamp{
		candidateID: e.store.CurrentCandidateID(),
		generation:  e.generation.Load(),
	}
}

func (e *Engine) pause(ctx context.Context) error {
	if e.questionDelay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(e.questionDelay):
		return nil
	}
}

func (e *Engine) postBot(content string) error {
	return e.store.AddChatMessage(types.NewChatMessage(types.MessageBot, content, e.now()))
}

func (e *Engine) postUser(content string) error {
	return e.store.AddChatMessage(types.NewChatMessage(types.MessageUser, content, e.now()))
}

func (e *Engine) postSystem(content string) error {
	return e.store.AddChatMessage(types.NewChatMessage(types.MessageSystem, content, e.now()))
}
