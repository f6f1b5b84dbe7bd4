package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-assistant/internal/types"
)

func TestInitialize(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	var ts types.TimerState
	Initialize(&ts, 60, now)

	assert.True(t, ts.IsRunning)
	assert.Equal(t, 60, ts.TotalDuration)
	assert.Equal(t, 60, ts.Remaining)
	require.NotNil(t, ts.StartTime)
	assert.Equal(t, now, *ts.StartTime)
	assert.Nil(t, ts.PausedAt)
	require.NoError(t, ts.Validate())
}

func TestPauseResume_DoesNotChargePausedTime(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	var ts types.TimerState
	Initialize(&ts, 60, start)
	SetRemaining(&ts, 45, start.Add(15*time.Second))

	pausedAt := start.Add(15 * time.Second)
	Pause(&ts, pausedAt)
	assert.False(t, ts.IsRunning)
	require.NotNil(t, ts.PausedAt)
	require.NoError(t, ts.Validate())

	// Two minutes pass on the wall clock while paused.
	resumedAt := pausedAt.Add(2 * time.Minute)
	Resume(&ts, resumedAt)

	assert.True(t, ts.IsRunning)
	assert.Nil(t, ts.PausedAt)
	assert.Equal(t, 45, ts.Remaining, "paused interval is not charged")
	require.NoError(t, ts.Validate())
}

func TestPause_NotRunningIsNoop(t *testing.T) {
	var ts types.TimerState
	ts.TotalDuration = 60
	ts.Remaining = 60

	Pause(&ts, time.Now())
	assert.Nil(t, ts.PausedAt)
	assert.False(t, ts.IsRunning)
}

func TestResume_RequiresPause(t *testing.T) {
	now := time.Now()
	var ts types.TimerState
	Initialize(&ts, 20, now)

	running := ts
	Resume(&running, now)
	assert.True(t, running.IsRunning)
	assert.Nil(t, running.PausedAt)
}

func TestSetRemaining_Clamps(t *testing.T) {
	now := time.Now()
	var ts types.TimerState
	Initialize(&ts, 20, now)

	SetRemaining(&ts, -5, now)
	assert.Equal(t, 0, ts.Remaining)

	SetRemaining(&ts, 300, now)
	assert.Equal(t, 20, ts.Remaining)
}

func TestExpiredAnswer(t *testing.T) {
	assert.Equal(t, "partial answer", ExpiredAnswer("partial answer"))
	assert.Equal(t, ExpiredAnswerFallback, ExpiredAnswer(""))
}

func TestController_ArmsOnFirstKeystroke(t *testing.T) {
	c := NewController()
	c.ResetForQuestion("q1")

	assert.False(t, c.Started())
	assert.True(t, c.NoteTyping("h"), "first character arms the countdown")
	assert.True(t, c.Started())
	assert.False(t, c.NoteTyping("he"), "already armed")

	// Clearing the input does not disarm until the next question.
	c.NoteTyping("")
	assert.True(t, c.Started())
	assert.Equal(t, "", c.Draft())

	c.ResetForQuestion("q2")
	assert.False(t, c.Started())
	assert.Equal(t, "q2", c.QuestionID())
}

func TestController_PageActiveNeedsVisibilityAndFocus(t *testing.T) {
	c := NewController()
	assert.True(t, c.PageActive())

	c.SetVisible(false)
	assert.False(t, c.PageActive())
	c.SetVisible(true)
	assert.True(t, c.PageActive())

	c.SetFocused(false)
	assert.False(t, c.PageActive())
	c.SetFocused(true)
	assert.True(t, c.PageActive())
}

func TestController_SubmissionLatchIsOneShot(t *testing.T) {
	c := NewController()
	c.ResetForQuestion("q1")

	assert.True(t, c.ConsumeSubmission())
	assert.False(t, c.ConsumeSubmission(), "second path loses the race")

	c.ResetForQuestion("q2")
	assert.True(t, c.ConsumeSubmission(), "latch reopens per question")
}

func TestController_DraftIsTrimmed(t *testing.T) {
	c := NewController()
	c.ResetForQuestion("q1")
	c.NoteTyping("  partial answer  ")
	assert.Equal(t, "partial answer", c.Draft())
}
