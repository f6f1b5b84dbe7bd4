package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDifficultyForIndex_Schedule(t *testing.T) {
	expected := []struct {
		index      int
		difficulty Difficulty
		maxTime    int
	}{
		{0, DifficultyEasy, 20},
		{1, DifficultyEasy, 20},
		{2, DifficultyMedium, 60},
		{3, DifficultyMedium, 60},
		{4, DifficultyHard, 120},
		{5, DifficultyHard, 120},
	}

	for _, tc := range expected {
		d, err := DifficultyForIndex(tc.index)
		require.NoError(t, err)
		assert.Equal(t, tc.difficulty, d, "index %d", tc.index)
		assert.Equal(t, tc.maxTime, d.MaxTime(), "index %d", tc.index)
	}
}

func TestDifficultyForIndex_OutOfRange(t *testing.T) {
	_, err := DifficultyForIndex(-1)
	assert.Error(t, err)

	_, err = DifficultyForIndex(TotalQuestions)
	assert.Error(t, err)
}

func TestMessageType_RejectsUnknownTag(t *testing.T) {
	var msg ChatMessage
	err := json.Unmarshal([]byte(`{"id":"m1","type":"robot","content":"hi","timestamp":"2024-01-01T00:00:00Z"}`), &msg)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"id":"m1","type":"bot","content":"hi","timestamp":"2024-01-01T00:00:00Z"}`), &msg)
	require.NoError(t, err)
	assert.Equal(t, MessageBot, msg.Type)
}

func TestNewCandidate_StartsEmpty(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	c := NewCandidate("Ada Lovelace", "ada@example.com", "555-0101", nil, now)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, StatusPending, c.Status)
	assert.Equal(t, 0, c.CurrentQuestionIndex)
	assert.Empty(t, c.Answers)
	assert.Empty(t, c.ChatHistory)
	assert.False(t, c.HasSeenWelcome)
	assert.False(t, c.HasBeenPromptedToStart)
	require.NoError(t, c.CheckProgress())
}

func TestCandidate_CheckProgress(t *testing.T) {
	c := NewCandidate("Ada", "ada@example.com", "555-0101", nil, time.Now())
	c.Answers = append(c.Answers, Answer{QuestionID: "q1", Score: 5})
	assert.Error(t, c.CheckProgress(), "index must track answer count")

	c.CurrentQuestionIndex = 1
	assert.NoError(t, c.CheckProgress())

	c.Status = StatusCompleted
	assert.Error(t, c.CheckProgress(), "completed requires a timestamp")

	done := time.Now()
	c.CompletedAt = &done
	assert.NoError(t, c.CheckProgress())
}

func TestResumeProfile_Empty(t *testing.T) {
	var p *ResumeProfile
	assert.True(t, p.Empty())
	assert.True(t, (&ResumeProfile{Text: "plain text only"}).Empty())
	assert.False(t, (&ResumeProfile{Technologies: []string{"go"}}).Empty())
}

func TestTimerState_Validate(t *testing.T) {
	now := time.Now()

	ok := TimerState{IsRunning: true, TotalDuration: 60, Remaining: 45}
	assert.NoError(t, ok.Validate())

	both := TimerState{IsRunning: true, PausedAt: &now, TotalDuration: 60, Remaining: 45}
	assert.Error(t, both.Validate())

	over := TimerState{TotalDuration: 20, Remaining: 25}
	assert.Error(t, over.Validate())
}

func TestNewQuestion_IDs(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	q := NewQuestion("What is a goroutine?", DifficultyMedium, 2, now)
	assert.Equal(t, 60, q.MaxTime)
	assert.Contains(t, q.ID, "medium-2-")
	assert.Equal(t, "Full Stack Development - Medium", q.Category)

	fb := NewFallbackQuestion("Explain channels.", DifficultyHard, 5)
	assert.Equal(t, "fallback-hard-5", fb.ID)
	assert.Equal(t, 120, fb.MaxTime)
}

func TestInterviewState_FindCandidate(t *testing.T) {
	s := NewInterviewState()
	c := NewCandidate("Ada", "ada@example.com", "555-0101", nil, time.Now())
	s.Candidates = append(s.Candidates, c)

	found := s.FindCandidate(c.ID)
	require.NotNil(t, found)
	assert.Equal(t, "Ada", found.Name)
	assert.Nil(t, s.FindCandidate("missing"))
}
