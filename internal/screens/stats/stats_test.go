package stats

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizzy/internal/quiz"
	"github.com/abhisek/quizzy/internal/screen"
	"github.com/abhisek/quizzy/internal/screens/screentest"
)

func TestStats_Empty(t *testing.T) {
	s := New(screentest.Deps(t, nil))
	view := s.View(100, 30)
	assert.Contains(t, view, "0 banks")
	assert.Contains(t, view, "No activity today.")
	assert.NotContains(t, view, "Recent exams")
	require.NoError(t, s.err)
}

func TestStats_WithActivity(t *testing.T) {
	deps := screentest.Deps(t, nil, screentest.Bank())
	ctx := context.Background()
	repo := deps.Repo
	ts := quiz.MillisOf(screentest.Now)

	require.NoError(t, repo.RecordAnswer(ctx, quiz.UserAnswer{QuestionID: "q1", SelectedAnswer: quiz.Scalar(1), IsCorrect: true, Timestamp: ts}))
	require.NoError(t, repo.RecordAnswer(ctx, quiz.UserAnswer{QuestionID: "q3", SelectedAnswer: quiz.Scalar(1), IsCorrect: false, Timestamp: ts}))
	require.NoError(t, repo.RecordAnswer(ctx, quiz.UserAnswer{QuestionID: "gone", SelectedAnswer: quiz.Scalar(0), IsCorrect: false, Timestamp: ts}))
	_, err := repo.ToggleFavorite(ctx, "q2")
	require.NoError(t, err)

	score := 66.7
	require.NoError(t, repo.SaveSession(ctx, quiz.StudySession{
		ID: "e1", BankID: "bank-1", Mode: quiz.ModeExam, StartTime: ts, Score: &score,
		Answers: make([]quiz.UserAnswer, 3),
	}))

	s := New(deps)
	require.NoError(t, s.err)

	view := s.View(100, 40)
	assert.Contains(t, view, "1 banks · 3 questions · 3 answered · 1 favorites")
	assert.Contains(t, view, "3 answered · 1 correct · 33% accuracy")
	assert.Contains(t, view, "General knowledge")
	assert.Contains(t, view, "66.7%")
	assert.Contains(t, view, "Last 7 days")

	s.Update(screentest.Special(tea.KeyTab))
	require.Equal(t, paneWrong, s.pane)
	view = s.View(100, 40)
	assert.Contains(t, view, "Water boils at 100C at sea level.")
	assert.Contains(t, view, "1 from deleted banks")

	s.Update(screentest.Special(tea.KeyTab))
	view = s.View(100, 40)
	assert.Contains(t, view, "Which of these are primes?")

	s.Update(screentest.Special(tea.KeyTab))
	assert.Equal(t, paneOverview, s.pane)
}

func TestStats_ReloadsOnDataChanged(t *testing.T) {
	deps := screentest.Deps(t, nil, screentest.Bank())
	s := New(deps)
	assert.False(t, s.hasToday)

	require.NoError(t, deps.Repo.RecordAnswer(context.Background(), quiz.UserAnswer{
		QuestionID: "q1", SelectedAnswer: quiz.Scalar(1), IsCorrect: true, Timestamp: quiz.MillisOf(screentest.Now),
	}))
	s.Update(screen.DataChangedMsg{})
	assert.True(t, s.hasToday)
	assert.Equal(t, 1, s.today.QuestionsAnswered)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "-", percent(0, 0))
	assert.Equal(t, "50%", percent(0.5, 2))
	assert.Equal(t, 0.0, ratio(3, 0))
}
