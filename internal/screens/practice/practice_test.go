package practice

import (
	"context"
	"encoding/json"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizzy/internal/explain"
	"github.com/abhisek/quizzy/internal/llm"
	"github.com/abhisek/quizzy/internal/screen"
	"github.com/abhisek/quizzy/internal/screens"
	"github.com/abhisek/quizzy/internal/screens/screentest"
	"github.com/abhisek/quizzy/internal/session"
)

var (
	enter = screentest.Special(tea.KeyEnter)
	key   = screentest.Key
)

func press(t *testing.T, p *PracticeScreen, msgs ...tea.Msg) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, m := range msgs {
		var s screen.Screen
		s, cmd = p.Update(m)
		require.Same(t, p, s)
	}
	return cmd
}

// started opens the first bank with the "all" filter.
func started(t *testing.T, deps screens.Deps) *PracticeScreen {
	t.Helper()
	p := New(deps)
	require.Equal(t, stepBank, p.step)
	press(t, p, enter)
	require.Equal(t, stepFilter, p.step)
	press(t, p, enter)
	require.Equal(t, stepQuestion, p.step)
	require.NoError(t, p.err)
	return p
}

func TestPractice_FullRun(t *testing.T) {
	deps := screentest.Deps(t, nil, screentest.Bank())
	ctx := context.Background()
	p := started(t, deps)

	view := p.View(100, 30)
	assert.Contains(t, view, "Which planet is known as the red planet?")
	assert.Contains(t, view, "Question 1/3")

	press(t, p, enter)
	assert.Equal(t, "Select an answer first.", p.notice)
	assert.False(t, p.practice.Revealed())

	cmd := press(t, p, key('2'), enter)
	require.True(t, p.practice.Revealed())
	assert.IsType(t, screen.DataChangedMsg{}, cmd())
	assert.Contains(t, p.View(100, 30), "Correct!")

	log, err := deps.Repo.Answers(ctx)
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.True(t, log[0].IsCorrect)

	// Multiple choice: toggle A and C, explanation comes from the bank.
	press(t, p, enter, key('1'), key('3'), enter)
	require.True(t, p.practice.Revealed())
	assert.True(t, p.practice.LastFeedback().Correct)
	assert.Equal(t, explain.SourceBank, p.explainSrc)
	assert.Contains(t, p.View(100, 30), "4 is 2 x 2.")

	// Judgment answered wrong, then the run completes and reloads.
	press(t, p, enter, key('2'), enter)
	assert.False(t, p.practice.LastFeedback().Correct)
	assert.Contains(t, p.View(100, 30), "The answer is A.")

	press(t, p, enter)
	assert.Equal(t, stepQuestion, p.step)
	assert.Contains(t, p.banner, "2/3 correct")
	assert.Equal(t, 0, p.practice.Index())

	sessions, err := deps.Repo.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	// Back to the filter menu, where the wrong filter is now available.
	handled, _ := p.HandleBack()
	require.True(t, handled)
	assert.Equal(t, stepFilter, p.step)
	assert.Equal(t, session.PhaseConfiguring, p.practice.Phase())
	wrong := p.filters.Items[2]
	assert.False(t, wrong.Disabled)
	assert.Equal(t, "1", wrong.Note)

	handled, _ = p.HandleBack()
	assert.True(t, handled)
	assert.Equal(t, stepBank, p.step)

	handled, _ = p.HandleBack()
	assert.False(t, handled)
}

func TestPractice_WrongFilterDisabledWithoutMistakes(t *testing.T) {
	p := New(screentest.Deps(t, nil, screentest.Bank()))
	press(t, p, enter)

	require.Len(t, p.filters.Items, 3)
	assert.False(t, p.filters.Items[0].Disabled)
	assert.Equal(t, "3", p.filters.Items[1].Note)
	assert.True(t, p.filters.Items[2].Disabled)
}

func TestPractice_WrongRunReloads(t *testing.T) {
	deps := screentest.Deps(t, nil, screentest.Bank())
	p := started(t, deps)

	// Miss the first question, answer the rest.
	press(t, p, key('1'), enter, enter)
	press(t, p, key('1'), key('3'), enter, enter)
	press(t, p, key('1'), enter, enter)

	handled, _ := p.HandleBack()
	require.True(t, handled)
	p.filters.Selected = 2
	press(t, p, enter)
	require.Equal(t, stepQuestion, p.step)
	require.Equal(t, 1, p.practice.Len())

	// Fixing the only mistake still leaves it in the wrong set, so the run
	// reloads with the same question.
	press(t, p, key('2'), enter, enter)
	assert.Equal(t, stepQuestion, p.step)
	assert.Contains(t, p.banner, "1/1 correct")
}

func TestPractice_ToggleFavorite(t *testing.T) {
	deps := screentest.Deps(t, nil, screentest.Bank())
	p := started(t, deps)

	cmd := press(t, p, key('f'))
	require.NotNil(t, cmd)
	assert.True(t, p.favorite)
	assert.Contains(t, p.View(100, 30), "★")

	fav, err := deps.Repo.IsFavorite(context.Background(), "q1")
	require.NoError(t, err)
	assert.True(t, fav)

	press(t, p, key('f'))
	assert.False(t, p.favorite)
}

func TestPractice_GeneratedExplanation(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"explanation":"Iron oxide makes Mars look red.","keyPoints":[]}`),
	})
	deps := screentest.Deps(t, mock, screentest.Bank())
	p := started(t, deps)

	press(t, p, key('1'), enter)
	require.True(t, p.practice.Revealed())
	assert.Equal(t, explain.SourceNone, p.explainSrc)

	cmd := press(t, p, key('e'))
	require.NotNil(t, cmd)
	assert.True(t, p.explaining)
	assert.Contains(t, p.View(100, 30), "Generating explanation")

	press(t, p, cmd())
	assert.False(t, p.explaining)
	assert.Equal(t, explain.SourceGenerated, p.explainSrc)
	assert.Contains(t, p.View(100, 30), "Iron oxide makes Mars look red.")

	req := mock.Requests()[0]
	assert.Contains(t, req.Messages[0].Content, "Learner answered: A (incorrect)")

	// A stale explanation for another question is dropped.
	press(t, p, enter)
	press(t, p, explanationMsg{questionID: "q1", text: "late"})
	assert.Empty(t, p.explanation)
}

func TestPractice_ExplainWithoutProvider(t *testing.T) {
	p := started(t, screentest.Deps(t, nil, screentest.Bank()))
	press(t, p, key('2'), enter)

	cmd := press(t, p, key('e'))
	assert.Nil(t, cmd)
	assert.Contains(t, p.notice, "No LLM provider")
}

func TestPractice_KeyHints(t *testing.T) {
	p := started(t, screentest.Deps(t, nil, screentest.Bank()))
	assert.Equal(t, "Submit", p.KeyHints()[1].Description)

	press(t, p, key('2'), enter)
	assert.Equal(t, "Next", p.KeyHints()[0].Description)
}
