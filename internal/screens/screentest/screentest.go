// Package screentest provides fixtures for screen tests: an in-memory repo
// with a fixed clock and key message builders.
package screentest

import (
	"context"
	"math/rand/v2"
	"strconv"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizzy/internal/config"
	"github.com/abhisek/quizzy/internal/explain"
	"github.com/abhisek/quizzy/internal/llm"
	"github.com/abhisek/quizzy/internal/quiz"
	"github.com/abhisek/quizzy/internal/screens"
	"github.com/abhisek/quizzy/internal/session"
	"github.com/abhisek/quizzy/internal/store"
)

// Now is the fixed time every fixture reports.
var Now = time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local)

// Bank returns a three-question bank covering every question kind. The
// correct answers are B, A+C and "Correct".
func Bank() quiz.Bank {
	return quiz.Bank{
		ID:   "bank-1",
		Name: "General knowledge",
		Questions: []quiz.Question{
			{ID: "q1", Text: "Which planet is known as the red planet?", Kind: quiz.KindSingle,
				Options: []string{"Venus", "Mars", "Jupiter"}, CorrectAnswer: quiz.Scalar(1)},
			{ID: "q2", Text: "Which of these are primes?", Kind: quiz.KindMultiple,
				Options: []string{"2", "4", "5"}, CorrectAnswer: quiz.Set(0, 2), Explanation: "4 is 2 x 2."},
			{ID: "q3", Text: "Water boils at 100C at sea level.", Kind: quiz.KindJudgment,
				Options: quiz.JudgmentOptions, CorrectAnswer: quiz.Scalar(0)},
		},
	}
}

// Deps builds screen dependencies over an in-memory store holding banks.
// provider may be nil.
func Deps(t *testing.T, provider llm.Provider, banks ...quiz.Bank) screens.Deps {
	t.Helper()
	repo := store.NewRepo(store.NewMemKV(),
		store.WithClock(func() time.Time { return Now }),
		store.WithWarningHook(nil))
	for _, b := range banks {
		if err := repo.SaveBank(context.Background(), b); err != nil {
			t.Fatalf("save bank: %v", err)
		}
	}

	n := 0
	return screens.Deps{
		Repo:      repo,
		Explainer: explain.NewService(provider, repo, explain.DefaultConfig()),
		Config:    config.Default(),
		SessionOptions: []session.Option{
			session.WithClock(func() time.Time { return Now }),
			session.WithIDs(func() string {
				n++
				return "session-" + strconv.Itoa(n)
			}),
			session.WithRand(rand.New(rand.NewPCG(1, 1))),
		},
	}
}

// Key is a printable key press.
func Key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// Special is a non-printable key press such as tea.KeyEnter.
func Special(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// Run executes cmd and any batched commands it produces, returning every
// message. cmd must not contain a tea.Tick.
func Run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, Run(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}
