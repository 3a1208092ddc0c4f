// Package screens holds what the individual screens share: their
// dependencies and a few rendering helpers.
package screens

import (
	"context"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizzy/internal/config"
	"github.com/abhisek/quizzy/internal/explain"
	"github.com/abhisek/quizzy/internal/session"
	"github.com/abhisek/quizzy/internal/stats"
	"github.com/abhisek/quizzy/internal/store"
	"github.com/abhisek/quizzy/internal/ui/theme"
)

// Deps is passed to every screen.
type Deps struct {
	Repo      *store.Repo
	Explainer *explain.Service
	Config    config.Config

	// SessionOptions are forwarded to the practice and exam state machines.
	SessionOptions []session.Option
}

func (d Deps) Stats() *stats.Aggregator {
	return stats.New(d.Repo)
}

// Ctx is the context used for store calls made from the UI loop.
func Ctx() context.Context {
	return context.Background()
}

// Section renders a heading followed by body lines.
func Section(title string, lines ...string) string {
	return theme.Heading.Render(title) + "\n" + strings.Join(lines, "\n")
}

// Box draws content in a card of the given outer width.
func Box(content string, width int) string {
	return theme.Card.Width(width).Render(content)
}

// Wrap limits text to width columns.
func Wrap(text string, width int) string {
	return lipgloss.NewStyle().Width(max(width, 10)).Render(text)
}

// ErrorLine renders err as a single red line, or nothing for nil.
func ErrorLine(err error) string {
	if err == nil {
		return ""
	}
	return theme.Incorrect.Render("! " + err.Error())
}
