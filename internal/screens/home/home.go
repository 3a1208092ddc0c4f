package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizzy/internal/router"
	"github.com/abhisek/quizzy/internal/screen"
	"github.com/abhisek/quizzy/internal/screens"
	"github.com/abhisek/quizzy/internal/screens/exam"
	"github.com/abhisek/quizzy/internal/screens/practice"
	statsscreen "github.com/abhisek/quizzy/internal/screens/stats"
	"github.com/abhisek/quizzy/internal/stats"
	"github.com/abhisek/quizzy/internal/ui/components"
	"github.com/abhisek/quizzy/internal/ui/layout"
	"github.com/abhisek/quizzy/internal/ui/theme"
)

const noBanksNote = "import a bank: quizzy import FILE"

// HomeScreen is the main menu.
type HomeScreen struct {
	deps     screens.Deps
	menu     components.Menu
	overview *stats.Overview
	err      error
}

var (
	_ screen.Screen  = (*HomeScreen)(nil)
	_ screen.Resumer = (*HomeScreen)(nil)
)

func New(deps screens.Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}
	h.reload()
	return h
}

func (h *HomeScreen) reload() {
	ov, err := h.deps.Stats().Overview(screens.Ctx())
	h.overview, h.err = ov, err

	noBanks := ov == nil || ov.Banks == 0
	note := ""
	if noBanks {
		note = noBanksNote
	}
	selected := h.menu.Selected

	h.menu = components.NewMenu([]components.MenuItem{
		{Label: "Practice", Note: note, Disabled: noBanks, Action: func() tea.Cmd {
			return router.Push(practice.New(h.deps))
		}},
		{Label: "Exam", Note: note, Disabled: noBanks, Action: func() tea.Cmd {
			return router.Push(exam.New(h.deps))
		}},
		{Label: "Statistics", Action: func() tea.Cmd {
			return router.Push(statsscreen.New(h.deps))
		}},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	})
	if selected < len(h.menu.Items) && !h.menu.Items[selected].Disabled {
		h.menu.Selected = selected
	}
}

func (h *HomeScreen) Init() tea.Cmd { return nil }

func (h *HomeScreen) Resume() tea.Cmd {
	h.reload()
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.DataChangedMsg:
		h.reload()
		return h, nil
	case tea.KeyPressMsg:
		if msg.String() == "q" {
			return h, tea.Quit
		}
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string
	sections = append(sections, theme.Title.Render("Quizzy"), theme.Subtitle.Render("Practice question banks and take timed exams"))

	if h.err != nil {
		sections = append(sections, screens.ErrorLine(h.err))
	} else if ov := h.overview; ov != nil {
		sections = append(sections, theme.Body.Render(summaryLine(ov)))
	}

	sections = append(sections, h.menu.View())
	return layout.Centered(strings.Join(sections, "\n\n"), width, height)
}

func summaryLine(ov *stats.Overview) string {
	if ov.Banks == 0 {
		return "No question banks yet."
	}
	banks := "banks"
	if ov.Banks == 1 {
		banks = "bank"
	}
	line := fmt.Sprintf("%d %s · %d questions · %d answered", ov.Banks, banks, ov.TotalQuestions, ov.Answered)
	if ov.Attempts > 0 {
		line += fmt.Sprintf(" · %.0f%% accuracy", ov.Percent())
	}
	return line
}

func (h *HomeScreen) Title() string { return "Home" }

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "Enter", Description: "Open"},
		{Key: "q", Description: "Quit"},
	}
}
