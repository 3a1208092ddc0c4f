package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizzy/internal/router"
	"github.com/abhisek/quizzy/internal/screen"
	"github.com/abhisek/quizzy/internal/screens"
	"github.com/abhisek/quizzy/internal/screens/home"
	"github.com/abhisek/quizzy/internal/ui/layout"
	"github.com/abhisek/quizzy/internal/ui/theme"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	deps   screens.Deps
	today  layout.Today

	// warning is the latest store warning, shown above the footer.
	warning string

	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(deps screens.Deps) AppModel {
	m := AppModel{
		router: router.New(home.New(deps)),
		deps:   deps,
	}
	m.refresh()
	return m
}

// refresh reloads the header summary and picks up store warnings.
func (m *AppModel) refresh() {
	rec, ok, err := m.deps.Stats().Today(screens.Ctx())
	switch {
	case err != nil:
		m.warning = err.Error()
	case ok:
		m.today = layout.Today{Answered: rec.QuestionsAnswered, Correct: rec.CorrectAnswers}
	default:
		m.today = layout.Today{}
	}
	if ws := m.deps.Repo.Warnings(); len(ws) > 0 {
		m.warning = ws[len(ws)-1].Error()
	}
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if bh, ok := m.router.Active().(screen.BackHandler); ok {
				if handled, cmd := bh.HandleBack(); handled {
					return m, cmd
				}
			}
			if m.router.Depth() > 1 {
				return m, router.Pop
			}
			return m, nil
		}

	case screen.DataChangedMsg:
		m.refresh()
		return m, m.router.Broadcast(msg)

	case router.PopScreenMsg:
		cmd := m.router.Update(msg)
		m.refresh()
		return m, cmd
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}
	header := layout.RenderHeader(title, m.today, m.width)
	footer := layout.RenderFooter(m.footerHints(), m.width)
	if m.warning != "" {
		footer = theme.Warning.MaxWidth(m.width).Render("  warning: "+m.warning) + "\n" + footer
	}

	content := m.router.View(m.width, layout.ContentHeight(header, footer, m.height))
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints() []layout.KeyHint {
	quit := layout.KeyHint{Key: "Ctrl+C", Description: "Quit"}
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		return append(p.KeyHints(), quit)
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}, quit}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		quit,
	}
}

// Run starts the Bubble Tea program.
func Run(deps screens.Deps) error {
	p := tea.NewProgram(newAppModel(deps))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
