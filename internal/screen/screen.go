// Package screen defines the contract between the router and the screens
// it stacks.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizzy/internal/ui/layout"
)

type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area between header and footer.
	View(width, height int) string
	Title() string
}

// KeyHintProvider replaces the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Resumer is notified when the screen above it is popped. Screens that show
// stored data reload it here.
type Resumer interface {
	Resume() tea.Cmd
}

// BackHandler lets a screen consume Esc instead of being popped, e.g. to
// ask for confirmation while an exam is running.
type BackHandler interface {
	HandleBack() (handled bool, cmd tea.Cmd)
}

// DataChangedMsg is emitted after a screen writes to the store so that
// summaries shown elsewhere (the header, the home screen) can refresh.
type DataChangedMsg struct{}

// DataChanged is a tea.Cmd producing DataChangedMsg.
func DataChanged() tea.Msg { return DataChangedMsg{} }
