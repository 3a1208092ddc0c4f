package components

import (
	"strconv"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// NumberInput is a labelled textinput that only accepts digits.
type NumberInput struct {
	Label string
	Model textinput.Model
}

func NewNumberInput(label string, initial int, limit int) NumberInput {
	ti := textinput.New()
	ti.CharLimit = limit
	ti.SetValue(strconv.Itoa(initial))
	return NumberInput{Label: label, Model: ti}
}

func (n NumberInput) Update(msg tea.Msg) (NumberInput, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		if t := key.Text; t != "" && (t[0] < '0' || t[0] > '9') {
			return n, nil
		}
	}
	var cmd tea.Cmd
	n.Model, cmd = n.Model.Update(msg)
	return n, cmd
}

func (n *NumberInput) Focus() tea.Cmd { return n.Model.Focus() }
func (n *NumberInput) Blur()          { n.Model.Blur() }

// Value parses the input. An empty or malformed value yields 0, which
// the exam configuration rejects.
func (n NumberInput) Value() int {
	v, err := strconv.Atoi(n.Model.Value())
	if err != nil {
		return 0
	}
	return v
}

func (n NumberInput) View() string {
	return n.Label + " " + n.Model.View()
}
