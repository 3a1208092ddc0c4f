package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizzy/internal/quiz"
	"github.com/abhisek/quizzy/internal/ui/theme"
)

// OptionList renders the options of one question with a cursor. It does
// not own the selection; screens keep that in the session state machine and
// pass it to View.
type OptionList struct {
	Options  []string
	Multiple bool
	Cursor   int
}

func NewOptionList(q quiz.Question) OptionList {
	return OptionList{Options: q.Options, Multiple: q.Kind == quiz.KindMultiple}
}

// Update moves the cursor and reports which option, if any, was picked:
// Space picks the option under the cursor and digits pick by position.
// chosen is -1 when nothing was picked.
func (o OptionList) Update(msg tea.Msg) (next OptionList, chosen int) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return o, -1
	}
	switch k := key.String(); k {
	case "up", "k":
		o.Cursor = max(o.Cursor-1, 0)
	case "down", "j":
		o.Cursor = min(o.Cursor+1, len(o.Options)-1)
	case "space", " ":
		return o, o.Cursor
	default:
		if i, ok := optionIndex(k, len(o.Options)); ok {
			o.Cursor = i
			return o, i
		}
	}
	return o, -1
}

// optionIndex maps "1".."9" to a position below n.
func optionIndex(k string, n int) (int, bool) {
	if len(k) != 1 || k[0] < '1' || k[0] > '9' {
		return 0, false
	}
	i := int(k[0] - '1')
	return i, i < n
}

// View renders the options. When correct is non-nil the answer is revealed:
// correct options are green and wrongly chosen ones red.
func (o OptionList) View(selection quiz.Answer, correct *quiz.Answer) string {
	var b strings.Builder
	for i, opt := range o.Options {
		cursor := "  "
		if i == o.Cursor && correct == nil {
			cursor = "▸ "
		}
		mark := markFor(o.Multiple, selection.Contains(i))
		line := fmt.Sprintf("%s%s %s. %s", cursor, mark, quiz.OptionLetter(i), opt)

		switch {
		case correct != nil && correct.Contains(i):
			line = theme.Correct.Render(line + "  ✓")
		case correct != nil && selection.Contains(i):
			line = theme.Incorrect.Render(line + "  ✗")
		case correct != nil:
			line = theme.Subtitle.Render(line)
		case i == o.Cursor:
			line = theme.Selected.Render(line)
		default:
			line = theme.Unselected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func markFor(multiple, on bool) string {
	switch {
	case multiple && on:
		return "[x]"
	case multiple:
		return "[ ]"
	case on:
		return "(•)"
	default:
		return "( )"
	}
}
