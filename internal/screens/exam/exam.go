// Package exam is the timed exam screen: configure, answer with free
// navigation against a countdown, then review the score.
package exam

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizzy/internal/quiz"
	"github.com/abhisek/quizzy/internal/screen"
	"github.com/abhisek/quizzy/internal/screens"
	"github.com/abhisek/quizzy/internal/session"
	"github.com/abhisek/quizzy/internal/ui/components"
	"github.com/abhisek/quizzy/internal/ui/layout"
)

type step int

const (
	stepConfig step = iota
	stepRunning
	stepResult
)

// Focus targets on the configuration step.
const (
	focusBank = iota
	focusQuestions
	focusMinutes
	numFocus
)

// tickMsg drives the countdown. gen identifies the exam run that
// scheduled it so ticks from an abandoned or restarted run are dropped.
type tickMsg struct {
	gen int
}

type ExamScreen struct {
	deps screens.Deps
	exam *session.Exam

	step  step
	gen   int
	focus int

	bankIDs []string
	banks   components.Menu
	count   components.NumberInput
	minutes components.NumberInput

	questions []quiz.Question
	index     int
	options   components.OptionList

	confirmSubmit  bool
	confirmAbandon bool

	result *session.ExamResult
	err    error
}

var (
	_ screen.Screen      = (*ExamScreen)(nil)
	_ screen.BackHandler = (*ExamScreen)(nil)
)

func New(deps screens.Deps) *ExamScreen {
	defaults := deps.Config.ExamDefaults("")
	e := &ExamScreen{
		deps:    deps,
		exam:    session.NewExam(deps.Repo, deps.SessionOptions...),
		count:   components.NewNumberInput("Questions", defaults.QuestionCount, 4),
		minutes: components.NewNumberInput("Minutes  ", defaults.TimeLimitMinutes, 4),
	}
	e.loadBanks()
	return e
}

func (e *ExamScreen) loadBanks() {
	banks, err := e.deps.Repo.Banks(screens.Ctx())
	if err != nil {
		e.err = err
		return
	}
	e.bankIDs = e.bankIDs[:0]
	items := make([]components.MenuItem, 0, len(banks))
	for _, b := range banks {
		e.bankIDs = append(e.bankIDs, b.ID)
		items = append(items, components.MenuItem{
			Label:    b.Name,
			Note:     fmt.Sprintf("%d questions", len(b.Questions)),
			Disabled: len(b.Questions) == 0,
		})
	}
	e.banks = components.NewMenu(items)
}

func (e *ExamScreen) Init() tea.Cmd { return nil }

func (e *ExamScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return e, e.handleTick(msg)
	case tea.KeyPressMsg:
		switch e.step {
		case stepConfig:
			return e, e.handleConfigKey(msg)
		case stepRunning:
			return e, e.handleRunningKey(msg)
		default:
			return e, e.handleResultKey(msg)
		}
	}
	return e, nil
}

func (e *ExamScreen) setFocus(f int) tea.Cmd {
	e.focus = (f + numFocus) % numFocus
	e.count.Blur()
	e.minutes.Blur()
	switch e.focus {
	case focusQuestions:
		return e.count.Focus()
	case focusMinutes:
		return e.minutes.Focus()
	}
	return nil
}

func (e *ExamScreen) handleConfigKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "tab":
		return e.setFocus(e.focus + 1)
	case "shift+tab":
		return e.setFocus(e.focus - 1)
	case "enter":
		return e.start()
	}

	var cmd tea.Cmd
	switch e.focus {
	case focusBank:
		e.banks, cmd = e.banks.Update(msg)
	case focusQuestions:
		e.count, cmd = e.count.Update(msg)
	case focusMinutes:
		e.minutes, cmd = e.minutes.Update(msg)
	}
	return cmd
}

func (e *ExamScreen) config() session.ExamConfig {
	var bankID string
	if i := e.banks.Selected; i < len(e.bankIDs) && !e.banks.Items[i].Disabled {
		bankID = e.bankIDs[i]
	}
	return session.ExamConfig{
		BankID:           bankID,
		QuestionCount:    e.count.Value(),
		TimeLimitMinutes: e.minutes.Value(),
	}
}

func (e *ExamScreen) start() tea.Cmd {
	if err := e.exam.Start(screens.Ctx(), e.config()); err != nil {
		e.err = err
		return nil
	}
	return e.begin()
}

// begin switches to the running step after Start or Restart succeeded.
func (e *ExamScreen) begin() tea.Cmd {
	e.err = nil
	e.result = nil
	e.questions = e.exam.Questions()
	e.step = stepRunning
	e.confirmSubmit, e.confirmAbandon = false, false
	e.gen++
	e.show(0)
	return tick(e.gen)
}

func tick(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func (e *ExamScreen) handleTick(msg tickMsg) tea.Cmd {
	if msg.gen != e.gen || e.step != stepRunning {
		return nil
	}
	done, err := e.exam.Tick(screens.Ctx())
	if err != nil {
		e.err = err
		return tick(e.gen)
	}
	if done {
		return e.finish()
	}
	return tick(e.gen)
}

func (e *ExamScreen) show(i int) {
	if len(e.questions) == 0 {
		return
	}
	e.index = min(max(i, 0), len(e.questions)-1)
	e.options = components.NewOptionList(e.questions[e.index])
}

func (e *ExamScreen) current() quiz.Question {
	return e.questions[e.index]
}

func (e *ExamScreen) handleRunningKey(msg tea.KeyPressMsg) tea.Cmd {
	k := msg.String()

	if e.confirmSubmit {
		switch k {
		case "y", "Y", "enter":
			e.confirmSubmit = false
			return e.submit()
		case "n", "N", "esc":
			e.confirmSubmit = false
		}
		return nil
	}
	if e.confirmAbandon {
		switch k {
		case "y", "Y":
			e.confirmAbandon = false
			e.exam.Abandon()
			e.step = stepConfig
			e.gen++
		case "n", "N", "esc":
			e.confirmAbandon = false
		}
		return nil
	}

	switch k {
	case "left", "h", "p":
		e.show(e.index - 1)
		return nil
	case "right", "l", "n", "enter":
		if k == "enter" && e.index == len(e.questions)-1 {
			e.confirmSubmit = true
			return nil
		}
		e.show(e.index + 1)
		return nil
	case "s":
		e.confirmSubmit = true
		return nil
	}

	var chosen int
	e.options, chosen = e.options.Update(msg)
	if chosen >= 0 {
		if err := e.exam.Choose(e.current().ID, chosen); err != nil {
			e.err = err
		}
	}
	return nil
}

func (e *ExamScreen) submit() tea.Cmd {
	if _, err := e.exam.Submit(screens.Ctx()); err != nil {
		e.err = err
		return nil
	}
	return e.finish()
}

func (e *ExamScreen) finish() tea.Cmd {
	e.result = e.exam.Result()
	e.step = stepResult
	e.confirmSubmit, e.confirmAbandon = false, false
	e.gen++
	return screen.DataChanged
}

func (e *ExamScreen) handleResultKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "r":
		if err := e.exam.Restart(screens.Ctx()); err != nil {
			e.err = err
			return nil
		}
		return e.begin()
	case "c":
		if err := e.exam.Reconfigure(); err != nil {
			e.err = err
			return nil
		}
		e.result = nil
		e.loadBanks()
		e.step = stepConfig
		return e.setFocus(focusBank)
	}
	return nil
}

// HandleBack asks before abandoning a running exam. Esc on the
// configuration and result steps leaves the screen.
func (e *ExamScreen) HandleBack() (bool, tea.Cmd) {
	if e.step != stepRunning {
		return false, nil
	}
	if e.confirmSubmit || e.confirmAbandon {
		e.confirmSubmit, e.confirmAbandon = false, false
		return true, nil
	}
	e.confirmAbandon = true
	return true, nil
}

func (e *ExamScreen) Title() string { return "Exam" }

func (e *ExamScreen) KeyHints() []layout.KeyHint {
	switch {
	case e.confirmSubmit:
		return []layout.KeyHint{{Key: "y", Description: "Submit"}, {Key: "n", Description: "Keep going"}}
	case e.confirmAbandon:
		return []layout.KeyHint{{Key: "y", Description: "Abandon"}, {Key: "n", Description: "Keep going"}}
	}
	switch e.step {
	case stepConfig:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next field"},
			{Key: "Enter", Description: "Start"},
			{Key: "Esc", Description: "Back"},
		}
	case stepRunning:
		return []layout.KeyHint{
			{Key: "1-9/Space", Description: "Select"},
			{Key: "←→", Description: "Navigate"},
			{Key: "s", Description: "Submit"},
			{Key: "Esc", Description: "Abandon"},
		}
	}
	return []layout.KeyHint{
		{Key: "r", Description: "Retake"},
		{Key: "c", Description: "New exam"},
		{Key: "Esc", Description: "Back"},
	}
}
