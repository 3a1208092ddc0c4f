// Package practice is the untimed practice screen: pick a bank and a filter,
// then answer questions one at a time with immediate feedback.
package practice

import (
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizzy/internal/explain"
	"github.com/abhisek/quizzy/internal/screen"
	"github.com/abhisek/quizzy/internal/screens"
	"github.com/abhisek/quizzy/internal/selector"
	"github.com/abhisek/quizzy/internal/session"
	"github.com/abhisek/quizzy/internal/ui/components"
	"github.com/abhisek/quizzy/internal/ui/layout"
)

type step int

const (
	stepBank step = iota
	stepFilter
	stepQuestion
)

// explanationMsg carries an explanation fetched in the background.
type explanationMsg struct {
	questionID string
	text       string
	source     explain.Source
	err        error
}

// PracticeScreen drives a session.Practice.
type PracticeScreen struct {
	deps     screens.Deps
	practice *session.Practice

	step     step
	bankName string
	banks    components.Menu
	filters  components.Menu
	options  components.OptionList

	favorite    bool
	explanation string
	explainSrc  explain.Source
	explaining  bool

	// banner is shown above the question after a run completes.
	banner string
	notice string
	err    error
}

var (
	_ screen.Screen      = (*PracticeScreen)(nil)
	_ screen.BackHandler = (*PracticeScreen)(nil)
)

func New(deps screens.Deps) *PracticeScreen {
	p := &PracticeScreen{
		deps:     deps,
		practice: session.NewPractice(deps.Repo, deps.SessionOptions...),
	}
	p.loadBanks()
	return p
}

func (p *PracticeScreen) loadBanks() {
	banks, err := p.deps.Repo.Banks(screens.Ctx())
	if err != nil {
		p.err = err
		return
	}
	items := make([]components.MenuItem, 0, len(banks))
	for _, b := range banks {
		items = append(items, components.MenuItem{
			Label: b.Name,
			Note:  fmt.Sprintf("%d questions", len(b.Questions)),
			Action: func() tea.Cmd {
				p.chooseBank(b.ID, b.Name)
				return nil
			},
		})
	}
	p.banks = components.NewMenu(items)
}

func (p *PracticeScreen) chooseBank(id, name string) {
	p.bankName = name
	p.err = nil
	if err := p.practice.Configure(id, selector.FilterAll); err != nil {
		p.err = err
		return
	}
	p.loadFilters()
	p.step = stepFilter
}

// loadFilters builds the filter menu with the size of each selection.
func (p *PracticeScreen) loadFilters() {
	ctx := screens.Ctx()
	bank, err := p.deps.Repo.Bank(ctx, p.practice.BankID())
	if err != nil {
		p.err = err
		return
	}
	log, err := p.deps.Repo.Answers(ctx)
	if err != nil {
		p.err = err
		return
	}

	items := make([]components.MenuItem, 0, len(selector.Filters))
	for _, f := range selector.Filters {
		n := len(selector.Select(bank, f, log))
		item := components.MenuItem{
			Label: f.Label(),
			Note:  fmt.Sprintf("%d", n),
			Action: func() tea.Cmd {
				return p.start(f)
			},
		}
		if n == 0 {
			item.Disabled = true
			item.Note = "nothing to practice"
		}
		items = append(items, item)
	}
	p.filters = components.NewMenu(items)
}

func (p *PracticeScreen) start(f selector.Filter) tea.Cmd {
	p.err = nil
	if err := p.practice.Configure(p.practice.BankID(), f); err != nil {
		p.err = err
		return nil
	}
	if err := p.practice.Start(screens.Ctx()); err != nil {
		p.err = err
		return nil
	}
	p.banner = ""
	p.step = stepQuestion
	p.resetQuestion()
	return nil
}

// resetQuestion prepares the view state for the current question.
func (p *PracticeScreen) resetQuestion() {
	q, ok := p.practice.Current()
	if !ok {
		return
	}
	p.options = components.NewOptionList(q)
	p.explanation = ""
	p.explainSrc = explain.SourceNone
	p.explaining = false
	p.notice = ""
	fav, err := p.practice.IsFavorite(screens.Ctx())
	if err != nil {
		p.err = err
	}
	p.favorite = fav
}

func (p *PracticeScreen) Init() tea.Cmd { return nil }

func (p *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case explanationMsg:
		p.handleExplanation(msg)
		return p, nil
	case tea.KeyPressMsg:
		return p.handleKey(msg)
	}
	return p, nil
}

func (p *PracticeScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch p.step {
	case stepBank:
		p.banks, cmd = p.banks.Update(msg)
		return p, cmd
	case stepFilter:
		p.filters, cmd = p.filters.Update(msg)
		return p, cmd
	}

	switch msg.String() {
	case "enter":
		if p.practice.Revealed() {
			return p, p.advance()
		}
		return p, p.submit()
	case "f":
		return p, p.toggleFavorite()
	case "e":
		return p, p.requestExplanation()
	}

	if p.practice.Revealed() {
		return p, nil
	}
	var chosen int
	p.options, chosen = p.options.Update(msg)
	if chosen >= 0 {
		if err := p.practice.Choose(chosen); err != nil {
			p.err = err
		} else {
			p.notice = ""
		}
	}
	return p, nil
}

func (p *PracticeScreen) submit() tea.Cmd {
	if p.practice.Selection().IsEmpty() {
		p.notice = "Select an answer first."
		return nil
	}
	fb, err := p.practice.Submit(screens.Ctx())
	if err != nil {
		p.err = err
		return nil
	}
	p.err = nil
	p.notice = ""
	p.banner = ""

	text, src, err := p.deps.Explainer.Lookup(screens.Ctx(), fb.Question)
	if err == nil {
		p.explanation, p.explainSrc = text, src
	}
	return screen.DataChanged
}

func (p *PracticeScreen) advance() tea.Cmd {
	done, err := p.practice.Advance(screens.Ctx())
	if err != nil {
		p.err = err
		if p.practice.Phase() != session.PhaseInProgress {
			p.step = stepFilter
		}
		return nil
	}
	if done == nil {
		p.resetQuestion()
		return nil
	}

	summary := fmt.Sprintf("Run complete: %d/%d correct (%.0f%%).", done.Correct, done.Total, done.Accuracy*100)
	if done.Empty {
		p.loadFilters()
		p.step = stepFilter
		p.banner = summary + " Nothing left for " + p.practice.Filter().Label() + "."
		return screen.DataChanged
	}
	p.banner = summary + " Starting again."
	p.resetQuestion()
	return screen.DataChanged
}

func (p *PracticeScreen) toggleFavorite() tea.Cmd {
	fav, err := p.practice.ToggleFavorite(screens.Ctx())
	if err != nil {
		p.err = err
		return nil
	}
	p.favorite = fav
	return screen.DataChanged
}

func (p *PracticeScreen) requestExplanation() tea.Cmd {
	if !p.practice.Revealed() || p.explaining {
		return nil
	}
	if p.explainSrc != explain.SourceNone && p.explainSrc != explain.SourceCache {
		return nil
	}
	fb := p.practice.LastFeedback()
	if fb == nil {
		return nil
	}
	if !p.deps.Explainer.CanGenerate() {
		p.notice = "No LLM provider configured; set QUIZZY_LLM_PROVIDER and an API key."
		return nil
	}

	p.explaining = true
	p.notice = ""
	svc, q, sel := p.deps.Explainer, fb.Question, fb.Selected
	regenerate := p.explainSrc == explain.SourceCache
	return func() tea.Msg {
		if regenerate {
			text, err := svc.Generate(screens.Ctx(), q, &sel)
			return explanationMsg{questionID: q.ID, text: text, source: explain.SourceGenerated, err: err}
		}
		text, src, err := svc.Explain(screens.Ctx(), q, &sel)
		return explanationMsg{questionID: q.ID, text: text, source: src, err: err}
	}
}

func (p *PracticeScreen) handleExplanation(msg explanationMsg) {
	q, ok := p.practice.Current()
	if !ok || q.ID != msg.questionID {
		return
	}
	p.explaining = false
	if msg.err != nil {
		p.err = msg.err
		return
	}
	p.explanation, p.explainSrc = msg.text, msg.source
}

// HandleBack steps back one level; from the bank list the screen is popped.
func (p *PracticeScreen) HandleBack() (bool, tea.Cmd) {
	switch p.step {
	case stepQuestion:
		p.practice.Abandon()
		p.loadFilters()
		p.step = stepFilter
		p.banner = ""
		p.err = nil
		return true, nil
	case stepFilter:
		p.step = stepBank
		p.banner = ""
		p.err = nil
		return true, nil
	}
	p.practice.Abandon()
	return false, nil
}

func (p *PracticeScreen) Title() string { return "Practice" }

func (p *PracticeScreen) KeyHints() []layout.KeyHint {
	switch p.step {
	case stepBank, stepFilter:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Move"},
			{Key: "Enter", Description: "Choose"},
			{Key: "Esc", Description: "Back"},
		}
	}
	if p.practice.Revealed() {
		hints := []layout.KeyHint{{Key: "Enter", Description: "Next"}}
		if p.deps.Explainer.CanGenerate() {
			hints = append(hints, layout.KeyHint{Key: "e", Description: "Explain"})
		}
		return append(hints,
			layout.KeyHint{Key: "f", Description: "Favorite"},
			layout.KeyHint{Key: "Esc", Description: "Stop"})
	}
	return []layout.KeyHint{
		{Key: "1-9/Space", Description: "Select"},
		{Key: "Enter", Description: "Submit"},
		{Key: "f", Description: "Favorite"},
		{Key: "Esc", Description: "Stop"},
	}
}
