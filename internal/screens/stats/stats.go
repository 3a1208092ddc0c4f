// Package stats is the statistics screen.
package stats

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizzy/internal/quiz"
	"github.com/abhisek/quizzy/internal/screen"
	"github.com/abhisek/quizzy/internal/screens"
	"github.com/abhisek/quizzy/internal/stats"
	"github.com/abhisek/quizzy/internal/ui/components"
	"github.com/abhisek/quizzy/internal/ui/layout"
	"github.com/abhisek/quizzy/internal/ui/theme"
)

// examHistoryLen is how many past exams the overview lists.
const examHistoryLen = 5

type pane int

const (
	paneOverview pane = iota
	paneWrong
	paneFavorites
	numPanes
)

func (p pane) label() string {
	switch p {
	case paneWrong:
		return "Wrong answers"
	case paneFavorites:
		return "Favorites"
	default:
		return "Overview"
	}
}

type StatsScreen struct {
	deps screens.Deps
	pane pane

	overview  *stats.Overview
	today     quiz.DailyRecord
	hasToday  bool
	recent    []quiz.DailyRecord
	banks     []stats.BankStats
	exams     []quiz.StudySession
	wrong     *stats.Resolved
	favorites *stats.Resolved
	err       error
}

var _ screen.Screen = (*StatsScreen)(nil)

func New(deps screens.Deps) *StatsScreen {
	s := &StatsScreen{deps: deps}
	s.reload()
	return s
}

// reload recomputes everything from the store; the first error wins.
func (s *StatsScreen) reload() {
	ctx := screens.Ctx()
	agg := s.deps.Stats()
	s.err = nil

	try := func(err error) bool {
		if err != nil && s.err == nil {
			s.err = err
		}
		return err == nil
	}

	if ov, err := agg.Overview(ctx); try(err) {
		s.overview = ov
	}
	if rec, ok, err := agg.Today(ctx); try(err) {
		s.today, s.hasToday = rec, ok
	}
	if recent, err := agg.Recent(ctx, s.deps.Config.RecentDays); try(err) {
		s.recent = recent
	}
	if banks, err := agg.AllBankStats(ctx); try(err) {
		s.banks = banks
	}
	if exams, err := agg.ExamHistory(ctx, examHistoryLen); try(err) {
		s.exams = exams
	}
	if wrong, err := agg.WrongQuestions(ctx); try(err) {
		s.wrong = wrong
	}
	if favs, err := agg.Favorites(ctx); try(err) {
		s.favorites = favs
	}
}

func (s *StatsScreen) Init() tea.Cmd { return nil }

func (s *StatsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.DataChangedMsg:
		s.reload()
	case tea.KeyPressMsg:
		switch msg.String() {
		case "tab", "right", "l":
			s.pane = (s.pane + 1) % numPanes
		case "shift+tab", "left", "h":
			s.pane = (s.pane + numPanes - 1) % numPanes
		case "r":
			s.reload()
		}
	}
	return s, nil
}

func (s *StatsScreen) View(width, height int) string {
	tabs := make([]string, 0, numPanes)
	for p := range numPanes {
		if p == s.pane {
			tabs = append(tabs, theme.Selected.Render("["+p.label()+"]"))
		} else {
			tabs = append(tabs, theme.Unselected.Render(" "+p.label()+" "))
		}
	}

	var body string
	switch s.pane {
	case paneWrong:
		body = questionList(s.wrong, "No wrong answers yet.", width, height-4)
	case paneFavorites:
		body = questionList(s.favorites, "No favorites yet. Press f on a practice question to add one.", width, height-4)
	default:
		body = s.overviewView(width)
	}

	out := strings.Join(tabs, " ") + "\n\n" + body
	if s.err != nil {
		out += "\n\n" + screens.ErrorLine(s.err)
	}
	return out
}

func (s *StatsScreen) overviewView(width int) string {
	var parts []string

	if ov := s.overview; ov != nil {
		parts = append(parts, screens.Section("All time",
			fmt.Sprintf("%d banks · %d questions · %d answered · %d favorites", ov.Banks, ov.TotalQuestions, ov.Answered, ov.Favorites),
			fmt.Sprintf("%d attempts · %d correct · %d wrong · %s accuracy", ov.Attempts, ov.Correct, ov.Wrong, percent(ov.Accuracy, ov.Attempts)),
		))
	}

	today := "No activity today."
	if s.hasToday {
		today = fmt.Sprintf("%d answered · %d correct · %s accuracy",
			s.today.QuestionsAnswered, s.today.CorrectAnswers, percent(ratio(s.today.CorrectAnswers, s.today.QuestionsAnswered), s.today.QuestionsAnswered))
	}
	parts = append(parts, screens.Section("Today", today))

	if len(s.recent) > 0 {
		lines := make([]string, 0, len(s.recent))
		for _, r := range s.recent {
			lines = append(lines, fmt.Sprintf("%s  %4d answered  %s", r.Date, r.QuestionsAnswered,
				percent(ratio(r.CorrectAnswers, r.QuestionsAnswered), r.QuestionsAnswered)))
		}
		parts = append(parts, screens.Section(fmt.Sprintf("Last %d days", s.deps.Config.RecentDays), lines...))
	}

	if len(s.banks) > 0 {
		barWidth := min(width-4, 70)
		lines := make([]string, 0, 2*len(s.banks))
		for _, b := range s.banks {
			lines = append(lines,
				components.ProgressBar{Label: b.Name, Fraction: b.Progress(), ShowPercent: true, Width: barWidth}.View(),
				theme.Hint.Render(fmt.Sprintf("  %d/%d answered · %s accuracy · %d to review",
					b.Answered, b.TotalQuestions, percent(b.Accuracy, b.Attempts), b.WrongQuestions)))
		}
		parts = append(parts, screens.Section("Banks", lines...))
	}

	if len(s.exams) > 0 {
		names := make(map[string]string, len(s.banks))
		for _, b := range s.banks {
			names[b.BankID] = b.Name
		}
		lines := make([]string, 0, len(s.exams))
		for _, e := range s.exams {
			lines = append(lines, examLine(e, names))
		}
		parts = append(parts, screens.Section("Recent exams", lines...))
	}

	return strings.Join(parts, "\n\n")
}

func examLine(e quiz.StudySession, names map[string]string) string {
	name, ok := names[e.BankID]
	if !ok {
		name = "(deleted bank)"
	}
	score := "-"
	if e.Score != nil {
		score = fmt.Sprintf("%.1f%%", *e.Score)
	}
	return fmt.Sprintf("%s  %-24s  %d questions  %s", e.StartTime.Time().Format("2006-01-02 15:04"), name, len(e.Answers), score)
}

func questionList(r *stats.Resolved, empty string, width, height int) string {
	if r == nil {
		return ""
	}
	if len(r.Questions) == 0 {
		return theme.Hint.Render(empty)
	}

	room := max(height, 1)
	lines := make([]string, 0, min(len(r.Questions), room)+2)
	for i, ref := range r.Questions {
		if i == room {
			lines = append(lines, theme.Hint.Render(fmt.Sprintf("…and %d more.", len(r.Questions)-room)))
			break
		}
		text := ref.Question.Text
		if w := max(width-len(ref.BankName)-8, 10); len([]rune(text)) > w {
			text = string([]rune(text)[:w-1]) + "…"
		}
		lines = append(lines, theme.Body.Render("• "+text)+"  "+theme.Hint.Render(ref.BankName))
	}
	if r.Orphans > 0 {
		lines = append(lines, theme.Hint.Render(fmt.Sprintf("%d from deleted banks", r.Orphans)))
	}
	return strings.Join(lines, "\n")
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

// percent renders an accuracy, or "-" when nothing was attempted.
func percent(acc float64, attempts int) string {
	if attempts == 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", acc*100)
}

func (s *StatsScreen) Title() string { return "Statistics" }

func (s *StatsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Switch view"},
		{Key: "r", Description: "Refresh"},
		{Key: "Esc", Description: "Back"},
	}
}
