package exam

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizzy/internal/quiz"
	"github.com/abhisek/quizzy/internal/screens"
	"github.com/abhisek/quizzy/internal/session"
	"github.com/abhisek/quizzy/internal/ui/components"
	"github.com/abhisek/quizzy/internal/ui/layout"
	"github.com/abhisek/quizzy/internal/ui/theme"
)

func (e *ExamScreen) View(width, height int) string {
	var body string
	switch e.step {
	case stepConfig:
		body = e.configView()
	case stepRunning:
		body = e.runningView(width)
	default:
		body = e.resultView(width, height)
	}
	if e.err != nil {
		body += "\n\n" + screens.ErrorLine(e.err)
	}
	return body
}

func (e *ExamScreen) configView() string {
	bankHeading := "Question bank"
	if e.focus == focusBank {
		bankHeading = "▸ " + bankHeading
	}
	field := func(in components.NumberInput, focused bool) string {
		if focused {
			return theme.Selected.Render("▸ ") + in.View()
		}
		return "  " + in.View()
	}
	limits := e.deps.Config.ExamDefaults("")
	return strings.Join([]string{
		theme.Title.Render("New exam"),
		screens.Section(bankHeading, e.banks.View()),
		field(e.count, e.focus == focusQuestions) + "\n" + field(e.minutes, e.focus == focusMinutes),
		theme.Hint.Render(fmt.Sprintf("Defaults: %d questions, %d minutes. The count is capped at the bank size.",
			limits.QuestionCount, limits.TimeLimitMinutes)),
	}, "\n\n")
}

func (e *ExamScreen) runningView(width int) string {
	if len(e.questions) == 0 {
		return ""
	}
	q := e.current()
	selection, answered := e.exam.Answer(q.ID)
	if !answered {
		selection = quiz.UnansweredFor(q.Kind)
	}

	remaining := e.exam.Remaining()
	clock := theme.Body.Render("⏱ " + layout.Clock(remaining))
	if remaining <= time.Minute {
		clock = theme.Warning.Render("⏱ " + layout.Clock(remaining))
	}
	status := fmt.Sprintf("Question %d/%d · %d answered", e.index+1, len(e.questions), e.exam.AnsweredCount())

	inner := max(width-6, 20)
	card := theme.Hint.Render(q.Kind.Label()) + "\n" + theme.Body.Render(screens.Wrap(q.Text, inner))

	parts := []string{
		clock + "   " + theme.Subtitle.Render(status),
		e.navStrip(),
		screens.Box(card, width-2),
		strings.TrimRight(e.options.View(selection, nil), "\n"),
	}
	switch {
	case e.confirmSubmit:
		msg := "Submit the exam?"
		if left := len(e.questions) - e.exam.AnsweredCount(); left > 0 {
			msg = fmt.Sprintf("Submit the exam? %d unanswered questions will be scored incorrect.", left)
		}
		parts = append(parts, theme.Warning.Render(msg+" (y/n)"))
	case e.confirmAbandon:
		parts = append(parts, theme.Warning.Render("Abandon this exam? Nothing will be saved. (y/n)"))
	}
	return strings.Join(parts, "\n\n")
}

// navStrip shows one cell per question: answered, unanswered, current.
func (e *ExamScreen) navStrip() string {
	var b strings.Builder
	for i, q := range e.questions {
		a, ok := e.exam.Answer(q.ID)
		cell := fmt.Sprintf(" %d ", i+1)
		switch {
		case i == e.index:
			b.WriteString(theme.Selected.Render("[" + cell + "]"))
		case ok && !a.IsEmpty():
			b.WriteString(theme.Correct.Render(" " + cell + " "))
		default:
			b.WriteString(theme.Hint.Render(" " + cell + " "))
		}
	}
	return b.String()
}

func (e *ExamScreen) resultView(width, height int) string {
	r := e.result
	if r == nil {
		return ""
	}

	heading := "Exam submitted"
	if r.AutoSubmitted {
		heading = "Time's up! Exam submitted automatically"
	}
	score := fmt.Sprintf("Score %s%%  ·  %d/%d correct  ·  %s", r.ScoreText(), r.Correct, r.Total, layout.Clock(r.Duration))

	parts := []string{
		theme.Title.Render(heading),
		scoreStyle(r).Render(score),
		components.ProgressBar{Fraction: r.Score / 100, Width: min(width-4, 60)}.View(),
	}

	wrong := r.Wrong()
	if len(wrong) == 0 {
		parts = append(parts, theme.Correct.Render("No mistakes."))
		return strings.Join(parts, "\n\n")
	}

	// Each wrong item takes two lines; keep the list inside the content area.
	room := max((height-12)/2, 1)
	lines := make([]string, 0, 2*min(len(wrong), room)+1)
	for i, it := range wrong {
		if i == room {
			lines = append(lines, theme.Hint.Render(fmt.Sprintf("…and %d more.", len(wrong)-room)))
			break
		}
		lines = append(lines, wrongItem(it, width-4)...)
	}
	parts = append(parts, screens.Section(fmt.Sprintf("Review (%d wrong)", len(wrong)), lines...))
	return strings.Join(parts, "\n\n")
}

// PassMark is the score at which the result is shown as a pass.
const PassMark = 60.0

func scoreStyle(r *session.ExamResult) lipgloss.Style {
	if r.Score >= PassMark {
		return theme.Correct
	}
	return theme.Incorrect
}

func wrongItem(it session.ExamItem, width int) []string {
	text := it.Question.Text
	if w := max(width-2, 10); len([]rune(text)) > w {
		text = string([]rune(text)[:w-1]) + "…"
	}
	yours := it.Selected.Letters()
	return []string{
		theme.Body.Render("• " + text),
		"  " + theme.Incorrect.Render("yours "+yours) + "  " + theme.Correct.Render("correct "+it.Question.CorrectAnswer.Letters()),
	}
}
