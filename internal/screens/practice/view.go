package practice

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizzy/internal/explain"
	"github.com/abhisek/quizzy/internal/quiz"
	"github.com/abhisek/quizzy/internal/screens"
	"github.com/abhisek/quizzy/internal/ui/theme"
)

func (p *PracticeScreen) View(width, height int) string {
	var parts []string
	switch p.step {
	case stepBank:
		parts = append(parts, screens.Section("Choose a question bank", p.banks.View()))
	case stepFilter:
		parts = append(parts, theme.Subtitle.Render(p.bankName))
		if p.banner != "" {
			parts = append(parts, theme.Warning.Render(p.banner))
		}
		parts = append(parts, screens.Section("Which questions?", p.filters.View()))
	default:
		parts = append(parts, p.questionView(width))
	}
	if p.notice != "" {
		parts = append(parts, theme.Warning.Render(p.notice))
	}
	if p.err != nil {
		parts = append(parts, screens.ErrorLine(p.err))
	}
	return strings.Join(parts, "\n\n")
}

func (p *PracticeScreen) questionView(width int) string {
	q, ok := p.practice.Current()
	if !ok {
		return ""
	}
	inner := max(width-6, 20)

	status := fmt.Sprintf("%s · %s · Question %d/%d", p.bankName, p.practice.Filter().Label(), p.practice.Index()+1, p.practice.Len())
	if p.favorite {
		status += " · ★"
	}
	if t := p.practice.Tally(); t.Total > 0 {
		status += fmt.Sprintf(" · %d/%d correct", t.Correct, t.Total)
	}

	var parts []string
	if p.banner != "" {
		parts = append(parts, theme.Warning.Render(p.banner))
	}
	parts = append(parts, theme.Subtitle.Render(status))

	body := theme.Hint.Render(q.Kind.Label()) + "\n" + theme.Body.Render(screens.Wrap(q.Text, inner))
	if q.Kind == quiz.KindMultiple {
		body += "\n" + theme.Hint.Render("Select every correct option.")
	}
	parts = append(parts, screens.Box(body, width-2))

	var correct *quiz.Answer
	if p.practice.Revealed() {
		correct = &q.CorrectAnswer
	}
	parts = append(parts, strings.TrimRight(p.options.View(p.practice.Selection(), correct), "\n"))

	if fb := p.practice.LastFeedback(); fb != nil {
		parts = append(parts, feedbackLine(fb.Correct, q.CorrectAnswer))
		if ex := p.explanationView(inner); ex != "" {
			parts = append(parts, ex)
		}
	}
	return strings.Join(parts, "\n\n")
}

func feedbackLine(correct bool, answer quiz.Answer) string {
	if correct {
		return theme.Correct.Render("✓ Correct!")
	}
	return theme.Incorrect.Render("✗ Incorrect. The answer is " + answer.Letters() + ".")
}

func (p *PracticeScreen) explanationView(width int) string {
	switch {
	case p.explaining:
		return theme.Hint.Render("Generating explanation…")
	case p.explanation == "":
		return ""
	}
	heading := "Explanation"
	switch p.explainSrc {
	case explain.SourceCache:
		heading += " (saved, e to regenerate)"
	case explain.SourceGenerated:
		heading += " (generated)"
	}
	return screens.Section(heading, theme.Body.Render(screens.Wrap(p.explanation, width)))
}
