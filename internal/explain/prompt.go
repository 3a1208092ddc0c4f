package explain

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizzy/internal/llm"
	"github.com/abhisek/quizzy/internal/quiz"
)

const systemPrompt = `You are a concise study coach. A learner has just answered a quiz question. Explain why the correct answer is correct and, when relevant, why the tempting alternatives are not. Write for someone revising the topic, in plain text without markdown.`

// Schema is the structured output requested from the model.
var Schema = &llm.Schema{
	Name:        "quiz-explanation",
	Description: "Explanation of the correct answer to a quiz question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":        "string",
				"description": "Two to five sentences explaining the correct answer",
			},
			"keyPoints": map[string]any{
				"type":        "array",
				"description": "Short facts worth remembering",
				"items":       map[string]any{"type": "string"},
			},
		},
		"required":             []string{"explanation", "keyPoints"},
		"additionalProperties": false,
	},
}

type output struct {
	Explanation string   `json:"explanation"`
	KeyPoints   []string `json:"keyPoints"`
}

// text flattens the model output into the form stored in the cache.
func (o output) text() string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(o.Explanation))
	points := 0
	for _, p := range o.KeyPoints {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if points == 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "\n- %s", p)
		points++
	}
	return b.String()
}

func buildPrompt(q quiz.Question, selected *quiz.Answer) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Question (%s):\n%s\n\nOptions:\n", q.Kind.Label(), q.Text)
	for i, opt := range q.Options {
		fmt.Fprintf(&b, "%s. %s\n", quiz.OptionLetter(i), opt)
	}
	fmt.Fprintf(&b, "\nCorrect answer: %s\n", q.CorrectAnswer.Letters())
	if q.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", q.Category)
	}
	if q.Difficulty != "" {
		fmt.Fprintf(&b, "Difficulty: %s\n", q.Difficulty)
	}

	if selected != nil {
		if quiz.CheckQuestion(q, *selected) {
			fmt.Fprintf(&b, "Learner answered: %s (correct)\n", selected.Letters())
		} else {
			fmt.Fprintf(&b, "Learner answered: %s (incorrect)\n", selected.Letters())
			b.WriteString("Address the mistake the learner most likely made.\n")
		}
	}
	return b.String()
}
