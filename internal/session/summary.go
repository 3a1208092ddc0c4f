package session

import (
	"fmt"
	"time"

	"github.com/abhisek/quizzy/internal/quiz"
)

// Feedback is the outcome of a practice submission.
type Feedback struct {
	Question quiz.Question
	Selected quiz.Answer
	Correct  bool
}

// Completion is reported when the last practice question is advanced past.
type Completion struct {
	Correct  int
	Total    int
	Accuracy float64 // fraction in [0,1]

	// Reloaded is set when a fresh selection started a new run.
	Reloaded bool

	// Empty is set when the fresh selection had no questions; the practice
	// stays in PhaseConfiguring.
	Empty bool
}

// ExamItem is one question of a submitted exam.
type ExamItem struct {
	Question quiz.Question
	Selected quiz.Answer
	Correct  bool
}

// ExamResult holds the data displayed after an exam is submitted.
type ExamResult struct {
	Session  quiz.StudySession
	Items    []ExamItem
	Correct  int
	Total    int
	Score    float64
	Duration time.Duration

	// AutoSubmitted is set when the countdown ran out.
	AutoSubmitted bool
}

// ScoreText renders the score with one decimal place.
func (r *ExamResult) ScoreText() string {
	return fmt.Sprintf("%.1f", r.Score)
}

// Wrong returns the items that were not answered correctly.
func (r *ExamResult) Wrong() []ExamItem {
	var out []ExamItem
	for _, it := range r.Items {
		if !it.Correct {
			out = append(out, it)
		}
	}
	return out
}
