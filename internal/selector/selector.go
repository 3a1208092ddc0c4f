// Package selector builds the working question sequence for practice runs
// and draws random samples for exams.
package selector

import (
	"math/rand/v2"
	"slices"

	"github.com/abhisek/quizzy/internal/quiz"
)

// Filter narrows a bank to a practice sequence.
type Filter string

const (
	FilterAll        Filter = "all"
	FilterUnanswered Filter = "unanswered"
	FilterWrong      Filter = "wrong"
)

// Filters lists the filters in menu order.
var Filters = []Filter{FilterAll, FilterUnanswered, FilterWrong}

// ParseFilter maps user input to a Filter.
func ParseFilter(s string) (Filter, error) {
	f := Filter(s)
	if !slices.Contains(Filters, f) {
		return "", &quiz.ValidationError{Field: "filter", Reason: "must be one of all, unanswered, wrong"}
	}
	return f, nil
}

// Label returns the display name of the filter.
func (f Filter) Label() string {
	switch f {
	case FilterUnanswered:
		return "Unanswered"
	case FilterWrong:
		return "Wrong answers"
	default:
		return "All questions"
	}
}

// Select returns the questions of bank that pass filter, in bank order.
//
// unanswered drops any question that appears anywhere in log. wrong keeps
// questions with at least one incorrect entry, even if a later attempt was
// correct. A nil or empty bank yields an empty, non-nil slice.
func Select(bank *quiz.Bank, filter Filter, log []quiz.UserAnswer) []quiz.Question {
	out := []quiz.Question{}
	if bank == nil {
		return out
	}

	var keep func(quiz.Question) bool
	switch filter {
	case FilterUnanswered:
		answered := AnsweredIDs(log)
		keep = func(q quiz.Question) bool { return !answered[q.ID] }
	case FilterWrong:
		wrong := WrongIDs(log)
		keep = func(q quiz.Question) bool { return wrong[q.ID] }
	default:
		keep = func(quiz.Question) bool { return true }
	}

	for _, q := range bank.Questions {
		if keep(q) {
			out = append(out, q)
		}
	}
	return out
}

// Sample shuffles a copy of questions and returns the first n, with n
// clamped to [1, len(questions)]. It never filters.
func Sample(questions []quiz.Question, n int, rng *rand.Rand) []quiz.Question {
	if len(questions) == 0 {
		return []quiz.Question{}
	}
	n = Clamp(n, len(questions))

	out := slices.Clone(questions)
	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}
	shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out[:n]
}

// Clamp limits a requested question count to [1, size]. It returns 0 only
// when size is 0.
func Clamp(n, size int) int {
	if size <= 0 {
		return 0
	}
	return max(1, min(n, size))
}

// AnsweredIDs is the set of question ids with any log entry.
func AnsweredIDs(log []quiz.UserAnswer) map[string]bool {
	ids := make(map[string]bool, len(log))
	for _, a := range log {
		ids[a.QuestionID] = true
	}
	return ids
}

// WrongIDs is the set of question ids with at least one incorrect entry.
func WrongIDs(log []quiz.UserAnswer) map[string]bool {
	ids := make(map[string]bool)
	for _, a := range log {
		if !a.IsCorrect {
			ids[a.QuestionID] = true
		}
	}
	return ids
}
