package quiz

import (
	"fmt"
	"slices"
)

// Evaluate reports whether selected matches correct.
//
// A set-valued correct answer requires a set selection with exactly the same
// members; partial credit is never given. A scalar correct answer requires a
// scalar selection with the same index. Mismatched shapes and the unanswered
// sentinel evaluate to false. Evaluate never fails.
func Evaluate(selected, correct Answer) bool {
	switch correct.shape {
	case shapeSet:
		if selected.shape != shapeSet {
			return false
		}
		return slices.Equal(selected.indices, correct.indices)
	case shapeScalar:
		if selected.shape != shapeScalar {
			return false
		}
		return selected.index == correct.index
	default:
		return false
	}
}

// CheckQuestion evaluates selected against the question's correct answer.
func CheckQuestion(q Question, selected Answer) bool {
	return Evaluate(selected, q.CorrectAnswer)
}

// CheckSelection reports whether selected is well formed for q: a set for
// multiple choice, a scalar otherwise, with every index in range. The
// unanswered sentinel of either shape is accepted.
func CheckSelection(q Question, selected Answer) error {
	if selected.shape == shapeNone {
		return nil
	}
	if (q.Kind == KindMultiple) != (selected.shape == shapeSet) {
		return &ValidationError{Field: "selectedAnswer", Reason: fmt.Sprintf("wrong shape for %s question", q.Kind)}
	}
	idx := selected.indices
	if selected.shape == shapeScalar {
		idx = []int{selected.index}
	}
	for _, i := range idx {
		if i < 0 || i >= len(q.Options) {
			return &ValidationError{Field: "selectedAnswer", Reason: "index out of range"}
		}
	}
	return nil
}
