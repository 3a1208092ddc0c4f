package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

type shape uint8

const (
	shapeNone shape = iota
	shapeScalar
	shapeSet
)

// Answer is either a single option index or a set of option indices.
// The zero value is the unanswered sentinel for scalar questions.
type Answer struct {
	shape   shape
	index   int
	indices []int
}

// Scalar returns a single-index answer.
func Scalar(i int) Answer {
	return Answer{shape: shapeScalar, index: i}
}

// Set returns a set answer. Order is irrelevant and duplicates collapse.
func Set(indices ...int) Answer {
	s := slices.Clone(indices)
	slices.Sort(s)
	s = slices.Compact(s)
	if s == nil {
		s = []int{}
	}
	return Answer{shape: shapeSet, indices: s}
}

// Unanswered returns the scalar unanswered sentinel.
func Unanswered() Answer {
	return Answer{}
}

// UnansweredFor returns the sentinel matching the question kind: an empty
// set for multiple choice, no selection otherwise.
func UnansweredFor(k Kind) Answer {
	if k == KindMultiple {
		return Set()
	}
	return Unanswered()
}

// Index returns the scalar index, if this is a scalar answer.
func (a Answer) Index() (int, bool) {
	return a.index, a.shape == shapeScalar
}

// Indices returns a copy of the set members, if this is a set answer.
func (a Answer) Indices() ([]int, bool) {
	if a.shape != shapeSet {
		return nil, false
	}
	return slices.Clone(a.indices), true
}

// IsSet reports whether the answer is set-shaped.
func (a Answer) IsSet() bool {
	return a.shape == shapeSet
}

// IsEmpty reports whether nothing has been chosen.
func (a Answer) IsEmpty() bool {
	switch a.shape {
	case shapeScalar:
		return false
	case shapeSet:
		return len(a.indices) == 0
	default:
		return true
	}
}

// Contains reports whether option i is part of the answer.
func (a Answer) Contains(i int) bool {
	switch a.shape {
	case shapeScalar:
		return a.index == i
	case shapeSet:
		_, found := slices.BinarySearch(a.indices, i)
		return found
	}
	return false
}

// Toggle flips membership of i in a set answer. A scalar or empty answer
// becomes a set first.
func (a Answer) Toggle(i int) Answer {
	if a.shape != shapeSet {
		return Set(i)
	}
	if a.Contains(i) {
		out := make([]int, 0, len(a.indices))
		for _, v := range a.indices {
			if v != i {
				out = append(out, v)
			}
		}
		return Answer{shape: shapeSet, indices: out}
	}
	return Set(append(slices.Clone(a.indices), i)...)
}

// Equal reports structural equality.
func (a Answer) Equal(b Answer) bool {
	if a.shape != b.shape {
		return false
	}
	switch a.shape {
	case shapeScalar:
		return a.index == b.index
	case shapeSet:
		return slices.Equal(a.indices, b.indices)
	}
	return true
}

// Letters renders the answer as option letters, e.g. "A, C".
func (a Answer) Letters() string {
	switch a.shape {
	case shapeScalar:
		return OptionLetter(a.index)
	case shapeSet:
		if len(a.indices) == 0 {
			return "-"
		}
		parts := make([]string, len(a.indices))
		for i, v := range a.indices {
			parts[i] = OptionLetter(v)
		}
		return strings.Join(parts, ", ")
	}
	return "-"
}

// OptionLetter maps 0 → "A", 1 → "B", ... Negative indices render as "-"
// and indices past Z as their 1-based number.
func OptionLetter(i int) string {
	if i < 0 {
		return "-"
	}
	if i < 26 {
		return string(rune('A' + i))
	}
	return strconv.Itoa(i + 1)
}

func (a Answer) String() string {
	switch a.shape {
	case shapeScalar:
		return strconv.Itoa(a.index)
	case shapeSet:
		return fmt.Sprint(a.indices)
	}
	return "unanswered"
}

// MarshalJSON encodes a scalar as a number, a set as an array and the
// sentinel as null.
func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.shape {
	case shapeScalar:
		return json.Marshal(a.index)
	case shapeSet:
		return json.Marshal(a.indices)
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts a number, an array of numbers or null.
func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = Unanswered()
		return nil
	case len(data) > 0 && data[0] == '[':
		var s []int
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode answer set: %w", err)
		}
		*a = Set(s...)
		return nil
	default:
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return fmt.Errorf("decode answer index: %w", err)
		}
		*a = Scalar(i)
		return nil
	}
}
