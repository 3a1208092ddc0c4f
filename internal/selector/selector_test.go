package selector

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/abhisek/quizzy/internal/quiz"
)

func testBank() *quiz.Bank {
	return &quiz.Bank{
		ID:   "b1",
		Name: "Basics",
		Questions: []quiz.Question{
			{ID: "q1", Kind: quiz.KindSingle, Options: []string{"a", "b"}, CorrectAnswer: quiz.Scalar(1)},
			{ID: "q2", Kind: quiz.KindMultiple, Options: []string{"a", "b", "c"}, CorrectAnswer: quiz.Set(0, 2)},
			{ID: "q3", Kind: quiz.KindJudgment, Options: quiz.JudgmentOptions, CorrectAnswer: quiz.Scalar(0)},
		},
	}
}

func ids(qs []quiz.Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func TestSelect(t *testing.T) {
	log := []quiz.UserAnswer{
		{QuestionID: "q1", IsCorrect: true},
		{QuestionID: "q3", IsCorrect: false},
		{QuestionID: "orphan", IsCorrect: false},
	}

	tests := []struct {
		filter Filter
		want   []string
	}{
		{FilterAll, []string{"q1", "q2", "q3"}},
		{FilterUnanswered, []string{"q2"}},
		{FilterWrong, []string{"q3"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			if got := ids(Select(testBank(), tt.filter, log)); !slices.Equal(got, tt.want) {
				t.Errorf("Select(%s) = %v, want %v", tt.filter, got, tt.want)
			}
		})
	}
}

func TestSelect_NilBank(t *testing.T) {
	got := Select(nil, FilterAll, nil)
	if got == nil || len(got) != 0 {
		t.Errorf("Select(nil) = %#v, want empty non-nil slice", got)
	}

	got = Select(&quiz.Bank{ID: "empty"}, FilterUnanswered, nil)
	if got == nil || len(got) != 0 {
		t.Errorf("Select(empty bank) = %#v, want empty non-nil slice", got)
	}
}

func TestSelect_UnansweredIdempotent(t *testing.T) {
	bank := testBank()
	log := []quiz.UserAnswer{{QuestionID: "q2", IsCorrect: true}}

	first := ids(Select(bank, FilterUnanswered, log))
	second := ids(Select(bank, FilterUnanswered, log))
	if !slices.Equal(first, second) {
		t.Errorf("second Select = %v, first = %v", second, first)
	}
	if want := []string{"q1", "q3"}; !slices.Equal(first, want) {
		t.Errorf("Select = %v, want %v", first, want)
	}
}

func TestSelect_WrongIsHistoryBased(t *testing.T) {
	log := []quiz.UserAnswer{
		{QuestionID: "q2", IsCorrect: false},
		{QuestionID: "q2", IsCorrect: true},
	}
	if got := ids(Select(testBank(), FilterWrong, log)); !slices.Equal(got, []string{"q2"}) {
		t.Errorf("Select(wrong) = %v, want [q2]", got)
	}
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("wrong")
	if err != nil {
		t.Fatalf("ParseFilter(wrong): %v", err)
	}
	if f != FilterWrong {
		t.Errorf("ParseFilter(wrong) = %q, want %q", f, FilterWrong)
	}

	if _, err := ParseFilter("favorites"); !errors.Is(err, quiz.ErrValidation) {
		t.Errorf("ParseFilter(favorites) error = %v, want ErrValidation", err)
	}
}

func TestSample_Clamps(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	qs := testBank().Questions

	tests := []struct {
		n    int
		want int
	}{
		{5, 3},
		{0, 1},
		{-4, 1},
		{2, 2},
	}
	for _, tt := range tests {
		if got := len(Sample(qs, tt.n, rng)); got != tt.want {
			t.Errorf("len(Sample(%d)) = %d, want %d", tt.n, got, tt.want)
		}
	}
	if got := Sample(nil, 3, rng); len(got) != 0 {
		t.Errorf("Sample(nil) = %v, want empty", got)
	}
}

func TestSample_IsPermutation(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	qs := testBank().Questions

	got := ids(Sample(qs, len(qs), rng))
	slices.Sort(got)
	if !slices.Equal(got, []string{"q1", "q2", "q3"}) {
		t.Errorf("Sample = %v, want a permutation of q1..q3", got)
	}
	if order := ids(qs); !slices.Equal(order, []string{"q1", "q2", "q3"}) {
		t.Errorf("input reordered to %v", order)
	}
}

func TestSample_Fairness(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 99))
	qs := testBank().Questions

	const trials = 3000
	counts := map[string]int{}
	for range trials {
		counts[Sample(qs, 1, rng)[0].ID]++
	}

	for _, q := range qs {
		if d := counts[q.ID] - trials/3; d < -200 || d > 200 {
			t.Errorf("question %s picked %d times, want about %d", q.ID, counts[q.ID], trials/3)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		n, max, want int
	}{
		{5, 3, 3},
		{0, 3, 1},
		{2, 3, 2},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := Clamp(tt.n, tt.max); got != tt.want {
			t.Errorf("Clamp(%d, %d) = %d, want %d", tt.n, tt.max, got, tt.want)
		}
	}
}
