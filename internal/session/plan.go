package session

import (
	"github.com/abhisek/quizzy/internal/quiz"
)

// Exam defaults used when no configuration is given.
const (
	DefaultQuestionCount    = 20
	DefaultTimeLimitMinutes = 30
)

// ExamConfig is what the learner chooses before an exam starts.
type ExamConfig struct {
	BankID string `validate:"required"`

	// QuestionCount is clamped to [1, bank size] at start.
	QuestionCount int

	TimeLimitMinutes int `validate:"min=1"`
}

// DefaultExamConfig returns the default configuration for bankID.
func DefaultExamConfig(bankID string) ExamConfig {
	return ExamConfig{
		BankID:           bankID,
		QuestionCount:    DefaultQuestionCount,
		TimeLimitMinutes: DefaultTimeLimitMinutes,
	}
}

// Validate reports a missing bank or a non-positive time limit.
func (c ExamConfig) Validate() error {
	return quiz.ValidateStruct(c)
}

// TimeLimitSeconds is the countdown length.
func (c ExamConfig) TimeLimitSeconds() int {
	return c.TimeLimitMinutes * 60
}
