package session

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/quizzy/internal/quiz"
)

// Store is the persistence surface a session needs. *store.Repo satisfies it.
type Store interface {
	Bank(ctx context.Context, id string) (*quiz.Bank, error)
	Answers(ctx context.Context) ([]quiz.UserAnswer, error)
	RecordAnswer(ctx context.Context, a quiz.UserAnswer) error
	SaveSession(ctx context.Context, s quiz.StudySession) error
	ToggleFavorite(ctx context.Context, questionID string) (bool, error)
	IsFavorite(ctx context.Context, questionID string) (bool, error)
}

// playableBank loads the bank, dropping questions that fail
// quiz.ValidateQuestion.
func playableBank(ctx context.Context, st Store, id string) (*quiz.Bank, error) {
	bank, err := st.Bank(ctx, id)
	if err != nil {
		return nil, err
	}
	b := *bank
	b.Questions, _ = quiz.Playable(bank.Questions)
	return &b, nil
}

// Phase represents the current phase of a session.
type Phase int

const (
	PhaseConfiguring Phase = iota // Choosing bank and options
	PhaseInProgress               // Serving questions
	PhaseCompleted                // Scored; exam only
)

func (p Phase) String() string {
	switch p {
	case PhaseInProgress:
		return "in-progress"
	case PhaseCompleted:
		return "completed"
	default:
		return "configuring"
	}
}

type options struct {
	now   func() time.Time
	newID func() string
	rng   *rand.Rand
}

// Option configures a Practice or Exam.
type Option func(*options)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDs overrides session id generation.
func WithIDs(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

// WithRand sets the source used to shuffle exam questions.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

func buildOptions(opts []Option) options {
	o := options{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func phaseError(op string, want, got Phase) error {
	return &quiz.ValidationError{Field: "phase", Reason: op + " requires " + want.String() + ", session is " + got.String()}
}
