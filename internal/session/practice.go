package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/abhisek/quizzy/internal/quiz"
	"github.com/abhisek/quizzy/internal/selector"
)

// Practice is an untimed run through a filtered question sequence. Each
// submission is evaluated and written to the answer log immediately.
//
// A Practice is owned by a single goroutine (the UI loop) and does no
// locking of its own.
type Practice struct {
	store Store
	opts  options

	phase  Phase
	bankID string
	filter selector.Filter

	questions []quiz.Question
	index     int
	selection quiz.Answer
	revealed  bool
	last      *Feedback

	answers   []quiz.UserAnswer
	tally     Tally
	startTime time.Time
}

// NewPractice creates a Practice in PhaseConfiguring.
func NewPractice(store Store, opts ...Option) *Practice {
	return &Practice{
		store:  store,
		opts:   buildOptions(opts),
		filter: selector.FilterAll,
	}
}

// Configure selects the bank and filter for the next Start.
func (p *Practice) Configure(bankID string, filter selector.Filter) error {
	if p.phase != PhaseConfiguring {
		return phaseError("configure", PhaseConfiguring, p.phase)
	}
	if bankID == "" {
		return &quiz.ValidationError{Field: "bankID", Reason: "is required"}
	}
	if _, err := selector.ParseFilter(string(filter)); err != nil {
		return err
	}
	p.bankID = bankID
	p.filter = filter
	return nil
}

// Start selects questions and enters PhaseInProgress at the first one.
// An empty selection returns quiz.ErrEmptyResult and leaves the practice in
// PhaseConfiguring; a missing bank returns quiz.ErrNotFound.
func (p *Practice) Start(ctx context.Context) error {
	if p.phase != PhaseConfiguring {
		return phaseError("start", PhaseConfiguring, p.phase)
	}
	if p.bankID == "" {
		return &quiz.ValidationError{Field: "bankID", Reason: "is required"}
	}

	bank, err := playableBank(ctx, p.store, p.bankID)
	if err != nil {
		return err
	}
	log, err := p.store.Answers(ctx)
	if err != nil {
		return err
	}

	questions := selector.Select(bank, p.filter, log)
	if len(questions) == 0 {
		return fmt.Errorf("bank %q with filter %s: %w", bank.Name, p.filter, quiz.ErrEmptyResult)
	}

	p.questions = questions
	p.index = 0
	p.answers = nil
	p.tally = Tally{}
	p.startTime = p.opts.now()
	p.phase = PhaseInProgress
	p.resetQuestion()
	return nil
}

func (p *Practice) resetQuestion() {
	p.selection = quiz.UnansweredFor(p.questions[p.index].Kind)
	p.revealed = false
	p.last = nil
}

// Choose picks option i for the current question. Single and judgment
// questions replace the selection; multiple choice toggles membership.
func (p *Practice) Choose(i int) error {
	if p.phase != PhaseInProgress {
		return phaseError("choose", PhaseInProgress, p.phase)
	}
	if p.revealed {
		return &quiz.ValidationError{Field: "selection", Reason: "answer already submitted"}
	}
	q := p.questions[p.index]
	if i < 0 || i >= len(q.Options) {
		return &quiz.ValidationError{Field: "option", Reason: "out of range"}
	}

	if q.Kind == quiz.KindMultiple {
		p.selection = p.selection.Toggle(i)
	} else {
		p.selection = quiz.Scalar(i)
	}
	return nil
}

// Submit evaluates the selection, appends it to the answer log and updates
// today's record in one store write, then reveals the answer.
func (p *Practice) Submit(ctx context.Context) (*Feedback, error) {
	if p.phase != PhaseInProgress {
		return nil, phaseError("submit", PhaseInProgress, p.phase)
	}
	if p.revealed {
		return nil, &quiz.ValidationError{Field: "selection", Reason: "answer already submitted"}
	}
	if p.selection.IsEmpty() {
		return nil, &quiz.ValidationError{Field: "selection", Reason: "no answer selected"}
	}

	q := p.questions[p.index]
	correct := quiz.CheckQuestion(q, p.selection)
	entry := quiz.UserAnswer{
		QuestionID:     q.ID,
		SelectedAnswer: p.selection,
		IsCorrect:      correct,
		Timestamp:      quiz.MillisOf(p.opts.now()),
	}
	if err := p.store.RecordAnswer(ctx, entry); err != nil {
		return nil, fmt.Errorf("submit answer: %w", err)
	}

	p.answers = append(p.answers, entry)
	p.tally.Record(correct)
	p.revealed = true
	p.last = &Feedback{Question: q, Selected: p.selection, Correct: correct}
	return p.last, nil
}

// Advance moves past a revealed question. It returns nil until the last
// question; then it reports the run's tally, persists the run as a practice
// session and immediately re-selects with the same bank and filter.
func (p *Practice) Advance(ctx context.Context) (*Completion, error) {
	if p.phase != PhaseInProgress {
		return nil, phaseError("advance", PhaseInProgress, p.phase)
	}
	if !p.revealed {
		return nil, &quiz.ValidationError{Field: "selection", Reason: "submit before advancing"}
	}

	if p.index < len(p.questions)-1 {
		p.index++
		p.resetQuestion()
		return nil, nil
	}

	done := &Completion{
		Correct:  p.tally.Correct,
		Total:    p.tally.Total,
		Accuracy: p.tally.Accuracy(),
	}
	if err := p.persist(ctx); err != nil {
		return nil, err
	}

	p.phase = PhaseConfiguring
	p.questions = nil
	err := p.Start(ctx)
	switch {
	case err == nil:
		done.Reloaded = true
	case errors.Is(err, quiz.ErrEmptyResult):
		done.Empty = true
	default:
		return done, err
	}
	return done, nil
}

func (p *Practice) persist(ctx context.Context) error {
	end := quiz.MillisOf(p.opts.now())
	score := p.tally.Percent()
	s := quiz.StudySession{
		ID:        p.opts.newID(),
		BankID:    p.bankID,
		Answers:   slices.Clone(p.answers),
		StartTime: quiz.MillisOf(p.startTime),
		EndTime:   &end,
		Mode:      quiz.ModePractice,
		Score:     &score,
	}
	if err := p.store.SaveSession(ctx, s); err != nil {
		return fmt.Errorf("save practice session: %w", err)
	}
	return nil
}

// ToggleFavorite flips the favorite flag of the current question.
func (p *Practice) ToggleFavorite(ctx context.Context) (bool, error) {
	if p.phase != PhaseInProgress {
		return false, phaseError("toggle favorite", PhaseInProgress, p.phase)
	}
	return p.store.ToggleFavorite(ctx, p.questions[p.index].ID)
}

// IsFavorite reports whether the current question is a favorite.
func (p *Practice) IsFavorite(ctx context.Context) (bool, error) {
	if p.phase != PhaseInProgress {
		return false, nil
	}
	return p.store.IsFavorite(ctx, p.questions[p.index].ID)
}

// Abandon drops the current run without persisting a session. Answers
// already submitted stay in the log.
func (p *Practice) Abandon() {
	p.phase = PhaseConfiguring
	p.questions = nil
	p.answers = nil
	p.tally = Tally{}
	p.last = nil
	p.revealed = false
}

func (p *Practice) Phase() Phase { return p.phase }
func (p *Practice) BankID() string { return p.bankID }
func (p *Practice) Filter() selector.Filter { return p.filter }
func (p *Practice) Index() int { return p.index }
func (p *Practice) Len() int { return len(p.questions) }
func (p *Practice) Selection() quiz.Answer { return p.selection }
func (p *Practice) Revealed() bool { return p.revealed }
func (p *Practice) LastFeedback() *Feedback { return p.last }
func (p *Practice) Tally() Tally { return p.tally }

// Current returns the question being shown.
func (p *Practice) Current() (quiz.Question, bool) {
	if p.phase != PhaseInProgress || p.index >= len(p.questions) {
		return quiz.Question{}, false
	}
	return p.questions[p.index], true
}
