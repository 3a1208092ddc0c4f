package session

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/abhisek/quizzy/internal/quiz"
	"github.com/abhisek/quizzy/internal/selector"
)

// Exam is a timed run over a random sample of a bank. Answers can be
// changed freely until the exam is submitted, either manually or when the
// countdown reaches zero.
//
// Every transition holds mu, so a ticker goroutine and a manual Submit can
// race without producing two results.
type Exam struct {
	store Store
	opts  options

	mu        sync.Mutex
	phase     Phase
	cfg       ExamConfig
	questions []quiz.Question
	answers   map[string]quiz.Answer
	remaining int // seconds
	startTime time.Time
	result    *ExamResult
}

// NewExam creates an Exam in PhaseConfiguring.
func NewExam(store Store, opts ...Option) *Exam {
	return &Exam{
		store:   store,
		opts:    buildOptions(opts),
		answers: make(map[string]quiz.Answer),
	}
}

// Start validates cfg, samples the questions and starts the countdown.
// It is allowed from PhaseConfiguring and, as a restart, from
// PhaseCompleted.
func (e *Exam) Start(ctx context.Context, cfg ExamConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase == PhaseInProgress {
		return phaseError("start", PhaseConfiguring, e.phase)
	}
	return e.startLocked(ctx, cfg)
}

func (e *Exam) startLocked(ctx context.Context, cfg ExamConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	bank, err := playableBank(ctx, e.store, cfg.BankID)
	if err != nil {
		return err
	}
	if len(bank.Questions) == 0 {
		return fmt.Errorf("bank %q: %w", bank.Name, quiz.ErrEmptyResult)
	}

	cfg.QuestionCount = selector.Clamp(cfg.QuestionCount, len(bank.Questions))
	e.cfg = cfg
	e.questions = selector.Sample(bank.Questions, cfg.QuestionCount, e.opts.rng)
	e.answers = make(map[string]quiz.Answer, len(e.questions))
	e.remaining = cfg.TimeLimitSeconds()
	e.startTime = e.opts.now()
	e.result = nil
	e.phase = PhaseInProgress
	return nil
}

// Choose picks option i for the question. Multiple choice toggles.
func (e *Exam) Choose(questionID string, i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	q, err := e.questionLocked(questionID)
	if err != nil {
		return err
	}
	if i < 0 || i >= len(q.Options) {
		return &quiz.ValidationError{Field: "option", Reason: "out of range"}
	}

	if q.Kind == quiz.KindMultiple {
		cur, ok := e.answers[q.ID]
		if !ok {
			cur = quiz.Set()
		}
		e.answers[q.ID] = cur.Toggle(i)
	} else {
		e.answers[q.ID] = quiz.Scalar(i)
	}
	return nil
}

// SetAnswer replaces the answer for the question. The answer must have the
// question's shape and in-range indices; an empty answer clears it.
func (e *Exam) SetAnswer(questionID string, a quiz.Answer) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	q, err := e.questionLocked(questionID)
	if err != nil {
		return err
	}
	if err := quiz.CheckSelection(q, a); err != nil {
		return err
	}
	if a.IsEmpty() {
		delete(e.answers, q.ID)
		return nil
	}
	e.answers[q.ID] = a
	return nil
}

func (e *Exam) questionLocked(id string) (quiz.Question, error) {
	if e.phase != PhaseInProgress {
		return quiz.Question{}, phaseError("answer", PhaseInProgress, e.phase)
	}
	for _, q := range e.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return quiz.Question{}, &quiz.NotFoundError{Kind: "question", ID: id}
}

// Tick advances the countdown by one second. When it reaches zero the exam
// is submitted and Tick reports true. Ticks outside PhaseInProgress are
// ignored.
func (e *Exam) Tick(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseInProgress {
		return false, nil
	}
	if e.remaining > 0 {
		e.remaining--
	}
	if e.remaining > 0 {
		return false, nil
	}
	if _, err := e.submitLocked(ctx, true); err != nil {
		return false, err
	}
	return true, nil
}

// Submit scores the exam and persists it as a study session. Unanswered
// questions count as incorrect. Submitting a completed exam returns the
// existing result.
func (e *Exam) Submit(ctx context.Context) (*ExamResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase == PhaseCompleted {
		return e.result, nil
	}
	if e.phase != PhaseInProgress {
		return nil, phaseError("submit", PhaseInProgress, e.phase)
	}
	return e.submitLocked(ctx, false)
}

func (e *Exam) submitLocked(ctx context.Context, auto bool) (*ExamResult, error) {
	now := e.opts.now()
	ts := quiz.MillisOf(now)

	var tally Tally
	items := make([]ExamItem, 0, len(e.questions))
	entries := make([]quiz.UserAnswer, 0, len(e.questions))
	for _, q := range e.questions {
		selected, ok := e.answers[q.ID]
		if !ok || selected.IsEmpty() {
			selected = unansweredExam(q.Kind)
		}
		correct := quiz.CheckQuestion(q, selected)
		tally.Record(correct)

		items = append(items, ExamItem{Question: q, Selected: selected, Correct: correct})
		entries = append(entries, quiz.UserAnswer{
			QuestionID:     q.ID,
			SelectedAnswer: selected,
			IsCorrect:      correct,
			Timestamp:      ts,
		})
	}

	score := tally.Percent()
	s := quiz.StudySession{
		ID:        e.opts.newID(),
		BankID:    e.cfg.BankID,
		Answers:   entries,
		StartTime: quiz.MillisOf(e.startTime),
		EndTime:   &ts,
		Mode:      quiz.ModeExam,
		Score:     &score,
	}
	if err := e.store.SaveSession(ctx, s); err != nil {
		return nil, fmt.Errorf("save exam session: %w", err)
	}

	e.result = &ExamResult{
		Session:       s,
		Items:         items,
		Correct:       tally.Correct,
		Total:         tally.Total,
		Score:         score,
		Duration:      now.Sub(e.startTime),
		AutoSubmitted: auto,
	}
	e.phase = PhaseCompleted
	return e.result, nil
}

// unansweredExam is what an unanswered exam question is recorded as: -1 for
// scalar kinds, an empty set for multiple choice.
func unansweredExam(k quiz.Kind) quiz.Answer {
	if k == quiz.KindMultiple {
		return quiz.Set()
	}
	return quiz.Scalar(-1)
}

// Restart starts a fresh exam with the same configuration.
func (e *Exam) Restart(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseCompleted {
		return phaseError("restart", PhaseCompleted, e.phase)
	}
	return e.startLocked(ctx, e.cfg)
}

// Reconfigure returns a completed exam to PhaseConfiguring.
func (e *Exam) Reconfigure() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseCompleted {
		return phaseError("reconfigure", PhaseCompleted, e.phase)
	}
	e.phase = PhaseConfiguring
	e.result = nil
	e.questions = nil
	e.answers = make(map[string]quiz.Answer)
	return nil
}

// Abandon drops an in-progress exam without saving anything.
func (e *Exam) Abandon() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase == PhaseInProgress {
		e.phase = PhaseConfiguring
		e.questions = nil
		e.answers = make(map[string]quiz.Answer)
	}
}

func (e *Exam) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

func (e *Exam) Config() ExamConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// Questions returns the sampled questions in exam order.
func (e *Exam) Questions() []quiz.Question {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.questions)
}

// Answer returns the current answer for a question.
func (e *Exam) Answer(questionID string) (quiz.Answer, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	a, ok := e.answers[questionID]
	return a, ok
}

// AnsweredCount counts questions with a non-empty answer.
func (e *Exam) AnsweredCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, a := range e.answers {
		if !a.IsEmpty() {
			n++
		}
	}
	return n
}

// Remaining is the time left on the countdown.
func (e *Exam) Remaining() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return time.Duration(e.remaining) * time.Second
}

// Result returns the submitted result, or nil before submission.
func (e *Exam) Result() *ExamResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result
}
