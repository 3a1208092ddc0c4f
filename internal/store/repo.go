package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/abhisek/quizzy/internal/quiz"
)

// Collection keys. The first five are the learner's data; explanations is a
// cache of generated explanations keyed by question id.
const (
	KeyBanks        = "questionBanks"
	KeyAnswers      = "userAnswers"
	KeySessions     = "studySessions"
	KeyFavorites    = "favorites"
	KeyDailyRecords = "dailyRecords"
	KeyExplanations = "explanations"
)

// AllKeys lists every key the repo owns.
var AllKeys = []string{KeyBanks, KeyAnswers, KeySessions, KeyFavorites, KeyDailyRecords, KeyExplanations}

// Repo owns serialization of the quiz collections on top of a KV.
//
// Every write is a read-modify-write of a whole collection. A collection
// that fails to decode is treated as empty and reported as a warning; it is
// not an error for the caller. There is no protection against a second
// writer touching the same database.
type Repo struct {
	kv   KV
	now  func() time.Time
	warn func(error)

	mu       sync.Mutex
	warnings []error
}

// Option configures a Repo.
type Option func(*Repo)

// WithClock overrides the clock used for daily record dates.
func WithClock(now func() time.Time) Option {
	return func(r *Repo) { r.now = now }
}

// WithWarningHook sets the function called for each non-fatal warning.
// Pass nil to silence warnings (they are still collected).
func WithWarningHook(fn func(error)) Option {
	return func(r *Repo) { r.warn = fn }
}

// NewRepo creates a Repo backed by kv.
func NewRepo(kv KV, opts ...Option) *Repo {
	r := &Repo{
		kv:  kv,
		now: time.Now,
		warn: func(err error) {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Now returns the repo clock's current time.
func (r *Repo) Now() time.Time {
	return r.now()
}

// Warnings returns and clears the collected warnings.
func (r *Repo) Warnings() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w := r.warnings
	r.warnings = nil
	return w
}

func (r *Repo) corrupt(key string, err error) {
	cerr := &quiz.CorruptionError{Key: key, Err: err}
	r.mu.Lock()
	r.warnings = append(r.warnings, cerr)
	r.mu.Unlock()
	if r.warn != nil {
		r.warn(cerr)
	}
}

// loadCollection decodes key into T. Absent keys yield the zero value;
// corrupt values yield the zero value plus a recorded warning.
func loadCollection[T any](ctx context.Context, r *Repo, key string) (T, error) {
	var zero T
	raw, ok, err := r.kv.Get(ctx, key)
	if err != nil {
		return zero, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok || len(bytes.TrimSpace(raw)) == 0 {
		return zero, nil
	}

	if err := validateCollection(key, raw); err != nil {
		r.corrupt(key, err)
		return zero, nil
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		r.corrupt(key, err)
		return zero, nil
	}
	return out, nil
}

// encodeSlice marshals v, writing nil as an empty array.
func encodeSlice[T any](key string, v []T) ([]byte, error) {
	if v == nil {
		v = []T{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", key, err)
	}
	return b, nil
}

func saveSlice[T any](ctx context.Context, r *Repo, key string, v []T) error {
	b, err := encodeSlice(key, v)
	if err != nil {
		return err
	}
	if err := r.kv.Set(ctx, key, b); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Banks returns every question bank in insertion order. Stored questions
// that break the question invariants are dropped and reported as
// corruption warnings.
func (r *Repo) Banks(ctx context.Context) ([]quiz.Bank, error) {
	banks, err := loadCollection[[]quiz.Bank](ctx, r, KeyBanks)
	if err != nil {
		return nil, err
	}
	for i := range banks {
		valid, errs := quiz.Playable(banks[i].Questions)
		if len(errs) == 0 {
			continue
		}
		banks[i].Questions = valid
		r.corrupt(KeyBanks, fmt.Errorf("bank %q: dropped %d invalid questions: %w",
			banks[i].ID, len(errs), errors.Join(errs...)))
	}
	return banks, nil
}

// Bank returns the bank with the given id.
func (r *Repo) Bank(ctx context.Context, id string) (*quiz.Bank, error) {
	banks, err := r.Banks(ctx)
	if err != nil {
		return nil, err
	}
	for i := range banks {
		if banks[i].ID == id {
			return &banks[i], nil
		}
	}
	return nil, &quiz.NotFoundError{Kind: "bank", ID: id}
}

// SaveBank inserts the bank or replaces the one with the same id. Every
// question must pass quiz.ValidateQuestion; the first failure is returned
// and nothing is written.
func (r *Repo) SaveBank(ctx context.Context, bank quiz.Bank) error {
	for _, q := range bank.Questions {
		if err := quiz.ValidateQuestion(q); err != nil {
			return fmt.Errorf("bank %q question %q: %w", bank.ID, q.ID, err)
		}
	}
	banks, err := r.Banks(ctx)
	if err != nil {
		return err
	}
	bank.Questions = normalizeQuestions(bank.Questions)

	idx := slices.IndexFunc(banks, func(b quiz.Bank) bool { return b.ID == bank.ID })
	if idx >= 0 {
		banks[idx] = bank
	} else {
		banks = append(banks, bank)
	}
	return saveSlice(ctx, r, KeyBanks, banks)
}

// DeleteBank removes a bank. Answer log entries and favorites that reference
// its questions are kept.
func (r *Repo) DeleteBank(ctx context.Context, id string) error {
	banks, err := r.Banks(ctx)
	if err != nil {
		return err
	}
	idx := slices.IndexFunc(banks, func(b quiz.Bank) bool { return b.ID == id })
	if idx < 0 {
		return &quiz.NotFoundError{Kind: "bank", ID: id}
	}
	return saveSlice(ctx, r, KeyBanks, slices.Delete(banks, idx, idx+1))
}

// Answers returns the full answer log.
func (r *Repo) Answers(ctx context.Context) ([]quiz.UserAnswer, error) {
	return loadCollection[[]quiz.UserAnswer](ctx, r, KeyAnswers)
}

// RecordAnswer appends a to the answer log and merges it into today's daily
// record in a single atomic write.
func (r *Repo) RecordAnswer(ctx context.Context, a quiz.UserAnswer) error {
	answers, err := r.Answers(ctx)
	if err != nil {
		return err
	}
	records, err := r.DailyRecords(ctx)
	if err != nil {
		return err
	}

	correct := 0
	if a.IsCorrect {
		correct = 1
	}
	answers = append(answers, a)
	records = mergeDaily(records, quiz.LocalDate(r.now()), 1, correct, 0)

	answersRaw, err := encodeSlice(KeyAnswers, answers)
	if err != nil {
		return err
	}
	recordsRaw, err := encodeSlice(KeyDailyRecords, records)
	if err != nil {
		return err
	}
	if err := r.kv.SetMany(ctx, map[string][]byte{
		KeyAnswers:      answersRaw,
		KeyDailyRecords: recordsRaw,
	}); err != nil {
		return fmt.Errorf("record answer: %w", err)
	}
	return nil
}

// Sessions returns all stored study sessions.
func (r *Repo) Sessions(ctx context.Context) ([]quiz.StudySession, error) {
	return loadCollection[[]quiz.StudySession](ctx, r, KeySessions)
}

// SaveSession inserts the session or replaces the one with the same id.
func (r *Repo) SaveSession(ctx context.Context, s quiz.StudySession) error {
	sessions, err := r.Sessions(ctx)
	if err != nil {
		return err
	}
	if s.Answers == nil {
		s.Answers = []quiz.UserAnswer{}
	}

	idx := slices.IndexFunc(sessions, func(x quiz.StudySession) bool { return x.ID == s.ID })
	if idx >= 0 {
		sessions[idx] = s
	} else {
		sessions = append(sessions, s)
	}
	return saveSlice(ctx, r, KeySessions, sessions)
}

// Favorites returns the favorite question ids.
func (r *Repo) Favorites(ctx context.Context) ([]string, error) {
	return loadCollection[[]string](ctx, r, KeyFavorites)
}

// IsFavorite reports whether questionID is a favorite.
func (r *Repo) IsFavorite(ctx context.Context, questionID string) (bool, error) {
	favs, err := r.Favorites(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(favs, questionID), nil
}

// ToggleFavorite flips membership and returns the new state.
func (r *Repo) ToggleFavorite(ctx context.Context, questionID string) (bool, error) {
	favs, err := r.Favorites(ctx)
	if err != nil {
		return false, err
	}

	nowFavorite := true
	if idx := slices.Index(favs, questionID); idx >= 0 {
		favs = slices.Delete(favs, idx, idx+1)
		nowFavorite = false
	} else {
		favs = append(favs, questionID)
	}

	if err := saveSlice(ctx, r, KeyFavorites, favs); err != nil {
		return false, err
	}
	return nowFavorite, nil
}

// DailyRecords returns the stored daily records.
func (r *Repo) DailyRecords(ctx context.Context) ([]quiz.DailyRecord, error) {
	return loadCollection[[]quiz.DailyRecord](ctx, r, KeyDailyRecords)
}

// UpdateDailyRecord adds the deltas to the record for today's local date,
// creating it when absent.
func (r *Repo) UpdateDailyRecord(ctx context.Context, answered, correct, studyTime int) error {
	records, err := r.DailyRecords(ctx)
	if err != nil {
		return err
	}
	records = mergeDaily(records, quiz.LocalDate(r.now()), answered, correct, studyTime)
	return saveSlice(ctx, r, KeyDailyRecords, records)
}

// TodayRecord returns today's record, or nil when there was no activity.
func (r *Repo) TodayRecord(ctx context.Context) (*quiz.DailyRecord, error) {
	records, err := r.DailyRecords(ctx)
	if err != nil {
		return nil, err
	}
	today := quiz.LocalDate(r.now())
	for i := range records {
		if records[i].Date == today {
			return &records[i], nil
		}
	}
	return nil, nil
}

func mergeDaily(records []quiz.DailyRecord, date string, answered, correct, studyTime int) []quiz.DailyRecord {
	for i := range records {
		if records[i].Date == date {
			records[i].QuestionsAnswered += answered
			records[i].CorrectAnswers += correct
			records[i].StudyTime += studyTime
			return records
		}
	}
	return append(records, quiz.DailyRecord{
		Date:              date,
		QuestionsAnswered: answered,
		CorrectAnswers:    correct,
		StudyTime:         studyTime,
	})
}

// Explanations returns cached explanations keyed by question id.
func (r *Repo) Explanations(ctx context.Context) (map[string]string, error) {
	m, err := loadCollection[map[string]string](ctx, r, KeyExplanations)
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = make(map[string]string)
	}
	return m, nil
}

// SaveExplanation caches an explanation for a question.
func (r *Repo) SaveExplanation(ctx context.Context, questionID, text string) error {
	m, err := r.Explanations(ctx)
	if err != nil {
		return err
	}
	m[questionID] = text
	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyExplanations, err)
	}
	if err := r.kv.Set(ctx, KeyExplanations, b); err != nil {
		return fmt.Errorf("save %s: %w", KeyExplanations, err)
	}
	return nil
}

// Reset deletes every collection.
func (r *Repo) Reset(ctx context.Context) error {
	if err := r.kv.Delete(ctx, AllKeys...); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	return nil
}

func normalizeQuestions(qs []quiz.Question) []quiz.Question {
	if qs == nil {
		return []quiz.Question{}
	}
	for i := range qs {
		if qs[i].Options == nil {
			qs[i].Options = []string{}
		}
	}
	return qs
}
