// Package stats derives read-only views from the answer log, the banks, the
// favorite set and the daily records.
package stats

import (
	"cmp"
	"context"
	"slices"

	"github.com/abhisek/quizzy/internal/quiz"
	"github.com/abhisek/quizzy/internal/selector"
)

// Source is what the aggregator reads. *store.Repo satisfies it.
type Source interface {
	Banks(ctx context.Context) ([]quiz.Bank, error)
	Answers(ctx context.Context) ([]quiz.UserAnswer, error)
	Sessions(ctx context.Context) ([]quiz.StudySession, error)
	Favorites(ctx context.Context) ([]string, error)
	DailyRecords(ctx context.Context) ([]quiz.DailyRecord, error)
	TodayRecord(ctx context.Context) (*quiz.DailyRecord, error)
}

// Aggregator computes statistics on demand. It holds no state of its own.
type Aggregator struct {
	src Source
}

// New creates an Aggregator over src.
func New(src Source) *Aggregator {
	return &Aggregator{src: src}
}

// Accuracy is the fraction of correct entries in log, in [0,1]; 0 for an
// empty log. Overview.Percent gives the percentage.
func Accuracy(log []quiz.UserAnswer) float64 {
	if len(log) == 0 {
		return 0
	}
	correct := 0
	for _, a := range log {
		if a.IsCorrect {
			correct++
		}
	}
	return float64(correct) / float64(len(log))
}

// Overview summarizes all activity.
type Overview struct {
	Banks          int
	TotalQuestions int
	Answered       int // distinct question ids in the log
	Attempts       int
	Correct        int
	Wrong          int
	Accuracy       float64 // fraction in [0,1]
	Favorites      int
}

// Percent is the global accuracy as a percentage: correct / attempts x 100.
func (o *Overview) Percent() float64 {
	return o.Accuracy * 100
}

// Overview computes the dashboard numbers.
func (a *Aggregator) Overview(ctx context.Context) (*Overview, error) {
	banks, err := a.src.Banks(ctx)
	if err != nil {
		return nil, err
	}
	log, err := a.src.Answers(ctx)
	if err != nil {
		return nil, err
	}
	favs, err := a.src.Favorites(ctx)
	if err != nil {
		return nil, err
	}

	o := &Overview{
		Banks:     len(banks),
		Answered:  len(selector.AnsweredIDs(log)),
		Attempts:  len(log),
		Accuracy:  Accuracy(log),
		Favorites: len(favs),
	}
	for _, b := range banks {
		o.TotalQuestions += len(b.Questions)
	}
	for _, e := range log {
		if e.IsCorrect {
			o.Correct++
		} else {
			o.Wrong++
		}
	}
	return o, nil
}

// BankStats is per-bank progress recomputed from the log.
type BankStats struct {
	BankID         string
	Name           string
	TotalQuestions int
	Answered       int
	Attempts       int
	Correct        int
	WrongQuestions int
	Accuracy       float64 // fraction in [0,1]
}

// Progress is the answered fraction of the bank.
func (s *BankStats) Progress() float64 {
	if s.TotalQuestions == 0 {
		return 0
	}
	return float64(s.Answered) / float64(s.TotalQuestions)
}

// BankStats computes progress for one bank.
func (a *Aggregator) BankStats(ctx context.Context, bankID string) (*BankStats, error) {
	banks, err := a.src.Banks(ctx)
	if err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(banks, func(b quiz.Bank) bool { return b.ID == bankID })
	if idx < 0 {
		return nil, &quiz.NotFoundError{Kind: "bank", ID: bankID}
	}
	log, err := a.src.Answers(ctx)
	if err != nil {
		return nil, err
	}
	return bankStats(&banks[idx], log), nil
}

// AllBankStats computes progress for every bank in storage order.
func (a *Aggregator) AllBankStats(ctx context.Context) ([]BankStats, error) {
	banks, err := a.src.Banks(ctx)
	if err != nil {
		return nil, err
	}
	log, err := a.src.Answers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]BankStats, 0, len(banks))
	for i := range banks {
		out = append(out, *bankStats(&banks[i], log))
	}
	return out, nil
}

func bankStats(b *quiz.Bank, log []quiz.UserAnswer) *BankStats {
	inBank := make(map[string]bool, len(b.Questions))
	for _, q := range b.Questions {
		inBank[q.ID] = true
	}

	var scoped []quiz.UserAnswer
	for _, e := range log {
		if inBank[e.QuestionID] {
			scoped = append(scoped, e)
		}
	}

	s := &BankStats{
		BankID:         b.ID,
		Name:           b.Name,
		TotalQuestions: len(b.Questions),
		Answered:       len(selector.AnsweredIDs(scoped)),
		Attempts:       len(scoped),
		WrongQuestions: len(selector.WrongIDs(scoped)),
		Accuracy:       Accuracy(scoped),
	}
	for _, e := range scoped {
		if e.IsCorrect {
			s.Correct++
		}
	}
	return s
}

// Today returns today's record. ok is false when there was no activity,
// which is distinct from a record of zeros.
func (a *Aggregator) Today(ctx context.Context) (rec quiz.DailyRecord, ok bool, err error) {
	r, err := a.src.TodayRecord(ctx)
	if err != nil || r == nil {
		return quiz.DailyRecord{}, false, err
	}
	return *r, true, nil
}

// Recent returns up to n daily records, newest first.
func (a *Aggregator) Recent(ctx context.Context, n int) ([]quiz.DailyRecord, error) {
	records, err := a.src.DailyRecords(ctx)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return []quiz.DailyRecord{}, nil
	}

	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(x, y quiz.DailyRecord) int { return cmp.Compare(x.Date, y.Date) })
	if len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}
	slices.Reverse(sorted)
	if sorted == nil {
		sorted = []quiz.DailyRecord{}
	}
	return sorted, nil
}

// QuestionRef is a question resolved together with its bank.
type QuestionRef struct {
	Question quiz.Question
	BankID   string
	BankName string
}

// Resolved is a list of questions looked up by id. Orphans counts ids that
// no longer exist in any bank.
type Resolved struct {
	Questions []QuestionRef
	Orphans   int
}

// Favorites resolves the favorite set against the current banks.
func (a *Aggregator) Favorites(ctx context.Context) (*Resolved, error) {
	favs, err := a.src.Favorites(ctx)
	if err != nil {
		return nil, err
	}
	banks, err := a.src.Banks(ctx)
	if err != nil {
		return nil, err
	}
	return resolve(favs, banks), nil
}

// WrongQuestions resolves every question with at least one incorrect
// answer, in log order of first mistake.
func (a *Aggregator) WrongQuestions(ctx context.Context) (*Resolved, error) {
	log, err := a.src.Answers(ctx)
	if err != nil {
		return nil, err
	}
	banks, err := a.src.Banks(ctx)
	if err != nil {
		return nil, err
	}

	var ids []string
	seen := make(map[string]bool)
	for _, e := range log {
		if !e.IsCorrect && !seen[e.QuestionID] {
			seen[e.QuestionID] = true
			ids = append(ids, e.QuestionID)
		}
	}
	return resolve(ids, banks), nil
}

func resolve(ids []string, banks []quiz.Bank) *Resolved {
	index := make(map[string]QuestionRef)
	for _, b := range banks {
		for _, q := range b.Questions {
			index[q.ID] = QuestionRef{Question: q, BankID: b.ID, BankName: b.Name}
		}
	}

	out := &Resolved{Questions: []QuestionRef{}}
	for _, id := range ids {
		ref, ok := index[id]
		if !ok {
			out.Orphans++
			continue
		}
		out.Questions = append(out.Questions, ref)
	}
	return out
}

// ExamHistory returns up to n exam sessions, most recent first.
func (a *Aggregator) ExamHistory(ctx context.Context, n int) ([]quiz.StudySession, error) {
	sessions, err := a.src.Sessions(ctx)
	if err != nil {
		return nil, err
	}

	var exams []quiz.StudySession
	for _, s := range sessions {
		if s.Mode == quiz.ModeExam {
			exams = append(exams, s)
		}
	}
	slices.SortStableFunc(exams, func(x, y quiz.StudySession) int { return cmp.Compare(y.StartTime, x.StartTime) })
	if n > 0 && len(exams) > n {
		exams = exams[:n]
	}
	if exams == nil {
		exams = []quiz.StudySession{}
	}
	return exams, nil
}
