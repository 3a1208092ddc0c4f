package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/abhisek/quizzy/internal/quiz"
)

func startExam(t *testing.T, st Store, cfg ExamConfig) *Exam {
	t.Helper()
	e := NewExam(st, testOptions()...)
	if err := e.Start(context.Background(), cfg); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return e
}

func submit(t *testing.T, e *Exam) *ExamResult {
	t.Helper()
	res, err := e.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	return res
}

func TestExam_ClampsQuestionCount(t *testing.T) {
	repo := newTestRepo(t, threeQuestionBank())
	e := startExam(t, repo, ExamConfig{BankID: "bank-1", QuestionCount: 5, TimeLimitMinutes: 10})

	if n := len(e.Questions()); n != 3 {
		t.Errorf("len(Questions()) = %d, want 3", n)
	}
	if n := e.Config().QuestionCount; n != 3 {
		t.Errorf("QuestionCount = %d, want 3", n)
	}
	if got := e.Remaining(); got != 10*time.Minute {
		t.Errorf("Remaining() = %v, want 10m", got)
	}
	if e.Phase() != PhaseInProgress {
		t.Errorf("Phase() = %v, want in-progress", e.Phase())
	}
}

func TestExam_ConfigValidation(t *testing.T) {
	repo := newTestRepo(t, threeQuestionBank(), quiz.Bank{ID: "empty", Name: "Empty"})
	ctx := context.Background()

	tests := []struct {
		name string
		cfg  ExamConfig
		want error
	}{
		{"no bank", ExamConfig{QuestionCount: 3, TimeLimitMinutes: 5}, quiz.ErrValidation},
		{"zero minutes", ExamConfig{BankID: "bank-1", QuestionCount: 3}, quiz.ErrValidation},
		{"unknown bank", ExamConfig{BankID: "missing", QuestionCount: 3, TimeLimitMinutes: 5}, quiz.ErrNotFound},
		{"empty bank", ExamConfig{BankID: "empty", QuestionCount: 3, TimeLimitMinutes: 5}, quiz.ErrEmptyResult},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExam(repo, testOptions()...)
			if err := e.Start(ctx, tt.cfg); !errors.Is(err, tt.want) {
				t.Errorf("Start() error = %v, want %v", err, tt.want)
			}
			if e.Phase() != PhaseConfiguring {
				t.Errorf("Phase() = %v, want configuring", e.Phase())
			}
		})
	}
}

func TestExam_PerfectScore(t *testing.T) {
	repo := newTestRepo(t, threeQuestionBank())
	ctx := context.Background()
	e := startExam(t, repo, ExamConfig{BankID: "bank-1", QuestionCount: 3, TimeLimitMinutes: 5})

	steps := []struct {
		id  string
		opt int
	}{
		{"single", 2},
		{"single", 1}, // answers can change
		{"multi", 0},
		{"multi", 2},
	}
	for _, s := range steps {
		if err := e.Choose(s.id, s.opt); err != nil {
			t.Fatalf("Choose(%s, %d): %v", s.id, s.opt, err)
		}
	}
	if err := e.SetAnswer("judge", quiz.Scalar(0)); err != nil {
		t.Fatalf("SetAnswer: %v", err)
	}
	if n := e.AnsweredCount(); n != 3 {
		t.Errorf("AnsweredCount() = %d, want 3", n)
	}

	res := submit(t, e)
	if res.Correct != 3 || res.Total != 3 {
		t.Errorf("result = %d/%d, want 3/3", res.Correct, res.Total)
	}
	if !approx(res.Score, 100) || res.ScoreText() != "100.0" {
		t.Errorf("Score = %v (%s), want 100.0", res.Score, res.ScoreText())
	}
	if len(res.Wrong()) != 0 {
		t.Errorf("len(Wrong()) = %d, want 0", len(res.Wrong()))
	}
	if res.AutoSubmitted {
		t.Error("manual submit reported as automatic")
	}
	if e.Phase() != PhaseCompleted {
		t.Errorf("Phase() = %v, want completed", e.Phase())
	}

	sessions, err := repo.Sessions(ctx)
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("len(sessions) = %d, want 1", len(sessions))
	}
	if sessions[0].Mode != quiz.ModeExam {
		t.Errorf("Mode = %q, want exam", sessions[0].Mode)
	}
	for _, a := range sessions[0].Answers {
		if !a.IsCorrect {
			t.Errorf("answer %s stored as incorrect", a.QuestionID)
		}
	}

	// Exams do not feed the practice answer log.
	answers, err := repo.Answers(ctx)
	if err != nil {
		t.Fatalf("Answers: %v", err)
	}
	if len(answers) != 0 {
		t.Errorf("len(answers) = %d, want 0", len(answers))
	}
}

func TestExam_SetAnswerChecksShapeAndRange(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		answer  quiz.Answer
		wantErr bool
	}{
		{"single in range", "single", quiz.Scalar(2), false},
		{"single out of range", "single", quiz.Scalar(42), true},
		{"single negative", "single", quiz.Scalar(-1), true},
		{"single given a set", "single", quiz.Set(1), true},
		{"multiple in range", "multi", quiz.Set(0, 2), false},
		{"multiple given a scalar", "multi", quiz.Scalar(0), true},
		{"multiple out of range", "multi", quiz.Set(0, 3), true},
		{"judgment out of range", "judge", quiz.Scalar(2), true},
		{"clear single", "single", quiz.Unanswered(), false},
		{"clear multiple", "multi", quiz.Set(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newTestRepo(t, threeQuestionBank())
			e := startExam(t, repo, ExamConfig{BankID: "bank-1", QuestionCount: 3, TimeLimitMinutes: 5})

			err := e.SetAnswer(tt.id, tt.answer)
			if tt.wantErr {
				if !errors.Is(err, quiz.ErrValidation) {
					t.Fatalf("SetAnswer() error = %v, want ErrValidation", err)
				}
				if _, ok := e.Answer(tt.id); ok {
					t.Error("rejected answer was stored")
				}
				if n := e.AnsweredCount(); n != 0 {
					t.Errorf("AnsweredCount() = %d, want 0", n)
				}
				return
			}
			if err != nil {
				t.Fatalf("SetAnswer() error = %v", err)
			}
		})
	}
}

func TestExam_SetAnswerEmptyClears(t *testing.T) {
	repo := newTestRepo(t, threeQuestionBank())
	e := startExam(t, repo, ExamConfig{BankID: "bank-1", QuestionCount: 3, TimeLimitMinutes: 5})

	if err := e.Choose("multi", 0); err != nil {
		t.Fatalf("Choose: %v", err)
	}
	if err := e.SetAnswer("multi", quiz.Set()); err != nil {
		t.Fatalf("SetAnswer: %v", err)
	}
	if _, ok := e.Answer("multi"); ok {
		t.Error("empty answer should clear the question")
	}
}

func TestExam_SkipsUnanswerableQuestions(t *testing.T) {
	bank := threeQuestionBank()
	bank.Questions = append(bank.Questions,
		quiz.Question{ID: "broken", Text: "No options", Kind: quiz.KindSingle, CorrectAnswer: quiz.Scalar(4)})
	e := startExam(t, &rawBankStore{Store: newTestRepo(t), bank: bank},
		ExamConfig{BankID: "bank-1", QuestionCount: 10, TimeLimitMinutes: 5})

	if n := len(e.Questions()); n != 3 {
		t.Errorf("len(Questions()) = %d, want 3", n)
	}
	for _, q := range e.Questions() {
		if q.ID == "broken" {
			t.Error("sampled a question with no options")
		}
	}
}

func TestExam_UnansweredScoredIncorrect(t *testing.T) {
	repo := newTestRepo(t, threeQuestionBank())
	e := startExam(t, repo, ExamConfig{BankID: "bank-1", QuestionCount: 3, TimeLimitMinutes: 5})

	if err := e.Choose("single", 1); err != nil {
		t.Fatalf("Choose: %v", err)
	}
	res := submit(t, e)

	if res.Correct != 1 {
		t.Errorf("Correct = %d, want 1", res.Correct)
	}
	if res.ScoreText() != "33.3" {
		t.Errorf("ScoreText() = %q, want 33.3", res.ScoreText())
	}
	if n := len(res.Wrong()); n != 2 {
		t.Fatalf("len(Wrong()) = %d, want 2", n)
	}

	for _, it := range res.Items {
		switch it.Question.ID {
		case "multi":
			if !it.Selected.Equal(quiz.Set()) {
				t.Errorf("multi selected = %v, want empty set", it.Selected)
			}
		case "judge":
			if !it.Selected.Equal(quiz.Scalar(-1)) {
				t.Errorf("judge selected = %v, want -1", it.Selected)
			}
		}
	}
}

func TestExam_SecondSubmitReturnsSameResult(t *testing.T) {
	repo := newTestRepo(t, threeQuestionBank())
	st := &countingStore{Store: repo}
	e := startExam(t, st, ExamConfig{BankID: "bank-1", QuestionCount: 2, TimeLimitMinutes: 1})

	first := submit(t, e)
	second := submit(t, e)
	if first != second {
		t.Error("second Submit returned a different result")
	}
	if n := st.Saves(); n != 1 {
		t.Errorf("saves = %d, want 1", n)
	}
	if err := e.Choose("single", 0); !errors.Is(err, quiz.ErrValidation) {
		t.Errorf("Choose after submit: error = %v, want ErrValidation", err)
	}
}

func TestExam_CountdownAutoSubmits(t *testing.T) {
	repo := newTestRepo(t, threeQuestionBank())
	ctx := context.Background()
	e := startExam(t, repo, ExamConfig{BankID: "bank-1", QuestionCount: 3, TimeLimitMinutes: 1})

	for i := range 59 {
		submitted, err := e.Tick(ctx)
		if err != nil {
			t.Fatalf("Tick %d: %v", i, err)
		}
		if submitted {
			t.Fatalf("tick %d submitted early", i)
		}
	}
	if got := e.Remaining(); got != time.Second {
		t.Errorf("Remaining() = %v, want 1s", got)
	}

	submitted, err := e.Tick(ctx)
	if err != nil || !submitted {
		t.Fatalf("last Tick() = %v, %v; want true", submitted, err)
	}
	if e.Phase() != PhaseCompleted {
		t.Errorf("Phase() = %v, want completed", e.Phase())
	}
	if !e.Result().AutoSubmitted {
		t.Error("expected AutoSubmitted")
	}

	if submitted, _ := e.Tick(ctx); submitted {
		t.Error("ticks after completion are ignored")
	}
}

func TestExam_AutoSubmitRacesManualSubmit(t *testing.T) {
	for round := range 50 {
		repo := newTestRepo(t, threeQuestionBank())
		st := &countingStore{Store: repo}
		ctx := context.Background()
		e := startExam(t, st, ExamConfig{BankID: "bank-1", QuestionCount: 3, TimeLimitMinutes: 1})
		for i := range 59 {
			if _, err := e.Tick(ctx); err != nil {
				t.Fatalf("Tick %d: %v", i, err)
			}
		}

		var wg sync.WaitGroup
		start := make(chan struct{})
		wg.Add(2)
		go func() {
			defer wg.Done()
			<-start
			_, _ = e.Tick(ctx)
		}()
		go func() {
			defer wg.Done()
			<-start
			_, _ = e.Submit(ctx)
		}()
		close(start)
		wg.Wait()

		if n := st.Saves(); n != 1 {
			t.Errorf("round %d: saves = %d, want 1", round, n)
		}
		sessions, err := repo.Sessions(ctx)
		if err != nil {
			t.Fatalf("Sessions: %v", err)
		}
		if len(sessions) != 1 {
			t.Errorf("round %d: len(sessions) = %d, want 1", round, len(sessions))
		}
	}
}

func TestExam_RestartAndReconfigure(t *testing.T) {
	repo := newTestRepo(t, threeQuestionBank())
	ctx := context.Background()
	e := startExam(t, repo, ExamConfig{BankID: "bank-1", QuestionCount: 2, TimeLimitMinutes: 3})

	if err := e.Restart(ctx); !errors.Is(err, quiz.ErrValidation) {
		t.Errorf("Restart while running: error = %v, want ErrValidation", err)
	}
	if err := e.Start(ctx, e.Config()); !errors.Is(err, quiz.ErrValidation) {
		t.Errorf("Start while running: error = %v, want ErrValidation", err)
	}

	if err := e.Choose(e.Questions()[0].ID, 0); err != nil {
		t.Fatalf("Choose: %v", err)
	}
	submit(t, e)

	if err := e.Restart(ctx); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if e.Phase() != PhaseInProgress {
		t.Errorf("Phase() = %v, want in-progress", e.Phase())
	}
	if e.Result() != nil {
		t.Error("Result() should be cleared by a restart")
	}
	if n := e.AnsweredCount(); n != 0 {
		t.Errorf("AnsweredCount() = %d, want 0", n)
	}
	if got := e.Remaining(); got != 3*time.Minute {
		t.Errorf("Remaining() = %v, want 3m", got)
	}
	if n := len(e.Questions()); n != 2 {
		t.Errorf("len(Questions()) = %d, want 2", n)
	}

	submit(t, e)
	if err := e.Reconfigure(); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}
	if e.Phase() != PhaseConfiguring {
		t.Errorf("Phase() = %v, want configuring", e.Phase())
	}
	if n := len(e.Questions()); n != 0 {
		t.Errorf("len(Questions()) = %d, want 0", n)
	}
}

func TestExam_UnknownQuestion(t *testing.T) {
	repo := newTestRepo(t, threeQuestionBank())
	e := startExam(t, repo, ExamConfig{BankID: "bank-1", QuestionCount: 3, TimeLimitMinutes: 1})

	if err := e.Choose("nope", 0); !errors.Is(err, quiz.ErrNotFound) {
		t.Errorf("Choose(nope) error = %v, want ErrNotFound", err)
	}
	if err := e.Choose("single", 9); !errors.Is(err, quiz.ErrValidation) {
		t.Errorf("Choose(single, 9) error = %v, want ErrValidation", err)
	}
}
