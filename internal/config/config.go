// Package config resolves quizzy settings from the environment and optional
// .env files. Process environment wins over file values; command-line flags
// are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/abhisek/quizzy/internal/llm"
	"github.com/abhisek/quizzy/internal/quiz"
	"github.com/abhisek/quizzy/internal/session"
)

// DefaultRecentDays is how many days of history the statistics view shows.
const DefaultRecentDays = 7

type Config struct {
	// DBPath is empty when the store's default location should be used.
	DBPath string

	ExamQuestions int `validate:"min=1"`
	ExamMinutes   int `validate:"min=1"`
	RecentDays    int `validate:"min=1"`

	// LLMLog, when set, is a file that receives one line per LLM request.
	LLMLog string

	LLM llm.Config
}

func Default() Config {
	return Config{
		ExamQuestions: session.DefaultQuestionCount,
		ExamMinutes:   session.DefaultTimeLimitMinutes,
		RecentDays:    DefaultRecentDays,
		LLM:           llm.DefaultConfig(),
	}
}

// Load reads the given .env files (".env" when none are named) and then the
// process environment. Missing files are skipped.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	fileVals := make(map[string]string)
	for _, f := range files {
		vals, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Config{}, fmt.Errorf("read %s: %w", f, err)
		}
		for k, v := range vals {
			if _, seen := fileVals[k]; !seen {
				fileVals[k] = v
			}
		}
	}

	return FromEnv(func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return fileVals[key]
	})
}

// FromEnv builds a Config from getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()
	cfg.DBPath = getenv("QUIZZY_DB")
	cfg.LLMLog = getenv("QUIZZY_LLM_LOG")
	cfg.LLM = llm.FromEnv(getenv)

	ints := []struct {
		key string
		dst *int
	}{
		{"QUIZZY_EXAM_QUESTIONS", &cfg.ExamQuestions},
		{"QUIZZY_EXAM_MINUTES", &cfg.ExamMinutes},
		{"QUIZZY_RECENT_DAYS", &cfg.RecentDays},
	}
	for _, e := range ints {
		raw := getenv(e.key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, &quiz.ValidationError{Field: e.key, Reason: fmt.Sprintf("%q is not an integer", raw)}
		}
		*e.dst = n
	}

	if err := quiz.ValidateStruct(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ExamDefaults returns the exam configuration prefilled from cfg.
func (c Config) ExamDefaults(bankID string) session.ExamConfig {
	return session.ExamConfig{
		BankID:           bankID,
		QuestionCount:    c.ExamQuestions,
		TimeLimitMinutes: c.ExamMinutes,
	}
}
