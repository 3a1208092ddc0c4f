package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizzy/internal/llm"
	"github.com/abhisek/quizzy/internal/quiz"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.ExamQuestions)
	assert.Equal(t, 30, cfg.ExamMinutes)
	assert.Equal(t, 7, cfg.RecentDays)
	assert.Empty(t, cfg.DBPath)
	assert.False(t, cfg.LLM.Enabled())
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"QUIZZY_DB":             "/tmp/q.db",
		"QUIZZY_EXAM_QUESTIONS": "50",
		"QUIZZY_EXAM_MINUTES":   "90",
		"QUIZZY_RECENT_DAYS":    "14",
		"QUIZZY_LLM_PROVIDER":   "mock",
		"QUIZZY_LLM_LOG":        "/tmp/llm.log",
	}))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/q.db", cfg.DBPath)
	assert.Equal(t, 50, cfg.ExamQuestions)
	assert.Equal(t, 90, cfg.ExamMinutes)
	assert.Equal(t, 14, cfg.RecentDays)
	assert.Equal(t, llm.ProviderMock, cfg.LLM.Provider)
	assert.Equal(t, "/tmp/llm.log", cfg.LLMLog)

	exam := cfg.ExamDefaults("b1")
	assert.Equal(t, "b1", exam.BankID)
	assert.Equal(t, 50, exam.QuestionCount)
	assert.Equal(t, 90, exam.TimeLimitMinutes)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		field string
	}{
		{"not a number", map[string]string{"QUIZZY_EXAM_MINUTES": "half an hour"}, "QUIZZY_EXAM_MINUTES"},
		{"zero minutes", map[string]string{"QUIZZY_EXAM_MINUTES": "0"}, "examMinutes"},
		{"negative days", map[string]string{"QUIZZY_RECENT_DAYS": "-3"}, "recentDays"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(env(tt.env))
			require.ErrorIs(t, err, quiz.ErrValidation)
			var verr *quiz.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quizzy.env")
	require.NoError(t, os.WriteFile(path, []byte("QUIZZY_EXAM_QUESTIONS=5\nQUIZZY_RECENT_DAYS=3\n"), 0o644))

	t.Setenv("QUIZZY_RECENT_DAYS", "10")

	cfg, err := Load(path, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.ExamQuestions)
	assert.Equal(t, 10, cfg.RecentDays, "process environment wins over the file")
}
