// Package explain supplies explanations for quiz questions: the one authored
// in the bank when present, otherwise one generated by an LLM and cached in
// the store.
package explain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/quizzy/internal/llm"
	"github.com/abhisek/quizzy/internal/quiz"
)

// Store caches generated explanations by question id.
type Store interface {
	Explanations(ctx context.Context) (map[string]string, error)
	SaveExplanation(ctx context.Context, questionID, text string) error
}

// Source says where an explanation came from.
type Source string

const (
	SourceNone      Source = ""
	SourceBank      Source = "bank"
	SourceCache     Source = "cache"
	SourceGenerated Source = "generated"
)

type Config struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

func DefaultConfig() Config {
	return Config{MaxTokens: 600, Temperature: 0.3, Timeout: 30 * time.Second}
}

type Service struct {
	provider llm.Provider
	store    Store
	cfg      Config
}

// NewService creates a Service. provider may be nil, in which case only
// authored and cached explanations are available.
func NewService(provider llm.Provider, store Store, cfg Config) *Service {
	return &Service{provider: provider, store: store, cfg: cfg}
}

// CanGenerate reports whether a provider is configured.
func (s *Service) CanGenerate() bool {
	return s.provider != nil
}

// Lookup returns an explanation without calling the model.
func (s *Service) Lookup(ctx context.Context, q quiz.Question) (string, Source, error) {
	if text := strings.TrimSpace(q.Explanation); text != "" {
		return text, SourceBank, nil
	}
	cached, err := s.store.Explanations(ctx)
	if err != nil {
		return "", SourceNone, err
	}
	if text, ok := cached[q.ID]; ok && text != "" {
		return text, SourceCache, nil
	}
	return "", SourceNone, nil
}

// Explain returns the best available explanation, generating and caching
// one when none exists. selected is the learner's answer and may be nil.
func (s *Service) Explain(ctx context.Context, q quiz.Question, selected *quiz.Answer) (string, Source, error) {
	text, src, err := s.Lookup(ctx, q)
	if err != nil || src != SourceNone {
		return text, src, err
	}
	text, err = s.Generate(ctx, q, selected)
	if err != nil {
		return "", SourceNone, err
	}
	return text, SourceGenerated, nil
}

// Generate asks the model for a fresh explanation and caches it, replacing
// any cached one. Authored explanations are never overwritten because they
// live in the bank, not the cache.
func (s *Service) Generate(ctx context.Context, q quiz.Question, selected *quiz.Answer) (string, error) {
	if s.provider == nil {
		return "", llm.ErrNotConfigured
	}
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	req := llm.UserPrompt(systemPrompt, buildPrompt(q, selected), Schema, s.cfg.MaxTokens)
	req.Temperature = s.cfg.Temperature

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, "explain"), req)
	if err != nil {
		return "", fmt.Errorf("explain %s: %w", q.ID, err)
	}
	var out output
	if err := resp.Decode(&out); err != nil {
		return "", fmt.Errorf("explain %s: %w", q.ID, err)
	}

	text := out.text()
	if err := s.store.SaveExplanation(ctx, q.ID, text); err != nil {
		return "", err
	}
	return text, nil
}
