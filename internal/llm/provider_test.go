package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

var verdictSchema = &Schema{
	Name: "test-verdict",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"verdict": map[string]any{"type": "string", "enum": []string{"correct", "wrong"}},
			"reason":  map[string]any{"type": "string"},
		},
		"required":             []string{"verdict"},
		"additionalProperties": false,
	},
}

func TestMockProvider_ReplaysInOrder(t *testing.T) {
	m := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"n":1}`)},
		MockResponse{Content: json.RawMessage(`{"n":2}`), Usage: usage(3, 4)},
	)
	ctx := context.Background()

	r1, err := m.Generate(ctx, UserPrompt("", "first", nil, 10))
	if err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	if string(r1.Content) != `{"n":1}` {
		t.Errorf("first Content = %s", r1.Content)
	}

	r2, err := m.Generate(ctx, UserPrompt("", "second", nil, 10))
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	if r2.Usage.TotalTokens != 7 {
		t.Errorf("TotalTokens = %d, want 7", r2.Usage.TotalTokens)
	}

	_, err = m.Generate(ctx, Request{})
	var unavail *UnavailableError
	if !errors.As(err, &unavail) {
		t.Errorf("exhausted mock: err = %v, want *UnavailableError", err)
	}

	reqs := m.Requests()
	if len(reqs) != 3 {
		t.Fatalf("len(Requests()) = %d, want 3", len(reqs))
	}
	if got := reqs[1].Messages[0].Content; got != "second" {
		t.Errorf("second request = %q", got)
	}
	if n := m.CallCount(); n != 3 {
		t.Errorf("CallCount() = %d, want 3", n)
	}
}

func TestMockProvider_ValidatesAgainstSchema(t *testing.T) {
	m := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"verdict":"maybe"}`)},
		MockResponse{Content: json.RawMessage(`{"verdict":"correct","reason":"ok"}`)},
	)
	req := UserPrompt("sys", "judge", verdictSchema, 100)

	_, err := m.Generate(context.Background(), req)
	var invalid *InvalidResponseError
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want *InvalidResponseError", err)
	}

	resp, err := m.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	var out struct{ Verdict, Reason string }
	if err := resp.Decode(&out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Verdict != "correct" {
		t.Errorf("Verdict = %q, want correct", out.Verdict)
	}
}

func TestMockProvider_Push(t *testing.T) {
	m := NewMockProvider()
	m.Push(MockResponse{Err: errors.New("boom")})
	if _, err := m.Generate(context.Background(), Request{}); err == nil || err.Error() != "boom" {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestPurpose(t *testing.T) {
	if got := PurposeFrom(context.Background()); got != "unknown" {
		t.Errorf("PurposeFrom(empty) = %q, want unknown", got)
	}
	if got := PurposeFrom(WithPurpose(context.Background(), "explain")); got != "explain" {
		t.Errorf("PurposeFrom = %q, want explain", got)
	}
}

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		provider string
		check    func(t *testing.T, c Config)
	}{
		{
			name:     "nothing set",
			env:      map[string]string{},
			provider: "",
		},
		{
			name:     "explicit provider and model",
			env:      map[string]string{"QUIZZY_LLM_PROVIDER": "openai", "QUIZZY_OPENAI_API_KEY": "k", "QUIZZY_OPENAI_MODEL": "gpt-4.1-mini"},
			provider: ProviderOpenAI,
			check: func(t *testing.T, c Config) {
				if c.OpenAI.APIKey != "k" || c.OpenAI.Model != "gpt-4.1-mini" {
					t.Errorf("OpenAI = %+v", c.OpenAI)
				}
			},
		},
		{
			name:     "discovered from vendor key",
			env:      map[string]string{"GEMINI_API_KEY": "g"},
			provider: ProviderGemini,
			check: func(t *testing.T, c Config) {
				if c.Gemini.APIKey != "g" || c.Gemini.Model != "gemini-flash" {
					t.Errorf("Gemini = %+v", c.Gemini)
				}
			},
		},
		{
			name:     "quizzy key preferred over vendor key",
			env:      map[string]string{"ANTHROPIC_API_KEY": "vendor", "QUIZZY_ANTHROPIC_API_KEY": "ours"},
			provider: ProviderAnthropic,
			check: func(t *testing.T, c Config) {
				if c.Anthropic.APIKey != "ours" {
					t.Errorf("Anthropic.APIKey = %q, want ours", c.Anthropic.APIKey)
				}
			},
		},
		{
			name:     "openrouter default base url",
			env:      map[string]string{"OPENROUTER_API_KEY": "or"},
			provider: ProviderOpenRouter,
			check: func(t *testing.T, c Config) {
				if c.OpenRouter.BaseURL != defaultOpenRouterBaseURL {
					t.Errorf("BaseURL = %q, want %q", c.OpenRouter.BaseURL, defaultOpenRouterBaseURL)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := FromEnv(envMap(tt.env))
			if c.Provider != tt.provider {
				t.Errorf("Provider = %q, want %q", c.Provider, tt.provider)
			}
			if c.Enabled() != (tt.provider != "") {
				t.Errorf("Enabled() = %v", c.Enabled())
			}
			if tt.check != nil {
				tt.check(t, c)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	c := DefaultConfig()
	if err := c.Validate(); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("default: err = %v, want ErrNotConfigured", err)
	}

	c.Provider = ProviderMock
	if err := c.Validate(); err != nil {
		t.Errorf("mock: err = %v", err)
	}

	c.Provider = ProviderAnthropic
	if err := c.Validate(); err == nil || !strings.Contains(err.Error(), "QUIZZY_ANTHROPIC_API_KEY") {
		t.Errorf("anthropic without key: err = %v, want the missing variable named", err)
	}

	c.Anthropic.APIKey = "x"
	if err := c.Validate(); err != nil {
		t.Errorf("anthropic with key: err = %v", err)
	}

	c.Provider = "llama"
	if err := c.Validate(); err == nil || !strings.Contains(err.Error(), "unknown") {
		t.Errorf("unknown provider: err = %v", err)
	}
}

func TestNew_Mock(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Provider = ProviderMock
	p, err := New(context.Background(), cfg, &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.ModelID() != ProviderMock {
		t.Errorf("ModelID() = %q, want %q", p.ModelID(), ProviderMock)
	}

	if _, err := New(context.Background(), DefaultConfig(), nil); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("unconfigured: err = %v, want ErrNotConfigured", err)
	}
}

func TestEstimateCost(t *testing.T) {
	tests := []struct {
		model string
		usage Usage
		want  float64
		ok    bool
	}{
		{"gpt-4o-mini", usage(1_000_000, 1_000_000), 0.75, true},
		{"google/gemini-2.0-flash-001", usage(1_000_000, 0), 0.1, true},
		{"mystery", usage(1, 1), 0, false},
	}
	for _, tt := range tests {
		cost, ok := EstimateCost(tt.model, tt.usage)
		if ok != tt.ok {
			t.Errorf("EstimateCost(%s) ok = %v, want %v", tt.model, ok, tt.ok)
			continue
		}
		if ok && math.Abs(cost-tt.want) > 1e-9 {
			t.Errorf("EstimateCost(%s) = %v, want %v", tt.model, cost, tt.want)
		}
	}
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	m := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`), Usage: usage(12, 5)},
		MockResponse{Err: errors.New("down")},
	)
	p := WithLogging(m, &buf).(*logging)
	tick := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	p.now = func() time.Time {
		tick = tick.Add(250 * time.Millisecond)
		return tick
	}

	ctx := WithPurpose(context.Background(), "explain")
	if _, err := p.Generate(ctx, Request{}); err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	if _, err := p.Generate(ctx, Request{}); err == nil {
		t.Fatal("second Generate should fail")
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"llm purpose=explain model=mock latency=250ms tokens=12/5",
		`llm purpose=explain model=mock latency=250ms error="down"`,
	}
	if len(lines) != len(want) {
		t.Fatalf("logged %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}
