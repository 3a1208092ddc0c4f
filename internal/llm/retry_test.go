package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

// newTestRetry returns a retrying provider that records its waits instead of
// sleeping.
func newTestRetry(inner Provider, attempts int) (*retrying, *[]time.Duration) {
	r := WithRetry(inner, RetryConfig{
		MaxAttempts: attempts,
		InitialWait: 100 * time.Millisecond,
		MaxWait:     300 * time.Millisecond,
		Multiplier:  2,
	}).(*retrying)
	var waits []time.Duration
	r.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	return r, &waits
}

var okResponse = MockResponse{Content: json.RawMessage(`{"ok":true}`)}

func TestRetry(t *testing.T) {
	unavailable := MockResponse{Err: &UnavailableError{Err: errors.New("down")}}
	invalid := MockResponse{Err: &InvalidResponseError{Err: errors.New("bad")}}

	tests := []struct {
		name      string
		responses []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first attempt", []MockResponse{okResponse}, false, 1},
		{"transient then ok", []MockResponse{unavailable, okResponse}, false, 2},
		{"all attempts fail", []MockResponse{unavailable, unavailable, unavailable, okResponse}, true, 3},
		{"truncation not retried", []MockResponse{{Err: &TruncatedError{}}, okResponse}, true, 1},
		{"invalid retried once", []MockResponse{invalid, okResponse}, false, 2},
		{"invalid twice gives up", []MockResponse{invalid, invalid, okResponse}, true, 2},
		{"context error not retried", []MockResponse{{Err: context.DeadlineExceeded}, okResponse}, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMockProvider(tt.responses...)
			r, _ := newTestRetry(m, 3)
			resp, err := r.Generate(context.Background(), Request{})
			if tt.wantErr {
				if err == nil {
					t.Error("expected an error")
				}
			} else {
				if err != nil {
					t.Fatalf("Generate: %v", err)
				}
				if string(resp.Content) != `{"ok":true}` {
					t.Errorf("Content = %s", resp.Content)
				}
			}
			if n := m.CallCount(); n != tt.wantCalls {
				t.Errorf("CallCount() = %d, want %d", n, tt.wantCalls)
			}
		})
	}
}

func TestRetry_BackoffGrowsAndCaps(t *testing.T) {
	down := MockResponse{Err: &UnavailableError{}}
	m := NewMockProvider(down, down, down, down)
	r, waits := newTestRetry(m, 4)

	if _, err := r.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected an error")
	}
	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 300 * time.Millisecond}
	if len(*waits) != len(want) {
		t.Fatalf("waits = %v, want %d entries", *waits, len(want))
	}
	for i, w := range *waits {
		slack := want[i]/5 + 1
		if w < want[i]-slack || w > want[i]+slack {
			t.Errorf("wait %d = %v, want about %v", i, w, want[i])
		}
	}
}

func TestRetry_RespectsRetryAfter(t *testing.T) {
	m := NewMockProvider(MockResponse{Err: &RateLimitError{RetryAfter: 7 * time.Second}}, okResponse)
	r, waits := newTestRetry(m, 3)

	if _, err := r.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(*waits) != 1 || (*waits)[0] != 7*time.Second {
		t.Errorf("waits = %v, want [7s]", *waits)
	}
}

func TestRetry_CancelledWhileWaiting(t *testing.T) {
	m := NewMockProvider(MockResponse{Err: &UnavailableError{}}, okResponse)
	r, _ := newTestRetry(m, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Generate(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if n := m.CallCount(); n != 1 {
		t.Errorf("CallCount() = %d, want 1", n)
	}
}

func TestRetry_ModelID(t *testing.T) {
	r, _ := newTestRetry(NewMockProvider(), 1)
	if got := r.ModelID(); got != "mock" {
		t.Errorf("ModelID() = %q, want mock", got)
	}
}
