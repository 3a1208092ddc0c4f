package llm

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

type purposeKey struct{}

// WithPurpose labels calls made with ctx in the request log.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the purpose set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok {
		return v
	}
	return "unknown"
}

type logging struct {
	inner Provider
	now   func() time.Time

	mu sync.Mutex
	w  io.Writer
}

// WithLogging writes one line per Generate call to w: purpose, model,
// latency, token counts, estimated cost and outcome.
func WithLogging(p Provider, w io.Writer) Provider {
	return &logging{inner: p, w: w, now: time.Now}
}

func (l *logging) ModelID() string { return l.inner.ModelID() }

func (l *logging) Generate(ctx context.Context, req Request) (*Response, error) {
	start := l.now()
	resp, err := l.inner.Generate(ctx, req)
	elapsed := l.now().Sub(start)

	line := fmt.Appendf(nil, "llm purpose=%s model=%s latency=%s", PurposeFrom(ctx), l.inner.ModelID(), elapsed.Round(time.Millisecond))
	if err != nil {
		line = fmt.Appendf(line, " error=%q\n", err.Error())
	} else {
		line = fmt.Appendf(line, " tokens=%d/%d", resp.Usage.InputTokens, resp.Usage.OutputTokens)
		if cost, ok := EstimateCost(resp.Model, resp.Usage); ok {
			line = fmt.Appendf(line, " cost=$%.6f", cost)
		}
		line = append(line, '\n')
	}

	l.mu.Lock()
	l.w.Write(line)
	l.mu.Unlock()
	return resp, err
}
