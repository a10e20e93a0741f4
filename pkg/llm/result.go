package llm

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrUnavailable = errors.New("llm: no provider configured")
	ErrEmptyOutput = errors.New("llm: empty output")
)

// Result is the outcome of a single generation attempt. Callers branch on Ok
// and pick their own fallback instead of unwinding an error.
type Result struct {
	Text    string
	Err     error
	Elapsed time.Duration
}

func (r Result) Ok() bool {
	return r.Err == nil
}

// OrElse returns the generated text, or fallback when the call failed.
func (r Result) OrElse(fallback string) string {
	if r.Err != nil {
		return fallback
	}
	return r.Text
}

// Call runs one bounded Generate attempt. A nil provider yields ErrUnavailable.
// There is no retry.
func Call(ctx context.Context, p LLMProvider, timeout time.Duration, prompt string, opts ...Option) Result {
	if p == nil {
		return Result{Err: ErrUnavailable}
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := p.Generate(ctx, prompt, opts...)
	elapsed := time.Since(start)
	if err != nil {
		return Result{Err: err, Elapsed: elapsed}
	}
	if strings.TrimSpace(text) == "" {
		return Result{Err: ErrEmptyOutput, Elapsed: elapsed}
	}
	return Result{Text: text, Elapsed: elapsed}
}
