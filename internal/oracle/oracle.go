// internal/oracle/oracle.go
package oracle

import (
	"context"
	"errors"
	"time"

	apperrors "finops-assessment/internal/common/errors"
)

// Prompt is a single text-completion request.
type Prompt struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// Oracle is the scoring oracle port: text in, text out. Callers always own a
// deterministic fallback, so implementations report every failure as an
// error instead of returning placeholder text.
type Oracle interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// Func adapts a plain function to Oracle.
type Func func(ctx context.Context, prompt Prompt) (string, error)

func (f Func) Complete(ctx context.Context, prompt Prompt) (string, error) {
	return f(ctx, prompt)
}

// Disabled always fails, forcing callers onto their fallback path.
type Disabled struct {
	Reason string
}

func (d Disabled) Complete(ctx context.Context, prompt Prompt) (string, error) {
	reason := d.Reason
	if reason == "" {
		reason = "oracle disabled"
	}
	return "", apperrors.NewOracleNotConfiguredError(reason)
}

type timeoutOracle struct {
	next     Oracle
	timeout  time.Duration
	provider string
}

// WithTimeout bounds every call to next. A deadline hit is reported as
// ORACLE_TIMEOUT.
func WithTimeout(next Oracle, timeout time.Duration, provider string) Oracle {
	if timeout <= 0 {
		return next
	}
	return &timeoutOracle{next: next, timeout: timeout, provider: provider}
}

func (t *timeoutOracle) Complete(ctx context.Context, prompt Prompt) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	text, err := t.next.Complete(ctx, prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return "", apperrors.NewOracleTimeoutError(t.provider)
		}
		return "", err
	}
	return text, nil
}
