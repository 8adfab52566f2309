package payment

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/healthpay/hec-core/pkg/xrpl"
)

// Defaults for the submission retry policy.
const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
)

// Policy is a reusable retry policy: an attempt budget and a linear
// backoff. Linear (attempt × base) rather than exponential because the
// dominant latency is the ledger close interval, which is roughly
// periodic, not congestion-driven.
type Policy struct {
	// MaxAttempts is the total attempt budget, including the first.
	MaxAttempts uint64

	// BaseDelay is multiplied by the attempt index between attempts.
	BaseDelay time.Duration
}

// DefaultPolicy returns the reference policy: 3 attempts, 1s base delay.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: DefaultMaxAttempts, BaseDelay: DefaultBaseDelay}
}

// Execute runs op under the policy. op signals a terminal outcome by
// returning backoff.Permanent(err); any other error is retried until the
// budget runs out, after which the last observed error is returned.
// Context cancellation aborts between attempts.
func (p Policy) Execute(ctx context.Context, op backoff.Operation) error {
	attempts := p.MaxAttempts
	if attempts == 0 {
		attempts = DefaultMaxAttempts
	}
	b := backoff.WithContext(
		backoff.WithMaxRetries(newLinearBackOff(p.BaseDelay), attempts-1),
		ctx,
	)
	return backoff.Retry(op, b)
}

// linearBackOff implements backoff.BackOff with delays of
// attempt × base: 1×base after the first failure, 2×base after the
// second, and so on.
type linearBackOff struct {
	base    time.Duration
	attempt int64
}

func newLinearBackOff(base time.Duration) *linearBackOff {
	if base <= 0 {
		base = DefaultBaseDelay
	}
	return &linearBackOff{base: base}
}

// NextBackOff implements backoff.BackOff.
func (l *linearBackOff) NextBackOff() time.Duration {
	l.attempt++
	return time.Duration(l.attempt) * l.base
}

// Reset implements backoff.BackOff.
func (l *linearBackOff) Reset() {
	l.attempt = 0
}

// Retryable reports whether a submission error is worth another attempt:
// the expiry-race disposition and transport-level failures are; every
// other ledger-reported failure is terminal.
func Retryable(err error) bool {
	var rpcErr *xrpl.RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr.Code == xrpl.EngineResultRedundant
	}
	if errors.Is(err, xrpl.ErrAccountNotFound) || errors.Is(err, xrpl.ErrMalformedResponse) {
		return false
	}
	// Anything else at this layer is a transport failure.
	return true
}
