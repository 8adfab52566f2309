package payment

import (
	"context"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/healthpay/hec-core/pkg/xrpl"
)

// ExpiryWindow is the safety margin, in ledger closes, between the
// current ledger index and a transaction's expiry.
const ExpiryWindow = 20

// Session is the slice of the ledger client the submitter needs. One
// session is acquired per attempt and closed on every exit path;
// *xrpl.Client satisfies it.
type Session interface {
	AccountState(ctx context.Context, address string) (*xrpl.AccountState, error)
	LedgerHeight(ctx context.Context) (uint32, error)
	Submit(ctx context.Context, blob string) (*xrpl.SubmitResult, error)
	Close() error
}

// Dialer opens a ledger session for one unit of work.
type Dialer interface {
	Dial(ctx context.Context) (Session, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context) (Session, error)

// Dial implements Dialer.
func (f DialerFunc) Dial(ctx context.Context) (Session, error) { return f(ctx) }

// EndpointDialer returns a Dialer that opens a fresh JSON-RPC session to
// the given endpoint per call.
func EndpointDialer(endpoint string) Dialer {
	return DialerFunc(func(context.Context) (Session, error) {
		return xrpl.Dial(endpoint)
	})
}

// Submitter signs and submits payments until the ledger reports a
// definitive result or the attempt budget is exhausted.
//
// A retried submission recomputes its expiry, so from the ledger's
// perspective it is a new transaction instance. Duplicate application is
// prevented only by the ledger's replay rules; callers needing
// exactly-once payment semantics must layer an application-level
// idempotency key on top.
type Submitter struct {
	dialer Dialer
	policy Policy
	window uint32
	logger *zap.Logger
}

// NewSubmitter creates a Submitter with the default retry policy and
// expiry window. logger may be nil.
func NewSubmitter(dialer Dialer, logger *zap.Logger) *Submitter {
	return NewSubmitterWithPolicy(dialer, DefaultPolicy(), logger)
}

// NewSubmitterWithPolicy creates a Submitter with an explicit policy.
func NewSubmitterWithPolicy(dialer Dialer, policy Policy, logger *zap.Logger) *Submitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Submitter{
		dialer: dialer,
		policy: policy,
		window: ExpiryWindow,
		logger: logger,
	}
}

// Submit submits the intent and returns the transaction's content hash
// once the ledger reports success.
//
// Each attempt re-reads the sender's sequence and the current ledger
// height, re-signs with a fresh expiry of height+window, and submits.
// The expiry-race disposition and transport failures are retried under
// the policy; any other ledger-reported disposition is surfaced verbatim
// and never retried.
func (s *Submitter) Submit(ctx context.Context, intent Intent) (string, error) {
	if err := intent.Validate(); err != nil {
		return "", err
	}

	var hash string
	attempt := 0
	err := s.policy.Execute(ctx, func() error {
		attempt++
		h, err := s.attempt(ctx, &intent)
		if err != nil {
			if !Retryable(err) {
				return backoff.Permanent(err)
			}
			s.logger.Warn("payment attempt failed, will retry",
				zap.Int("attempt", attempt),
				zap.String("kind", string(intent.Kind)),
				zap.Error(err))
			return err
		}
		hash = h
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("payment submission failed: %w", err)
	}

	s.logger.Info("payment applied",
		zap.String("kind", string(intent.Kind)),
		zap.String("destination", intent.Destination),
		zap.String("hash", hash))
	return hash, nil
}

// attempt performs one sign-and-submit round trip over its own session.
func (s *Submitter) attempt(ctx context.Context, intent *Intent) (string, error) {
	session, err := s.dialer.Dial(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to open ledger session: %w", err)
	}
	defer session.Close()

	state, err := session.AccountState(ctx, intent.Sender.Address)
	if err != nil {
		return "", err
	}
	height, err := session.LedgerHeight(ctx)
	if err != nil {
		return "", err
	}

	tx := intent.payment(state.Sequence, height+s.window)
	blob, hash, err := intent.Sender.SignTransaction(tx)
	if err != nil {
		return "", fmt.Errorf("failed to sign payment: %w", err)
	}

	result, err := session.Submit(ctx, blob)
	if err != nil {
		return "", err
	}
	if !result.Applied() {
		return "", &xrpl.RPCError{
			Code:    result.EngineResult,
			Message: result.EngineResultMessage,
		}
	}
	if result.Hash != "" {
		return result.Hash, nil
	}
	return hash, nil
}
