package identity

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/healthpay/hec-core/pkg/vc"
	"github.com/healthpay/hec-core/pkg/xrpl"
)

// ErrNotFound is returned when the DID's underlying account does not
// exist on the ledger. Absence is a terminal outcome, not a failure to
// retry.
var ErrNotFound = errors.New("identity not found")

// Session is the slice of the ledger client the resolver needs;
// *xrpl.Client satisfies it. One session is acquired per resolution and
// closed on every exit path.
type Session interface {
	AccountState(ctx context.Context, address string) (*xrpl.AccountState, error)
	TransactionHistory(ctx context.Context, address string, limit int) ([]xrpl.TransactionRecord, error)
	Close() error
}

// Dialer opens a ledger session for one resolution.
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

// Resolver derives identity documents from on-ledger account state and
// transaction history. It performs no retries of its own: transient
// ledger failures propagate, and retry policy stays with the caller.
type Resolver struct {
	dialer       Dialer
	historyLimit int
	logger       *zap.Logger
}

// NewResolver creates a Resolver. logger may be nil.
func NewResolver(dialer Dialer, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		dialer:       dialer,
		historyLimit: xrpl.DefaultHistoryLimit,
		logger:       logger,
	}
}

// Resolve produces the identity document for a did:xrpl reference.
//
// A malformed reference is a validation error. A nonexistent account
// yields ErrNotFound without touching transaction history. Credentials
// are discovered from payment memos carrying the credential tag, in
// history order (newest first); an undecodable memo is logged and
// skipped, never aborting the rest of the document.
func (r *Resolver) Resolve(ctx context.Context, didStr string) (*Document, error) {
	did, err := Parse(didStr)
	if err != nil {
		return nil, err
	}

	session, err := r.dialer.Dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger session: %w", err)
	}
	defer session.Close()

	state, err := session.AccountState(ctx, did.Address)
	if err != nil {
		if errors.Is(err, xrpl.ErrAccountNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	doc := r.buildDocument(did, state)

	history, err := session.TransactionHistory(ctx, did.Address, r.historyLimit)
	if err != nil {
		return nil, err
	}
	doc.Credentials = r.collectCredentials(did, history)

	return doc, nil
}

// buildDocument assembles the document skeleton from account state.
func (r *Resolver) buildDocument(did *DID, state *xrpl.AccountState) *Document {
	keyID := did.MasterKeyID()
	doc := &Document{
		Context:    documentContext,
		ID:         did.String(),
		Controller: did.Address,
		VerificationMethod: []VerificationMethod{
			{
				ID:                  keyID,
				Type:                VerificationKeyType,
				Controller:          did.String(),
				BlockchainAccountID: fmt.Sprintf("xrpl:%s:%s", did.Network, did.Address),
			},
		},
		Authentication:  []string{keyID},
		AssertionMethod: []string{keyID},
	}

	if state.Domain != "" {
		domain, err := xrpl.FromHex(state.Domain)
		if err != nil {
			r.logger.Warn("could not decode account domain",
				zap.String("did", did.String()),
				zap.Error(err))
		} else {
			doc.Service = append(doc.Service, Service{
				ID:              did.String() + "#domain-service",
				Type:            DomainServiceType,
				ServiceEndpoint: "https://" + domain,
			})
		}
	}
	return doc
}

// collectCredentials filters history to credential-tagged payment memos
// and decodes them, preserving discovery order.
func (r *Resolver) collectCredentials(did *DID, history []xrpl.TransactionRecord) []vc.Credential {
	var creds []vc.Credential
	for _, record := range history {
		if record.Type != "Payment" || len(record.Memos) == 0 {
			continue
		}
		memo := record.Memos[0]
		if !vc.MatchesTag(memo) {
			continue
		}
		cred := vc.Decode(memo)
		if cred == nil {
			r.logger.Warn("skipping undecodable credential memo",
				zap.String("did", did.String()),
				zap.String("tx", record.Hash))
			continue
		}
		creds = append(creds, *cred)
	}
	return creds
}
