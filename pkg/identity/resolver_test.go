package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthpay/hec-core/pkg/vc"
	"github.com/healthpay/hec-core/pkg/xrpl"
)

type fakeSession struct {
	state      *xrpl.AccountState
	stateErr   error
	history    []xrpl.TransactionRecord
	historyErr error

	historyCalls int
	closed       int
}

func (f *fakeSession) AccountState(context.Context, string) (*xrpl.AccountState, error) {
	if f.stateErr != nil {
		return nil, f.stateErr
	}
	return f.state, nil
}

func (f *fakeSession) TransactionHistory(context.Context, string, int) ([]xrpl.TransactionRecord, error) {
	f.historyCalls++
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history, nil
}

func (f *fakeSession) Close() error {
	f.closed++
	return nil
}

func sessionDialer(s *fakeSession) Dialer {
	return DialerFunc(func(context.Context) (Session, error) { return s, nil })
}

const testDID = "did:xrpl:testnet:rUn84CUYbW2ndcnCGSbKyPrpEW9QVqFqFM"

func credentialRecord(t *testing.T, hash string, credType string, status vc.Status) xrpl.TransactionRecord {
	t.Helper()
	memo, err := vc.Encode(&vc.Credential{
		Types:  []string{vc.TypeVerifiableCredential, credType},
		Issuer: "did:xrpl:testnet:rIssuer",
		Status: status,
	})
	require.NoError(t, err)
	return xrpl.TransactionRecord{
		Hash:  hash,
		Type:  "Payment",
		Memos: []xrpl.Memo{memo},
	}
}

func TestResolveMinimalAccount(t *testing.T) {
	session := &fakeSession{state: &xrpl.AccountState{Sequence: 1}}
	r := NewResolver(sessionDialer(session), nil)

	doc, err := r.Resolve(context.Background(), testDID)
	require.NoError(t, err)

	assert.Equal(t, testDID, doc.ID)
	assert.Equal(t, "rUn84CUYbW2ndcnCGSbKyPrpEW9QVqFqFM", doc.Controller)
	require.Len(t, doc.VerificationMethod, 1)
	assert.Equal(t, testDID+"#master", doc.VerificationMethod[0].ID)
	assert.Equal(t, VerificationKeyType, doc.VerificationMethod[0].Type)
	assert.Equal(t, "xrpl:testnet:rUn84CUYbW2ndcnCGSbKyPrpEW9QVqFqFM",
		doc.VerificationMethod[0].BlockchainAccountID)
	assert.Equal(t, []string{testDID + "#master"}, doc.Authentication)
	assert.Equal(t, []string{testDID + "#master"}, doc.AssertionMethod)
	assert.Empty(t, doc.Service)
	assert.Empty(t, doc.Credentials)
	assert.Equal(t, 1, session.closed)
}

func TestResolveDomainService(t *testing.T) {
	session := &fakeSession{state: &xrpl.AccountState{
		Domain: xrpl.ToHex("clinic.example"),
	}}
	r := NewResolver(sessionDialer(session), nil)

	doc, err := r.Resolve(context.Background(), testDID)
	require.NoError(t, err)
	require.Len(t, doc.Service, 1)
	assert.Equal(t, DomainServiceType, doc.Service[0].Type)
	assert.Equal(t, "https://clinic.example", doc.Service[0].ServiceEndpoint)
	assert.Equal(t, testDID+"#domain-service", doc.Service[0].ID)
}

func TestResolveUndecodableDomainSkipped(t *testing.T) {
	session := &fakeSession{state: &xrpl.AccountState{Domain: "zz"}}
	r := NewResolver(sessionDialer(session), nil)

	doc, err := r.Resolve(context.Background(), testDID)
	require.NoError(t, err)
	assert.Empty(t, doc.Service)
}

func TestResolveCredentialDiscovery(t *testing.T) {
	session := &fakeSession{
		state: &xrpl.AccountState{},
		history: []xrpl.TransactionRecord{
			credentialRecord(t, "H1", vc.TypeEmploymentVerification, vc.StatusValid),
			// Non-payment transactions are skipped.
			{Hash: "H2", Type: "TrustSet"},
			// Payments without memos are skipped.
			{Hash: "H3", Type: "Payment"},
			// Payments with untagged memos are skipped.
			{Hash: "H4", Type: "Payment", Memos: []xrpl.Memo{xrpl.TextMemo("note")}},
			credentialRecord(t, "H5", vc.TypeIdentityAttestation, vc.StatusValid),
		},
	}
	r := NewResolver(sessionDialer(session), nil)

	doc, err := r.Resolve(context.Background(), testDID)
	require.NoError(t, err)
	require.Len(t, doc.Credentials, 2)

	// Discovery order follows history order.
	assert.True(t, doc.Credentials[0].HasType(vc.TypeEmploymentVerification))
	assert.True(t, doc.Credentials[1].HasType(vc.TypeIdentityAttestation))
}

func TestResolveSkipsCorruptCredentialMemo(t *testing.T) {
	corrupt := xrpl.TransactionRecord{
		Hash: "HX",
		Type: "Payment",
		Memos: []xrpl.Memo{{
			Type: xrpl.ToHex(vc.MemoTypeTag),
			Data: xrpl.ToHex("not credential json"),
		}},
	}
	session := &fakeSession{
		state: &xrpl.AccountState{},
		history: []xrpl.TransactionRecord{
			corrupt,
			credentialRecord(t, "H1", vc.TypeIdentityAttestation, vc.StatusValid),
		},
	}
	r := NewResolver(sessionDialer(session), nil)

	doc, err := r.Resolve(context.Background(), testDID)
	require.NoError(t, err)
	require.Len(t, doc.Credentials, 1)
	assert.True(t, doc.Credentials[0].HasType(vc.TypeIdentityAttestation))
}

func TestResolveAccountNotFound(t *testing.T) {
	session := &fakeSession{stateErr: xrpl.ErrAccountNotFound}
	r := NewResolver(sessionDialer(session), nil)

	_, err := r.Resolve(context.Background(), testDID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Absence is decided from account state alone.
	assert.Equal(t, 0, session.historyCalls)
	assert.Equal(t, 1, session.closed)
}

func TestResolveInvalidDIDBeforeDialing(t *testing.T) {
	dials := 0
	r := NewResolver(DialerFunc(func(context.Context) (Session, error) {
		dials++
		return nil, errors.New("should not dial")
	}), nil)

	_, err := r.Resolve(context.Background(), "did:web:acme")
	assert.Error(t, err)
	assert.Equal(t, 0, dials)
}

func TestResolveHistoryErrorPropagates(t *testing.T) {
	transient := errors.New("connection reset")
	session := &fakeSession{state: &xrpl.AccountState{}, historyErr: transient}
	r := NewResolver(sessionDialer(session), nil)

	_, err := r.Resolve(context.Background(), testDID)
	assert.ErrorIs(t, err, transient)
	assert.Equal(t, 1, session.closed)
}
