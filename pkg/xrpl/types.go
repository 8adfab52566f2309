// Package xrpl provides a minimal client for the XRP Ledger JSON-RPC API.
// It covers the handful of operations the HealthPay core needs: account
// state, transaction submission, transaction history and the current
// ledger index. The wire schema is defined by rippled; see
// https://xrpl.org/http-websocket-apis.html.
package xrpl

import (
	"errors"
	"fmt"
)

// Engine result codes the submission layer cares about. Any other code is
// a terminal, ledger-reported failure and is surfaced verbatim.
const (
	// EngineResultSuccess indicates the transaction was applied.
	EngineResultSuccess = "tesSUCCESS"

	// EngineResultRedundant indicates the ledger has already seen the
	// same logical transaction with a stale expiry. A resubmission with
	// a fresh LastLedgerSequence may still succeed.
	EngineResultRedundant = "temREDUNDANT"
)

// Common errors returned by this package.
var (
	// ErrAccountNotFound is returned when the queried account does not
	// exist on the ledger. This is a terminal outcome, not a failure:
	// callers distinguish "no such account" from an RPC error.
	ErrAccountNotFound = errors.New("account not found on ledger")

	// ErrMalformedResponse is returned when the endpoint answers with
	// something that is not a valid JSON-RPC result. This is a protocol
	// violation and is never retried.
	ErrMalformedResponse = errors.New("malformed ledger response")
)

// RPCError is a ledger-reported error, carrying the categorical code the
// ledger assigned (e.g. "actNotFound", "temBAD_AMOUNT").
type RPCError struct {
	// Code is the ledger's error or engine result code.
	Code string

	// Message is the ledger's human-readable description.
	Message string
}

// Error implements the error interface.
func (e *RPCError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("ledger reported %s", e.Code)
	}
	return fmt.Sprintf("ledger reported %s: %s", e.Code, e.Message)
}

// Is matches RPCErrors by code so callers can use errors.Is with a
// sentinel like &RPCError{Code: EngineResultRedundant}.
func (e *RPCError) Is(target error) bool {
	var t *RPCError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// AccountState is the current on-ledger state of one account.
type AccountState struct {
	// Address is the classic address the state belongs to.
	Address string

	// Balance is the XRP balance in drops.
	Balance string

	// Sequence is the account's next transaction sequence number.
	Sequence uint32

	// Flags is the raw account flags bitfield.
	Flags uint32

	// Domain is the hex-encoded domain the account publishes, if any.
	Domain string

	// Lines are the account's trust lines to issued currencies.
	Lines []TrustLine
}

// TrustLine is one line of credit between the account and a counterparty
// issuer.
type TrustLine struct {
	// Account is the counterparty (the issuer of the currency).
	Account string `json:"account"`

	// Currency is the currency code, either 3 characters or 40-char hex.
	Currency string `json:"currency"`

	// Balance is the amount of the issued currency held.
	Balance string `json:"balance"`

	// Limit is the maximum the account is willing to hold.
	Limit string `json:"limit"`

	// Authorized reports whether the issuer has authorized this line.
	Authorized bool `json:"peer_authorized"`
}

// Memo is one annotation attached to a transaction. All three fields are
// hex-encoded on the wire, exactly as rippled returns them.
type Memo struct {
	Type   string `json:"MemoType,omitempty"`
	Data   string `json:"MemoData,omitempty"`
	Format string `json:"MemoFormat,omitempty"`
}

// MemoWrapper matches the nesting rippled uses for the Memos array.
type MemoWrapper struct {
	Memo Memo `json:"Memo"`
}

// TextMemo builds a plain-text memo, hex-encoded for the wire.
func TextMemo(text string) Memo {
	return Memo{
		Type:   ToHex("text/plain"),
		Data:   ToHex(text),
		Format: ToHex("text/plain"),
	}
}

// TransactionRecord is one historical transaction as returned by the
// account_tx method, newest first.
type TransactionRecord struct {
	// Hash is the transaction's content hash.
	Hash string

	// Type is the transaction type (e.g. "Payment", "TrustSet").
	Type string

	// Account is the sending account.
	Account string

	// Destination is the receiving account, for transaction types that
	// have one.
	Destination string

	// Amount is the delivered amount, if the transaction carries one.
	Amount *Amount

	// Memos are the annotations attached to the transaction, still
	// hex-encoded.
	Memos []Memo

	// LedgerIndex is the ledger the transaction was included in.
	LedgerIndex uint32

	// Validated reports whether the containing ledger is validated.
	Validated bool
}

// SubmitResult is the ledger's answer to a transaction submission.
type SubmitResult struct {
	// EngineResult is the disposition code (tesSUCCESS, tem*, tec*, ...).
	EngineResult string

	// EngineResultMessage is the ledger's description of the disposition.
	EngineResultMessage string

	// Hash is the content hash of the submitted transaction.
	Hash string

	// Accepted reports whether the transaction passed preliminary checks
	// and was queued for consensus.
	Accepted bool
}

// Applied reports whether the submission reached the success disposition.
func (r *SubmitResult) Applied() bool {
	return r.EngineResult == EngineResultSuccess
}
