package xrpl

import (
	"crypto/ed25519"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DefaultFee is the transaction fee in drops. The demo networks this core
// targets do not apply fee escalation, so a flat fee is sufficient.
const DefaultFee = "12"

// txnSigningPrefix is the hash prefix for single-signed transactions.
var txnSigningPrefix = []byte("TXN\x00")

// Amount is either native XRP (a drops string) or an issued currency
// ({currency, issuer, value}). The two forms serialize differently, which
// the custom JSON methods handle.
type Amount struct {
	Currency string `json:"currency,omitempty"`
	Issuer   string `json:"issuer,omitempty"`
	Value    string `json:"value"`
}

// DropsAmount builds a native XRP amount from a drops string.
func DropsAmount(drops string) Amount {
	return Amount{Value: drops}
}

// IssuedAmount builds an issued-currency amount, normalizing the currency
// code for the wire.
func IssuedAmount(currency, issuer, value string) Amount {
	return Amount{Currency: CurrencyCode(currency), Issuer: issuer, Value: value}
}

// Native reports whether the amount is XRP rather than an issued currency.
func (a Amount) Native() bool {
	return a.Currency == ""
}

// MarshalJSON renders native amounts as a plain drops string and issued
// amounts as the {currency, issuer, value} object rippled expects.
func (a Amount) MarshalJSON() ([]byte, error) {
	if a.Native() {
		return json.Marshal(a.Value)
	}
	type issued Amount
	return json.Marshal(issued(a))
}

// UnmarshalJSON accepts both wire forms.
func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var drops string
		if err := json.Unmarshal(data, &drops); err != nil {
			return err
		}
		*a = Amount{Value: drops}
		return nil
	}
	type issued Amount
	var v issued
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = Amount(v)
	return nil
}

// TxBase carries the fields every transaction type shares. Transaction
// structs embed it so signing and serialization can be shared.
type TxBase struct {
	TransactionType    string `json:"TransactionType"`
	Account            string `json:"Account"`
	Fee                string `json:"Fee"`
	Sequence           uint32 `json:"Sequence"`
	LastLedgerSequence uint32 `json:"LastLedgerSequence,omitempty"`
	Flags              uint32 `json:"Flags,omitempty"`
	SigningPubKey      string `json:"SigningPubKey,omitempty"`
	TxnSignature       string `json:"TxnSignature,omitempty"`
}

func (b *TxBase) base() *TxBase { return b }

// Signable is satisfied by the transaction types defined in this package.
type Signable interface {
	base() *TxBase
}

// Payment moves XRP or an issued currency between two accounts, optionally
// carrying memos.
type Payment struct {
	TxBase
	Destination string        `json:"Destination"`
	Amount      Amount        `json:"Amount"`
	SendMax     *Amount       `json:"SendMax,omitempty"`
	Memos       []MemoWrapper `json:"Memos,omitempty"`
}

// NewPayment builds an unsigned payment with the default fee.
func NewPayment(account, destination string, amount Amount) *Payment {
	p := &Payment{
		TxBase: TxBase{
			TransactionType: "Payment",
			Account:         account,
			Fee:             DefaultFee,
		},
		Destination: destination,
		Amount:      amount,
	}
	// Issued-currency payments carry a SendMax equal to the amount so
	// the full value is delivered through the issuer.
	if !amount.Native() {
		sendMax := amount
		p.SendMax = &sendMax
	}
	return p
}

// AttachMemo appends a memo to the payment.
func (p *Payment) AttachMemo(m Memo) {
	p.Memos = append(p.Memos, MemoWrapper{Memo: m})
}

// TrustSet creates or modifies a trust line. Used during account
// provisioning: the holder opens the line, the issuer authorizes it.
type TrustSet struct {
	TxBase
	LimitAmount Amount `json:"LimitAmount"`
}

// TrustSetAuth is the flag an issuer sets to authorize a trust line.
const TrustSetAuth uint32 = 0x00010000

// NewTrustSet builds an unsigned TrustSet with the default fee.
func NewTrustSet(account string, limit Amount) *TrustSet {
	return &TrustSet{
		TxBase: TxBase{
			TransactionType: "TrustSet",
			Account:         account,
			Fee:             DefaultFee,
		},
		LimitAmount: limit,
	}
}

// Sign signs a transaction with an Ed25519 key and returns the
// hex-encoded signed blob plus the transaction's content hash.
//
// The signature covers the canonical JSON of the transaction with
// SigningPubKey set and TxnSignature absent. The hash is the first half
// of SHA-512 over the signing prefix and the signed blob, uppercase hex,
// matching how the ledger identifies transactions.
func Sign(tx Signable, pub ed25519.PublicKey, priv ed25519.PrivateKey) (blob, hash string, err error) {
	base := tx.base()
	if base.Account == "" {
		return "", "", errors.New("transaction has no account")
	}
	if len(pub) != ed25519.PublicKeySize || len(priv) != ed25519.PrivateKeySize {
		return "", "", errors.New("invalid Ed25519 key material")
	}

	// Ed25519 public keys are prefixed with 0xED on the ledger.
	base.SigningPubKey = "ED" + strings.ToUpper(hex.EncodeToString(pub))
	base.TxnSignature = ""

	payload, err := json.Marshal(tx)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal transaction: %w", err)
	}

	sig := ed25519.Sign(priv, payload)
	base.TxnSignature = strings.ToUpper(hex.EncodeToString(sig))

	signed, err := json.Marshal(tx)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal signed transaction: %w", err)
	}

	digest := sha512.Sum512(append(txnSigningPrefix, signed...))
	hash = strings.ToUpper(hex.EncodeToString(digest[:sha512.Size/2]))
	blob = strings.ToUpper(hex.EncodeToString(signed))
	return blob, hash, nil
}

// VerifyBlob checks the embedded signature of a signed blob produced by
// Sign. Used by tests and by tooling that inspects submitted payloads.
func VerifyBlob(blob string) (bool, error) {
	raw, err := hex.DecodeString(blob)
	if err != nil {
		return false, fmt.Errorf("invalid blob encoding: %w", err)
	}

	var envelope struct {
		SigningPubKey string `json:"SigningPubKey"`
		TxnSignature  string `json:"TxnSignature"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return false, fmt.Errorf("invalid blob payload: %w", err)
	}
	if !strings.HasPrefix(envelope.SigningPubKey, "ED") || envelope.TxnSignature == "" {
		return false, errors.New("blob is not Ed25519 single-signed")
	}

	pub, err := hex.DecodeString(envelope.SigningPubKey[2:])
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return false, errors.New("invalid signing public key")
	}
	sig, err := hex.DecodeString(envelope.TxnSignature)
	if err != nil {
		return false, errors.New("invalid signature encoding")
	}

	// Rebuild the signing payload: the signed JSON with TxnSignature
	// removed, preserving the original field order.
	payload, err := canonicalJSON(raw)
	if err != nil {
		return false, err
	}

	return ed25519.Verify(ed25519.PublicKey(pub), payload, sig), nil
}

// canonicalJSON reproduces the signing payload from a signed blob by
// stripping the TxnSignature field while preserving the original field
// order of the encoded JSON.
func canonicalJSON(raw []byte) ([]byte, error) {
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid blob payload: %w", err)
	}
	sig, ok := doc["TxnSignature"].(string)
	if !ok || sig == "" {
		return nil, errors.New("blob has no signature")
	}

	// Serialization of Go maps is key-sorted, so strip the signature
	// textually to keep byte-for-byte fidelity with the signed payload.
	quoted := fmt.Sprintf(`,"TxnSignature":%q`, sig)
	s := strings.Replace(string(raw), quoted, "", 1)
	if s == string(raw) {
		quoted = fmt.Sprintf(`"TxnSignature":%q,`, sig)
		s = strings.Replace(string(raw), quoted, "", 1)
	}
	if s == string(raw) {
		return nil, errors.New("could not reconstruct signing payload")
	}
	return []byte(s), nil
}
