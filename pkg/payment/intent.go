// Package payment builds, signs and reliably submits ledger payments.
// Submission is retried against a moving expiry window until the ledger
// reports a definitive disposition or the attempt budget is exhausted.
package payment

import (
	"errors"
	"fmt"

	"github.com/healthpay/hec-core/pkg/wallet"
	"github.com/healthpay/hec-core/pkg/xrpl"
)

// Kind enumerates what a payment is for. Callers state the intent
// explicitly; the protocol layer never infers it from sender or
// destination addresses.
type Kind string

const (
	// KindMint issues new credit from the issuer to a holder.
	KindMint Kind = "mint"

	// KindTransfer moves credit between holders.
	KindTransfer Kind = "transfer"

	// KindRedeem spends credit at a service provider.
	KindRedeem Kind = "redeem"

	// KindAnchor is a minimal-value payment whose memo anchors a
	// credential on the ledger.
	KindAnchor Kind = "anchor"
)

// Intent describes one payment to be submitted. Created per call and
// discarded after the terminal result.
type Intent struct {
	// Kind states what the payment is for.
	Kind Kind

	// Sender holds the key material that signs the payment.
	Sender *wallet.Wallet

	// Destination is the receiving account address.
	Destination string

	// Amount is the value to deliver. For KindAnchor this is the
	// minimal native amount carrying the memo.
	Amount xrpl.Amount

	// Memo is an optional annotation, already wire-encoded.
	Memo *xrpl.Memo
}

// Common validation errors.
var (
	ErrNoSender      = errors.New("intent has no sender wallet")
	ErrNoDestination = errors.New("intent has no destination")
	ErrNoAmount      = errors.New("intent has no amount")
)

// Validate checks the intent for the required fields. Validation errors
// are terminal and are never retried.
func (i *Intent) Validate() error {
	if i.Sender == nil {
		return ErrNoSender
	}
	if i.Destination == "" {
		return ErrNoDestination
	}
	if i.Amount.Value == "" {
		return ErrNoAmount
	}
	switch i.Kind {
	case KindMint, KindTransfer, KindRedeem, KindAnchor:
		return nil
	default:
		return fmt.Errorf("unknown intent kind %q", i.Kind)
	}
}

// payment builds the unsigned ledger transaction for the intent.
func (i *Intent) payment(sequence, lastLedger uint32) *xrpl.Payment {
	p := xrpl.NewPayment(i.Sender.Address, i.Destination, i.Amount)
	p.Sequence = sequence
	p.LastLedgerSequence = lastLedger
	if i.Memo != nil {
		p.AttachMemo(*i.Memo)
	}
	return p
}
