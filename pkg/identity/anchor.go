package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/healthpay/hec-core/pkg/payment"
	"github.com/healthpay/hec-core/pkg/vc"
	"github.com/healthpay/hec-core/pkg/wallet"
	"github.com/healthpay/hec-core/pkg/xrpl"
)

// anchorDrops is the native amount carried by an anchoring payment. The
// value is irrelevant; the memo is the point.
const anchorDrops = "1"

// Submitter is the slice of the payment layer the anchorer needs;
// *payment.Submitter satisfies it.
type Submitter interface {
	Submit(ctx context.Context, intent payment.Intent) (string, error)
}

// Anchorer records credentials on the ledger. A credential is anchored
// by a minimal-value payment from issuer to subject whose memo carries
// the encoded credential; once in history, the transaction is the
// credential record. There is no deletion: a status change is a new
// anchor, and consumers apply the evaluator's precedence over the full
// discovered set.
type Anchorer struct {
	submitter Submitter
	network   string
}

// NewAnchorer creates an Anchorer submitting through the given payment
// submitter on the given network.
func NewAnchorer(s Submitter, network string) *Anchorer {
	return &Anchorer{submitter: s, network: network}
}

// Anchor signs and anchors a credential from the issuer wallet to the
// subject account, returning the anchoring transaction's hash.
//
// The credential is completed before anchoring: issuer reference, id,
// issuance date, subject id and proof are filled in if absent.
func (a *Anchorer) Anchor(ctx context.Context, issuer *wallet.Wallet, subjectAddress string, cred *vc.Credential) (string, error) {
	issuerDID := New(issuer.Address, a.network)
	subjectDID := New(subjectAddress, a.network)

	if len(cred.Context) == 0 {
		cred.Context = vc.DefaultContext
	}
	if cred.ID == "" {
		cred.ID = "urn:uuid:" + uuid.NewString()
	}
	if cred.Issuer == "" {
		cred.Issuer = issuerDID
	}
	if cred.IssuedAt.IsZero() {
		cred.IssuedAt = time.Now().UTC()
	}
	if cred.Status == "" {
		cred.Status = vc.StatusValid
	}
	if cred.Subject == nil {
		cred.Subject = map[string]any{}
	}
	if _, ok := cred.Subject["id"]; !ok {
		cred.Subject["id"] = subjectDID
	}

	if cred.Proof == nil {
		if err := vc.Sign(cred, issuerDID+"#master", issuer.PrivateKey()); err != nil {
			return "", fmt.Errorf("failed to sign credential: %w", err)
		}
	}

	memo, err := vc.Encode(cred)
	if err != nil {
		return "", err
	}

	return a.submitter.Submit(ctx, payment.Intent{
		Kind:        payment.KindAnchor,
		Sender:      issuer,
		Destination: subjectAddress,
		Amount:      xrpl.DropsAmount(anchorDrops),
		Memo:        &memo,
	})
}
