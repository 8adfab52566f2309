package vc

import (
	"encoding/json"
	"fmt"

	"github.com/healthpay/hec-core/pkg/xrpl"
)

// MemoTypeTag marks a memo as carrying a credential payload. A credential
// is anchored by a minimal-value payment whose memo carries this tag; the
// transaction in history is the credential record.
const MemoTypeTag = "VerifiableCredential"

// MemoFormat is the declared payload format of credential memos.
const MemoFormat = "application/json"

// Encode serializes a credential into a ledger memo: hex tag, hex UTF-8
// JSON payload, hex format marker.
func Encode(cred *Credential) (xrpl.Memo, error) {
	data, err := json.Marshal(cred)
	if err != nil {
		return xrpl.Memo{}, fmt.Errorf("failed to marshal credential: %w", err)
	}
	return xrpl.Memo{
		Type:   xrpl.ToHex(MemoTypeTag),
		Data:   xrpl.ToHex(string(data)),
		Format: xrpl.ToHex(MemoFormat),
	}, nil
}

// MatchesTag reports whether a memo's type field carries the credential
// tag.
func MatchesTag(m xrpl.Memo) bool {
	decoded, err := xrpl.FromHex(m.Type)
	return err == nil && decoded == MemoTypeTag
}

// Decode parses a credential out of a ledger memo. It returns nil when
// the memo is not tagged as a credential or its payload is not valid
// credential JSON; a malformed historical memo must never abort the
// caller's scan of the rest.
func Decode(m xrpl.Memo) *Credential {
	if !MatchesTag(m) {
		return nil
	}
	payload, err := xrpl.FromHex(m.Data)
	if err != nil {
		return nil
	}
	var cred Credential
	if err := json.Unmarshal([]byte(payload), &cred); err != nil {
		return nil
	}
	if len(cred.Types) == 0 {
		return nil
	}
	return &cred
}
