package vc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthpay/hec-core/pkg/xrpl"
)

func sampleCredential() *Credential {
	return &Credential{
		Context:  DefaultContext,
		ID:       "urn:uuid:3f1c9a44-5f2e-4d57-9c70-67e6a33e9a01",
		Types:    []string{TypeVerifiableCredential, TypeIdentityAttestation},
		Issuer:   "did:xrpl:testnet:rIssuer",
		IssuedAt: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		Subject: map[string]any{
			"id":   "did:xrpl:testnet:rSubject",
			"name": "Maria Garcia",
		},
		Status: StatusValid,
	}
}

func TestEncodeDecode(t *testing.T) {
	cred := sampleCredential()

	memo, err := Encode(cred)
	require.NoError(t, err)
	assert.Equal(t, xrpl.ToHex(MemoTypeTag), memo.Type)
	assert.Equal(t, xrpl.ToHex(MemoFormat), memo.Format)
	assert.True(t, MatchesTag(memo))

	decoded := Decode(memo)
	require.NotNil(t, decoded)
	assert.Equal(t, cred.ID, decoded.ID)
	assert.Equal(t, cred.Types, decoded.Types)
	assert.Equal(t, cred.Issuer, decoded.Issuer)
	assert.Equal(t, StatusValid, decoded.Status)
	assert.Equal(t, "did:xrpl:testnet:rSubject", decoded.SubjectID())
	assert.True(t, decoded.IssuedAt.Equal(cred.IssuedAt))
}

func TestDecodeTolerant(t *testing.T) {
	tests := []struct {
		name string
		memo xrpl.Memo
	}{
		{"untagged memo", xrpl.TextMemo("just a note")},
		{"tagged but data not hex", xrpl.Memo{Type: xrpl.ToHex(MemoTypeTag), Data: "zz"}},
		{"tagged but data not json", xrpl.Memo{Type: xrpl.ToHex(MemoTypeTag), Data: xrpl.ToHex("not json")}},
		{"tagged but no types", xrpl.Memo{Type: xrpl.ToHex(MemoTypeTag), Data: xrpl.ToHex(`{"issuer":"x"}`)}},
		{"type field not hex", xrpl.Memo{Type: "zz", Data: xrpl.ToHex("{}")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, Decode(tt.memo))
		})
	}
}

func TestHasType(t *testing.T) {
	cred := sampleCredential()
	assert.True(t, cred.HasType(TypeIdentityAttestation))
	assert.True(t, cred.HasType(TypeVerifiableCredential))
	assert.False(t, cred.HasType(TypeMedicalLicense))
}

func TestSubjectIDMissing(t *testing.T) {
	cred := &Credential{Types: []string{TypeVerifiableCredential}}
	assert.Empty(t, cred.SubjectID())

	cred.Subject = map[string]any{"id": 42}
	assert.Empty(t, cred.SubjectID())
}
