package vc

import (
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v4"
)

// ProofType is the signature suite used for credential proofs.
const ProofType = "JsonWebSignature2020"

// ProofPurposeAssertion is the proof purpose for issued credentials.
const ProofPurposeAssertion = "assertionMethod"

// Common proof errors.
var (
	ErrNoProof         = errors.New("credential has no proof")
	ErrProofInvalid    = errors.New("credential proof verification failed")
	ErrProofMismatched = errors.New("credential proof does not match payload")
)

// Sign attaches a JWS proof to the credential, signed with the issuer's
// Ed25519 key. verificationMethod names the issuer key being used
// (e.g. "did:xrpl:testnet:r...#master").
func Sign(cred *Credential, verificationMethod string, priv ed25519.PrivateKey) error {
	cred.Proof = nil
	payload, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}

	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.EdDSA, Key: priv}, nil)
	if err != nil {
		return fmt.Errorf("failed to create signer: %w", err)
	}
	jws, err := signer.Sign(payload)
	if err != nil {
		return fmt.Errorf("failed to sign credential: %w", err)
	}
	token, err := jws.CompactSerialize()
	if err != nil {
		return fmt.Errorf("failed to serialize proof: %w", err)
	}

	cred.Proof = &Proof{
		Type:               ProofType,
		Created:            time.Now().UTC(),
		VerificationMethod: verificationMethod,
		ProofPurpose:       ProofPurposeAssertion,
		JWS:                token,
	}
	return nil
}

// VerifyProof checks the credential's JWS proof against the issuer's
// public key and confirms the signed payload matches the credential as
// anchored (excluding the proof itself).
func VerifyProof(cred *Credential, pub ed25519.PublicKey) error {
	if cred.Proof == nil || cred.Proof.JWS == "" {
		return ErrNoProof
	}

	jws, err := jose.ParseSigned(cred.Proof.JWS, []jose.SignatureAlgorithm{jose.EdDSA})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProofInvalid, err)
	}
	payload, err := jws.Verify(pub)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProofInvalid, err)
	}

	// The signed payload is the credential without its proof. Compare
	// semantically, not byte-for-byte, to tolerate field reordering by
	// intermediate JSON round trips.
	var signed Credential
	if err := json.Unmarshal(payload, &signed); err != nil {
		return fmt.Errorf("%w: signed payload is not a credential", ErrProofMismatched)
	}

	unproofed := *cred
	unproofed.Proof = nil
	want, err := json.Marshal(&unproofed)
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}
	signed.Proof = nil
	got, err := json.Marshal(&signed)
	if err != nil {
		return fmt.Errorf("failed to marshal signed payload: %w", err)
	}
	if string(want) != string(got) {
		return ErrProofMismatched
	}
	return nil
}
