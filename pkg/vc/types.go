// Package vc defines the verifiable-credential model anchored on the
// ledger, the codec that embeds credentials in transaction memos, and the
// evaluator that reduces a credential set to a trust classification.
package vc

import (
	"time"
)

// Status is the issuer-assigned status of a credential. A status is fixed
// at anchoring time: the anchoring medium is an append-only transaction
// log, so a later status requires anchoring a new credential entry.
type Status string

const (
	StatusValid   Status = "valid"
	StatusRevoked Status = "revoked"
	StatusExpired Status = "expired"
)

// Credential types used across the HealthPay network. The first entry of
// a credential's type list is always TypeVerifiableCredential.
const (
	TypeVerifiableCredential = "VerifiableCredential"

	// Subject (worker/patient) credentials.
	TypeIdentityAttestation     = "IdentityAttestation"
	TypeEmploymentVerification  = "EmploymentVerification"
	TypeHealthCreditEligibility = "HealthCreditEligibility"

	// Organization credentials.
	TypeOrganizationVerification = "OrganizationVerification"
	TypeHealthCreditIssuer       = "HealthCreditIssuer"
	TypeMedicalLicense           = "MedicalLicense"
)

// DefaultContext is the JSON-LD context list for newly issued credentials.
var DefaultContext = []string{"https://www.w3.org/2018/credentials/v1"}

// Credential is a signed assertion anchored on the ledger.
type Credential struct {
	// Context is the JSON-LD context list.
	Context []string `json:"@context,omitempty"`

	// ID uniquely names the credential (urn:uuid:... for new issuance).
	ID string `json:"id,omitempty"`

	// Types is the ordered credential type list, first entry
	// "VerifiableCredential" by convention.
	Types []string `json:"type"`

	// Issuer is the identity reference of the issuing party.
	Issuer string `json:"issuer"`

	// IssuedAt is the issuance timestamp.
	IssuedAt time.Time `json:"issuanceDate"`

	// Subject is the claim payload. It always carries the subject's
	// identity reference under "id".
	Subject map[string]any `json:"credentialSubject"`

	// Proof is the issuer's signature over the credential.
	Proof *Proof `json:"proof,omitempty"`

	// Status is the issuer-assigned status at anchoring time.
	Status Status `json:"status"`
}

// Proof is the signature metadata attached to a credential.
type Proof struct {
	// Type is the signature suite, "JsonWebSignature2020" here.
	Type string `json:"type"`

	// Created is the signature creation time.
	Created time.Time `json:"created"`

	// VerificationMethod references the issuer key that signed
	// (e.g. "did:xrpl:testnet:r...#master").
	VerificationMethod string `json:"verificationMethod"`

	// ProofPurpose is the relationship the proof asserts.
	ProofPurpose string `json:"proofPurpose,omitempty"`

	// JWS is the compact JWS signature value.
	JWS string `json:"jws"`
}

// HasType reports whether the credential carries the given type.
func (c *Credential) HasType(t string) bool {
	for _, ct := range c.Types {
		if ct == t {
			return true
		}
	}
	return false
}

// SubjectID returns the subject's identity reference, if present.
func (c *Credential) SubjectID() string {
	if c.Subject == nil {
		return ""
	}
	id, _ := c.Subject["id"].(string)
	return id
}

// Valid reports whether the credential's anchored status is "valid".
func (c *Credential) Valid() bool {
	return c.Status == StatusValid
}
