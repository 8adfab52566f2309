package identity

import (
	"github.com/healthpay/hec-core/pkg/vc"
)

// JSON-LD contexts for resolved documents.
var documentContext = []string{
	"https://www.w3.org/ns/did/v1",
	"https://w3id.org/security/suites/ed25519-2020/v1",
}

// VerificationKeyType is the key suite advertised for account master keys.
const VerificationKeyType = "Ed25519VerificationKey2020"

// DomainServiceType is the service type appended when the account
// publishes a domain.
const DomainServiceType = "DomainService"

// Document is the resolved identity of one DID. It is constructed fresh
// on every resolution and never cached beyond the call.
type Document struct {
	// Context is the JSON-LD context list.
	Context []string `json:"@context"`

	// ID is the identity reference this document describes.
	ID string `json:"id"`

	// Controller is the account controlling the identity, normally the
	// account itself.
	Controller string `json:"controller"`

	// VerificationMethod lists the identity's verification keys, the
	// account's master signing key at minimum.
	VerificationMethod []VerificationMethod `json:"verificationMethod"`

	// Authentication and AssertionMethod reference entries of
	// VerificationMethod by ID.
	Authentication  []string `json:"authentication,omitempty"`
	AssertionMethod []string `json:"assertionMethod,omitempty"`

	// Service lists published service endpoints, populated only when
	// the account publishes a domain.
	Service []Service `json:"service,omitempty"`

	// Credentials are the credentials anchored to the account, in
	// discovery order (newest first, as history is returned).
	Credentials []vc.Credential `json:"credentials,omitempty"`
}

// VerificationMethod is one verification key of an identity.
type VerificationMethod struct {
	// ID is the key reference (e.g. "<did>#master").
	ID string `json:"id"`

	// Type is the key suite.
	Type string `json:"type"`

	// Controller is the DID controlling the key.
	Controller string `json:"controller"`

	// BlockchainAccountID ties the key to the on-ledger account, since
	// the ledger does not expose raw public key material for an
	// account's master key.
	BlockchainAccountID string `json:"blockchainAccountId,omitempty"`
}

// Service is one published service endpoint.
type Service struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	ServiceEndpoint string `json:"serviceEndpoint"`
}
