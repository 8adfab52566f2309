package vc

// Classification is the trust level derived from a credential set. It is
// a display/decisioning value only and never gates the on-ledger payment.
type Classification string

const (
	// ClassificationRevoked: at least one credential has been revoked.
	ClassificationRevoked Classification = "Revoked"

	// ClassificationExpired: at least one credential has expired (and
	// none are revoked).
	ClassificationExpired Classification = "Expired"

	// ClassificationFullyVerified: valid identity, health-eligibility
	// and employment credentials are all present.
	ClassificationFullyVerified Classification = "Fully verified subject"

	// ClassificationPartiallyVerified: valid identity and
	// health-eligibility credentials, no employment.
	ClassificationPartiallyVerified Classification = "Partially verified subject"

	// ClassificationIdentityOnly: a valid identity credential and
	// nothing further.
	ClassificationIdentityOnly Classification = "Identity-verified only"

	// ClassificationVerifiedIssuer: a verified organization holding
	// issuer authority.
	ClassificationVerifiedIssuer Classification = "Verified issuing organization"

	// ClassificationVerifiedProvider: a verified organization holding a
	// provider license.
	ClassificationVerifiedProvider Classification = "Verified service provider"

	// ClassificationNoCredentials: the identity has anchored nothing.
	ClassificationNoCredentials Classification = "No credentials"

	// ClassificationUnclassified: credentials exist but match no known
	// combination.
	ClassificationUnclassified Classification = "Unclassified"
)

// Classify reduces a credential set to a single classification using
// fixed precedence rules, first match wins:
//
//  1. any revoked credential
//  2. any expired credential
//  3. valid Identity + Health-eligibility + Employment
//  4. valid Identity + Health-eligibility
//  5. valid Identity
//  6. valid Organization + Issuer-authority
//  7. valid Organization + Provider-license
//  8. no credentials at all
//  9. otherwise unclassified
//
// Classify is a pure function. It must be re-run on every fresh
// resolution: new anchors change the outcome, and revocation is
// represented by anchoring a new credential with a different status.
func Classify(creds []Credential) Classification {
	if len(creds) == 0 {
		return ClassificationNoCredentials
	}

	validTypes := make(map[string]bool)
	anyExpired := false
	for i := range creds {
		switch creds[i].Status {
		case StatusRevoked:
			return ClassificationRevoked
		case StatusExpired:
			anyExpired = true
		case StatusValid:
			for _, t := range creds[i].Types {
				validTypes[t] = true
			}
		}
	}
	if anyExpired {
		return ClassificationExpired
	}

	switch {
	case validTypes[TypeIdentityAttestation] &&
		validTypes[TypeHealthCreditEligibility] &&
		validTypes[TypeEmploymentVerification]:
		return ClassificationFullyVerified

	case validTypes[TypeIdentityAttestation] && validTypes[TypeHealthCreditEligibility]:
		return ClassificationPartiallyVerified

	case validTypes[TypeIdentityAttestation]:
		return ClassificationIdentityOnly

	case validTypes[TypeOrganizationVerification] && validTypes[TypeHealthCreditIssuer]:
		return ClassificationVerifiedIssuer

	case validTypes[TypeOrganizationVerification] && validTypes[TypeMedicalLicense]:
		return ClassificationVerifiedProvider
	}

	return ClassificationUnclassified
}
