package vc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func cred(status Status, types ...string) Credential {
	return Credential{
		Types:  append([]string{TypeVerifiableCredential}, types...),
		Status: status,
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		creds []Credential
		want  Classification
	}{
		{
			name:  "no credentials",
			creds: nil,
			want:  ClassificationNoCredentials,
		},
		{
			name: "fully verified subject",
			creds: []Credential{
				cred(StatusValid, TypeIdentityAttestation),
				cred(StatusValid, TypeHealthCreditEligibility),
				cred(StatusValid, TypeEmploymentVerification),
			},
			want: ClassificationFullyVerified,
		},
		{
			name: "partially verified without employment",
			creds: []Credential{
				cred(StatusValid, TypeIdentityAttestation),
				cred(StatusValid, TypeHealthCreditEligibility),
			},
			want: ClassificationPartiallyVerified,
		},
		{
			name: "identity only",
			creds: []Credential{
				cred(StatusValid, TypeIdentityAttestation),
			},
			want: ClassificationIdentityOnly,
		},
		{
			name: "verified issuing organization",
			creds: []Credential{
				cred(StatusValid, TypeOrganizationVerification),
				cred(StatusValid, TypeHealthCreditIssuer),
			},
			want: ClassificationVerifiedIssuer,
		},
		{
			name: "verified service provider",
			creds: []Credential{
				cred(StatusValid, TypeOrganizationVerification),
				cred(StatusValid, TypeMedicalLicense),
			},
			want: ClassificationVerifiedProvider,
		},
		{
			name: "issuer authority outranks provider license",
			creds: []Credential{
				cred(StatusValid, TypeOrganizationVerification),
				cred(StatusValid, TypeMedicalLicense),
				cred(StatusValid, TypeHealthCreditIssuer),
			},
			want: ClassificationVerifiedIssuer,
		},
		{
			name: "revoked dominates everything",
			creds: []Credential{
				cred(StatusValid, TypeIdentityAttestation),
				cred(StatusValid, TypeHealthCreditEligibility),
				cred(StatusValid, TypeEmploymentVerification),
				cred(StatusRevoked, TypeEmploymentVerification),
			},
			want: ClassificationRevoked,
		},
		{
			name: "revoked dominates even when expired comes first",
			creds: []Credential{
				cred(StatusExpired, TypeIdentityAttestation),
				cred(StatusRevoked, TypeEmploymentVerification),
			},
			want: ClassificationRevoked,
		},
		{
			name: "expired outranks valid combinations",
			creds: []Credential{
				cred(StatusValid, TypeIdentityAttestation),
				cred(StatusValid, TypeHealthCreditEligibility),
				cred(StatusExpired, TypeEmploymentVerification),
			},
			want: ClassificationExpired,
		},
		{
			name: "unknown combination is unclassified",
			creds: []Credential{
				cred(StatusValid, TypeEmploymentVerification),
			},
			want: ClassificationUnclassified,
		},
		{
			name: "organization without license or authority is unclassified",
			creds: []Credential{
				cred(StatusValid, TypeOrganizationVerification),
			},
			want: ClassificationUnclassified,
		},
		{
			name: "expired types do not count as valid",
			creds: []Credential{
				cred(StatusValid, TypeIdentityAttestation),
				cred(StatusExpired, TypeHealthCreditEligibility),
			},
			want: ClassificationExpired,
		},
		{
			name: "mixed subject and organization prefers subject track",
			creds: []Credential{
				cred(StatusValid, TypeIdentityAttestation),
				cred(StatusValid, TypeOrganizationVerification),
				cred(StatusValid, TypeHealthCreditIssuer),
			},
			want: ClassificationIdentityOnly,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.creds))
		})
	}
}

func TestClassifyOrderInsensitive(t *testing.T) {
	forward := []Credential{
		cred(StatusValid, TypeIdentityAttestation),
		cred(StatusValid, TypeHealthCreditEligibility),
		cred(StatusValid, TypeEmploymentVerification),
	}
	reversed := []Credential{forward[2], forward[1], forward[0]}

	assert.Equal(t, Classify(forward), Classify(reversed))
}
