package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		did     string
		want    *DID
		wantErr error
	}{
		{
			name: "testnet address",
			did:  "did:xrpl:testnet:rUn84CUYbW2ndcnCGSbKyPrpEW9QVqFqFM",
			want: &DID{Network: "testnet", Address: "rUn84CUYbW2ndcnCGSbKyPrpEW9QVqFqFM"},
		},
		{
			name: "mainnet address",
			did:  "did:xrpl:mainnet:rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh",
			want: &DID{Network: "mainnet", Address: "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"},
		},
		{"empty", "", nil, ErrInvalidDID},
		{"too few parts", "did:xrpl:rAddress", nil, ErrInvalidDID},
		{"too many parts", "did:xrpl:testnet:rAddress:extra", nil, ErrInvalidDID},
		{"not a did", "urn:xrpl:testnet:rAddress", nil, ErrInvalidDID},
		{"wrong method", "did:web:testnet:rAddress", nil, ErrUnsupportedMethod},
		{"empty network", "did:xrpl::rAddress", nil, ErrInvalidDID},
		{"empty address", "did:xrpl:testnet:", nil, ErrInvalidDID},
		{"not a classic address", "did:xrpl:testnet:xAddress", nil, ErrInvalidDID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.did)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.Network, got.Network)
			assert.Equal(t, tt.want.Address, got.Address)
			assert.Equal(t, tt.did, got.Raw)
			assert.Equal(t, tt.did, got.String())
		})
	}
}

func TestNewRoundTrip(t *testing.T) {
	did := New("rUn84CUYbW2ndcnCGSbKyPrpEW9QVqFqFM", NetworkTestnet)
	assert.Equal(t, "did:xrpl:testnet:rUn84CUYbW2ndcnCGSbKyPrpEW9QVqFqFM", did)

	parsed, err := Parse(did)
	require.NoError(t, err)
	assert.Equal(t, "rUn84CUYbW2ndcnCGSbKyPrpEW9QVqFqFM", parsed.Address)
	assert.Equal(t, did+"#master", parsed.MasterKeyID())
}
