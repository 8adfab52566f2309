// Package identity resolves did:xrpl identities purely from on-ledger
// account state and transaction history: there is no separate identity
// database, the ledger is the single source of truth.
package identity

import (
	"errors"
	"fmt"
	"strings"
)

// Common DID errors. Malformed input is a terminal validation error, not
// a ledger error.
var (
	ErrInvalidDID        = errors.New("invalid DID format")
	ErrUnsupportedMethod = errors.New("unsupported DID method (only did:xrpl supported)")
)

// Method is the DID method this package resolves.
const Method = "xrpl"

// Known network identifiers for did:xrpl references.
const (
	NetworkMainnet = "mainnet"
	NetworkTestnet = "testnet"
	NetworkDevnet  = "devnet"
)

// DID is a parsed did:xrpl identifier: did:xrpl:<network>:<address>.
// The address is the ledger account the identity is derived from.
type DID struct {
	// Network is the ledger network the DID resolves against.
	Network string

	// Address is the underlying account's classic address.
	Address string

	// Raw is the original DID string.
	Raw string
}

// Parse parses a did:xrpl identifier.
//
// Example: did:xrpl:testnet:rP9jD9L7sY6jX54tS8tS6s7fS7fS7fS7fS
func Parse(did string) (*DID, error) {
	if did == "" {
		return nil, ErrInvalidDID
	}

	parts := strings.Split(did, ":")
	if len(parts) != 4 {
		return nil, fmt.Errorf("%w: expected 4 parts, got %d", ErrInvalidDID, len(parts))
	}
	if parts[0] != "did" {
		return nil, fmt.Errorf("%w: must start with 'did:'", ErrInvalidDID)
	}
	if parts[1] != Method {
		return nil, fmt.Errorf("%w: got did:%s", ErrUnsupportedMethod, parts[1])
	}
	if parts[2] == "" {
		return nil, fmt.Errorf("%w: empty network", ErrInvalidDID)
	}
	if parts[3] == "" || !strings.HasPrefix(parts[3], "r") {
		return nil, fmt.Errorf("%w: %q is not a classic address", ErrInvalidDID, parts[3])
	}

	return &DID{
		Network: parts[2],
		Address: parts[3],
		Raw:     did,
	}, nil
}

// New constructs the did:xrpl reference for an account address on a
// network.
func New(address, network string) string {
	return fmt.Sprintf("did:%s:%s:%s", Method, network, address)
}

// String returns the canonical DID string.
func (d *DID) String() string {
	if d.Raw != "" {
		return d.Raw
	}
	return New(d.Address, d.Network)
}

// MasterKeyID returns the fragment reference of the DID's master
// verification key.
func (d *DID) MasterKeyID() string {
	return d.String() + "#master"
}
