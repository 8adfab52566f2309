// Package wallet manages the Ed25519 key material behind ledger accounts:
// generation, seed import, JWK persistence and transaction signing.
package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-jose/go-jose/v4"

	"github.com/healthpay/hec-core/pkg/xrpl"
)

// Common errors returned by this package.
var (
	ErrInvalidSeed    = errors.New("invalid wallet seed")
	ErrInvalidKeyFile = errors.New("invalid wallet key file")
)

// Wallet holds the key material and address of one ledger account.
type Wallet struct {
	// Address is the account's classic address.
	Address string

	// PublicKey is the account's Ed25519 public key.
	PublicKey ed25519.PublicKey

	privateKey ed25519.PrivateKey
}

// Generate creates a new wallet with a fresh Ed25519 key pair.
func Generate() (*Wallet, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return &Wallet{
		Address:    DeriveAddress(pub),
		PublicKey:  pub,
		privateKey: priv,
	}, nil
}

// FromSeed reconstructs a wallet from a hex-encoded 32-byte Ed25519 seed,
// the secret form the configuration layer carries per role.
func FromSeed(seedHex string) (*Wallet, error) {
	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, fmt.Errorf("%w: not a hex string", ErrInvalidSeed)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrInvalidSeed, ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return &Wallet{
		Address:    DeriveAddress(pub),
		PublicKey:  pub,
		privateKey: priv,
	}, nil
}

// Seed returns the wallet's hex-encoded seed for persistence.
func (w *Wallet) Seed() string {
	return hex.EncodeToString(w.privateKey.Seed())
}

// SignTransaction signs a ledger transaction with the wallet's key and
// returns the signed blob plus the transaction's content hash.
func (w *Wallet) SignTransaction(tx xrpl.Signable) (blob, hash string, err error) {
	if w.privateKey == nil {
		return "", "", errors.New("wallet has no private key")
	}
	return xrpl.Sign(tx, w.PublicKey, w.privateKey)
}

// Sign signs an arbitrary payload with the wallet's private key.
func (w *Wallet) Sign(payload []byte) []byte {
	return ed25519.Sign(w.privateKey, payload)
}

// PrivateKey returns the wallet's Ed25519 private key, needed when the
// wallet signs credential proofs.
func (w *Wallet) PrivateKey() ed25519.PrivateKey {
	return w.privateKey
}

// SaveJWK writes the wallet's private key as a JWK file (mode 0600) with
// the address as key ID.
func (w *Wallet) SaveJWK(path string) error {
	jwk := jose.JSONWebKey{
		Key:       w.privateKey,
		KeyID:     w.Address,
		Algorithm: string(jose.EdDSA),
		Use:       "sig",
	}
	data, err := json.MarshalIndent(jwk, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JWK: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write key file: %w", err)
	}
	return nil
}

// LoadJWK reads a wallet back from a private-key JWK file written by
// SaveJWK.
func LoadJWK(path string) (*Wallet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	var jwk jose.JSONWebKey
	if err := json.Unmarshal(data, &jwk); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyFile, err)
	}

	priv, ok := jwk.Key.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: key is not Ed25519", ErrInvalidKeyFile)
	}
	pub := priv.Public().(ed25519.PublicKey)

	return &Wallet{
		Address:    DeriveAddress(pub),
		PublicKey:  pub,
		privateKey: priv,
	}, nil
}
