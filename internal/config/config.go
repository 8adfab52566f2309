// Package config loads the process configuration once at start: the
// ledger endpoint and the key material of the deployment's roles. Core
// packages never read the environment themselves; everything is passed
// in from here.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/healthpay/hec-core/pkg/wallet"
)

// Role names the parties of the healthcare-credit flow.
type Role string

const (
	// RoleIssuer mints the credit and anchors credentials.
	RoleIssuer Role = "issuer"

	// RoleOperator distributes minted credit to beneficiaries.
	RoleOperator Role = "operator"

	// RoleBeneficiary receives credit and redeems it for care.
	RoleBeneficiary Role = "beneficiary"

	// RoleClinic provides care and accepts redemption payments.
	RoleClinic Role = "clinic"
)

// Roles lists all configured roles in flow order.
var Roles = []Role{RoleIssuer, RoleOperator, RoleBeneficiary, RoleClinic}

// Defaults applied when the environment does not say otherwise.
const (
	DefaultEndpoint = "https://s.altnet.rippletest.net:51234"
	DefaultNetwork  = "testnet"
	DefaultCurrency = "HEC"
	DefaultListen   = ":8080"
)

// Keypair is the configured key material for one role.
type Keypair struct {
	// Address is the role's classic address.
	Address string

	// Secret is the role's hex-encoded Ed25519 seed.
	Secret string
}

// Config is the process configuration.
type Config struct {
	// Endpoint is the ledger JSON-RPC endpoint URL.
	Endpoint string

	// Network is the did:xrpl network identifier.
	Network string

	// Currency is the healthcare-credit currency code.
	Currency string

	// Listen is the HTTP API listen address.
	Listen string

	// Keys holds per-role key material. A role without configured
	// key material is simply absent.
	Keys map[Role]Keypair
}

// Load reads configuration from a .env file (if present) and the
// environment.
func Load() (*Config, error) {
	// Missing .env is fine; the environment may carry everything.
	_ = godotenv.Load()

	cfg := &Config{
		Endpoint: envOr("XRPL_ENDPOINT", DefaultEndpoint),
		Network:  envOr("XRPL_NETWORK", DefaultNetwork),
		Currency: envOr("HEC_CURRENCY", DefaultCurrency),
		Listen:   envOr("HEC_LISTEN", DefaultListen),
		Keys:     make(map[Role]Keypair),
	}

	for _, role := range Roles {
		prefix := strings.ToUpper(string(role))
		address := os.Getenv(prefix + "_ADDRESS")
		secret := os.Getenv(prefix + "_SECRET")
		if address == "" && secret == "" {
			continue
		}
		if secret == "" {
			return nil, fmt.Errorf("%s_ADDRESS is set but %s_SECRET is not", prefix, prefix)
		}
		cfg.Keys[role] = Keypair{Address: address, Secret: secret}
	}

	return cfg, nil
}

// Wallet reconstructs the wallet for a role and checks that the derived
// address matches the configured one, so a payment can never be signed
// with a key that does not belong to the stated sender.
func (c *Config) Wallet(role Role) (*wallet.Wallet, error) {
	kp, ok := c.Keys[role]
	if !ok {
		return nil, fmt.Errorf("no key material configured for role %q", role)
	}
	w, err := wallet.FromSeed(kp.Secret)
	if err != nil {
		return nil, fmt.Errorf("invalid secret for role %q: %w", role, err)
	}
	if kp.Address != "" && kp.Address != w.Address {
		return nil, fmt.Errorf("configured address for role %q does not match its secret", role)
	}
	return w, nil
}

// WalletFor resolves key material by address across all configured
// roles, for callers that identify the sender by address.
func (c *Config) WalletFor(address string) (*wallet.Wallet, error) {
	for role := range c.Keys {
		w, err := c.Wallet(role)
		if err != nil {
			return nil, err
		}
		if w.Address == address {
			return w, nil
		}
	}
	return nil, fmt.Errorf("no key material configured for address %s", address)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
