package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/healthpay/hec-core/internal/config"
	"github.com/healthpay/hec-core/pkg/payment"
	"github.com/healthpay/hec-core/pkg/wallet"
	"github.com/healthpay/hec-core/pkg/xrpl"
)

var (
	setupRole  string
	setupLimit string
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Provision accounts on the ledger",
	Long: `Provisioning steps for the healthcare-credit network. The issuer
requires authorization on its trust lines, so whitelisting a holder is
two steps: the holder opens a trust line, then the issuer authorizes it.`,
}

var setupTrustlineCmd = &cobra.Command{
	Use:   "trustline",
	Short: "Open a trust line from a role's account to the issuer",
	Example: `  # Beneficiary opens a 1000-HEC line to the issuer
  hec setup trustline --role beneficiary --limit 1000`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		holder, err := cfg.Wallet(config.Role(setupRole))
		if err != nil {
			return err
		}
		issuer, ok := cfg.Keys[config.RoleIssuer]
		if !ok {
			return fmt.Errorf("issuer is not configured")
		}

		ts := xrpl.NewTrustSet(holder.Address,
			xrpl.IssuedAmount(cfg.Currency, issuer.Address, setupLimit))
		hash, err := submitTrustSet(cmd.Context(), cfg.Endpoint, holder, ts)
		if err != nil {
			return err
		}
		fmt.Printf("Trust line opened: %s\n", hash)
		return nil
	},
}

var setupAuthorizeCmd = &cobra.Command{
	Use:   "authorize",
	Short: "Issuer authorizes a role's trust line",
	Example: `  # Issuer authorizes the beneficiary's line
  hec setup authorize --role beneficiary`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		issuer, err := cfg.Wallet(config.RoleIssuer)
		if err != nil {
			return err
		}
		holder, ok := cfg.Keys[config.Role(setupRole)]
		if !ok {
			return fmt.Errorf("role %q is not configured", setupRole)
		}

		// Authorizing TrustSet: the counterparty is the holder, the
		// limit is zero, and the auth flag is set.
		ts := xrpl.NewTrustSet(issuer.Address,
			xrpl.IssuedAmount(cfg.Currency, holder.Address, "0"))
		ts.Flags = xrpl.TrustSetAuth

		hash, err := submitTrustSet(cmd.Context(), cfg.Endpoint, issuer, ts)
		if err != nil {
			return err
		}
		fmt.Printf("Trust line authorized: %s\n", hash)
		return nil
	},
}

// submitTrustSet signs and submits a TrustSet in a single attempt over
// its own session. Provisioning is a one-shot operation; on failure the
// operator reruns the step.
func submitTrustSet(ctx context.Context, endpoint string, sender *wallet.Wallet, ts *xrpl.TrustSet) (string, error) {
	client, err := xrpl.Dial(endpoint)
	if err != nil {
		return "", err
	}
	defer client.Close()

	state, err := client.AccountState(ctx, sender.Address)
	if err != nil {
		return "", err
	}
	height, err := client.LedgerHeight(ctx)
	if err != nil {
		return "", err
	}
	ts.Sequence = state.Sequence
	ts.LastLedgerSequence = height + payment.ExpiryWindow

	blob, hash, err := sender.SignTransaction(ts)
	if err != nil {
		return "", err
	}
	result, err := client.Submit(ctx, blob)
	if err != nil {
		return "", err
	}
	if !result.Applied() {
		return "", &xrpl.RPCError{Code: result.EngineResult, Message: result.EngineResultMessage}
	}
	if result.Hash != "" {
		return result.Hash, nil
	}
	return hash, nil
}

func init() {
	setupCmd.PersistentFlags().StringVar(&setupRole, "role", "", "role whose line is provisioned (operator, beneficiary, clinic)")
	setupTrustlineCmd.Flags().StringVar(&setupLimit, "limit", "1000000", "trust line limit")
	_ = setupCmd.MarkPersistentFlagRequired("role")

	setupCmd.AddCommand(setupTrustlineCmd)
	setupCmd.AddCommand(setupAuthorizeCmd)
	rootCmd.AddCommand(setupCmd)
}
