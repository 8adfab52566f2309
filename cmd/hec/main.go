// Package main is the entry point for the HealthPay HEC CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/healthpay/hec-core/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "hec",
	Short: "HealthPay healthcare-credit CLI",
	Long: `Tooling for the HealthPay healthcare-credit network.
Provisions accounts, mints and transfers HEC, anchors verifiable
credentials and resolves did:xrpl identities against the ledger.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads the process configuration for commands that talk to
// the ledger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
