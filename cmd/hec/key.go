package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/healthpay/hec-core/pkg/identity"
	"github.com/healthpay/hec-core/pkg/wallet"
)

var (
	keyOutFile string
	keyNetwork string
	keyShowDID bool
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage account key material",
}

var keyGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a new Ed25519 account key pair",
	Long: `Generate a new Ed25519 key pair, derive its classic address and
print the role environment values (<ROLE>_ADDRESS / <ROLE>_SECRET) to
configure.`,
	Example: `  # Generate a key pair and save the private key as JWK
  hec key gen --out issuer.key.jwk

  # Generate and print the did:xrpl reference too
  hec key gen --show-did --network testnet`,
	RunE: func(_ *cobra.Command, _ []string) error {
		w, err := wallet.Generate()
		if err != nil {
			return fmt.Errorf("failed to generate wallet: %w", err)
		}

		fmt.Printf("Address: %s\n", w.Address)
		fmt.Printf("Secret:  %s\n", w.Seed())

		if keyShowDID {
			fmt.Printf("DID:     %s\n", identity.New(w.Address, keyNetwork))
		}

		if keyOutFile != "" {
			if err := w.SaveJWK(keyOutFile); err != nil {
				return err
			}
			fmt.Printf("Private key saved to %s\n", keyOutFile)
		}
		return nil
	},
}

func init() {
	keyGenCmd.Flags().StringVar(&keyOutFile, "out", "", "write the private key as a JWK file")
	keyGenCmd.Flags().StringVar(&keyNetwork, "network", identity.NetworkTestnet, "network for the did:xrpl reference")
	keyGenCmd.Flags().BoolVar(&keyShowDID, "show-did", false, "print the did:xrpl reference")

	keyCmd.AddCommand(keyGenCmd)
	rootCmd.AddCommand(keyCmd)
}
