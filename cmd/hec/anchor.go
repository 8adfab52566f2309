package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/healthpay/hec-core/internal/config"
	"github.com/healthpay/hec-core/pkg/identity"
	"github.com/healthpay/hec-core/pkg/payment"
	"github.com/healthpay/hec-core/pkg/vc"
)

var (
	anchorFile   string
	anchorType   string
	anchorClaims []string
)

var anchorCmd = &cobra.Command{
	Use:   "anchor <subject-address-or-role>",
	Short: "Anchor a verifiable credential to a subject's account",
	Long: `Anchors a credential by submitting a 1-drop payment from the issuer
to the subject, carrying the signed credential as a memo. The credential
is read from --file, or built from --type and repeated --claim flags.`,
	Example: `  hec anchor beneficiary --type IdentityAttestation --claim name="Maria Garcia"
  hec anchor rUn84CUYbW2ndcnCGSbKyPrpEW9QVqFqFM --file credential.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		issuer, err := cfg.Wallet(config.RoleIssuer)
		if err != nil {
			return err
		}
		subject := args[0]
		if kp, ok := cfg.Keys[config.Role(subject)]; ok {
			subject = kp.Address
		}

		cred, err := buildCredential()
		if err != nil {
			return err
		}

		logger, err := zap.NewProduction()
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		sub := payment.NewSubmitter(payment.EndpointDialer(cfg.Endpoint), logger)
		anchorer := identity.NewAnchorer(sub, cfg.Network)
		hash, err := anchorer.Anchor(cmd.Context(), issuer, subject, cred)
		if err != nil {
			return err
		}
		fmt.Printf("Credential anchored: %s\n", hash)
		return nil
	},
}

func buildCredential() (*vc.Credential, error) {
	if anchorFile != "" {
		data, err := os.ReadFile(anchorFile)
		if err != nil {
			return nil, err
		}
		var cred vc.Credential
		if err := json.Unmarshal(data, &cred); err != nil {
			return nil, fmt.Errorf("parse credential file: %w", err)
		}
		return &cred, nil
	}
	if anchorType == "" {
		return nil, fmt.Errorf("either --file or --type is required")
	}

	subject := make(map[string]any, len(anchorClaims))
	for _, claim := range anchorClaims {
		key, value, ok := strings.Cut(claim, "=")
		if !ok {
			return nil, fmt.Errorf("claim %q is not key=value", claim)
		}
		subject[key] = value
	}
	return &vc.Credential{
		Types:   []string{vc.TypeVerifiableCredential, anchorType},
		Subject: subject,
	}, nil
}

func init() {
	anchorCmd.Flags().StringVar(&anchorFile, "file", "", "credential JSON file")
	anchorCmd.Flags().StringVar(&anchorType, "type", "", "credential type, e.g. IdentityAttestation")
	anchorCmd.Flags().StringArrayVar(&anchorClaims, "claim", nil, "subject claim as key=value (repeatable)")
	rootCmd.AddCommand(anchorCmd)
}
