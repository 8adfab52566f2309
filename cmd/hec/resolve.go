package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/healthpay/hec-core/pkg/identity"
	"github.com/healthpay/hec-core/pkg/vc"
)

var resolveJSON bool

var resolveCmd = &cobra.Command{
	Use:   "resolve <did>",
	Short: "Resolve a DID to its document and trust classification",
	Example: `  hec resolve did:xrpl:testnet:rUn84CUYbW2ndcnCGSbKyPrpEW9QVqFqFM`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		resolver := identity.NewResolver(identity.EndpointDialer(cfg.Endpoint), zap.NewNop())
		doc, err := resolver.Resolve(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if resolveJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		}

		fmt.Printf("DID:            %s\n", doc.ID)
		for _, svc := range doc.Service {
			fmt.Printf("Service:        %s (%s)\n", svc.ServiceEndpoint, svc.Type)
		}
		fmt.Printf("Credentials:    %d\n", len(doc.Credentials))
		for _, cred := range doc.Credentials {
			fmt.Printf("  - %s [%s] from %s\n", credentialLabel(cred), cred.Status, cred.Issuer)
		}
		fmt.Printf("Classification: %s\n", vc.Classify(doc.Credentials))
		return nil
	},
}

// credentialLabel picks the most specific type for display.
func credentialLabel(cred vc.Credential) string {
	for i := len(cred.Types) - 1; i >= 0; i-- {
		if cred.Types[i] != vc.TypeVerifiableCredential {
			return cred.Types[i]
		}
	}
	return vc.TypeVerifiableCredential
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "print the full DID document as JSON")
	rootCmd.AddCommand(resolveCmd)
}
