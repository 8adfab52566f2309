package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/healthpay/hec-core/internal/config"
	"github.com/healthpay/hec-core/pkg/payment"
	"github.com/healthpay/hec-core/pkg/xrpl"
)

var payMemo string

var mintCmd = &cobra.Command{
	Use:   "mint <role> <amount>",
	Short: "Issue credits from the issuer to a role's account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPayment(cmd, payment.KindMint, config.RoleIssuer, config.Role(args[0]), args[1])
	},
}

var payCmd = &cobra.Command{
	Use:   "pay <from-role> <to-role> <amount>",
	Short: "Transfer credits between role accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 3 {
			return errors.New("usage: hec pay <from-role> <to-role> <amount>")
		}
		return runPayment(cmd, payment.KindTransfer, config.Role(args[0]), config.Role(args[1]), args[2])
	},
}

var redeemCmd = &cobra.Command{
	Use:   "redeem <role> <amount>",
	Short: "Spend credits from a role's account at the clinic",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPayment(cmd, payment.KindRedeem, config.Role(args[0]), config.RoleClinic, args[1])
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance <address-or-role>",
	Short: "Show an account's credit balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		address := args[0]
		if kp, ok := cfg.Keys[config.Role(address)]; ok {
			address = kp.Address
		}

		client, err := xrpl.Dial(cfg.Endpoint)
		if err != nil {
			return err
		}
		defer client.Close()

		state, err := client.AccountState(cmd.Context(), address)
		if err != nil {
			return err
		}
		fmt.Printf("Account: %s\nXRP (drops): %s\n", state.Address, state.Balance)

		issuer, hasIssuer := cfg.Keys[config.RoleIssuer]
		code := xrpl.CurrencyCode(cfg.Currency)
		for _, line := range state.Lines {
			if line.Currency != code {
				continue
			}
			if hasIssuer && line.Account != issuer.Address {
				continue
			}
			fmt.Printf("%s: %s (limit %s)\n", cfg.Currency, line.Balance, line.Limit)
		}
		return nil
	},
}

func runPayment(cmd *cobra.Command, kind payment.Kind, fromRole, toRole config.Role, amount string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sender, err := cfg.Wallet(fromRole)
	if err != nil {
		return err
	}
	dest, ok := cfg.Keys[toRole]
	if !ok {
		return fmt.Errorf("role %q is not configured", toRole)
	}
	issuer, ok := cfg.Keys[config.RoleIssuer]
	if !ok {
		return fmt.Errorf("issuer is not configured")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	intent := payment.Intent{
		Kind:        kind,
		Sender:      sender,
		Destination: dest.Address,
		Amount:      xrpl.IssuedAmount(cfg.Currency, issuer.Address, amount),
	}
	if payMemo != "" {
		memo := xrpl.TextMemo(payMemo)
		intent.Memo = &memo
	}

	sub := payment.NewSubmitter(payment.EndpointDialer(cfg.Endpoint), logger)
	hash, err := sub.Submit(cmd.Context(), intent)
	if err != nil {
		return err
	}
	fmt.Printf("Submitted: %s\n", hash)
	return nil
}

func init() {
	for _, c := range []*cobra.Command{mintCmd, payCmd, redeemCmd} {
		c.Flags().StringVar(&payMemo, "memo", "", "attach a plain-text memo")
		rootCmd.AddCommand(c)
	}
	rootCmd.AddCommand(balanceCmd)
}
