/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/suderio/farmstead/internal/session"

	"github.com/spf13/cobra"
)

var redeemCmd = &cobra.Command{
	Use:   "redeem <code>",
	Short: "Redeem a reward code",
	Long:  `Redeems a reward code. Codes are case-insensitive and each works once per save.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		setupLogging(cmd.ErrOrStderr(), cfg.Level())

		withOffline(cfg, func(ctx context.Context, s *session.Session) (string, error) {
			amount, err := s.Redeem(ctx, args[0])
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Success! Received %s coins!", session.FormatCoins(amount)), nil
		})
	},
}

func init() {
	rootCmd.AddCommand(redeemCmd)
}
