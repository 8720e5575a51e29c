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

var automateCmd = &cobra.Command{
	Use:     "automate <animal>",
	Aliases: []string{"upgrade"},
	Short:   "Buy or upgrade the auto-seller for a kind of animal",
	Long: `Buys the next auto-seller level for a kind of animal. Higher levels sell
more often and cost more. Auto-sellers only run while the game is running
(play or run).`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		setupLogging(cmd.ErrOrStderr(), cfg.Level())

		withOffline(cfg, func(ctx context.Context, s *session.Session) (string, error) {
			t, err := producerArg(s.Catalog(), args[0])
			if err != nil {
				return "", err
			}
			bought, err := s.BuyAutomation(ctx, t)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Auto-seller for %s is now level %d (every %s) for %s coins.",
				t, bought.Holding.Tier, session.FormatInterval(bought.Holding.IntervalMs), session.FormatCoins(bought.Price)), nil
		})
	},
}

func init() {
	rootCmd.AddCommand(automateCmd)
}
