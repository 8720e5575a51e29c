/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/suderio/farmstead/internal/catalog"
	"github.com/suderio/farmstead/internal/engine"
	"github.com/suderio/farmstead/internal/session"

	"github.com/spf13/cobra"
)

var sellCmd = &cobra.Command{
	Use:   "sell <animal>...",
	Short: "Sell everything your animals produced",
	Long: `Sells the products of every animal of the given kinds, e.g.
	farmstead sell chicken cow`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		setupLogging(cmd.ErrOrStderr(), cfg.Level())

		withOffline(cfg, func(ctx context.Context, s *session.Session) (string, error) {
			types := make([]catalog.ProducerType, 0, len(args))
			for _, arg := range args {
				t, err := producerArg(s.Catalog(), arg)
				if err != nil {
					return "", err
				}
				types = append(types, t)
			}

			var lines []string
			for _, t := range types {
				earned, err := s.Sell(ctx, t, engine.Point{})
				if err != nil {
					return "", err
				}
				if earned == 0 {
					lines = append(lines, fmt.Sprintf("You have no %s to sell from.", t))
					continue
				}
				lines = append(lines, fmt.Sprintf("Sold %s for %s coins.", t, session.FormatCoins(earned)))
			}
			return strings.Join(lines, "\n"), nil
		})
	},
}

func init() {
	rootCmd.AddCommand(sellCmd)
}
