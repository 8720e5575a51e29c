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

var buyCount int

var buyCmd = &cobra.Command{
	Use:   "buy <animal>",
	Short: "Buy animals from the shop",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		setupLogging(cmd.ErrOrStderr(), cfg.Level())

		withOffline(cfg, func(ctx context.Context, s *session.Session) (string, error) {
			t, err := producerArg(s.Catalog(), args[0])
			if err != nil {
				return "", err
			}
			item, _ := s.Catalog().ShopItem(t)

			bought := 0
			for bought < buyCount {
				if err := s.BuyProducer(ctx, t, item.Price); err != nil {
					if bought == 0 {
						return "", err
					}
					break
				}
				bought++
			}
			return fmt.Sprintf("Bought %d %s for %s coins.", bought, item.Name, session.FormatCoins(int64(bought)*item.Price)), nil
		})
	},
}

func init() {
	rootCmd.AddCommand(buyCmd)
	buyCmd.Flags().IntVarP(&buyCount, "count", "n", 1, "how many to buy; stops early when coins run out")
}
