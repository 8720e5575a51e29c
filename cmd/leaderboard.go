/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/suderio/farmstead/internal/engine"
	"github.com/suderio/farmstead/internal/leaderboard"
	"github.com/suderio/farmstead/internal/persistence"

	"github.com/spf13/cobra"
)

var leaderboardTop int

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the top farmers on the remote leaderboard",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		setupLogging(cmd.ErrOrStderr(), cfg.Level())
		if !cfg.Leaderboard.Enabled() {
			fail("no leaderboard configured; set leaderboard.url or FARMSTEAD_LEADERBOARD_URL")
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Leaderboard.Timeout)
		defer cancel()

		client := leaderboard.NewClient(cfg.Leaderboard.URL, cfg.Leaderboard.Timeout)
		entries, err := client.Top(ctx, leaderboardTop)
		if err != nil {
			fail("failed to fetch leaderboard: %v", err)
		}

		self := ""
		if data, err := readSave(context.Background(), cfg); err == nil {
			if res, err := persistence.Restore(data, engine.NewGameState()); err == nil {
				self = res.State.PlayerName
			}
		}
		fmt.Println(stateBoxStyle.Render(renderLeaderboard(entries, self)))
	},
}

func init() {
	rootCmd.AddCommand(leaderboardCmd)
	leaderboardCmd.Flags().IntVarP(&leaderboardTop, "top", "n", 10, "number of entries to show (0 for all)")
}
