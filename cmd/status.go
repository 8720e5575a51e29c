/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show coins, animals, auto-sellers and achievements",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		setupLogging(cmd.ErrOrStderr(), cfg.Level())
		ctx := context.Background()

		s, err := openOffline(ctx, cfg)
		if err != nil {
			fail("failed to open save: %v", err)
		}
		defer s.Close(ctx)

		state, err := s.State(ctx)
		if err != nil {
			fail("%v", err)
		}
		cat := s.Catalog()
		fmt.Println(lipgloss.JoinVertical(lipgloss.Left,
			renderTitle(state),
			stateBoxStyle.Render(renderFarm(state, cat)),
			stateBoxStyle.Render(renderAchievements(state, cat)),
		))
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
