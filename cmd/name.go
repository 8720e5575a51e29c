/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/suderio/farmstead/internal/session"

	"github.com/spf13/cobra"
)

var nameCmd = &cobra.Command{
	Use:   "name <display name>",
	Short: "Set the name shown on the leaderboard",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		setupLogging(cmd.ErrOrStderr(), cfg.Level())

		name := strings.Join(args, " ")
		withOffline(cfg, func(ctx context.Context, s *session.Session) (string, error) {
			if err := s.SetName(ctx, name); err != nil {
				return "", err
			}
			return fmt.Sprintf("Welcome, %s!", strings.TrimSpace(name)), nil
		})
	},
}

func init() {
	rootCmd.AddCommand(nameCmd)
}
