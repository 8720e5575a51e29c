/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var playName string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the game in the full-screen interface",
	Long: `Opens the farm in a full-screen terminal interface. Auto-sellers earn while
it is open and the game is saved periodically and on exit.

Logs go to the configured log_file because the interface owns the terminal.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
			fail("failed to create log directory: %v", err)
		}
		logFile, err := tea.LogToFile(cfg.LogFile, "farmstead")
		if err != nil {
			fail("failed to open log file: %v", err)
		}
		defer logFile.Close()
		setupLogging(logFile, cfg.Level())

		ctx := context.Background()
		game, err := openLive(ctx, cfg, nil)
		if err != nil {
			fail("failed to start game: %v", err)
		}

		if err := ensurePlayerName(ctx, game.session, playName, bufio.NewReader(os.Stdin), os.Stdout); err != nil {
			fmt.Printf("Error: %v\n", err)
		}

		tuiErr := RunTUI(game.session)
		if err := game.Close(); err != nil {
			fmt.Printf("Error saving game: %v\n", err)
		}
		if tuiErr != nil {
			fail("fatal TUI error: %v", tuiErr)
		}
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().StringVar(&playName, "name", "", "display name; skips the name prompt")
}
