/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var importForce bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the current save with a record read from a file",
	Long: `Reads a plain or zstd-compressed save record, repairs it the same way the game
does on startup, and writes it into the configured store.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		setupLogging(cmd.ErrOrStderr(), cfg.Level())
		ctx := context.Background()

		raw, err := os.ReadFile(args[0])
		if err != nil {
			fail("failed to read %s: %v", args[0], err)
		}
		cat, err := loadCatalog(cfg)
		if err != nil {
			fail("%v", err)
		}

		data, warnings, err := importRecord(raw, cat)
		if err != nil {
			fail("%v", err)
		}
		if len(warnings) > 0 && !importForce {
			for _, w := range warnings {
				fmt.Printf("  %s\n", w)
			}
			fail("the record needed repairs; rerun with --force to import the repaired version")
		}

		store, err := openStore(cfg)
		if err != nil {
			fail("%v", err)
		}
		defer store.Close()
		if err := store.Save(ctx, data); err != nil {
			fail("failed to save: %v", err)
		}
		fmt.Printf("Save imported from %s\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().BoolVar(&importForce, "force", false, "import even when fields had to be repaired")
}
