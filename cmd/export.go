/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/suderio/farmstead/internal/persistence"

	"github.com/spf13/cobra"
)

var exportCompress bool

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the current save record to a file or stdout",
	Long: `Copies the save record out of the configured store. The record is plain JSON
unless --compress is given or the target file ends in .zst.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		setupLogging(cmd.ErrOrStderr(), cfg.Level())

		data, err := readSave(context.Background(), cfg)
		if err != nil {
			fail("%v", err)
		}
		if data == nil {
			fail("there is no save to export yet")
		}

		target := ""
		if len(args) == 1 {
			target = args[0]
		}
		if exportCompress || strings.HasSuffix(target, ".zst") {
			if data, err = persistence.Compress(data); err != nil {
				fail("%v", err)
			}
		}

		if target == "" {
			cmd.OutOrStdout().Write(data)
			return
		}
		if err := os.WriteFile(target, data, 0644); err != nil {
			fail("failed to write %s: %v", target, err)
		}
		fmt.Printf("Save exported to %s\n", target)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().BoolVarP(&exportCompress, "compress", "z", false, "zstd-compress the exported record")
}
