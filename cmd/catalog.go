/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"fmt"

	"github.com/suderio/farmstead/internal/achievement"
	"github.com/suderio/farmstead/internal/catalog"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog [file]",
	Short: "Print and validate the game catalog",
	Long: `Loads the catalog (the built-in one, the configured one, or the given file),
validates it and compiles every achievement predicate, then prints it.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		setupLogging(cmd.ErrOrStderr(), cfg.Level())
		if len(args) == 1 {
			cfg.CatalogPath = args[0]
		}

		cat, err := checkCatalog(cfg.CatalogPath)
		if err != nil {
			fail("%v", err)
		}
		cat.AddCodes(cfg.RedemptionCodes)
		fmt.Println(renderCatalog(cat))
	},
}

// checkCatalog loads a catalog and compiles its achievement predicates.
func checkCatalog(path string) (*catalog.Catalog, error) {
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}
	if _, err := achievement.NewEvaluator(cat.Achievements); err != nil {
		return nil, fmt.Errorf("invalid achievements: %w", err)
	}
	return cat, nil
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}
