/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/suderio/farmstead/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "farmstead",
	Short: "An idle farming game for the terminal",
	Long: `Farmstead is an idle farming game. Sell eggs, milk and wool by hand,
buy more animals, and automate sales with auto-sellers that keep earning
while the game runs.

Start playing with:
	farmstead play`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.farmstead.yaml)")
	rootCmd.PersistentFlags().String("save", "", "save file or database path")
	rootCmd.PersistentFlags().String("store", "", "save backend: file or sqlite")
	rootCmd.PersistentFlags().String("slot", "", "save slot name (sqlite only)")
	rootCmd.PersistentFlags().String("catalog", "", "catalog YAML overriding the built-in shop")
	rootCmd.PersistentFlags().String("log-level", "", "debug, info, warn or error")

	for key, flag := range map[string]string{
		"save_path":    "save",
		"store":        "store",
		"save_slot":    "slot",
		"catalog_path": "catalog",
		"log_level":    "log-level",
	} {
		cobra.CheckErr(viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	config.Configure(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".farmstead")
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
