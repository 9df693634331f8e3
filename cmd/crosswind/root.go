package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Persistent flags shared by every subcommand.
var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "crosswind",
	Short: "Crosswind - campaign performance automation service",
	Long: `Crosswind automates the daily toil of managing paid advertising
campaigns across Google Ads, Meta and LinkedIn.

It runs a scheduled pipeline over campaign metrics, providing:
  - Alerting on budget burn and return-on-ad-spend
  - Model-assisted performance insights and ad copy generation
  - Bid adjustment and budget reallocation recommendations
  - A growing library of high-performing ad creative
  - HTML and JSON performance reports`,
	Version: Version,

	// Execute reports errors itself; without these cobra would print
	// each error twice and dump usage on runtime failures.
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
