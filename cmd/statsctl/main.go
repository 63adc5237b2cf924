// Command statsctl renders the bot's reports on a terminal, saves provider
// snapshots and checks snapshots against the region table.
//
// Usage:
//
//	statsctl national --metric confirmed
//	statsctl compare mohfw-site --diff
//	statsctl snapshot ./snap
//	statsctl validate --snapshot ./snap
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	logLevel    string
	snapshotDir string
	keepFences  bool
)

var rootCmd = &cobra.Command{
	Use:           "statsctl",
	Short:         "COVID-19 India stats reports from the command line",
	Long:          "statsctl builds the same reports as the chat bot, reading providers live or from a snapshot directory. Provider settings come from the bot's environment variables.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func main() {
	rootCmd.AddCommand(nationalCmd)
	rootCmd.AddCommand(regionCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(stateCodesCmd)
	rootCmd.AddCommand(reconCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(validateCmd)

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level for stderr (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&snapshotDir, "snapshot", "", "read providers from this snapshot directory instead of the network")
	rootCmd.PersistentFlags().BoolVar(&keepFences, "fences", false, "keep the ``` block delimiters around reports")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
