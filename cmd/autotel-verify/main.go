// Package main implements the autotel-verify CLI for inspecting the
// instrumentation and detector catalogs.
//
// It answers the questions that come up when wiring autotel into a
// service: what is in the catalogs, which entries does the current
// environment enable, and does go.mod still line up with the catalogs
// after a dependency bump.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/autotel"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "autotel-verify",
	Short: "Inspect the autotel instrumentation and detector catalogs",
	Long: `autotel-verify inspects the autotel instrumentation and detector catalogs.

It lists catalog entries with their environment switches, previews which
entries the current environment enables, and checks that go.mod carries a
direct dependency for every catalog entry.`,
	Version:       autotel.Version(),
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(envCmd)
	rootCmd.AddCommand(checkCmd)
}
