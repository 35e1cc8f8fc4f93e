// Package cli implements the CLI adapter for prunekit.
// This package provides Cobra commands that delegate to the prune
// usecase layer.
package cli

import (
	"github.com/spf13/cobra"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// NewRootCmd creates the root command for the prunekit CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "prunekit",
		Short: "prunekit - tiered retention pruning for dated backups",
		Long: `prunekit keeps a backup directory within a tiered retention policy.

Dated artifacts overflow from the daily tier into weekly, monthly and
yearly tiers when they fall on a calendar boundary, and are deleted
otherwise. A flat mode simply keeps the newest N artifacts in a single
directory.`,
		SilenceUsage: true,
	}

	// Add subcommands
	rootCmd.AddCommand(newPruneCmd())
	rootCmd.AddCommand(newScheduleCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// newVersionCmd creates the version command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("prunekit %s\n", Version)
			cmd.Printf("Commit: %s\n", Commit)
			cmd.Printf("Build Date: %s\n", BuildDate)
		},
	}
}

// SetVersionInfo sets the version information for the CLI.
func SetVersionInfo(version, commit, date string) {
	Version = version
	Commit = commit
	BuildDate = date
}
