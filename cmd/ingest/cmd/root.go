// Package cmd implements the repolens-ingest CLI commands.
package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var version string

var rootCmd = &cobra.Command{
	Use:   "repolens-ingest",
	Short: "Security report ingestion pipeline",
	Long: `repolens-ingest parses per-scanner security reports into a canonical
finding ledger backed by PostgreSQL.

It ingests gitleaks, semgrep, trivy, checkov, trufflehog, grype, nuclei,
retire.js and OSS Gadget reports, validates detected secrets against live
endpoints where possible, and maintains per-repository contributor risk,
language and dependency snapshots.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the CLI version from build flags.
func SetVersion(v string) {
	version = v
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("repolens-ingest %s (%s/%s, %s)\n",
			version, runtime.GOOS, runtime.GOARCH, runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(migrateCmd)
}
