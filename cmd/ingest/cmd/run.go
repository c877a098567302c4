package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var runRepoName string

var runCmd = &cobra.Command{
	Use:   "run <report-dir>",
	Short: "Ingest one repository's report directory",
	Long: `Ingest parses every recognized report file in the directory, persists
the findings under a new scan run and replaces the repository's contributor,
language and dependency snapshots.

The repository name defaults to the directory's base name; report files are
expected to be named <repo>_<scanner>.json.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApplication()
		if err != nil {
			return err
		}
		defer app.Close()

		dir := args[0]
		repoName := runRepoName
		if repoName == "" {
			repoName = filepath.Base(filepath.Clean(dir))
		}

		out, err := app.service.Run(cmd.Context(), repoName, dir)
		if err != nil {
			return err
		}

		fmt.Printf("Ingested %s: %d findings, %d dependencies, %d contributors (bus factor %d) in %s\n",
			repoName, out.FindingsCount, out.Dependencies, out.Contributors, out.BusFactor, out.Duration)
		for _, scanner := range out.FailedScanners {
			fmt.Printf("  WARNING: scanner %s failed to persist\n", scanner)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runRepoName, "repo", "", "Repository name (defaults to the directory base name)")
}
