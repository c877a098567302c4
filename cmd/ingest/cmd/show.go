package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <repo-name>",
	Short: "Show a repository's current snapshot state",
	Long: `Show prints the persisted repository record together with the latest
generation of its contributor, language and dependency snapshots.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApplication()
		if err != nil {
			return err
		}
		defer app.Close()

		summary, err := app.service.Describe(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		rep := summary.Repository
		fmt.Printf("Repository %s (bus factor %d)\n", rep.Name, rep.BusFactor)
		if rep.LastScannedAt != nil {
			fmt.Printf("  Last scanned: %s\n", rep.LastScannedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
		}

		fmt.Printf("  Contributors (%d):\n", len(summary.Contributors))
		for _, c := range summary.Contributors {
			fmt.Printf("    %-30s %5d commits  risk %3d\n", c.Name, c.Commits, c.RiskScore)
		}

		fmt.Printf("  Languages (%d):\n", len(summary.Languages))
		for _, l := range summary.Languages {
			fmt.Printf("    %-20s %6.2f%%\n", l.Language, l.Percentage)
		}

		fmt.Printf("  Dependencies: %d\n", len(summary.Dependencies))
		return nil
	},
}
