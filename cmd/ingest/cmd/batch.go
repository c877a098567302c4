package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch <root-dir>",
	Short: "Ingest every repository subdirectory under a root directory",
	Long: `Batch iterates the root directory's subdirectories sequentially and
ingests each one as a repository. A failing repository marks its scan run
failed and the batch continues.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApplication()
		if err != nil {
			return err
		}
		defer app.Close()

		out, err := app.service.RunBatch(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Batch finished: %d succeeded, %d failed\n", len(out.Succeeded), len(out.Failed))
		for _, name := range out.Failed {
			fmt.Printf("  failed: %s\n", name)
		}
		return nil
	},
}
