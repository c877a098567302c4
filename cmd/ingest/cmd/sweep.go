package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the corrective sweep once",
	Long: `Sweep downgrades open critical secret findings that lack positive
verification to medium, then re-validates a bounded batch of open secret
findings ordered by severity, updating their stored verdicts in place.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApplication()
		if err != nil {
			return err
		}
		defer app.Close()

		out, err := app.service.Sweep(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Sweep finished: %d downgraded, %d re-validated, %d updated\n",
			out.Downgraded, out.Revalidated, out.Updated)
		return nil
	},
}
