package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/repolens/ingest/pkg/migrations"
)

var migrateDir string

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down|status]",
	Short: "Manage the database schema",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApplication()
		if err != nil {
			return err
		}
		defer app.Close()

		runner := migrations.NewRunner(app.db.DB, migrateDir)

		action := "up"
		if len(args) == 1 {
			action = args[0]
		}

		switch action {
		case "up":
			return runner.Up(cmd.Context())
		case "down":
			return runner.Down(cmd.Context())
		case "status":
			return runner.Status(cmd.Context())
		default:
			return fmt.Errorf("unknown migrate action: %s", action)
		}
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateDir, "dir", "migrations", "Path to the migrations directory")
}
