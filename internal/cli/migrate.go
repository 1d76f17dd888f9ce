package cli

import (
	"github.com/spf13/cobra"

	"github.com/pageza/recipes/backend/internal/database"
)

func newMigrateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer a.close()

			if err := database.RunMigrations(a.db, a.log); err != nil {
				return err
			}
			a.log.Info("migrations applied")
			return nil
		},
	}
}
