package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pageza/recipes/backend/internal/database"
	"github.com/pageza/recipes/backend/internal/seed"
)

func newSeedCommand(opts *options) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo categories and recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data := seed.Default()
			if file != "" {
				raw, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("failed to read seed file: %w", err)
				}
				if data, err = seed.Parse(raw); err != nil {
					return err
				}
			}

			a, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer a.close()

			if err := database.RunMigrations(a.db, a.log); err != nil {
				return err
			}

			ctx := cmd.Context()
			deps, err := newServices(ctx, a)
			if err != nil {
				return err
			}
			defer deps.close()

			res, err := seed.Run(ctx, deps.recipes, data, a.log)
			if err != nil {
				return fmt.Errorf("seeding failed: %w", err)
			}

			a.log.WithFields(logrus.Fields{
				"categories": res.Categories,
				"recipes":    res.Recipes,
				"published":  res.Published,
			}).Info("seed complete")
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML seed file to load instead of the bundled demo data")
	return cmd
}
