// Package cli holds the recipes command line: serve, migrate, seed and
// publish/unpublish.
package cli

import (
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
}

// NewRootCommand returns the recipes command. Run without a subcommand it
// serves the site.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "recipes",
		Short:         "Server-rendered recipes site",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "optional YAML config file (overrides $CONFIG_FILE)")

	serve := newServeCommand(opts)
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())
	root.AddCommand(
		serve,
		newMigrateCommand(opts),
		newSeedCommand(opts),
		newPublishCommand(opts, true),
		newPublishCommand(opts, false),
	)
	return root
}

// NewMigrateCommand returns the migrate command on its own, for cmd/migrate
func NewMigrateCommand() *cobra.Command {
	opts := &options{}
	cmd := newMigrateCommand(opts)
	cmd.Flags().StringVar(&opts.configPath, "config", "", "optional YAML config file (overrides $CONFIG_FILE)")
	return cmd
}

// NewSeedCommand returns the seed command on its own, for cmd/seed_recipes
func NewSeedCommand() *cobra.Command {
	opts := &options{}
	cmd := newSeedCommand(opts)
	cmd.Flags().StringVar(&opts.configPath, "config", "", "optional YAML config file (overrides $CONFIG_FILE)")
	return cmd
}
