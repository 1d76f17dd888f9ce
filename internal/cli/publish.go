package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pageza/recipes/backend/internal/service"
)

// newPublishCommand builds "publish <id>" or, with published false,
// "unpublish <id>". Unpublishing is how a recipe is taken off the site.
func newPublishCommand(opts *options, published bool) *cobra.Command {
	use, short := "publish", "Show a recipe on the site"
	if !published {
		use, short = "unpublish", "Take a recipe off the site"
	}

	return &cobra.Command{
		Use:   use + " <recipe-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil || id == 0 {
				return fmt.Errorf("invalid recipe id %q", args[0])
			}

			a, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			deps, err := newServices(ctx, a)
			if err != nil {
				return err
			}
			defer deps.close()

			if err := deps.recipes.SetPublished(ctx, uint(id), published); err != nil {
				if errors.Is(err, service.ErrNotFound) {
					return fmt.Errorf("recipe %d does not exist", id)
				}
				return err
			}

			a.log.WithField("recipe_id", id).WithField("published", published).Info("recipe updated")
			return nil
		},
	}
}
