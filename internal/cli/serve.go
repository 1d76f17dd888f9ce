package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/pageza/recipes/backend/config"
	"github.com/pageza/recipes/backend/internal/database"
	"github.com/pageza/recipes/backend/internal/router"
	"github.com/pageza/recipes/backend/internal/server"
)

func newServeCommand(opts *options) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the recipes site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gin.SetMode(config.GetEnvironment().GinMode())

			a, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer a.close()

			if migrate {
				if err := database.RunMigrations(a.db, a.log); err != nil {
					return err
				}
			}

			deps, err := newServices(cmd.Context(), a)
			if err != nil {
				return err
			}
			defer deps.close()

			registry := prometheus.NewRegistry()
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			handler := router.SetupRouter(router.Deps{
				Config:   a.cfg,
				DB:       a.db,
				Log:      a.log,
				Recipes:  deps.recipes,
				Covers:   deps.covers,
				Redis:    deps.redis,
				Registry: registry,
			})
			srv := server.New(a.cfg, handler, a.log)

			// Channel to listen for errors coming from the server
			errChan := make(chan error, 1)
			go func() {
				errChan <- srv.Start()
			}()

			// Channel to listen for an interrupt or terminate signal from the OS
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(quit)

			// Block until we receive a signal or error
			select {
			case err := <-errChan:
				return err
			case sig := <-quit:
				a.log.WithField("signal", sig.String()).Info("received signal")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return err
			}
			a.log.Info("server stopped")
			return nil
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "apply migrations before serving")
	return cmd
}
