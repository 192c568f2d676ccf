package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"desci/internal/app/bootstrap"

	"github.com/spf13/cobra"
)

// API process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (ports + adapters + use cases).
// 3) Start HTTP server.
func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "desci-api",
		Short:         "DeSci governance accounting API",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("db-driver", "sqlite", "database driver: postgres or sqlite")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the governance HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := bootstrap.BuildAPI(ctx, cmd.Flags())
			if err != nil {
				return err
			}
			defer func() {
				if err := app.Close(); err != nil {
					log.Printf("api shutdown close failed: %v", err)
				}
			}()
			return app.Run(ctx)
		},
	}
	serve.Flags().String("http-port", "8080", "HTTP listen port")
	serve.Flags().String("tally-mode", "strict", "quorum scaling: strict or legacy")

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the governance schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return bootstrap.Migrate(cmd.Context(), cmd.Flags())
		},
	}

	root.AddCommand(serve, migrate)
	return root
}
