package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"desci/internal/app/bootstrap"

	"github.com/spf13/cobra"
)

// Worker process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring.
// 3) Relay governance outbox rows to the event stream until stopped.
func main() {
	cmd := &cobra.Command{
		Use:          "desci-worker",
		Short:        "Relay governance events from the outbox",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := bootstrap.BuildWorker(cmd.Flags())
			if err != nil {
				return err
			}
			defer func() {
				if err := app.Close(); err != nil {
					log.Printf("worker shutdown close failed: %v", err)
				}
			}()
			return app.Run(ctx)
		},
	}
	cmd.Flags().String("db-driver", "sqlite", "database driver: postgres or sqlite")
	cmd.Flags().String("log-level", "info", "log level: debug, info, warn, error")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
