package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tradeflowhq/tradeflow/logger"
	"github.com/tradeflowhq/tradeflow/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the analysis service until interrupted",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		a, err := buildApp(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger.Info("Starting tradeflow", logger.Fields(
			"version", version.Short(),
			"environment", cfg.Environment,
			"graph", a.engine.Graph().Name,
		))

		if err := a.start(ctx); err != nil {
			a.stop()
			return err
		}

		<-ctx.Done()
		logger.Info("Shutdown signal received")
		a.stop()
		return nil
	},
}
