package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cableerp/app"
	"cableerp/config"
	"cableerp/logger"
)

var rootCmd = &cobra.Command{
	Use:   "erpctl",
	Short: "Maintenance commands for the cable ERP backend",
	Long: `erpctl runs maintenance jobs against the backend selected by DB_TYPE:
schema migrations, balance recomputation, admin seeding and document numbers.

It reads the same .env and environment variables as the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		loaded = cfg
		return logger.Setup(cfg.Log)
	},
}

var loaded *config.Config

// openApp connects to the configured backend for one command.
func openApp(ctx context.Context) (*app.App, error) {
	return app.New(ctx, loaded)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log := logger.WithComponent("cmd")
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		stop()
		os.Exit(1)
	}
}
