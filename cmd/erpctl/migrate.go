package main

import (
	"errors"

	"github.com/spf13/cobra"

	"cableerp/db"
	"cableerp/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending Postgres migrations",
	Long: `Apply every pending migration from MIGRATIONS_PATH to POSTGRES_URL.

Only meaningful with DB_TYPE=postgres; Mongo indexes are created on startup.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if loaded.DBType != db.Postgres {
			return errors.New("migrate needs DB_TYPE=postgres")
		}
		source, _ := cmd.Flags().GetString("source")
		if source == "" {
			source = loaded.MigrationsPath
		}
		if err := db.RunMigrations(loaded.PostgresURL, source); err != nil {
			return err
		}
		log := logger.WithComponent("migrate")
		log.Info().Str("source", source).Msg("migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().String("source", "", "Migration source URL (default: MIGRATIONS_PATH)")
}
