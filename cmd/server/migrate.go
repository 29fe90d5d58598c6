package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mnps-api/internal/app"
	"mnps-api/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.LoadForTooling()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := app.Connect(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		return db.Migrate(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
