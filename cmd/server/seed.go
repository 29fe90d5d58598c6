package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"mnps-api/internal/app"
	"mnps-api/internal/config"
)

var seedSkipMigrate bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the schema and load demo users, results and broadcasts",
	Long: `Loads the demo accounts admin/admin123, student001/student123 and
teacher001/teacher123 together with sample results and broadcasts.
Existing rows are left untouched, so the command can be run repeatedly.`,
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

		if !seedSkipMigrate {
			if err := db.Migrate(cmd.Context()); err != nil {
				return err
			}
		}

		report, err := app.Seed(cmd.Context(), db, cfg)
		if err != nil {
			return err
		}

		slog.Info("seed complete", "users", report.Users, "results", report.Results, "broadcasts", report.Broadcasts)
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedSkipMigrate, "skip-migrate", false, "Do not apply migrations before seeding")
	rootCmd.AddCommand(seedCmd)
}
