package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"mnps-api/internal/app"
	"mnps-api/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		application, err := app.New(cmd.Context(), cfg, slog.Default())
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		return application.Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	// serve is also what a bare invocation does
	rootCmd.RunE = serveCmd.RunE
}
