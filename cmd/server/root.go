package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"mnps-api/internal/logger"
)

// global flags
var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:           "mnps-api",
	Short:         "MNPS v2 school management API",
	Long:          "Authentication, student results and broadcasts for Mayowa Nursery & Primary School.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		level := os.Getenv("LOG_LEVEL")
		if cmd.Flags().Changed("log-level") || level == "" {
			level = logLevel
		}
		format := os.Getenv("LOG_FORMAT")
		if cmd.Flags().Changed("log-format") || format == "" {
			format = logFormat
		}

		slog.SetDefault(logger.New(os.Stdout, level, format))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "pretty", "Log format (pretty, json)")
}
