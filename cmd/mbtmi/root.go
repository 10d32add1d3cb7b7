package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "mbtmi",
	Short:         "Personality type quiz service",
	Long:          "mbtmi serves personality-type quizzes over HTTP and manages the test catalogue.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Database URL (overrides DATABASE_URL)")
	rootCmd.PersistentFlags().String("driver", "", "Database driver: postgres or sqlite (overrides DATABASE_DRIVER)")
	rootCmd.PersistentFlags().Bool("migrate", false, "Create or update tables before running")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(watchCmd)
}
