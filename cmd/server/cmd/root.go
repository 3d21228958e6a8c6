package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	logLevel  string
	logFormat string

	rootCmd = &cobra.Command{
		Use:   "server",
		Short: "Gatherbase - event management backend",
		Long: `Gatherbase is a small event-management backend: account signup and login
with bcrypt password hashing and JWT session tokens, plus CRUD and an atomic
"join" operation over an events collection backed by PostgreSQL.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmd.RunE(cmd, args)
		},
	}
)

// Execute runs the root command. Called once from main.
func Execute() {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error) (default: info)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (json, console) (default: json)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)
}
