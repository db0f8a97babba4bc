package main

import (
	"github.com/spf13/cobra"

	"github.com/skycastlabs/skycast/internal/xdg"
)

// Global flags available to all subcommands.
var configFile string

// effectiveConfigPath returns the --config flag value, falling back to the
// XDG default config file when it exists.
func effectiveConfigPath() string {
	if configFile != "" {
		return configFile
	}
	return xdg.DefaultConfigPath()
}

// NewRootCmd creates the root command for the SkyCast CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skycast",
		Short: "SkyCast - a weather API with JWT authentication",
		Long: `SkyCast is a small web API providing user registration and login
with account lockout, JWT issuance, and a cached city-weather lookup.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewStatusCmd())

	return cmd
}
