// ABOUTME: Root command for the strava-mcp binary
// ABOUTME: Handles global flags, logging and env file loading, and wires the services

package cmd

import (
	"github.com/markalston/strava-mcp/config"
	"github.com/markalston/strava-mcp/handlers"
	"github.com/markalston/strava-mcp/logger"
	"github.com/markalston/strava-mcp/services"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X github.com/markalston/strava-mcp/cmd.Version=..."
var Version = "dev"

var (
	envFile    string
	jsonOutput bool
)

// rootCmd is the base command. Without a subcommand it serves MCP, which is
// how MCP hosts launch it.
var rootCmd = &cobra.Command{
	Use:   "strava-mcp",
	Short: "MCP server exposing the Strava API as agent tools",
	Long: `strava-mcp exposes a Strava athlete's stats, activities, laps and sensor
streams as Model Context Protocol tools.

Environment Variables:
  STRAVA_CLIENT_ID       Strava API application client id
  STRAVA_CLIENT_SECRET   Strava API application client secret
  STRAVA_REFRESH_TOKEN   Refresh token with activity:read_all scope
  MCP_TRANSPORT          stdio or http (default: stdio)
  STRAVA_MCP_ENV_FILE    Env file to load (default: .env)`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.Init()
		return config.LoadEnvFile(envFile)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Env file to load before reading configuration (overrides STRAVA_MCP_ENV_FILE)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.Version = Version
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// newHandler builds the Strava client, the shared session manager and the
// tool handler from configuration.
func newHandler(cfg *config.Config) *handlers.Handler {
	client := services.NewStravaClient(cfg.StravaAPIURL, cfg.StravaTokenURL, cfg.HTTPTimeout(), cfg.StravaAllProxy)
	sessions := services.NewSessionManager(client, services.Credentials{
		ClientID:     cfg.StravaClientID,
		ClientSecret: cfg.StravaClientSecret,
		RefreshToken: cfg.StravaRefreshToken,
	})
	return handlers.NewHandler(client, sessions, handlers.Options{
		Version:          Version,
		Transport:        cfg.Transport,
		MaxActivityLimit: cfg.MaxActivityLimit,
	})
}
