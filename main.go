// ABOUTME: Entry point for the Strava MCP server
// ABOUTME: Exposes Strava athlete, activity, lap and stream data as MCP tools

package main

import (
	"os"

	"github.com/markalston/strava-mcp/cmd"
)

func main() {
	// Cobra prints the error itself.
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
