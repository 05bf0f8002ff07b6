// ABOUTME: Version command for strava-mcp
// ABOUTME: Prints the build version

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "strava-mcp %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
