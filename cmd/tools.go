// ABOUTME: Tools command listing the registered MCP tools
// ABOUTME: Queries an in-memory MCP session so output matches what clients see

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/markalston/strava-mcp/config"
	"github.com/markalston/strava-mcp/handlers"
	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the MCP tools this server provides",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return runTools(cmd.Context(), cmd.OutOrStdout(), newHandler(cfg))
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}

func runTools(ctx context.Context, w io.Writer, h *handlers.Handler) error {
	session, err := h.InMemoryClient(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	res, err := session.ListTools(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to list tools: %w", err)
	}

	if IsJSONOutput() {
		data, err := json.MarshalIndent(res.Tools, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, tool := range res.Tools {
		fmt.Fprintf(tw, "%s\t%s\n", tool.Name, tool.Description)
	}
	return tw.Flush()
}
