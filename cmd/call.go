// ABOUTME: Call command invoking one tool through an in-memory MCP session
// ABOUTME: Useful for checking credentials and tool output without an MCP host

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/markalston/strava-mcp/config"
	"github.com/markalston/strava-mcp/handlers"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

// ErrToolFailed is returned when the tool reports an error result.
var ErrToolFailed = errors.New("tool call failed")

var callCmd = &cobra.Command{
	Use:   "call <tool> [json-args]",
	Short: "Call a tool once and print its result",
	Example: `  strava-mcp call list_activities '{"limit": 3}'
  strava-mcp call get_activity_streams '{"activity_id": 123, "types": ["heartrate"], "resolution": "low"}'`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		rawArgs := ""
		if len(args) == 2 {
			rawArgs = args[1]
		}
		return runCall(cmd.Context(), cmd.OutOrStdout(), newHandler(cfg), args[0], rawArgs)
	},
}

func init() {
	rootCmd.AddCommand(callCmd)
}

func runCall(ctx context.Context, w io.Writer, h *handlers.Handler, tool, rawArgs string) error {
	arguments := map[string]any{}
	if rawArgs != "" {
		if err := json.Unmarshal([]byte(rawArgs), &arguments); err != nil {
			return fmt.Errorf("arguments must be a JSON object: %w", err)
		}
	}

	session, err := h.InMemoryClient(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	res, err := session.CallTool(ctx, &mcp.CallToolParams{Name: tool, Arguments: arguments})
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", tool, err)
	}

	if IsJSONOutput() && res.StructuredContent != nil {
		data, err := json.MarshalIndent(res.StructuredContent, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
	} else {
		for _, c := range res.Content {
			if tc, ok := c.(*mcp.TextContent); ok {
				fmt.Fprintln(w, tc.Text)
			}
		}
	}

	if res.IsError {
		return fmt.Errorf("%w: %s", ErrToolFailed, tool)
	}
	return nil
}
