// ABOUTME: In-process MCP client for the CLI's tools and call commands
// ABOUTME: Connects a client session to a fresh server over in-memory transports

package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// InMemoryClient returns a client session talking to this handler's tools
// without any network transport. Close the session when done.
func (h *Handler) InMemoryClient(ctx context.Context) (*mcp.ClientSession, error) {
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	if _, err := h.NewServer().Connect(ctx, serverTransport, nil); err != nil {
		return nil, fmt.Errorf("failed to start in-memory MCP server: %w", err)
	}

	client := mcp.NewClient(&mcp.Implementation{Name: ServerName + "-cli", Version: h.version}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect in-memory MCP client: %w", err)
	}
	return session, nil
}
