// ABOUTME: Declarative route table for the HTTP transport
// ABOUTME: Defines the REST routes served next to the MCP endpoint

package handlers

import "net/http"

// MCPPath is where the streamable MCP endpoint is mounted.
const MCPPath = "/mcp"

// Route defines an API endpoint with its HTTP method and handler.
type Route struct {
	Method  string           // HTTP method (GET, POST, etc.)
	Path    string           // URL path (e.g., "/api/v1/health")
	Handler http.HandlerFunc // Handler function
	Public  bool             // served without bearer auth
}

// Routes returns the REST routes for registration. The MCP endpoint is
// mounted separately because it is an http.Handler with its own methods.
func (h *Handler) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/api/v1/health", Handler: h.Health, Public: true},
	}
}
