// ABOUTME: HTTP transport assembly: MCP streamable endpoint plus REST routes
// ABOUTME: Applies logging, CORS, rate limiting and bearer auth to every route

package handlers

import (
	"net/http"
	"slices"

	"github.com/markalston/strava-mcp/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// HTTPOptions configures the HTTP transport middleware.
type HTTPOptions struct {
	AuthToken          string
	CORSAllowedOrigins []string
	RateLimiter        *middleware.RateLimiter // nil disables rate limiting
}

// HTTPHandler returns the mux for HTTP mode. One MCP server instance is
// shared by every HTTP session so they all reuse the same Strava session.
func (h *Handler) HTTPHandler(opts HTTPOptions) http.Handler {
	server := h.NewServer()
	mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)

	base := []middleware.Middleware{
		middleware.LogRequest,
		middleware.CORS(opts.CORSAllowedOrigins),
		middleware.RateLimit(opts.RateLimiter, middleware.ClientIP),
	}
	protected := append(slices.Clone(base), middleware.BearerAuth(opts.AuthToken))

	mux := http.NewServeMux()
	for _, route := range h.Routes() {
		chain := protected
		if route.Public {
			chain = base
		}
		mux.HandleFunc(route.Path, middleware.Chain(allowMethod(route.Method, route.Handler), chain...))
	}
	mux.Handle(MCPPath, middleware.ChainHandler(mcpHandler, protected...))
	return mux
}

// allowMethod rejects other methods with 405. Preflight OPTIONS requests
// never get here because CORS answers them.
func allowMethod(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}
