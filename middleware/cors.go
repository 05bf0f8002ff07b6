// ABOUTME: CORS middleware for browser-based MCP clients
// ABOUTME: Echoes allowed origins, exposes the MCP session header, answers preflight

package middleware

import (
	"net/http"
	"slices"
)

// CORS returns middleware that allows the listed origins. An empty list
// blocks every cross-origin request; "*" allows any origin.
// OPTIONS preflight requests are answered with 204 without calling the
// wrapped handler.
func CORS(allowedOrigins []string) Middleware {
	allowAll := slices.Contains(allowedOrigins, "*")

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowAll || slices.Contains(allowedOrigins, origin)) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Mcp-Session-Id, Mcp-Protocol-Version")
				w.Header().Set("Access-Control-Expose-Headers", "Mcp-Session-Id, "+RequestIDHeader)
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next(w, r)
		}
	}
}
