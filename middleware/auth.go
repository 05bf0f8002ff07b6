// ABOUTME: Bearer token authentication middleware for the HTTP transport
// ABOUTME: Compares the presented token against MCP_AUTH_TOKEN in constant time

package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
)

// BearerAuth returns middleware that requires "Authorization: Bearer <token>".
// An empty token disables authentication.
func BearerAuth(token string) Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				next(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				slog.Debug("Auth rejected: no auth provided", "path", sanitizePath(r.URL.Path))
				w.Header().Set("WWW-Authenticate", `Bearer realm="strava-mcp"`)
				writeJSONError(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			presented, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				slog.Debug("Auth rejected: invalid format", "path", sanitizePath(r.URL.Path))
				writeJSONError(w, "Invalid authorization format", http.StatusUnauthorized)
				return
			}

			if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				slog.Debug("Auth rejected: invalid token", "path", sanitizePath(r.URL.Path))
				writeJSONError(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			next(w, r)
		}
	}
}
