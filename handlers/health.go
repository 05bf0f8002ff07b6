// ABOUTME: HTTP handler for the health endpoint
// ABOUTME: Reports version, transport, registered tools and Strava session state

package handlers

import (
	"net/http"

	"github.com/markalston/strava-mcp/models"
)

// Health returns server status. It never triggers a token refresh and never
// includes token values.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status:            "ok",
		Version:           h.version,
		Transport:         h.transport,
		CredentialsLoaded: h.sessions.CredentialsLoaded(),
		Tools:             ToolNames,
	}

	valid, expiresAt := h.sessions.Status()
	resp.SessionValid = valid
	if !expiresAt.IsZero() {
		exp := expiresAt.UTC()
		resp.SessionExpiresAt = &exp
	}
	if !resp.CredentialsLoaded {
		resp.Status = "degraded"
	}

	writeJSON(w, http.StatusOK, resp)
}
