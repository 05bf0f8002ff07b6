// ABOUTME: Handler wiring the Strava services into MCP tools and HTTP endpoints
// ABOUTME: Owns tool-layer limits, response helpers and the shared session

package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/markalston/strava-mcp/models"
	"github.com/markalston/strava-mcp/services"
)

const (
	// ServerName is advertised to MCP clients.
	ServerName = "strava-mcp"

	// DefaultMaxActivityLimit caps list/search limits when no option is given.
	DefaultMaxActivityLimit = 200
)

// SessionStatus is a session provider that can also report its state.
type SessionStatus interface {
	services.SessionProvider
	Status() (valid bool, expiresAt time.Time)
	CredentialsLoaded() bool
}

// Options tunes the tool surface.
type Options struct {
	Version          string
	Transport        string
	MaxActivityLimit int
}

type Handler struct {
	athletes   *services.AthleteService
	activities *services.ActivityService
	streams    *services.StreamService
	sessions   SessionStatus

	version   string
	transport string
	maxLimit  int
}

// NewHandler builds the query services on top of one shared session.
func NewHandler(api services.StravaAPI, sessions SessionStatus, opts Options) *Handler {
	if opts.MaxActivityLimit <= 0 {
		opts.MaxActivityLimit = DefaultMaxActivityLimit
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	return &Handler{
		athletes:   services.NewAthleteService(api, sessions),
		activities: services.NewActivityService(api, sessions),
		streams:    services.NewStreamService(api, sessions),
		sessions:   sessions,
		version:    opts.Version,
		transport:  opts.Transport,
		maxLimit:   opts.MaxActivityLimit,
	}
}

// clampLimit applies the per-tool default and the configured ceiling.
// Non-positive values pass through so the services can reject them.
func (h *Handler) clampLimit(limit *int, defaultLimit int) int {
	if limit == nil {
		return min(defaultLimit, h.maxLimit)
	}
	return min(*limit, h.maxLimit)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, models.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
