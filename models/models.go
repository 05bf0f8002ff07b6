// ABOUTME: Shared response models for the HTTP transport
// ABOUTME: Health and error payloads served next to the MCP endpoint

package models

import "time"

// HealthResponse reports server and upstream session status.
// Token values are never included.
type HealthResponse struct {
	Status            string     `json:"status"`
	Version           string     `json:"version"`
	Transport         string     `json:"transport"`
	CredentialsLoaded bool       `json:"credentials_loaded"`
	SessionValid      bool       `json:"session_valid"`
	SessionExpiresAt  *time.Time `json:"session_expires_at,omitempty"`
	Tools             []string   `json:"tools"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    int    `json:"code"`
}
