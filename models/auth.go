// ABOUTME: Session and token models for the Strava refresh-token flow
// ABOUTME: Session is an immutable snapshot of the currently held credential

package models

import "time"

// Session is the live access credential and its expiry.
// Values are snapshots: the session manager swaps whole sessions and never
// mutates one that has been handed out.
type Session struct {
	AccessToken  string    `json:"-"` // Never expose to client
	RefreshToken string    `json:"-"` // Never expose to client
	ExpiresAt    time.Time `json:"expires_at"`
}

// IsZero reports whether no credential has been obtained yet.
func (s Session) IsZero() bool {
	return s.AccessToken == "" && s.ExpiresAt.IsZero()
}

// TokenResponse is the Strava OAuth token endpoint payload.
// ExpiresAt is epoch seconds as reported by the server.
type TokenResponse struct {
	TokenType    string `json:"token_type"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
	ExpiresIn    int64  `json:"expires_in"`
}
