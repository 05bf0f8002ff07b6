// ABOUTME: Session manager keeping the shared Strava access token valid
// ABOUTME: Proactively refreshes with a 5-minute buffer, one exchange at a time

package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/markalston/strava-mcp/models"
	"golang.org/x/sync/singleflight"
)

// RefreshBuffer is subtracted from the token expiry to decide when to renew.
// It has to cover the token round trip plus the API call that follows.
const RefreshBuffer = 300 * time.Second

// SessionProvider hands out a currently valid session.
type SessionProvider interface {
	GetSession(ctx context.Context) (models.Session, error)
}

// Credentials are the static client credentials plus the initial refresh token.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// Complete reports whether all three values are set.
func (c Credentials) Complete() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

// SessionManager owns the single process-wide Strava session.
//
// The token has two states: Valid (now < expiry - RefreshBuffer) and
// Expiring. GetSession returns a Valid session as is and runs the refresh
// exchange for an Expiring one. Refreshes are coalesced with singleflight and
// the new session replaces the old one whole under the write lock, so readers
// never see a new token paired with an old expiry.
type SessionManager struct {
	api          StravaAPI
	clientID     string
	clientSecret string
	now          func() time.Time

	mu      sync.RWMutex
	session models.Session
	sfGroup singleflight.Group
}

var _ SessionProvider = (*SessionManager)(nil)

// NewSessionManager creates a session manager. No network call is made
// until the first GetSession.
func NewSessionManager(api StravaAPI, creds Credentials) *SessionManager {
	return &SessionManager{
		api:          api,
		clientID:     creds.ClientID,
		clientSecret: creds.ClientSecret,
		now:          time.Now,
		session:      models.Session{RefreshToken: creds.RefreshToken},
	}
}

// SetClock overrides the time source (useful for testing)
func (m *SessionManager) SetClock(now func() time.Time) {
	m.now = now
}

// GetSession returns a session whose access token is valid for at least
// RefreshBuffer, refreshing first if necessary. Refresh failures return
// ErrAuthentication and leave the held session untouched.
func (m *SessionManager) GetSession(ctx context.Context) (models.Session, error) {
	m.mu.RLock()
	current := m.session
	m.mu.RUnlock()

	if m.isValid(current) {
		return current, nil
	}

	// The exchange runs detached from this caller so that one cancelled
	// caller does not fail the refresh for everyone waiting on it.
	ch := m.sfGroup.DoChan("refresh", func() (interface{}, error) {
		return m.refresh(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return models.Session{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return models.Session{}, res.Err
		}
		return res.Val.(models.Session), nil
	}
}

// Status reports whether the held token is currently Valid and its expiry.
func (m *SessionManager) Status() (valid bool, expiresAt time.Time) {
	m.mu.RLock()
	current := m.session
	m.mu.RUnlock()
	return m.isValid(current), current.ExpiresAt
}

// CredentialsLoaded reports whether a refresh exchange can be attempted.
func (m *SessionManager) CredentialsLoaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Credentials{ClientID: m.clientID, ClientSecret: m.clientSecret, RefreshToken: m.session.RefreshToken}.Complete()
}

func (m *SessionManager) isValid(s models.Session) bool {
	if s.AccessToken == "" {
		return false
	}
	return m.now().Before(s.ExpiresAt.Add(-RefreshBuffer))
}

// refresh performs the refresh-token exchange. Only one runs at a time.
func (m *SessionManager) refresh(ctx context.Context) (models.Session, error) {
	m.mu.RLock()
	current := m.session
	m.mu.RUnlock()

	// Double-check: a flight that just finished may already have renewed it.
	if m.isValid(current) {
		return current, nil
	}

	creds := Credentials{ClientID: m.clientID, ClientSecret: m.clientSecret, RefreshToken: current.RefreshToken}
	if !creds.Complete() {
		slog.Error("Strava credentials not configured",
			"client_id_set", creds.ClientID != "",
			"client_secret_set", creds.ClientSecret != "",
			"refresh_token_set", creds.RefreshToken != "",
		)
		return models.Session{}, ErrAuthentication
	}

	slog.Info("Refreshing Strava access token")
	tokenResp, err := m.api.RefreshToken(ctx, creds.ClientID, creds.ClientSecret, creds.RefreshToken)
	if err != nil {
		slog.Error("Strava token refresh failed", "error", err)
		return models.Session{}, ErrAuthentication
	}

	next := models.Session{
		AccessToken:  tokenResp.AccessToken,
		RefreshToken: tokenResp.RefreshToken,
		ExpiresAt:    time.Unix(tokenResp.ExpiresAt, 0),
	}
	if next.RefreshToken == "" {
		next.RefreshToken = current.RefreshToken
	}

	m.mu.Lock()
	m.session = next
	m.mu.Unlock()

	slog.Info("Strava access token refreshed", "expires_at", next.ExpiresAt.UTC())
	return next, nil
}
