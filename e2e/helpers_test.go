// ABOUTME: Test helpers for e2e tests
// ABOUTME: Provides a fake Strava API and a fully wired HTTP transport server

package e2e

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/markalston/strava-mcp/handlers"
	"github.com/markalston/strava-mcp/middleware"
	"github.com/markalston/strava-mcp/services"
)

const testAuthToken = "e2e-token"

// fakeStrava serves the token endpoint and a handful of API resources.
type fakeStrava struct {
	*httptest.Server
	tokenCalls atomic.Int32
}

func newFakeStrava(t *testing.T) *fakeStrava {
	t.Helper()
	f := &fakeStrava{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.URL.Path == "/oauth/token" {
			f.tokenCalls.Add(1)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token":  "access-e2e",
				"refresh_token": "refresh-e2e",
				"expires_at":    time.Now().Add(6 * time.Hour).Unix(),
			})
			return
		}
		if r.Header.Get("Authorization") != "Bearer access-e2e" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"message":"Authorization Error"}`)
			return
		}

		switch r.URL.Path {
		case "/api/v3/athlete/activities":
			fmt.Fprint(w, `[
				{"id": 21, "name": "Tempo Run", "type": "Run", "distance": 10000, "moving_time": 2700, "start_date": "2024-06-01T07:00:00Z"},
				{"id": 22, "name": "Easy Spin", "type": "Ride", "distance": 30000, "moving_time": 3600, "start_date": "2024-06-02T07:00:00Z"},
				{"id": 23, "name": "Long Run", "type": "Run", "distance": 21000, "moving_time": 6300, "start_date": "2024-06-03T07:00:00Z"}
			]`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Record Not Found"}`)
		}
	}))
	t.Cleanup(f.Close)
	return f
}

// newServer wires the real client, session manager and HTTP transport
// against the fake Strava API.
func newServer(t *testing.T, strava *fakeStrava, opts handlers.HTTPOptions) *httptest.Server {
	t.Helper()
	client := services.NewStravaClient(strava.URL+"/api/v3", strava.URL+"/oauth/token", 5*time.Second, "")
	sessions := services.NewSessionManager(client, services.Credentials{
		ClientID:     "4242",
		ClientSecret: "secret",
		RefreshToken: "refresh-initial",
	})
	h := handlers.NewHandler(client, sessions, handlers.Options{
		Version:          "e2e",
		Transport:        "http",
		MaxActivityLimit: 200,
	})

	srv := httptest.NewServer(h.HTTPHandler(opts))
	t.Cleanup(srv.Close)
	return srv
}

func defaultOptions() handlers.HTTPOptions {
	return handlers.HTTPOptions{
		AuthToken:          testAuthToken,
		CORSAllowedOrigins: []string{"https://agent.example.com"},
		RateLimiter:        middleware.NewRateLimiter(1000, time.Minute),
	}
}

// bearerRoundTripper adds a static Authorization header to every request.
type bearerRoundTripper struct {
	base  http.RoundTripper
	token string
}

func (b *bearerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+b.token)
	return b.base.RoundTrip(req)
}
