// ABOUTME: Tests for the Strava HTTP client against an httptest server
// ABOUTME: Verifies token exchange, paging, stream query params and status mapping

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/markalston/strava-mcp/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *StravaClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewStravaClient(server.URL+"/api/v3", server.URL+"/oauth/token", 5*time.Second, "")
}

func TestStravaClient_SetHTTPClient(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": 77, "firstname": "Ada"}`)
	}))
	t.Cleanup(server.Close)

	client := NewStravaClient(server.URL+"/api/v3", server.URL+"/oauth/token", 5*time.Second, "")

	// The default client does not trust the test server's certificate.
	if _, err := client.GetAthlete(context.Background(), "token"); err == nil {
		t.Fatal("expected TLS verification failure with the default client")
	}

	client.SetHTTPClient(server.Client())
	athlete, err := client.GetAthlete(context.Background(), "token")
	if err != nil {
		t.Fatalf("GetAthlete with injected client: %v", err)
	}
	if athlete.ID == nil || *athlete.ID != 77 {
		t.Errorf("athlete id = %v, want 77", athlete.ID)
	}
}

func TestStravaClient_RefreshToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oauth/token" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		want := map[string]string{
			"client_id":     "abc-app",
			"client_secret": "secret",
			"grant_type":    "refresh_token",
			"refresh_token": "rt",
		}
		for k, v := range want {
			if got := r.PostForm.Get(k); got != v {
				t.Errorf("form %s = %q, want %q", k, got, v)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"token_type":    "Bearer",
			"access_token":  "new-access",
			"refresh_token": "new-refresh",
			"expires_at":    1700021600,
			"expires_in":    21600,
		})
	})

	resp, err := client.RefreshToken(context.Background(), "abc-app", "secret", "rt")
	if err != nil {
		t.Fatalf("RefreshToken failed: %v", err)
	}
	if resp.AccessToken != "new-access" || resp.RefreshToken != "new-refresh" {
		t.Errorf("unexpected tokens: %+v", resp)
	}
	if resp.ExpiresAt != 1700021600 {
		t.Errorf("ExpiresAt = %d, want 1700021600", resp.ExpiresAt)
	}
}

func TestStravaClient_RefreshToken_ExpiresInFallback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "a",
			"expires_in":   3600,
		})
	})

	before := time.Now().Unix()
	resp, err := client.RefreshToken(context.Background(), "1", "s", "r")
	if err != nil {
		t.Fatalf("RefreshToken failed: %v", err)
	}
	if resp.ExpiresAt < before+3600 || resp.ExpiresAt > time.Now().Unix()+3600 {
		t.Errorf("ExpiresAt = %d, want about now+3600", resp.ExpiresAt)
	}
}

func TestStravaClient_RefreshToken_Rejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Bad Request","errors":[{"resource":"RefreshToken","field":"refresh_token","code":"invalid"}]}`))
	})

	_, err := client.RefreshToken(context.Background(), "1", "s", "r")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "Bad Request" {
		t.Errorf("unexpected APIError: %+v", apiErr)
	}
	if !errors.Is(err, ErrUpstream) {
		t.Error("token rejection should unwrap to ErrUpstream")
	}
}

func TestStravaClient_GetActivities_Paging(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))
		perPage, _ := strconv.Atoi(q.Get("per_page"))
		if perPage != maxPerPage {
			t.Errorf("per_page = %d, want %d", perPage, maxPerPage)
		}
		if q.Get("after") != "1704067200" {
			t.Errorf("after = %q, want 1704067200", q.Get("after"))
		}
		if q.Has("before") {
			t.Error("before should not be sent")
		}

		batch := make([]map[string]interface{}, perPage)
		for i := range batch {
			batch[i] = map[string]interface{}{"id": (page-1)*perPage + i + 1}
		}
		json.NewEncoder(w).Encode(batch)
	})

	after := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	acts, err := client.GetActivities(context.Background(), "tok", ActivityListOptions{After: &after, Limit: 250})
	if err != nil {
		t.Fatalf("GetActivities failed: %v", err)
	}
	if len(acts) != 250 {
		t.Fatalf("len = %d, want 250", len(acts))
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
	if *acts[249].ID != 250 {
		t.Errorf("last id = %d, want 250", *acts[249].ID)
	}
}

func TestStravaClient_GetActivities_ShortPageStops(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`[{"id":1},{"id":2}]`))
	})

	acts, err := client.GetActivities(context.Background(), "tok", ActivityListOptions{Limit: 5})
	if err != nil {
		t.Fatalf("GetActivities failed: %v", err)
	}
	if len(acts) != 2 || calls.Load() != 1 {
		t.Errorf("len = %d calls = %d, want 2 and 1", len(acts), calls.Load())
	}
}

func TestStravaClient_GetActivityStreams_Query(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/activities/42/streams" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("keys") != "heartrate,time" {
			t.Errorf("keys = %q", q.Get("keys"))
		}
		if q.Get("key_by_type") != "true" {
			t.Errorf("key_by_type = %q", q.Get("key_by_type"))
		}
		if q.Get("resolution") != "low" {
			t.Errorf("resolution = %q", q.Get("resolution"))
		}
		w.Write([]byte(`{"heartrate":{"data":[120,130],"series_type":"time","original_size":2,"resolution":"low"},"time":{"data":[0,1]}}`))
	})

	set, err := client.GetActivityStreams(context.Background(), "tok", 42,
		[]models.StreamType{models.StreamHeartrate, models.StreamTime}, models.ResolutionLow)
	if err != nil {
		t.Fatalf("GetActivityStreams failed: %v", err)
	}
	if len(set) != 2 || set["heartrate"].OriginalSize != 2 {
		t.Errorf("unexpected stream set: %+v", set)
	}
}

func TestStravaClient_GetActivityStreams_DefaultsToAllTypes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		want := "time,latlng,distance,altitude,velocity_smooth,heartrate,cadence,watts,temp,moving,grade_smooth"
		if got := r.URL.Query().Get("keys"); got != want {
			t.Errorf("keys = %q, want %q", got, want)
		}
		if r.URL.Query().Has("resolution") {
			t.Error("resolution should be omitted for full resolution")
		}
		w.Write([]byte(`{}`))
	})

	if _, err := client.GetActivityStreams(context.Background(), "tok", 1, nil, models.ResolutionAll); err != nil {
		t.Fatalf("GetActivityStreams failed: %v", err)
	}
}

func TestStravaClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		call         func(c *StravaClient) error
		wantNotFound bool
	}{
		{"activity 404", http.StatusNotFound, func(c *StravaClient) error {
			_, err := c.GetActivity(context.Background(), "tok", 7)
			return err
		}, true},
		{"activity 403", http.StatusForbidden, func(c *StravaClient) error {
			_, err := c.GetActivity(context.Background(), "tok", 7)
			return err
		}, true},
		{"laps 404", http.StatusNotFound, func(c *StravaClient) error {
			_, err := c.GetActivityLaps(context.Background(), "tok", 7)
			return err
		}, true},
		{"activity 500", http.StatusInternalServerError, func(c *StravaClient) error {
			_, err := c.GetActivity(context.Background(), "tok", 7)
			return err
		}, false},
		{"athlete 404", http.StatusNotFound, func(c *StravaClient) error {
			_, err := c.GetAthlete(context.Background(), "tok")
			return err
		}, false},
		{"list 429", http.StatusTooManyRequests, func(c *StravaClient) error {
			_, err := c.GetActivities(context.Background(), "tok", ActivityListOptions{Limit: 1})
			return err
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{"message":"Record Not Found"}`)
			})

			err := tt.call(client)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, ErrNotFound); got != tt.wantNotFound {
				t.Errorf("errors.Is(ErrNotFound) = %v, want %v (err=%v)", got, tt.wantNotFound, err)
			}
			if !tt.wantNotFound && !errors.Is(err, ErrUpstream) {
				t.Errorf("err = %v, want ErrUpstream", err)
			}
		})
	}
}

func TestStravaClient_RateLimited(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.GetAthlete(context.Background(), "tok")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || !apiErr.RateLimited() {
		t.Errorf("err = %v, want rate limited APIError", err)
	}
}

func TestStravaClient_ContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.GetAthlete(ctx, "tok")
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("err = %v, want ErrUpstream", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want context.DeadlineExceeded in chain", err)
	}
}

func TestCreateSOCKS5DialContextFunc_InvalidConfig(t *testing.T) {
	tests := []struct {
		name     string
		allProxy string
	}{
		{"missing private key param", "ssh+socks5://user@jumpbox:22"},
		{"unreadable key file", "ssh+socks5://user@jumpbox:22?private-key=/nonexistent/key"},
		{"bad url", "ssh+socks5://%zz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if fn := createSOCKS5DialContextFunc(tt.allProxy); fn != nil {
				t.Error("expected nil dial func")
			}
		})
	}
}
