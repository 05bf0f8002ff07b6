// ABOUTME: Test doubles for handler tests
// ABOUTME: Canned Strava API responses and a controllable session provider

package handlers

import (
	"context"
	"time"

	"github.com/markalston/strava-mcp/models"
	"github.com/markalston/strava-mcp/services"
)

type stubStrava struct {
	activities []models.StravaActivity
	activity   *models.StravaActivity
	laps       []models.StravaLap
	streams    models.StravaStreamSet
	athlete    *models.StravaAthlete
	stats      *models.StravaActivityStats
	err        error

	lastLimit int
}

func (s *stubStrava) RefreshToken(ctx context.Context, clientID, clientSecret, refreshToken string) (*models.TokenResponse, error) {
	return &models.TokenResponse{AccessToken: "tok", ExpiresAt: time.Now().Add(time.Hour).Unix()}, nil
}

func (s *stubStrava) GetAthlete(ctx context.Context, accessToken string) (*models.StravaAthlete, error) {
	return s.athlete, s.err
}

func (s *stubStrava) GetAthleteStats(ctx context.Context, accessToken string, athleteID int64) (*models.StravaActivityStats, error) {
	return s.stats, s.err
}

func (s *stubStrava) GetActivities(ctx context.Context, accessToken string, opts services.ActivityListOptions) ([]models.StravaActivity, error) {
	s.lastLimit = opts.Limit
	if s.err != nil {
		return nil, s.err
	}
	if len(s.activities) > opts.Limit {
		return s.activities[:opts.Limit], nil
	}
	return s.activities, nil
}

func (s *stubStrava) GetActivity(ctx context.Context, accessToken string, activityID int64) (*models.StravaActivity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.activity, nil
}

func (s *stubStrava) GetActivityLaps(ctx context.Context, accessToken string, activityID int64) ([]models.StravaLap, error) {
	return s.laps, s.err
}

func (s *stubStrava) GetActivityStreams(ctx context.Context, accessToken string, activityID int64, types []models.StreamType, resolution models.Resolution) (models.StravaStreamSet, error) {
	return s.streams, s.err
}

type stubSessions struct {
	err       error
	valid     bool
	expiresAt time.Time
	loaded    bool
}

func (s *stubSessions) GetSession(ctx context.Context) (models.Session, error) {
	if s.err != nil {
		return models.Session{}, s.err
	}
	return models.Session{AccessToken: "tok", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (s *stubSessions) Status() (bool, time.Time) {
	return s.valid, s.expiresAt
}

func (s *stubSessions) CredentialsLoaded() bool {
	return s.loaded
}

func newTestHandler(api *stubStrava, maxLimit int) *Handler {
	return NewHandler(api, &stubSessions{loaded: true}, Options{Version: "test", Transport: "http", MaxActivityLimit: maxLimit})
}

func ptr[T any](v T) *T {
	return &v
}

func runs(n int) []models.StravaActivity {
	out := make([]models.StravaActivity, n)
	for i := range out {
		out[i] = models.StravaActivity{
			ID:       ptr(int64(i + 1)),
			Name:     ptr("Run"),
			Type:     ptr("Run"),
			Distance: ptr(float64(1000 * (i + 1))),
		}
	}
	return out
}
