// ABOUTME: Shared test doubles for the services package
// ABOUTME: fakeStrava records calls and serves canned payloads; staticSessions skips refresh

package services

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/markalston/strava-mcp/models"
)

type fakeStrava struct {
	mu           sync.Mutex
	refreshCalls atomic.Int32
	apiCalls     atomic.Int32

	refreshFn func(ctx context.Context, clientID, clientSecret, refreshToken string) (*models.TokenResponse, error)

	athlete    *models.StravaAthlete
	stats      *models.StravaActivityStats
	activities []models.StravaActivity
	activity   *models.StravaActivity
	laps       []models.StravaLap
	streams    models.StravaStreamSet
	err        error

	lastToken      string
	lastListOpts   ActivityListOptions
	lastStatsID    int64
	lastStreamReq  []models.StreamType
	lastResolution models.Resolution
}

var _ StravaAPI = (*fakeStrava)(nil)

func (f *fakeStrava) RefreshToken(ctx context.Context, clientID, clientSecret, refreshToken string) (*models.TokenResponse, error) {
	f.refreshCalls.Add(1)
	if f.refreshFn != nil {
		return f.refreshFn(ctx, clientID, clientSecret, refreshToken)
	}
	return &models.TokenResponse{AccessToken: "access", RefreshToken: "refresh", ExpiresAt: 0}, nil
}

func (f *fakeStrava) record(token string) {
	f.apiCalls.Add(1)
	f.mu.Lock()
	f.lastToken = token
	f.mu.Unlock()
}

func (f *fakeStrava) GetAthlete(ctx context.Context, accessToken string) (*models.StravaAthlete, error) {
	f.record(accessToken)
	if f.err != nil {
		return nil, f.err
	}
	return f.athlete, nil
}

func (f *fakeStrava) GetAthleteStats(ctx context.Context, accessToken string, athleteID int64) (*models.StravaActivityStats, error) {
	f.record(accessToken)
	f.lastStatsID = athleteID
	if f.err != nil {
		return nil, f.err
	}
	return f.stats, nil
}

func (f *fakeStrava) GetActivities(ctx context.Context, accessToken string, opts ActivityListOptions) ([]models.StravaActivity, error) {
	f.record(accessToken)
	f.lastListOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	if len(f.activities) > opts.Limit {
		return f.activities[:opts.Limit], nil
	}
	return f.activities, nil
}

func (f *fakeStrava) GetActivity(ctx context.Context, accessToken string, activityID int64) (*models.StravaActivity, error) {
	f.record(accessToken)
	if f.err != nil {
		return nil, f.err
	}
	return f.activity, nil
}

func (f *fakeStrava) GetActivityLaps(ctx context.Context, accessToken string, activityID int64) ([]models.StravaLap, error) {
	f.record(accessToken)
	if f.err != nil {
		return nil, f.err
	}
	return f.laps, nil
}

func (f *fakeStrava) GetActivityStreams(ctx context.Context, accessToken string, activityID int64, types []models.StreamType, resolution models.Resolution) (models.StravaStreamSet, error) {
	f.record(accessToken)
	f.lastStreamReq = types
	f.lastResolution = resolution
	if f.err != nil {
		return nil, f.err
	}
	return f.streams, nil
}

// staticSessions always returns the same session.
type staticSessions struct {
	session models.Session
	err     error
}

func (s staticSessions) GetSession(ctx context.Context) (models.Session, error) {
	return s.session, s.err
}

func validSessions() staticSessions {
	return staticSessions{session: models.Session{AccessToken: "test-token"}}
}

func ptr[T any](v T) *T {
	return &v
}

func activity(id int64, name, activityType string, distance float64) models.StravaActivity {
	return models.StravaActivity{
		ID:       ptr(id),
		Name:     ptr(name),
		Type:     ptr(activityType),
		Distance: ptr(distance),
	}
}
