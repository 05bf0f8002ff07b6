// ABOUTME: Athlete statistics lookup for the authenticated athlete
// ABOUTME: Resolves the athlete id, then fetches and normalizes the stats rollup

package services

import (
	"context"

	"github.com/markalston/strava-mcp/models"
)

// AthleteService reads athlete-level data.
type AthleteService struct {
	api      StravaAPI
	sessions SessionProvider
}

// NewAthleteService creates an athlete service.
func NewAthleteService(api StravaAPI, sessions SessionProvider) *AthleteService {
	return &AthleteService{api: api, sessions: sessions}
}

// GetAthleteStats returns names and run/ride totals for the authenticated athlete.
func (s *AthleteService) GetAthleteStats(ctx context.Context) (*models.AthleteStats, error) {
	session, err := s.sessions.GetSession(ctx)
	if err != nil {
		return nil, err
	}

	athlete, err := s.api.GetAthlete(ctx, session.AccessToken)
	if err != nil {
		return nil, err
	}

	stats, err := s.api.GetAthleteStats(ctx, session.AccessToken, int64Or(athlete.ID))
	if err != nil {
		return nil, err
	}

	result := NormalizeAthleteStats(athlete, stats)
	return &result, nil
}
