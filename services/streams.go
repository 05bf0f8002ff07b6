// ABOUTME: Lap and raw stream lookups for a single activity
// ABOUTME: Validates stream names and resolution before calling Strava

package services

import (
	"context"

	"github.com/markalston/strava-mcp/models"
)

// StreamService reads per-activity laps and sensor streams.
type StreamService struct {
	api      StravaAPI
	sessions SessionProvider
}

// NewStreamService creates a stream service.
func NewStreamService(api StravaAPI, sessions SessionProvider) *StreamService {
	return &StreamService{api: api, sessions: sessions}
}

// GetActivityLaps returns the laps of an activity in upstream order.
func (s *StreamService) GetActivityLaps(ctx context.Context, activityID int64) ([]models.LapSummary, error) {
	if err := ValidateActivityID(activityID); err != nil {
		return nil, err
	}

	session, err := s.sessions.GetSession(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := s.api.GetActivityLaps(ctx, session.AccessToken, activityID)
	if err != nil {
		return nil, notFoundContext(err, "activity", activityID)
	}

	laps := make([]models.LapSummary, 0, len(raw))
	for _, l := range raw {
		laps = append(laps, NormalizeLap(l))
	}
	return laps, nil
}

// GetActivityStreams returns the requested streams. No types means every
// available stream; an empty resolution means all points. Resampling is done
// by Strava.
func (s *StreamService) GetActivityStreams(ctx context.Context, activityID int64, types []string, resolution string) (*models.StreamBundle, error) {
	if err := ValidateActivityID(activityID); err != nil {
		return nil, err
	}
	streamTypes, err := ValidateStreamTypes(types)
	if err != nil {
		return nil, err
	}
	res, err := ValidateResolution(resolution)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.GetSession(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := s.api.GetActivityStreams(ctx, session.AccessToken, activityID, streamTypes, res)
	if err != nil {
		return nil, notFoundContext(err, "activity", activityID)
	}

	bundle := NormalizeStreams(raw)
	return &bundle, nil
}
