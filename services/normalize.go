// ABOUTME: Total mapping functions from raw Strava payloads to fixed-shape records
// ABOUTME: Missing or null fields take schema defaults; nothing here returns an error

package services

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/markalston/strava-mcp/models"
)

// NormalizeAthleteStats builds AthleteStats from the athlete and stats payloads.
// Either argument may be nil.
func NormalizeAthleteStats(athlete *models.StravaAthlete, stats *models.StravaActivityStats) models.AthleteStats {
	var out models.AthleteStats
	if athlete != nil {
		out.FirstName = stringOr(athlete.FirstName)
		out.LastName = stringOr(athlete.LastName)
	}
	if stats == nil {
		return out
	}

	if t := stats.RecentRunTotals; t != nil {
		out.RecentRunTotals = models.ActivityTotals{
			Distance:         nonNegative(floatOr(t.Distance)),
			AchievementCount: max(intOr(t.AchievementCount), 0),
		}
	}
	if t := stats.AllRunTotals; t != nil {
		out.AllRunTotals = models.ActivityTotals{
			Distance: nonNegative(floatOr(t.Distance)),
		}
	}
	if t := stats.RecentRideTotals; t != nil {
		out.RecentRideTotals = models.ActivityTotals{
			Distance:      nonNegative(floatOr(t.Distance)),
			ElevationGain: nonNegative(floatOr(t.ElevationGain)),
		}
	}
	return out
}

// NormalizeActivitySummary maps a listed activity.
func NormalizeActivitySummary(a models.StravaActivity) models.ActivitySummary {
	return models.ActivitySummary{
		ID:                 int64Or(a.ID),
		Name:               stringOr(a.Name),
		Type:               activityType(a),
		StartDate:          isoDate(a.StartDate),
		DistanceMeters:     nonNegative(floatOr(a.Distance)),
		MovingTimeSeconds:  a.MovingTime.Seconds(),
		TotalElevationGain: nonNegative(floatOr(a.TotalElevationGain)),
		AverageSpeed:       nonNegative(floatOr(a.AverageSpeed)),
		MaxSpeed:           nonNegative(floatOr(a.MaxSpeed)),
	}
}

// NormalizeActivityDetail maps a detailed activity. Description, calories
// and device name stay nil when Strava omits them.
func NormalizeActivityDetail(a models.StravaActivity) models.ActivityDetail {
	return models.ActivityDetail{
		ID:                 int64Or(a.ID),
		Name:               stringOr(a.Name),
		Type:               activityType(a),
		StartDate:          isoDate(a.StartDate),
		Description:        a.Description,
		DistanceMeters:     nonNegative(floatOr(a.Distance)),
		MovingTimeSeconds:  a.MovingTime.Seconds(),
		ElapsedTimeSeconds: a.ElapsedTime.Seconds(),
		TotalElevationGain: nonNegative(floatOr(a.TotalElevationGain)),
		AverageSpeed:       nonNegative(floatOr(a.AverageSpeed)),
		MaxSpeed:           nonNegative(floatOr(a.MaxSpeed)),
		Calories:           a.Calories,
		DeviceName:         a.DeviceName,
	}
}

// NormalizeLap maps one lap.
func NormalizeLap(l models.StravaLap) models.LapSummary {
	var activityID int64
	if l.Activity != nil {
		activityID = int64Or(l.Activity.ID)
	}
	return models.LapSummary{
		ID:                 int64Or(l.ID),
		ActivityID:         activityID,
		LapIndex:           intOr(l.LapIndex),
		Name:               stringOr(l.Name),
		ElapsedTimeSeconds: l.ElapsedTime.Seconds(),
		MovingTimeSeconds:  l.MovingTime.Seconds(),
		Distance:           nonNegative(floatOr(l.Distance)),
		AverageSpeed:       nonNegative(floatOr(l.AverageSpeed)),
		MaxSpeed:           nonNegative(floatOr(l.MaxSpeed)),
		AverageCadence:     l.AverageCadence,
		AverageWatts:       l.AverageWatts,
		AverageHeartrate:   l.AverageHeartrate,
		MaxHeartrate:       l.MaxHeartrate,
		TotalElevationGain: nonNegative(floatOr(l.TotalElevationGain)),
	}
}

// NormalizeStreams extracts each known stream present in the set. Samples
// keep their upstream values, with null samples left as null. Streams that
// are absent, null, or not a sample array at all stay unset.
func NormalizeStreams(set models.StravaStreamSet) models.StreamBundle {
	var b models.StreamBundle
	decodeStream(set, models.StreamTime, &b.Time)
	decodeStream(set, models.StreamLatLng, &b.LatLng)
	decodeStream(set, models.StreamDistance, &b.Distance)
	decodeStream(set, models.StreamAltitude, &b.Altitude)
	decodeStream(set, models.StreamVelocitySmooth, &b.VelocitySmooth)
	decodeStream(set, models.StreamHeartrate, &b.Heartrate)
	decodeStream(set, models.StreamCadence, &b.Cadence)
	decodeStream(set, models.StreamWatts, &b.Watts)
	decodeStream(set, models.StreamTemp, &b.Temp)
	decodeStream(set, models.StreamMoving, &b.Moving)
	decodeStream(set, models.StreamGradeSmooth, &b.GradeSmooth)
	return b
}

func decodeStream[T any](set models.StravaStreamSet, name models.StreamType, dst *[]T) {
	stream, ok := set[string(name)]
	if !ok || len(stream.Data) == 0 || string(stream.Data) == "null" {
		return
	}
	var samples []T
	if err := json.Unmarshal(stream.Data, &samples); err != nil {
		slog.Warn("Dropping undecodable stream", "stream", name, "error", err)
		return
	}
	if samples == nil {
		samples = []T{}
	}
	*dst = samples
}

// activityType prefers the legacy type and falls back to sport_type.
func activityType(a models.StravaActivity) string {
	if a.Type != nil && *a.Type != "" {
		return *a.Type
	}
	return stringOr(a.SportType)
}

// isoDate re-renders a start date as RFC 3339 in UTC. Unparseable values
// pass through unchanged rather than being dropped.
func isoDate(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, *s); err == nil {
		formatted := t.UTC().Format(time.RFC3339)
		return &formatted
	}
	raw := *s
	return &raw
}

func stringOr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func floatOr(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func intOr(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func int64Or(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
