// ABOUTME: Normalized activity, lap, and search criteria models
// ABOUTME: Fixed-shape records produced from raw Strava API payloads

package models

// ActivitySummary is one entry of an activity listing or search result.
type ActivitySummary struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Type               string  `json:"type"`
	StartDate          *string `json:"start_date"`
	DistanceMeters     float64 `json:"distance_meters"`
	MovingTimeSeconds  int64   `json:"moving_time_seconds"`
	TotalElevationGain float64 `json:"total_elevation_gain"`
	AverageSpeed       float64 `json:"average_speed"`
	MaxSpeed           float64 `json:"max_speed"`
}

// ActivityDetail is the full view of a single activity.
type ActivityDetail struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	Type               string   `json:"type"`
	StartDate          *string  `json:"start_date"`
	Description        *string  `json:"description"`
	DistanceMeters     float64  `json:"distance_meters"`
	MovingTimeSeconds  int64    `json:"moving_time_seconds"`
	ElapsedTimeSeconds int64    `json:"elapsed_time_seconds"`
	TotalElevationGain float64  `json:"total_elevation_gain"`
	AverageSpeed       float64  `json:"average_speed"`
	MaxSpeed           float64  `json:"max_speed"`
	Calories           *float64 `json:"calories"`
	DeviceName         *string  `json:"device_name"`
}

// LapSummary is one lap of an activity.
type LapSummary struct {
	ID                 int64    `json:"id"`
	ActivityID         int64    `json:"activity_id"`
	LapIndex           int      `json:"lap_index"`
	Name               string   `json:"name"`
	ElapsedTimeSeconds int64    `json:"elapsed_time_seconds"`
	MovingTimeSeconds  int64    `json:"moving_time_seconds"`
	Distance           float64  `json:"distance"`
	AverageSpeed       float64  `json:"average_speed"`
	MaxSpeed           float64  `json:"max_speed"`
	AverageCadence     *float64 `json:"average_cadence"`
	AverageWatts       *float64 `json:"average_watts"`
	AverageHeartrate   *float64 `json:"average_heartrate"`
	MaxHeartrate       *float64 `json:"max_heartrate"`
	TotalElevationGain float64  `json:"total_elevation_gain"`
}

// SearchCriteria holds the optional filters of an activity search.
// Empty strings and nil bounds mean "no constraint". After and Before are
// ISO-8601 date or datetime strings.
type SearchCriteria struct {
	Query        string
	ActivityType string
	After        string
	Before       string
	MinDistance  *float64
	MaxDistance  *float64
	Limit        int
}
