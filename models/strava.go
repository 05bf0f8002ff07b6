// ABOUTME: Raw Strava v3 API payloads as decoded from the wire
// ABOUTME: Pointer fields distinguish absent/null values from zero values

package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// StravaAthlete is the subset of GET /athlete we consume.
type StravaAthlete struct {
	ID        *int64  `json:"id"`
	FirstName *string `json:"firstname"`
	LastName  *string `json:"lastname"`
}

// StravaActivityTotal is one rollup inside GET /athletes/{id}/stats.
type StravaActivityTotal struct {
	Count            *int      `json:"count"`
	Distance         *float64  `json:"distance"`
	MovingTime       *Duration `json:"moving_time"`
	ElapsedTime      *Duration `json:"elapsed_time"`
	ElevationGain    *float64  `json:"elevation_gain"`
	AchievementCount *int      `json:"achievement_count"`
}

// StravaActivityStats is the GET /athletes/{id}/stats payload.
type StravaActivityStats struct {
	RecentRunTotals  *StravaActivityTotal `json:"recent_run_totals"`
	AllRunTotals     *StravaActivityTotal `json:"all_run_totals"`
	RecentRideTotals *StravaActivityTotal `json:"recent_ride_totals"`
	AllRideTotals    *StravaActivityTotal `json:"all_ride_totals"`
}

// StravaActivity covers both the summary (list) and detailed representations.
// StartDate stays a string so an unexpected format cannot fail the decode.
type StravaActivity struct {
	ID                 *int64    `json:"id"`
	Name               *string   `json:"name"`
	Type               *string   `json:"type"`
	SportType          *string   `json:"sport_type"`
	StartDate          *string   `json:"start_date"`
	Description        *string   `json:"description"`
	Distance           *float64  `json:"distance"`
	MovingTime         *Duration `json:"moving_time"`
	ElapsedTime        *Duration `json:"elapsed_time"`
	TotalElevationGain *float64  `json:"total_elevation_gain"`
	AverageSpeed       *float64  `json:"average_speed"`
	MaxSpeed           *float64  `json:"max_speed"`
	Calories           *float64  `json:"calories"`
	DeviceName         *string   `json:"device_name"`
}

// StravaMetaActivity is the nested activity reference on laps.
type StravaMetaActivity struct {
	ID *int64 `json:"id"`
}

// StravaLap is one entry of GET /activities/{id}/laps.
type StravaLap struct {
	ID                 *int64              `json:"id"`
	Activity           *StravaMetaActivity `json:"activity"`
	LapIndex           *int                `json:"lap_index"`
	Name               *string             `json:"name"`
	ElapsedTime        *Duration           `json:"elapsed_time"`
	MovingTime         *Duration           `json:"moving_time"`
	Distance           *float64            `json:"distance"`
	AverageSpeed       *float64            `json:"average_speed"`
	MaxSpeed           *float64            `json:"max_speed"`
	AverageCadence     *float64            `json:"average_cadence"`
	AverageWatts       *float64            `json:"average_watts"`
	AverageHeartrate   *float64            `json:"average_heartrate"`
	MaxHeartrate       *float64            `json:"max_heartrate"`
	TotalElevationGain *float64            `json:"total_elevation_gain"`
}

// StravaStream is one stream of GET /activities/{id}/streams?key_by_type=true.
// Data is kept raw; its element type depends on the stream name.
type StravaStream struct {
	Data         json.RawMessage `json:"data"`
	SeriesType   string          `json:"series_type"`
	OriginalSize int             `json:"original_size"`
	Resolution   string          `json:"resolution"`
}

// StravaStreamSet maps stream names to streams.
type StravaStreamSet map[string]StravaStream

// StravaFault is the error body Strava returns with non-2xx responses.
type StravaFault struct {
	Message string `json:"message"`
	Errors  []struct {
		Resource string `json:"resource"`
		Field    string `json:"field"`
		Code     string `json:"code"`
	} `json:"errors"`
}

// Duration is an elapsed time in whole seconds.
//
// Upstream durations normally arrive as integer seconds but have been seen as
// floats, numeric strings, "HH:MM:SS" clocks and Go duration strings.
// Unmarshaling never fails: anything unrecognized decodes to zero.
type Duration int64

// Seconds returns the duration as integer seconds.
func (d *Duration) Seconds() int64 {
	if d == nil {
		return 0
	}
	return int64(*d)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*d = 0
			return nil
		}
		*d = Duration(parseDurationString(s))
		return nil
	}

	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil || f < 0 {
		*d = 0
		return nil
	}
	*d = Duration(int64(f))
	return nil
}

// parseDurationString accepts "1800", "1800.5", "00:30:00", "30:00" and "30m".
func parseDurationString(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f < 0 {
			return 0
		}
		return int64(f)
	}
	if strings.Contains(s, ":") {
		var total int64
		for _, part := range strings.Split(s, ":") {
			n, err := strconv.ParseFloat(part, 64)
			if err != nil || n < 0 {
				return 0
			}
			total = total*60 + int64(n)
		}
		return total
	}
	if dur, err := time.ParseDuration(s); err == nil && dur > 0 {
		return int64(dur / time.Second)
	}
	return 0
}
