// ABOUTME: Stream bundle model for raw activity sensor data
// ABOUTME: Enumerates the known stream names and resolutions

package models

// StreamType names one of the sensor streams Strava can return.
type StreamType string

const (
	StreamTime           StreamType = "time"
	StreamLatLng         StreamType = "latlng"
	StreamDistance       StreamType = "distance"
	StreamAltitude       StreamType = "altitude"
	StreamVelocitySmooth StreamType = "velocity_smooth"
	StreamHeartrate      StreamType = "heartrate"
	StreamCadence        StreamType = "cadence"
	StreamWatts          StreamType = "watts"
	StreamTemp           StreamType = "temp"
	StreamMoving         StreamType = "moving"
	StreamGradeSmooth    StreamType = "grade_smooth"
)

// AllStreamTypes lists every recognized stream in canonical order.
var AllStreamTypes = []StreamType{
	StreamTime,
	StreamLatLng,
	StreamDistance,
	StreamAltitude,
	StreamVelocitySmooth,
	StreamHeartrate,
	StreamCadence,
	StreamWatts,
	StreamTemp,
	StreamMoving,
	StreamGradeSmooth,
}

// IsValid reports whether t is a recognized stream name.
func (t StreamType) IsValid() bool {
	for _, known := range AllStreamTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Resolution controls upstream resampling. The empty value requests all points.
type Resolution string

const (
	ResolutionAll    Resolution = ""
	ResolutionLow    Resolution = "low"    // ~100 points
	ResolutionMedium Resolution = "medium" // ~1000 points
	ResolutionHigh   Resolution = "high"   // ~10000 points
)

// IsValid reports whether r is a recognized resolution.
func (r Resolution) IsValid() bool {
	switch r {
	case ResolutionAll, ResolutionLow, ResolutionMedium, ResolutionHigh:
		return true
	}
	return false
}

// StreamBundle holds the sample sequences returned for an activity.
// Streams that were not returned stay nil and are omitted from JSON
// entirely; downstream tooling relies on absent keys rather than nulls.
// Individual samples are nullable: a null sample means the sensor had no
// reading at that point and is kept as null, never as zero.
type StreamBundle struct {
	Time           []*float64  `json:"time,omitempty"`
	LatLng         [][]float64 `json:"latlng,omitempty"`
	Distance       []*float64  `json:"distance,omitempty"`
	Altitude       []*float64  `json:"altitude,omitempty"`
	VelocitySmooth []*float64  `json:"velocity_smooth,omitempty"`
	Heartrate      []*float64  `json:"heartrate,omitempty"`
	Cadence        []*float64  `json:"cadence,omitempty"`
	Watts          []*float64  `json:"watts,omitempty"`
	Temp           []*float64  `json:"temp,omitempty"`
	Moving         []*bool     `json:"moving,omitempty"`
	GradeSmooth    []*float64  `json:"grade_smooth,omitempty"`
}

// Present returns the names of the streams that carry data, in canonical order.
func (b StreamBundle) Present() []StreamType {
	set := map[StreamType]bool{
		StreamTime:           b.Time != nil,
		StreamLatLng:         b.LatLng != nil,
		StreamDistance:       b.Distance != nil,
		StreamAltitude:       b.Altitude != nil,
		StreamVelocitySmooth: b.VelocitySmooth != nil,
		StreamHeartrate:      b.Heartrate != nil,
		StreamCadence:        b.Cadence != nil,
		StreamWatts:          b.Watts != nil,
		StreamTemp:           b.Temp != nil,
		StreamMoving:         b.Moving != nil,
		StreamGradeSmooth:    b.GradeSmooth != nil,
	}
	var out []StreamType
	for _, t := range AllStreamTypes {
		if set[t] {
			out = append(out, t)
		}
	}
	return out
}
