// ABOUTME: Normalized athlete statistics returned by the stats tool
// ABOUTME: Fixed-shape totals with a human-readable summary block

package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ActivityTotals is a distance/achievement/elevation rollup.
// AchievementCount is only populated for run totals and ElevationGain only
// for ride totals.
type ActivityTotals struct {
	Distance         float64 `json:"distance"`
	AchievementCount int     `json:"achievement_count"`
	ElevationGain    float64 `json:"elevation_gain"`
}

// AthleteStats is a point-in-time snapshot of the authenticated athlete.
type AthleteStats struct {
	FirstName        string         `json:"first_name"`
	LastName         string         `json:"last_name"`
	RecentRunTotals  ActivityTotals `json:"recent_run_totals"`
	AllRunTotals     ActivityTotals `json:"all_run_totals"`
	RecentRideTotals ActivityTotals `json:"recent_ride_totals"`
}

// Format renders the stats as the plain-text block shown to agents.
func (s AthleteStats) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Athlete: %s %s\n", s.FirstName, s.LastName)
	b.WriteString("Recent Run Totals:\n")
	fmt.Fprintf(&b, "  Distance: %s\n", formatFloat(s.RecentRunTotals.Distance))
	fmt.Fprintf(&b, "  Achievement Count: %d\n", s.RecentRunTotals.AchievementCount)
	b.WriteString("All-Time Run Totals:\n")
	fmt.Fprintf(&b, "  Distance: %s\n", formatFloat(s.AllRunTotals.Distance))
	b.WriteString("Recent Ride Totals:\n")
	fmt.Fprintf(&b, "  Distance: %s\n", formatFloat(s.RecentRideTotals.Distance))
	fmt.Fprintf(&b, "  Elevation Gain: %s\n", formatFloat(s.RecentRideTotals.ElevationGain))
	return b.String()
}

// formatFloat always keeps one decimal so whole meters read as 1000.0.
func formatFloat(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%.1f", v)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
