// ABOUTME: Input validation for query engine parameters
// ABOUTME: Rejects invalid limits, ids, stream names and resolutions before any API call

package services

import (
	"strings"

	"github.com/markalston/strava-mcp/models"
)

// sanitizeForLog removes control characters from strings to prevent log injection
// when including user input in error messages
func sanitizeForLog(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1 // Remove control characters
		}
		return r
	}, s)
}

// ValidateLimit rejects non-positive fetch limits. Upper bounds are the tool
// surface's job.
func ValidateLimit(limit int) error {
	if limit <= 0 {
		return invalidArgument("limit must be a positive integer, got %d", limit)
	}
	return nil
}

// ValidateActivityID rejects ids that can never exist upstream.
func ValidateActivityID(id int64) error {
	if id <= 0 {
		return invalidArgument("activity id must be a positive integer, got %d", id)
	}
	return nil
}

// ValidateStreamTypes checks every requested stream name. Names are matched
// case-insensitively and returned in canonical lowercase form.
func ValidateStreamTypes(types []string) ([]models.StreamType, error) {
	if len(types) == 0 {
		return nil, nil
	}
	out := make([]models.StreamType, 0, len(types))
	seen := make(map[models.StreamType]bool, len(types))
	for _, raw := range types {
		t := models.StreamType(strings.ToLower(strings.TrimSpace(raw)))
		if !t.IsValid() {
			return nil, invalidArgument("unknown stream type %q", sanitizeForLog(raw))
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out, nil
}

// ValidateResolution checks a resolution string. Empty means all points.
func ValidateResolution(resolution string) (models.Resolution, error) {
	r := models.Resolution(strings.ToLower(strings.TrimSpace(resolution)))
	if !r.IsValid() {
		return "", invalidArgument("resolution must be low, medium, or high, got %q", sanitizeForLog(resolution))
	}
	return r, nil
}
