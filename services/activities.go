// ABOUTME: Activity query engine: recent listing, filtered search, detail lookup
// ABOUTME: Search is a bounded fetch followed by an ordered client-side predicate chain

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/markalston/strava-mcp/models"
)

// DateParseIgnored records a search date bound that could not be parsed and
// was therefore dropped. The search still runs, bounded only by its limit.
type DateParseIgnored struct {
	Field string `json:"field"` // "after" or "before"
	Value string `json:"value"`
	Err   error  `json:"-"`
}

func (d DateParseIgnored) String() string {
	return fmt.Sprintf("ignored malformed %q date %q; no %s bound applied", d.Field, d.Value, d.Field)
}

// SearchResult is the outcome of SearchActivities.
type SearchResult struct {
	Activities []models.ActivitySummary
	Ignored    []DateParseIgnored
}

// ActivityService lists, searches and fetches activities.
type ActivityService struct {
	api      StravaAPI
	sessions SessionProvider
}

// NewActivityService creates an activity service sharing the given session provider.
func NewActivityService(api StravaAPI, sessions SessionProvider) *ActivityService {
	return &ActivityService{api: api, sessions: sessions}
}

// ListActivities returns the limit most recent activities in upstream order.
func (s *ActivityService) ListActivities(ctx context.Context, limit int) ([]models.ActivitySummary, error) {
	if err := ValidateLimit(limit); err != nil {
		return nil, err
	}

	session, err := s.sessions.GetSession(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := s.api.GetActivities(ctx, session.AccessToken, ActivityListOptions{Limit: limit})
	if err != nil {
		return nil, err
	}

	result := make([]models.ActivitySummary, 0, len(raw))
	for _, a := range raw {
		result = append(result, NormalizeActivitySummary(a))
	}
	return result, nil
}

// SearchActivities fetches up to criteria.Limit activities inside the
// optional date window and keeps those passing every set predicate.
//
// The limit bounds the candidate pool, not the result: no extra pages are
// fetched to make up for filtered-out activities.
func (s *ActivityService) SearchActivities(ctx context.Context, criteria models.SearchCriteria) (*SearchResult, error) {
	if err := ValidateLimit(criteria.Limit); err != nil {
		return nil, err
	}

	after, before, ignored := ParseSearchWindow(criteria.After, criteria.Before)
	for _, ig := range ignored {
		slog.Warn("Invalid search date ignored", "field", ig.Field, "value", sanitizeForLog(ig.Value), "error", ig.Err)
	}

	session, err := s.sessions.GetSession(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := s.api.GetActivities(ctx, session.AccessToken, ActivityListOptions{
		Before: before,
		After:  after,
		Limit:  criteria.Limit,
	})
	if err != nil {
		return nil, err
	}

	predicates := buildPredicates(criteria)
	result := &SearchResult{
		Activities: make([]models.ActivitySummary, 0, len(raw)),
		Ignored:    ignored,
	}
	for _, a := range raw {
		summary := NormalizeActivitySummary(a)
		if matchesAll(summary, predicates) {
			result.Activities = append(result.Activities, summary)
		}
	}

	slog.Debug("Activity search complete", "fetched", len(raw), "matched", len(result.Activities))
	return result, nil
}

// GetActivityDetails returns one activity in full.
func (s *ActivityService) GetActivityDetails(ctx context.Context, activityID int64) (*models.ActivityDetail, error) {
	if err := ValidateActivityID(activityID); err != nil {
		return nil, err
	}

	session, err := s.sessions.GetSession(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := s.api.GetActivity(ctx, session.AccessToken, activityID)
	if err != nil {
		return nil, notFoundContext(err, "activity", activityID)
	}

	detail := NormalizeActivityDetail(*raw)
	return &detail, nil
}

// activityPredicate reports whether an activity survives one filter.
type activityPredicate func(models.ActivitySummary) bool

// buildPredicates returns the set filters in evaluation order: name, type,
// minimum distance, maximum distance. Unset filters are left out.
func buildPredicates(c models.SearchCriteria) []activityPredicate {
	var predicates []activityPredicate

	if c.Query != "" {
		query := strings.ToLower(c.Query)
		predicates = append(predicates, func(a models.ActivitySummary) bool {
			return strings.Contains(strings.ToLower(a.Name), query)
		})
	}
	if c.ActivityType != "" {
		activityType := strings.ToLower(c.ActivityType)
		predicates = append(predicates, func(a models.ActivitySummary) bool {
			return strings.Contains(strings.ToLower(a.Type), activityType)
		})
	}
	if c.MinDistance != nil {
		minDistance := *c.MinDistance
		predicates = append(predicates, func(a models.ActivitySummary) bool {
			return a.DistanceMeters >= minDistance
		})
	}
	if c.MaxDistance != nil {
		maxDistance := *c.MaxDistance
		predicates = append(predicates, func(a models.ActivitySummary) bool {
			return a.DistanceMeters <= maxDistance
		})
	}
	return predicates
}

// matchesAll short-circuits on the first failing predicate.
func matchesAll(a models.ActivitySummary, predicates []activityPredicate) bool {
	for _, p := range predicates {
		if !p(a) {
			return false
		}
	}
	return true
}

// isoLayouts are the accepted date and datetime forms, tried in order.
// Inputs without an offset are taken as UTC.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseISOTime parses an ISO-8601 date or datetime.
func ParseISOTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var lastErr error
	for _, layout := range isoLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// ParseSearchWindow converts the after/before strings into instants.
// Empty strings mean no bound; malformed strings also mean no bound and are
// reported as DateParseIgnored.
func ParseSearchWindow(after, before string) (afterT, beforeT *time.Time, ignored []DateParseIgnored) {
	parse := func(field, value string) *time.Time {
		if strings.TrimSpace(value) == "" {
			return nil
		}
		t, err := ParseISOTime(value)
		if err != nil {
			ignored = append(ignored, DateParseIgnored{Field: field, Value: value, Err: err})
			return nil
		}
		return &t
	}
	afterT = parse("after", after)
	beforeT = parse("before", before)
	return afterT, beforeT, ignored
}

// notFoundContext adds the entity id to not-found errors.
func notFoundContext(err error, entity string, id int64) error {
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%s %d not found: %w", entity, id, err)
	}
	return err
}
