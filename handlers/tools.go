// ABOUTME: MCP tool definitions for athlete stats, activities, laps and streams
// ABOUTME: Each tool validates its arguments, calls a service and returns structured content

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/markalston/strava-mcp/models"
	"github.com/markalston/strava-mcp/services"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	ToolGetAthleteStats    = "get_athlete_stats"
	ToolListActivities     = "list_activities"
	ToolSearchActivities   = "search_activities"
	ToolGetActivityDetails = "get_activity_details"
	ToolGetActivityLaps    = "get_activity_laps"
	ToolGetActivityStreams = "get_activity_streams"
)

const (
	defaultListLimit   = 5
	defaultSearchLimit = 50
)

// ToolNames lists every registered tool in registration order.
var ToolNames = []string{
	ToolGetAthleteStats,
	ToolListActivities,
	ToolSearchActivities,
	ToolGetActivityDetails,
	ToolGetActivityLaps,
	ToolGetActivityStreams,
}

// AthleteStatsInput is empty; the tool always reports the authenticated athlete.
type AthleteStatsInput struct{}

// ListActivitiesInput holds the list_activities arguments.
type ListActivitiesInput struct {
	Limit *int `json:"limit,omitempty" jsonschema:"maximum number of recent activities to return (default 5)"`
}

// ListActivitiesOutput wraps the recent activities, newest first.
type ListActivitiesOutput struct {
	Activities []models.ActivitySummary `json:"activities"`
}

// SearchActivitiesInput holds the search_activities filters. Unset filters match everything.
type SearchActivitiesInput struct {
	Query        string   `json:"query,omitempty" jsonschema:"case-insensitive substring of the activity name"`
	ActivityType string   `json:"activity_type,omitempty" jsonschema:"case-insensitive substring of the activity type, e.g. Run or Ride"`
	After        string   `json:"after,omitempty" jsonschema:"ISO-8601 date or datetime; only activities after this instant"`
	Before       string   `json:"before,omitempty" jsonschema:"ISO-8601 date or datetime; only activities before this instant"`
	MinDistance  *float64 `json:"min_distance,omitempty" jsonschema:"minimum distance in meters (inclusive)"`
	MaxDistance  *float64 `json:"max_distance,omitempty" jsonschema:"maximum distance in meters (inclusive)"`
	Limit        *int     `json:"limit,omitempty" jsonschema:"maximum number of activities to fetch before filtering (default 50)"`
}

// SearchActivitiesOutput carries the matches plus any ignored date bounds.
type SearchActivitiesOutput struct {
	Activities []models.ActivitySummary `json:"activities"`
	Warnings   []string                 `json:"warnings,omitempty"`
}

// ActivityInput identifies a single activity.
type ActivityInput struct {
	ActivityID int64 `json:"activity_id" jsonschema:"Strava activity id"`
}

// LapsOutput wraps the laps of one activity in upstream order.
type LapsOutput struct {
	Laps []models.LapSummary `json:"laps"`
}

// StreamsInput selects the streams and resolution for get_activity_streams.
type StreamsInput struct {
	ActivityID int64    `json:"activity_id" jsonschema:"Strava activity id"`
	Types      []string `json:"types,omitempty" jsonschema:"streams to fetch: time, latlng, distance, altitude, velocity_smooth, heartrate, cadence, watts, temp, moving, grade_smooth (default all)"`
	Resolution string   `json:"resolution,omitempty" jsonschema:"low, medium or high; omit for every point"`
}

// NewServer creates an MCP server with every tool registered.
func (h *Handler) NewServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: h.version}, nil)
	h.RegisterTools(server)
	return server
}

// RegisterTools adds the Strava tools to server.
func (h *Handler) RegisterTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolGetAthleteStats,
		Description: "Get statistics for the authenticated athlete: recent and all-time run totals and recent ride totals.",
	}, logged(ToolGetAthleteStats, h.GetAthleteStats))

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolListActivities,
		Description: "List the athlete's most recent activities, newest first.",
	}, logged(ToolListActivities, h.ListActivities))

	mcp.AddTool(server, &mcp.Tool{
		Name: ToolSearchActivities,
		Description: "Search activities by name, type, date window and distance. " +
			"The limit bounds how many activities are fetched before filtering, so fewer may match.",
	}, logged(ToolSearchActivities, h.SearchActivities))

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolGetActivityDetails,
		Description: "Get full details for a single activity, including description, calories and device.",
	}, logged(ToolGetActivityDetails, h.GetActivityDetails))

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolGetActivityLaps,
		Description: "Get the lap breakdown of an activity.",
	}, logged(ToolGetActivityLaps, h.GetActivityLaps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolGetActivityStreams,
		Description: "Get raw sensor streams (GPS, heart rate, power, cadence, ...) for an activity. Streams the activity lacks are omitted.",
	}, logged(ToolGetActivityStreams, h.GetActivityStreams))
}

// GetAthleteStats returns the stats record plus a plain-text summary block.
func (h *Handler) GetAthleteStats(ctx context.Context, req *mcp.CallToolRequest, _ AthleteStatsInput) (*mcp.CallToolResult, models.AthleteStats, error) {
	stats, err := h.athletes.GetAthleteStats(ctx)
	if err != nil {
		return nil, models.AthleteStats{}, toolError(err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: stats.Format()}},
	}, *stats, nil
}

// ListActivities handles list_activities.
func (h *Handler) ListActivities(ctx context.Context, req *mcp.CallToolRequest, in ListActivitiesInput) (*mcp.CallToolResult, ListActivitiesOutput, error) {
	activities, err := h.activities.ListActivities(ctx, h.clampLimit(in.Limit, defaultListLimit))
	if err != nil {
		return nil, ListActivitiesOutput{}, toolError(err)
	}
	return nil, ListActivitiesOutput{Activities: activities}, nil
}

// SearchActivities handles search_activities. Ignored dates become warnings.
func (h *Handler) SearchActivities(ctx context.Context, req *mcp.CallToolRequest, in SearchActivitiesInput) (*mcp.CallToolResult, SearchActivitiesOutput, error) {
	result, err := h.activities.SearchActivities(ctx, models.SearchCriteria{
		Query:        in.Query,
		ActivityType: in.ActivityType,
		After:        in.After,
		Before:       in.Before,
		MinDistance:  in.MinDistance,
		MaxDistance:  in.MaxDistance,
		Limit:        h.clampLimit(in.Limit, defaultSearchLimit),
	})
	if err != nil {
		return nil, SearchActivitiesOutput{}, toolError(err)
	}

	out := SearchActivitiesOutput{Activities: result.Activities}
	for _, ig := range result.Ignored {
		out.Warnings = append(out.Warnings, ig.String())
	}
	return nil, out, nil
}

// GetActivityDetails handles get_activity_details.
func (h *Handler) GetActivityDetails(ctx context.Context, req *mcp.CallToolRequest, in ActivityInput) (*mcp.CallToolResult, models.ActivityDetail, error) {
	detail, err := h.activities.GetActivityDetails(ctx, in.ActivityID)
	if err != nil {
		return nil, models.ActivityDetail{}, toolError(err)
	}
	return nil, *detail, nil
}

// GetActivityLaps handles get_activity_laps.
func (h *Handler) GetActivityLaps(ctx context.Context, req *mcp.CallToolRequest, in ActivityInput) (*mcp.CallToolResult, LapsOutput, error) {
	laps, err := h.streams.GetActivityLaps(ctx, in.ActivityID)
	if err != nil {
		return nil, LapsOutput{}, toolError(err)
	}
	return nil, LapsOutput{Laps: laps}, nil
}

// GetActivityStreams handles get_activity_streams.
func (h *Handler) GetActivityStreams(ctx context.Context, req *mcp.CallToolRequest, in StreamsInput) (*mcp.CallToolResult, models.StreamBundle, error) {
	bundle, err := h.streams.GetActivityStreams(ctx, in.ActivityID, in.Types, in.Resolution)
	if err != nil {
		return nil, models.StreamBundle{}, toolError(err)
	}
	return nil, *bundle, nil
}

// toolError turns a service error into the message shown to the agent.
// Authentication, argument and not-found errors already carry agent-safe
// text and pass through unchanged.
func toolError(err error) error {
	var apiErr *services.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.RateLimited():
		return fmt.Errorf("strava rate limit reached, try again later: %w", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("request cancelled: %w", err)
	}
	return err
}

// logged wraps a tool handler with a call id and latency logging.
func logged[In, Out any](name string, next mcp.ToolHandlerFor[In, Out]) mcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) {
		callID := uuid.NewString()
		start := time.Now()
		slog.Info("Tool call started", "call_id", callID, "tool", name)

		res, out, err := next(ctx, req, in)

		if err != nil {
			slog.Warn("Tool call failed",
				"call_id", callID,
				"tool", name,
				"latency_ms", time.Since(start).Milliseconds(),
				"error", err,
			)
		} else {
			slog.Info("Tool call completed",
				"call_id", callID,
				"tool", name,
				"latency_ms", time.Since(start).Milliseconds(),
			)
		}
		return res, out, err
	}
}
