// ABOUTME: Strava v3 API client for athletes, activities, laps and streams
// ABOUTME: Handles token exchange, page chunking, status mapping and optional SOCKS5 egress

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cloudfoundry/socks5-proxy"
	"github.com/markalston/strava-mcp/models"
)

const (
	// DefaultAPIURL is the Strava v3 REST base URL.
	DefaultAPIURL = "https://www.strava.com/api/v3"
	// DefaultTokenURL is the Strava OAuth token endpoint.
	DefaultTokenURL = "https://www.strava.com/oauth/token"

	// maxPerPage is the largest page size Strava accepts.
	maxPerPage = 200
	// maxErrorBody bounds how much of an error response we read.
	maxErrorBody = 64 << 10
)

// ActivityListOptions bounds an activity listing.
type ActivityListOptions struct {
	Before *time.Time
	After  *time.Time
	Limit  int
}

// StravaAPI is the upstream contract the session and query layer depends on.
// Every call is a single synchronous request sequence with no retries.
type StravaAPI interface {
	RefreshToken(ctx context.Context, clientID, clientSecret, refreshToken string) (*models.TokenResponse, error)
	GetAthlete(ctx context.Context, accessToken string) (*models.StravaAthlete, error)
	GetAthleteStats(ctx context.Context, accessToken string, athleteID int64) (*models.StravaActivityStats, error)
	GetActivities(ctx context.Context, accessToken string, opts ActivityListOptions) ([]models.StravaActivity, error)
	GetActivity(ctx context.Context, accessToken string, activityID int64) (*models.StravaActivity, error)
	GetActivityLaps(ctx context.Context, accessToken string, activityID int64) ([]models.StravaLap, error)
	GetActivityStreams(ctx context.Context, accessToken string, activityID int64, types []models.StreamType, resolution models.Resolution) (models.StravaStreamSet, error)
}

// StravaClient talks to the Strava REST API over HTTPS.
type StravaClient struct {
	apiURL   string
	tokenURL string
	client   *http.Client
}

var _ StravaAPI = (*StravaClient)(nil)

// NewStravaClient creates a client. Empty URLs fall back to the public
// Strava endpoints. allProxy, when set, routes traffic through an SSH+SOCKS5
// jump host (ssh+socks5://user@host:port?private-key=/path/to/key).
func NewStravaClient(apiURL, tokenURL string, timeout time.Duration, allProxy string) *StravaClient {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		TLSHandshakeTimeout: 30 * time.Second,
	}
	if allProxy != "" {
		if dialContextFunc := createSOCKS5DialContextFunc(allProxy); dialContextFunc != nil {
			transport.Proxy = nil
			transport.DialContext = dialContextFunc
		}
	}

	return &StravaClient{
		apiURL:   strings.TrimRight(apiURL, "/"),
		tokenURL: tokenURL,
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// SetHTTPClient replaces the HTTP client, e.g. one trusting a private CA.
func (c *StravaClient) SetHTTPClient(client *http.Client) {
	c.client = client
}

// RefreshToken exchanges a refresh token for a new access token.
// The client id is sent verbatim whether or not it is numeric.
func (c *StravaClient) RefreshToken(ctx context.Context, clientID, clientSecret, refreshToken string) (*models.TokenResponse, error) {
	data := url.Values{}
	data.Set("client_id", strings.TrimSpace(clientID))
	data.Set("client_secret", clientSecret)
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, upstreamError("token request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp, "oauth/token", false)
	}

	var tokenResp models.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, upstreamError("parse token response", err)
	}
	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("%w: token response missing access_token", ErrUpstream)
	}
	if tokenResp.ExpiresAt == 0 && tokenResp.ExpiresIn > 0 {
		tokenResp.ExpiresAt = time.Now().Unix() + tokenResp.ExpiresIn
	}

	return &tokenResp, nil
}

// GetAthlete returns the authenticated athlete.
func (c *StravaClient) GetAthlete(ctx context.Context, accessToken string) (*models.StravaAthlete, error) {
	var athlete models.StravaAthlete
	if err := c.getJSON(ctx, accessToken, "/athlete", nil, "athlete", false, &athlete); err != nil {
		return nil, err
	}
	return &athlete, nil
}

// GetAthleteStats returns the rollup totals for an athlete.
func (c *StravaClient) GetAthleteStats(ctx context.Context, accessToken string, athleteID int64) (*models.StravaActivityStats, error) {
	var stats models.StravaActivityStats
	path := fmt.Sprintf("/athletes/%d/stats", athleteID)
	if err := c.getJSON(ctx, accessToken, path, nil, "athlete stats", false, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetActivities lists the athlete's activities, most recent first, reading
// pages of at most 200 until opts.Limit activities or a short page.
func (c *StravaClient) GetActivities(ctx context.Context, accessToken string, opts ActivityListOptions) ([]models.StravaActivity, error) {
	if opts.Limit <= 0 {
		return nil, invalidArgument("limit must be a positive integer, got %d", opts.Limit)
	}

	perPage := min(opts.Limit, maxPerPage)
	activities := make([]models.StravaActivity, 0, perPage)

	for page := 1; len(activities) < opts.Limit; page++ {
		query := url.Values{}
		query.Set("page", strconv.Itoa(page))
		query.Set("per_page", strconv.Itoa(perPage))
		if opts.Before != nil {
			query.Set("before", strconv.FormatInt(opts.Before.Unix(), 10))
		}
		if opts.After != nil {
			query.Set("after", strconv.FormatInt(opts.After.Unix(), 10))
		}

		var batch []models.StravaActivity
		if err := c.getJSON(ctx, accessToken, "/athlete/activities", query, "activities", false, &batch); err != nil {
			return nil, err
		}

		fetched := len(batch)
		if remaining := opts.Limit - len(activities); fetched > remaining {
			batch = batch[:remaining]
		}
		activities = append(activities, batch...)

		if fetched < perPage {
			break
		}
	}

	slog.Debug("Strava activities fetched", "count", len(activities), "limit", opts.Limit)
	return activities, nil
}

// GetActivity returns a single detailed activity.
func (c *StravaClient) GetActivity(ctx context.Context, accessToken string, activityID int64) (*models.StravaActivity, error) {
	var activity models.StravaActivity
	path := fmt.Sprintf("/activities/%d", activityID)
	if err := c.getJSON(ctx, accessToken, path, nil, "activity", true, &activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

// GetActivityLaps returns the laps of an activity.
func (c *StravaClient) GetActivityLaps(ctx context.Context, accessToken string, activityID int64) ([]models.StravaLap, error) {
	var laps []models.StravaLap
	path := fmt.Sprintf("/activities/%d/laps", activityID)
	if err := c.getJSON(ctx, accessToken, path, nil, "activity laps", true, &laps); err != nil {
		return nil, err
	}
	return laps, nil
}

// GetActivityStreams returns the requested streams keyed by type. With no
// types every known stream is requested.
func (c *StravaClient) GetActivityStreams(ctx context.Context, accessToken string, activityID int64, types []models.StreamType, resolution models.Resolution) (models.StravaStreamSet, error) {
	if len(types) == 0 {
		types = models.AllStreamTypes
	}
	keys := make([]string, len(types))
	for i, t := range types {
		keys[i] = string(t)
	}

	query := url.Values{}
	query.Set("keys", strings.Join(keys, ","))
	query.Set("key_by_type", "true")
	if resolution != models.ResolutionAll {
		query.Set("resolution", string(resolution))
	}

	streams := models.StravaStreamSet{}
	path := fmt.Sprintf("/activities/%d/streams", activityID)
	if err := c.getJSON(ctx, accessToken, path, query, "activity streams", true, &streams); err != nil {
		return nil, err
	}
	return streams, nil
}

// getJSON performs an authorized GET and decodes the response body into out.
// notFoundable marks single-entity lookups where 403/404 mean "no such id".
func (c *StravaClient) getJSON(ctx context.Context, accessToken, path string, query url.Values, resource string, notFoundable bool, out any) error {
	endpoint := c.apiURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return upstreamError(resource+" request", err)
	}
	defer resp.Body.Close()

	slog.Debug("Strava API call",
		"resource", resource,
		"path", path,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode != http.StatusOK {
		return readAPIError(resp, resource, notFoundable)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return upstreamError("parse "+resource+" response", err)
	}
	return nil
}

// readAPIError converts a non-2xx response into an *APIError.
func readAPIError(resp *http.Response, resource string, notFoundable bool) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Resource:   resource,
		notFound:   notFoundable && (resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusForbidden),
	}

	var fault models.StravaFault
	if err := json.Unmarshal(body, &fault); err == nil && fault.Message != "" {
		apiErr.Message = fault.Message
	} else {
		apiErr.Message = strings.TrimSpace(sanitizeForLog(string(body)))
	}
	return apiErr
}

// createSOCKS5DialContextFunc creates a dial function for SSH+SOCKS5 proxy connections.
// Supports format: ssh+socks5://user@host:port?private-key=/path/to/key
func createSOCKS5DialContextFunc(allProxy string) func(ctx context.Context, network, address string) (net.Conn, error) {
	// Strip ssh+ prefix if present
	allProxy = strings.TrimPrefix(allProxy, "ssh+")

	proxyURL, err := url.Parse(allProxy)
	if err != nil {
		slog.Error("Failed to parse STRAVA_ALL_PROXY URL", "error", err)
		return nil
	}

	queryMap, err := url.ParseQuery(proxyURL.RawQuery)
	if err != nil {
		slog.Error("Failed to parse STRAVA_ALL_PROXY query params", "error", err)
		return nil
	}

	username := ""
	if proxyURL.User != nil {
		username = proxyURL.User.Username()
	}

	proxySSHKeyPath := queryMap.Get("private-key")
	if proxySSHKeyPath == "" {
		slog.Error("STRAVA_ALL_PROXY missing required 'private-key' query param")
		return nil
	}

	proxySSHKey, err := os.ReadFile(proxySSHKeyPath)
	if err != nil {
		slog.Error("Failed to read SSH private key", "path", proxySSHKeyPath, "error", err)
		return nil
	}

	socks5Proxy := proxy.NewSocks5Proxy(proxy.NewHostKey(), log.Default(), 1*time.Minute)

	var (
		dialer proxy.DialFunc
		mut    sync.RWMutex
	)

	return func(ctx context.Context, network, address string) (net.Conn, error) {
		mut.RLock()
		haveDialer := dialer != nil
		mut.RUnlock()

		if haveDialer {
			return dialer(network, address)
		}

		mut.Lock()
		defer mut.Unlock()
		if dialer == nil {
			proxyDialer, err := socks5Proxy.Dialer(username, string(proxySSHKey), proxyURL.Host)
			if err != nil {
				return nil, fmt.Errorf("error creating SOCKS5 dialer: %w", err)
			}
			dialer = proxyDialer
		}
		return dialer(network, address)
	}
}
