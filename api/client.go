// Package api implements the bearer-token authenticated client for the v5
// challenge-service API: challenge lookup, paginated submission listing, and
// the rating pipeline trigger endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	processor "github.com/topcoder-platform/member-profile-processor"
	"github.com/topcoder-platform/member-profile-processor/logging"
	"github.com/topcoder-platform/member-profile-processor/metrics"
)

// Pagination response headers reported by the submissions endpoint.
const (
	headerTotalPages = "X-Total-Pages"
	headerPage       = "X-Page"
)

// Config holds configuration for the Client.
type Config struct {
	// BaseURL is the API base, e.g. "https://api.topcoder-dev.com/v5" (required).
	BaseURL string

	// Tokens supplies bearer tokens for each call (required).
	Tokens TokenProvider

	// HTTPClient is the client for API requests (default: 30s timeout).
	HTTPClient *http.Client

	// PageSize is the perPage value for submission listing (default: 500).
	PageSize int

	// Logger is for observability (optional).
	Logger logging.Logger
}

// Client issues calls against the challenge-service API. Every call acquires
// a token from the TokenProvider; caching is the provider's concern.
type Client struct {
	baseURL    string
	tokens     TokenProvider
	httpClient *http.Client
	pageSize   int
	logger     logging.Logger
}

// New creates a Client with the given configuration, applying defaults for
// HTTPClient, PageSize, and Logger.
func New(cfg Config) *Client {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = 500
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		tokens:     cfg.Tokens,
		httpClient: cfg.HTTPClient,
		pageSize:   cfg.PageSize,
		logger:     cfg.Logger,
	}
}

// challengeResponse is the wire shape of one /challenges element.
type challengeResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	LegacyID int64  `json:"legacyId"`
	Legacy   struct {
		SubTrack string `json:"subTrack"`
	} `json:"legacy"`
}

// GetChallengeByLegacyID returns the first challenge matching the legacy id.
// Returns processor.ErrChallengeNotFound if the API returns no match.
func (c *Client) GetChallengeByLegacyID(ctx context.Context, legacyID int64) (processor.Challenge, error) {
	query := url.Values{}
	query.Set("legacyId", strconv.FormatInt(legacyID, 10))

	c.logger.Debug("fetching challenge details", "legacyId", legacyID)

	var challenges []challengeResponse
	if _, err := c.get(ctx, "/challenges", query, &challenges); err != nil {
		return processor.Challenge{}, fmt.Errorf("failed to fetch challenge for legacy id %d: %w", legacyID, err)
	}
	if len(challenges) == 0 {
		return processor.Challenge{}, processor.ErrChallengeNotFound
	}

	ch := challenges[0]
	return processor.Challenge{
		ID:       ch.ID,
		LegacyID: ch.LegacyID,
		Name:     ch.Name,
		SubTrack: ch.Legacy.SubTrack,
	}, nil
}

// ListSubmissions returns all submissions for a challenge, accumulating every
// page. Pagination is driven by the X-Total-Pages and X-Page response headers:
// pages are requested until the reported current page equals the reported
// total.
func (c *Client) ListSubmissions(ctx context.Context, challengeID string) ([]processor.Submission, error) {
	var all []processor.Submission

	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("challengeId", challengeID)
		query.Set("perPage", strconv.Itoa(c.pageSize))
		query.Set("page", strconv.Itoa(page))

		var batch []processor.Submission
		header, err := c.get(ctx, "/submissions", query, &batch)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch submissions page %d for challenge %s: %w", page, challengeID, err)
		}
		all = append(all, batch...)
		metrics.SubmissionPagesFetchedTotal.Inc()

		totalPages := header.Get(headerTotalPages)
		currentPage := header.Get(headerPage)
		c.logger.Debug("fetched submissions page",
			"challengeId", challengeID, "page", currentPage, "totalPages", totalPages, "count", len(batch))

		if totalPages == "" || totalPages == currentPage {
			break
		}
	}

	return all, nil
}

// InitiateRatingCalculation triggers the marathon-match rating calculation for
// a round. The calculation itself runs on the external rating service.
func (c *Client) InitiateRatingCalculation(ctx context.Context, roundID int64) error {
	c.logger.Debug("initiating rating calculation", "roundId", roundID)
	return c.postRound(ctx, "/ratings/mm/calculate", roundID)
}

// InitiateLoadCoders triggers the coder load for a round.
func (c *Client) InitiateLoadCoders(ctx context.Context, roundID int64) error {
	c.logger.Debug("initiating coder load", "roundId", roundID)
	return c.postRound(ctx, "/ratings/coders/load", roundID)
}

// InitiateLoadRatings triggers the rating load for a round.
func (c *Client) InitiateLoadRatings(ctx context.Context, roundID int64) error {
	c.logger.Debug("initiating rating load", "roundId", roundID)
	return c.postRound(ctx, "/ratings/mm/load", roundID)
}

// get performs an authenticated GET and decodes the JSON response body into
// dst. Returns the response headers for pagination-aware callers.
func (c *Client) get(ctx context.Context, path string, query url.Values, dst any) (http.Header, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return resp.Header, nil
}

// postRound performs an authenticated POST with a {"roundId": n} body.
func (c *Client) postRound(ctx context.Context, path string, roundID int64) error {
	body, err := json.Marshal(map[string]int64{"roundId": roundID})
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	return nil
}

// do attaches a bearer token, executes the request, and surfaces non-2xx
// statuses as errors.
func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", req.URL.Path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("%s %s returned status %d: %s",
			req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	return resp, nil
}
