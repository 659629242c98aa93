// Package toggl fetches time-tracking reports from the Toggl reports API v2.
package toggl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/manav03panchal/toggl2slack/internal/errors"
	"github.com/manav03panchal/toggl2slack/internal/logging"
	"github.com/manav03panchal/toggl2slack/internal/model"
)

const (
	// DefaultBaseURL is the Toggl reports API v2 root.
	DefaultBaseURL = "https://api.track.toggl.com/reports/api/v2"
	// DefaultPageDelay is the pause between detail page requests.
	DefaultPageDelay = 2 * time.Second
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 30 * time.Second

	// maxErrorBody caps how much of an error response is kept.
	maxErrorBody = 4 << 10
)

// Config configures a Client.
type Config struct {
	BaseURL     string
	Token       string
	WorkspaceID string
	// UserAgent is sent as the user_agent query parameter. Toggl asks for an
	// email address here.
	UserAgent string
	// PageDelay is the minimum interval between detail page requests.
	// Zero or negative disables pacing.
	PageDelay  time.Duration
	HTTPClient *http.Client
}

// Client is a Toggl reports API client.
type Client struct {
	baseURL *url.URL
	cfg     Config
	http    *http.Client
}

// NewClient validates cfg and returns a Client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid toggl base url %q", cfg.BaseURL)
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("toggl api token: %w", errors.ErrMissingCredential)
	}
	if cfg.WorkspaceID == "" {
		return nil, fmt.Errorf("toggl workspace id: %w", errors.ErrMissingCredential)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	return &Client{
		baseURL: base,
		cfg:     cfg,
		http:    httpClient,
	}, nil
}

// APIError is a non-2xx response from the Toggl API.
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("toggl %s: HTTP %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("toggl %s: HTTP %d: %s", e.Endpoint, e.StatusCode, body)
}

// Is makes every APIError match errors.ErrTogglAPI.
func (e *APIError) Is(target error) bool {
	return target == errors.ErrTogglAPI
}

// FetchSummary returns per-user project totals for the period. Project order
// within a user is the order the API returned.
func (c *Client) FetchSummary(ctx context.Context, period model.Period) (model.ProjectRecords, error) {
	q := c.query(period)
	q.Set("grouping", "users")
	q.Set("subgrouping", "projects")

	var resp summaryResponse
	if err := c.get(ctx, "summary", q, &resp); err != nil {
		return nil, err
	}

	records := make(model.ProjectRecords, len(resp.Data))
	for _, u := range resp.Data {
		user := model.User(u.Title.User)
		entries := records[user]
		for _, item := range u.Items {
			entries = append(entries, model.ProjectEntry{
				Project:  item.Title.Project,
				Duration: model.Milliseconds(item.Time),
			})
		}
		records[user] = entries
	}

	logging.FromContext(ctx).Debug("summary fetched",
		logging.KeyCount, len(records),
		logging.KeySince, period.Begin.String(),
		logging.KeyUntil, period.End.String())
	return records, nil
}

// FetchDetails returns every time entry in the period. The first page
// determines the page count; the remaining pages are requested one by one
// with at least PageDelay between request starts. Either every page arrives
// or an error is returned.
func (c *Client) FetchDetails(ctx context.Context, period model.Period) ([]model.Record, error) {
	limiter := c.newPageLimiter()
	log := logging.FromContext(ctx).With(logging.KeyEndpoint, "details")

	var records []model.Record
	pages := uint64(1)
	for page := uint64(1); page <= pages; page++ {
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("toggl details page %d: %w", page, err)
		}

		q := c.query(period)
		if page > 1 {
			q.Set("page", strconv.FormatUint(page, 10))
		}

		var resp detailsResponse
		if err := c.get(ctx, "details", q, &resp); err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}

		if page == 1 {
			pages = pageCount(resp.TotalCount, resp.PerPage)
			records = make([]model.Record, 0, len(resp.Data))
		}
		for _, entry := range resp.Data {
			records = append(records, entry.record())
		}
		log.Debug("details page fetched",
			logging.KeyPage, page,
			logging.KeyPages, pages,
			logging.KeyCount, len(resp.Data))
	}

	return records, nil
}

// newPageLimiter allows one request immediately and then one per PageDelay.
func (c *Client) newPageLimiter() *rate.Limiter {
	if c.cfg.PageDelay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(c.cfg.PageDelay), 1)
}

func (c *Client) query(period model.Period) url.Values {
	q := url.Values{}
	q.Set("workspace_id", c.cfg.WorkspaceID)
	q.Set("since", period.Begin.String())
	q.Set("until", period.End.String())
	q.Set("user_agent", c.cfg.UserAgent)
	return q
}

func (c *Client) get(ctx context.Context, endpoint string, q url.Values, out any) error {
	u := *c.baseURL
	u.Path = u.Path + "/" + endpoint
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("build toggl request: %w", err)
	}
	req.SetBasicAuth(c.cfg.Token, "api_token")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.NewSystemErrorWithOp("toggl "+endpoint, "request failed", err)
	}
	defer resp.Body.Close()

	logging.FromContext(ctx).Debug("toggl response",
		logging.KeyEndpoint, endpoint,
		logging.KeyStatus, resp.StatusCode,
		logging.KeyDuration, time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode toggl %s response: %w", endpoint, err)
	}
	return nil
}
