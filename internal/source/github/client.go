// Package github is a thin REST v3 client for pulling closed issues and
// their comments from one repository. It is deliberately lazy: issues are
// fetched one page at a time, on demand, and never materialized up front.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL  = "https://api.github.com"
	defaultTimeout  = 30 * time.Second
	defaultPageSize = 30
	defaultRPS      = 2
	maxPageSize     = 100

	acceptHeader     = "application/vnd.github+json"
	apiVersionHeader = "X-GitHub-Api-Version"
	apiVersion       = "2022-11-28"
)

var (
	errUnexpectedStatus = errors.New("github unexpected status")
	errBadRepo          = errors.New("repository must be in owner/name form")
)

// Config holds settings for the GitHub client.
type Config struct {
	Repo         string
	Token        string
	BaseURL      string
	Timeout      time.Duration
	RateLimitRPS float64
	PageSize     int

	// UpdatedSince is an optional lower bound on issue update time.
	UpdatedSince time.Time
}

// Client talks to the GitHub REST API for one repository.
type Client struct {
	cfg         Config
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *zerolog.Logger
}

// NewClient creates a GitHub client. A missing token falls back to anonymous
// access, which is heavily rate limited by GitHub.
func NewClient(cfg Config, logger *zerolog.Logger) (*Client, error) {
	owner, name, ok := strings.Cut(cfg.Repo, "/")
	if !ok || owner == "" || name == "" {
		return nil, fmt.Errorf("%w: %q", errBadRepo, cfg.Repo)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = defaultRPS
	}

	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}

	if cfg.PageSize > maxPageSize {
		cfg.PageSize = maxPageSize
	}

	if cfg.Token == "" {
		logger.Warn().Msg("GITHUB_TOKEN not set, using anonymous access (may be rate-limited)")
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), 1),
		logger:      logger,
	}, nil
}

// get performs one rate-limited GET against the API and decodes the JSON
// response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("github rate limit: %w", err)
	}

	reqURL := c.cfg.BaseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create github request: %w", err)
	}

	req.Header.Set("Accept", acceptHeader)
	req.Header.Set(apiVersionHeader, apiVersion)

	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("github request: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return fmt.Errorf("%w: %d: %s", errUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode github response: %w", err)
	}

	return nil
}
