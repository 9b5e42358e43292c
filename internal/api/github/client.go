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

	"github.com/oshokin/formula-updater/internal/logger"
	"github.com/oshokin/formula-updater/internal/version"
)

const (
	// DefaultBaseURL is the public GitHub REST API endpoint.
	DefaultBaseURL = "https://api.github.com"

	// DefaultTimeout bounds the whole release request.
	DefaultTimeout = 30 * time.Second

	acceptHeader = "application/vnd.github+json"
	apiVersion   = "2022-11-28"

	// maxErrorBody caps how much of a failed response ends up in the error message.
	maxErrorBody = 512
)

var (
	// ErrNetwork wraps every failure to obtain the latest release:
	// transport errors, timeouts, non-2xx statuses and undecodable payloads.
	ErrNetwork = errors.New("release fetch failed")

	// errRepoRequired is returned when the repository id is empty.
	errRepoRequired = errors.New("repository must be provided")
)

// Client fetches release metadata from the GitHub REST API.
type Client struct {
	// baseURL is the API root, without a trailing slash.
	baseURL string
	// token is an optional bearer token.
	token string
	// timeout is applied to every request.
	timeout time.Duration
	// httpClient performs the requests.
	httpClient *http.Client
}

// Option configures client behaviour.
type Option func(*Client)

// WithBaseURL overrides the API root, e.g. for GitHub Enterprise.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithToken authenticates requests with a bearer token.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithHTTPClient replaces the transport base. Mostly useful in tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// New returns a client for the public GitHub API unless options say otherwise.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		timeout:    DefaultTimeout,
		httpClient: http.DefaultClient,
	}

	for _, opt := range opts {
		opt(c)
	}

	base := c.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	c.httpClient = &http.Client{
		Transport: &headerTransport{
			token:     c.token,
			userAgent: version.UserAgent(),
			base:      base,
		},
		CheckRedirect: c.httpClient.CheckRedirect,
		Jar:           c.httpClient.Jar,
		Timeout:       c.timeout,
	}

	return c
}

// LatestReleaseURL returns the endpoint queried for repoID ("owner/name").
func (c *Client) LatestReleaseURL(repoID string) string {
	owner, name, _ := strings.Cut(repoID, "/")

	return fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.baseURL, url.PathEscape(owner), url.PathEscape(name))
}

// LatestRelease fetches the latest published release of repoID.
// It makes exactly one request and never retries.
func (c *Client) LatestRelease(ctx context.Context, repoID string) (*Release, error) {
	if repoID == "" {
		return nil, errRepoRequired
	}

	endpoint := c.LatestReleaseURL(repoID)
	logger.InfoKV(ctx, "Fetching latest release", "url", endpoint)

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: build request for %s: %w", ErrNetwork, endpoint, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNetwork, endpoint, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		return nil, fmt.Errorf("%w: %s: %s: %s", ErrNetwork, endpoint, resp.Status, strings.TrimSpace(string(body)))
	}

	var release Release
	if err = json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrNetwork, endpoint, err)
	}

	if release.TagName == "" {
		return nil, fmt.Errorf("%w: %s: release has no tag_name", ErrNetwork, endpoint)
	}

	return &release, nil
}

// callContext derives a context bounded by the client timeout.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.timeout)
}
