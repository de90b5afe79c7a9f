package github

import (
	"context"
	"net/http"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultPerPage is the page size for search calls. 100 is the
	// maximum the search API accepts.
	DefaultPerPage = 100
)

// Client wraps the go-github client for repository search.
type Client struct {
	gh          *gh.Client
	rateLimiter *RateLimiter
	perPage     int
}

// NewClient creates a GitHub client. An empty token means
// unauthenticated requests, which the API rate-limits heavily.
func NewClient(ctx context.Context, token string) *Client {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		httpClient = oauth2.NewClient(ctx, ts)
	} else {
		httpClient = &http.Client{}
	}
	httpClient.Timeout = DefaultTimeout

	return &Client{
		gh:          gh.NewClient(httpClient),
		rateLimiter: NewRateLimiter(),
		perPage:     DefaultPerPage,
	}
}

// NewClientWithHTTPClient creates a GitHub client with a custom
// http.Client and base URL. Useful for tests against a mock server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	client := gh.NewClient(httpClient)
	if baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, err
		}
	}
	return &Client{
		gh:          client,
		rateLimiter: NewRateLimiter(),
		perPage:     DefaultPerPage,
	}, nil
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// SetPerPage overrides the search page size. Values above the API
// maximum of 100 are clamped by GitHub, not by us.
func (c *Client) SetPerPage(n int) {
	if n > 0 {
		c.perPage = n
	}
}

// ValidateCredentials checks if the configured token is valid by
// making a cheap API call.
func (c *Client) ValidateCredentials(ctx context.Context) error {
	_, resp, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return wrapError(err, 0)
	}
	c.updateRateLimitFromResponse(resp)
	return nil
}

// updateRateLimitFromResponse updates the rate limiter from GitHub response headers.
func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)
}
