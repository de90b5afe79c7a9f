package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"time"

	gh "github.com/google/go-github/v80/github"

	"github.com/Dev-athrv/Github-Crawler-AI/internal/core/domain"
)

// APIError represents a GitHub API error response that is neither
// rate limiting, transient, nor malformed. These abort the run.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401
	}
	return false
}

// wrapError converts go-github errors to the domain error taxonomy.
func wrapError(err error, page int) error {
	if err == nil {
		return nil
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &domain.RateLimitError{
			ResetAt:   rateLimitErr.Rate.Reset.Time,
			Remaining: rateLimitErr.Rate.Remaining,
		}
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		resetAt := time.Now().Add(abuseErr.GetRetryAfter())
		return &domain.RateLimitError{ResetAt: resetAt}
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		if ghErr.Response.StatusCode >= 500 {
			return &domain.TransientError{Op: "search repositories", Err: err}
		}
		apiErr := &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
		}
		if ghErr.Response.Request != nil && ghErr.Response.Request.URL != nil {
			apiErr.URL = ghErr.Response.Request.URL.String()
		}
		return apiErr
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &domain.MalformedError{Page: page, Err: err}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &domain.TransientError{Op: "search repositories", Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return &domain.TransientError{Op: "search repositories", Err: err}
	}

	return fmt.Errorf("search repositories: %w", err)
}
