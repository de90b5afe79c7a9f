package driven

import (
	"context"
	"time"

	"github.com/Dev-athrv/Github-Crawler-AI/internal/core/domain"
)

// PageFetcher retrieves one page of repository search results.
//
// Failure kinds follow the domain error taxonomy:
//   - *domain.RateLimitError: quota exhausted, caller waits and retries
//   - *domain.TransientError: connection-level failure, caller retries with backoff
//   - *domain.MalformedError: undecodable response, caller aborts the run
type PageFetcher interface {
	// FetchPage issues one search call for the given page (1-based)
	// and returns the parsed items with pagination and rate-limit
	// metadata from the response.
	FetchPage(ctx context.Context, query domain.SearchQuery, page int) (*domain.PageResult, error)
}

// RateLimiter decides how long to block before the next API call.
type RateLimiter interface {
	// WaitIfNeeded blocks until a request may be made. When remaining
	// is zero and resetAt is in the future it sleeps until resetAt
	// plus a small safety margin; otherwise it returns promptly.
	// Stale inputs may over-sleep but never under-sleep. The only
	// error condition is context cancellation.
	WaitIfNeeded(ctx context.Context, remaining int, resetAt time.Time) error
}
