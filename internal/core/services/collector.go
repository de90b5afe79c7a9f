package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dev-athrv/Github-Crawler-AI/internal/core/domain"
	"github.com/Dev-athrv/Github-Crawler-AI/internal/core/ports/driven"
	"github.com/Dev-athrv/Github-Crawler-AI/internal/logger"
)

const (
	// MaxAttemptsPerPage caps attempts on one page when the fetcher
	// keeps failing with transient network errors. A success resets
	// the counter.
	MaxAttemptsPerPage = 3

	// DefaultRetryDelay is the initial backoff between attempts. It
	// doubles on each consecutive failure (1s, 2s, 4s).
	DefaultRetryDelay = time.Second
)

// Collector drives a PageFetcher across pages until a target result
// count or page limit is reached, merging per-page item sequences into
// one ordered sequence deduplicated by repository ID.
type Collector struct {
	fetcher    driven.PageFetcher
	limiter    driven.RateLimiter
	retryDelay time.Duration
}

// NewCollector creates a collector over the given fetcher and limiter.
func NewCollector(fetcher driven.PageFetcher, limiter driven.RateLimiter) *Collector {
	return &Collector{
		fetcher:    fetcher,
		limiter:    limiter,
		retryDelay: DefaultRetryDelay,
	}
}

// SetRetryDelay overrides the initial transient-failure backoff.
// Tests use this to avoid real sleeps.
func (c *Collector) SetRetryDelay(d time.Duration) {
	if d > 0 {
		c.retryDelay = d
	}
}

// Collect paginates from page 1 until maxResults records are gathered,
// maxPages is exceeded, or the upstream result set is exhausted.
//
// Rate-limit failures are waited out and the same page is retried
// without limit; they are expected, not exceptional. Transient network
// failures are retried with exponential backoff up to MaxAttemptsPerPage
// consecutive attempts, then escalate to a fatal failure of the run.
// A malformed response aborts immediately.
func (c *Collector) Collect(ctx context.Context, query domain.SearchQuery, maxResults, maxPages int) (*domain.CollectionResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if maxResults <= 0 {
		return nil, fmt.Errorf("%w: max results must be > 0, got %d", domain.ErrInvalidInput, maxResults)
	}
	if maxPages <= 0 {
		return nil, fmt.Errorf("%w: max pages must be > 0, got %d", domain.ErrInvalidInput, maxPages)
	}

	var (
		records       []domain.Repository
		seen          = make(map[int64]struct{})
		rateRemaining = -1 // unknown until the first response
		rateResetAt   time.Time
		attempts      int
		truncated     bool
	)

	page := 1
	for page <= maxPages {
		if rateRemaining >= 0 {
			if err := c.limiter.WaitIfNeeded(ctx, rateRemaining, rateResetAt); err != nil {
				return nil, err
			}
		} else if err := c.limiter.WaitIfNeeded(ctx, 1, time.Time{}); err != nil {
			return nil, err
		}

		result, err := c.fetcher.FetchPage(ctx, query, page)
		if err != nil {
			var rateErr *domain.RateLimitError
			if errors.As(err, &rateErr) {
				// Expected during long runs: wait and retry the same
				// page. Does not count against the transient budget.
				logger.Info("rate limited on page %d, waiting until %s", page, rateErr.ResetAt.Format(time.RFC3339))
				if waitErr := c.limiter.WaitIfNeeded(ctx, 0, rateErr.ResetAt); waitErr != nil {
					return nil, waitErr
				}
				continue
			}

			if domain.IsTransient(err) {
				attempts++
				if attempts >= MaxAttemptsPerPage {
					return nil, fmt.Errorf("page %d of query %q failed %d consecutive times: %w",
						page, query.Keywords, attempts, err)
				}
				delay := c.retryDelay << (attempts - 1)
				logger.Warn("transient failure on page %d (attempt %d/%d), retrying in %s: %v",
					page, attempts, MaxAttemptsPerPage, delay, err)
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(delay):
				}
				continue
			}

			// Malformed responses and unexpected API errors are fatal.
			return nil, fmt.Errorf("page %d of query %q: %w", page, query.Keywords, err)
		}

		attempts = 0
		rateRemaining = result.RateRemaining
		rateResetAt = result.RateResetAt

		added := 0
		for _, item := range result.Items {
			if _, dup := seen[item.ID]; dup {
				continue
			}
			seen[item.ID] = struct{}{}
			records = append(records, item)
			added++
		}
		logger.Debug("page %d: %d items, %d new, %d total", page, len(result.Items), added, len(records))

		if len(records) >= maxResults {
			truncated = len(records) > maxResults || result.HasNextPage
			break
		}
		if !result.HasNextPage {
			break
		}
		page++
		if page > maxPages {
			truncated = true
		}
	}

	if len(records) > maxResults {
		records = records[:maxResults]
	}

	return &domain.CollectionResult{Records: records, Truncated: truncated}, nil
}
