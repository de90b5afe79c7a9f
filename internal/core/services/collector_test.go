package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dev-athrv/Github-Crawler-AI/internal/core/domain"
)

// pageScript is one scripted fetcher response, consumed in call order.
type pageScript struct {
	result *domain.PageResult
	err    error
}

type fakeFetcher struct {
	script []pageScript
	pages  []int // pages requested, in order
}

func (f *fakeFetcher) FetchPage(_ context.Context, _ domain.SearchQuery, page int) (*domain.PageResult, error) {
	f.pages = append(f.pages, page)
	if len(f.script) == 0 {
		return nil, fmt.Errorf("unscripted fetch of page %d", page)
	}
	next := f.script[0]
	f.script = f.script[1:]
	return next.result, next.err
}

type limiterCall struct {
	remaining int
	resetAt   time.Time
}

type fakeLimiter struct {
	calls []limiterCall
}

func (l *fakeLimiter) WaitIfNeeded(_ context.Context, remaining int, resetAt time.Time) error {
	l.calls = append(l.calls, limiterCall{remaining: remaining, resetAt: resetAt})
	return nil
}

func repos(ids ...int64) []domain.Repository {
	out := make([]domain.Repository, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Repository{
			ID:       id,
			FullName: fmt.Sprintf("org/repo-%d", id),
		})
	}
	return out
}

func newTestCollector(fetcher *fakeFetcher) (*Collector, *fakeLimiter) {
	limiter := &fakeLimiter{}
	collector := NewCollector(fetcher, limiter)
	collector.SetRetryDelay(time.Millisecond)
	return collector, limiter
}

func TestCollector_Collect(t *testing.T) {
	query := domain.SearchQuery{Keywords: "rtos", MinStars: 10}

	t.Run("single page under the cap", func(t *testing.T) {
		fetcher := &fakeFetcher{script: []pageScript{
			{result: &domain.PageResult{Items: repos(1, 2, 3)}},
		}}
		collector, _ := newTestCollector(fetcher)

		result, err := collector.Collect(context.Background(), query, 10, 5)

		require.NoError(t, err)
		assert.Len(t, result.Records, 3)
		assert.False(t, result.Truncated)
		assert.Equal(t, []int{1}, fetcher.pages)
	})

	t.Run("caps at max results and marks truncation", func(t *testing.T) {
		fetcher := &fakeFetcher{script: []pageScript{
			{result: &domain.PageResult{Items: repos(1, 2, 3), HasNextPage: true}},
			{result: &domain.PageResult{Items: repos(4, 5), HasNextPage: true}},
		}}
		collector, _ := newTestCollector(fetcher)

		result, err := collector.Collect(context.Background(), query, 3, 5)

		require.NoError(t, err)
		require.Len(t, result.Records, 3)
		assert.True(t, result.Truncated)
		// The cap is reached on the first page, so the second scripted
		// page is never requested.
		assert.Equal(t, []int{1}, fetcher.pages)
	})

	t.Run("trims overshoot from the final page", func(t *testing.T) {
		fetcher := &fakeFetcher{script: []pageScript{
			{result: &domain.PageResult{Items: repos(1, 2), HasNextPage: true}},
			{result: &domain.PageResult{Items: repos(3, 4, 5)}},
		}}
		collector, _ := newTestCollector(fetcher)

		result, err := collector.Collect(context.Background(), query, 3, 5)

		require.NoError(t, err)
		require.Len(t, result.Records, 3)
		assert.True(t, result.Truncated)
		assert.Equal(t, int64(3), result.Records[2].ID)
	})

	t.Run("deduplicates by ID across pages", func(t *testing.T) {
		fetcher := &fakeFetcher{script: []pageScript{
			{result: &domain.PageResult{Items: repos(1, 2, 3), HasNextPage: true}},
			{result: &domain.PageResult{Items: repos(3, 4, 2, 5)}},
		}}
		collector, _ := newTestCollector(fetcher)

		result, err := collector.Collect(context.Background(), query, 10, 5)

		require.NoError(t, err)
		ids := make([]int64, 0, len(result.Records))
		for _, r := range result.Records {
			ids = append(ids, r.ID)
		}
		assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids)
	})

	t.Run("stops at the page limit and marks truncation", func(t *testing.T) {
		fetcher := &fakeFetcher{script: []pageScript{
			{result: &domain.PageResult{Items: repos(1, 2), HasNextPage: true}},
			{result: &domain.PageResult{Items: repos(3, 4), HasNextPage: true}},
		}}
		collector, _ := newTestCollector(fetcher)

		result, err := collector.Collect(context.Background(), query, 100, 2)

		require.NoError(t, err)
		assert.Len(t, result.Records, 4)
		assert.True(t, result.Truncated)
		assert.Equal(t, []int{1, 2}, fetcher.pages)
	})

	t.Run("exhausted result set is not truncation", func(t *testing.T) {
		fetcher := &fakeFetcher{script: []pageScript{
			{result: &domain.PageResult{Items: repos(1, 2), HasNextPage: true}},
			{result: &domain.PageResult{Items: repos(3)}},
		}}
		collector, _ := newTestCollector(fetcher)

		result, err := collector.Collect(context.Background(), query, 100, 5)

		require.NoError(t, err)
		assert.Len(t, result.Records, 3)
		assert.False(t, result.Truncated)
	})

	t.Run("three consecutive transient failures abort the run", func(t *testing.T) {
		transient := &domain.TransientError{Op: "search", Err: errors.New("connection reset")}
		fetcher := &fakeFetcher{script: []pageScript{
			{err: transient},
			{err: transient},
			{err: transient},
		}}
		collector, _ := newTestCollector(fetcher)

		_, err := collector.Collect(context.Background(), query, 10, 5)

		require.Error(t, err)
		assert.True(t, domain.IsTransient(err))
		assert.Contains(t, err.Error(), "3 consecutive times")
		assert.Equal(t, []int{1, 1, 1}, fetcher.pages)
	})

	t.Run("a success resets the transient attempt counter", func(t *testing.T) {
		transient := &domain.TransientError{Op: "search", Err: errors.New("timeout")}
		fetcher := &fakeFetcher{script: []pageScript{
			{err: transient},
			{err: transient},
			{result: &domain.PageResult{Items: repos(1), HasNextPage: true}},
			{err: transient},
			{err: transient},
			{result: &domain.PageResult{Items: repos(2)}},
		}}
		collector, _ := newTestCollector(fetcher)

		result, err := collector.Collect(context.Background(), query, 10, 5)

		require.NoError(t, err)
		assert.Len(t, result.Records, 2)
		assert.Equal(t, []int{1, 1, 1, 2, 2, 2}, fetcher.pages)
	})

	t.Run("rate limiting retries the same page without counting", func(t *testing.T) {
		resetAt := time.Now().Add(-time.Second) // already passed, no real wait
		fetcher := &fakeFetcher{script: []pageScript{
			{err: &domain.RateLimitError{ResetAt: resetAt}},
			{err: &domain.RateLimitError{ResetAt: resetAt}},
			{err: &domain.RateLimitError{ResetAt: resetAt}},
			{result: &domain.PageResult{Items: repos(1)}},
		}}
		collector, limiter := newTestCollector(fetcher)

		result, err := collector.Collect(context.Background(), query, 10, 5)

		require.NoError(t, err)
		assert.Len(t, result.Records, 1)
		assert.Equal(t, []int{1, 1, 1, 1}, fetcher.pages)

		// Each rate-limit hit waits out the reported reset with zero
		// remaining quota.
		var resetWaits int
		for _, call := range limiter.calls {
			if call.remaining == 0 && call.resetAt.Equal(resetAt) {
				resetWaits++
			}
		}
		assert.Equal(t, 3, resetWaits)
	})

	t.Run("quota state from one page gates the next request", func(t *testing.T) {
		resetAt := time.Now().Add(-time.Minute)
		fetcher := &fakeFetcher{script: []pageScript{
			{result: &domain.PageResult{Items: repos(1), HasNextPage: true, RateRemaining: 0, RateResetAt: resetAt}},
			{result: &domain.PageResult{Items: repos(2)}},
		}}
		collector, limiter := newTestCollector(fetcher)

		_, err := collector.Collect(context.Background(), query, 10, 5)

		require.NoError(t, err)
		require.Len(t, limiter.calls, 2)
		assert.Equal(t, 0, limiter.calls[1].remaining)
		assert.True(t, limiter.calls[1].resetAt.Equal(resetAt))
	})

	t.Run("malformed response aborts without retrying", func(t *testing.T) {
		fetcher := &fakeFetcher{script: []pageScript{
			{err: &domain.MalformedError{Page: 1, Err: errors.New("unexpected end of JSON input")}},
		}}
		collector, _ := newTestCollector(fetcher)

		_, err := collector.Collect(context.Background(), query, 10, 5)

		require.Error(t, err)
		assert.True(t, domain.IsMalformed(err))
		assert.Equal(t, []int{1}, fetcher.pages)
	})

	t.Run("rejects invalid inputs before fetching", func(t *testing.T) {
		fetcher := &fakeFetcher{}
		collector, _ := newTestCollector(fetcher)

		_, err := collector.Collect(context.Background(), domain.SearchQuery{}, 10, 5)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = collector.Collect(context.Background(), query, 0, 5)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = collector.Collect(context.Background(), query, 10, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		assert.Empty(t, fetcher.pages)
	})
}
