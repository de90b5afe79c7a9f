package domain

import "time"

// PageResult is one page of search results together with the rate-limit
// state observed on the response. It is consumed immediately by the
// collector and never stored.
type PageResult struct {
	// Items are the records parsed from this page, in upstream order.
	Items []Repository

	// HasNextPage reports whether the API exposes a further page.
	HasNextPage bool

	// RateRemaining is the request quota left after this call.
	RateRemaining int

	// RateResetAt is when the quota window resets.
	RateResetAt time.Time
}

// CollectionResult is the outcome of one collection run. Records keep
// discovery order and are deduplicated by repository ID.
type CollectionResult struct {
	// Records are the collected repositories in discovery order.
	Records []Repository

	// Truncated is true when the run stopped because of maxResults or
	// maxPages rather than exhausting the upstream result set.
	Truncated bool
}
