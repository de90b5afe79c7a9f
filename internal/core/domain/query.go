package domain

import "fmt"

// SortField orders search results on the GitHub side.
type SortField string

const (
	SortStars   SortField = "stars"
	SortForks   SortField = "forks"
	SortUpdated SortField = "updated"
)

// SortOrder is the direction of the sort.
type SortOrder string

const (
	OrderDescending SortOrder = "desc"
	OrderAscending  SortOrder = "asc"
)

// SearchQuery holds the immutable per-run search parameters.
type SearchQuery struct {
	// Keywords is the free-text part of the search.
	Keywords string

	// Language restricts results to a primary language. Empty means any.
	Language string

	// MinStars is the minimum stargazer count. Must be >= 0.
	MinStars int

	// Sort selects the upstream ordering. Defaults to stars.
	Sort SortField

	// Order selects the sort direction. Defaults to descending.
	Order SortOrder
}

// Validate checks the query for values the search API would reject.
func (q SearchQuery) Validate() error {
	if q.Keywords == "" {
		return fmt.Errorf("%w: search keywords are required", ErrInvalidInput)
	}
	if q.MinStars < 0 {
		return fmt.Errorf("%w: min stars must be >= 0, got %d", ErrInvalidInput, q.MinStars)
	}
	switch q.Sort {
	case "", SortStars, SortForks, SortUpdated:
	default:
		return fmt.Errorf("%w: unknown sort field %q", ErrInvalidInput, q.Sort)
	}
	switch q.Order {
	case "", OrderDescending, OrderAscending:
	default:
		return fmt.Errorf("%w: unknown sort order %q", ErrInvalidInput, q.Order)
	}
	return nil
}

// SortOrDefault returns the sort field, defaulting to stars.
func (q SearchQuery) SortOrDefault() SortField {
	if q.Sort == "" {
		return SortStars
	}
	return q.Sort
}

// OrderOrDefault returns the sort order, defaulting to descending.
func (q SearchQuery) OrderOrDefault() SortOrder {
	if q.Order == "" {
		return OrderDescending
	}
	return q.Order
}
