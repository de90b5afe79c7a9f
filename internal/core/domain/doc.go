// Package domain defines the core business entities for the crawler.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Repository: a collected GitHub repository record
//   - SearchQuery: the immutable per-run search parameters
//   - PageResult: one page of search results with rate-limit state
//   - CollectionResult: the ordered, deduplicated outcome of a run
//   - KeywordFilter: relevance filtering over collected records
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
