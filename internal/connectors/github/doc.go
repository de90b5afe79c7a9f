// Package github implements the repository search connector.
//
// The connector drives the GitHub search API to discover repositories
// matching a query. It comprises the following components:
//
//   - Client: handles GitHub API communication via go-github
//   - RateLimiter: decides how long to block before the next call
//   - error mapping: converts go-github failures to domain error types
//
// # Authentication
//
// A personal access token is optional. Authenticated requests get
// 5,000 API requests per hour; unauthenticated requests are limited
// to 60 per hour, and the search endpoint to 10 per minute.
//
// # Rate Limiting
//
// The connector implements a dual-strategy rate limiting approach:
//
//  1. Proactive throttling: a token bucket limits request frequency,
//     staying under the API limits whilst maximising throughput.
//
//  2. Reactive handling: the connector monitors X-RateLimit-Remaining
//     and X-RateLimit-Reset headers. When the quota is exhausted, the
//     caller waits until the reset time (plus a safety margin) before
//     continuing.
//
// # Error Handling
//
// Failures are mapped onto the domain taxonomy:
//
//   - Rate limit errors: [domain.RateLimitError], retried after waiting
//   - Network errors and 5xx responses: [domain.TransientError], retried
//     with exponential backoff
//   - Undecodable responses: [domain.MalformedError], fatal
//   - Anything else (401, 422, ...): [APIError], fatal
package github
