package domain

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoOutputConfigured indicates neither a JSON nor a CSV output
	// path was supplied. Reported before any network call is made.
	ErrNoOutputConfigured = errors.New("no output path configured")

	// ErrAnalyzerUnavailable indicates the analyzer backend is not
	// configured or not reachable. Enrichment is best-effort, so this
	// never aborts a run on its own.
	ErrAnalyzerUnavailable = errors.New("analyzer unavailable")
)

// RateLimitError reports exhausted API quota with its reset time.
// It is expected during long runs and is handled by waiting, not by
// counting retries.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// TransientError reports a connection-level failure that is worth
// retrying with backoff.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient network failure during %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// MalformedError reports a response body the client could not decode.
// It aborts the run: the server is returning something incompatible,
// so retrying cannot help.
type MalformedError struct {
	Page int
	Err  error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed response on page %d: %v", e.Page, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// IsRateLimited checks if the error indicates exhausted API quota.
func IsRateLimited(err error) bool {
	var rateErr *RateLimitError
	return errors.As(err, &rateErr)
}

// IsTransient checks if the error is a retryable network failure.
func IsTransient(err error) bool {
	var transientErr *TransientError
	return errors.As(err, &transientErr)
}

// IsMalformed checks if the error indicates an undecodable response.
func IsMalformed(err error) bool {
	var malformedErr *MalformedError
	return errors.As(err, &malformedErr)
}
