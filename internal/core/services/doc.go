// Package services implements the application's use cases on top of
// the driven ports.
//
//   - Collector: paginates the search API with rate-limit waits,
//     transient-failure backoff and per-run deduplication.
//   - Crawler: full run orchestration — collect, keyword-filter,
//     enrich (best-effort), export.
//
// Services hold no global state; all collaborators are injected at
// construction time so tests can run against fakes.
package services
