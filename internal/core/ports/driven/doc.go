// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
//
// The core services depend on these interfaces only; concrete
// implementations live under internal/connectors and internal/adapters
// and are injected at construction time.
package driven
