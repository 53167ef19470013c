package ports

import (
	"context"
	"time"
)

// FetchStatus tags the four possible results of one provider lookup.
type FetchStatus string

const (
	// FetchSuccess carries a fresh snapshot.
	FetchSuccess FetchStatus = "success"
	// FetchRateLimited means the provider refused the call for pacing reasons.
	FetchRateLimited FetchStatus = "rate_limited"
	// FetchSourceError covers transport, decode, and provider-side failures.
	FetchSourceError FetchStatus = "source_error"
	// FetchNotFound means the provider has no profile for the query.
	FetchNotFound FetchStatus = "not_found"
)

// FetchOutcome is the normalized result of one provider lookup. Transport
// and provider failures never surface as raw errors; they are folded into
// the outcome so callers branch on Status alone.
type FetchOutcome struct {
	Status     FetchStatus
	Snapshot   MetricsSnapshot
	RetryAfter time.Duration
	Reason     string
}

// Succeeded reports whether the outcome carries a usable snapshot.
func (o FetchOutcome) Succeeded() bool {
	return o.Status == FetchSuccess
}

// AuthorSource resolves author metrics from the external scholarly provider.
// Implementations return outcome values, never errors; a lookup interrupted
// by context cancellation comes back as a source_error outcome.
type AuthorSource interface {
	FetchByScholarID(ctx context.Context, scholarID string) FetchOutcome
	SearchByName(ctx context.Context, name string) FetchOutcome
}
