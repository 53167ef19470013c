package ports

import "time"

// RefreshDisposition is the terminal state of one faculty member within a
// pipeline run.
type RefreshDisposition string

const (
	// RefreshFreshCache means the cache was fresh and no fetch happened.
	RefreshFreshCache RefreshDisposition = "fresh_cache"
	// RefreshFetched means a live fetch succeeded and was cached.
	RefreshFetched RefreshDisposition = "fetched"
	// RefreshStaleFallback means the fetch failed but a stale snapshot was served.
	RefreshStaleFallback RefreshDisposition = "stale_fallback"
	// RefreshNotFound means the provider has no profile for this member.
	RefreshNotFound RefreshDisposition = "not_found"
	// RefreshFailed means the fetch failed with no cached fallback.
	RefreshFailed RefreshDisposition = "failed"
	// RefreshCancelled means the run stopped before reaching this member.
	RefreshCancelled RefreshDisposition = "cancelled"
)

// RefreshEntry is one faculty member's outcome within a pipeline run.
// Degraded marks entries served from a stale snapshot after a failed fetch.
// Outcome carries the raw fetch status when a provider call was attempted,
// so rate limiting stays distinguishable from other source failures even
// after a stale fallback.
type RefreshEntry struct {
	FacultyID   string
	Name        string
	Disposition RefreshDisposition
	Outcome     FetchStatus
	Degraded    bool
	Detail      string
}

// PipelineReport is the complete result of one refresh run. Entries appear
// in the exact order the faculty identifiers were requested.
type PipelineReport struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Entries    []RefreshEntry
}

// ReportCounts summarizes a report by disposition.
type ReportCounts struct {
	FreshCache    int
	Fetched       int
	StaleFallback int
	NotFound      int
	Failed        int
	Cancelled     int
}

// Counts tallies the report's entries by disposition.
func (r PipelineReport) Counts() ReportCounts {
	var c ReportCounts
	for _, entry := range r.Entries {
		switch entry.Disposition {
		case RefreshFreshCache:
			c.FreshCache++
		case RefreshFetched:
			c.Fetched++
		case RefreshStaleFallback:
			c.StaleFallback++
		case RefreshNotFound:
			c.NotFound++
		case RefreshFailed:
			c.Failed++
		case RefreshCancelled:
			c.Cancelled++
		}
	}
	return c
}

// Updated reports how many entries ended with a usable current snapshot.
func (c ReportCounts) Updated() int {
	return c.FreshCache + c.Fetched
}

// Errored reports how many entries ended without a live refresh.
func (c ReportCounts) Errored() int {
	return c.StaleFallback + c.NotFound + c.Failed
}
