package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"scholardash/internal/app/ports"
)

// RefreshService runs the ingestion pipeline: per faculty member, consult
// the cache, fetch through the rate-limited source when stale or missing,
// write successful snapshots through to the cache and record store, and
// fall back to stale data when the provider fails. One member's failure
// never aborts the batch; the report covers every requested identifier in
// input order.
type RefreshService struct {
	records ports.RecordStore
	cache   ports.SnapshotCache
	source  ports.AuthorSource
	archive ports.HistoryArchive
	maxAge  time.Duration
	log     *slog.Logger
	now     func() time.Time
}

// NewRefreshService wires the pipeline. archive may be nil when history
// retention is disabled.
func NewRefreshService(records ports.RecordStore, cache ports.SnapshotCache, source ports.AuthorSource, archive ports.HistoryArchive, maxAge time.Duration, log *slog.Logger) *RefreshService {
	if log == nil {
		log = slog.Default()
	}
	return &RefreshService{
		records: records,
		cache:   cache,
		source:  source,
		archive: archive,
		maxAge:  maxAge,
		log:     log,
		now:     time.Now,
	}
}

// RefreshAll refreshes every roster member in roster order.
func (s *RefreshService) RefreshAll(ctx context.Context) (ports.PipelineReport, error) {
	roster, err := s.records.Load()
	if err != nil {
		return ports.PipelineReport{}, errors.Wrap(err, "load roster")
	}
	ids := make([]string, 0, len(roster.Faculty))
	for _, rec := range roster.Faculty {
		ids = append(ids, rec.ID)
	}
	return s.Refresh(ctx, ids), nil
}

// Refresh processes the given identifiers in order and returns the run
// report. Cancellation is honored only between members: a fetch already
// past the gate finishes, and members still needing a fetch afterwards are
// reported cancelled. Fresh cache hits keep being served either way.
func (s *RefreshService) Refresh(ctx context.Context, facultyIDs []string) ports.PipelineReport {
	report := ports.PipelineReport{
		RunID:     uuid.NewString(),
		StartedAt: s.now(),
		Entries:   make([]ports.RefreshEntry, 0, len(facultyIDs)),
	}

	byID := make(map[string]ports.FacultyRecord)
	roster, rosterErr := s.records.Load()
	if rosterErr != nil {
		s.log.Error("refresh: roster load failed", "error", rosterErr)
	} else {
		for _, rec := range roster.Faculty {
			byID[rec.ID] = rec
		}
	}

	for _, id := range facultyIDs {
		entry := s.refreshOne(ctx, id, byID, rosterErr)
		report.Entries = append(report.Entries, entry)
		s.log.Info("refresh: member done",
			"run_id", report.RunID,
			"faculty_id", entry.FacultyID,
			"disposition", string(entry.Disposition),
			"degraded", entry.Degraded,
		)
	}

	report.FinishedAt = s.now()
	counts := report.Counts()
	s.log.Info("refresh: run complete",
		"run_id", report.RunID,
		"requested", len(facultyIDs),
		"updated", counts.Updated(),
		"degraded", counts.StaleFallback,
		"failed", counts.Failed,
		"not_found", counts.NotFound,
		"cancelled", counts.Cancelled,
	)
	return report
}

func (s *RefreshService) refreshOne(ctx context.Context, id string, byID map[string]ports.FacultyRecord, rosterErr error) ports.RefreshEntry {
	if rosterErr != nil {
		return ports.RefreshEntry{
			FacultyID:   id,
			Disposition: ports.RefreshFailed,
			Detail:      "roster unavailable: " + rosterErr.Error(),
		}
	}
	rec, known := byID[id]
	entry := ports.RefreshEntry{FacultyID: id, Name: rec.Name}
	if !known {
		entry.Disposition = ports.RefreshFailed
		entry.Detail = "unknown faculty id"
		return entry
	}

	cached, hasCache := s.cache.Get(id)
	if hasCache && !cached.IsStale(s.now(), s.maxAge) {
		entry.Disposition = ports.RefreshFreshCache
		return entry
	}

	// Cancellation checkpoint: past here a provider call is attempted.
	if err := ctx.Err(); err != nil {
		entry.Disposition = ports.RefreshCancelled
		entry.Detail = err.Error()
		return entry
	}

	if rec.ScholarID == "" && rec.Name == "" {
		entry.Disposition = ports.RefreshFailed
		entry.Detail = "record has no scholar id or name"
		return entry
	}

	outcome := s.lookup(ctx, rec)
	entry.Outcome = outcome.Status

	switch outcome.Status {
	case ports.FetchSuccess:
		snapshot := outcome.Snapshot
		snapshot.FacultyID = id
		if snapshot.Name == "" {
			snapshot.Name = rec.Name
		}
		if err := s.persist(ctx, rec, snapshot); err != nil {
			entry.Disposition = ports.RefreshFailed
			entry.Detail = "persist snapshot: " + err.Error()
			return entry
		}
		entry.Disposition = ports.RefreshFetched
		return entry

	case ports.FetchRateLimited, ports.FetchSourceError:
		detail := outcome.Reason
		if outcome.Status == ports.FetchRateLimited {
			detail = "provider rate limited"
			if outcome.RetryAfter > 0 {
				detail = fmt.Sprintf("provider rate limited, retry after %s", outcome.RetryAfter)
			}
		}
		if hasCache {
			// Serve the last good snapshot so the caller always has
			// something to display; the entry stays marked degraded.
			entry.Disposition = ports.RefreshStaleFallback
			entry.Degraded = true
			entry.Detail = detail
			return entry
		}
		entry.Disposition = ports.RefreshFailed
		entry.Detail = detail
		return entry

	case ports.FetchNotFound:
		// Never cached: a profile may become discoverable later.
		entry.Disposition = ports.RefreshNotFound
		entry.Detail = outcome.Reason
		return entry

	default:
		entry.Disposition = ports.RefreshFailed
		entry.Detail = fmt.Sprintf("unexpected fetch status %q", outcome.Status)
		return entry
	}
}

// lookup resolves by scholar identifier when the record has one, falling
// back to a name search.
func (s *RefreshService) lookup(ctx context.Context, rec ports.FacultyRecord) ports.FetchOutcome {
	if rec.ScholarID != "" {
		return s.source.FetchByScholarID(ctx, rec.ScholarID)
	}
	return s.source.SearchByName(ctx, rec.Name)
}

func (s *RefreshService) persist(ctx context.Context, rec ports.FacultyRecord, snapshot ports.MetricsSnapshot) error {
	if err := s.cache.Put(rec.ID, snapshot); err != nil {
		return errors.Wrap(err, "cache put")
	}
	if !rec.ProfileFetched {
		if err := s.markFetched(rec.ID); err != nil {
			return errors.Wrap(err, "mark profile fetched")
		}
	}
	if s.archive != nil {
		if err := s.archive.Append(ctx, snapshot); err != nil {
			// History retention is best-effort; the snapshot is already
			// cached and reported.
			s.log.Warn("refresh: archive append failed", "faculty_id", rec.ID, "error", err)
		}
	}
	return nil
}

func (s *RefreshService) markFetched(id string) error {
	roster, err := s.records.Load()
	if err != nil {
		return err
	}
	for i := range roster.Faculty {
		if roster.Faculty[i].ID != id {
			continue
		}
		if roster.Faculty[i].ProfileFetched {
			return nil
		}
		roster.Faculty[i].ProfileFetched = true
		roster.UpdatedAt = s.now().UTC().Format(time.RFC3339)
		return s.records.Save(roster)
	}
	return nil
}
