package ports

import (
	"context"
	"time"
)

// SnapshotPoint is one archived observation of a faculty member's totals,
// used for trend queries.
type SnapshotPoint struct {
	FacultyID        string
	ScholarID        string
	Name             string
	Citations        int
	HIndex           int
	I10Index         int
	PublicationCount int
	FetchedAt        time.Time
	RecordedAt       time.Time
}

// HistoryArchive keeps an append-only log of successful snapshots so older
// observations survive cache overwrites.
type HistoryArchive interface {
	Append(ctx context.Context, snapshot MetricsSnapshot) error
	ListByFaculty(ctx context.Context, facultyID string, limit int) ([]SnapshotPoint, error)
	Close() error
}
