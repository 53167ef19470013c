// Package sqlite implements the snapshot history archive over the SQLite
// database.
package sqlite

import (
	"context"
	"time"

	"scholardash/internal/app/ports"
	"scholardash/internal/db"
)

const defaultListLimit = 100

type historyArchive struct {
	database *db.Database
	closeFn  func() error
	now      func() time.Time
}

// NewHistoryArchive opens the archive at the given database path. The
// returned archive owns the connection and closes it on Close.
func NewHistoryArchive(dbPath string) (ports.HistoryArchive, error) {
	database, err := db.New(dbPath)
	if err != nil {
		return nil, err
	}
	return newHistoryArchive(database, database.Close), nil
}

// NewSharedHistoryArchive wraps an existing database handle. Close is a
// no-op; the caller keeps ownership of the handle.
func NewSharedHistoryArchive(database *db.Database) ports.HistoryArchive {
	return newHistoryArchive(database, nil)
}

func newHistoryArchive(database *db.Database, closeFn func() error) *historyArchive {
	return &historyArchive{database: database, closeFn: closeFn, now: time.Now}
}

func (a *historyArchive) Append(ctx context.Context, snapshot ports.MetricsSnapshot) error {
	return a.database.AppendSnapshot(ctx, db.AppendSnapshotParams{
		FacultyID:        snapshot.FacultyID,
		ScholarID:        snapshot.ScholarID,
		Name:             snapshot.Name,
		Citations:        int64(snapshot.Citations),
		HIndex:           int64(snapshot.HIndex),
		I10Index:         int64(snapshot.I10Index),
		PublicationCount: int64(snapshot.PublicationCount),
		FetchedAt:        snapshot.FetchedAt,
		RecordedAt:       a.now(),
	})
}

func (a *historyArchive) ListByFaculty(ctx context.Context, facultyID string, limit int) ([]ports.SnapshotPoint, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := a.database.ListSnapshotsByFaculty(ctx, facultyID, int64(limit))
	if err != nil {
		return nil, err
	}
	points := make([]ports.SnapshotPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, ports.SnapshotPoint{
			FacultyID:        row.FacultyID,
			ScholarID:        row.ScholarID,
			Name:             row.Name,
			Citations:        int(row.Citations),
			HIndex:           int(row.HIndex),
			I10Index:         int(row.I10Index),
			PublicationCount: int(row.PublicationCount),
			FetchedAt:        row.FetchedAt,
			RecordedAt:       row.RecordedAt,
		})
	}
	return points, nil
}

func (a *historyArchive) Close() error {
	if a.closeFn == nil {
		return nil
	}
	return a.closeFn()
}

var _ ports.HistoryArchive = (*historyArchive)(nil)
