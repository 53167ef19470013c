package db

import (
	"context"
	"time"
)

const appendSnapshotSQL = `-- name: AppendSnapshot :exec
INSERT INTO snapshot_history (
    faculty_id, scholar_id, name,
    citations, h_index, i10_index, publication_count,
    fetched_at, recorded_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

const listSnapshotsByFacultySQL = `-- name: ListSnapshotsByFaculty :many
SELECT id, faculty_id, scholar_id, name,
       citations, h_index, i10_index, publication_count,
       fetched_at, recorded_at
FROM snapshot_history
WHERE faculty_id = ?
ORDER BY recorded_at DESC, id DESC
LIMIT ?`

const pruneSnapshotsSQL = `-- name: PruneSnapshots :exec
DELETE FROM snapshot_history WHERE recorded_at < ?`

// AppendSnapshotParams holds one snapshot_history row to insert.
type AppendSnapshotParams struct {
	FacultyID        string
	ScholarID        string
	Name             string
	Citations        int64
	HIndex           int64
	I10Index         int64
	PublicationCount int64
	FetchedAt        time.Time
	RecordedAt       time.Time
}

// SnapshotHistoryRow is one stored snapshot_history row.
type SnapshotHistoryRow struct {
	ID               int64
	FacultyID        string
	ScholarID        string
	Name             string
	Citations        int64
	HIndex           int64
	I10Index         int64
	PublicationCount int64
	FetchedAt        time.Time
	RecordedAt       time.Time
}

// AppendSnapshot inserts one observation into the history log.
func (c *Database) AppendSnapshot(ctx context.Context, params AppendSnapshotParams) error {
	_, err := c.dbtx.ExecContext(ctx, appendSnapshotSQL,
		params.FacultyID, params.ScholarID, params.Name,
		params.Citations, params.HIndex, params.I10Index, params.PublicationCount,
		params.FetchedAt.UTC(), params.RecordedAt.UTC(),
	)
	return err
}

// ListSnapshotsByFaculty returns the newest observations for one faculty
// member, newest first.
func (c *Database) ListSnapshotsByFaculty(ctx context.Context, facultyID string, limit int64) ([]SnapshotHistoryRow, error) {
	rows, err := c.dbtx.QueryContext(ctx, listSnapshotsByFacultySQL, facultyID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SnapshotHistoryRow
	for rows.Next() {
		var row SnapshotHistoryRow
		if err := rows.Scan(
			&row.ID, &row.FacultyID, &row.ScholarID, &row.Name,
			&row.Citations, &row.HIndex, &row.I10Index, &row.PublicationCount,
			&row.FetchedAt, &row.RecordedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// PruneSnapshots deletes observations recorded before the cutoff.
func (c *Database) PruneSnapshots(ctx context.Context, cutoff time.Time) error {
	_, err := c.dbtx.ExecContext(ctx, pruneSnapshotsSQL, cutoff.UTC())
	return err
}
