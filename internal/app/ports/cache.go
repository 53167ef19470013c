package ports

import "time"

// CacheEntry is the latest snapshot held for one faculty member plus the
// moment it entered the cache. CachedAt never decreases across writes.
type CacheEntry struct {
	Snapshot MetricsSnapshot
	CachedAt time.Time
}

// IsStale reports whether the entry's age exceeds maxAge at the given time.
func (e CacheEntry) IsStale(now time.Time, maxAge time.Duration) bool {
	return now.Sub(e.CachedAt) > maxAge
}

// SnapshotCache maps faculty identifiers to their latest metrics snapshot.
// Put is whole-entry last-write-wins and flushes to the backing file before
// returning, so a crash loses at most the most recent write.
type SnapshotCache interface {
	Get(facultyID string) (CacheEntry, bool)
	Put(facultyID string, snapshot MetricsSnapshot) error
	Len() int
	Entries() map[string]CacheEntry
}
