package jsonfile

import (
	"encoding/json"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"scholardash/internal/app/ports"
)

// cacheFile is the on-disk shape of the snapshot cache, keyed by faculty
// identifier.
type cacheFile struct {
	UpdatedAt string                  `json:"updated_at,omitempty"`
	Snapshots map[string]snapshotFile `json:"snapshots"`
}

type snapshotFile struct {
	ScholarID          string            `json:"scholar_id,omitempty"`
	Name               string            `json:"name,omitempty"`
	Affiliation        string            `json:"affiliation,omitempty"`
	EmailDomain        string            `json:"email_domain,omitempty"`
	Interests          []string          `json:"interests,omitempty"`
	Citations          int               `json:"citations"`
	Citations5y        int               `json:"citations_5y,omitempty"`
	HIndex             int               `json:"h_index"`
	HIndex5y           int               `json:"h_index_5y,omitempty"`
	I10Index           int               `json:"i10_index"`
	I10Index5y         int               `json:"i10_index_5y,omitempty"`
	PublicationCount   int               `json:"publication_count"`
	Publications       []publicationFile `json:"publications,omitempty"`
	PublicationsByYear map[int]int       `json:"publications_by_year,omitempty"`
	CitationsByYear    map[int]int       `json:"citations_by_year,omitempty"`
	FetchedAt          time.Time         `json:"fetched_at"`
	CachedAt           time.Time         `json:"cached_at"`
}

type publicationFile struct {
	Title     string   `json:"title"`
	Year      int      `json:"year,omitempty"`
	Citations int      `json:"citations"`
	Authors   []string `json:"authors,omitempty"`
	Venue     string   `json:"venue,omitempty"`
	URL       string   `json:"url,omitempty"`
}

// SnapshotCache holds every cached snapshot in memory and mirrors the map
// to a JSON file after each Put. The file is read once when the cache is
// opened; nothing else writes it while the process runs.
type SnapshotCache struct {
	path string
	log  *slog.Logger
	now  func() time.Time

	mu        sync.Mutex
	entries   map[string]ports.CacheEntry
	lastStamp time.Time
}

// OpenSnapshotCache loads the cache file at path. A missing file starts an
// empty cache; an unreadable one is logged and also starts empty, since the
// cache can always be rebuilt from the provider.
func OpenSnapshotCache(path string, log *slog.Logger) (*SnapshotCache, error) {
	return OpenSnapshotCacheWithClock(path, log, time.Now)
}

// OpenSnapshotCacheWithClock is OpenSnapshotCache with an injected clock
// for Put timestamps.
func OpenSnapshotCacheWithClock(path string, log *slog.Logger, now func() time.Time) (*SnapshotCache, error) {
	if log == nil {
		log = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	c := &SnapshotCache{
		path:    path,
		log:     log,
		now:     now,
		entries: make(map[string]ports.CacheEntry),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read cache file")
	}
	var file cacheFile
	if err := json.Unmarshal(data, &file); err != nil {
		log.Warn("cache file unreadable, starting with an empty cache", "path", path, "error", err)
		return c, nil
	}

	for facultyID, snap := range file.Snapshots {
		entry := entryFromFile(facultyID, snap)
		c.entries[facultyID] = entry
		// Seed the monotonic floor so restarts never stamp before the
		// newest entry already on disk.
		if entry.CachedAt.After(c.lastStamp) {
			c.lastStamp = entry.CachedAt
		}
	}
	return c, nil
}

// Get returns the cached entry for a faculty member.
func (c *SnapshotCache) Get(facultyID string) (ports.CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[facultyID]
	return entry, ok
}

// Put replaces the member's entry with a fresh timestamp and flushes the
// whole cache to disk before returning. Timestamps never go backwards,
// even if the clock does.
func (c *SnapshotCache) Put(facultyID string, snapshot ports.MetricsSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	stamp := c.now()
	if stamp.Before(c.lastStamp) {
		stamp = c.lastStamp
	} else {
		c.lastStamp = stamp
	}
	c.entries[facultyID] = ports.CacheEntry{Snapshot: snapshot, CachedAt: stamp}
	return c.flushLocked()
}

// Len returns the number of cached members.
func (c *SnapshotCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Entries returns a copy of the cache map.
func (c *SnapshotCache) Entries() map[string]ports.CacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]ports.CacheEntry, len(c.entries))
	for facultyID, entry := range c.entries {
		out[facultyID] = entry
	}
	return out
}

func (c *SnapshotCache) flushLocked() error {
	file := cacheFile{
		UpdatedAt: c.lastStamp.UTC().Format(time.RFC3339),
		Snapshots: make(map[string]snapshotFile, len(c.entries)),
	}
	for facultyID, entry := range c.entries {
		file.Snapshots[facultyID] = entryToFile(entry)
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode cache file")
	}
	return writeFileAtomic(c.path, append(data, '\n'))
}

func entryToFile(entry ports.CacheEntry) snapshotFile {
	snap := entry.Snapshot
	file := snapshotFile{
		ScholarID:          snap.ScholarID,
		Name:               snap.Name,
		Affiliation:        snap.Affiliation,
		EmailDomain:        snap.EmailDomain,
		Interests:          snap.Interests,
		Citations:          snap.Citations,
		Citations5y:        snap.Citations5y,
		HIndex:             snap.HIndex,
		HIndex5y:           snap.HIndex5y,
		I10Index:           snap.I10Index,
		I10Index5y:         snap.I10Index5y,
		PublicationCount:   snap.PublicationCount,
		PublicationsByYear: snap.PublicationsByYear,
		CitationsByYear:    snap.CitationsByYear,
		FetchedAt:          snap.FetchedAt,
		CachedAt:           entry.CachedAt,
	}
	for _, pub := range snap.Publications {
		file.Publications = append(file.Publications, publicationFile{
			Title:     pub.Title,
			Year:      pub.Year,
			Citations: pub.Citations,
			Authors:   pub.Authors,
			Venue:     pub.Venue,
			URL:       pub.URL,
		})
	}
	return file
}

func entryFromFile(facultyID string, file snapshotFile) ports.CacheEntry {
	snap := ports.MetricsSnapshot{
		FacultyID:          facultyID,
		ScholarID:          file.ScholarID,
		Name:               file.Name,
		Affiliation:        file.Affiliation,
		EmailDomain:        file.EmailDomain,
		Interests:          file.Interests,
		Citations:          file.Citations,
		Citations5y:        file.Citations5y,
		HIndex:             file.HIndex,
		HIndex5y:           file.HIndex5y,
		I10Index:           file.I10Index,
		I10Index5y:         file.I10Index5y,
		PublicationCount:   file.PublicationCount,
		PublicationsByYear: file.PublicationsByYear,
		CitationsByYear:    file.CitationsByYear,
		FetchedAt:          file.FetchedAt,
	}
	for _, pub := range file.Publications {
		snap.Publications = append(snap.Publications, ports.Publication{
			Title:     pub.Title,
			Year:      pub.Year,
			Citations: pub.Citations,
			Authors:   pub.Authors,
			Venue:     pub.Venue,
			URL:       pub.URL,
		})
	}
	return ports.CacheEntry{Snapshot: snap, CachedAt: file.CachedAt}
}

var _ ports.SnapshotCache = (*SnapshotCache)(nil)
