package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"scholardash/internal/app/ports"
)

type fakeRecordStore struct {
	roster  ports.Roster
	loadErr error
	saveErr error
	saves   int
}

func (f *fakeRecordStore) Load() (ports.Roster, error) {
	if f.loadErr != nil {
		return ports.Roster{}, f.loadErr
	}
	return f.roster, nil
}

func (f *fakeRecordStore) Save(roster ports.Roster) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.roster = roster
	return nil
}

type fakeCache struct {
	entries map[string]ports.CacheEntry
	puts    []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]ports.CacheEntry)}
}

func (f *fakeCache) Get(facultyID string) (ports.CacheEntry, bool) {
	entry, ok := f.entries[facultyID]
	return entry, ok
}

func (f *fakeCache) Put(facultyID string, snapshot ports.MetricsSnapshot) error {
	f.puts = append(f.puts, facultyID)
	f.entries[facultyID] = ports.CacheEntry{Snapshot: snapshot, CachedAt: time.Now()}
	return nil
}

func (f *fakeCache) Len() int { return len(f.entries) }

func (f *fakeCache) Entries() map[string]ports.CacheEntry {
	out := make(map[string]ports.CacheEntry, len(f.entries))
	for id, entry := range f.entries {
		out[id] = entry
	}
	return out
}

type scriptedSource struct {
	byScholarID map[string]ports.FetchOutcome
	byName      map[string]ports.FetchOutcome
	calls       int
}

func (s *scriptedSource) FetchByScholarID(_ context.Context, scholarID string) ports.FetchOutcome {
	s.calls++
	if outcome, ok := s.byScholarID[scholarID]; ok {
		return outcome
	}
	return ports.FetchOutcome{Status: ports.FetchNotFound, Reason: "no script for " + scholarID}
}

func (s *scriptedSource) SearchByName(_ context.Context, name string) ports.FetchOutcome {
	s.calls++
	if outcome, ok := s.byName[name]; ok {
		return outcome
	}
	return ports.FetchOutcome{Status: ports.FetchNotFound, Reason: "no script for " + name}
}

type fakeArchive struct {
	points  []ports.SnapshotPoint
	listErr error
}

func (f *fakeArchive) Append(_ context.Context, snapshot ports.MetricsSnapshot) error {
	f.points = append(f.points, ports.SnapshotPoint{
		FacultyID:        snapshot.FacultyID,
		ScholarID:        snapshot.ScholarID,
		Name:             snapshot.Name,
		Citations:        snapshot.Citations,
		HIndex:           snapshot.HIndex,
		I10Index:         snapshot.I10Index,
		PublicationCount: snapshot.PublicationCount,
		FetchedAt:        snapshot.FetchedAt,
		RecordedAt:       time.Now(),
	})
	return nil
}

func (f *fakeArchive) ListByFaculty(_ context.Context, facultyID string, limit int) ([]ports.SnapshotPoint, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []ports.SnapshotPoint
	for _, point := range f.points {
		if point.FacultyID == facultyID {
			out = append(out, point)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeArchive) Close() error { return nil }

func rosterFixture() ports.Roster {
	return ports.Roster{
		Department:  "Data Science",
		Institution: "Central University",
		UpdatedAt:   "2026-02-20T10:00:00Z",
		Faculty: []ports.FacultyRecord{
			{
				ID:             "1",
				Name:           "Rajiv Kumar",
				Designation:    "Professor",
				Email:          "rajiv@univ.edu",
				ScholarID:      "AbCdEfG",
				ResearchAreas:  []string{"Machine Learning", "NLP"},
				JoinedYear:     2012,
				ProfileFetched: true,
			},
			{
				ID:          "2",
				Name:        "Priya Sharma",
				Designation: "Assistant Professor",
				ScholarID:   "HiJkLmN",
				JoinedYear:  2019,
			},
		},
	}
}

func snapshotFixture(citations int) ports.MetricsSnapshot {
	return ports.MetricsSnapshot{
		ScholarID:        "AbCdEfG",
		Name:             "Rajiv Kumar",
		Citations:        citations,
		HIndex:           10,
		I10Index:         8,
		PublicationCount: 2,
		Publications: []ports.Publication{
			{Title: "Deep Learning for Crop Yield", Year: 2024, Citations: citations - 100, Venue: "ICML", Authors: []string{"Rajiv Kumar", "Priya Sharma"}},
			{Title: "Crop Disease Detection", Year: 2023, Citations: 100, Venue: "KDD", Authors: []string{"Rajiv Kumar"}},
		},
		PublicationsByYear: map[int]int{2023: 1, 2024: 1},
		CitationsByYear:    map[int]int{2023: 100, 2024: citations - 100},
		FetchedAt:          time.Now().Add(-time.Hour),
	}
}

func cacheEntry(snapshot ports.MetricsSnapshot, age time.Duration) ports.CacheEntry {
	return ports.CacheEntry{Snapshot: snapshot, CachedAt: time.Now().Add(-age)}
}

func newEcho(registrars ...interface{ RegisterRoutes(s *echo.Echo) }) *echo.Echo {
	e := echo.New()
	for _, r := range registrars {
		r.RegisterRoutes(e)
	}
	return e
}

func doRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}
