package routes

import (
	"net/http"
	"testing"
	"time"

	"scholardash/internal/app/ports"
	"scholardash/internal/app/services"
)

func newTestRefreshRoutes(store *fakeRecordStore, cache *fakeCache, source *scriptedSource) *RefreshRoutes {
	refresh := services.NewRefreshService(store, cache, source, nil, 24*time.Hour, nil)
	return NewRefreshRoutes(refresh)
}

func TestRefreshRunsFullRoster(t *testing.T) {
	store := &fakeRecordStore{roster: rosterFixture()}
	cache := newFakeCache()
	source := &scriptedSource{byScholarID: map[string]ports.FetchOutcome{
		"AbCdEfG": {Status: ports.FetchSuccess, Snapshot: snapshotFixture(300)},
		"HiJkLmN": {Status: ports.FetchSuccess, Snapshot: snapshotFixture(120)},
	}}
	e := newEcho(newTestRefreshRoutes(store, cache, source))

	rec := doRequest(e, http.MethodPost, "/api/v1/refresh", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	report := decodeJSON[refreshReportResponse](t, rec)
	if report.RunID == "" {
		t.Fatal("expected run id")
	}
	if report.Requested != 2 || report.Updated != 2 {
		t.Fatalf("unexpected counts: %+v", report)
	}
	for _, entry := range report.Entries {
		if entry.Disposition != "fetched" {
			t.Fatalf("expected fetched entries, got %+v", entry)
		}
	}
	if len(cache.puts) != 2 {
		t.Fatalf("expected 2 cache writes, got %d", len(cache.puts))
	}
}

func TestRefreshSelectedIdentifiers(t *testing.T) {
	store := &fakeRecordStore{roster: rosterFixture()}
	cache := newFakeCache()
	source := &scriptedSource{byScholarID: map[string]ports.FetchOutcome{
		"HiJkLmN": {Status: ports.FetchSuccess, Snapshot: snapshotFixture(120)},
	}}
	e := newEcho(newTestRefreshRoutes(store, cache, source))

	rec := doRequest(e, http.MethodPost, "/api/v1/refresh", `{"faculty_ids":[" 2 "]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	report := decodeJSON[refreshReportResponse](t, rec)
	if report.Requested != 1 {
		t.Fatalf("expected 1 entry, got %d", report.Requested)
	}
	if report.Entries[0].FacultyID != "2" {
		t.Fatalf("unexpected entry: %+v", report.Entries[0])
	}
	if source.calls != 1 {
		t.Fatalf("expected one provider call, got %d", source.calls)
	}
}

func TestRefreshUnknownIdentifierReported(t *testing.T) {
	store := &fakeRecordStore{roster: rosterFixture()}
	e := newEcho(newTestRefreshRoutes(store, newFakeCache(), &scriptedSource{}))

	rec := doRequest(e, http.MethodPost, "/api/v1/refresh", `{"faculty_ids":["99"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	report := decodeJSON[refreshReportResponse](t, rec)
	if report.Failed != 1 {
		t.Fatalf("expected 1 failed entry, got %+v", report)
	}
	if report.Entries[0].Disposition != "failed" {
		t.Fatalf("unexpected entry: %+v", report.Entries[0])
	}
}

func TestRefreshDegradedEntriesInReport(t *testing.T) {
	store := &fakeRecordStore{roster: rosterFixture()}
	cache := newFakeCache()
	cache.entries["1"] = cacheEntry(snapshotFixture(280), 48*time.Hour)
	source := &scriptedSource{byScholarID: map[string]ports.FetchOutcome{
		"AbCdEfG": {Status: ports.FetchRateLimited, RetryAfter: 30 * time.Second},
	}}
	e := newEcho(newTestRefreshRoutes(store, cache, source))

	rec := doRequest(e, http.MethodPost, "/api/v1/refresh", `{"faculty_ids":["1"]}`)
	report := decodeJSON[refreshReportResponse](t, rec)
	if report.Degraded != 1 {
		t.Fatalf("expected 1 degraded entry, got %+v", report)
	}
	entry := report.Entries[0]
	if entry.Disposition != "stale_fallback" || !entry.Degraded {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.Outcome != "rate_limited" {
		t.Fatalf("expected rate_limited outcome, got %q", entry.Outcome)
	}
}

func TestRefreshRejectsConcurrentRuns(t *testing.T) {
	routes := newTestRefreshRoutes(&fakeRecordStore{roster: rosterFixture()}, newFakeCache(), &scriptedSource{})
	e := newEcho(routes)

	routes.mu.Lock()
	defer routes.mu.Unlock()

	rec := doRequest(e, http.MethodPost, "/api/v1/refresh", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 while a run is in flight, got %d", rec.Code)
	}
}
