package routes

import (
	"net/http"
	"testing"
	"time"

	"scholardash/internal/app/domain"
	"scholardash/internal/app/services"
)

func newTestAnalyticsRoutes(store *fakeRecordStore, cache *fakeCache) *AnalyticsRoutes {
	return NewAnalyticsRoutes(services.NewAnalyticsService(store, cache, 24*time.Hour))
}

func TestAnalyticsSummaryEndpoint(t *testing.T) {
	cache := newFakeCache()
	cache.entries["1"] = cacheEntry(snapshotFixture(300), time.Hour)
	e := newEcho(newTestAnalyticsRoutes(&fakeRecordStore{roster: rosterFixture()}, cache))

	rec := doRequest(e, http.MethodGet, "/api/v1/analytics/summary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	summary := decodeJSON[domain.DepartmentSummary](t, rec)
	if summary.Department != "Data Science" {
		t.Fatalf("unexpected department %q", summary.Department)
	}
	if summary.FacultyCount != 2 || summary.ProfilesFetched != 1 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
	if summary.TotalCitations != 300 {
		t.Fatalf("expected 300 total citations, got %d", summary.TotalCitations)
	}
}

func TestAnalyticsOverviewStatuses(t *testing.T) {
	cache := newFakeCache()
	cache.entries["1"] = cacheEntry(snapshotFixture(300), 48*time.Hour)
	e := newEcho(newTestAnalyticsRoutes(&fakeRecordStore{roster: rosterFixture()}, cache))

	rec := doRequest(e, http.MethodGet, "/api/v1/analytics/overview", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rows := decodeJSON[[]domain.FacultyOverview](t, rec)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Status != domain.FacultyStatusStale {
		t.Fatalf("expected stale first row, got %q", rows[0].Status)
	}
	if rows[1].Status != domain.FacultyStatusPending {
		t.Fatalf("expected pending second row, got %q", rows[1].Status)
	}
}

func TestAnalyticsRankingsMetricParam(t *testing.T) {
	cache := newFakeCache()
	cache.entries["1"] = cacheEntry(snapshotFixture(300), time.Hour)
	e := newEcho(newTestAnalyticsRoutes(&fakeRecordStore{roster: rosterFixture()}, cache))

	rec := doRequest(e, http.MethodGet, "/api/v1/analytics/rankings", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for default metric, got %d", rec.Code)
	}
	rows := decodeJSON[[]domain.FacultyRank](t, rec)
	if len(rows) != 1 || rows[0].Value != 300 {
		t.Fatalf("unexpected citation rankings: %+v", rows)
	}

	rec = doRequest(e, http.MethodGet, "/api/v1/analytics/rankings?by=h_index", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for h_index, got %d", rec.Code)
	}
	rows = decodeJSON[[]domain.FacultyRank](t, rec)
	if len(rows) != 1 || rows[0].Value != 10 {
		t.Fatalf("unexpected h-index rankings: %+v", rows)
	}

	rec = doRequest(e, http.MethodGet, "/api/v1/analytics/rankings?by=shoe_size", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown metric, got %d", rec.Code)
	}
}

func TestAnalyticsTrendsYearRange(t *testing.T) {
	cache := newFakeCache()
	cache.entries["1"] = cacheEntry(snapshotFixture(300), time.Hour)
	e := newEcho(newTestAnalyticsRoutes(&fakeRecordStore{roster: rosterFixture()}, cache))

	rec := doRequest(e, http.MethodGet, "/api/v1/analytics/trends?from=2023&to=2024", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	series := decodeJSON[domain.TrendSeries](t, rec)
	if series.FromYear != 2023 || series.ToYear != 2024 {
		t.Fatalf("unexpected range: %+v", series)
	}
	if len(series.Publications) != 2 {
		t.Fatalf("expected 2 publication points, got %d", len(series.Publications))
	}
	if series.Publications[0].Count != 1 || series.Publications[1].Count != 1 {
		t.Fatalf("unexpected publication counts: %+v", series.Publications)
	}
}

func TestAnalyticsKeywordsLimit(t *testing.T) {
	cache := newFakeCache()
	cache.entries["1"] = cacheEntry(snapshotFixture(300), time.Hour)
	e := newEcho(newTestAnalyticsRoutes(&fakeRecordStore{roster: rosterFixture()}, cache))

	rec := doRequest(e, http.MethodGet, "/api/v1/analytics/keywords?limit=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rows := decodeJSON[[]domain.KeywordCount](t, rec)
	if len(rows) != 1 {
		t.Fatalf("expected limit to apply, got %d rows", len(rows))
	}
}
