package routes

import (
	"net/http"
	"testing"
	"time"

	"scholardash/internal/app/domain"
	"scholardash/internal/app/ports"
	"scholardash/internal/app/services"
)

func newTestAPI(store *fakeRecordStore, cache *fakeCache, archive ports.HistoryArchive) *APIRoutes {
	return NewAPIRoutes(services.NewFacultyService(store), cache, archive, 24*time.Hour)
}

func TestHealthEndpoint(t *testing.T) {
	api := newTestAPI(&fakeRecordStore{roster: rosterFixture()}, newFakeCache(), nil)
	e := newEcho(api)

	rec := doRequest(e, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeJSON[map[string]string](t, rec)
	if body["status"] != "ok" {
		t.Fatalf("unexpected health body: %v", body)
	}
}

func TestFacultyListReturnsRoster(t *testing.T) {
	api := newTestAPI(&fakeRecordStore{roster: rosterFixture()}, newFakeCache(), nil)
	e := newEcho(api)

	rec := doRequest(e, http.MethodGet, "/api/v1/faculty", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeJSON[rosterResponse](t, rec)
	if body.Department != "Data Science" {
		t.Fatalf("unexpected department %q", body.Department)
	}
	if len(body.Faculty) != 2 {
		t.Fatalf("expected 2 members, got %d", len(body.Faculty))
	}
	if body.Faculty[0].ID != "1" || body.Faculty[0].Name != "Rajiv Kumar" {
		t.Fatalf("unexpected first member: %+v", body.Faculty[0])
	}
}

func TestFacultyCreateAddsMember(t *testing.T) {
	store := &fakeRecordStore{roster: rosterFixture()}
	api := newTestAPI(store, newFakeCache(), nil)
	e := newEcho(api)

	rec := doRequest(e, http.MethodPost, "/api/v1/faculty",
		`{"name":"  Anil Verma  ","designation":"Associate Professor","research_areas":["Databases","databases","Systems"]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeJSON[facultyResponse](t, rec)
	if body.ID != "3" {
		t.Fatalf("expected id 3, got %q", body.ID)
	}
	if body.Name != "Anil Verma" {
		t.Fatalf("expected trimmed name, got %q", body.Name)
	}
	if len(body.ResearchAreas) != 2 {
		t.Fatalf("expected deduplicated areas, got %v", body.ResearchAreas)
	}
	if store.saves != 1 {
		t.Fatalf("expected one save, got %d", store.saves)
	}
}

func TestFacultyCreateRequiresName(t *testing.T) {
	api := newTestAPI(&fakeRecordStore{roster: rosterFixture()}, newFakeCache(), nil)
	e := newEcho(api)

	rec := doRequest(e, http.MethodPost, "/api/v1/faculty", `{"name":"   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestFacultyUpdateMergesFields(t *testing.T) {
	api := newTestAPI(&fakeRecordStore{roster: rosterFixture()}, newFakeCache(), nil)
	e := newEcho(api)

	rec := doRequest(e, http.MethodPut, "/api/v1/faculty/2", `{"designation":"Associate Professor"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeJSON[facultyResponse](t, rec)
	if body.Designation != "Associate Professor" {
		t.Fatalf("designation not updated: %+v", body)
	}
	if body.Name != "Priya Sharma" {
		t.Fatalf("name should be untouched, got %q", body.Name)
	}
}

func TestFacultyUpdateUnknownID(t *testing.T) {
	api := newTestAPI(&fakeRecordStore{roster: rosterFixture()}, newFakeCache(), nil)
	e := newEcho(api)

	rec := doRequest(e, http.MethodPut, "/api/v1/faculty/99", `{"designation":"Professor"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestFacultyDeleteRemovesMember(t *testing.T) {
	store := &fakeRecordStore{roster: rosterFixture()}
	api := newTestAPI(store, newFakeCache(), nil)
	e := newEcho(api)

	rec := doRequest(e, http.MethodDelete, "/api/v1/faculty/2", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(store.roster.Faculty) != 1 {
		t.Fatalf("expected 1 remaining member, got %d", len(store.roster.Faculty))
	}

	rec = doRequest(e, http.MethodDelete, "/api/v1/faculty/2", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
}

func TestFacultyResetEndpoint(t *testing.T) {
	store := &fakeRecordStore{roster: rosterFixture()}
	api := newTestAPI(store, newFakeCache(), nil)
	e := newEcho(api)

	rec := doRequest(e, http.MethodPost, "/api/v1/faculty/reset", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeJSON[rosterResponse](t, rec)
	if body.Department != "Computer Science" {
		t.Fatalf("expected default department, got %q", body.Department)
	}
	if len(body.Faculty) != 6 {
		t.Fatalf("expected 6 default members, got %d", len(body.Faculty))
	}
	if store.saves != 1 {
		t.Fatalf("expected one save, got %d", store.saves)
	}
}

func TestFacultySearch(t *testing.T) {
	api := newTestAPI(&fakeRecordStore{roster: rosterFixture()}, newFakeCache(), nil)
	e := newEcho(api)

	rec := doRequest(e, http.MethodGet, "/api/v1/faculty/search?q=kumar", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	matches := decodeJSON[[]facultyResponse](t, rec)
	if len(matches) != 1 || matches[0].ID != "1" {
		t.Fatalf("unexpected matches: %+v", matches)
	}

	rec = doRequest(e, http.MethodGet, "/api/v1/faculty/search", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without query, got %d", rec.Code)
	}
}

func TestFacultyDetailIncludesCachedMetrics(t *testing.T) {
	cache := newFakeCache()
	cache.entries["1"] = cacheEntry(snapshotFixture(300), time.Hour)
	api := newTestAPI(&fakeRecordStore{roster: rosterFixture()}, cache, nil)
	e := newEcho(api)

	rec := doRequest(e, http.MethodGet, "/api/v1/faculty/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeJSON[facultyDetailResponse](t, rec)
	if body.Status != domain.FacultyStatusFresh {
		t.Fatalf("expected fresh status, got %q", body.Status)
	}
	if body.Metrics == nil {
		t.Fatal("expected metrics in detail response")
	}
	if body.Metrics.Citations != 300 {
		t.Fatalf("expected 300 citations, got %d", body.Metrics.Citations)
	}
	if len(body.Metrics.Publications) != 2 {
		t.Fatalf("expected publications in detail, got %d", len(body.Metrics.Publications))
	}
	if body.CachedAt == "" {
		t.Fatal("expected cached_at timestamp")
	}
}

func TestFacultyDetailWithoutSnapshot(t *testing.T) {
	api := newTestAPI(&fakeRecordStore{roster: rosterFixture()}, newFakeCache(), nil)
	e := newEcho(api)

	rec := doRequest(e, http.MethodGet, "/api/v1/faculty/2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeJSON[facultyDetailResponse](t, rec)
	if body.Status != domain.FacultyStatusPending {
		t.Fatalf("expected pending status, got %q", body.Status)
	}
	if body.Metrics != nil {
		t.Fatalf("expected no metrics, got %+v", body.Metrics)
	}
}

func TestFacultyDetailStaleStatus(t *testing.T) {
	cache := newFakeCache()
	cache.entries["1"] = cacheEntry(snapshotFixture(300), 48*time.Hour)
	api := newTestAPI(&fakeRecordStore{roster: rosterFixture()}, cache, nil)
	e := newEcho(api)

	rec := doRequest(e, http.MethodGet, "/api/v1/faculty/1", "")
	body := decodeJSON[facultyDetailResponse](t, rec)
	if body.Status != domain.FacultyStatusStale {
		t.Fatalf("expected stale status, got %q", body.Status)
	}
}

func TestFacultyDetailUnknownID(t *testing.T) {
	api := newTestAPI(&fakeRecordStore{roster: rosterFixture()}, newFakeCache(), nil)
	e := newEcho(api)

	rec := doRequest(e, http.MethodGet, "/api/v1/faculty/99", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestFacultyHistoryReturnsPoints(t *testing.T) {
	archive := &fakeArchive{points: []ports.SnapshotPoint{
		{FacultyID: "1", Citations: 280, HIndex: 9, PublicationCount: 2, FetchedAt: time.Now().Add(-48 * time.Hour), RecordedAt: time.Now().Add(-48 * time.Hour)},
		{FacultyID: "1", Citations: 300, HIndex: 10, PublicationCount: 2, FetchedAt: time.Now().Add(-time.Hour), RecordedAt: time.Now().Add(-time.Hour)},
		{FacultyID: "2", Citations: 50, HIndex: 4, PublicationCount: 1, FetchedAt: time.Now(), RecordedAt: time.Now()},
	}}
	api := newTestAPI(&fakeRecordStore{roster: rosterFixture()}, newFakeCache(), archive)
	e := newEcho(api)

	rec := doRequest(e, http.MethodGet, "/api/v1/faculty/1/history", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeJSON[historyResponse](t, rec)
	if body.FacultyID != "1" {
		t.Fatalf("unexpected faculty id %q", body.FacultyID)
	}
	if len(body.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(body.Points))
	}
	if body.Points[0].RecordedAt == "" {
		t.Fatal("expected recorded_at on points")
	}
}

func TestFacultyHistoryDisabled(t *testing.T) {
	api := newTestAPI(&fakeRecordStore{roster: rosterFixture()}, newFakeCache(), nil)
	e := newEcho(api)

	rec := doRequest(e, http.MethodGet, "/api/v1/faculty/1/history", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when history is disabled, got %d", rec.Code)
	}
}

func TestFacultyHistoryUnknownID(t *testing.T) {
	api := newTestAPI(&fakeRecordStore{roster: rosterFixture()}, newFakeCache(), &fakeArchive{})
	e := newEcho(api)

	rec := doRequest(e, http.MethodGet, "/api/v1/faculty/99/history", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
