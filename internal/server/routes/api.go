package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"scholardash/internal/app/domain"
	"scholardash/internal/app/ports"
	"scholardash/internal/app/services"
)

// APIRoutes serves the roster endpoints: listing, editing and inspecting
// faculty records plus each member's archived metric history.
type APIRoutes struct {
	faculty *services.FacultyService
	cache   ports.SnapshotCache
	archive ports.HistoryArchive
	maxAge  time.Duration
	now     func() time.Time
}

// NewAPIRoutes constructs the roster routes. archive may be nil when
// snapshot history is disabled.
func NewAPIRoutes(faculty *services.FacultyService, cache ports.SnapshotCache, archive ports.HistoryArchive, maxAge time.Duration) *APIRoutes {
	return &APIRoutes{
		faculty: faculty,
		cache:   cache,
		archive: archive,
		maxAge:  maxAge,
		now:     time.Now,
	}
}

// RegisterRoutes registers the roster endpoints.
func (a *APIRoutes) RegisterRoutes(s *echo.Echo) {
	s.GET("/health", a.handleHealth)

	api := s.Group("/api/v1")
	api.GET("/faculty", a.handleFacultyList)
	api.POST("/faculty", a.handleFacultyCreate)
	api.POST("/faculty/reset", a.handleFacultyReset)
	api.GET("/faculty/search", a.handleFacultySearch)
	api.GET("/faculty/:id", a.handleFacultyDetail)
	api.PUT("/faculty/:id", a.handleFacultyUpdate)
	api.DELETE("/faculty/:id", a.handleFacultyDelete)
	api.GET("/faculty/:id/history", a.handleFacultyHistory)
}

func (a *APIRoutes) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type rosterResponse struct {
	Department  string            `json:"department"`
	Institution string            `json:"institution"`
	UpdatedAt   string            `json:"updated_at,omitempty"`
	Faculty     []facultyResponse `json:"faculty"`
}

func (a *APIRoutes) handleFacultyList(c echo.Context) error {
	roster, err := a.faculty.Roster()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rosterToResponse(roster))
}

func (a *APIRoutes) handleFacultyReset(c echo.Context) error {
	roster, err := a.faculty.Reset()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rosterToResponse(roster))
}

func rosterToResponse(roster ports.Roster) rosterResponse {
	return rosterResponse{
		Department:  roster.Department,
		Institution: roster.Institution,
		UpdatedAt:   roster.UpdatedAt,
		Faculty:     facultyListToResponse(roster.Faculty),
	}
}

type facultyPayload struct {
	Name          string   `json:"name"`
	Designation   string   `json:"designation"`
	Email         string   `json:"email"`
	ScholarID     string   `json:"scholar_id"`
	ResearchAreas []string `json:"research_areas"`
	JoinedYear    int      `json:"joined_year"`
}

func (a *APIRoutes) handleFacultyCreate(c echo.Context) error {
	payload := facultyPayload{}
	if err := c.Bind(&payload); err != nil {
		return err
	}

	rec, err := a.faculty.Create(services.FacultyInput{
		Name:          payload.Name,
		Designation:   payload.Designation,
		Email:         payload.Email,
		ScholarID:     payload.ScholarID,
		ResearchAreas: payload.ResearchAreas,
		JoinedYear:    payload.JoinedYear,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, facultyToResponse(rec))
}

type facultyUpdatePayload struct {
	Name          *string   `json:"name"`
	Designation   *string   `json:"designation"`
	Email         *string   `json:"email"`
	ScholarID     *string   `json:"scholar_id"`
	ResearchAreas *[]string `json:"research_areas"`
	JoinedYear    *int      `json:"joined_year"`
}

func (a *APIRoutes) handleFacultyUpdate(c echo.Context) error {
	payload := facultyUpdatePayload{}
	if err := c.Bind(&payload); err != nil {
		return err
	}

	rec, err := a.faculty.Update(c.Param("id"), services.FacultyUpdate{
		Name:          payload.Name,
		Designation:   payload.Designation,
		Email:         payload.Email,
		ScholarID:     payload.ScholarID,
		ResearchAreas: payload.ResearchAreas,
		JoinedYear:    payload.JoinedYear,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, facultyToResponse(rec))
}

func (a *APIRoutes) handleFacultyDelete(c echo.Context) error {
	if err := a.faculty.Delete(c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (a *APIRoutes) handleFacultySearch(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
	}
	matches, err := a.faculty.FindByName(query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, facultyListToResponse(matches))
}

type publicationResponse struct {
	Title     string   `json:"title"`
	Year      int      `json:"year,omitempty"`
	Citations int      `json:"citations"`
	Authors   []string `json:"authors,omitempty"`
	Venue     string   `json:"venue,omitempty"`
	URL       string   `json:"url,omitempty"`
}

type metricsResponse struct {
	ScholarID          string                `json:"scholar_id,omitempty"`
	Affiliation        string                `json:"affiliation,omitempty"`
	Interests          []string              `json:"interests,omitempty"`
	Citations          int                   `json:"citations"`
	Citations5y        int                   `json:"citations_5y"`
	HIndex             int                   `json:"h_index"`
	HIndex5y           int                   `json:"h_index_5y"`
	I10Index           int                   `json:"i10_index"`
	I10Index5y         int                   `json:"i10_index_5y"`
	PublicationCount   int                   `json:"publication_count"`
	Publications       []publicationResponse `json:"publications,omitempty"`
	PublicationsByYear map[int]int           `json:"publications_by_year,omitempty"`
	CitationsByYear    map[int]int           `json:"citations_by_year,omitempty"`
	FetchedAt          string                `json:"fetched_at,omitempty"`
}

type facultyDetailResponse struct {
	facultyResponse
	Status   domain.FacultyStatus `json:"status"`
	CachedAt string               `json:"cached_at,omitempty"`
	Metrics  *metricsResponse     `json:"metrics,omitempty"`
}

func (a *APIRoutes) handleFacultyDetail(c echo.Context) error {
	rec, err := a.faculty.Get(c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	detail := facultyDetailResponse{
		facultyResponse: facultyToResponse(rec),
		Status:          domain.FacultyStatusPending,
	}
	if entry, ok := a.cache.Get(rec.ID); ok {
		detail.Status = domain.FacultyStatusFresh
		if entry.IsStale(a.now(), a.maxAge) {
			detail.Status = domain.FacultyStatusStale
		}
		detail.CachedAt = entry.CachedAt.UTC().Format(time.RFC3339)
		detail.Metrics = snapshotToResponse(entry.Snapshot)
	}
	return c.JSON(http.StatusOK, detail)
}

func snapshotToResponse(snapshot ports.MetricsSnapshot) *metricsResponse {
	out := &metricsResponse{
		ScholarID:          snapshot.ScholarID,
		Affiliation:        snapshot.Affiliation,
		Interests:          snapshot.Interests,
		Citations:          snapshot.Citations,
		Citations5y:        snapshot.Citations5y,
		HIndex:             snapshot.HIndex,
		HIndex5y:           snapshot.HIndex5y,
		I10Index:           snapshot.I10Index,
		I10Index5y:         snapshot.I10Index5y,
		PublicationCount:   snapshot.PublicationCount,
		PublicationsByYear: snapshot.PublicationsByYear,
		CitationsByYear:    snapshot.CitationsByYear,
	}
	if !snapshot.FetchedAt.IsZero() {
		out.FetchedAt = snapshot.FetchedAt.UTC().Format(time.RFC3339)
	}
	for _, pub := range snapshot.Publications {
		out.Publications = append(out.Publications, publicationResponse{
			Title:     pub.Title,
			Year:      pub.Year,
			Citations: pub.Citations,
			Authors:   pub.Authors,
			Venue:     pub.Venue,
			URL:       pub.URL,
		})
	}
	return out
}

type historyResponse struct {
	FacultyID string              `json:"faculty_id"`
	Points    []domain.TrendPoint `json:"points"`
}

func (a *APIRoutes) handleFacultyHistory(c echo.Context) error {
	if a.archive == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "snapshot history is not enabled")
	}
	id := c.Param("id")
	if _, err := a.faculty.Get(id); err != nil {
		return httpError(err)
	}

	points, err := a.archive.ListByFaculty(c.Request().Context(), id, intQueryParam(c, "limit", 0))
	if err != nil {
		return err
	}
	out := historyResponse{FacultyID: id, Points: make([]domain.TrendPoint, 0, len(points))}
	for _, point := range points {
		out.Points = append(out.Points, domain.TrendPoint{
			Citations:    point.Citations,
			HIndex:       point.HIndex,
			I10Index:     point.I10Index,
			Publications: point.PublicationCount,
			FetchedAt:    point.FetchedAt.UTC().Format(time.RFC3339),
			RecordedAt:   point.RecordedAt.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, out)
}
