package routes

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"scholardash/internal/app/ports"
	"scholardash/internal/app/services"
)

// A refresh run walks the whole roster through the provider throttle, so a
// single client hammering the endpoint gets throttled well before the
// provider does.
const (
	refreshRequestsPerSecond = 0.2
	refreshBurst             = 3
)

// RefreshRoutes triggers ingestion pipeline runs. Only one run may be in
// flight at a time; concurrent triggers are rejected instead of queued.
type RefreshRoutes struct {
	refresh *services.RefreshService

	mu sync.Mutex
}

// NewRefreshRoutes constructs the refresh trigger routes.
func NewRefreshRoutes(refresh *services.RefreshService) *RefreshRoutes {
	return &RefreshRoutes{refresh: refresh}
}

// RegisterRoutes registers the refresh endpoint.
func (r *RefreshRoutes) RegisterRoutes(s *echo.Echo) {
	limiter := middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(refreshRequestsPerSecond),
			Burst:     refreshBurst,
			ExpiresIn: 3 * time.Minute,
		}),
	})

	s.POST("/api/v1/refresh", r.handleRefresh, limiter)
}

type refreshRequest struct {
	FacultyIDs []string `json:"faculty_ids"`
}

type refreshEntryResponse struct {
	FacultyID   string `json:"faculty_id"`
	Name        string `json:"name,omitempty"`
	Disposition string `json:"disposition"`
	Outcome     string `json:"outcome,omitempty"`
	Degraded    bool   `json:"degraded,omitempty"`
	Detail      string `json:"detail,omitempty"`
}

type refreshReportResponse struct {
	RunID      string                 `json:"run_id"`
	StartedAt  string                 `json:"started_at"`
	FinishedAt string                 `json:"finished_at"`
	DurationMS int64                  `json:"duration_ms"`
	Requested  int                    `json:"requested"`
	Updated    int                    `json:"updated"`
	Degraded   int                    `json:"degraded"`
	NotFound   int                    `json:"not_found"`
	Failed     int                    `json:"failed"`
	Cancelled  int                    `json:"cancelled"`
	Entries    []refreshEntryResponse `json:"entries"`
}

func (r *RefreshRoutes) handleRefresh(c echo.Context) error {
	if !r.mu.TryLock() {
		return echo.NewHTTPError(http.StatusConflict, "a refresh run is already in progress")
	}
	defer r.mu.Unlock()

	payload := refreshRequest{}
	if err := c.Bind(&payload); err != nil {
		return err
	}
	ids := make([]string, 0, len(payload.FacultyIDs))
	for _, id := range payload.FacultyIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	ctx := c.Request().Context()
	var report ports.PipelineReport
	if len(ids) == 0 {
		var err error
		report, err = r.refresh.RefreshAll(ctx)
		if err != nil {
			return err
		}
	} else {
		report = r.refresh.Refresh(ctx, ids)
	}

	return c.JSON(http.StatusOK, reportToResponse(report))
}

func reportToResponse(report ports.PipelineReport) refreshReportResponse {
	counts := report.Counts()
	out := refreshReportResponse{
		RunID:      report.RunID,
		StartedAt:  report.StartedAt.UTC().Format(time.RFC3339),
		FinishedAt: report.FinishedAt.UTC().Format(time.RFC3339),
		DurationMS: report.FinishedAt.Sub(report.StartedAt).Milliseconds(),
		Requested:  len(report.Entries),
		Updated:    counts.Updated(),
		Degraded:   counts.StaleFallback,
		NotFound:   counts.NotFound,
		Failed:     counts.Failed,
		Cancelled:  counts.Cancelled,
		Entries:    make([]refreshEntryResponse, 0, len(report.Entries)),
	}
	for _, entry := range report.Entries {
		out.Entries = append(out.Entries, refreshEntryResponse{
			FacultyID:   entry.FacultyID,
			Name:        entry.Name,
			Disposition: string(entry.Disposition),
			Outcome:     string(entry.Outcome),
			Degraded:    entry.Degraded,
			Detail:      entry.Detail,
		})
	}
	return out
}
