package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"scholardash/internal/db"
)

// DiagnosticsRoutes exposes operational introspection for the history
// database, primarily per-query latency percentiles.
type DiagnosticsRoutes struct {
	database *db.Database
}

// NewDiagnosticsRoutes constructs the diagnostics routes. database may be
// nil when snapshot history is disabled.
func NewDiagnosticsRoutes(database *db.Database) *DiagnosticsRoutes {
	return &DiagnosticsRoutes{database: database}
}

// RegisterRoutes registers the diagnostics endpoints.
func (d *DiagnosticsRoutes) RegisterRoutes(s *echo.Echo) {
	s.GET("/api/v1/diagnostics/queries", d.handleQueryStats)
}

type queryStatResponse struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	P50   string `json:"p50"`
	P95   string `json:"p95"`
	Max   string `json:"max"`
}

func (d *DiagnosticsRoutes) handleQueryStats(c echo.Context) error {
	rows := make([]queryStatResponse, 0)
	if d.database == nil {
		return c.JSON(http.StatusOK, rows)
	}
	for _, stat := range d.database.QueryLatencyStats() {
		rows = append(rows, queryStatResponse{
			Name:  stat.Name,
			Count: stat.Count,
			P50:   stat.P50.String(),
			P95:   stat.P95.String(),
			Max:   stat.Max.String(),
		})
	}
	return c.JSON(http.StatusOK, rows)
}
