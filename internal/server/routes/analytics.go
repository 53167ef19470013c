package routes

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"scholardash/internal/app/services"
)

// AnalyticsRoutes serves the computed read models behind the dashboard
// charts. Everything here is derived from the roster and the snapshot
// cache; nothing writes.
type AnalyticsRoutes struct {
	analytics *services.AnalyticsService
}

// NewAnalyticsRoutes constructs the analytics routes.
func NewAnalyticsRoutes(analytics *services.AnalyticsService) *AnalyticsRoutes {
	return &AnalyticsRoutes{analytics: analytics}
}

// RegisterRoutes registers the analytics endpoints.
func (a *AnalyticsRoutes) RegisterRoutes(s *echo.Echo) {
	api := s.Group("/api/v1/analytics")

	api.GET("/overview", a.handleOverview)
	api.GET("/summary", a.handleSummary)
	api.GET("/rankings", a.handleRankings)
	api.GET("/trends", a.handleTrends)
	api.GET("/research-areas", a.handleResearchAreas)
	api.GET("/keywords", a.handleKeywords)
	api.GET("/venues", a.handleVenues)
	api.GET("/publications/top", a.handleTopCited)
	api.GET("/publications/recent", a.handleRecent)
	api.GET("/collaboration", a.handleCollaboration)
	api.GET("/designations", a.handleDesignations)
	api.GET("/impact", a.handleImpact)
}

func (a *AnalyticsRoutes) handleOverview(c echo.Context) error {
	rows, err := a.analytics.Overview()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

func (a *AnalyticsRoutes) handleSummary(c echo.Context) error {
	summary, err := a.analytics.Summary()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

func (a *AnalyticsRoutes) handleRankings(c echo.Context) error {
	by := strings.TrimSpace(c.QueryParam("by"))
	switch by {
	case "", "citations":
		rows, err := a.analytics.RankingsByCitations()
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, rows)
	case "h_index":
		rows, err := a.analytics.RankingsByHIndex()
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, rows)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unknown ranking metric, use citations or h_index")
	}
}

func (a *AnalyticsRoutes) handleTrends(c echo.Context) error {
	series, err := a.analytics.Trends(
		intQueryParam(c, "from", 0),
		intQueryParam(c, "to", 0),
	)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, series)
}

func (a *AnalyticsRoutes) handleResearchAreas(c echo.Context) error {
	slices, err := a.analytics.ResearchAreas()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, slices)
}

func (a *AnalyticsRoutes) handleKeywords(c echo.Context) error {
	rows, err := a.analytics.Keywords(intQueryParam(c, "limit", 0))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

func (a *AnalyticsRoutes) handleVenues(c echo.Context) error {
	rows, err := a.analytics.Venues(intQueryParam(c, "limit", 0))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

func (a *AnalyticsRoutes) handleTopCited(c echo.Context) error {
	rows, err := a.analytics.TopCited(intQueryParam(c, "limit", 0))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

func (a *AnalyticsRoutes) handleRecent(c echo.Context) error {
	rows, err := a.analytics.Recent(intQueryParam(c, "limit", 0))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

func (a *AnalyticsRoutes) handleCollaboration(c echo.Context) error {
	stats, err := a.analytics.Collaboration()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (a *AnalyticsRoutes) handleDesignations(c echo.Context) error {
	rows, err := a.analytics.ByDesignation()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

func (a *AnalyticsRoutes) handleImpact(c echo.Context) error {
	stats, err := a.analytics.Impact()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
