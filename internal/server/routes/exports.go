package routes

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"scholardash/internal/app/domain"
	"scholardash/internal/app/services"
)

const exportRankingRows = 10

// ExportRoutes serves downloadable exports of the roster and the
// department report for sharing outside the dashboard.
type ExportRoutes struct {
	faculty   *services.FacultyService
	analytics *services.AnalyticsService
	now       func() time.Time
}

// NewExportRoutes constructs the export routes.
func NewExportRoutes(faculty *services.FacultyService, analytics *services.AnalyticsService) *ExportRoutes {
	return &ExportRoutes{faculty: faculty, analytics: analytics, now: time.Now}
}

// RegisterRoutes registers the export endpoints.
func (e *ExportRoutes) RegisterRoutes(s *echo.Echo) {
	api := s.Group("/api/v1/exports")

	api.GET("/roster.csv", e.handleRosterCSV)
	api.GET("/report.md", e.handleReportMarkdown)
}

func (e *ExportRoutes) handleRosterCSV(c echo.Context) error {
	roster, err := e.faculty.Roster()
	if err != nil {
		return err
	}
	rows, err := e.analytics.Overview()
	if err != nil {
		return err
	}
	metrics := make(map[string]domain.FacultyOverview, len(rows))
	for _, row := range rows {
		metrics[row.ID] = row
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{
		"id", "name", "designation", "email", "scholar_id", "research_areas",
		"joined_year", "status", "citations", "h_index", "i10_index",
		"publications", "last_fetched",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, rec := range roster.Faculty {
		row := metrics[rec.ID]
		record := []string{
			rec.ID,
			rec.Name,
			rec.Designation,
			rec.Email,
			rec.ScholarID,
			strings.Join(rec.ResearchAreas, "; "),
			yearOrEmpty(rec.JoinedYear),
			string(row.Status),
			strconv.Itoa(row.Citations),
			strconv.Itoa(row.HIndex),
			strconv.Itoa(row.I10Index),
			strconv.Itoa(row.Publications),
			row.LastFetched,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="faculty-roster.csv"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (e *ExportRoutes) handleReportMarkdown(c echo.Context) error {
	summary, err := e.analytics.Summary()
	if err != nil {
		return err
	}
	rankings, err := e.analytics.RankingsByCitations()
	if err != nil {
		return err
	}
	areas, err := e.analytics.ResearchAreas()
	if err != nil {
		return err
	}
	topCited, err := e.analytics.TopCited(exportRankingRows)
	if err != nil {
		return err
	}

	b := &strings.Builder{}
	title := strings.TrimSpace(summary.Department)
	if title == "" {
		title = "Department"
	}
	fmt.Fprintf(b, "# %s Research Report\n\n", title)
	if summary.Institution != "" {
		fmt.Fprintf(b, "%s\n\n", summary.Institution)
	}
	fmt.Fprintf(b, "Generated %s\n\n", e.now().UTC().Format("2006-01-02"))

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(b, "- Faculty members: %d\n", summary.FacultyCount)
	fmt.Fprintf(b, "- Profiles fetched: %d\n", summary.ProfilesFetched)
	fmt.Fprintf(b, "- Total citations: %d\n", summary.TotalCitations)
	fmt.Fprintf(b, "- Total publications: %d\n", summary.TotalPublications)
	fmt.Fprintf(b, "- Average H-index: %.1f\n", summary.AvgHIndex)
	fmt.Fprintf(b, "- Maximum H-index: %d\n\n", summary.MaxHIndex)

	if len(rankings) > 0 {
		b.WriteString("## Citation Rankings\n\n")
		b.WriteString("| Rank | Name | Designation | Citations |\n")
		b.WriteString("| ---- | ---- | ----------- | --------- |\n")
		for i, row := range rankings {
			if i >= exportRankingRows {
				break
			}
			fmt.Fprintf(b, "| %d | %s | %s | %d |\n", row.Rank, row.Name, row.Designation, row.Value)
		}
		b.WriteString("\n")
	}

	if len(topCited) > 0 {
		b.WriteString("## Most Cited Publications\n\n")
		for _, pub := range topCited {
			line := fmt.Sprintf("- %s (%d citations, %s)", pub.Title, pub.Citations, pub.Faculty)
			if pub.Year > 0 {
				line = fmt.Sprintf("- %s (%d, %d citations, %s)", pub.Title, pub.Year, pub.Citations, pub.Faculty)
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	if len(areas) > 0 {
		b.WriteString("## Research Areas\n\n")
		for _, area := range areas {
			fmt.Fprintf(b, "- %s: %d\n", area.Area, area.Faculty)
		}
		b.WriteString("\n")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="department-report.md"`)
	return c.Blob(http.StatusOK, "text/markdown; charset=utf-8", []byte(b.String()))
}

func yearOrEmpty(year int) string {
	if year <= 0 {
		return ""
	}
	return strconv.Itoa(year)
}
