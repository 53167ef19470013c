package routes

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"scholardash/internal/app/ports"
	"scholardash/internal/app/services"
)

// httpError converts known service errors into HTTP status responses and
// passes everything else through to the default handler.
func httpError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, services.ErrFacultyNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "faculty member not found")
	case errors.Is(err, services.ErrNameRequired):
		return echo.NewHTTPError(http.StatusBadRequest, "faculty name is required")
	default:
		return err
	}
}

func intQueryParam(c echo.Context, name string, fallback int) int {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

type facultyResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Designation    string   `json:"designation,omitempty"`
	Email          string   `json:"email,omitempty"`
	ScholarID      string   `json:"scholar_id,omitempty"`
	ResearchAreas  []string `json:"research_areas,omitempty"`
	JoinedYear     int      `json:"joined_year,omitempty"`
	ProfileFetched bool     `json:"profile_fetched"`
}

func facultyToResponse(rec ports.FacultyRecord) facultyResponse {
	return facultyResponse{
		ID:             rec.ID,
		Name:           rec.Name,
		Designation:    rec.Designation,
		Email:          rec.Email,
		ScholarID:      rec.ScholarID,
		ResearchAreas:  rec.ResearchAreas,
		JoinedYear:     rec.JoinedYear,
		ProfileFetched: rec.ProfileFetched,
	}
}

func facultyListToResponse(records []ports.FacultyRecord) []facultyResponse {
	out := make([]facultyResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, facultyToResponse(rec))
	}
	return out
}
