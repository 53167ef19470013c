package domain

// FacultyStatus is a read-model freshness state for roster views.
type FacultyStatus string

const (
	// FacultyStatusFresh indicates a current snapshot backs this member.
	FacultyStatusFresh FacultyStatus = "fresh"
	// FacultyStatusStale indicates the cached snapshot is past max age.
	FacultyStatusStale FacultyStatus = "stale"
	// FacultyStatusPending indicates no snapshot has been fetched yet.
	FacultyStatusPending FacultyStatus = "pending"
)

// FacultyOverview is one roster row joined with its cached metrics.
type FacultyOverview struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Designation   string        `json:"designation"`
	ResearchAreas []string      `json:"research_areas"`
	Status        FacultyStatus `json:"status"`
	Citations     int           `json:"citations"`
	HIndex        int           `json:"h_index"`
	I10Index      int           `json:"i10_index"`
	Publications  int           `json:"publications"`
	LastFetched   string        `json:"last_fetched,omitempty"`
}

// DepartmentSummary aggregates the whole department's metrics.
type DepartmentSummary struct {
	Department        string  `json:"department"`
	Institution       string  `json:"institution"`
	FacultyCount      int     `json:"faculty_count"`
	ProfilesFetched   int     `json:"profiles_fetched"`
	TotalCitations    int     `json:"total_citations"`
	TotalPublications int     `json:"total_publications"`
	AvgHIndex         float64 `json:"avg_h_index"`
	AvgCitations      float64 `json:"avg_citations"`
	MaxHIndex         int     `json:"max_h_index"`
	UpdatedAt         string  `json:"updated_at,omitempty"`
}

// FacultyRank is one row of a ranking table.
type FacultyRank struct {
	Rank        int    `json:"rank"`
	FacultyID   string `json:"faculty_id"`
	Name        string `json:"name"`
	Designation string `json:"designation"`
	Value       int    `json:"value"`
}

// YearGrowth is one year's count with growth relative to the prior year.
type YearGrowth struct {
	Year      int      `json:"year"`
	Count     int      `json:"count"`
	GrowthPct *float64 `json:"growth_pct,omitempty"`
}

// TrendSeries carries publication and citation series over a year range.
type TrendSeries struct {
	FromYear     int          `json:"from_year"`
	ToYear       int          `json:"to_year"`
	Publications []YearGrowth `json:"publications"`
	Citations    []YearGrowth `json:"citations"`
}

// AreaSlice is one research area's share of the department.
type AreaSlice struct {
	Area    string `json:"area"`
	Faculty int    `json:"faculty"`
}

// KeywordCount is one title keyword's frequency.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// VenueCount is one publication venue's frequency.
type VenueCount struct {
	Venue string `json:"venue"`
	Count int    `json:"count"`
}

// RankedPublication is one publication row in top-cited or recent lists.
type RankedPublication struct {
	Title     string `json:"title"`
	Year      int    `json:"year,omitempty"`
	Citations int    `json:"citations"`
	Venue     string `json:"venue,omitempty"`
	Faculty   string `json:"faculty"`
	URL       string `json:"url,omitempty"`
}

// CollaborationCell is one internal co-authorship pair count.
type CollaborationCell struct {
	FacultyA string `json:"faculty_a"`
	FacultyB string `json:"faculty_b"`
	Joint    int    `json:"joint_publications"`
}

// CollaborationStats summarizes co-authorship inside the department.
type CollaborationStats struct {
	Pairs            []CollaborationCell `json:"pairs"`
	AvgCoauthors     float64             `json:"avg_coauthors"`
	SoloPublications int                 `json:"solo_publications"`
}

// DesignationStats is per-designation productivity.
type DesignationStats struct {
	Designation     string  `json:"designation"`
	Faculty         int     `json:"faculty"`
	Publications    int     `json:"publications"`
	Citations       int     `json:"citations"`
	AvgPublications float64 `json:"avg_publications"`
}

// ImpactStats relates citations to publication volume.
type ImpactStats struct {
	CitationsPerPublication float64 `json:"citations_per_publication"`
	PublicationsPerFaculty  float64 `json:"publications_per_faculty"`
	HighImpactPublications  int     `json:"high_impact_publications"`
}

// TrendPoint is one archived observation for a faculty trend chart.
type TrendPoint struct {
	Citations    int    `json:"citations"`
	HIndex       int    `json:"h_index"`
	I10Index     int    `json:"i10_index"`
	Publications int    `json:"publications"`
	FetchedAt    string `json:"fetched_at"`
	RecordedAt   string `json:"recorded_at"`
}
