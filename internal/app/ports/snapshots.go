package ports

import "time"

// Publication is one publication attributed to an author.
type Publication struct {
	Title     string
	Year      int
	Citations int
	Authors   []string
	Venue     string
	URL       string
}

// MetricsSnapshot is one author's publication metrics captured from the
// scholarly provider at a point in time.
type MetricsSnapshot struct {
	FacultyID          string
	ScholarID          string
	Name               string
	Affiliation        string
	EmailDomain        string
	Interests          []string
	Citations          int
	Citations5y        int
	HIndex             int
	HIndex5y           int
	I10Index           int
	I10Index5y         int
	PublicationCount   int
	Publications       []Publication
	PublicationsByYear map[int]int
	CitationsByYear    map[int]int
	FetchedAt          time.Time
}
