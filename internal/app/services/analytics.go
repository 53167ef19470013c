package services

import (
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"scholardash/internal/app/domain"
	"scholardash/internal/app/ports"
)

// highImpactCitations is the citation floor for counting a publication as
// high impact.
const highImpactCitations = 100

// stopWords are title tokens excluded from keyword statistics.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "from": {}, "using": {},
	"based": {}, "via": {}, "into": {}, "over": {}, "under": {}, "between": {},
	"analysis": {}, "approach": {}, "study": {}, "towards": {}, "toward": {},
	"method": {}, "methods": {}, "new": {}, "novel": {},
}

// AnalyticsService computes descriptive statistics over the roster and the
// cached snapshots. It only ever reads; the pipeline owns all writes.
type AnalyticsService struct {
	records ports.RecordStore
	cache   ports.SnapshotCache
	maxAge  time.Duration
	now     func() time.Time
}

// NewAnalyticsService builds the read-side service.
func NewAnalyticsService(records ports.RecordStore, cache ports.SnapshotCache, maxAge time.Duration) *AnalyticsService {
	return &AnalyticsService{records: records, cache: cache, maxAge: maxAge, now: time.Now}
}

type memberMetrics struct {
	rec      ports.FacultyRecord
	snapshot *ports.MetricsSnapshot
	cachedAt time.Time
}

func (s *AnalyticsService) load() (ports.Roster, []memberMetrics, error) {
	roster, err := s.records.Load()
	if err != nil {
		return ports.Roster{}, nil, errors.Wrap(err, "load roster")
	}
	members := make([]memberMetrics, 0, len(roster.Faculty))
	for _, rec := range roster.Faculty {
		m := memberMetrics{rec: rec}
		if entry, ok := s.cache.Get(rec.ID); ok {
			snapshot := entry.Snapshot
			m.snapshot = &snapshot
			m.cachedAt = entry.CachedAt
		}
		members = append(members, m)
	}
	return roster, members, nil
}

// Overview returns one row per roster member joined with cached metrics.
func (s *AnalyticsService) Overview() ([]domain.FacultyOverview, error) {
	_, members, err := s.load()
	if err != nil {
		return nil, err
	}
	now := s.now()
	rows := make([]domain.FacultyOverview, 0, len(members))
	for _, m := range members {
		row := domain.FacultyOverview{
			ID:            m.rec.ID,
			Name:          m.rec.Name,
			Designation:   m.rec.Designation,
			ResearchAreas: m.rec.ResearchAreas,
			Status:        domain.FacultyStatusPending,
		}
		if m.snapshot != nil {
			row.Status = domain.FacultyStatusFresh
			if now.Sub(m.cachedAt) > s.maxAge {
				row.Status = domain.FacultyStatusStale
			}
			row.Citations = m.snapshot.Citations
			row.HIndex = m.snapshot.HIndex
			row.I10Index = m.snapshot.I10Index
			row.Publications = m.snapshot.PublicationCount
			if !m.snapshot.FetchedAt.IsZero() {
				row.LastFetched = m.snapshot.FetchedAt.UTC().Format(time.RFC3339)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Summary aggregates the department's headline numbers.
func (s *AnalyticsService) Summary() (domain.DepartmentSummary, error) {
	roster, members, err := s.load()
	if err != nil {
		return domain.DepartmentSummary{}, err
	}
	summary := domain.DepartmentSummary{
		Department:   roster.Department,
		Institution:  roster.Institution,
		FacultyCount: len(members),
		UpdatedAt:    roster.UpdatedAt,
	}
	totalH := 0
	for _, m := range members {
		if m.snapshot == nil {
			continue
		}
		summary.ProfilesFetched++
		summary.TotalCitations += m.snapshot.Citations
		summary.TotalPublications += m.snapshot.PublicationCount
		totalH += m.snapshot.HIndex
		if m.snapshot.HIndex > summary.MaxHIndex {
			summary.MaxHIndex = m.snapshot.HIndex
		}
	}
	if summary.ProfilesFetched > 0 {
		summary.AvgHIndex = round2(safeDiv(float64(totalH), float64(summary.ProfilesFetched)))
		summary.AvgCitations = round2(safeDiv(float64(summary.TotalCitations), float64(summary.ProfilesFetched)))
	}
	return summary, nil
}

// RankingsByCitations orders fetched members by total citations.
func (s *AnalyticsService) RankingsByCitations() ([]domain.FacultyRank, error) {
	return s.rankings(func(snapshot *ports.MetricsSnapshot) int { return snapshot.Citations })
}

// RankingsByHIndex orders fetched members by H-index.
func (s *AnalyticsService) RankingsByHIndex() ([]domain.FacultyRank, error) {
	return s.rankings(func(snapshot *ports.MetricsSnapshot) int { return snapshot.HIndex })
}

func (s *AnalyticsService) rankings(value func(*ports.MetricsSnapshot) int) ([]domain.FacultyRank, error) {
	_, members, err := s.load()
	if err != nil {
		return nil, err
	}
	rows := make([]domain.FacultyRank, 0, len(members))
	for _, m := range members {
		if m.snapshot == nil {
			continue
		}
		rows = append(rows, domain.FacultyRank{
			FacultyID:   m.rec.ID,
			Name:        m.rec.Name,
			Designation: m.rec.Designation,
			Value:       value(m.snapshot),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Value != rows[j].Value {
			return rows[i].Value > rows[j].Value
		}
		return rows[i].Name < rows[j].Name
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}

// Trends aggregates per-year publication and citation counts across the
// department. A zero year range selects the default window.
func (s *AnalyticsService) Trends(fromYear, toYear int) (domain.TrendSeries, error) {
	_, members, err := s.load()
	if err != nil {
		return domain.TrendSeries{}, err
	}
	if fromYear == 0 && toYear == 0 {
		fromYear, toYear = DefaultYearRange(s.now())
	}
	if toYear < fromYear {
		fromYear, toYear = toYear, fromYear
	}

	pubs := make(map[int]int)
	cites := make(map[int]int)
	for _, m := range members {
		if m.snapshot == nil {
			continue
		}
		for year, count := range m.snapshot.PublicationsByYear {
			if year >= fromYear && year <= toYear {
				pubs[year] += count
			}
		}
		for year, count := range m.snapshot.CitationsByYear {
			if year >= fromYear && year <= toYear {
				cites[year] += count
			}
		}
	}

	series := domain.TrendSeries{
		FromYear:     fromYear,
		ToYear:       toYear,
		Publications: growthSeries(pubs, fromYear, toYear),
		Citations:    growthSeries(cites, fromYear, toYear),
	}
	return series, nil
}

func growthSeries(counts map[int]int, fromYear, toYear int) []domain.YearGrowth {
	out := make([]domain.YearGrowth, 0, toYear-fromYear+1)
	for year := fromYear; year <= toYear; year++ {
		point := domain.YearGrowth{Year: year, Count: counts[year]}
		if year > fromYear {
			prev := counts[year-1]
			if prev > 0 {
				pct := round2(float64(point.Count-prev) / float64(prev) * 100)
				point.GrowthPct = &pct
			}
		}
		out = append(out, point)
	}
	return out
}

// ResearchAreas counts roster members per research area tag.
func (s *AnalyticsService) ResearchAreas() ([]domain.AreaSlice, error) {
	_, members, err := s.load()
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	display := make(map[string]string)
	for _, m := range members {
		for _, area := range m.rec.ResearchAreas {
			key := strings.ToLower(strings.TrimSpace(area))
			if key == "" {
				continue
			}
			counts[key]++
			if _, ok := display[key]; !ok {
				display[key] = strings.TrimSpace(area)
			}
		}
	}
	out := make([]domain.AreaSlice, 0, len(counts))
	for key, count := range counts {
		out = append(out, domain.AreaSlice{Area: display[key], Faculty: count})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Faculty != out[j].Faculty {
			return out[i].Faculty > out[j].Faculty
		}
		return out[i].Area < out[j].Area
	})
	return out, nil
}

// Keywords tallies the most frequent publication-title tokens.
func (s *AnalyticsService) Keywords(limit int) ([]domain.KeywordCount, error) {
	_, members, err := s.load()
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, m := range members {
		if m.snapshot == nil {
			continue
		}
		for _, pub := range m.snapshot.Publications {
			for _, token := range titleTokens(pub.Title) {
				counts[token]++
			}
		}
	}
	out := make([]domain.KeywordCount, 0, len(counts))
	for keyword, count := range counts {
		out = append(out, domain.KeywordCount{Keyword: keyword, Count: count})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Keyword < out[j].Keyword
	})
	return clampLen(out, limit, 20), nil
}

func titleTokens(title string) []string {
	fields := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
	var out []string
	for _, field := range fields {
		if len(field) < 3 {
			continue
		}
		if _, skip := stopWords[field]; skip {
			continue
		}
		out = append(out, field)
	}
	return out
}

// Venues tallies publication venues.
func (s *AnalyticsService) Venues(limit int) ([]domain.VenueCount, error) {
	_, members, err := s.load()
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, m := range members {
		if m.snapshot == nil {
			continue
		}
		for _, pub := range m.snapshot.Publications {
			venue := strings.TrimSpace(pub.Venue)
			if venue == "" {
				continue
			}
			counts[venue]++
		}
	}
	out := make([]domain.VenueCount, 0, len(counts))
	for venue, count := range counts {
		out = append(out, domain.VenueCount{Venue: venue, Count: count})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Venue < out[j].Venue
	})
	return clampLen(out, limit, 15), nil
}

// TopCited lists the most cited publications across the department.
func (s *AnalyticsService) TopCited(limit int) ([]domain.RankedPublication, error) {
	rows, err := s.allPublications()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Citations != rows[j].Citations {
			return rows[i].Citations > rows[j].Citations
		}
		return rows[i].Title < rows[j].Title
	})
	return clampLen(rows, limit, 10), nil
}

// Recent lists the newest publications across the department.
func (s *AnalyticsService) Recent(limit int) ([]domain.RankedPublication, error) {
	rows, err := s.allPublications()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year > rows[j].Year
		}
		return rows[i].Citations > rows[j].Citations
	})
	return clampLen(rows, limit, 10), nil
}

func (s *AnalyticsService) allPublications() ([]domain.RankedPublication, error) {
	_, members, err := s.load()
	if err != nil {
		return nil, err
	}
	var rows []domain.RankedPublication
	for _, m := range members {
		if m.snapshot == nil {
			continue
		}
		for _, pub := range m.snapshot.Publications {
			rows = append(rows, domain.RankedPublication{
				Title:     pub.Title,
				Year:      pub.Year,
				Citations: pub.Citations,
				Venue:     pub.Venue,
				Faculty:   m.rec.Name,
				URL:       pub.URL,
			})
		}
	}
	return rows, nil
}

// Collaboration summarizes co-authorship inside the department.
func (s *AnalyticsService) Collaboration() (domain.CollaborationStats, error) {
	_, members, err := s.load()
	if err != nil {
		return domain.CollaborationStats{}, err
	}

	nameToID := make(map[string]string, len(members))
	idToName := make(map[string]string, len(members))
	for _, m := range members {
		key := strings.ToLower(strings.TrimSpace(m.rec.Name))
		if key != "" {
			nameToID[key] = m.rec.ID
			idToName[m.rec.ID] = m.rec.Name
		}
	}

	pairCounts := make(map[[2]string]int)
	seen := make(map[string]struct{})
	totalCoauthors := 0
	authored := 0
	solo := 0

	for _, m := range members {
		if m.snapshot == nil {
			continue
		}
		for _, pub := range m.snapshot.Publications {
			if len(pub.Authors) == 0 {
				continue
			}
			authored++
			totalCoauthors += len(pub.Authors) - 1
			if len(pub.Authors) == 1 {
				solo++
			}
			for _, author := range pub.Authors {
				otherID, ok := nameToID[strings.ToLower(strings.TrimSpace(author))]
				if !ok || otherID == m.rec.ID {
					continue
				}
				pair := [2]string{m.rec.ID, otherID}
				if pair[0] > pair[1] {
					pair[0], pair[1] = pair[1], pair[0]
				}
				// The same joint publication shows up in both authors'
				// snapshots; dedupe on pair + title.
				dedupe := pair[0] + "|" + pair[1] + "|" + strings.ToLower(pub.Title)
				if _, dup := seen[dedupe]; dup {
					continue
				}
				seen[dedupe] = struct{}{}
				pairCounts[pair]++
			}
		}
	}

	stats := domain.CollaborationStats{SoloPublications: solo}
	if authored > 0 {
		stats.AvgCoauthors = round2(safeDiv(float64(totalCoauthors), float64(authored)))
	}
	for pair, count := range pairCounts {
		stats.Pairs = append(stats.Pairs, domain.CollaborationCell{
			FacultyA: idToName[pair[0]],
			FacultyB: idToName[pair[1]],
			Joint:    count,
		})
	}
	sort.SliceStable(stats.Pairs, func(i, j int) bool {
		if stats.Pairs[i].Joint != stats.Pairs[j].Joint {
			return stats.Pairs[i].Joint > stats.Pairs[j].Joint
		}
		if stats.Pairs[i].FacultyA != stats.Pairs[j].FacultyA {
			return stats.Pairs[i].FacultyA < stats.Pairs[j].FacultyA
		}
		return stats.Pairs[i].FacultyB < stats.Pairs[j].FacultyB
	})
	return stats, nil
}

// ByDesignation groups productivity per designation.
func (s *AnalyticsService) ByDesignation() ([]domain.DesignationStats, error) {
	_, members, err := s.load()
	if err != nil {
		return nil, err
	}
	groups := make(map[string]*domain.DesignationStats)
	for _, m := range members {
		designation := strings.TrimSpace(m.rec.Designation)
		if designation == "" {
			designation = "Unspecified"
		}
		group, ok := groups[designation]
		if !ok {
			group = &domain.DesignationStats{Designation: designation}
			groups[designation] = group
		}
		group.Faculty++
		if m.snapshot != nil {
			group.Publications += m.snapshot.PublicationCount
			group.Citations += m.snapshot.Citations
		}
	}
	out := make([]domain.DesignationStats, 0, len(groups))
	for _, group := range groups {
		group.AvgPublications = round2(safeDiv(float64(group.Publications), float64(group.Faculty)))
		out = append(out, *group)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Faculty != out[j].Faculty {
			return out[i].Faculty > out[j].Faculty
		}
		return out[i].Designation < out[j].Designation
	})
	return out, nil
}

// Impact relates citation volume to publication volume.
func (s *AnalyticsService) Impact() (domain.ImpactStats, error) {
	_, members, err := s.load()
	if err != nil {
		return domain.ImpactStats{}, err
	}
	totalCitations := 0
	totalPublications := 0
	fetched := 0
	highImpact := 0
	for _, m := range members {
		if m.snapshot == nil {
			continue
		}
		fetched++
		totalCitations += m.snapshot.Citations
		totalPublications += m.snapshot.PublicationCount
		for _, pub := range m.snapshot.Publications {
			if pub.Citations >= highImpactCitations {
				highImpact++
			}
		}
	}
	return domain.ImpactStats{
		CitationsPerPublication: round2(safeDiv(float64(totalCitations), float64(totalPublications))),
		PublicationsPerFaculty:  round2(safeDiv(float64(totalPublications), float64(fetched))),
		HighImpactPublications:  highImpact,
	}, nil
}

func clampLen[T any](values []T, limit, fallback int) []T {
	if limit <= 0 {
		limit = fallback
	}
	if len(values) > limit {
		return values[:limit]
	}
	return values
}
