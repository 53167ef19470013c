package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"scholardash/internal/app/ports"
)

// Faculty management errors surfaced to transport layers.
var (
	ErrFacultyNotFound = errors.New("faculty member not found")
	ErrNameRequired    = errors.New("faculty name is required")
)

// FacultyInput holds the fields an administrator supplies when adding a
// roster member.
type FacultyInput struct {
	Name          string
	Designation   string
	Email         string
	ScholarID     string
	ResearchAreas []string
	JoinedYear    int
}

// FacultyUpdate carries a partial edit; nil fields are left untouched.
type FacultyUpdate struct {
	Name          *string
	Designation   *string
	Email         *string
	ScholarID     *string
	ResearchAreas *[]string
	JoinedYear    *int
}

// FacultyService manages the roster stored in the record file.
type FacultyService struct {
	records ports.RecordStore
	now     func() time.Time
}

// NewFacultyService builds a roster service over the record store.
func NewFacultyService(records ports.RecordStore) *FacultyService {
	return &FacultyService{records: records, now: time.Now}
}

// Roster returns the full record file content.
func (s *FacultyService) Roster() (ports.Roster, error) {
	roster, err := s.records.Load()
	if err != nil {
		return ports.Roster{}, errors.Wrap(err, "load roster")
	}
	return roster, nil
}

// Get returns one member by identifier.
func (s *FacultyService) Get(id string) (ports.FacultyRecord, error) {
	roster, err := s.records.Load()
	if err != nil {
		return ports.FacultyRecord{}, errors.Wrap(err, "load roster")
	}
	for _, rec := range roster.Faculty {
		if rec.ID == id {
			return rec, nil
		}
	}
	return ports.FacultyRecord{}, errors.Wrapf(ErrFacultyNotFound, "id %s", id)
}

// FindByName returns members whose name contains the query,
// case-insensitively.
func (s *FacultyService) FindByName(query string) ([]ports.FacultyRecord, error) {
	roster, err := s.records.Load()
	if err != nil {
		return nil, errors.Wrap(err, "load roster")
	}
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil, nil
	}
	var matches []ports.FacultyRecord
	for _, rec := range roster.Faculty {
		if strings.Contains(strings.ToLower(rec.Name), needle) {
			matches = append(matches, rec)
		}
	}
	return matches, nil
}

// Create appends a new member with the next numeric identifier.
func (s *FacultyService) Create(input FacultyInput) (ports.FacultyRecord, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ports.FacultyRecord{}, ErrNameRequired
	}
	roster, err := s.records.Load()
	if err != nil {
		return ports.FacultyRecord{}, errors.Wrap(err, "load roster")
	}

	rec := ports.FacultyRecord{
		ID:            nextID(roster.Faculty),
		Name:          name,
		Designation:   strings.TrimSpace(input.Designation),
		Email:         strings.TrimSpace(input.Email),
		ScholarID:     strings.TrimSpace(input.ScholarID),
		ResearchAreas: cleanAreas(input.ResearchAreas),
		JoinedYear:    input.JoinedYear,
	}
	roster.Faculty = append(roster.Faculty, rec)
	if err := s.save(roster); err != nil {
		return ports.FacultyRecord{}, err
	}
	return rec, nil
}

// Update merges the provided fields into an existing member.
func (s *FacultyService) Update(id string, update FacultyUpdate) (ports.FacultyRecord, error) {
	roster, err := s.records.Load()
	if err != nil {
		return ports.FacultyRecord{}, errors.Wrap(err, "load roster")
	}
	idx := -1
	for i, rec := range roster.Faculty {
		if rec.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ports.FacultyRecord{}, errors.Wrapf(ErrFacultyNotFound, "id %s", id)
	}

	rec := roster.Faculty[idx]
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return ports.FacultyRecord{}, ErrNameRequired
		}
		rec.Name = name
	}
	if update.Designation != nil {
		rec.Designation = strings.TrimSpace(*update.Designation)
	}
	if update.Email != nil {
		rec.Email = strings.TrimSpace(*update.Email)
	}
	if update.ScholarID != nil {
		rec.ScholarID = strings.TrimSpace(*update.ScholarID)
	}
	if update.ResearchAreas != nil {
		rec.ResearchAreas = cleanAreas(*update.ResearchAreas)
	}
	if update.JoinedYear != nil {
		rec.JoinedYear = *update.JoinedYear
	}

	roster.Faculty[idx] = rec
	if err := s.save(roster); err != nil {
		return ports.FacultyRecord{}, err
	}
	return rec, nil
}

// Delete removes a member from the roster.
func (s *FacultyService) Delete(id string) error {
	roster, err := s.records.Load()
	if err != nil {
		return errors.Wrap(err, "load roster")
	}
	kept := roster.Faculty[:0]
	found := false
	for _, rec := range roster.Faculty {
		if rec.ID == id {
			found = true
			continue
		}
		kept = append(kept, rec)
	}
	if !found {
		return errors.Wrapf(ErrFacultyNotFound, "id %s", id)
	}
	roster.Faculty = kept
	return s.save(roster)
}

// MarkProfileFetched flips the member's fetched marker after a successful
// live fetch.
func (s *FacultyService) MarkProfileFetched(id string) error {
	roster, err := s.records.Load()
	if err != nil {
		return errors.Wrap(err, "load roster")
	}
	for i, rec := range roster.Faculty {
		if rec.ID != id {
			continue
		}
		if rec.ProfileFetched {
			return nil
		}
		roster.Faculty[i].ProfileFetched = true
		return s.save(roster)
	}
	return errors.Wrapf(ErrFacultyNotFound, "id %s", id)
}

// Reset discards the current roster and restores the built-in default
// members. Cached snapshots are left alone; entries for matching
// identifiers re-attach on the next load.
func (s *FacultyService) Reset() (ports.Roster, error) {
	if err := s.save(defaultRoster()); err != nil {
		return ports.Roster{}, err
	}
	return s.Roster()
}

// defaultRoster is the starting roster for a fresh deployment: the
// department skeleton with no scholar identifiers wired up yet.
func defaultRoster() ports.Roster {
	return ports.Roster{
		Department:  "Computer Science",
		Institution: "Central University",
		Faculty: []ports.FacultyRecord{
			{ID: "1", Name: "Rajiv Kumar", Designation: "Professor & Head of Department", ResearchAreas: []string{"Machine Learning", "Natural Language Processing"}, JoinedYear: 2009},
			{ID: "2", Name: "Priya Sharma", Designation: "Assistant Professor", ResearchAreas: []string{"Machine Learning", "Educational Data Mining"}, JoinedYear: 2019},
			{ID: "3", Name: "Anil Verma", Designation: "Professor", ResearchAreas: []string{"Databases", "Data Integration"}, JoinedYear: 2006},
			{ID: "4", Name: "Meera Nair", Designation: "Associate Professor", ResearchAreas: []string{"Computer Vision"}, JoinedYear: 2014},
			{ID: "5", Name: "Suresh Patel", Designation: "Assistant Professor", ResearchAreas: []string{"Distributed Systems"}, JoinedYear: 2021},
			{ID: "6", Name: "Lakshmi Rao", Designation: "Professor", ResearchAreas: []string{"Algorithms", "Complexity Theory"}, JoinedYear: 2003},
		},
	}
}

func (s *FacultyService) save(roster ports.Roster) error {
	roster.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	if err := s.records.Save(roster); err != nil {
		return errors.Wrap(err, "save roster")
	}
	return nil
}

// nextID picks max(numeric ids)+1, starting at 1, so identifiers stay
// short and stable for hand edits.
func nextID(faculty []ports.FacultyRecord) string {
	max := 0
	for _, rec := range faculty {
		if n, err := strconv.Atoi(rec.ID); err == nil && n > max {
			max = n
		}
	}
	return strconv.Itoa(max + 1)
}

func cleanAreas(areas []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(areas))
	for _, area := range areas {
		area = strings.TrimSpace(area)
		if area == "" {
			continue
		}
		key := strings.ToLower(area)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, area)
	}
	return out
}
