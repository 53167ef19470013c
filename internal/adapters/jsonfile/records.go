package jsonfile

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/cockroachdb/errors"

	"scholardash/internal/app/ports"
)

// rosterFile is the on-disk shape of the faculty record file. Field names
// stay short and snake_case because the file is edited by hand.
type rosterFile struct {
	Department  string        `json:"department"`
	Institution string        `json:"institution"`
	UpdatedAt   string        `json:"updated_at,omitempty"`
	Faculty     []facultyFile `json:"faculty"`
}

type facultyFile struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Designation    string   `json:"designation,omitempty"`
	Email          string   `json:"email,omitempty"`
	ScholarID      string   `json:"scholar_id,omitempty"`
	ResearchAreas  []string `json:"research_areas,omitempty"`
	JoinedYear     int      `json:"joined_year,omitempty"`
	ProfileFetched bool     `json:"profile_fetched,omitempty"`
}

// RecordStore keeps the roster in a single JSON file. Saves rotate backups
// and replace the file atomically. Loads are served from a parse cache
// until Invalidate drops it, which the roster watcher does on disk changes.
type RecordStore struct {
	path string

	mu     sync.Mutex
	cached *ports.Roster
}

// NewRecordStore builds a store over the given faculty file path. The file
// does not have to exist yet.
func NewRecordStore(path string) *RecordStore {
	return &RecordStore{path: path}
}

// Load returns the roster, or an empty roster when the file is absent.
func (s *RecordStore) Load() (ports.Roster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != nil {
		return copyRoster(*s.cached), nil
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return ports.Roster{}, nil
	}
	if err != nil {
		return ports.Roster{}, errors.Wrap(err, "read faculty file")
	}
	var file rosterFile
	if err := json.Unmarshal(data, &file); err != nil {
		return ports.Roster{}, errors.Wrapf(err, "parse faculty file %s", s.path)
	}

	roster := rosterFromFile(file)
	s.cached = &roster
	return copyRoster(roster), nil
}

// Save replaces the faculty file with the given roster.
func (s *RecordStore) Save(roster ports.Roster) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(rosterToFile(roster), "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode faculty file")
	}
	if err := rotateBackups(s.path); err != nil {
		return err
	}
	if err := writeFileAtomic(s.path, append(data, '\n')); err != nil {
		return err
	}

	snapshot := copyRoster(roster)
	s.cached = &snapshot
	return nil
}

// Invalidate drops the parse cache so the next Load rereads the file.
func (s *RecordStore) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

func rosterToFile(roster ports.Roster) rosterFile {
	file := rosterFile{
		Department:  roster.Department,
		Institution: roster.Institution,
		UpdatedAt:   roster.UpdatedAt,
		Faculty:     make([]facultyFile, 0, len(roster.Faculty)),
	}
	for _, rec := range roster.Faculty {
		file.Faculty = append(file.Faculty, facultyFile{
			ID:             rec.ID,
			Name:           rec.Name,
			Designation:    rec.Designation,
			Email:          rec.Email,
			ScholarID:      rec.ScholarID,
			ResearchAreas:  rec.ResearchAreas,
			JoinedYear:     rec.JoinedYear,
			ProfileFetched: rec.ProfileFetched,
		})
	}
	return file
}

func rosterFromFile(file rosterFile) ports.Roster {
	roster := ports.Roster{
		Department:  file.Department,
		Institution: file.Institution,
		UpdatedAt:   file.UpdatedAt,
		Faculty:     make([]ports.FacultyRecord, 0, len(file.Faculty)),
	}
	for _, rec := range file.Faculty {
		roster.Faculty = append(roster.Faculty, ports.FacultyRecord{
			ID:             rec.ID,
			Name:           rec.Name,
			Designation:    rec.Designation,
			Email:          rec.Email,
			ScholarID:      rec.ScholarID,
			ResearchAreas:  rec.ResearchAreas,
			JoinedYear:     rec.JoinedYear,
			ProfileFetched: rec.ProfileFetched,
		})
	}
	return roster
}

// copyRoster hands callers their own slices so the parse cache cannot be
// mutated behind the store's back.
func copyRoster(roster ports.Roster) ports.Roster {
	out := roster
	out.Faculty = make([]ports.FacultyRecord, len(roster.Faculty))
	copy(out.Faculty, roster.Faculty)
	for i := range out.Faculty {
		if areas := out.Faculty[i].ResearchAreas; areas != nil {
			out.Faculty[i].ResearchAreas = append([]string(nil), areas...)
		}
	}
	return out
}

var _ ports.RecordStore = (*RecordStore)(nil)
