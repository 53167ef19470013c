package ports

// FacultyRecord is one roster member as stored in the faculty file.
type FacultyRecord struct {
	ID             string
	Name           string
	Designation    string
	Email          string
	ScholarID      string
	ResearchAreas  []string
	JoinedYear     int
	ProfileFetched bool
}

// Roster is the faculty record file's full content.
type Roster struct {
	Department  string
	Institution string
	UpdatedAt   string
	Faculty     []FacultyRecord
}

// RecordStore persists the faculty roster as a flat human-editable file.
// Load returns an empty roster when the file does not exist yet.
type RecordStore interface {
	Load() (Roster, error)
	Save(roster Roster) error
}
