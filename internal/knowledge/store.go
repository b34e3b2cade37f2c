package knowledge

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrMissing is returned when the portfolio document does not exist.
var ErrMissing = errors.New("knowledge document not found")

// ErrMalformed is returned when the portfolio document cannot be parsed
// into the Profile shape.
var ErrMalformed = errors.New("knowledge document malformed")

// Store is a read-only in-memory view of the portfolio document.
// Load it once at startup and share it for the process lifetime.
type Store struct {
	profile Profile
}

// Load reads and parses the portfolio document at path.
// A missing file is ErrMissing, an unparsable one is ErrMalformed;
// both are fatal to the caller — no conversation is possible without a profile.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissing, path)
		}
		return nil, fmt.Errorf("reading knowledge document: %w", err)
	}
	return Parse(data)
}

// Parse builds a Store from raw document bytes. Used by Load and by tests.
func Parse(data []byte) (*Store, error) {
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	// Project names are the focus lookup key; duplicates would make
	// selection ambiguous.
	seen := make(map[string]struct{}, len(p.Projects))
	for _, prj := range p.Projects {
		if _, dup := seen[prj.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate project name %q", ErrMalformed, prj.Name)
		}
		seen[prj.Name] = struct{}{}
	}

	if p.Skills == nil {
		p.Skills = NewSkillSet()
	}

	return &Store{profile: p}, nil
}

// Profile returns the loaded profile. The caller must treat it as read-only.
func (s *Store) Profile() Profile {
	return s.profile
}

// FindProject looks up a project by exact, case-sensitive name match.
// A miss is not an error.
func (s *Store) FindProject(name string) (Project, bool) {
	for _, p := range s.profile.Projects {
		if p.Name == name {
			return p, true
		}
	}
	return Project{}, false
}

// Projects returns the profile's projects in document order.
func (s *Store) Projects() []Project {
	out := make([]Project, len(s.profile.Projects))
	copy(out, s.profile.Projects)
	return out
}
