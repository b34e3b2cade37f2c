package knowledge

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Profile is the assistant's entire knowledge base: one person's professional
// profile as loaded from the portfolio document. Immutable after load.
type Profile struct {
	Name          string     `json:"name"`
	Summary       string     `json:"summary"`
	Education     string     `json:"education"`
	CurrentStatus string     `json:"current_status"`
	Goal          string     `json:"goal"`
	Skills        *SkillSet  `json:"skills"`
	Projects      []Project  `json:"projects"`
}

// Project is a single portfolio entry. Name is the sole lookup key for
// focus selection and must be unique within the profile.
type Project struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Problem  string `json:"problem"`
	Solution string `json:"solution"`
	Tools    string `json:"tools"`
	Outcome  string `json:"outcome"`
}

// SkillSet maps a skill category to its skill names. The source document's
// key order is meaningful for prompt rendering, so it is preserved rather
// than sorted.
type SkillSet struct {
	*orderedmap.OrderedMap[string, []string]
}

// NewSkillSet creates an empty SkillSet.
func NewSkillSet() *SkillSet {
	return &SkillSet{orderedmap.New[string, []string]()}
}

func (s *SkillSet) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		s.OrderedMap = orderedmap.New[string, []string]()
		return nil
	}
	m := orderedmap.New[string, []string]()
	if err := m.UnmarshalJSON(data); err != nil {
		return err
	}
	s.OrderedMap = m
	return nil
}

func (s *SkillSet) MarshalJSON() ([]byte, error) {
	if s == nil || s.OrderedMap == nil {
		return []byte("{}"), nil
	}
	return s.OrderedMap.MarshalJSON()
}
