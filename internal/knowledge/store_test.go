package knowledge

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleDoc = `{
	"name": "Ada Example",
	"summary": "Engineer who ships.",
	"education": "BSc Computer Science",
	"current_status": "Open to work",
	"goal": "Build AI products",
	"skills": {
		"programming_languages": ["Go", "Python"],
		"ai_ml": ["RAG", "fine-tuning"],
		"cloud_devops": ["Docker"]
	},
	"projects": [
		{"name": "X", "type": "web", "category": "AI", "problem": "p", "solution": "s", "tools": "t", "outcome": "o"},
		{"name": "Y", "type": "cli", "category": "Infra", "problem": "p2", "solution": "s2", "tools": "t2", "outcome": "o2"}
	]
}`

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrMissing) {
		t.Fatalf("err = %v, want ErrMissing", err)
	}
}

func TestLoad_OK(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio_knowledge.json")
	if err := os.WriteFile(path, []byte(sampleDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := s.Profile()
	if p.Name != "Ada Example" {
		t.Errorf("Name = %q", p.Name)
	}
	if len(p.Projects) != 2 {
		t.Fatalf("got %d projects, want 2", len(p.Projects))
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{{{`},
		{"wrong shape", `{"projects": "not-a-list"}`},
		{"duplicate project names", `{"name": "A", "projects": [{"name": "X"}, {"name": "X"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("err = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestParse_MissingContentIsNotStructural(t *testing.T) {
	// Absent optional fields parse fine; only unparsable structure fails.
	s, err := Parse([]byte(`{"name": "A"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Profile().Summary != "" {
		t.Errorf("Summary = %q, want empty", s.Profile().Summary)
	}
	if s.Profile().Skills == nil {
		t.Error("Skills should never be nil after Parse")
	}
}

func TestFindProject(t *testing.T) {
	s, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}

	if p, ok := s.FindProject("Y"); !ok || p.Type != "cli" {
		t.Errorf("FindProject(Y) = %+v, %v", p, ok)
	}

	// Lookup is exact and case-sensitive.
	if _, ok := s.FindProject("y"); ok {
		t.Error("FindProject should be case-sensitive")
	}
	if _, ok := s.FindProject("Z"); ok {
		t.Error("FindProject should miss on unknown name")
	}
}

func TestSkillsOrderPreserved(t *testing.T) {
	s, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"programming_languages", "ai_ml", "cloud_devops"}
	var got []string
	for pair := s.Profile().Skills.Oldest(); pair != nil; pair = pair.Next() {
		got = append(got, pair.Key)
	}

	if len(got) != len(want) {
		t.Fatalf("got %d categories, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("category[%d] = %q, want %q (document order must be preserved)", i, got[i], want[i])
		}
	}
}
