package composer

import (
	"strings"
	"testing"

	"github.com/kalambet/folio/internal/knowledge"
)

func testProfile(t *testing.T) knowledge.Profile {
	t.Helper()
	s, err := knowledge.Parse([]byte(`{
		"name": "Ada Example",
		"summary": "Engineer who ships.",
		"education": "BSc Computer Science",
		"current_status": "Open to work",
		"goal": "Build AI products",
		"skills": {
			"programming_languages": ["Go", "Python"],
			"ai_ml": ["RAG"]
		},
		"projects": [
			{"name": "X", "type": "web", "category": "AI", "problem": "long waits", "solution": "queue caching", "tools": "Go, Redis", "outcome": "40% faster"},
			{"name": "Y", "type": "cli", "category": "Infra", "problem": "toil", "solution": "automation", "tools": "Go", "outcome": "saved hours"}
		]
	}`))
	if err != nil {
		t.Fatal(err)
	}
	return s.Profile()
}

func TestBuild_BroadMode(t *testing.T) {
	p := testProfile(t)
	out := Build(p, nil)

	// Fixed framing and profile sections.
	for _, want := range []string{
		"You are an AI Portfolio Assistant representing Ada Example.",
		"Profile Summary:\nEngineer who ships.",
		"Education: BSc Computer Science",
		"Current Status: Open to work",
		"Career Goal: Build AI products",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	// Every project name appears as a bullet with its type.
	for _, want := range []string{"- X (web)", "- Y (cli)"} {
		if !strings.Contains(out, want) {
			t.Errorf("prompt missing project bullet %q", want)
		}
	}

	// Deep project fields belong to focused mode only.
	for _, forbidden := range []string{"long waits", "queue caching", "40% faster", "Selected Project"} {
		if strings.Contains(out, forbidden) {
			t.Errorf("broad prompt must not contain %q", forbidden)
		}
	}

	if !strings.Contains(out, "Suggest selecting a project") {
		t.Error("broad prompt missing selection suggestion")
	}
}

func TestBuild_FocusedMode(t *testing.T) {
	p := testProfile(t)
	focus := p.Projects[0]
	out := Build(p, &focus)

	// All seven project fields verbatim.
	for _, want := range []string{
		"Project Name: X",
		"Type: web",
		"Category: AI",
		"long waits",
		"queue caching",
		"Go, Redis",
		"40% faster",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("focused prompt missing %q", want)
		}
	}

	// The bulleted project list belongs to broad mode only.
	if strings.Contains(out, "- X (web)") || strings.Contains(out, "- Y (cli)") {
		t.Error("focused prompt must not contain the project list")
	}

	if !strings.Contains(out, "situation, task, action, result") {
		t.Error("focused prompt missing structured answer instructions")
	}
}

func TestBuild_MissingContentRendersEmpty(t *testing.T) {
	out := Build(knowledge.Profile{Skills: knowledge.NewSkillSet()}, nil)
	if !strings.Contains(out, "Education: \n") {
		t.Error("missing education should render as empty, not fail")
	}
}

func TestFormatSkills(t *testing.T) {
	p := testProfile(t)
	got := FormatSkills(p.Skills)

	want := "Programming Languages: Go, Python\nAi Ml: RAG"
	if got != want {
		t.Errorf("FormatSkills = %q, want %q", got, want)
	}
}

func TestHumanize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"current_status", "Current Status"},
		{"Current_Status", "Current Status"},
		{"CURRENT_STATUS", "Current Status"},
		{"cloud", "Cloud"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := humanize(tt.in); got != tt.want {
			t.Errorf("humanize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
