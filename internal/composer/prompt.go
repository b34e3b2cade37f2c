// Package composer builds the system instruction that frames every
// conversation turn. Build is a pure function of the profile and the
// optional focused project; it performs no I/O and never fails —
// missing profile content renders as empty rather than erroring.
package composer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kalambet/folio/internal/knowledge"
)

// Build produces the system instruction for one turn. With a focused
// project it appends a deep-explanation block carrying every project field;
// without one it appends the full project list and broad-mode instructions.
func Build(profile knowledge.Profile, focus *knowledge.Project) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are an AI Portfolio Assistant representing %s.\n\n", profile.Name)

	fmt.Fprintf(&sb, "Profile Summary:\n%s\n\n", profile.Summary)
	fmt.Fprintf(&sb, "Education: %s\n", profile.Education)
	fmt.Fprintf(&sb, "Current Status: %s\n", profile.CurrentStatus)
	fmt.Fprintf(&sb, "Career Goal: %s\n\n", profile.Goal)

	fmt.Fprintf(&sb, "Skills:\n%s\n\n", FormatSkills(profile.Skills))

	sb.WriteString("Rules:\n")
	sb.WriteString("- Answer like a real interview candidate\n")
	sb.WriteString("- Be confident, clear, and honest\n")
	sb.WriteString("- Do NOT invent information\n")
	sb.WriteString("- Use simple, conversational English\n")

	if focus != nil {
		writeFocusedBlock(&sb, *focus)
	} else {
		writeBroadBlock(&sb, profile.Projects)
	}

	return sb.String()
}

func writeFocusedBlock(sb *strings.Builder, p knowledge.Project) {
	sb.WriteString("\nSelected Project (Explain in detail):\n\n")
	fmt.Fprintf(sb, "Project Name: %s\n", p.Name)
	fmt.Fprintf(sb, "Type: %s\n", p.Type)
	fmt.Fprintf(sb, "Category: %s\n\n", p.Category)
	fmt.Fprintf(sb, "Problem:\n%s\n\n", p.Problem)
	fmt.Fprintf(sb, "Solution:\n%s\n\n", p.Solution)
	fmt.Fprintf(sb, "Tools Used:\n%s\n\n", p.Tools)
	fmt.Fprintf(sb, "Outcome:\n%s\n\n", p.Outcome)
	sb.WriteString("Instructions:\n")
	sb.WriteString("- Structure answers as situation, task, action, result\n")
	sb.WriteString("- Explain the business impact\n")
	sb.WriteString("- Answer follow-up technical questions\n")
}

func writeBroadBlock(sb *strings.Builder, projects []knowledge.Project) {
	sb.WriteString("\nProjects:\n")
	for _, p := range projects {
		fmt.Fprintf(sb, "- %s (%s)\n", p.Name, p.Type)
	}
	sb.WriteString("\nInstructions:\n")
	sb.WriteString("- Answer about skills, projects, resume, career goals\n")
	sb.WriteString("- Suggest selecting a project for deep explanation\n")
}

// FormatSkills renders one line per category, in the document's own
// category order: "Category Name: skill, skill, skill".
func FormatSkills(skills *knowledge.SkillSet) string {
	if skills == nil || skills.OrderedMap == nil {
		return ""
	}
	var lines []string
	for pair := skills.Oldest(); pair != nil; pair = pair.Next() {
		lines = append(lines, fmt.Sprintf("%s: %s", humanize(pair.Key), strings.Join(pair.Value, ", ")))
	}
	return strings.Join(lines, "\n")
}

// humanize turns a category key like "ai_ml_skills" into "Ai Ml Skills":
// underscores become spaces, each word is title-cased.
func humanize(key string) string {
	words := strings.Split(strings.ReplaceAll(key, "_", " "), " ")
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

func titleWord(w string) string {
	if w == "" {
		return w
	}
	r := []rune(strings.ToLower(w))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
