// Package embed prepares goals for the dashboard's semantic search: it
// renders each goal into searchable text, obtains embedding vectors from an
// embeddings endpoint, and exports them with enough metadata for filtered
// cosine-similarity search.
package embed

import (
	"fmt"
	"strings"

	"github.com/lisaguthrie/sipdash/internal/extract"
)

// GoalText renders a goal into the text that gets embedded. Outcome and
// focus area carry the most search signal, so they lead; the full strategy
// text beats the summary when present.
func GoalText(g extract.Goal) string {
	var parts []string

	if g.Outcome != "" {
		parts = append(parts, g.Outcome)
	}
	if g.FocusArea != "" {
		parts = append(parts, "Focus: "+g.FocusArea)
	}

	switch {
	case len(g.Strategies) > 0:
		var sp []string
		for _, s := range g.Strategies {
			if s.Action != "" {
				sp = append(sp, "Action: "+s.Action)
			}
			if s.Measures != "" {
				sp = append(sp, "Measures: "+s.Measures)
			}
		}
		if len(sp) > 0 {
			parts = append(parts, strings.Join(sp, " "))
		}
	case g.RawStrategies != "":
		parts = append(parts, g.RawStrategies)
	default:
		parts = append(parts, g.StrategiesSummarized)
	}

	if g.Area != "" {
		parts = append(parts, "Area: "+string(g.Area))
	}
	if g.FocusGrades != "" {
		parts = append(parts, "Grades: "+g.FocusGrades)
	}
	if g.FocusStudentGroup != "" {
		parts = append(parts, "Students: "+g.FocusStudentGroup)
	}

	return strings.Join(parts, " ")
}

// GoalID builds a URL-safe id like "juanita-elementary-goal-1-ela".
// goalIndex is 0-based; the id is 1-based to match the dashboard.
func GoalID(schoolName, schoolLevel string, goalIndex int, area string) string {
	school := slugify(schoolName)
	level := slugify(strings.ReplaceAll(strings.ToLower(schoolLevel), " school", ""))
	return fmt.Sprintf("%s-%s-goal-%d-%s", school, level, goalIndex+1, slugify(area))
}

func slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, ".", "")
	return strings.ReplaceAll(s, " ", "-")
}

// displayText is the human-readable block stored next to the vector; the
// dashboard shows it verbatim in search results.
func displayText(schoolName, schoolLevel string, goalIndex int, g extract.Goal) string {
	strategies := strategiesText(g)
	return fmt.Sprintf(`
School name: %s (%s)
Goal #%d (%s, %s, %s): %s
Focus Area: %s
Current Data: %s
Strategies: %s
Engagement Strategies: %s
`,
		schoolName, schoolLevel,
		goalIndex+1, orNot(string(g.Area), "Other"), orNot(g.FocusGrades, "Unknown Focus Grades"),
		orNot(g.FocusStudentGroup, "Unknown Focus Student Group"), orNot(g.Outcome, "Outcome not found"),
		orNot(g.FocusArea, "Not found"),
		orNot(g.CurrentData, "Not found"),
		strategies,
		orNot(g.EngagementStrategies, "Not found"))
}

func strategiesText(g extract.Goal) string {
	if len(g.Strategies) > 0 {
		parts := make([]string, len(g.Strategies))
		for i, s := range g.Strategies {
			parts[i] = s.Action + " (" + s.Measures + ")"
		}
		return strings.Join(parts, "; ")
	}
	return orNot(g.RawStrategies, "Not found")
}

func orNot(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
