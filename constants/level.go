package constants

import "strings"

// Level is a school-level tier. The district publishes one combined SIP PDF
// per tier, and the school index groups page ranges under these keys.
type Level string

const (
	Elementary Level = "elementary"
	Middle     Level = "middle"
	High       Level = "high"
)

var AllLevels = []Level{Elementary, Middle, High}

// DisplayName returns the level name as it appears in the published PDFs
// and in extraction output ("Elementary School", "Middle School", "High School").
func (l Level) DisplayName() string {
	switch l {
	case Elementary:
		return "Elementary School"
	case Middle:
		return "Middle School"
	case High:
		return "High School"
	default:
		return string(l)
	}
}

// PDFFileName returns the conventional file name of the combined SIP PDF for
// this level and school year, e.g. "Middle School 2025-2026 SIPs.pdf".
func (l Level) PDFFileName(schoolYear string) string {
	return l.DisplayName() + " " + schoolYear + " SIPs.pdf"
}

func ParseLevel(s string) (Level, bool) {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case Elementary:
		return Elementary, true
	case Middle:
		return Middle, true
	case High:
		return High, true
	}
	return "", false
}
