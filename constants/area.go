package constants

import (
	"strings"
)

// Area is the normalized subject area of an improvement goal.
type Area string

const (
	Math              Area = "Math"
	ELA               Area = "ELA"
	SEL               Area = "SEL"
	Science           Area = "Science"
	NinthGradeSuccess Area = "9th Grade Success"
	Graduation        Area = "Graduation"
	OtherArea         Area = "Other"
)

var allAreas = []Area{
	Math,
	ELA,
	SEL,
	Science,
	NinthGradeSuccess,
	Graduation,
	OtherArea,
}

func AreasAsStringSlice() []string {
	result := make([]string, len(allAreas))
	for i, a := range allAreas {
		result[i] = string(a)
	}
	return result
}

// areaKeywords is an ordered keyword list; the first matching entry wins,
// so "algebra and literacy" normalizes to Math, not ELA.
var areaKeywords = []struct {
	keywords []string
	area     Area
}{
	{[]string{"math", "algebra"}, Math},
	{[]string{"ela", "literacy", "reading", "writing", "english language arts"}, ELA},
	{[]string{"sel", "social", "emotional", "belonging", "attendance"}, SEL},
	{[]string{"science", "stem"}, Science},
	{[]string{"ninth grade", "9th grade"}, NinthGradeSuccess},
	{[]string{"graduat", "postsecondary"}, Graduation},
}

// NormalizeArea maps free text from a priority-area cell to a standard Area
// by case-insensitive substring matching. Empty or unmatched text is Other.
func NormalizeArea(text string) Area {
	if text == "" {
		return OtherArea
	}
	lower := strings.ToLower(text)
	for _, entry := range areaKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.area
			}
		}
	}
	return OtherArea
}
