// Package extract turns the irregular priority tables of a SIP document
// into structured improvement-goal records. It drives a per-school state
// machine over a bounded page range, classifying table rows, following
// strategy sub-tables across page breaks, and handing finished goals to the
// focus-normalization and action-summary collaborators.
package extract

import "github.com/lisaguthrie/sipdash/constants"

// Strategy is one action/measure pair from a goal's embedded action table.
// Order follows the document and is user-visible.
type Strategy struct {
	Action   string `json:"action"`
	Measures string `json:"measures"`
}

// Goal is one improvement priority. Field JSON names match the dashboard's
// extracted-results file.
type Goal struct {
	Area                 constants.Area `json:"area"`
	FocusGroup           string         `json:"focus_group"`
	FocusArea            string         `json:"focus_area"`
	FocusGrades          string         `json:"focus_grades"`
	FocusStudentGroup    string         `json:"focus_student_group"`
	Outcome              string         `json:"outcome"`
	CurrentData          string         `json:"currentdata"`
	RawStrategies        string         `json:"raw_strategies"`
	Strategies           []Strategy     `json:"strategies"`
	StrategiesSummarized string         `json:"strategies_summarized"`
	EngagementStrategies string         `json:"engagement_strategies"`
}

// newGoal returns an empty goal with the documented focus defaults. The
// collaborators may overwrite them during finalization.
func newGoal() *Goal {
	return &Goal{
		FocusGrades:       "All Grades",
		FocusStudentGroup: "All Students",
		Strategies:        []Strategy{},
	}
}

// SchoolResult is one school's extracted goals. Up to three goals are
// authoritative per school.
type SchoolResult struct {
	Name  string `json:"name"`
	Level string `json:"level"`
	Goals []Goal `json:"goals"`
}
