package llm

import "context"

// FocusRequest carries the raw goal fields whose grade/student-group focus
// needs normalizing. School name and level are context for the model.
type FocusRequest struct {
	SchoolName  string `json:"school_name"`
	SchoolLevel string `json:"school_level"`
	FocusGroup  string `json:"focus_group"`
	FocusArea   string `json:"focus_area"`
	Outcome     string `json:"outcome"`
}

// FocusResult is the normalized focus shape we want from the model.
// FocusGrades is "All Grades" or a specific range ("Grade 1", "Grades 3-5");
// FocusStudentGroup is one of the fixed vocabulary in StudentGroups.
type FocusResult struct {
	FocusGrades       string `json:"focus_grades"`
	FocusStudentGroup string `json:"focus_student_group"`
}

// StudentGroups is the closed vocabulary for FocusResult.FocusStudentGroup.
var StudentGroups = []string{
	"All Students",
	"Low Income",
	"ML",
	"Special Education",
	"Race/Ethnicity",
}

// DefaultFocus is substituted whenever normalization fails; extraction
// never aborts a goal because the collaborator did.
func DefaultFocus() FocusResult {
	return FocusResult{FocusGrades: "All Grades", FocusStudentGroup: "All Students"}
}

// ActionItem is one action/measure pair handed to the summarizer.
type ActionItem struct {
	Action   string `json:"action"`
	Measures string `json:"measures"`
}

// SummaryRequest describes one goal's action plan. When Actions is empty
// the raw free-text fallback is sent instead.
type SummaryRequest struct {
	SchoolName string
	Outcome    string
	Actions    []ActionItem
	RawActions string
}

// SummaryUnavailable is substituted for the narrative when the summarizer
// fails.
const SummaryUnavailable = "Summary not available due to an error."

// FocusNormalizer resolves raw focus descriptions to the fixed vocabulary.
type FocusNormalizer interface {
	NormalizeFocus(ctx context.Context, req FocusRequest) (FocusResult, error)
}

// ActionSummarizer produces a short narrative for a goal's action plan.
type ActionSummarizer interface {
	SummarizeActions(ctx context.Context, req SummaryRequest) (string, error)
}
