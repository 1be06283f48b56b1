package extract

// fieldEffect is what a recognized label does to the current goal.
type fieldEffect int

const (
	effectSetArea fieldEffect = iota
	effectSetFocusGroup
	effectSetFocusArea
	effectSetOutcome
	effectSetCurrentData
	effectSetRawStrategies // also records the page the strategy table starts on
	effectSetEngagement    // also evaluates the single-page-table heuristic
	effectTimelineOnly     // evaluates the heuristic without changing the goal
)

// labelEffects maps each normalized (lower-cased, whitespace-collapsed)
// label to its effect. Documents vary in wording, so aliases are kept as an
// explicit list — including observed typo variants — rather than matched
// fuzzily. Extend here when a new wording shows up in the field.
var labelEffects = map[string]fieldEffect{
	"priority area": effectSetArea,

	"focus grade level(s) and/or student group(s)": effectSetFocusGroup,

	"focus area": effectSetFocusArea,

	"desired outcome": effectSetOutcome,

	"current data supporting focus area":       effectSetCurrentData,
	"data and rationale supporting focus area": effectSetCurrentData,

	"strategy to address priority": effectSetRawStrategies,

	"strategy to engage students, families, parents and community members": effectSetEngagement,
	// seen in the wild with a line break splitting "community"
	"strategy to engage students, families, parents and communit y members": effectSetEngagement,

	"timeline for focus": effectTimelineOnly,
}
