package extract

import (
	"context"
	"log/slog"
	"strings"

	"github.com/lisaguthrie/sipdash/constants"
	"github.com/lisaguthrie/sipdash/internal/document"
	"github.com/lisaguthrie/sipdash/internal/llm"
)

// Section markers, matched as case-insensitive substrings of a page's
// plain text.
const (
	sectionStartMarker = "continuous improvement priorities"
	sectionEndMarker   = "state assessment participation"
)

// altSectionMarkers are school-specific headings used in place of the
// standard section title. Keller labeled the section with the document
// draft title instead.
var altSectionMarkers = []string{
	"helen keller sip 2025-26 current draft",
}

// Extractor runs goal extraction for one document. It is stateless between
// calls; each ExtractGoals call owns its scan state, so extractions for
// different schools are independent.
type Extractor struct {
	doc       document.Document
	focus     llm.FocusNormalizer
	summarize llm.ActionSummarizer
	log       *slog.Logger
}

func NewExtractor(doc document.Document, focus llm.FocusNormalizer, summarize llm.ActionSummarizer, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{doc: doc, focus: focus, summarize: summarize, log: logger}
}

// scanState is the mutable context of one school's scan: the goal being
// accumulated, whether the priorities section has been entered, and the
// bookkeeping for an open strategy table.
type scanState struct {
	goals     []Goal
	goal      *Goal
	inSection bool

	// Page on which the current goal's strategy table starts (-1 when
	// none is open), and whether a later field on that same page proved
	// the table is confined to it.
	strategiesStart int
	singlePage      bool
}

// ExtractGoals scans pages [startPage, endPage) (0-indexed) and returns the
// goals found, in document order. Page-read failures are logged and the
// page skipped; nothing here aborts the scan.
func (e *Extractor) ExtractGoals(ctx context.Context, schoolName string, level constants.Level, startPage, endPage int) []Goal {
	st := &scanState{strategiesStart: -1}

	e.log.Debug("extract.scan.start", "school", schoolName, "start_page", startPage, "end_page", endPage)

	for pageNum := startPage; pageNum < endPage && pageNum < e.doc.PageCount(); pageNum++ {
		text, err := e.doc.PageText(pageNum)
		if err != nil {
			e.log.Warn("extract.page.unreadable", "school", schoolName, "page", pageNum+1, "error", err)
			continue
		}
		lower := strings.ToLower(text)

		if strings.Contains(lower, sectionEndMarker) {
			e.log.Debug("extract.section.end", "school", schoolName, "page", pageNum+1)
			break
		}
		if !st.inSection {
			if strings.Contains(lower, sectionStartMarker) {
				st.inSection = true
				e.log.Debug("extract.section.start", "school", schoolName, "page", pageNum+1)
			} else {
				for _, marker := range altSectionMarkers {
					if strings.Contains(lower, marker) {
						st.inSection = true
						e.log.Debug("extract.section.start_alt", "school", schoolName, "page", pageNum+1, "marker", marker)
						break
					}
				}
			}
		}
		if !st.inSection {
			continue
		}

		tables, err := e.doc.PageTables(pageNum)
		if err != nil {
			e.log.Warn("extract.page.tables_unreadable", "school", schoolName, "page", pageNum+1, "error", err)
			continue
		}

		// An open strategy table is only provably single-page while we
		// are still on the page it started on.
		st.strategiesStart = -1
		st.singlePage = false

		for _, table := range tables {
			for _, row := range table.Rows {
				e.processRow(ctx, st, table, row, schoolName, level, pageNum, endPage)
			}
		}
	}

	// The last goal has no following boundary marker; flush it.
	if st.goal != nil {
		st.goals = append(st.goals, e.finalizeGoal(ctx, st.goal, schoolName, level))
		e.log.Info("extract.goal.completed", "school", schoolName, "count", len(st.goals), "area", st.goals[len(st.goals)-1].Area)
	}
	return st.goals
}

func (e *Extractor) processRow(ctx context.Context, st *scanState, table document.Table, row document.Row, schoolName string, level constants.Level, pageNum, endPage int) {
	c := classifyRow(row)

	if c.kind == rowBoundary {
		if st.goal != nil {
			st.goals = append(st.goals, e.finalizeGoal(ctx, st.goal, schoolName, level))
			e.log.Info("extract.goal.completed", "school", schoolName, "count", len(st.goals), "area", st.goals[len(st.goals)-1].Area)
		}
		st.goal = newGoal()
		st.strategiesStart = -1
		st.singlePage = false
		e.log.Info("extract.goal.started", "school", schoolName, "marker", c.marker)
		return
	}

	if st.goal == nil {
		return
	}

	switch c.kind {
	case rowStrategyHeader:
		// The structured table supersedes the free-text fallback.
		st.goal.RawStrategies = ""
		strategies := strategiesFromRows(table.Rows)
		if st.singlePage {
			e.log.Debug("extract.strategies.single_page", "school", schoolName, "page", pageNum+1, "count", len(strategies))
		} else {
			strategies = e.scanContinuation(st, schoolName, pageNum, endPage, strategies)
		}
		if len(strategies) > 0 {
			st.goal.Strategies = strategies
		}

	case rowLabeledField:
		e.applyField(st, c, schoolName, pageNum)
	}
}

func (e *Extractor) applyField(st *scanState, c classified, schoolName string, pageNum int) {
	label, value := c.label, c.value
	effect, known := labelEffects[label]
	if !known {
		// A blank label under an open raw-strategies cell is wrapped text
		// from the same cell, split by the table extractor. Only exact
		// two-cell rows qualify; wider blank-label rows are table debris.
		if label == "" && c.cells == 2 && st.goal.RawStrategies != "" {
			st.goal.RawStrategies += " " + value
			return
		}
		e.log.Debug("extract.row.unrecognized_label", "school", schoolName, "page", pageNum+1, "label", label)
		return
	}

	switch effect {
	case effectSetArea:
		st.goal.Area = constants.NormalizeArea(value)
	case effectSetFocusGroup:
		st.goal.FocusGroup = value
	case effectSetFocusArea:
		st.goal.FocusArea = value
	case effectSetOutcome:
		st.goal.Outcome = value
	case effectSetCurrentData:
		st.goal.CurrentData = value
	case effectSetRawStrategies:
		// The cell usually holds an embedded action table, processed when
		// its header row comes by. Sometimes it is plain text, so the raw
		// value is kept as a fallback until a real table is found.
		st.strategiesStart = pageNum
		st.goal.RawStrategies = value
	case effectSetEngagement:
		st.markSinglePageIfSameStart(pageNum)
		st.goal.EngagementStrategies = value
	case effectTimelineOnly:
		// Some schools omit the engagement row, so the same heuristic
		// hangs off the timeline row too.
		st.markSinglePageIfSameStart(pageNum)
	}
}

// markSinglePageIfSameStart records that the strategy table which started
// on this page also ended on it: a later labeled field from the outer
// table has appeared on the same page.
func (st *scanState) markSinglePageIfSameStart(pageNum int) {
	if st.strategiesStart == pageNum {
		st.singlePage = true
	}
}

// finalizeGoal runs the collaborators and seals the goal. Collaborator
// failures are absorbed here: focus falls back to the defaults already on
// the goal, the summary to a fixed sentinel.
func (e *Extractor) finalizeGoal(ctx context.Context, goal *Goal, schoolName string, level constants.Level) Goal {
	if e.focus != nil {
		res, err := e.focus.NormalizeFocus(ctx, llm.FocusRequest{
			SchoolName:  schoolName,
			SchoolLevel: level.DisplayName(),
			FocusGroup:  goal.FocusGroup,
			FocusArea:   goal.FocusArea,
			Outcome:     goal.Outcome,
		})
		if err != nil {
			e.log.Warn("extract.focus.normalize_failed", "school", schoolName, "error", err)
		} else {
			goal.FocusGrades = res.FocusGrades
			goal.FocusStudentGroup = res.FocusStudentGroup
		}
	}

	if e.summarize != nil {
		req := llm.SummaryRequest{SchoolName: schoolName, Outcome: goal.Outcome}
		if len(goal.Strategies) > 0 {
			req.Actions = make([]llm.ActionItem, len(goal.Strategies))
			for i, s := range goal.Strategies {
				req.Actions[i] = llm.ActionItem{Action: s.Action, Measures: s.Measures}
			}
		} else {
			req.RawActions = goal.RawStrategies
		}
		summary, err := e.summarize.SummarizeActions(ctx, req)
		if err != nil {
			e.log.Warn("extract.summary.failed", "school", schoolName, "error", err)
			summary = llm.SummaryUnavailable
		}
		goal.StrategiesSummarized = summary
	}

	return *goal
}
