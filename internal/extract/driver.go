package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lisaguthrie/sipdash/constants"
	"github.com/lisaguthrie/sipdash/internal/document"
	"github.com/lisaguthrie/sipdash/internal/llm"
)

// maxGoals is how many goals a school's plan is expected to hold. Anything
// beyond that signals mis-segmented tables and is discarded, not merged.
const maxGoals = 3

// ErrNoGoals marks a school whose page range produced nothing; the school
// is reported as a failed extraction, and the run continues.
var ErrNoGoals = errors.New("no goals extracted")

// Driver runs per-school extraction over one document.
type Driver struct {
	doc       document.Document
	extractor *Extractor
	log       *slog.Logger
}

func NewDriver(doc document.Document, focus llm.FocusNormalizer, summarize llm.ActionSummarizer, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{
		doc:       doc,
		extractor: NewExtractor(doc, focus, summarize, logger),
		log:       logger,
	}
}

// ExtractSchool extracts goals for one school. startPage and endPage are
// the 1-indexed, end-inclusive page numbers from the school index. The
// declared range is trusted even when the school name cannot be confirmed
// on the start page; that mismatch is only warned about.
//
// Fewer than three goals is a degraded result, not an error. Zero goals
// returns ErrNoGoals.
func (d *Driver) ExtractSchool(ctx context.Context, schoolName string, level constants.Level, startPage, endPage int) (*SchoolResult, error) {
	d.log.Info("extract.school.start", "school", schoolName, "level", level, "pages", fmt.Sprintf("%d-%d", startPage, endPage))

	if startPage < 1 {
		return nil, fmt.Errorf("start page %d: pages are 1-indexed", startPage)
	}
	startIdx := startPage - 1
	if startIdx >= d.doc.PageCount() {
		return nil, fmt.Errorf("start page %d exceeds document length (%d pages)", startPage, d.doc.PageCount())
	}

	text, err := d.doc.PageText(startIdx)
	if err != nil {
		return nil, fmt.Errorf("read start page %d: %w", startPage, err)
	}
	if !strings.Contains(strings.ToLower(text), strings.ToLower(schoolName)) {
		d.log.Warn("extract.school.name_not_on_start_page", "school", schoolName, "page", startPage)
	}

	goals := d.extractor.ExtractGoals(ctx, schoolName, level, startIdx, endPage-1)

	switch {
	case len(goals) >= maxGoals:
		if len(goals) > maxGoals {
			d.log.Warn("extract.school.excess_goals", "school", schoolName, "found", len(goals), "kept", maxGoals)
		}
		goals = goals[:maxGoals]
	case len(goals) > 0:
		d.log.Warn("extract.school.degraded", "school", schoolName, "goals", len(goals), "expected", maxGoals)
	default:
		d.log.Warn("extract.school.no_goals", "school", schoolName)
		return nil, ErrNoGoals
	}

	d.log.Info("extract.school.ok", "school", schoolName, "goals", len(goals))
	return &SchoolResult{
		Name:  schoolName,
		Level: level.DisplayName(),
		Goals: goals,
	}, nil
}
