package extract

import (
	"strings"

	"github.com/lisaguthrie/sipdash/internal/document"
)

// rowKind is the structural role of a table row within a priority table.
type rowKind int

const (
	rowUnrecognized   rowKind = iota
	rowBoundary               // "Priority #N" single-column marker, starts a goal
	rowLabeledField           // two-column label/value pair
	rowStrategyHeader         // "Action" / "Measure of Fidelity of Implementation"
)

// classified is the result of classifying one row. Marker carries the
// boundary text; Label/Value the cleaned field pair and Cells the row's
// original width.
type classified struct {
	kind   rowKind
	marker string
	label  string
	value  string
	cells  int
}

const (
	boundaryKeyword     = "priority"
	strategyHeaderLabel = "action"
	strategyHeaderValue = "measure of fidelity of implementation"
)

// classifyRow decides what a row is. Strategy data rows are not recognized
// here: they only exist inside a strategy sub-table, where the continuation
// scanner applies isStrategyRow.
func classifyRow(row document.Row) classified {
	if row.Len() == 0 {
		return classified{kind: rowUnrecognized}
	}

	// A boundary marker is a "Priority #N" row carrying no other content:
	// single-column, or with all trailing cells empty.
	text := row.CleanCell(0)
	if strings.HasPrefix(strings.ToLower(text), boundaryKeyword) && trailingCellsEmpty(row) {
		return classified{kind: rowBoundary, marker: text}
	}
	if row.Len() == 1 {
		return classified{kind: rowUnrecognized}
	}

	// Rows with two or more cells are label/value pairs even when the value
	// cell is empty.
	label := strings.ToLower(text)
	value := row.CleanCell(1)
	if label == strategyHeaderLabel && strings.ToLower(value) == strategyHeaderValue {
		return classified{kind: rowStrategyHeader}
	}
	return classified{kind: rowLabeledField, label: label, value: value, cells: row.Len()}
}

func trailingCellsEmpty(row document.Row) bool {
	for i := 1; i < row.Len(); i++ {
		if row.CleanCell(i) != "" {
			return false
		}
	}
	return true
}

// headerWords are column-header prefixes; a row whose first cell starts
// with one of these is never a strategy.
var headerWords = []string{
	"priority", "focus", "desired", "current", "strategy", "timeline", "method(s)",
}

// isStrategyRow reports whether a sub-table row holds an action/measure
// pair rather than a repeated header.
func isStrategyRow(action string) bool {
	if action == "" {
		return false
	}
	lower := strings.ToLower(action)
	if strings.Contains(lower, "action") {
		return false
	}
	for _, w := range headerWords {
		if strings.HasPrefix(lower, w) {
			return false
		}
	}
	return true
}

// strategiesFromRows extracts the action/measure pairs present in a strategy
// sub-table's rows, skipping header-like rows and rows too short to hold a
// pair.
func strategiesFromRows(rows []document.Row) []Strategy {
	var strategies []Strategy
	for _, row := range rows {
		if row.Len() < 2 {
			continue
		}
		action := row.CleanCell(0)
		if !isStrategyRow(action) {
			continue
		}
		strategies = append(strategies, Strategy{
			Action:   action,
			Measures: row.CleanCell(1),
		})
	}
	return strategies
}
