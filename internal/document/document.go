// Package document provides read-only, page-addressable access to the
// source SIP documents. Each page exposes its plain text and zero or more
// tables; a table is a grid of optional cell strings. Consumers never
// mutate pages or tables.
package document

import (
	"regexp"
	"strings"
)

// Row is one table row. A nil cell marks a grid slot the extractor could
// not assign any text to; CleanCell reports "" for it.
type Row []*string

// Table is an ordered grid of rows as extracted from a single page.
type Table struct {
	Rows []Row
}

// Document is a paginated source. Page indexes are 0-based. Reads may fail
// per page (encrypted or damaged page streams); callers are expected to
// log and skip rather than abort.
type Document interface {
	PageCount() int
	PageText(page int) (string, error)
	PageTables(page int) ([]Table, error)
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// CleanText collapses runs of whitespace and newlines to single spaces and
// trims the ends. Applied to every extracted cell before classification.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// CleanCell returns the cleaned text of cell i, or "" when the row is too
// short or the cell is nil.
func (r Row) CleanCell(i int) string {
	if i < 0 || i >= len(r) || r[i] == nil {
		return ""
	}
	return CleanText(*r[i])
}

// Len reports the number of cells in the row, nil cells included.
func (r Row) Len() int { return len(r) }

// NewRow builds a Row from plain strings. Convenience for fixtures and tests.
func NewRow(cells ...string) Row {
	row := make(Row, len(cells))
	for i := range cells {
		c := cells[i]
		row[i] = &c
	}
	return row
}
