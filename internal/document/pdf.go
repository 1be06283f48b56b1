package document

import (
	"fmt"
	"os"
	"sort"

	"github.com/ledongthuc/pdf"
)

// Layout tuning for table reconstruction. The SIP PDFs are text-born (no
// OCR involved), so positioned text runs are reliable; rows are grouped by
// baseline and cells by horizontal gaps.
const (
	rowTolerance = 2.5  // max baseline delta for runs on the same row (pt)
	cellGap      = 14.0 // min horizontal gap that separates two cells (pt)
	blockGap     = 26.0 // min vertical gap that separates two tables (pt)
)

// PDF adapts a PDF file to the Document interface using positioned text
// runs. Table reconstruction is heuristic: it clusters runs into rows and
// cells by geometry rather than ruling lines, which is sufficient for the
// rigid two-column layout of the SIP priority tables.
type PDF struct {
	file   *os.File
	reader *pdf.Reader
}

// OpenPDF opens the document at path. The caller owns Close.
func OpenPDF(path string) (*PDF, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	return &PDF{file: f, reader: r}, nil
}

func (d *PDF) Close() error { return d.file.Close() }

func (d *PDF) PageCount() int { return d.reader.NumPage() }

func (d *PDF) PageText(page int) (string, error) {
	p := d.reader.Page(page + 1)
	if p.V.IsNull() {
		return "", fmt.Errorf("page %d: no content", page)
	}
	text, err := p.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("page %d: extract text: %w", page, err)
	}
	return text, nil
}

func (d *PDF) PageTables(page int) (tables []Table, err error) {
	// Content() panics on malformed page streams; surface that as a
	// per-page read error so callers can skip the page.
	defer func() {
		if r := recover(); r != nil {
			tables, err = nil, fmt.Errorf("page %d: decode content: %v", page, r)
		}
	}()

	p := d.reader.Page(page + 1)
	if p.V.IsNull() {
		return nil, fmt.Errorf("page %d: no content", page)
	}
	rows := groupRows(p.Content().Text)
	return groupTables(rows), nil
}

// textRow is an intermediate row of positioned runs sharing a baseline.
type textRow struct {
	y    float64
	runs []pdf.Text
}

func groupRows(runs []pdf.Text) []textRow {
	sorted := make([]pdf.Text, len(runs))
	copy(sorted, runs)
	// Top of page first (PDF y grows upward), then left to right.
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var rows []textRow
	for _, run := range sorted {
		if run.S == "" {
			continue
		}
		if n := len(rows); n > 0 && rows[n-1].y-run.Y <= rowTolerance {
			rows[n-1].runs = append(rows[n-1].runs, run)
			continue
		}
		rows = append(rows, textRow{y: run.Y, runs: []pdf.Text{run}})
	}
	return rows
}

// groupTables slices consecutive rows into tables wherever the vertical
// gap exceeds blockGap, then splits each row into cells on horizontal
// gaps. Blocks with no multi-cell row are plain paragraphs, not tables.
func groupTables(rows []textRow) []Table {
	var tables []Table
	var block []textRow
	flush := func() {
		if t, ok := blockToTable(block); ok {
			tables = append(tables, t)
		}
		block = nil
	}
	for i, row := range rows {
		if i > 0 && rows[i-1].y-row.y > blockGap {
			flush()
		}
		block = append(block, row)
	}
	flush()
	return tables
}

func blockToTable(block []textRow) (Table, bool) {
	var t Table
	multi := false
	for _, row := range block {
		cells := splitCells(row.runs)
		if len(cells) > 1 {
			multi = true
		}
		t.Rows = append(t.Rows, NewRow(cells...))
	}
	return t, multi && len(t.Rows) > 0
}

func splitCells(runs []pdf.Text) []string {
	var cells []string
	var current string
	var rightEdge float64
	for i, run := range runs {
		if i > 0 && run.X-rightEdge > cellGap {
			cells = append(cells, current)
			current = ""
		}
		current += run.S
		rightEdge = run.X + run.W
	}
	if current != "" {
		cells = append(cells, current)
	}
	return cells
}
