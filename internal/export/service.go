// Package export renders stored extraction results into the files the
// dashboard consumes: the extracted-results JSON and an XLSX review
// workbook for hand checking.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/lisaguthrie/sipdash/internal/extract"
)

// Service turns a set of school results into export artifacts.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// WriteJSON writes the extracted-results file the dashboard loads. The
// shape is a flat array of schools, 2-space indented.
func (s *Service) WriteJSON(path string, results []extract.SchoolResult) error {
	start := time.Now()
	if results == nil {
		results = []extract.SchoolResult{}
	}

	raw, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	if err := os.WriteFile(path, append(raw, '\n'), 0o644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}

	s.logger.Info("export.json.ok",
		"path", path,
		"schools", len(results),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// LoadJSON reads a previously written results file.
func LoadJSON(path string) ([]extract.SchoolResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	var results []extract.SchoolResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, fmt.Errorf("parse results %s: %w", path, err)
	}
	return results, nil
}

// GoalsXLSX returns an XLSX workbook (as bytes) with one row per goal,
// for reviewing a run against the source PDFs.
func (s *Service) GoalsXLSX(ctx context.Context, results []extract.SchoolResult) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Goals"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if defIndex, _ := f.GetSheetIndex("Sheet1"); defIndex != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"School",
		"Level",
		"Area",
		"Focus Group",
		"Focus Area",
		"Focus Grades",
		"Focus Student Group",
		"Desired Outcome",
		"Strategies",
		"Summary",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	goals := 0
	for _, res := range results {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, g := range res.Goals {
			write := func(col int, v any) {
				cell, _ := excelize.CoordinatesToCellName(col, row)
				_ = f.SetCellValue(sheet, cell, v)
			}

			write(1, res.Name)
			write(2, res.Level)
			write(3, string(g.Area))
			write(4, g.FocusGroup)
			write(5, g.FocusArea)
			write(6, g.FocusGrades)
			write(7, g.FocusStudentGroup)
			write(8, truncate(g.Outcome, 300))
			write(9, truncate(strategiesCell(g), 500))
			write(10, truncate(g.StrategiesSummarized, 500))

			row++
			goals++
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 28) // school
	_ = f.SetColWidth(sheet, "B", "C", 16) // level, area
	_ = f.SetColWidth(sheet, "D", "G", 22) // focus fields
	_ = f.SetColWidth(sheet, "H", "H", 48) // outcome
	_ = f.SetColWidth(sheet, "I", "J", 60) // strategies, summary

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"schools", len(results),
		"goals", goals,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// strategiesCell flattens a goal's actions for a spreadsheet cell. The raw
// text fallback stands in when no structured table was found.
func strategiesCell(g extract.Goal) string {
	if len(g.Strategies) == 0 {
		return g.RawStrategies
	}
	parts := make([]string, len(g.Strategies))
	for i, st := range g.Strategies {
		parts[i] = st.Action
	}
	return strings.Join(parts, "; ")
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
