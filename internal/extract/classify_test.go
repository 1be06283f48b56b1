package extract

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lisaguthrie/sipdash/internal/document"
)

func TestClassifyRow(t *testing.T) {
	tests := []struct {
		name string
		row  document.Row
		want classified
	}{
		{
			name: "single cell boundary",
			row:  document.NewRow("Priority #1"),
			want: classified{kind: rowBoundary, marker: "Priority #1"},
		},
		{
			name: "boundary with empty trailing cells",
			row:  document.NewRow("Priority #2", "", ""),
			want: classified{kind: rowBoundary, marker: "Priority #2"},
		},
		{
			name: "boundary is case-insensitive",
			row:  document.NewRow("PRIORITY #3"),
			want: classified{kind: rowBoundary, marker: "PRIORITY #3"},
		},
		{
			name: "single cell non-boundary",
			row:  document.NewRow("Some heading"),
			want: classified{kind: rowUnrecognized},
		},
		{
			name: "strategy table header",
			row:  document.NewRow("Action", "Measure of Fidelity of Implementation"),
			want: classified{kind: rowStrategyHeader},
		},
		{
			name: "labeled field",
			row:  document.NewRow("Desired Outcome", "90% pass rate"),
			want: classified{kind: rowLabeledField, label: "desired outcome", value: "90% pass rate", cells: 2},
		},
		{
			name: "labeled field cleans whitespace",
			row:  document.NewRow("  Focus\nArea ", " Algebra I \n pass rate "),
			want: classified{kind: rowLabeledField, label: "focus area", value: "Algebra I pass rate", cells: 2},
		},
		{
			name: "labeled field with empty value",
			row:  document.NewRow("Timeline for Focus", ""),
			want: classified{kind: rowLabeledField, label: "timeline for focus", value: "", cells: 2},
		},
		{
			name: "wide labeled field with empty trailing cells",
			row:  document.NewRow("Desired Outcome", "", ""),
			want: classified{kind: rowLabeledField, label: "desired outcome", value: "", cells: 3},
		},
		{
			name: "priority label with a value is a field",
			row:  document.NewRow("Priority Area", "Math"),
			want: classified{kind: rowLabeledField, label: "priority area", value: "Math", cells: 2},
		},
		{
			name: "empty row",
			row:  document.Row{},
			want: classified{kind: rowUnrecognized},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyRow(tt.row)
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(classified{})); diff != "" {
				t.Errorf("classifyRow mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStrategiesFromRowsSkipsHeaders(t *testing.T) {
	rows := []document.Row{
		document.NewRow("Action", "Measure of Fidelity of Implementation"),
		document.NewRow("Priority Area", "Math"),
		document.NewRow("Focus Area", "Algebra"),
		document.NewRow("Desired Outcome", "90%"),
		document.NewRow("Current Data Supporting Focus Area", "40%"),
		document.NewRow("Strategy to Address Priority", "..."),
		document.NewRow("Timeline for Focus", "2025-26"),
		document.NewRow("Method(s) of data review", "quarterly"),
		document.NewRow("Daily small-group tutoring", "Exit tickets"),
		document.NewRow("only one cell"),
		document.NewRow("", "orphan measures"),
	}
	got := strategiesFromRows(rows)
	want := []Strategy{{Action: "Daily small-group tutoring", Measures: "Exit tickets"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("strategiesFromRows mismatch (-want +got):\n%s", diff)
	}
}
