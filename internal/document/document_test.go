package document

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"  hello  ", "hello"},
		{"line one\nline two", "line one line two"},
		{"a\t b\n\n c", "a b c"},
		{"already clean", "already clean"},
	}
	for _, tt := range tests {
		if got := CleanText(tt.in); got != tt.want {
			t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRowCleanCell(t *testing.T) {
	row := Row{nil, ptr("  two\nlines "), ptr("")}
	if got := row.CleanCell(0); got != "" {
		t.Errorf("nil cell = %q, want empty", got)
	}
	if got := row.CleanCell(1); got != "two lines" {
		t.Errorf("cell 1 = %q, want %q", got, "two lines")
	}
	if got := row.CleanCell(5); got != "" {
		t.Errorf("out-of-range cell = %q, want empty", got)
	}
}

func TestFixtureRoundTrip(t *testing.T) {
	data := []byte(`[
		{"text": "Continuous Improvement Priorities",
		 "tables": [[["Priority #1"], ["Focus Area", "Algebra"]]]},
		{"text": "", "tables": [], "err": "damaged stream"}
	]`)
	doc, err := ParseFixture(data)
	if err != nil {
		t.Fatalf("ParseFixture: %v", err)
	}
	if doc.PageCount() != 2 {
		t.Fatalf("PageCount = %d, want 2", doc.PageCount())
	}

	text, err := doc.PageText(0)
	if err != nil {
		t.Fatalf("PageText(0): %v", err)
	}
	if text != "Continuous Improvement Priorities" {
		t.Errorf("PageText(0) = %q", text)
	}

	tables, err := doc.PageTables(0)
	if err != nil {
		t.Fatalf("PageTables(0): %v", err)
	}
	want := []Table{{Rows: []Row{NewRow("Priority #1"), NewRow("Focus Area", "Algebra")}}}
	if diff := cmp.Diff(want, tables); diff != "" {
		t.Errorf("tables mismatch (-want +got):\n%s", diff)
	}

	if _, err := doc.PageText(1); err == nil {
		t.Error("PageText(1) should fail for err page")
	}
	if _, err := doc.PageTables(2); err == nil {
		t.Error("PageTables(2) should fail out of range")
	}
}

func ptr(s string) *string { return &s }
