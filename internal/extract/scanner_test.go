package extract

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lisaguthrie/sipdash/constants"
	"github.com/lisaguthrie/sipdash/internal/document"
)

// goalPage returns a first page holding one goal whose strategy table opens
// with the given data rows and is not yet known to end on this page.
func goalPage(strategyRows ...[]string) document.FixturePage {
	rows := [][]string{
		{"Priority #1"},
		{"Priority Area", "Mathematics"},
		{"Strategy to Address Priority", "embedded table below"},
		{"Action", "Measure of Fidelity of Implementation"},
	}
	rows = append(rows, strategyRows...)
	return document.FixturePage{Text: sectionText, Tables: [][][]string{rows}}
}

func extractStrategies(t *testing.T, doc document.Document, endPage int) []Strategy {
	t.Helper()
	goals := newTestExtractor(doc).ExtractGoals(context.Background(), "Finn Hill Middle School", constants.Middle, 0, endPage)
	if len(goals) != 1 {
		t.Fatalf("got %d goals, want 1", len(goals))
	}
	return goals[0].Strategies
}

func TestContinuationSplitRowMerged(t *testing.T) {
	doc := document.NewFixture([]document.FixturePage{
		goalPage([]string{"Expand PLC data cycles", ""}),
		{
			Text: "continued",
			Tables: [][][]string{
				// Outer goal table resumes with an empty first cell; the
				// embedded table spills out as a second table. Its first
				// row is the tail half of the split row.
				{{""}, {"Timeline for Focus", "2025-26"}},
				{{"", "PLC meeting notes reviewed monthly"}, {"Family math nights", "Attendance counts"}},
			},
		},
	})

	got := extractStrategies(t, doc, 2)
	want := []Strategy{
		{Action: "Expand PLC data cycles", Measures: "PLC meeting notes reviewed monthly"},
		{Action: "Family math nights", Measures: "Attendance counts"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("merged strategies mismatch (-want +got):\n%s", diff)
	}
}

func TestContinuationCleanBreak(t *testing.T) {
	// The page break falls between rows: the continuation's first row is a
	// complete new strategy, not a tail half.
	doc := document.NewFixture([]document.FixturePage{
		goalPage([]string{"Daily math intervention block", "iReady growth reports"}),
		{
			Text: "continued",
			Tables: [][][]string{
				{{""}, {"Timeline for Focus", "2025-26"}},
				{{"Peer tutoring program", "Tutoring session logs"}},
			},
		},
	})

	got := extractStrategies(t, doc, 2)
	want := []Strategy{
		{Action: "Daily math intervention block", Measures: "iReady growth reports"},
		{Action: "Peer tutoring program", Measures: "Tutoring session logs"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("strategies mismatch (-want +got):\n%s", diff)
	}
}

func TestSinglePageShortCircuit(t *testing.T) {
	// The engagement row follows the strategy header on the same page, so
	// the table is single-page; the scanner must not read further pages,
	// whatever they contain.
	doc := document.NewFixture([]document.FixturePage{
		{
			Text: sectionText,
			Tables: [][][]string{{
				{"Priority #1"},
				{"Strategy to Address Priority", "embedded table below"},
				{"Strategy to engage students, families, parents and community members", "newsletters"},
				{"Action", "Measure of Fidelity of Implementation"},
				{"Co-teaching in algebra", "Walkthrough data"},
			}},
		},
		{
			Text: "next school's page",
			Tables: [][][]string{
				{{""}, {"x", "y"}},
				{{"Unrelated club meetings", "Club rosters"}},
			},
			Err: "", // readable, but must not be scanned for continuations
		},
	})

	got := extractStrategies(t, doc, 2)
	want := []Strategy{{Action: "Co-teaching in algebra", Measures: "Walkthrough data"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("short-circuit violated (-want +got):\n%s", diff)
	}
}

func TestSinglePageShortCircuitWithEmptyValueCell(t *testing.T) {
	// A timeline row whose value cell is empty still proves the strategy
	// table is confined to this page.
	doc := document.NewFixture([]document.FixturePage{
		{
			Text: sectionText,
			Tables: [][][]string{{
				{"Priority #1"},
				{"Strategy to Address Priority", "embedded table below"},
				{"Timeline for Focus", ""},
				{"Action", "Measure of Fidelity of Implementation"},
				{"Co-teaching in algebra", "Walkthrough data"},
			}},
		},
		{
			Text: "next school's page",
			Tables: [][][]string{
				{{""}, {"x", "y"}},
				{{"Unrelated club meetings", "Club rosters"}},
			},
		},
	})

	got := extractStrategies(t, doc, 2)
	want := []Strategy{{Action: "Co-teaching in algebra", Measures: "Walkthrough data"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("short-circuit violated (-want +got):\n%s", diff)
	}
}

func TestContinuationStopsWhenOuterTableResumes(t *testing.T) {
	doc := document.NewFixture([]document.FixturePage{
		goalPage([]string{"Daily math intervention block", "iReady growth reports"}),
		{
			Text: "continued",
			Tables: [][][]string{
				// More than one outer row: the strategy table ends here.
				{{""}, {"Timeline for Focus", "2025-26"}},
				{{"Peer tutoring program", "Tutoring session logs"}},
			},
		},
		{
			Text: "unrelated",
			Tables: [][][]string{
				{{""}, {"z", "w"}},
				{{"Leftover push-in support", "Push-in schedules"}},
			},
		},
	})

	got := extractStrategies(t, doc, 3)
	want := []Strategy{
		{Action: "Daily math intervention block", Measures: "iReady growth reports"},
		{Action: "Peer tutoring program", Measures: "Tutoring session logs"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("scan did not stop at table end (-want +got):\n%s", diff)
	}
}

func TestContinuationScanSkipsUnreadablePage(t *testing.T) {
	doc := document.NewFixture([]document.FixturePage{
		goalPage([]string{"Daily math intervention block", "iReady growth reports"}),
		{Text: "", Err: "damaged stream"},
		{
			Text: "continued",
			Tables: [][][]string{
				{{""}, {"Timeline for Focus", "2025-26"}},
				{{"Peer tutoring program", "Tutoring session logs"}},
			},
		},
	})

	got := extractStrategies(t, doc, 3)
	want := []Strategy{
		{Action: "Daily math intervention block", Measures: "iReady growth reports"},
		{Action: "Peer tutoring program", Measures: "Tutoring session logs"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unreadable page not skipped (-want +got):\n%s", diff)
	}
}

func TestContinuationNeverReadsPastEndOfRange(t *testing.T) {
	doc := document.NewFixture([]document.FixturePage{
		goalPage([]string{"Daily math intervention block", "iReady growth reports"}),
		{
			// Physically present but outside the school's page range.
			Text: "continued",
			Tables: [][][]string{
				{{""}},
				{{"Stray reading circles", "Circle attendance"}},
			},
		},
	})

	got := extractStrategies(t, doc, 1)
	want := []Strategy{{Action: "Daily math intervention block", Measures: "iReady growth reports"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("scan crossed the range bound (-want +got):\n%s", diff)
	}
}

func TestContinuationIgnoresNonContinuationPages(t *testing.T) {
	// A page whose first table starts with a non-empty cell is not a
	// continuation layout; the scan moves on without consuming it.
	doc := document.NewFixture([]document.FixturePage{
		goalPage([]string{"Daily math intervention block", "iReady growth reports"}),
		{
			Text: "interstitial",
			Tables: [][][]string{
				{{"Standalone heading", "value"}},
			},
		},
		{
			Text: "continued",
			Tables: [][][]string{
				{{""}, {"Timeline for Focus", "2025-26"}},
				{{"Peer tutoring program", "Tutoring session logs"}},
			},
		},
	})

	got := extractStrategies(t, doc, 3)
	want := []Strategy{
		{Action: "Daily math intervention block", Measures: "iReady growth reports"},
		{Action: "Peer tutoring program", Measures: "Tutoring session logs"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("strategies mismatch (-want +got):\n%s", diff)
	}
}
