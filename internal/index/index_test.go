package index

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lisaguthrie/sipdash/constants"
)

const appendixSample = `
Lake Washington School District
2025-26 School Improvement Plans

Appendix: High School Improvement Plans
Eastlake High School pp. 1-9
Juanita High School pp. 9-18

Appendix: Middle School Improvement Plans
Finn Hill Middle School pp. 2-7
Rose Hill Middle School  pp. 7 - 12

Appendix: Choice School Improvement Plans
Ignored Choice Program pp. 1-3

Appendix: Elementary School Improvement Plans
Ben Franklin Elementary pp. 3-8
Some note without a page range
`

func TestParseAppendix(t *testing.T) {
	ix, err := ParseAppendix(strings.NewReader(appendixSample))
	if err != nil {
		t.Fatalf("ParseAppendix: %v", err)
	}

	want := Index{
		constants.High: {
			{School: "Eastlake High School", Start: 1, End: 9},
			{School: "Juanita High School", Start: 9, End: 18},
		},
		constants.Middle: {
			{School: "Finn Hill Middle School", Start: 2, End: 7},
			{School: "Rose Hill Middle School", Start: 7, End: 12},
		},
		constants.Elementary: {
			{School: "Ben Franklin Elementary", Start: 3, End: 8},
		},
	}
	if diff := cmp.Diff(want, ix); diff != "" {
		t.Errorf("parsed index mismatch (-want +got):\n%s", diff)
	}
	if ix.TotalSchools() != 5 {
		t.Errorf("TotalSchools = %d, want 5", ix.TotalSchools())
	}
}

func TestLoadJSONRoundTrip(t *testing.T) {
	ix, err := ParseAppendix(strings.NewReader(appendixSample))
	if err != nil {
		t.Fatalf("ParseAppendix: %v", err)
	}

	path := filepath.Join(t.TempDir(), "school_index.json")
	if err := ix.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(ix, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadYAML(t *testing.T) {
	const doc = `
high:
  - school: Eastlake High School
    start: 1
    end: 9
elementary:
  - school: Ben Franklin Elementary
    start: 3
    end: 8
`
	path := filepath.Join(t.TempDir(), "school_index.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	ix, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Index{
		constants.High:       {{School: "Eastlake High School", Start: 1, End: 9}},
		constants.Elementary: {{School: "Ben Franklin Elementary", Start: 3, End: 8}},
	}
	if diff := cmp.Diff(want, ix); diff != "" {
		t.Errorf("yaml index mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsUnknownLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "school_index.json")
	if err := os.WriteFile(path, []byte(`{"preschool": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "unknown level") {
		t.Fatalf("err = %v, want unknown level", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name  string
		ix    Index
		wants string
	}{
		{"empty name", Index{constants.High: {{School: " ", Start: 1, End: 2}}}, "empty school name"},
		{"zero start", Index{constants.High: {{School: "X High School", Start: 0, End: 2}}}, "1-indexed"},
		{"inverted range", Index{constants.High: {{School: "X High School", Start: 5, End: 4}}}, "before start"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.ix.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.wants) {
				t.Fatalf("err = %v, want %q", err, tc.wants)
			}
		})
	}
}
