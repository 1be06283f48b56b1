package embed

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lisaguthrie/sipdash/constants"
	"github.com/lisaguthrie/sipdash/internal/extract"
)

// stubEmbedder maps exact texts to fixed vectors; unknown text errors.
type stubEmbedder struct {
	vectors map[string][]float32
	fallbck []float32
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	if s.fallbck != nil {
		return s.fallbck, nil
	}
	return nil, errors.New("no vector for text")
}

func TestGoalText(t *testing.T) {
	g := extract.Goal{
		Area:              constants.Math,
		FocusArea:         "Algebra I",
		FocusGrades:       "Grade 9",
		FocusStudentGroup: "All Students",
		Outcome:           "90% pass rate",
		Strategies: []extract.Strategy{
			{Action: "Co-teaching", Measures: "Walkthroughs"},
		},
	}
	got := GoalText(g)
	want := "90% pass rate Focus: Algebra I Action: Co-teaching Measures: Walkthroughs Area: Math Grades: Grade 9 Students: All Students"
	if got != want {
		t.Errorf("GoalText = %q, want %q", got, want)
	}
}

func TestGoalTextRawFallback(t *testing.T) {
	g := extract.Goal{Outcome: "Belonging up 10 points", RawStrategies: "Advisory refresh"}
	got := GoalText(g)
	if !strings.Contains(got, "Advisory refresh") {
		t.Errorf("raw strategies missing from %q", got)
	}
}

func TestGoalID(t *testing.T) {
	got := GoalID("Helen Keller Elementary", "Elementary School", 0, "ELA")
	if got != "helen-keller-elementary-elementary-goal-1-ela" {
		t.Errorf("GoalID = %q", got)
	}
	got = GoalID("St. Mark's Academy", "High School", 2, "9th Grade Success")
	if got != "st-marks-academy-high-goal-3-9th-grade-success" {
		t.Errorf("GoalID = %q", got)
	}
}

func TestBuildStoreSkipsFailedGoals(t *testing.T) {
	results := []extract.SchoolResult{{
		Name:  "Eastlake High School",
		Level: "High School",
		Goals: []extract.Goal{
			{Area: constants.Math, Outcome: "goal one"},
			{Area: constants.SEL, Outcome: "goal two"},
		},
	}}
	emb := &stubEmbedder{vectors: map[string][]float32{
		GoalText(results[0].Goals[1]): {0, 1, 0},
	}}

	store, err := BuildStore(context.Background(), emb, results, "all-MiniLM-L6-v2", 3, nil)
	if err != nil {
		t.Fatalf("BuildStore: %v", err)
	}
	if len(store.Goals) != 1 {
		t.Fatalf("got %d entries, want 1 (first goal's embedding fails)", len(store.Goals))
	}
	e := store.Goals[0]
	if e.ID != "eastlake-high-school-high-goal-2-sel" || e.GoalIndex != 1 {
		t.Errorf("surviving entry = %+v", e)
	}
}

func TestStoreRoundTripAndSearch(t *testing.T) {
	store := &Store{
		Model:      "all-MiniLM-L6-v2",
		Dimensions: 3,
		Goals: []Entry{
			{ID: "a-elementary-goal-1-math", Area: "Math", SchoolLevel: "Elementary School", Embedding: []float32{1, 0, 0}},
			{ID: "b-middle-goal-1-math", Area: "Math", SchoolLevel: "Middle School", Embedding: []float32{0.9, 0.1, 0}},
			{ID: "c-high-goal-1-sel", Area: "SEL", SchoolLevel: "High School", Embedding: []float32{0, 1, 0}},
		},
	}

	path := filepath.Join(t.TempDir(), "goals_embeddings.json")
	if err := store.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	loaded, err := LoadStore(path)
	if err != nil {
		t.Fatalf("LoadStore: %v", err)
	}
	if diff := cmp.Diff(store, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	emb := &stubEmbedder{fallbck: []float32{1, 0, 0}}
	matches, err := loaded.Search(context.Background(), emb, "algebra", 2, Filters{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].ID != "a-elementary-goal-1-math" || matches[1].ID != "b-middle-goal-1-math" {
		t.Errorf("order = %s, %s", matches[0].ID, matches[1].ID)
	}
	if matches[0].Similarity < matches[1].Similarity {
		t.Errorf("similarities out of order: %f < %f", matches[0].Similarity, matches[1].Similarity)
	}

	// Filtered search only sees matching entries.
	matches, err = loaded.Search(context.Background(), emb, "algebra", 0, Filters{Area: "SEL"})
	if err != nil {
		t.Fatalf("filtered Search: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != "c-high-goal-1-sel" {
		t.Errorf("filtered matches = %+v", matches)
	}
}

func TestCosineSimilarity(t *testing.T) {
	if got := CosineSimilarity([]float32{1, 0}, []float32{1, 0}); math.Abs(got-1) > 1e-9 {
		t.Errorf("identical vectors = %f", got)
	}
	if got := CosineSimilarity([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Errorf("orthogonal vectors = %f", got)
	}
	if got := CosineSimilarity([]float32{1, 0}, []float32{0, 0}); got != 0 {
		t.Errorf("zero vector = %f", got)
	}
	if got := CosineSimilarity([]float32{1}, []float32{1, 0}); got != 0 {
		t.Errorf("mismatched lengths = %f", got)
	}
}
