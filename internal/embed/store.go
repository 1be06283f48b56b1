package embed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"

	"github.com/lisaguthrie/sipdash/internal/extract"
)

// Entry is one goal's vector plus the metadata the dashboard filters on.
type Entry struct {
	ID                string    `json:"id"`
	SchoolName        string    `json:"school_name"`
	SchoolLevel       string    `json:"school_level"`
	GoalIndex         int       `json:"goal_index"`
	Area              string    `json:"area"`
	FocusGrades       string    `json:"focus_grades"`
	FocusStudentGroup string    `json:"focus_student_group"`
	Embedding         []float32 `json:"embedding"`
	Text              string    `json:"text"`
}

// Store is the exported embeddings file: model identity, dimensions, and
// one entry per goal.
type Store struct {
	Model      string  `json:"model"`
	Dimensions int     `json:"dimensions"`
	Goals      []Entry `json:"goals"`
}

// BuildStore embeds every goal in the results. A goal whose embedding
// fails is logged and skipped; one bad goal never sinks the export.
func BuildStore(ctx context.Context, embedder Embedder, results []extract.SchoolResult, model string, dimensions int, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	store := &Store{Model: model, Dimensions: dimensions, Goals: []Entry{}}

	for _, res := range results {
		logger.Debug("embed.school", "school", res.Name, "goals", len(res.Goals))
		for i, g := range res.Goals {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			vec, err := embedder.Embed(ctx, GoalText(g))
			if err != nil {
				logger.Warn("embed.goal_failed", "school", res.Name, "goal", i+1, "error", err)
				continue
			}
			store.Goals = append(store.Goals, Entry{
				ID:                GoalID(res.Name, res.Level, i, string(g.Area)),
				SchoolName:        res.Name,
				SchoolLevel:       res.Level,
				GoalIndex:         i,
				Area:              string(g.Area),
				FocusGrades:       g.FocusGrades,
				FocusStudentGroup: g.FocusStudentGroup,
				Embedding:         vec,
				Text:              displayText(res.Name, res.Level, i, g),
			})
		}
	}

	logger.Info("embed.store_built", "goals", len(store.Goals), "dimensions", dimensions)
	return store, nil
}

// WriteFile writes the store as the dashboard's goals_embeddings.json.
func (s *Store) WriteFile(path string) error {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode embeddings: %w", err)
	}
	if err := os.WriteFile(path, append(raw, '\n'), 0o644); err != nil {
		return fmt.Errorf("write embeddings: %w", err)
	}
	return nil
}

// LoadStore reads a previously exported embeddings file.
func LoadStore(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read embeddings: %w", err)
	}
	var s Store
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse embeddings %s: %w", path, err)
	}
	return &s, nil
}

// Filters restricts a search to exact metadata matches. Zero values match
// everything.
type Filters struct {
	Area              string
	SchoolLevel       string
	FocusGrades       string
	FocusStudentGroup string
}

func (f Filters) match(e Entry) bool {
	if f.Area != "" && e.Area != f.Area {
		return false
	}
	if f.SchoolLevel != "" && e.SchoolLevel != f.SchoolLevel {
		return false
	}
	if f.FocusGrades != "" && e.FocusGrades != f.FocusGrades {
		return false
	}
	if f.FocusStudentGroup != "" && e.FocusStudentGroup != f.FocusStudentGroup {
		return false
	}
	return true
}

// Match is one search hit.
type Match struct {
	Entry
	Similarity float64 `json:"similarity"`
}

// Search embeds the query and returns the topK most similar goals passing
// the filters, highest similarity first.
func (s *Store) Search(ctx context.Context, embedder Embedder, query string, topK int, filters Filters) ([]Match, error) {
	qvec, err := embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	var matches []Match
	for _, e := range s.Goals {
		if !filters.match(e) {
			continue
		}
		matches = append(matches, Match{Entry: e, Similarity: CosineSimilarity(qvec, e.Embedding)})
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Similarity > matches[j].Similarity })
	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// CosineSimilarity is zero for mismatched lengths or zero vectors.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
