// Package index loads and validates the school index: the per-level list
// of school names and their 1-indexed, end-inclusive page ranges inside
// each combined SIP PDF. The index is maintained by hand (the published
// appendix it is seeded from is not always accurate), so loading is strict
// about shape and permissive about nothing.
package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lisaguthrie/sipdash/constants"
)

// Entry is one school's page range within its level's PDF. Pages are
// 1-indexed and End is inclusive.
type Entry struct {
	School string `json:"school" yaml:"school"`
	Start  int    `json:"start"  yaml:"start"`
	End    int    `json:"end"    yaml:"end"`
}

// Index groups entries by school level, mirroring the on-disk layout:
//
//	{"high": [{"school": "Eastlake High School", "start": 1, "end": 9}], ...}
type Index map[constants.Level][]Entry

// Load reads an index file. YAML is accepted alongside JSON, chosen by
// file extension.
func Load(path string) (Index, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read school index: %w", err)
	}

	byLevel := map[string][]Entry{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &byLevel); err != nil {
			return nil, fmt.Errorf("parse school index %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(raw, &byLevel); err != nil {
			return nil, fmt.Errorf("parse school index %s: %w", path, err)
		}
	}

	ix := Index{}
	for key, entries := range byLevel {
		level, ok := constants.ParseLevel(key)
		if !ok {
			return nil, fmt.Errorf("school index %s: unknown level %q", path, key)
		}
		ix[level] = entries
	}
	if err := ix.Validate(); err != nil {
		return nil, fmt.Errorf("school index %s: %w", path, err)
	}
	return ix, nil
}

// Validate checks every entry for a usable name and page range.
func (ix Index) Validate() error {
	for level, entries := range ix {
		for i, e := range entries {
			if strings.TrimSpace(e.School) == "" {
				return fmt.Errorf("%s entry %d: empty school name", level, i)
			}
			if e.Start < 1 {
				return fmt.Errorf("%s %q: start page %d, pages are 1-indexed", level, e.School, e.Start)
			}
			if e.End < e.Start {
				return fmt.Errorf("%s %q: end page %d before start page %d", level, e.School, e.End, e.Start)
			}
		}
	}
	return nil
}

// Schools returns the entries for one level, in index order.
func (ix Index) Schools(level constants.Level) []Entry {
	return ix[level]
}

// TotalSchools counts entries across all levels.
func (ix Index) TotalSchools() int {
	n := 0
	for _, entries := range ix {
		n += len(entries)
	}
	return n
}

// WriteFile writes the index as indented JSON, levels in a fixed order so
// the output diffs cleanly against hand edits.
func (ix Index) WriteFile(path string) error {
	ordered := make(map[string][]Entry, len(ix))
	for level, entries := range ix {
		ordered[string(level)] = entries
	}
	// encoding/json sorts map keys, so ordering is stable already; the
	// sort here fixes entry order within a level after merges.
	for _, entries := range ordered {
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Start < entries[j].Start })
	}

	raw, err := json.MarshalIndent(ordered, "", "    ")
	if err != nil {
		return fmt.Errorf("encode school index: %w", err)
	}
	if err := os.WriteFile(path, append(raw, '\n'), 0o644); err != nil {
		return fmt.Errorf("write school index: %w", err)
	}
	return nil
}
