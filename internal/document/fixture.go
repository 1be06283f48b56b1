package document

import (
	"encoding/json"
	"fmt"
	"os"
)

// FixturePage is one page of a Fixture document: plain text plus tables as
// grids of optional cell strings. The JSON shape matches page dumps
// produced by table-extraction tooling, so captured pages can be replayed
// without the source PDF.
type FixturePage struct {
	Text   string       `json:"text"`
	Tables [][][]string `json:"tables"`

	// Err, when non-empty, makes every read of this page fail. Used to
	// exercise page-skip behavior.
	Err string `json:"err,omitempty"`
}

// Fixture is an in-memory Document backed by pre-extracted pages.
type Fixture struct {
	pages []FixturePage
}

func NewFixture(pages []FixturePage) *Fixture {
	return &Fixture{pages: pages}
}

// LoadFixture reads a JSON page dump from disk.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture decodes a JSON array of FixturePage.
func ParseFixture(data []byte) (*Fixture, error) {
	var pages []FixturePage
	if err := json.Unmarshal(data, &pages); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &Fixture{pages: pages}, nil
}

func (f *Fixture) PageCount() int { return len(f.pages) }

func (f *Fixture) PageText(page int) (string, error) {
	p, err := f.page(page)
	if err != nil {
		return "", err
	}
	return p.Text, nil
}

func (f *Fixture) PageTables(page int) ([]Table, error) {
	p, err := f.page(page)
	if err != nil {
		return nil, err
	}
	tables := make([]Table, 0, len(p.Tables))
	for _, grid := range p.Tables {
		t := Table{Rows: make([]Row, 0, len(grid))}
		for _, cells := range grid {
			t.Rows = append(t.Rows, NewRow(cells...))
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func (f *Fixture) page(page int) (FixturePage, error) {
	if page < 0 || page >= len(f.pages) {
		return FixturePage{}, fmt.Errorf("page %d out of range (%d pages)", page, len(f.pages))
	}
	p := f.pages[page]
	if p.Err != "" {
		return FixturePage{}, fmt.Errorf("page %d: %s", page, p.Err)
	}
	return p, nil
}
