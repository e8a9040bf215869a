package scores

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Category pairs a canonical score key with the source column names
// that may carry it, tried in order, first match wins.
type Category struct {
	Key      string   `yaml:"key"`
	Synonyms []string `yaml:"synonyms"`
}

// Table configures field-name resolution for one export format family.
// New upstream formats only need a table edit, not code.
type Table struct {
	Categories     []Category `yaml:"categories"`
	IdentityFields []string   `yaml:"identity_fields"`
	SongFields     []string   `yaml:"song_fields"`
}

// DefaultTable matches the column vocabulary of the official scoring
// summary exports.
func DefaultTable() Table {
	return Table{
		Categories: []Category{
			{Key: "MUS", Synonyms: []string{"MUS", "Music", "MUS Score"}},
			{Key: "PER", Synonyms: []string{"PER", "Performance", "PER Score"}},
			{Key: "SNG", Synonyms: []string{"SNG", "Singing", "SNG Score"}},
			{Key: "Total", Synonyms: []string{"Total", "Score Total", "TOT"}},
		},
		IdentityFields: []string{"Group", "Competitor", "Contestant"},
		SongFields:     []string{"Songs", "Song", "Selection"},
	}
}

// LoadTable reads a synonym table from a YAML file. Missing identity or
// song fields fall back to the defaults so a partial override stays
// usable.
func LoadTable(path string) (Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Table{}, err
	}
	var t Table
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return Table{}, fmt.Errorf("parse synonym table %s: %w", path, err)
	}
	if len(t.Categories) == 0 {
		return Table{}, fmt.Errorf("synonym table %s: no categories", path)
	}
	def := DefaultTable()
	if len(t.IdentityFields) == 0 {
		t.IdentityFields = def.IdentityFields
	}
	if len(t.SongFields) == 0 {
		t.SongFields = def.SongFields
	}
	for _, c := range t.Categories {
		if c.Key == "" || len(c.Synonyms) == 0 {
			return Table{}, fmt.Errorf("synonym table %s: category without key or synonyms", path)
		}
	}
	return t, nil
}
