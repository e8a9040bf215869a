package scores

import (
	"regexp"
	"strconv"
	"strings"

	"scoresheet/internal"
)

// Resolver turns raw rows into ScoreSets using a synonym table. It is
// read-only after construction and safe to share across conversions.
type Resolver struct {
	table Table
}

func NewResolver(table Table) *Resolver {
	return &Resolver{table: table}
}

// Categories returns the canonical category keys in their stable order.
func (r *Resolver) Categories() []string {
	out := make([]string, 0, len(r.table.Categories))
	for _, c := range r.table.Categories {
		out = append(out, c.Key)
	}
	return out
}

// Resolve builds the row's ScoreSet. Every category is always present:
// an absent or uncoercible field yields 0.0 plus one diagnostic, never
// an error. The first synonym present in the row decides the category,
// even when its value does not parse.
func (r *Resolver) Resolve(rowIndex int, row internal.Row) (internal.ScoreSet, []internal.Diagnostic) {
	set := make(internal.ScoreSet, len(r.table.Categories))
	var diags []internal.Diagnostic

	for _, cat := range r.table.Categories {
		field, raw, found := firstPresent(row, cat.Synonyms)
		if !found {
			set[cat.Key] = 0.0
			diags = append(diags, internal.Diagnostic{
				RowIndex: rowIndex,
				Category: cat.Key,
				Message:  "no matching score column",
			})
			continue
		}
		v, err := ParseScore(raw)
		if err != nil {
			set[cat.Key] = 0.0
			diags = append(diags, internal.Diagnostic{
				RowIndex: rowIndex,
				Category: cat.Key,
				Field:    field,
				Message:  "cannot coerce " + strconv.Quote(raw) + " to a score",
			})
			continue
		}
		set[cat.Key] = v
	}

	return set, diags
}

// IdentityCell returns the raw text of the row's identity field, or ""
// when the row has none (or only a null marker).
func (r *Resolver) IdentityCell(row internal.Row) string {
	_, raw, found := firstPresent(row, r.table.IdentityFields)
	if !found {
		return ""
	}
	return strings.TrimSpace(raw)
}

// SongCell returns the raw text of the row's song/selection field.
func (r *Resolver) SongCell(row internal.Row) string {
	_, raw, found := firstPresent(row, r.table.SongFields)
	if !found {
		return ""
	}
	return strings.TrimSpace(raw)
}

func firstPresent(row internal.Row, names []string) (field, raw string, found bool) {
	for _, name := range names {
		if v, ok := row[name]; ok && !internal.IsNullCell(v) {
			return name, v, true
		}
	}
	return "", "", false
}

var (
	dotThousands   = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+$`)
	commaThousands = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+$`)
)

// ParseScore coerces printed score text to a float. Accepts thousands
// separators (space, dot, comma) and a decimal comma.
func ParseScore(raw string) (float64, error) {
	compact := strings.ReplaceAll(strings.TrimSpace(raw), " ", " ")
	compact = strings.ReplaceAll(compact, " ", "")
	switch {
	case dotThousands.MatchString(compact):
		compact = strings.ReplaceAll(compact, ".", "")
	case commaThousands.MatchString(compact):
		compact = strings.ReplaceAll(compact, ",", "")
	case strings.Contains(compact, ",") && !strings.Contains(compact, "."):
		compact = strings.ReplaceAll(compact, ",", ".")
	}
	return strconv.ParseFloat(compact, 64)
}
