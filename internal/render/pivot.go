package render

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"scoresheet/internal"
)

const roundTotalSong = "Round Total"

var pivotHeader = []string{"Group", "Round", "Song", "Category", "Score"}

// PivotRows flattens the document into one row per category per
// round-total and per song: groups in normalization order, rounds in
// first-seen order, round-total rows before song rows.
func PivotRows(doc *internal.Document, categories []string) [][]string {
	rows := [][]string{pivotHeader}
	for _, g := range doc.Groups {
		group := g.Details.Group
		for _, roundName := range g.Rounds.Names() {
			r, _ := g.Rounds.Get(roundName)
			for _, cat := range categories {
				rows = append(rows, []string{group, roundName, roundTotalSong, cat, formatScore(r.Scores[cat])})
			}
			for _, song := range r.Songs {
				for _, cat := range categories {
					rows = append(rows, []string{group, roundName, song.Title, cat, formatScore(song.Scores[cat])})
				}
			}
		}
	}
	return rows
}

// PivotCSV writes the pivot table as comma-separated rows with the
// fixed header.
func PivotCSV(doc *internal.Document, categories []string, w io.Writer) error {
	cw := csv.NewWriter(w)
	for _, row := range PivotRows(doc, categories) {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// formatScore prints a score the way the upstream consumers expect:
// shortest decimal form, whole values keeping one decimal (273.0, not
// 273).
func formatScore(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
