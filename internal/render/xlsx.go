package render

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"scoresheet/internal"
)

// PivotXLSX writes the same rows as PivotCSV into a spreadsheet, with
// scores as numeric cells.
func PivotXLSX(doc *internal.Document, categories []string, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, h := range pivotHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	rowIdx := 2
	for _, g := range doc.Groups {
		group := g.Details.Group
		for _, roundName := range g.Rounds.Names() {
			r, _ := g.Rounds.Get(roundName)
			for _, cat := range categories {
				setPivotRow(f, sheet, rowIdx, group, roundName, roundTotalSong, cat, r.Scores[cat])
				rowIdx++
			}
			for _, song := range r.Songs {
				for _, cat := range categories {
					setPivotRow(f, sheet, rowIdx, group, roundName, song.Title, cat, song.Scores[cat])
					rowIdx++
				}
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func setPivotRow(f *excelize.File, sheet string, row int, group, round, song, category string, score float64) {
	set := func(col int, value any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, value)
	}
	set(1, group)
	set(2, round)
	set(3, song)
	set(4, category)
	set(5, score)
}
