package ingest

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"scoresheet/internal"
)

// ReadXLSX reads rows from the first sheet of a spreadsheet export,
// header row first.
func ReadXLSX(content []byte) ([]internal.Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := make([]string, len(records[0]))
	for i, col := range records[0] {
		header[i] = CleanColumnName(col)
	}

	rows := make([]internal.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := internal.Row{}
		for i, cell := range record {
			if i < len(header) {
				row[header[i]] = cell
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
