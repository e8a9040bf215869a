package ingest

import (
	"encoding/csv"
	"io"
	"strings"

	"scoresheet/internal"
)

// ReadCSV reads the combined table the upstream extraction produces:
// first record is the header, every later record becomes one Row.
func ReadCSV(r io.Reader) ([]internal.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
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

// CleanColumnName strips the UTF-8 BOM (raw or latin1-mangled, both
// seen in upstream exports) and surrounding whitespace.
func CleanColumnName(col string) string {
	col = strings.TrimPrefix(col, "\ufeff")
	col = strings.TrimPrefix(col, "ï»¿")
	return strings.TrimSpace(col)
}
