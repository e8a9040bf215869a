package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"scoresheet/internal"
)

// ReadHTML reads rows from the first data table of a web-published
// scoresheet: header cells become field names, each later <tr> one Row.
func ReadHTML(r io.Reader) ([]internal.Row, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	var rows []internal.Row
	found := false
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		trs := table.Find("tr")
		if trs.Length() < 2 {
			return true
		}
		found = true

		var header []string
		trs.First().Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			header = append(header, CleanColumnName(cell.Text()))
		})

		trs.Slice(1, trs.Length()).Each(func(_ int, tr *goquery.Selection) {
			row := internal.Row{}
			tr.Find("th,td").Each(func(i int, cell *goquery.Selection) {
				if i < len(header) {
					row[header[i]] = strings.TrimSpace(cell.Text())
				}
			})
			if len(row) > 0 {
				rows = append(rows, row)
			}
		})
		return false
	})

	if !found {
		return nil, fmt.Errorf("no data table in document")
	}
	return rows, nil
}
