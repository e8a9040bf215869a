package render

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"scoresheet/internal"
)

// rankedHeader is the tab-separated summary's compatibility contract.
const rankedHeader = "Group\tRepresenting\tDistrict\tTotal Score\tOn Stage\tPercent Avg\n"

type rankedRow struct {
	group        string
	representing string
	district     string
	totalPoints  int
	onStage      string
	percentAvg   float64
}

// Ranked writes the tab-delimited summary, one row per group, sorted by
// total points descending. Ties keep normalization order.
func Ranked(doc *internal.Document, w io.Writer) error {
	rows := make([]rankedRow, 0, len(doc.Groups))
	for _, g := range doc.Groups {
		row := rankedRow{
			group:      g.Details.Group,
			district:   g.Details.District,
			percentAvg: g.Combined["Total"],
		}
		if g.Points != nil {
			row.totalPoints = *g.Points
		}
		switch detail := g.Details.Detail.(type) {
		case internal.Chorus:
			row.representing = detail.Representing
			if detail.OnStage != nil {
				row.onStage = strconv.Itoa(*detail.OnStage)
			}
		case internal.Quartet:
			if detail.District != "" {
				row.district = detail.District
			}
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].totalPoints > rows[j].totalPoints })

	if _, err := io.WriteString(w, rankedHeader); err != nil {
		return err
	}
	for _, row := range rows {
		_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			row.group, row.representing, row.district, row.totalPoints, row.onStage, formatScore(row.percentAvg))
		if err != nil {
			return err
		}
	}
	return nil
}
