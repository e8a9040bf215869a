package metadata

import (
	"io"
	"strings"
)

// Render writes the metadata in its fixed key-ordered text layout.
// Field order and indentation are a compatibility contract; consumers
// parse this text back.
func Render(md ContestMetadata, w io.Writer) error {
	var b strings.Builder

	b.WriteString("Round Name: " + md.RoundName + "\n")
	b.WriteString("Location: " + md.Location + "\n")
	b.WriteString("Date: " + md.Date + "\n\n")

	b.WriteString("Panel:\n")
	b.WriteString("  PC: " + md.Panel.PC + "\n")
	b.WriteString("  ADM: " + md.Panel.ADM + "\n")
	b.WriteString("  MUS: " + md.Panel.MUS + "\n")
	b.WriteString("  PER: " + md.Panel.PER + "\n")
	b.WriteString("  SNG: " + md.Panel.SNG + "\n\n")

	b.WriteString("Awards:\n")
	for _, award := range md.Awards {
		b.WriteString("  - Award: " + award.Award + "\n")
		b.WriteString("    Winner: " + award.Winner + "\n")
	}
	b.WriteString("\n")

	b.WriteString("Draw:\n")
	for _, entry := range md.Draw {
		b.WriteString("  - Number: " + entry.Number + "\n")
		b.WriteString("    Group: " + entry.Group + "\n")
	}
	if md.MicTester != "" {
		b.WriteString("  - Mic Tester: " + md.MicTester + "\n")
	}
	b.WriteString("\n")

	b.WriteString("Evaluation Only:\n")
	for _, group := range md.EvaluationOnly {
		b.WriteString("  - " + group + "\n")
	}
	b.WriteString("\n")

	b.WriteString("Published:\n")
	b.WriteString("  Name: " + md.Published.Name + "\n")
	b.WriteString("  Date: " + md.Published.Date + "\n\n")

	b.WriteString("Footnotes:\n")
	for _, footnote := range md.Footnotes {
		b.WriteString("  - " + footnote + "\n")
	}
	b.WriteString("\n")

	b.WriteString("Disqualifications:\n")
	for _, dq := range md.Disqualifications {
		b.WriteString("  - " + dq + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
