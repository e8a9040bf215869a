package metadata

import (
	"regexp"
	"strings"
)

// Section searches. Each is anchored by a literal marker and bounded by
// the sibling section markers so one section's body never swallows the
// next. RE2 has no lookahead, so the boundaries are consuming
// non-capturing groups; only group 1 is ever used.
var (
	reRoundName = regexp.MustCompile(`(?s)Official Scoring Summary\s*(.*?)(?:\n|$)`)
	rePanel     = regexp.MustCompile(`(?s)Official Panel\s*(.*?)(?:Awards|Footnotes|Draw|$)`)
	reAwards    = regexp.MustCompile(`(?s)Awards\s*(.*?)(?:Footnotes|Draw|Evaluation Only|$)`)
	reFootnotes = regexp.MustCompile(`(?s)Footnotes\s*(.*?)(?:Draw|Evaluation Only|$)`)
	reDraw      = regexp.MustCompile(`(?s)Draw\s*(.*?)(?:Evaluation Only|MT:|Published by|$)`)
	reMicTester = regexp.MustCompile(`(?s)MT:\s*(.*?)(?:\n\n|Published by|$)`)
	reEvalOnly  = regexp.MustCompile(`(?s)The following groups performed for evaluation score only:\s*(.*?)(?:\n\n|Published by|Awards|Draw|Footnotes|$)`)
	rePublished = regexp.MustCompile(`Published by (.*?) at (.*?)(?:\n|$)`)
	reDisqual   = regexp.MustCompile(`(?s)disqualified for violation of the BHS Contest Rules:\s*(.*?)(?:\n\n|$)`)

	rePanelCategory = map[string]*regexp.Regexp{
		"PC":  regexp.MustCompile(`PC:\s*(.*?)(?:\n|$)`),
		"ADM": regexp.MustCompile(`ADM:\s*(.*?)(?:\n|$)`),
		"MUS": regexp.MustCompile(`MUS:\s*(.*?)(?:\n|$)`),
		"PER": regexp.MustCompile(`PER:\s*(.*?)(?:\n|$)`),
		"SNG": regexp.MustCompile(`SNG:\s*(.*?)(?:\n|$)`),
	}

	reAwardHead = regexp.MustCompile(`^\d+\s+.*:`)
	reDrawEntry = regexp.MustCompile(`(?m)^\s*(\d+):\s*`)
)

// Extract scans the concatenated page text and recovers contest facts.
// The searches are independent: a missing marker leaves its field at
// the schema default and never disturbs the others.
func Extract(text string) ContestMetadata {
	md := ContestMetadata{}

	if m := reRoundName.FindStringSubmatch(text); m != nil {
		md.RoundName = strings.TrimSpace(m[1])
	}

	md.Location, md.Date = firstLineLocationDate(text)

	if m := rePanel.FindStringSubmatch(text); m != nil {
		panelText := strings.TrimSpace(m[1])
		assign := map[string]*string{
			"PC": &md.Panel.PC, "ADM": &md.Panel.ADM, "MUS": &md.Panel.MUS,
			"PER": &md.Panel.PER, "SNG": &md.Panel.SNG,
		}
		for key, dst := range assign {
			if pm := rePanelCategory[key].FindStringSubmatch(panelText); pm != nil {
				*dst = strings.TrimSpace(pm[1])
			}
		}
	}

	if m := reAwards.FindStringSubmatch(text); m != nil {
		md.Awards = parseAwards(strings.TrimSpace(m[1]))
	}

	if m := reFootnotes.FindStringSubmatch(text); m != nil {
		for _, line := range strings.Split(strings.TrimSpace(m[1]), "\n") {
			line = strings.TrimSpace(line)
			if line != "" && !strings.HasPrefix(line, "Published by") {
				md.Footnotes = append(md.Footnotes, line)
			}
		}
	}

	if m := reDraw.FindStringSubmatch(text); m != nil {
		md.Draw = parseDraw(strings.TrimSpace(m[1]))
	}

	if m := reMicTester.FindStringSubmatch(text); m != nil {
		md.MicTester = strings.TrimSpace(m[1])
	}

	if m := reEvalOnly.FindStringSubmatch(text); m != nil {
		md.EvaluationOnly = splitCommaList(m[1])
	}

	if m := rePublished.FindStringSubmatch(text); m != nil {
		md.Published.Name = strings.TrimSpace(m[1])
		md.Published.Date = strings.TrimSpace(m[2])
	}

	if m := reDisqual.FindStringSubmatch(text); m != nil {
		md.Disqualifications = splitCommaList(m[1])
	}

	return md
}

// firstLineLocationDate applies the location/date heuristic strictly to
// the first line of the blob: text before the first ";" is the
// location, the remainder is the date.
func firstLineLocationDate(text string) (location, date string) {
	line := text
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	i := strings.IndexByte(line, ';')
	if i < 0 {
		return "", ""
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:])
}

// parseAwards splits the section into blocks at lines that begin a new
// numbered, colon-bearing award title. The block's first line is the
// title; the first non-empty following line that is not a publisher
// attribution is the winner.
func parseAwards(text string) []Award {
	if text == "" {
		return nil
	}

	var blocks [][]string
	var current []string
	for _, line := range strings.Split(text, "\n") {
		if reAwardHead.MatchString(strings.TrimSpace(line)) && len(current) > 0 {
			blocks = append(blocks, current)
			current = nil
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}

	var out []Award
	for _, block := range blocks {
		title := strings.TrimSpace(block[0])
		if title == "" {
			continue
		}
		winner := ""
		for _, line := range block[1:] {
			line = strings.TrimSpace(line)
			if line != "" && !strings.HasPrefix(line, "Published by") {
				winner = line
				break
			}
		}
		out = append(out, Award{Award: title, Winner: winner})
	}
	return out
}

// parseDraw matches "<number>: <text>" pairs, each greedy up to the
// next pair or the section end. Entry heads only count at a line
// start, so a digit-colon token inside an entry (a time, say) stays
// part of its body.
func parseDraw(text string) []DrawEntry {
	matches := reDrawEntry.FindAllStringSubmatchIndex(text, -1)
	out := make([]DrawEntry, 0, len(matches))
	for i, m := range matches {
		number := text[m[2]:m[3]]
		bodyEnd := len(text)
		if i+1 < len(matches) {
			bodyEnd = matches[i+1][0]
		}
		group := strings.TrimSpace(text[m[1]:bodyEnd])
		out = append(out, DrawEntry{Number: number, Group: group})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func splitCommaList(text string) []string {
	var out []string
	for _, piece := range strings.Split(text, ",") {
		piece = strings.TrimSpace(piece)
		if piece != "" {
			out = append(out, piece)
		}
	}
	return out
}
