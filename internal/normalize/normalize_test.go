package normalize

import (
	"errors"
	"testing"

	"scoresheet/internal"
	"scoresheet/internal/scores"
)

func newNormalizer() *Normalizer {
	return New(scores.NewResolver(scores.DefaultTable()))
}

func scoreRow(group, song, mus, per, sng, total string) internal.Row {
	return internal.Row{"Group": group, "Songs": song, "MUS": mus, "PER": per, "SNG": sng, "Total": total}
}

func TestGroupIdentityParsing(t *testing.T) {
	doc, err := newNormalizer().Normalize([]internal.Row{
		scoreRow("1. River City Sound (Land O'Lakes)", "", "92", "90", "91", "273"),
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(doc.Groups) != 1 {
		t.Fatalf("groups: %d", len(doc.Groups))
	}

	d := doc.Groups[0].Details
	if d.Placement != 1 || d.Group != "River City Sound" || d.District != "Land O'Lakes" {
		t.Fatalf("identity parse: %+v", d)
	}
	if doc.Groups[0].Combined["Total"] != 273 {
		t.Fatalf("combined: %v", doc.Groups[0].Combined)
	}

	finals, ok := doc.Groups[0].Rounds.Get("Finals")
	if !ok {
		t.Fatalf("default Finals round missing")
	}
	if finals.Scores["MUS"] != 92 {
		t.Fatalf("finals seeded from identity row: %v", finals.Scores)
	}
}

func TestFullStreamFinalizesBeforeNextGroup(t *testing.T) {
	rows := []internal.Row{
		scoreRow("1. River City Sound (Land O'Lakes)", "", "92", "90", "91", "273"),
		{"Group": "Land O'Lakes (Division 1)", "Songs": "nan"},
		{"Group": "Tenor: Al, Lead: Bo nan Bari: Cy, Bass: Dee", "Songs": "nan"},
		scoreRow("nan", "Finals: ", "91", "90", "92", "273"),
		scoreRow("nan", "How Deep Is The Ocean", "91.5", "90.0", "92.0", "273"),
		scoreRow("nan", "Wait Till The Sun Shines", "90.5", "90.0", "92.0", "273"),
		{"Group": "", "Songs": "Total: 1638"},
		scoreRow("2. Harbor Lights", "", "88", "87", "89", "264"),
	}

	doc, err := newNormalizer().Normalize(rows)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(doc.Groups) != 2 {
		t.Fatalf("groups: %d", len(doc.Groups))
	}

	first := doc.Groups[0]
	if first.Points == nil || *first.Points != 1638 {
		t.Fatalf("points: %v", first.Points)
	}

	finals, _ := first.Rounds.Get("Finals")
	if len(finals.Songs) != 2 {
		t.Fatalf("finals songs: %+v", finals.Songs)
	}
	if finals.Songs[0].Title != "How Deep Is The Ocean" || finals.Songs[1].Title != "Wait Till The Sun Shines" {
		t.Fatalf("song order: %+v", finals.Songs)
	}
	// The "Finals: " marker row overwrote the seed scores.
	if finals.Scores["MUS"] != 91 {
		t.Fatalf("round marker should overwrite round scores: %v", finals.Scores)
	}

	// Quartet classification from the detail rows, with nan artifacts
	// stripped from the member list.
	q, ok := first.Details.Detail.(internal.Quartet)
	if !ok {
		t.Fatalf("expected quartet detail: %#v", first.Details.Detail)
	}
	if q.District != "Land O'Lakes" {
		t.Fatalf("district: %q", q.District)
	}
	if q.Members != "Tenor: Al, Lead: Bo Bari: Cy, Bass: Dee" {
		t.Fatalf("members: %q", q.Members)
	}

	// Group 2 started fresh.
	second := doc.Groups[1]
	if second.Details.Placement != 2 || second.Details.Group != "Harbor Lights" || second.Details.District != "" {
		t.Fatalf("second group: %+v", second.Details)
	}
	if second.Points != nil {
		t.Fatalf("points must not leak across groups")
	}
}

func TestChorusClassification(t *testing.T) {
	rows := []internal.Row{
		scoreRow("1. Voices of the Plains (Central States)", "", "90", "89", "91", "270"),
		{"Group": "Central States (Division A) Dir(s): Pat Quinn, Sam Reed; OnStage: 48", "Songs": "nan"},
	}

	doc, err := newNormalizer().Normalize(rows)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	c, ok := doc.Groups[0].Details.Detail.(internal.Chorus)
	if !ok {
		t.Fatalf("expected chorus detail: %#v", doc.Groups[0].Details.Detail)
	}
	if c.Representing != "Central States" {
		t.Fatalf("representing: %q", c.Representing)
	}
	if c.Directors != "Pat Quinn, Sam Reed" {
		t.Fatalf("directors: %q", c.Directors)
	}
	if c.OnStage == nil || *c.OnStage != 48 {
		t.Fatalf("on stage: %v", c.OnStage)
	}
}

func TestRoundSwitchAndLazyCreation(t *testing.T) {
	rows := []internal.Row{
		scoreRow("1. Sound Decision", "", "90", "89", "91", "270"),
		scoreRow("nan", "Quarter-Finals: ", "85", "84", "86", "255"),
		scoreRow("nan", "Opening Number", "85", "84", "86", "255"),
		scoreRow("nan", "Semi-Finals: ", "88", "87", "89", "264"),
		scoreRow("nan", "Second Song", "88", "87", "89", "264"),
	}

	doc, err := newNormalizer().Normalize(rows)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	g := doc.Groups[0]
	names := g.Rounds.Names()
	want := []string{"Finals", "Quarter-Finals", "Semi-Finals"}
	if g.Rounds.Len() != len(want) {
		t.Fatalf("round order: %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("round order: %v", names)
		}
	}

	qf, _ := g.Rounds.Get("Quarter-Finals")
	if len(qf.Songs) != 1 || qf.Songs[0].Title != "Opening Number" {
		t.Fatalf("quarter-finals songs: %+v", qf.Songs)
	}
	sf, _ := g.Rounds.Get("Semi-Finals")
	if len(sf.Songs) != 1 || sf.Songs[0].Title != "Second Song" {
		t.Fatalf("semi-finals songs: %+v", sf.Songs)
	}
}

func TestRoundTotalOverwritesSongsAppend(t *testing.T) {
	rows := []internal.Row{
		scoreRow("1. Sound Decision", "", "90", "89", "91", "270"),
		scoreRow("nan", "Finals: ", "80", "80", "80", "240"),
		scoreRow("nan", "Song A", "81", "81", "81", "243"),
		scoreRow("nan", "Finals: ", "85", "85", "85", "255"),
		scoreRow("nan", "Song B", "86", "86", "86", "258"),
	}

	doc, err := newNormalizer().Normalize(rows)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	finals, _ := doc.Groups[0].Rounds.Get("Finals")
	if finals.Scores["Total"] != 255 {
		t.Fatalf("second marker should overwrite: %v", finals.Scores)
	}
	if len(finals.Songs) != 2 {
		t.Fatalf("songs should append, never overwrite: %+v", finals.Songs)
	}
}

func TestMalformedGroupRowIsFatal(t *testing.T) {
	_, err := newNormalizer().Normalize([]internal.Row{
		{"Group": "99999999999999999999. Broken", "Songs": ""},
	})
	var malformed *internal.MalformedRowError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedRowError, got %v", err)
	}
	if malformed.RowIndex != 0 || malformed.Cell == "" {
		t.Fatalf("error lacks row context: %+v", malformed)
	}
}

func TestSongBeforeAnyGroupIsDiagnosed(t *testing.T) {
	doc, err := newNormalizer().Normalize([]internal.Row{
		scoreRow("nan", "Orphan Song", "80", "80", "80", "240"),
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(doc.Groups) != 0 {
		t.Fatalf("no groups expected")
	}
	if len(doc.Diagnostics) != 1 {
		t.Fatalf("want skip diagnostic, got %v", doc.Diagnostics)
	}
}

func TestNoHiddenCrossCallState(t *testing.T) {
	rows := []internal.Row{
		scoreRow("1. Sound Decision (Central States)", "", "90", "89", "91", "270"),
		scoreRow("nan", "Song A", "90", "89", "91", "270"),
	}

	n := newNormalizer()
	a, err := n.Normalize(rows)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	b, err := n.Normalize(rows)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if len(a.Groups) != len(b.Groups) || len(a.Diagnostics) != len(b.Diagnostics) {
		t.Fatalf("calls differ: %d/%d groups, %d/%d diagnostics",
			len(a.Groups), len(b.Groups), len(a.Diagnostics), len(b.Diagnostics))
	}
	af, _ := a.Groups[0].Rounds.Get("Finals")
	bf, _ := b.Groups[0].Rounds.Get("Finals")
	if len(af.Songs) != len(bf.Songs) {
		t.Fatalf("song counts differ across calls")
	}
}
