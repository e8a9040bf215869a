package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"scoresheet/internal"
	"scoresheet/internal/normalize"
	"scoresheet/internal/scores"
)

var categories = []string{"MUS", "PER", "SNG", "Total"}

func testDocument(t *testing.T) *internal.Document {
	t.Helper()
	rows := []internal.Row{
		{"Group": "1. River City Sound (Land O'Lakes)", "Songs": "", "MUS": "92", "PER": "90", "SNG": "91", "Total": "273"},
		{"Group": "Land O'Lakes (Division 1) Tenor: Al, Lead: Bo", "Songs": "nan"},
		{"Group": "nan", "Songs": "Finals: ", "MUS": "91", "PER": "90", "SNG": "92", "Total": "273"},
		{"Group": "nan", "Songs": "How Deep Is The Ocean", "MUS": "91.5", "PER": "90", "SNG": "92", "Total": "273.5"},
		{"Group": "nan", "Songs": "Wait Till The Sun Shines", "MUS": "90.5", "PER": "90", "SNG": "92", "Total": "272.5"},
		{"Group": "", "Songs": "Total: 1638"},
		{"Group": "2. Voices of the Plains", "Songs": "", "MUS": "88", "PER": "87", "SNG": "89", "Total": "264"},
		{"Group": "Central States (Division A) Dir(s): Pat Quinn; OnStage: 48", "Songs": "nan"},
		{"Group": "nan", "Songs": "Old Songs Medley", "MUS": "88", "PER": "87", "SNG": "89", "Total": "264"},
		{"Group": "", "Songs": "Total: 1584"},
	}
	n := normalize.New(scores.NewResolver(scores.DefaultTable()))
	doc, err := n.Normalize(rows)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	return doc
}

func TestCanonicalShapeAndOrder(t *testing.T) {
	doc := testDocument(t)

	var buf bytes.Buffer
	if err := Canonical(doc, categories, &buf); err != nil {
		t.Fatalf("canonical: %v", err)
	}

	// Must stay valid JSON with the contract field names.
	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("canonical output is not valid JSON: %v\n%s", err, buf.String())
	}
	if len(decoded) != 2 {
		t.Fatalf("groups: %d", len(decoded))
	}

	details := decoded[0]["group_details"].(map[string]any)
	if details["placement"].(float64) != 1 || details["group"].(string) != "River City Sound" {
		t.Fatalf("group_details: %v", details)
	}
	if details["members"].(string) != "Tenor: Al, Lead: Bo" {
		t.Fatalf("quartet members: %v", details)
	}

	combined := decoded[0]["combined_total_scores"].(map[string]any)
	if combined["Points"].(float64) != 1638 {
		t.Fatalf("points: %v", combined)
	}

	chorus := decoded[1]["group_details"].(map[string]any)
	if chorus["directors"].(string) != "Pat Quinn" || chorus["on_stage"].(float64) != 48 {
		t.Fatalf("chorus details: %v", chorus)
	}

	// Key order is part of the contract.
	text := buf.String()
	if strings.Index(text, `"group_details"`) > strings.Index(text, `"combined_total_scores"`) {
		t.Fatalf("group_details must precede combined_total_scores")
	}
	if strings.Index(text, `"MUS"`) > strings.Index(text, `"Total"`) {
		t.Fatalf("categories must keep table order")
	}
}

func TestCanonicalDeterministic(t *testing.T) {
	doc := testDocument(t)

	var a, b bytes.Buffer
	if err := Canonical(doc, categories, &a); err != nil {
		t.Fatalf("first render: %v", err)
	}
	if err := Canonical(doc, categories, &b); err != nil {
		t.Fatalf("second render: %v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatalf("canonical output must be byte-identical across calls")
	}
}

func TestPivotRowCount(t *testing.T) {
	doc := testDocument(t)

	var buf bytes.Buffer
	if err := PivotCSV(doc, categories, &buf); err != nil {
		t.Fatalf("pivot: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}

	header := strings.Join(records[0], ",")
	if header != "Group,Round,Song,Category,Score" {
		t.Fatalf("header: %q", header)
	}

	// (rounds x (1 + songs-per-round)) x categories per group:
	// group 1: 1 round, 2 songs -> 3*4 = 12; group 2: 1 round, 1 song -> 2*4 = 8.
	wantData := 12 + 8
	if len(records)-1 != wantData {
		t.Fatalf("data rows: got %d want %d", len(records)-1, wantData)
	}

	// Round-total rows come before song rows.
	if records[1][2] != "Round Total" {
		t.Fatalf("first data row should be a round total: %v", records[1])
	}
	if records[5][2] != "How Deep Is The Ocean" {
		t.Fatalf("song rows follow the round total: %v", records[5])
	}

	// Whole scores keep one decimal, fractional ones their shortest form.
	if records[1][4] != "91.0" {
		t.Fatalf("whole score: %v", records[1])
	}
	if records[5][4] != "91.5" {
		t.Fatalf("fractional score: %v", records[5])
	}
}

func TestRankedOrderingAndTies(t *testing.T) {
	doc := testDocument(t)

	var buf bytes.Buffer
	if err := Ranked(doc, &buf); err != nil {
		t.Fatalf("ranked: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != "Group\tRepresenting\tDistrict\tTotal Score\tOn Stage\tPercent Avg" {
		t.Fatalf("header: %q", lines[0])
	}
	if len(lines) != 3 {
		t.Fatalf("rows: %v", lines)
	}

	first := strings.Split(lines[1], "\t")
	second := strings.Split(lines[2], "\t")
	if first[0] != "River City Sound" || first[3] != "1638" {
		t.Fatalf("first row: %v", first)
	}
	if second[0] != "Voices of the Plains" || second[3] != "1584" {
		t.Fatalf("second row: %v", second)
	}
	if second[1] != "Central States" || second[4] != "48" {
		t.Fatalf("chorus columns: %v", second)
	}
	if first[2] != "Land O'Lakes" {
		t.Fatalf("district column: %v", first)
	}
	if first[5] != "273.0" {
		t.Fatalf("percent avg keeps one decimal: %v", first)
	}
}

func TestRankedStableTies(t *testing.T) {
	points := 1500
	doc := &internal.Document{}
	for _, name := range []string{"First In", "Second In", "Third In"} {
		g := &internal.GroupResult{
			Details:  internal.GroupDetails{Group: name},
			Combined: internal.ScoreSet{"Total": 75},
			Points:   &points,
			Rounds:   internal.NewRoundSet(),
		}
		doc.Groups = append(doc.Groups, g)
	}

	var buf bytes.Buffer
	if err := Ranked(doc, &buf); err != nil {
		t.Fatalf("ranked: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	for i, want := range []string{"First In", "Second In", "Third In"} {
		if !strings.HasPrefix(lines[i+1], want+"\t") {
			t.Fatalf("tie order changed: %v", lines[1:])
		}
	}
}
