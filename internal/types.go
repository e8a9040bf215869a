package internal

import (
	"fmt"
	"strings"
)

// Row is one table row as produced by the upstream extraction:
// field name -> raw cell text. Field names vary per document, which is
// why score lookup goes through the synonym table.
type Row map[string]string

// IsNullCell reports whether a cell carries no value. The upstream
// extraction emits literal "nan" for empty cells.
func IsNullCell(s string) bool {
	t := strings.TrimSpace(s)
	return t == "" || strings.EqualFold(t, "nan")
}

// ScoreSet maps a canonical score category (MUS, PER, SNG, Total) to its
// value. Every recognized category is always present; unresolvable ones
// hold 0.0 and carry a Diagnostic.
type ScoreSet map[string]float64

type Song struct {
	Title  string
	Scores ScoreSet
}

type Round struct {
	Scores ScoreSet
	Songs  []Song
}

// Round names in marker-scan order.
var RoundNames = []string{"Finals", "Semi-Finals", "Quarter-Finals"}

const DefaultRound = "Finals"

// RoundSet is a name->Round map that preserves first-seen order.
type RoundSet struct {
	names  []string
	byName map[string]*Round
}

func NewRoundSet() *RoundSet {
	return &RoundSet{byName: map[string]*Round{}}
}

func (rs *RoundSet) Ensure(name string) *Round {
	if r, ok := rs.byName[name]; ok {
		return r
	}
	r := &Round{Scores: ScoreSet{}}
	rs.byName[name] = r
	rs.names = append(rs.names, name)
	return r
}

func (rs *RoundSet) Get(name string) (*Round, bool) {
	r, ok := rs.byName[name]
	return r, ok
}

func (rs *RoundSet) Names() []string {
	return rs.names
}

func (rs *RoundSet) Len() int {
	return len(rs.names)
}

type GroupKind string

const (
	GroupChorus  GroupKind = "chorus"
	GroupQuartet GroupKind = "quartet"
)

// GroupDetail is the chorus-or-quartet variant, resolved once per group
// from its accumulated detail lines. Never both.
type GroupDetail interface {
	Kind() GroupKind
}

type Chorus struct {
	Representing string
	Directors    string
	OnStage      *int
}

func (Chorus) Kind() GroupKind { return GroupChorus }

type Quartet struct {
	District string
	Members  string
}

func (Quartet) Kind() GroupKind { return GroupQuartet }

type GroupDetails struct {
	Placement int
	Group     string
	District  string      // parenthetical from the identity row, if any
	Detail    GroupDetail // nil when no detail rows followed the group
}

// GroupResult is one competing group: identity, combined scores as
// printed on its identity row, optional total points, and its rounds in
// first-seen order.
type GroupResult struct {
	Details  GroupDetails
	Combined ScoreSet
	Points   *int
	Rounds   *RoundSet
}

// Document is the normalized form all renderers consume. Groups keep
// row-encounter order; placement is data, not position.
type Document struct {
	Groups      []*GroupResult
	Diagnostics []Diagnostic
}

// Diagnostic records a recovered extraction defect: a score category
// that could not be resolved or coerced, or a row that had to be
// skipped. Collected and returned alongside the result, never fatal.
type Diagnostic struct {
	RowIndex int
	Category string
	Field    string
	Message  string
}

func (d Diagnostic) String() string {
	if d.Category != "" {
		return fmt.Sprintf("row %d: category %s: %s", d.RowIndex, d.Category, d.Message)
	}
	return fmt.Sprintf("row %d: %s", d.RowIndex, d.Message)
}

// MalformedRowError is the one hard failure of normalization: a row
// that looks like a group start but cannot be parsed into placement and
// name. It means the upstream table extraction is broken for this
// document.
type MalformedRowError struct {
	RowIndex int
	Cell     string
	Reason   string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("malformed group row %d (%q): %s", e.RowIndex, e.Cell, e.Reason)
}
