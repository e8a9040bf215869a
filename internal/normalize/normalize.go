package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"scoresheet/internal"
	"scoresheet/internal/scores"
)

var (
	groupStartRe = regexp.MustCompile(`^\d+\.`)
	totalRe      = regexp.MustCompile(`^Total:\s*(\d+)`)
)

// Normalizer rebuilds the Group -> Round -> Song hierarchy from the
// flat, order-dependent row sequence. It holds no cross-call state;
// one instance may serve concurrent conversions.
type Normalizer struct {
	resolver *scores.Resolver
}

func New(resolver *scores.Resolver) *Normalizer {
	return &Normalizer{resolver: resolver}
}

// scan is the single-pass accumulator: exactly one current group at a
// time, its pending detail lines, and the round subsequent songs land
// in. Keeping it in one struct keeps the finalize-before-replace
// invariant checkable in one place.
type scan struct {
	current *internal.GroupResult
	round   string
	details []string
}

// Normalize consumes the rows in order. Recoverable defects become
// Diagnostics on the returned document; a group-start row that cannot
// be parsed is the one hard failure (MalformedRowError).
func (n *Normalizer) Normalize(rows []internal.Row) (*internal.Document, error) {
	doc := &internal.Document{}
	st := scan{round: internal.DefaultRound}

	for i, row := range rows {
		// Each row's scores are resolved at most once so a defective
		// cell yields a single diagnostic even when the row feeds both
		// a group and a round.
		var rowScores internal.ScoreSet
		resolveRow := func() internal.ScoreSet {
			if rowScores == nil {
				var ds []internal.Diagnostic
				rowScores, ds = n.resolver.Resolve(i, row)
				doc.Diagnostics = append(doc.Diagnostics, ds...)
			}
			return rowScores
		}

		identity := n.resolver.IdentityCell(row)
		switch {
		case identity != "" && groupStartRe.MatchString(identity):
			finalize(&st, doc)

			details, err := parseIdentity(i, identity)
			if err != nil {
				return nil, err
			}
			set := resolveRow()
			g := &internal.GroupResult{
				Details:  details,
				Combined: set,
				Rounds:   internal.NewRoundSet(),
			}
			g.Rounds.Ensure(internal.DefaultRound).Scores = set
			st.current = g
			st.round = internal.DefaultRound

		case identity != "" && st.current != nil:
			st.details = append(st.details, identity)
		}

		song := n.resolver.SongCell(row)
		if song == "" {
			continue
		}
		if st.current == nil {
			doc.Diagnostics = append(doc.Diagnostics, internal.Diagnostic{
				RowIndex: i,
				Message:  "song data before any group row, skipped",
			})
			continue
		}

		if m := totalRe.FindStringSubmatch(song); m != nil {
			points, err := strconv.Atoi(m[1])
			if err == nil {
				st.current.Points = &points
			}
			continue
		}

		if name, ok := roundMarker(song); ok {
			st.round = name
			r := st.current.Rounds.Ensure(name)
			r.Scores = resolveRow()
			continue
		}

		r := st.current.Rounds.Ensure(st.round)
		r.Songs = append(r.Songs, internal.Song{Title: song, Scores: resolveRow()})
	}

	finalize(&st, doc)
	return doc, nil
}

// finalize resolves the pending detail lines into the chorus/quartet
// variant, appends the group, and resets the accumulator. Must run
// before a new group replaces the current one.
func finalize(st *scan, doc *internal.Document) {
	if st.current == nil {
		return
	}
	resolveDetails(st.details, st.current)
	doc.Groups = append(doc.Groups, st.current)
	st.current = nil
	st.details = nil
}

// parseIdentity splits "<placement>. <name>[ (<district>)]". A cell
// that matched the group-start pattern but cannot be parsed means the
// upstream extraction is broken: hard failure with row context.
func parseIdentity(rowIndex int, cell string) (internal.GroupDetails, error) {
	placementText, rest, ok := strings.Cut(cell, ". ")
	if !ok {
		return internal.GroupDetails{}, &internal.MalformedRowError{
			RowIndex: rowIndex, Cell: cell, Reason: "no placement separator",
		}
	}
	placement, err := strconv.Atoi(placementText)
	if err != nil {
		return internal.GroupDetails{}, &internal.MalformedRowError{
			RowIndex: rowIndex, Cell: cell, Reason: "placement is not an integer",
		}
	}

	name := rest
	district := ""
	if i := strings.Index(rest, " ("); i >= 0 {
		name = strings.TrimSpace(rest[:i])
		district = rest[i+2:]
		if j := strings.IndexByte(district, ')'); j >= 0 {
			district = district[:j]
		}
	}

	return internal.GroupDetails{
		Placement: placement,
		Group:     name,
		District:  district,
	}, nil
}

func roundMarker(song string) (string, bool) {
	for _, name := range internal.RoundNames {
		if strings.HasPrefix(song, name+": ") || song == name+":" {
			return name, true
		}
	}
	return "", false
}
