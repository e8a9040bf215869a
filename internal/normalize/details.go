package normalize

import (
	"strconv"
	"strings"

	"scoresheet/internal"
)

const (
	directorsMarker = "Dir(s):"
	onStageMarker   = "OnStage:"
)

// resolveDetails classifies the accumulated free-text lines once, at
// finalize time. A directors marker selects the chorus shape, its
// absence the quartet shape. Never both.
func resolveDetails(details []string, g *internal.GroupResult) {
	if len(details) == 0 {
		return
	}
	full := strings.Join(details, " ")

	if strings.Contains(full, directorsMarker) {
		g.Details.Detail = parseChorus(full)
		return
	}
	g.Details.Detail = parseQuartet(full)
}

func parseChorus(full string) internal.Chorus {
	c := internal.Chorus{}

	if i := strings.IndexByte(full, '('); i >= 0 {
		c.Representing = strings.TrimSpace(full[:i])
	}

	afterDirs := full[strings.Index(full, directorsMarker)+len(directorsMarker):]
	if i := strings.IndexByte(afterDirs, ';'); i >= 0 {
		afterDirs = afterDirs[:i]
	}
	c.Directors = strings.TrimSpace(afterDirs)

	if i := strings.Index(full, onStageMarker); i >= 0 {
		text := full[i+len(onStageMarker):]
		if j := strings.IndexByte(text, ';'); j >= 0 {
			text = text[:j]
		}
		if count, err := strconv.Atoi(strings.TrimSpace(text)); err == nil {
			c.OnStage = &count
		}
	}

	return c
}

func parseQuartet(full string) internal.Quartet {
	q := internal.Quartet{}

	if i := strings.IndexByte(full, '('); i >= 0 {
		q.District = strings.TrimSpace(full[:i])
	}

	if i := strings.IndexByte(full, ')'); i >= 0 {
		q.Members = stripNullTokens(full[i+1:])
	}

	return q
}

// stripNullTokens drops the literal "nan" artifacts the upstream
// extraction leaves inside member lists.
func stripNullTokens(text string) string {
	fields := strings.Fields(text)
	kept := fields[:0]
	for _, f := range fields {
		if strings.EqualFold(f, "nan") {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}
