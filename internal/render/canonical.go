package render

import (
	"bytes"
	"encoding/json"
	"io"

	"scoresheet/internal"
)

// Canonical serializes the document as the hierarchical JSON record.
// Key order (group_details, combined_total_scores, rounds; categories
// in table order; rounds in first-seen order) is part of the output
// contract, so objects are emitted by hand instead of through Go maps.
func Canonical(doc *internal.Document, categories []string, w io.Writer) error {
	var b bytes.Buffer
	b.WriteByte('[')
	for i, g := range doc.Groups {
		if i > 0 {
			b.WriteByte(',')
		}
		if err := writeGroup(&b, g, categories); err != nil {
			return err
		}
	}
	b.WriteByte(']')

	var out bytes.Buffer
	if err := json.Indent(&out, b.Bytes(), "", "    "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err := w.Write(out.Bytes())
	return err
}

func writeGroup(b *bytes.Buffer, g *internal.GroupResult, categories []string) error {
	o := newObj(b)
	o.rawKey("group_details")
	if err := writeGroupDetails(b, g.Details); err != nil {
		return err
	}
	o.rawKey("combined_total_scores")
	if err := writeScores(b, g.Combined, categories, g.Points); err != nil {
		return err
	}
	o.rawKey("rounds")
	if err := writeRounds(b, g.Rounds, categories); err != nil {
		return err
	}
	o.close()
	return nil
}

func writeGroupDetails(b *bytes.Buffer, d internal.GroupDetails) error {
	o := newObj(b)
	if err := o.kv("placement", d.Placement); err != nil {
		return err
	}
	if err := o.kv("group", d.Group); err != nil {
		return err
	}

	district := d.District
	var members, representing, directors string
	var onStage *int
	switch detail := d.Detail.(type) {
	case internal.Quartet:
		if detail.District != "" {
			district = detail.District
		}
		members = detail.Members
	case internal.Chorus:
		representing = detail.Representing
		directors = detail.Directors
		onStage = detail.OnStage
	}

	if district != "" {
		if err := o.kv("district", district); err != nil {
			return err
		}
	} else {
		o.rawKey("district")
		b.WriteString("null")
	}

	switch d.Detail.(type) {
	case internal.Quartet:
		if members != "" {
			if err := o.kv("members", members); err != nil {
				return err
			}
		}
	case internal.Chorus:
		if representing != "" {
			if err := o.kv("representing", representing); err != nil {
				return err
			}
		}
		if err := o.kv("directors", directors); err != nil {
			return err
		}
		if onStage != nil {
			if err := o.kv("on_stage", *onStage); err != nil {
				return err
			}
		}
	}

	o.close()
	return nil
}

func writeScores(b *bytes.Buffer, set internal.ScoreSet, categories []string, points *int) error {
	o := newObj(b)
	for _, cat := range categories {
		if err := o.kv(cat, set[cat]); err != nil {
			return err
		}
	}
	if points != nil {
		if err := o.kv("Points", *points); err != nil {
			return err
		}
	}
	o.close()
	return nil
}

func writeRounds(b *bytes.Buffer, rounds *internal.RoundSet, categories []string) error {
	o := newObj(b)
	for _, name := range rounds.Names() {
		r, _ := rounds.Get(name)
		if err := o.key(name); err != nil {
			return err
		}
		ro := newObj(b)
		ro.rawKey("scores")
		if err := writeScores(b, r.Scores, categories, nil); err != nil {
			return err
		}
		ro.rawKey("songs")
		b.WriteByte('[')
		for i, song := range r.Songs {
			if i > 0 {
				b.WriteByte(',')
			}
			so := newObj(b)
			if err := so.kv("title", song.Title); err != nil {
				return err
			}
			so.rawKey("scores")
			if err := writeScores(b, song.Scores, categories, nil); err != nil {
				return err
			}
			so.close()
		}
		b.WriteByte(']')
		ro.close()
	}
	o.close()
	return nil
}

// obj emits one JSON object with keys in write order.
type obj struct {
	b     *bytes.Buffer
	first bool
}

func newObj(b *bytes.Buffer) *obj {
	b.WriteByte('{')
	return &obj{b: b, first: true}
}

func (o *obj) sep() {
	if !o.first {
		o.b.WriteByte(',')
	}
	o.first = false
}

// key writes an arbitrary (JSON-escaped) key and leaves the value to
// the caller.
func (o *obj) key(name string) error {
	o.sep()
	enc, err := json.Marshal(name)
	if err != nil {
		return err
	}
	o.b.Write(enc)
	o.b.WriteByte(':')
	return nil
}

// rawKey writes a known-safe literal key.
func (o *obj) rawKey(name string) {
	o.sep()
	o.b.WriteString(`"` + name + `":`)
}

func (o *obj) kv(name string, v any) error {
	if err := o.key(name); err != nil {
		return err
	}
	enc, err := json.Marshal(v)
	if err != nil {
		return err
	}
	o.b.Write(enc)
	return nil
}

func (o *obj) close() {
	o.b.WriteByte('}')
}
