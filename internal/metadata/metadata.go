package metadata

// Panel holds the five judging category assignments from the official
// panel section. All optional.
type Panel struct {
	PC  string
	ADM string
	MUS string
	PER string
	SNG string
}

type Award struct {
	Award  string
	Winner string
}

type DrawEntry struct {
	Number string
	Group  string
}

type Published struct {
	Name string
	Date string
}

// ContestMetadata is the fixed schema recovered from the scoresheet's
// free text. Every field defaults to empty; a missing section is not an
// error.
type ContestMetadata struct {
	RoundName         string
	Location          string
	Date              string
	Panel             Panel
	Awards            []Award
	Draw              []DrawEntry
	MicTester         string
	EvaluationOnly    []string
	Published         Published
	Footnotes         []string
	Disqualifications []string
}
