package convert

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"scoresheet/internal"
	"scoresheet/internal/metadata"
	"scoresheet/internal/normalize"
	"scoresheet/internal/render"
	"scoresheet/internal/scores"
	"scoresheet/internal/storage"
)

// Format identifiers a caller may request.
const (
	FormatJSON      = "json"
	FormatPivot     = "pivot"
	FormatPivotXLSX = "pivot_xlsx"
	FormatTremper   = "tremper"
	FormatMetadata  = "metadata"
)

var knownFormats = map[string]struct{}{
	FormatJSON:      {},
	FormatPivot:     {},
	FormatPivotXLSX: {},
	FormatTremper:   {},
	FormatMetadata:  {},
}

// Service runs conversions: one normalization pass shared by every
// requested format, with each run and its diagnostics recorded.
type Service struct {
	db       *storage.DB
	resolver *scores.Resolver
	logger   *slog.Logger
}

func NewService(db *storage.DB, resolver *scores.Resolver, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{db: db, resolver: resolver, logger: logger}
}

// Request is one conversion: rows from the upstream table extraction,
// optional page text for metadata, and the formats to produce.
type Request struct {
	Source   string // label for the run record, usually the input filename
	Rows     []internal.Row
	PageText string
	Formats  []string
	BasePath string // artifacts are written as BasePath + suffix
}

type Result struct {
	Paths       map[string]string
	Document    *internal.Document
	Metadata    *metadata.ContestMetadata
	Diagnostics []internal.Diagnostic
}

func (s *Service) Convert(req Request) (Result, error) {
	start := time.Now()

	formats := req.Formats
	if len(formats) == 0 {
		formats = []string{FormatJSON}
	}
	for _, f := range formats {
		if _, ok := knownFormats[f]; !ok {
			return Result{}, fmt.Errorf("unknown format %q", f)
		}
	}

	res := Result{Paths: map[string]string{}}

	if req.PageText != "" {
		md := metadata.Extract(req.PageText)
		res.Metadata = &md
	}

	needsDocument := false
	for _, f := range formats {
		if f != FormatMetadata {
			needsDocument = true
		}
	}

	if needsDocument {
		doc, err := normalize.New(s.resolver).Normalize(req.Rows)
		if err != nil {
			return Result{}, err
		}
		res.Document = doc
		res.Diagnostics = doc.Diagnostics
	}

	if err := os.MkdirAll(filepath.Dir(req.BasePath), 0o755); err != nil {
		return Result{}, err
	}

	categories := s.resolver.Categories()
	for _, format := range formats {
		switch format {
		case FormatMetadata:
			if res.Metadata == nil {
				return Result{}, fmt.Errorf("metadata requested but no page text supplied")
			}
			path := req.BasePath + "_metadata.txt"
			if err := writeTo(path, func(f *os.File) error { return metadata.Render(*res.Metadata, f) }); err != nil {
				return Result{}, err
			}
			res.Paths[format] = path
		case FormatJSON:
			path := req.BasePath + ".json"
			if err := writeTo(path, func(f *os.File) error { return render.Canonical(res.Document, categories, f) }); err != nil {
				return Result{}, err
			}
			res.Paths[format] = path
		case FormatPivot:
			path := req.BasePath + "_pivot.csv"
			if err := writeTo(path, func(f *os.File) error { return render.PivotCSV(res.Document, categories, f) }); err != nil {
				return Result{}, err
			}
			res.Paths[format] = path
		case FormatPivotXLSX:
			path := req.BasePath + "_pivot.xlsx"
			if err := render.PivotXLSX(res.Document, categories, path); err != nil {
				return Result{}, err
			}
			res.Paths[format] = path
		case FormatTremper:
			path := req.BasePath + "_tremper.txt"
			if err := writeTo(path, func(f *os.File) error { return render.Ranked(res.Document, f) }); err != nil {
				return Result{}, err
			}
			res.Paths[format] = path
		}
	}

	groups, songs := 0, 0
	if res.Document != nil {
		groups = len(res.Document.Groups)
		for _, g := range res.Document.Groups {
			for _, name := range g.Rounds.Names() {
				r, _ := g.Rounds.Get(name)
				songs += len(r.Songs)
			}
		}
	}

	if len(res.Diagnostics) > 0 {
		s.logger.Warn("conversion finished with diagnostics",
			"source", req.Source, "count", len(res.Diagnostics))
	}

	if s.db != nil {
		_, err := s.db.InsertRun(traceID(), req.Source, strings.Join(formats, ","),
			groups, songs, float64(time.Since(start).Milliseconds()), res.Diagnostics)
		if err != nil {
			s.logger.Warn("failed to record run", "err", err)
		}
	}

	return res, nil
}

func writeTo(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
