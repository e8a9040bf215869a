package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"scoresheet/internal"
	"scoresheet/internal/config"
	"scoresheet/internal/convert"
	"scoresheet/internal/ingest"
	"scoresheet/internal/metadata"
	"scoresheet/internal/scores"
	"scoresheet/internal/server"
	"scoresheet/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	table := scores.DefaultTable()
	if cfg.SynonymsPath != "" {
		table, err = scores.LoadTable(cfg.SynonymsPath)
		must(err)
	}
	resolver := scores.NewResolver(table)

	cmd := os.Args[1]
	switch cmd {
	case "convert":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "extracted table (csv, xlsx or html)")
		pdfPath := fs.String("pdf", "", "original scoresheet pdf, for metadata")
		formatsArg := fs.String("formats", "json,pivot,tremper", "comma-separated formats: json|pivot|pivot_xlsx|tremper|metadata")
		out := fs.String("out", "", "output directory (default OUTPUT_DIR)")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}

		rows, err := readRows(*input)
		must(err)

		req := convert.Request{
			Source:  filepath.Base(*input),
			Rows:    rows,
			Formats: splitFormats(*formatsArg),
		}
		if *pdfPath != "" {
			text, err := ingest.PDFTextFromFile(*pdfPath)
			must(err)
			req.PageText = text
		}

		outDir := *out
		if outDir == "" {
			outDir = cfg.OutputDir
		}
		base := filepath.Base(*input)
		req.BasePath = filepath.Join(outDir, strings.TrimSuffix(base, filepath.Ext(base)))

		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()

		svc := convert.NewService(db, resolver, slog.Default())
		res, err := svc.Convert(req)
		must(err)

		for format, path := range res.Paths {
			fmt.Printf("%s: %s\n", format, path)
		}
		for _, diag := range res.Diagnostics {
			fmt.Fprintf(os.Stderr, "warning: %s\n", diag)
		}

	case "metadata":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		pdfPath := fs.String("pdf", "", "scoresheet pdf")
		out := fs.String("out", "", "output path (default stdout)")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*pdfPath) == "" {
			must(fmt.Errorf("--pdf is required"))
		}

		text, err := ingest.PDFTextFromFile(*pdfPath)
		must(err)

		if *out == "" {
			must(renderMetadataText(text, os.Stdout))
			return
		}
		f, err := os.Create(*out)
		must(err)
		must(renderMetadataText(text, f))
		must(f.Close())
		fmt.Printf("metadata: %s\n", *out)

	case "serve":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		addr := fs.String("addr", cfg.HTTPAddr, "listen address")
		_ = fs.Parse(os.Args[2:])
		cfg.HTTPAddr = *addr

		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		svc := convert.NewService(db, resolver, logger)
		must(server.New(cfg, svc, logger).ListenAndServe())

	case "runs":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", 20, "max runs to list")
		_ = fs.Parse(os.Args[2:])

		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()

		runs, err := db.ListRuns(*limit)
		must(err)
		for _, r := range runs {
			fmt.Printf("%d %s %s formats=%s groups=%d songs=%d diagnostics=%d %.0fms\n",
				r.ID, r.CreatedAt, r.Source, r.Formats, r.Groups, r.Songs, r.Diagnostics, r.DurationMs)
			if r.Diagnostics == 0 {
				continue
			}
			diags, err := db.ListRunDiagnostics(int64(r.ID))
			must(err)
			for _, d := range diags {
				fmt.Printf("  %s\n", d)
			}
		}

	default:
		usage()
		os.Exit(1)
	}
}

func readRows(path string) ([]internal.Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ingest.ReadCSV(f)
	case ".xlsx":
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return ingest.ReadXLSX(content)
	case ".html", ".htm":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ingest.ReadHTML(f)
	default:
		return nil, fmt.Errorf("unsupported input type: %s", path)
	}
}

func renderMetadataText(text string, w io.Writer) error {
	return metadata.Render(metadata.Extract(text), w)
}

func splitFormats(arg string) []string {
	var out []string
	for _, piece := range strings.Split(arg, ",") {
		piece = strings.TrimSpace(piece)
		if piece != "" {
			out = append(out, piece)
		}
	}
	return out
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: scoresheet <command> [flags]

commands:
  convert   normalize an extracted results table into the requested formats
  metadata  extract contest metadata from a scoresheet pdf
  serve     run the http conversion endpoint
  runs      list recorded conversion runs`)
}

func must(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
