package server

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"scoresheet/internal"
	"scoresheet/internal/config"
	"scoresheet/internal/convert"
	"scoresheet/internal/ingest"
)

// Server exposes the converter over HTTP: POST /convert with a
// multipart file plus repeated "formats" fields, response is the first
// requested artifact.
type Server struct {
	cfg    config.Config
	svc    *convert.Service
	logger *slog.Logger
	router *chi.Mux
}

func New(cfg config.Config, svc *convert.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	s := &Server{cfg: cfg, svc: svc, logger: logger, router: r}
	r.Get("/healthz", s.handleHealth)
	r.Post("/convert", s.handleConvert)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) ListenAndServe() error {
	s.logger.Info("listening", "addr", s.cfg.HTTPAddr)
	return http.ListenAndServe(s.cfg.HTTPAddr, s.router)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(s.cfg.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		http.Error(w, "invalid multipart request: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	formats := collectFormats(r)
	if len(formats) == 0 {
		formats = []string{convert.FormatJSON}
	}

	content, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "read upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	req := convert.Request{
		Source:  header.Filename,
		Formats: formats,
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".csv":
		rows, err := ingest.ReadCSV(strings.NewReader(string(content)))
		if err != nil {
			http.Error(w, "parse csv: "+err.Error(), http.StatusBadRequest)
			return
		}
		req.Rows = rows
	case ".xlsx":
		rows, err := ingest.ReadXLSX(content)
		if err != nil {
			http.Error(w, "parse xlsx: "+err.Error(), http.StatusBadRequest)
			return
		}
		req.Rows = rows
	case ".html", ".htm":
		rows, err := ingest.ReadHTML(strings.NewReader(string(content)))
		if err != nil {
			http.Error(w, "parse html: "+err.Error(), http.StatusBadRequest)
			return
		}
		req.Rows = rows
	case ".pdf":
		text, err := ingest.PDFText(content)
		if err != nil {
			http.Error(w, "parse pdf: "+err.Error(), http.StatusBadRequest)
			return
		}
		req.PageText = text
		// Page text carries the metadata; rows require a table export.
		if onlyMetadata(formats) {
			break
		}
		http.Error(w, "pdf uploads support only the metadata format; upload the extracted table for the others", http.StatusBadRequest)
		return
	default:
		http.Error(w, fmt.Sprintf("unsupported upload type %q", ext), http.StatusBadRequest)
		return
	}

	base, err := s.uploadBasePath(header.Filename)
	if err != nil {
		s.logger.Error("prepare upload dir", "err", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	req.BasePath = base

	res, err := s.svc.Convert(req)
	if err != nil {
		var malformed *internal.MalformedRowError
		if errors.As(err, &malformed) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	first := formats[0]
	path, ok := res.Paths[first]
	if !ok {
		http.Error(w, "no artifact produced", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	w.Header().Set("X-Diagnostics", fmt.Sprintf("%d", len(res.Diagnostics)))
	http.ServeFile(w, r, path)
}

func collectFormats(r *http.Request) []string {
	var out []string
	for _, value := range r.MultipartForm.Value["formats"] {
		for _, piece := range strings.Split(value, ",") {
			piece = strings.TrimSpace(piece)
			if piece != "" {
				out = append(out, piece)
			}
		}
	}
	return out
}

func onlyMetadata(formats []string) bool {
	for _, f := range formats {
		if f != convert.FormatMetadata {
			return false
		}
	}
	return true
}

func (s *Server) uploadBasePath(filename string) (string, error) {
	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return "", err
	}
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if name == "" {
		name = "upload"
	}
	return filepath.Join(s.cfg.UploadDir, hex.EncodeToString(b[:])+"_"+name), nil
}
