package ingest

import (
	"bytes"
	"os"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

// PDFText extracts the plain text of every page, concatenated with
// newlines, for the metadata extractor. Pages that fail to decode are
// skipped rather than failing the document.
func PDFText(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// PDFTextFromFile is PDFText over a file path.
func PDFTextFromFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return PDFText(content)
}
