package pipeline

import (
	"bytes"
	"os"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

// ExtractPDFText pulls plain text lines out of a PDF catalog, one pass per
// page. PDF catalogs stay outside the spreadsheet core; this is the thin
// collaborator surface the rasterization path builds on.
func ExtractPDFText(content []byte) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}

	out := []string{}
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		out = append(out, splitLines(text)...)
	}
	return out, nil
}

func ExtractPDFTextFile(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ExtractPDFText(content)
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
