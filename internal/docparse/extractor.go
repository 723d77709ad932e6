// Package docparse pulls plain text out of uploaded case documents so the
// rest of the pipeline can scan it (e.g. for ADA CDT code mentions).
package docparse

import (
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// Extractor extracts text from uploaded files. Extraction is best-effort:
// unsupported or unreadable files yield empty text, never an error, so an
// upload is never rejected for parsing reasons.
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor creates a text extractor.
func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Text returns the extracted text of the file. PDFs go through mupdf page by
// page; plain text passes through; anything else extracts as empty.
func (e *Extractor) Text(path string, content []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return e.pdfText(path, content)
	case ".txt", ".md", ".csv":
		return string(content)
	default:
		return ""
	}
}

func (e *Extractor) pdfText(path string, content []byte) string {
	doc, err := fitz.NewFromMemory(content)
	if err != nil {
		e.logger.Warn("Failed to open PDF for text extraction",
			zap.String("path", path),
			zap.Error(err))
		return ""
	}
	defer doc.Close()

	var b strings.Builder
	for page := 0; page < doc.NumPage(); page++ {
		text, err := doc.Text(page)
		if err != nil {
			e.logger.Warn("Failed to extract PDF page text",
				zap.String("path", path),
				zap.Int("page", page),
				zap.Error(err))
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String()
}
