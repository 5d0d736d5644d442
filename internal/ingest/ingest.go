package ingest

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// Extractor pulls plain text out of an uploaded document so it can be fed
// to the invoice extraction pipeline.
type Extractor interface {
	// Text extracts the document's text content.
	Text(data []byte, contentType string) (string, error)
}

// Document implements Extractor for PDF and plain-text uploads.
type Document struct{}

// NewDocument creates a new Document extractor
func NewDocument() *Document {
	return &Document{}
}

// Text extracts the text content of an uploaded document
func (d *Document) Text(data []byte, contentType string) (string, error) {
	// Normalize MIME type and drop any parameters (e.g. "; charset=utf-8")
	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(mimeType, ";"); idx != -1 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}

	switch mimeType {
	case "application/pdf":
		return pdfText(data)
	case "", "text/plain":
		return strings.TrimSpace(string(data)), nil
	default:
		return "", fmt.Errorf("unsupported document type %q. Supported types: PDF, plain text", mimeType)
	}
}

// pdfText extracts the text of every page of a PDF
func pdfText(data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	var b strings.Builder
	for page := 0; page < doc.NumPage(); page++ {
		text, err := doc.Text(page)
		if err != nil {
			return "", fmt.Errorf("extracting text from page %d: %w", page+1, err)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	return strings.TrimSpace(b.String()), nil
}
