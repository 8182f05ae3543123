package extractor

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/docqa/internal/core/domain"
	"github.com/kirillkom/docqa/internal/core/ports"
)

// Extractor reads a stored document and produces plain text for chunking.
// Format is picked from the file extension with the MIME type as a fallback;
// anything that is not a PDF is treated as UTF-8 text.
type Extractor struct {
	storage ports.ObjectStorage
}

func New(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

func (e *Extractor) Extract(ctx context.Context, doc *domain.Document) (string, error) {
	reader, err := e.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return "", fmt.Errorf("open source document: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read source document: %w", err)
	}

	if isPDF(doc) {
		text, err := extractPDFText(raw)
		if err != nil {
			return "", fmt.Errorf("extract pdf text from %s: %w", doc.Filename, err)
		}
		return text, nil
	}

	if !utf8.Valid(raw) {
		return "", fmt.Errorf("unsupported binary format: %s", doc.Filename)
	}
	return strings.TrimSpace(string(raw)), nil
}

func isPDF(doc *domain.Document) bool {
	if strings.EqualFold(filepath.Ext(doc.Filename), ".pdf") {
		return true
	}
	return strings.EqualFold(doc.MimeType, "application/pdf")
}
