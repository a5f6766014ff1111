package core

import (
	"context"
	"errors"

	"github.com/markdave123-py/doctext/internal/core/ocr"
	"github.com/markdave123-py/doctext/internal/models"
)

// ErrInvalidFormat marks input whose byte signature does not match the format a reader expects.
var ErrInvalidFormat = errors.New("invalid format")

// ParsedPDF is what a native text-layer read yields.
type ParsedPDF struct {
	Text      string
	PageCount int
}

// PDFTextReader reads the embedded text layer of a PDF, scanning at most maxPages pages.
// It fails on malformed input.
type PDFTextReader interface {
	Parse(ctx context.Context, data []byte, maxPages int) (ParsedPDF, error)
}

// DocxReader extracts raw text from a word-processing document.
type DocxReader interface {
	ExtractRawText(ctx context.Context, data []byte) (string, error)
}

// ContentFetcher retrieves a remote document.
type ContentFetcher interface {
	Fetch(ctx context.Context, rawURL string, hints models.FetchHints) (*models.FetchedContent, error)
}

// ImageRecognizer runs OCR over a single raster image.
// Available is the capability flag: false means no engine can ever be started.
type ImageRecognizer interface {
	Available() bool
	RecognizeImage(ctx context.Context, data []byte) (ocr.Result, error)
}
