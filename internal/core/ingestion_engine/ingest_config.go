package ingestion_engine

import (
	"github.com/markdave123-py/doctext/internal/core"
)

const (
	// DefaultSparseWordLimit separates text-bearing PDFs from scans wrapped in a PDF container.
	DefaultSparseWordLimit = 10

	confidenceNativePDF = 0.95
	confidenceDocx      = 0.98
	confidenceTxt       = 1.0
)

// IngestConfig tunes the extraction pipeline.
//
// OCRAvailable:    capability flag; false disables every OCR path whatever a request asks for.
// SparseWordLimit: native PDF text with fewer words than this escalates to OCR (e.g., 10).
// DefaultMaxPages: page cap used when a request leaves maxPages unset (e.g., 100).
type IngestConfig struct {
	OCRAvailable    bool
	SparseWordLimit int
	DefaultMaxPages int
}

// ocrMode selects how the OCR strategy reads its buffer.
type ocrMode int

const (
	// ocrFullDocument is multi-page PDF OCR, which has no rasterizer behind it yet.
	ocrFullDocument ocrMode = iota
	// ocrPngAsPdf treats an image delivered in place of a PDF as the document's only page.
	ocrPngAsPdf
	// ocrDirectImage recognizes an image the caller asked to OCR as-is.
	ocrDirectImage
)

func (m ocrMode) String() string {
	switch m {
	case ocrPngAsPdf:
		return "png-as-pdf"
	case ocrDirectImage:
		return "direct-image"
	default:
		return "full-document"
	}
}

// DocumentIngestor orchestrates one extraction call:
//
// fetcher: downloads bytes and resolves their effective MIME type.
// pdf:     native text-layer reader.
// docx:    word-processing package reader.
// ocr:     process-wide OCR service shared by every call.
// cfg:     runtime tuning knobs for the pipeline.
type DocumentIngestor struct {
	fetcher core.ContentFetcher
	pdf     core.PDFTextReader
	docx    core.DocxReader
	ocr     core.ImageRecognizer
	cfg     *IngestConfig
}
