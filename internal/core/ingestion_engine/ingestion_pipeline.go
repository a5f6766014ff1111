package ingestion_engine

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/markdave123-py/doctext/internal/core"
	"github.com/markdave123-py/doctext/internal/core/sniff"
	"github.com/markdave123-py/doctext/internal/models"
)

var _ Ingestor = (*DocumentIngestor)(nil)

// NewDocumentIngestor wires the pipeline. A nil cfg takes the defaults with OCR unavailable.
// cfg is copied; the caller's value is never modified.
func NewDocumentIngestor(fetcher core.ContentFetcher, pdf core.PDFTextReader, docx core.DocxReader, ocr core.ImageRecognizer, cfg *IngestConfig) *DocumentIngestor {
	var c IngestConfig
	if cfg != nil {
		c = *cfg
	}
	if c.SparseWordLimit <= 0 {
		c.SparseWordLimit = DefaultSparseWordLimit
	}
	if c.DefaultMaxPages <= 0 {
		c.DefaultMaxPages = models.DefaultMaxPages
	}
	return &DocumentIngestor{fetcher: fetcher, pdf: pdf, docx: docx, ocr: ocr, cfg: &c}
}

// OCRAvailable reports whether OCR paths can run at all.
func (i *DocumentIngestor) OCRAvailable() bool {
	return i.ocrAvailable()
}

// Process fetches req.URL, picks an extraction strategy for the bytes and returns normalized text.
// Every failure is an *core.ExtractionError; untyped inner errors surface as ProcessingFailed.
func (i *DocumentIngestor) Process(ctx context.Context, req models.ExtractionRequest) (*models.Extraction, error) {
	start := time.Now()
	opts := req.Options
	if opts.MaxPages <= 0 {
		opts.MaxPages = i.cfg.DefaultMaxPages
	}

	fc, err := i.fetcher.Fetch(ctx, req.URL, req.Hints)
	if err != nil {
		return nil, classify(err)
	}

	res, err := i.dispatch(ctx, fc, opts)
	if err != nil {
		log.Warn().Err(err).Str("url", req.URL).Str("mime_type", fc.MimeType).Msg("extraction failed")
		return nil, classify(err)
	}
	res.Metadata.ProcessingTimeMs = time.Since(start).Milliseconds()

	log.Info().
		Str("url", req.URL).
		Str("mime_type", fc.MimeType).
		Str("method", string(res.Metadata.ExtractionMethod)).
		Int("pages", res.Metadata.TotalPages).
		Int("words", res.Metadata.WordCount).
		Int64("took_ms", res.Metadata.ProcessingTimeMs).
		Msg("document extracted")

	return &models.Extraction{ExtractionResult: res, MimeType: fc.MimeType, SourceURL: fc.SourceURL}, nil
}

// dispatch applies the override flags to the resolved type and runs the matching strategy.
func (i *DocumentIngestor) dispatch(ctx context.Context, fc *models.FetchedContent, opts models.ExtractionOptions) (models.ExtractionResult, error) {
	mime := fc.MimeType

	if sniff.IsImage(mime) {
		switch {
		case opts.UseDirectOCR:
			return i.extractOCR(ctx, fc.Bytes, ocrDirectImage, 1)
		case opts.ForceTypeOverride && opts.SkipSignatureValidation:
			return i.extractOCR(ctx, fc.Bytes, ocrPngAsPdf, 1)
		case opts.ForceTypeOverride:
			log.Info().Str("mime_type", mime).Msg("type override: treating image as pdf")
			mime = sniff.PDF
		}
	}

	res, err := i.extractByType(ctx, mime, fc.Bytes, opts)
	if err != nil && mime == sniff.PDF && opts.ForceTypeOverride &&
		core.HasCode(err, core.CodeUnsupportedFileType) && sniff.IsImage(sniff.Classify(fc.Bytes)) {
		// storage providers sometimes rasterize an uploaded PDF into an image
		log.Warn().Str("url", fc.SourceURL).Msg("pdf delivered as image, retrying with ocr")
		return i.extractOCR(ctx, fc.Bytes, ocrPngAsPdf, 1)
	}
	return res, err
}

func (i *DocumentIngestor) extractByType(ctx context.Context, mime string, data []byte, opts models.ExtractionOptions) (models.ExtractionResult, error) {
	switch {
	case mime == sniff.PDF:
		return i.extractPDF(ctx, data, opts, opts.ForceTypeOverride && opts.SkipSignatureValidation)
	case mime == sniff.DOCX:
		return i.extractDocx(ctx, data)
	case mime == sniff.DOC:
		return models.ExtractionResult{}, core.Errorf(core.CodeUnsupportedFileType,
			"legacy .doc files are not supported; convert the document to DOCX and try again")
	case sniff.IsPlainText(mime):
		return i.extractTxt(data)
	default:
		return models.ExtractionResult{}, core.Errorf(core.CodeUnsupportedFileType, "unsupported file type: %s", mime)
	}
}

// classify passes typed errors through and wraps everything else as ProcessingFailed.
func classify(err error) error {
	if _, ok := core.AsExtractionError(err); ok {
		return err
	}
	return core.NewError(core.CodeProcessingFailed, "document processing failed", err)
}
