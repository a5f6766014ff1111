package ingestion_engine

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/markdave123-py/doctext/internal/core"
	"github.com/markdave123-py/doctext/internal/core/sniff"
	"github.com/markdave123-py/doctext/internal/models"
)

// extractPDF reads the native text layer, escalating to OCR when the layer is too sparse
// to be a genuine text PDF or the reader cannot cope with the file.
func (i *DocumentIngestor) extractPDF(ctx context.Context, data []byte, opts models.ExtractionOptions, skipSignature bool) (models.ExtractionResult, error) {
	if len(data) == 0 {
		return models.ExtractionResult{}, core.Errorf(core.CodePdfExtractionFailed, "document is empty")
	}
	if !skipSignature && !sniff.IsPDF(data) {
		if actual := sniff.Classify(data); sniff.IsImage(actual) {
			return models.ExtractionResult{}, core.Errorf(core.CodeUnsupportedFileType, "expected a PDF but the content is %s", actual)
		}
		return models.ExtractionResult{}, core.NewError(core.CodePdfExtractionFailed, "content does not carry a PDF signature", core.ErrInvalidFormat)
	}

	canOCR := opts.EnableOCR && i.ocrAvailable()

	parsed, err := i.pdf.Parse(ctx, data, opts.MaxPages)
	if err != nil {
		if canOCR && !errors.Is(err, core.ErrInvalidFormat) {
			log.Warn().Err(err).Msg("pdf text layer unreadable, escalating to ocr")
			res, ocrErr := i.extractOCR(ctx, data, ocrFullDocument, 1)
			if ocrErr != nil {
				return models.ExtractionResult{}, core.NewError(core.CodePdfExtractionFailed, "failed to extract PDF text", errors.Join(err, ocrErr))
			}
			return res, nil
		}
		return models.ExtractionResult{}, core.NewError(core.CodePdfExtractionFailed, "failed to extract PDF text", err)
	}

	if words := CountWords(parsed.Text); words < i.cfg.SparseWordLimit && canOCR {
		log.Info().
			Int("words", words).
			Int("pages", parsed.PageCount).
			Msg("pdf text layer is sparse, escalating to ocr")
		return i.extractOCR(ctx, data, ocrFullDocument, parsed.PageCount)
	}

	return finish(parsed.Text, models.MethodText, parsed.PageCount, confidenceNativePDF), nil
}

// extractDocx reads a word-processing package. The format has no page concept, so it counts as one page.
func (i *DocumentIngestor) extractDocx(ctx context.Context, data []byte) (models.ExtractionResult, error) {
	if len(data) == 0 {
		return models.ExtractionResult{}, core.Errorf(core.CodeDocxExtractionFailed, "document is empty")
	}
	text, err := i.docx.ExtractRawText(ctx, data)
	if err != nil {
		return models.ExtractionResult{}, core.NewError(core.CodeDocxExtractionFailed, "failed to extract DOCX text", err)
	}
	return finish(text, models.MethodDocx, 1, confidenceDocx), nil
}

// extractTxt decodes UTF-8, honouring a UTF-8 or UTF-16 byte order mark when present.
func (i *DocumentIngestor) extractTxt(data []byte) (models.ExtractionResult, error) {
	if len(data) == 0 {
		return models.ExtractionResult{}, core.Errorf(core.CodeTxtExtractionFailed, "document is empty")
	}
	decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return models.ExtractionResult{}, core.NewError(core.CodeTxtExtractionFailed, "failed to decode text", err)
	}
	return finish(string(decoded), models.MethodTxt, 1, confidenceTxt), nil
}

// finish normalizes raw text and fills the metadata every strategy reports.
func finish(raw string, method models.ExtractionMethod, pages int, confidence float64) models.ExtractionResult {
	text := Normalize(raw)
	if pages < 1 {
		pages = 1
	}
	return models.ExtractionResult{
		Text: text,
		Metadata: models.ExtractionMetadata{
			TotalPages:       pages,
			WordCount:        CountWords(text),
			ExtractionMethod: method,
			Confidence:       confidence,
		},
	}
}
