package ingestion_engine

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/markdave123-py/doctext/internal/core"
	"github.com/markdave123-py/doctext/internal/models"
)

// fullDocumentPlaceholder stands in for multi-page PDF OCR, which has no page rasterizer.
const fullDocumentPlaceholder = "[Scanned PDF detected. OCR of multi-page PDF documents is not supported yet; " +
	"upload the pages as PNG or JPEG images to extract their text.]"

// extractOCR recognizes data as a single raster image. pages is only reported by the
// full-document placeholder.
func (i *DocumentIngestor) extractOCR(ctx context.Context, data []byte, mode ocrMode, pages int) (models.ExtractionResult, error) {
	if !i.ocrAvailable() {
		return models.ExtractionResult{}, core.Errorf(core.CodeOcrFailed, "OCR engine is not available")
	}
	if len(data) == 0 {
		return models.ExtractionResult{}, core.Errorf(core.CodeOcrFailed, "document is empty")
	}

	if mode == ocrFullDocument {
		log.Warn().Int("pages", pages).Msg("multi-page pdf ocr is not supported, returning placeholder text")
		return finish(fullDocumentPlaceholder, models.MethodOCR, pages, 0), nil
	}

	res, err := i.ocr.RecognizeImage(ctx, data)
	if err != nil {
		return models.ExtractionResult{}, core.NewError(core.CodeOcrFailed, "OCR recognition failed", err)
	}
	log.Info().Str("mode", mode.String()).Float64("confidence", res.Confidence).Msg("ocr extraction done")
	return finish(res.Text, models.MethodOCR, 1, res.Confidence), nil
}

func (i *DocumentIngestor) ocrAvailable() bool {
	return i.cfg.OCRAvailable && i.ocr != nil && i.ocr.Available()
}
