package ingestion_engine

import (
	"context"

	"github.com/markdave123-py/doctext/internal/models"
)

// Ingestor turns a document URL into normalized text plus metadata.
type Ingestor interface {
	Process(ctx context.Context, req models.ExtractionRequest) (*models.Extraction, error)
	OCRAvailable() bool
}
