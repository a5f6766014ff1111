package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/markdave123-py/doctext/internal/config"
	"github.com/markdave123-py/doctext/internal/core/fetcher"
	"github.com/markdave123-py/doctext/internal/core/ingestion_engine"
	"github.com/markdave123-py/doctext/internal/core/ocr"
	"github.com/markdave123-py/doctext/internal/core/readers"
	objectclient "github.com/markdave123-py/doctext/internal/core/object-client"
)

type App struct {
	OCR          *ocr.Service
	DocProcessor ingestion_engine.Ingestor
	Server       *Server
}

// NewApp wires the extraction pipeline and HTTP server. engines starts OCR engines;
// nil, or OCR_ENABLED=false, leaves OCR unavailable.
func NewApp(ctx context.Context, cfg *config.Config, engines ocr.EngineFactory) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	providers := []fetcher.Provider{&fetcher.Cloudinary{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		TTL:       cfg.SignedURLTTL,
	}}
	if !cfg.HasCloudinaryCredentials() {
		log.Info().Msg("cloudinary credentials not set; signed cloudinary downloads disabled")
	}

	if cfg.HasAwsCredentials() {
		objClient, err := objectclient.NewS3Client(appCtx, cfg)
		if err != nil {
			return nil, err
		}
		providers = append(providers, &fetcher.S3{Client: objClient, TTL: cfg.SignedURLTTL})
		log.Info().Msg("object client initialized and ready")
	} else {
		log.Info().Msg("aws credentials not set; s3 presigned downloads disabled")
	}

	docFetcher := fetcher.New(fetcher.Config{
		Timeout:         cfg.FetchTimeout,
		MaxBytes:        cfg.MaxFileSizeBytes(),
		RedirectMaxHops: cfg.RedirectMaxHops,
	}, providers...)

	if !cfg.OCREnabled {
		engines = nil
	}
	var pre ocr.Preprocessor
	if cfg.OCRPreprocess {
		pre = ocr.NewImagingPreprocessor()
	}
	ocrService := ocr.NewService(engines, pre, ocr.Config{Language: cfg.OCRLanguage})

	ingCfg := &ingestion_engine.IngestConfig{
		OCRAvailable:    ocrService.Available(),
		SparseWordLimit: ingestion_engine.DefaultSparseWordLimit,
		DefaultMaxPages: cfg.DefaultMaxPages,
	}
	docIngestor := ingestion_engine.NewDocumentIngestor(docFetcher, readers.NewPDFReader(), readers.NewDocxReader(), ocrService, ingCfg)
	log.Info().Bool("ocr_available", ingCfg.OCRAvailable).Msg("extraction pipeline ready")

	server := NewServer(cfg, docIngestor)

	return &App{OCR: ocrService, DocProcessor: docIngestor, Server: server}, nil
}

// Close releases the shared OCR engine.
func (a *App) Close() {
	if a.OCR != nil {
		if err := a.OCR.Terminate(); err != nil {
			log.Warn().Err(err).Msg("ocr terminate")
		}
	}
}
