// Package ocr owns the process-wide OCR engine handle and single-image recognition.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/markdave123-py/doctext/internal/core/sniff"
)

const DefaultLanguage = "eng"

// ErrUnavailable is returned when recognition is requested from a service with no engine factory.
var ErrUnavailable = errors.New("ocr engine unavailable")

// Recognition is what an engine reports for one image. Confidence is on the engine's 0-100 scale.
type Recognition struct {
	Text       string
	Confidence float64
}

// Engine is a started OCR engine. Implementations need not be safe for concurrent use.
type Engine interface {
	Recognize(ctx context.Context, imagePath string) (Recognition, error)
	Close() error
}

// EngineFactory starts an engine for a language.
type EngineFactory func(language string) (Engine, error)

// Preprocessor prepares raw image bytes for recognition.
type Preprocessor interface {
	Preprocess(data []byte) ([]byte, error)
}

// Result is a recognition with confidence rescaled to [0,1].
type Result struct {
	Text       string
	Confidence float64
}

// Config tunes the OCR service.
//
// Language: engine language passed to the factory (e.g., "eng").
// TempDir:  parent of per-call scratch directories; empty means os.TempDir().
type Config struct {
	Language string
	TempDir  string
}

// Service lazily starts one engine on first use and serializes every recognition through it.
type Service struct {
	factory EngineFactory
	pre     Preprocessor
	cfg     Config

	mu     sync.Mutex
	engine Engine
}

// NewService builds the service. A nil factory yields a service that reports itself unavailable;
// a nil preprocessor sends raw bytes to the engine.
func NewService(factory EngineFactory, pre Preprocessor, cfg Config) *Service {
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	return &Service{factory: factory, pre: pre, cfg: cfg}
}

// Available reports whether the service can recognize anything at all.
func (s *Service) Available() bool {
	return s != nil && s.factory != nil
}

// RecognizeImage runs OCR over a single raster image held in data.
func (s *Service) RecognizeImage(ctx context.Context, data []byte) (Result, error) {
	if !s.Available() {
		return Result{}, ErrUnavailable
	}
	if len(data) == 0 {
		return Result{}, errors.New("empty image")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	engine, err := s.engineLocked()
	if err != nil {
		return Result{}, err
	}

	dir, err := os.MkdirTemp(s.cfg.TempDir, "ocr-*")
	if err != nil {
		return Result{}, fmt.Errorf("scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	img, ext := data, imageExt(data)
	if s.pre != nil {
		if processed, err := s.pre.Preprocess(data); err != nil {
			log.Warn().Err(err).Msg("ocr preprocessing failed, using original image")
		} else {
			img, ext = processed, ".png"
		}
	}

	path := filepath.Join(dir, "input"+ext)
	if err := os.WriteFile(path, img, 0o600); err != nil {
		return Result{}, fmt.Errorf("write scratch image: %w", err)
	}

	start := time.Now()
	rec, err := engine.Recognize(ctx, path)
	if err != nil {
		return Result{}, fmt.Errorf("recognize: %w", err)
	}
	res := Result{Text: rec.Text, Confidence: rescale(rec.Confidence)}
	log.Debug().
		Int("bytes", len(img)).
		Float64("confidence", res.Confidence).
		Dur("took", time.Since(start)).
		Msg("ocr recognition done")
	return res, nil
}

// Terminate closes the engine handle, if any. The next recognition starts a fresh engine.
func (s *Service) Terminate() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		return nil
	}
	err := s.engine.Close()
	s.engine = nil
	log.Info().Msg("ocr engine terminated")
	return err
}

// engineLocked returns the shared engine, starting it if needed. s.mu must be held.
func (s *Service) engineLocked() (Engine, error) {
	if s.engine != nil {
		return s.engine, nil
	}
	engine, err := s.factory(s.cfg.Language)
	if err != nil {
		return nil, fmt.Errorf("start ocr engine: %w", err)
	}
	s.engine = engine
	log.Info().Str("language", s.cfg.Language).Msg("ocr engine started")
	return engine, nil
}

func rescale(conf float64) float64 {
	conf /= 100
	switch {
	case conf < 0:
		return 0
	case conf > 1:
		return 1
	}
	return conf
}

func imageExt(data []byte) string {
	switch sniff.Classify(data) {
	case sniff.JPEG:
		return ".jpg"
	case sniff.GIF:
		return ".gif"
	}
	return ".png"
}
