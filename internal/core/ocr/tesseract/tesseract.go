// Package tesseract runs recognition on the local Tesseract library through gosseract.
// It requires cgo and the tesseract/leptonica shared libraries.
package tesseract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"github.com/markdave123-py/doctext/internal/core/ocr"
)

// Engine wraps one gosseract client.
type Engine struct {
	client *gosseract.Client
}

var _ ocr.Engine = (*Engine)(nil)

// New starts a Tesseract client for language. It satisfies ocr.EngineFactory.
func New(language string) (ocr.Engine, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage(language); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("tesseract language %q: %w", language, err)
	}
	return &Engine{client: client}, nil
}

// Recognize returns the page text and the mean word confidence (0-100).
func (e *Engine) Recognize(ctx context.Context, imagePath string) (ocr.Recognition, error) {
	if err := ctx.Err(); err != nil {
		return ocr.Recognition{}, err
	}
	if err := e.client.SetImage(imagePath); err != nil {
		return ocr.Recognition{}, fmt.Errorf("tesseract set image: %w", err)
	}
	text, err := e.client.Text()
	if err != nil {
		return ocr.Recognition{}, fmt.Errorf("tesseract text: %w", err)
	}

	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return ocr.Recognition{Text: text}, nil
	}
	var sum float64
	for _, b := range boxes {
		sum += b.Confidence
	}
	var mean float64
	if len(boxes) > 0 {
		mean = sum / float64(len(boxes))
	}
	return ocr.Recognition{Text: text, Confidence: mean}, nil
}

func (e *Engine) Close() error {
	return e.client.Close()
}
