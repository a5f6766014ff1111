package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// ImagingPreprocessor applies grayscale, contrast normalization and sharpening.
type ImagingPreprocessor struct {
	// SharpenSigma controls the unsharp mask; zero disables sharpening.
	SharpenSigma float64
}

var _ Preprocessor = (*ImagingPreprocessor)(nil)

func NewImagingPreprocessor() *ImagingPreprocessor {
	return &ImagingPreprocessor{SharpenSigma: 1.0}
}

// Preprocess decodes data, cleans it up for recognition and re-encodes it as PNG.
func (p *ImagingPreprocessor) Preprocess(data []byte) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	img := normalize(imaging.Grayscale(src))
	if p.SharpenSigma > 0 {
		img = imaging.Sharpen(img, p.SharpenSigma)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// normalize stretches a grayscale image's luminance range to the full 0-255 scale.
func normalize(img *image.NRGBA) *image.NRGBA {
	lo, hi := uint8(255), uint8(0)
	for i := 0; i < len(img.Pix); i += 4 {
		v := img.Pix[i]
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi <= lo || (lo == 0 && hi == 255) {
		return img
	}
	span := float64(hi - lo)
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		stretch := func(v uint8) uint8 {
			if v <= lo {
				return 0
			}
			if v >= hi {
				return 255
			}
			return uint8(float64(v-lo)*255/span + 0.5)
		}
		return color.NRGBA{R: stretch(c.R), G: stretch(c.G), B: stretch(c.B), A: c.A}
	})
}
