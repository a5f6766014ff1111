// Package readers adapts third-party document parsers to the core reader interfaces.
package readers

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"

	"github.com/markdave123-py/doctext/internal/core"
	"github.com/markdave123-py/doctext/internal/core/sniff"
)

// PDFReader reads the embedded text layer of a PDF with ledongthuc/pdf.
type PDFReader struct{}

var _ core.PDFTextReader = (*PDFReader)(nil)

func NewPDFReader() *PDFReader { return &PDFReader{} }

// Parse returns the text of the first maxPages pages and the document's total page count.
// maxPages <= 0 means every page. Pages the library cannot decode are skipped.
func (r *PDFReader) Parse(ctx context.Context, data []byte, maxPages int) (out core.ParsedPDF, err error) {
	if len(data) == 0 {
		return core.ParsedPDF{}, fmt.Errorf("empty pdf: %w", core.ErrInvalidFormat)
	}

	// the library panics on some malformed cross-reference tables
	defer func() {
		if rec := recover(); rec != nil {
			out = core.ParsedPDF{}
			err = openError(data, fmt.Errorf("pdf parser panic: %v", rec))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return core.ParsedPDF{}, openError(data, err)
	}

	total := reader.NumPage()
	limit := total
	if maxPages > 0 && maxPages < limit {
		limit = maxPages
	}

	var b strings.Builder
	for i := 1; i <= limit; i++ {
		if err := ctx.Err(); err != nil {
			return core.ParsedPDF{}, err
		}
		text, err := pageText(reader, i)
		if err != nil {
			log.Debug().Err(err).Int("page", i).Msg("pdf page skipped")
			continue
		}
		if text = strings.TrimSpace(text); text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(text)
	}

	return core.ParsedPDF{Text: b.String(), PageCount: total}, nil
}

// openError marks failures on buffers without a PDF header as core.ErrInvalidFormat.
func openError(data []byte, err error) error {
	if !sniff.IsPDF(data) {
		return fmt.Errorf("open pdf: %v: %w", err, core.ErrInvalidFormat)
	}
	return fmt.Errorf("open pdf: %w", err)
}

func pageText(reader *pdf.Reader, n int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("page %d: %v", n, rec)
		}
	}()
	page := reader.Page(n)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}
