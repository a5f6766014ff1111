package readers

import (
	"bytes"
	"context"
	"fmt"

	"code.sajari.com/docconv"

	"github.com/markdave123-py/doctext/internal/core"
)

// DocxReader extracts raw text from word-processing packages using sajari/docconv.
type DocxReader struct{}

var _ core.DocxReader = (*DocxReader)(nil)

func NewDocxReader() *DocxReader { return &DocxReader{} }

// ExtractRawText returns the body, header and footer text of a DOCX package.
func (r *DocxReader) ExtractRawText(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty docx: %w", core.ErrInvalidFormat)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, _, err := docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("docconv: %w", err)
	}
	return text, nil
}
