package readers

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/doctext/internal/core"
	"github.com/markdave123-py/doctext/internal/core/sniff"
)

func buildPDF(t *testing.T, pages ...string) []byte {
	t.Helper()
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	for _, text := range pages {
		doc.AddPage()
		doc.Cell(120, 10, text)
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestPDFReader_Parse(t *testing.T) {
	data := buildPDF(t, "Quarterly revenue grew", "Second page mentions apples", "Third page mentions pears")
	require.True(t, sniff.IsPDF(data))

	got, err := NewPDFReader().Parse(context.Background(), data, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, got.PageCount)
	assert.Contains(t, got.Text, "revenue")
	assert.Contains(t, got.Text, "apples")
	assert.Contains(t, got.Text, "pears")
}

func TestPDFReader_PageCap(t *testing.T) {
	data := buildPDF(t, "Quarterly revenue grew", "Second page mentions apples")

	got, err := NewPDFReader().Parse(context.Background(), data, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, got.PageCount, "total pages are reported even when reading is capped")
	assert.Contains(t, got.Text, "revenue")
	assert.NotContains(t, got.Text, "apples")
}

func TestPDFReader_Malformed(t *testing.T) {
	_, err := NewPDFReader().Parse(context.Background(), []byte("definitely not a pdf"), 0)
	assert.ErrorIs(t, err, core.ErrInvalidFormat)

	_, err = NewPDFReader().Parse(context.Background(), []byte("%PDF-1.4\ngarbage without xref"), 0)
	require.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrInvalidFormat, "a PDF header with a broken body is a parse failure")

	_, err = NewPDFReader().Parse(context.Background(), nil, 0)
	assert.ErrorIs(t, err, core.ErrInvalidFormat)
}

func TestPDFReader_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewPDFReader().Parse(ctx, buildPDF(t, "hello"), 0)
	assert.ErrorIs(t, err, context.Canceled)
}

const (
	contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`
	documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Meeting minutes</w:t></w:r></w:p>
<w:p><w:r><w:t>Budget approved for the new library.</w:t></w:r></w:p>
</w:body>
</w:document>`
)

func buildDocx(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range map[string]string{
		"[Content_Types].xml": contentTypesXML,
		"word/document.xml":   documentXML,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDocxReader_ExtractRawText(t *testing.T) {
	got, err := NewDocxReader().ExtractRawText(context.Background(), buildDocx(t))
	require.NoError(t, err)
	assert.Contains(t, got, "Meeting minutes")
	assert.Contains(t, got, "Budget approved for the new library.")
}

func TestDocxReader_Errors(t *testing.T) {
	_, err := NewDocxReader().ExtractRawText(context.Background(), nil)
	assert.ErrorIs(t, err, core.ErrInvalidFormat)

	_, err = NewDocxReader().ExtractRawText(context.Background(), []byte("PK not really a zip"))
	assert.Error(t, err)
}
