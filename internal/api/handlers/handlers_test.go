package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/doctext/internal/core"
	"github.com/markdave123-py/doctext/internal/core/ingestion_engine"
	"github.com/markdave123-py/doctext/internal/models"
)

type fakeIngestor struct {
	got    models.ExtractionRequest
	out    *models.Extraction
	err    error
	ocr    bool
	called bool
}

func (f *fakeIngestor) Process(_ context.Context, req models.ExtractionRequest) (*models.Extraction, error) {
	f.called = true
	f.got = req
	return f.out, f.err
}

func (f *fakeIngestor) OCRAvailable() bool { return f.ocr }

func doExtract(t *testing.T, ing *fakeIngestor, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/extract", strings.NewReader(body))
	NewDocumentHandler(ing).ExtractDocument(rec, req)

	var env map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestExtractDocument_Success(t *testing.T) {
	ing := &fakeIngestor{out: &models.Extraction{
		ExtractionResult: models.ExtractionResult{
			Text: "hello world",
			Metadata: models.ExtractionMetadata{
				TotalPages: 1, WordCount: 2, ExtractionMethod: models.MethodTxt, ProcessingTimeMs: 4, Confidence: 1,
			},
		},
		MimeType:  "text/plain",
		SourceURL: "https://files.example/a.txt",
	}}

	rec, env := doExtract(t, ing, `{"url":" https://files.example/a.txt ","documentId":"doc-1","filename":"a.txt","fileType":"text/plain","maxPages":5}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, true, env["success"])

	data := env["data"].(map[string]any)
	assert.Equal(t, "doc-1", data["documentId"])
	assert.Equal(t, "hello world", data["text"])
	assert.Equal(t, "text/plain", data["mimeType"])
	assert.Equal(t, "https://files.example/a.txt", data["sourceUrl"])
	meta := data["metadata"].(map[string]any)
	assert.Equal(t, "txt", meta["extractionMethod"])
	assert.Equal(t, float64(2), meta["wordCount"])

	assert.Equal(t, "https://files.example/a.txt", ing.got.URL)
	assert.Equal(t, models.FetchHints{Filename: "a.txt", FileType: "text/plain"}, ing.got.Hints)
	assert.True(t, ing.got.Options.EnableOCR, "OCR is enabled unless the caller opts out")
	assert.Equal(t, 5, ing.got.Options.MaxPages)
}

func TestExtractDocument_Options(t *testing.T) {
	ing := &fakeIngestor{out: &models.Extraction{}}
	rec, env := doExtract(t, ing, `{"url":"https://x.example/s.pdf","enableOCR":false,"forceTypeOverride":true,"skipSignatureValidation":true,"useDirectOCR":true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	opts := ing.got.Options
	assert.False(t, opts.EnableOCR)
	assert.True(t, opts.ForceTypeOverride)
	assert.True(t, opts.SkipSignatureValidation)
	assert.True(t, opts.UseDirectOCR)
	assert.Zero(t, opts.MaxPages, "an omitted maxPages is left to the ingestor's configured default")

	_, err := uuid.Parse(env["data"].(map[string]any)["documentId"].(string))
	assert.NoError(t, err, "a document id is generated when omitted")
}

type stubFetcher struct{}

func (stubFetcher) Fetch(_ context.Context, rawURL string, _ models.FetchHints) (*models.FetchedContent, error) {
	body := []byte("%PDF-1.4\n")
	return &models.FetchedContent{Bytes: body, MimeType: "application/pdf", SourceURL: rawURL, SizeBytes: int64(len(body))}, nil
}

type pageCapRecorder struct{ maxPages int }

func (r *pageCapRecorder) Parse(_ context.Context, _ []byte, maxPages int) (core.ParsedPDF, error) {
	r.maxPages = maxPages
	return core.ParsedPDF{Text: "one two three four five six seven eight nine ten eleven", PageCount: 1}, nil
}

func TestExtractDocument_ConfiguredPageCap(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"omitted takes configured default", `{"url":"https://files.example/a.pdf"}`, 7},
		{"zero takes configured default", `{"url":"https://files.example/a.pdf","maxPages":0}`, 7},
		{"explicit value wins", `{"url":"https://files.example/a.pdf","maxPages":3}`, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pdf := &pageCapRecorder{}
			ing := ingestion_engine.NewDocumentIngestor(stubFetcher{}, pdf, nil, nil, &ingestion_engine.IngestConfig{DefaultMaxPages: 7})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/extract", strings.NewReader(tt.body))
			NewDocumentHandler(ing).ExtractDocument(rec, req)

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.want, pdf.maxPages)
		})
	}
}

func TestExtractDocument_InvalidRequests(t *testing.T) {
	for name, body := range map[string]string{
		"not json":          `url=x`,
		"missing url":       `{"filename":"a.pdf"}`,
		"blank url":         `{"url":"   "}`,
		"negative maxPages": `{"url":"https://x.example/a.pdf","maxPages":-1}`,
	} {
		t.Run(name, func(t *testing.T) {
			ing := &fakeIngestor{}
			rec, env := doExtract(t, ing, body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, false, env["success"])
			assert.Equal(t, "InvalidRequest", env["error"])
			assert.NotEmpty(t, env["message"])
			assert.False(t, ing.called)
		})
	}
}

func TestExtractDocument_ErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{core.DownloadFailed("u", "all strategies failed", nil), http.StatusBadRequest, "DownloadFailed"},
		{core.Errorf(core.CodeUnsupportedFileType, "legacy doc"), http.StatusUnsupportedMediaType, "UnsupportedFileType"},
		{core.Errorf(core.CodePdfExtractionFailed, "bad pdf"), http.StatusUnprocessableEntity, "PdfExtractionFailed"},
		{core.Errorf(core.CodeOcrFailed, "ocr"), http.StatusUnprocessableEntity, "OcrFailed"},
		{errors.New("untyped"), http.StatusInternalServerError, "ProcessingFailed"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rec, env := doExtract(t, &fakeIngestor{err: tt.err}, `{"url":"https://x.example/a"}`)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, false, env["success"])
			assert.Equal(t, tt.code, env["error"])
		})
	}
}

func TestHealth(t *testing.T) {
	for _, available := range []bool{true, false} {
		rec := httptest.NewRecorder()
		NewHealthHandler(&fakeIngestor{ocr: available}).Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)

		var env struct {
			Success bool `json:"success"`
			Data    struct {
				Status       string `json:"status"`
				OCRAvailable bool   `json:"ocrAvailable"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		assert.True(t, env.Success)
		assert.Equal(t, "ok", env.Data.Status)
		assert.Equal(t, available, env.Data.OCRAvailable)
	}
}
