package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/markdave123-py/doctext/internal/core"
	"github.com/markdave123-py/doctext/internal/core/ingestion_engine"
	"github.com/markdave123-py/doctext/internal/models"
)

// maxRequestBody bounds the JSON request body, not the document.
const maxRequestBody = 1 << 20

type DocumentHandler struct {
	ingestor ingestion_engine.Ingestor
}

func NewDocumentHandler(ing ingestion_engine.Ingestor) *DocumentHandler {
	return &DocumentHandler{ingestor: ing}
}

type extractRequest struct {
	URL                     string `json:"url"`
	DocumentID              string `json:"documentId"`
	Filename                string `json:"filename"`
	FileType                string `json:"fileType"`
	EnableOCR               *bool  `json:"enableOCR"`
	ForceTypeOverride       bool   `json:"forceTypeOverride"`
	SkipSignatureValidation bool   `json:"skipSignatureValidation"`
	UseDirectOCR            bool   `json:"useDirectOCR"`
	MaxPages                int    `json:"maxPages"`
}

type extractResponse struct {
	DocumentID string                    `json:"documentId"`
	Text       string                    `json:"text"`
	Metadata   models.ExtractionMetadata `json:"metadata"`
	MimeType   string                    `json:"mimeType"`
	SourceURL  string                    `json:"sourceUrl"`
}

// ExtractDocument downloads the document at the requested URL and returns its text.
func (h *DocumentHandler) ExtractDocument(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&req); err != nil {
		WriteError(w, core.NewError(core.CodeInvalidRequest, "request body must be a JSON object", err))
		return
	}

	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		WriteError(w, core.Errorf(core.CodeInvalidRequest, "url is required"))
		return
	}
	if req.MaxPages < 0 {
		WriteError(w, core.Errorf(core.CodeInvalidRequest, "maxPages must not be negative"))
		return
	}
	if req.DocumentID == "" {
		req.DocumentID = uuid.NewString()
	}

	opts := models.DefaultExtractionOptions()
	if req.EnableOCR != nil {
		opts.EnableOCR = *req.EnableOCR
	}
	opts.ForceTypeOverride = req.ForceTypeOverride
	opts.SkipSignatureValidation = req.SkipSignatureValidation
	opts.UseDirectOCR = req.UseDirectOCR
	opts.MaxPages = req.MaxPages

	out, err := h.ingestor.Process(r.Context(), models.ExtractionRequest{
		URL:     req.URL,
		Hints:   models.FetchHints{Filename: req.Filename, FileType: req.FileType},
		Options: opts,
	})
	if err != nil {
		log.Warn().Err(err).Str("document_id", req.DocumentID).Str("url", req.URL).Msg("extract request failed")
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, extractResponse{
		DocumentID: req.DocumentID,
		Text:       out.Text,
		Metadata:   out.Metadata,
		MimeType:   out.MimeType,
		SourceURL:  out.SourceURL,
	})
}
