package handlers

import (
	"net/http"
)

// OCRCapability reports whether OCR can run in this process.
type OCRCapability interface {
	OCRAvailable() bool
}

type HealthHandler struct {
	ocr OCRCapability
}

func NewHealthHandler(ocr OCRCapability) *HealthHandler {
	return &HealthHandler{ocr: ocr}
}

type healthResponse struct {
	Status       string `json:"status"`
	OCRAvailable bool   `json:"ocrAvailable"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, healthResponse{
		Status:       "ok",
		OCRAvailable: h.ocr != nil && h.ocr.OCRAvailable(),
	})
}
