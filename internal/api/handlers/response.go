package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/markdave123-py/doctext/internal/core"
)

type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteJSON writes data inside a success envelope.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	write(w, status, successEnvelope{Success: true, Data: data})
}

// WriteError renders err as a failure envelope. Untyped errors become ProcessingFailed.
func WriteError(w http.ResponseWriter, err error) {
	ee, ok := core.AsExtractionError(err)
	if !ok {
		ee = core.NewError(core.CodeProcessingFailed, "internal error", err)
	}
	status := ee.HTTPStatus
	if status == 0 {
		status = ee.Code.HTTPStatus()
	}
	write(w, status, errorEnvelope{Success: false, Error: string(ee.Code), Message: ee.Message})
}

func write(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Msg("write response")
	}
}
