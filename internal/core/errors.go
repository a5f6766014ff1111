package core

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode is the closed set of failure kinds surfaced to callers.
type ErrorCode string

const (
	CodeDownloadFailed       ErrorCode = "DownloadFailed"
	CodeUnsupportedFileType  ErrorCode = "UnsupportedFileType"
	CodePdfExtractionFailed  ErrorCode = "PdfExtractionFailed"
	CodeDocxExtractionFailed ErrorCode = "DocxExtractionFailed"
	CodeTxtExtractionFailed  ErrorCode = "TxtExtractionFailed"
	CodeOcrFailed            ErrorCode = "OcrFailed"
	CodeProcessingFailed     ErrorCode = "ProcessingFailed"

	// Raised only by the HTTP boundary.
	CodeInvalidRequest ErrorCode = "InvalidRequest"
	CodeUnauthorized   ErrorCode = "Unauthorized"
)

// HTTPStatus maps a code to the status the transport layer responds with.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case CodeDownloadFailed:
		return http.StatusBadRequest
	case CodeUnsupportedFileType:
		return http.StatusUnsupportedMediaType
	case CodePdfExtractionFailed, CodeDocxExtractionFailed, CodeTxtExtractionFailed, CodeOcrFailed:
		return http.StatusUnprocessableEntity
	case CodeProcessingFailed:
		return http.StatusInternalServerError
	case CodeInvalidRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// ExtractionError is the typed failure every extraction path returns.
type ExtractionError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	// OriginalURL is set for download failures.
	OriginalURL string
	Cause       error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// NewError builds an ExtractionError with the status implied by code.
func NewError(code ErrorCode, message string, cause error) *ExtractionError {
	return &ExtractionError{
		Code:       code,
		Message:    message,
		HTTPStatus: code.HTTPStatus(),
		Cause:      cause,
	}
}

// Errorf is NewError with a formatted message and no cause.
func Errorf(code ErrorCode, format string, args ...any) *ExtractionError {
	return NewError(code, fmt.Sprintf(format, args...), nil)
}

// DownloadFailed reports that every fetch strategy was exhausted for url.
func DownloadFailed(url, message string, cause error) *ExtractionError {
	e := NewError(CodeDownloadFailed, message, cause)
	e.OriginalURL = url
	return e
}

// AsExtractionError finds the first ExtractionError in err's chain.
func AsExtractionError(err error) (*ExtractionError, bool) {
	var ee *ExtractionError
	if errors.As(err, &ee) {
		return ee, true
	}
	return nil, false
}

// HasCode reports whether err carries an ExtractionError with the given code.
func HasCode(err error, code ErrorCode) bool {
	ee, ok := AsExtractionError(err)
	return ok && ee.Code == code
}
