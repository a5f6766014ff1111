package models

// ExtractionMethod names the strategy that produced a result's text.
type ExtractionMethod string

const (
	MethodText ExtractionMethod = "text"
	MethodOCR  ExtractionMethod = "ocr"
	MethodDocx ExtractionMethod = "docx"
	MethodTxt  ExtractionMethod = "txt"
)

// FetchedContent is a downloaded document held in memory for one extraction call.
//
// Bytes:            raw payload, never longer than the configured size cap.
// DeclaredMimeType: Content-Type reported by the transport, parameters stripped.
// MimeType:         effective type after sniffing and extension inference.
// SourceURL:        URL that actually served the bytes (possibly rewritten by a fetch strategy).
// SizeBytes:        always len(Bytes).
// Strategy:         name of the fetch strategy that succeeded.
type FetchedContent struct {
	Bytes            []byte
	DeclaredMimeType string
	MimeType         string
	SourceURL        string
	SizeBytes        int64
	Strategy         string
}

// FetchHints carries caller-supplied labels used only as MIME fallbacks.
type FetchHints struct {
	Filename string
	FileType string
}

// ExtractionOptions tunes a single extraction call.
type ExtractionOptions struct {
	EnableOCR               bool
	ForceTypeOverride       bool
	SkipSignatureValidation bool
	UseDirectOCR            bool
	// MaxPages caps native PDF page scanning; 0 takes the pipeline's configured default.
	MaxPages int
}

// DefaultMaxPages caps native PDF page scanning when neither options nor configuration set it.
const DefaultMaxPages = 100

// DefaultExtractionOptions returns the options used when a caller sets nothing.
// MaxPages stays 0 so the configured page cap applies.
func DefaultExtractionOptions() ExtractionOptions {
	return ExtractionOptions{EnableOCR: true}
}

// ExtractionMetadata describes how a result was produced.
type ExtractionMetadata struct {
	TotalPages       int              `json:"totalPages"`
	WordCount        int              `json:"wordCount"`
	ExtractionMethod ExtractionMethod `json:"extractionMethod"`
	ProcessingTimeMs int64            `json:"processingTimeMs"`
	Confidence       float64          `json:"confidence"`
}

// ExtractionResult holds normalized text plus its metadata.
type ExtractionResult struct {
	Text     string             `json:"text"`
	Metadata ExtractionMetadata `json:"metadata"`
}

// ExtractionRequest is one call into the extraction pipeline.
type ExtractionRequest struct {
	URL     string
	Hints   FetchHints
	Options ExtractionOptions
}

// Extraction is a finished result together with where its bytes came from.
type Extraction struct {
	ExtractionResult
	MimeType  string
	SourceURL string
}
