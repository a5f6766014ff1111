// Package sniff classifies documents by byte signature and file extension.
package sniff

import (
	"bytes"
	"mime"
	"net/url"
	"path"
	"strings"
)

const (
	PDF         = "application/pdf"
	DOCX        = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	DOC         = "application/msword"
	ZIP         = "application/zip"
	PNG         = "image/png"
	JPEG        = "image/jpeg"
	GIF         = "image/gif"
	PlainText   = "text/plain"
	Markdown    = "text/markdown"
	CSV         = "text/csv"
	OctetStream = "application/octet-stream"
)

var (
	sigPDF  = []byte("%PDF")
	sigZIP  = []byte{0x50, 0x4B, 0x03, 0x04}
	sigOLE  = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	sigPNG  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	sigJPEG = []byte{0xFF, 0xD8, 0xFF}
	sigGIF7 = []byte("GIF87a")
	sigGIF9 = []byte("GIF89a")

	// Part names every word-processing package lists in its zip headers.
	wordMarkers = [][]byte{[]byte("[Content_Types].xml"), []byte("word/document.xml")}
)

// Classify maps a buffer prefix to a MIME type. It returns "" when no signature matches.
func Classify(b []byte) string {
	switch {
	case bytes.HasPrefix(b, sigPDF):
		return PDF
	case bytes.HasPrefix(b, sigZIP):
		for _, m := range wordMarkers {
			if !bytes.Contains(b, m) {
				return ZIP
			}
		}
		return DOCX
	case bytes.HasPrefix(b, sigOLE):
		return DOC
	case bytes.HasPrefix(b, sigPNG):
		return PNG
	case bytes.HasPrefix(b, sigJPEG):
		return JPEG
	case bytes.HasPrefix(b, sigGIF7), bytes.HasPrefix(b, sigGIF9):
		return GIF
	}
	return ""
}

// IsPDF reports whether b carries the PDF signature.
func IsPDF(b []byte) bool {
	return bytes.HasPrefix(b, sigPDF)
}

var extTypes = map[string]string{
	".pdf":  PDF,
	".docx": DOCX,
	".doc":  DOC,
	".txt":  PlainText,
	".text": PlainText,
	".md":   Markdown,
	".csv":  CSV,
	".png":  PNG,
	".jpg":  JPEG,
	".jpeg": JPEG,
	".gif":  GIF,
	".zip":  ZIP,
}

// FromExtension infers a MIME type from a filename or URL path. It returns "" when unknown.
func FromExtension(name string) string {
	if name == "" {
		return ""
	}
	if u, err := url.Parse(name); err == nil && u.Path != "" {
		name = u.Path
	}
	return extTypes[strings.ToLower(path.Ext(name))]
}

// MediaType strips parameters from a Content-Type value and lowercases it.
func MediaType(contentType string) string {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt, _, _ = strings.Cut(contentType, ";")
	}
	return strings.ToLower(strings.TrimSpace(mt))
}

// Resolve picks the effective MIME type for a download. Content beats metadata:
// sniffed signature, then the first known extension among names, then the declared types in order,
// then application/octet-stream. Declared octet-stream values are treated as unknown.
func Resolve(b []byte, names []string, declared ...string) string {
	if t := Classify(b); t != "" {
		return t
	}
	for _, n := range names {
		if t := FromExtension(n); t != "" {
			return t
		}
	}
	for _, d := range declared {
		if t := MediaType(d); t != "" && t != OctetStream && t != "binary/octet-stream" {
			return t
		}
	}
	return OctetStream
}

// IsImage reports whether mimeType is a raster image type.
func IsImage(mimeType string) bool {
	return strings.HasPrefix(MediaType(mimeType), "image/")
}

// IsPlainText reports whether mimeType is handled by plain-text passthrough.
func IsPlainText(mimeType string) bool {
	switch MediaType(mimeType) {
	case PlainText, Markdown, CSV:
		return true
	}
	return false
}
