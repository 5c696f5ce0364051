// Package ingest turns input files and request bodies into résumé text.
// Plain text passes through untouched; HTML is reduced to its visible text.
// Binary document formats are rejected.
package ingest

import (
	"bytes"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"resumeparser/internal/errors"
	"resumeparser/internal/textnorm"
)

// Format is the input representation of a document
type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
)

var (
	textExtensions = map[string]bool{".txt": true, ".text": true, ".md": true, ".markdown": true}
	htmlExtensions = map[string]bool{".html": true, ".htm": true, ".xhtml": true}
	// binary document formats nobody has asked us to decode yet
	unsupportedExtensions = map[string]bool{".pdf": true, ".doc": true, ".docx": true, ".odt": true, ".rtf": true, ".pages": true}
)

// Document is an input ready for the parser
type Document struct {
	Name   string
	Format Format
	Text   string
}

// FormatFromName picks the format from a file extension. Unknown extensions
// are read as text; known binary formats are rejected.
func FormatFromName(name string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case htmlExtensions[ext]:
		return FormatHTML, nil
	case unsupportedExtensions[ext]:
		return "", errors.NewValidationError(errors.ErrCodeUnsupportedFormat,
			fmt.Sprintf("Unsupported input format %s", ext), nil).
			WithContext("file", name)
	}
	return FormatText, nil
}

// IsKnownText reports whether name carries one of the plain text extensions
func IsKnownText(name string) bool {
	return textExtensions[strings.ToLower(filepath.Ext(name))]
}

// FormatFromContentType maps a request content type onto a format
func FormatFromContentType(contentType string) (Format, error) {
	if contentType == "" {
		return FormatText, nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", errors.NewValidationError(errors.ErrCodeInvalidRequest, "Malformed Content-Type header", err)
	}
	switch mediaType {
	case "text/plain", "text/markdown":
		return FormatText, nil
	case "text/html", "application/xhtml+xml":
		return FormatHTML, nil
	}
	return "", errors.NewValidationError(errors.ErrCodeUnsupportedFormat,
		fmt.Sprintf("Unsupported content type %s", mediaType), nil)
}

// Decode converts raw bytes of the given format into a Document. Text is
// returned byte for byte; the parser repairs its encoding.
func Decode(name string, format Format, data []byte) (Document, error) {
	switch format {
	case FormatText:
		return Document{Name: name, Format: format, Text: string(data)}, nil
	case FormatHTML:
		text, err := HTMLText(bytes.NewReader([]byte(textnorm.Normalize(data))))
		if err != nil {
			return Document{}, err
		}
		return Document{Name: name, Format: format, Text: text}, nil
	}
	return Document{}, errors.NewValidationError(errors.ErrCodeUnsupportedFormat,
		fmt.Sprintf("Unsupported input format %q", format), nil)
}
