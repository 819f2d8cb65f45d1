// Package extract turns uploaded contract files into plain text.
//
// Only plain text and PDF are accepted. Plain text is decoded as UTF-8 with a
// single-byte fallback for legacy encodings. PDF text is recovered from the
// page content streams; glyphs drawn through composite or custom-encoded fonts
// are not mapped back to Unicode.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Accepted content types.
const (
	ContentTypeText = "text/plain"
	ContentTypePDF  = "application/pdf"
)

var (
	ErrUnsupportedType = errors.New("unsupported content type")
	ErrExtractFailed   = errors.New("text extraction failed")
	// ErrPartial accompanies usable text when some PDF pages could not be read.
	ErrPartial = errors.New("some pages could not be extracted")
)

// Text extracts the textual content of data according to contentType.
// When only some PDF pages fail, Text returns the remaining pages' text
// together with an error wrapping ErrPartial; callers may keep the text.
func Text(data []byte, contentType string) (string, error) {
	switch Normalize(contentType) {
	case ContentTypeText:
		return decodeText(data), nil
	case ContentTypePDF:
		text, err := pdfText(data)
		switch {
		case errors.Is(err, ErrPartial):
			return text, err
		case err != nil:
			return "", fmt.Errorf("%w: %w", ErrExtractFailed, err)
		}
		return text, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}
}

// PageCount returns the number of pages in a PDF document.
func PageCount(data []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExtractFailed, err)
	}
	return n, nil
}

// Supported reports whether contentType can be extracted.
func Supported(contentType string) bool {
	switch Normalize(contentType) {
	case ContentTypeText, ContentTypePDF:
		return true
	}
	return false
}

// ContentTypeFor returns the accepted content type for filename's extension,
// or an empty string when the extension is not accepted.
func ContentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return ContentTypeText
	case ".pdf":
		return ContentTypePDF
	}
	return ""
}

// Normalize strips parameters and case from a media type.
// "Text/Plain; charset=utf-8" becomes "text/plain".
func Normalize(contentType string) string {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		if i := strings.IndexByte(contentType, ';'); i >= 0 {
			contentType = contentType[:i]
		}
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}
