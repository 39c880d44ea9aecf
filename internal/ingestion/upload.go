package ingestion

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// MaxUploadBytes is the largest resume upload accepted.
const MaxUploadBytes = 5 << 20

// Upload formats.
const (
	FormatText = "text"
	FormatHTML = "html"
)

// ErrUnsupportedFormat is returned for uploads that cannot be read as text or HTML.
var ErrUnsupportedFormat = errors.New("unsupported resume format")

// ErrTooLarge is returned when an upload exceeds MaxUploadBytes.
var ErrTooLarge = fmt.Errorf("resume upload exceeds %d bytes", MaxUploadBytes)

// DetectFormat picks a parser from the file extension, falling back to the content type
// and finally to sniffing the payload.
func DetectFormat(fileName, contentType string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".txt", ".text", ".md", ".markdown":
		return FormatText, nil
	case ".html", ".htm", ".xhtml":
		return FormatHTML, nil
	case ".pdf", ".doc", ".docx", ".odt", ".rtf", ".pages":
		return "", fmt.Errorf("%w: %s files must be exported or pasted as text", ErrUnsupportedFormat, filepath.Ext(fileName))
	}

	ct := strings.ToLower(contentType)
	switch {
	case strings.HasPrefix(ct, "text/html"), strings.HasPrefix(ct, "application/xhtml"):
		return FormatHTML, nil
	case strings.HasPrefix(ct, "text/"):
		return FormatText, nil
	}

	head := bytes.ToLower(bytes.TrimSpace(data[:min(len(data), 512)]))
	if bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html")) {
		return FormatHTML, nil
	}
	if utf8.Valid(data) {
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: binary content", ErrUnsupportedFormat)
}

// ExtractUpload converts an uploaded resume file into cleaned plain text.
func ExtractUpload(fileName, contentType string, data []byte) (string, *Metadata, error) {
	if len(data) > MaxUploadBytes {
		return "", nil, ErrTooLarge
	}

	format, err := DetectFormat(fileName, contentType, data)
	if err != nil {
		return "", nil, err
	}

	var text string
	switch format {
	case FormatHTML:
		text, err = ExtractHTMLText(string(data))
		if err != nil {
			return "", nil, err
		}
	default:
		if !utf8.Valid(data) {
			return "", nil, fmt.Errorf("%w: text is not valid UTF-8", ErrUnsupportedFormat)
		}
		text = CleanText(string(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	}

	return text, NewMetadata(text, filepath.Base(fileName), format, len(data)), nil
}
