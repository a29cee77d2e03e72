package ingestion

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Source kinds recorded on chunks as provenance tags.
const (
	KindText     = "text"
	KindMarkdown = "markdown"
)

// ExtractText turns an uploaded file into plain text plus a provenance kind.
// Only UTF-8 text and markdown are handled here; binary formats (PDF and
// friends) must be converted by the caller's extraction service before upload.
func ExtractText(filename, mimeType string, data []byte) (string, string, error) {
	if len(data) == 0 {
		return "", "", fmt.Errorf("empty file")
	}
	if bytes.IndexByte(data, 0x00) >= 0 || !utf8.Valid(data) {
		return "", "", fmt.Errorf("unsupported file format: expected UTF-8 text, got binary content")
	}

	kind := KindText
	name := strings.ToLower(strings.TrimSpace(filename))
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".markdown") || mt == "text/markdown" {
		kind = KindMarkdown
	}

	return string(data), kind, nil
}
