// Package document turns uploaded project documents into plain text for
// structured extraction.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/alexanderramin/apo/internal/domain"
	"github.com/ledongthuc/pdf"
)

var (
	ErrUnsupportedDocument = fmt.Errorf("%w: unsupported document format", domain.ErrValidation)
	ErrEmptyDocument       = fmt.Errorf("%w: document contains no text", domain.ErrValidation)
)

var pdfMagic = []byte("%PDF-")

var textExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".csv":  true,
	".json": true,
}

// Extract returns the plain text of a document. PDFs are detected by
// content, text formats by extension or by being clean UTF-8.
func Extract(name string, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch {
	case bytes.HasPrefix(data, pdfMagic):
		text, err = extractPDF(data)
		if err != nil {
			return "", err
		}
	case textExtensions[strings.ToLower(filepath.Ext(name))] || isPlainText(data):
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: %s is not valid UTF-8", ErrUnsupportedDocument, name)
		}
		text = string(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedDocument, name)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}

func extractPDF(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: malformed pdf: %v", ErrUnsupportedDocument, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: reading pdf: %v", ErrUnsupportedDocument, err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: extracting pdf text: %v", ErrUnsupportedDocument, err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("%w: extracting pdf text: %v", ErrUnsupportedDocument, err)
	}
	return buf.String(), nil
}

func isPlainText(data []byte) bool {
	return len(data) > 0 && utf8.Valid(data) && !bytes.ContainsRune(data, 0)
}

// Truncate limits text to max characters, never splitting a rune.
// A non-positive max disables truncation.
func Truncate(text string, max int) string {
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}
	n := 0
	for i := range text {
		if n == max {
			return text[:i]
		}
		n++
	}
	return text
}

// IsUnsupported reports whether err came from an unreadable document.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupportedDocument)
}
