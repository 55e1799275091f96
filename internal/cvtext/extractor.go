// Package cvtext turns uploaded CV files into plain text for matching.
package cvtext

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/charmap"
)

var ErrUnsupportedFormat = errors.New("only .txt, .pdf, .doc, .docx files are allowed")

var allowed = map[string]bool{".txt": true, ".pdf": true, ".doc": true, ".docx": true}

// Result is the extracted text. Placeholder is set when the content could
// not be parsed and Text is only a description of the file.
type Result struct {
	Text        string
	Placeholder bool
}

type Extractor struct{}

func NewExtractor() *Extractor { return &Extractor{} }

func Supported(filename string) bool {
	return allowed[strings.ToLower(filepath.Ext(filename))]
}

func (e *Extractor) Extract(filename string, data []byte) (Result, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowed[ext] {
		return Result{}, ErrUnsupportedFormat
	}

	switch ext {
	case ".txt":
		return Result{Text: decodeText(data)}, nil
	case ".pdf":
		if text, err := pdfText(data); err == nil {
			return Result{Text: text}, nil
		}
	}
	return Result{Text: Placeholder(filename, len(data)), Placeholder: true}, nil
}

// Placeholder is the stand-in stored for files whose text is unavailable.
// The matching engine recognises it and switches to title-only scoring.
func Placeholder(filename string, size int) string {
	return fmt.Sprintf("Binary file: %s\nFile size: %d bytes\nText extraction is not available for this file; upload a .txt or text-based .pdf for full matching.", filename, size)
}

func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "")
	}
	return string(out)
}

func pdfText(data []byte) (text string, err error) {
	// the parser panics on some malformed xref tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		t, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(t)
		b.WriteString("\n\n")
	}

	text = cleanLines(b.String())
	if text == "" {
		return "", errors.New("no text content found in pdf")
	}
	return text, nil
}

func cleanLines(text string) string {
	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
