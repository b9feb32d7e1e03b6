// Package resumetext pulls plain text out of uploaded resumes so they can be
// matched by keyword search.
package resumetext

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// ErrUnsupported is returned for formats without an extractor (legacy .doc).
var ErrUnsupported = errors.New("resumetext: unsupported format")

// MaxTextLength bounds the stored text.
const MaxTextLength = 100_000

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// Extract returns normalized plain text for a .pdf or .docx file.
func (e *Extractor) Extract(ext string, content []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch strings.ToLower(ext) {
	case ".pdf":
		text, err = extractPDF(content)
	case ".docx":
		text, err = extractDocx(content)
	default:
		return "", ErrUnsupported
	}
	if err != nil {
		return "", err
	}

	text = normalizeSpace(text)
	if len(text) > MaxTextLength {
		text = text[:MaxTextLength]
	}
	return text, nil
}

func extractPDF(content []byte) (text string, err error) {
	// malformed documents can panic inside the parser
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func extractDocx(content []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return stripWordXML(doc.Editable().GetContent()), nil
}

var (
	paragraphEnd = regexp.MustCompile(`</w:p>|<w:br/>|<w:tab/>`)
	xmlTag       = regexp.MustCompile(`<[^>]+>`)
	spaceRun     = regexp.MustCompile(`[ \t\r\f\v]+`)
	blankLines   = regexp.MustCompile(`\n\s*\n+`)
)

// stripWordXML turns WordprocessingML into text, one paragraph per line.
func stripWordXML(raw string) string {
	s := paragraphEnd.ReplaceAllString(raw, "\n")
	s = xmlTag.ReplaceAllString(s, "")
	return html.UnescapeString(s)
}

func normalizeSpace(s string) string {
	s = spaceRun.ReplaceAllString(s, " ")
	s = blankLines.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
