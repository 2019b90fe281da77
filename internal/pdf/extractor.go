// Package pdf decodes uploaded documents into ordered per-page plain text.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrUnreadableDocument marks byte streams that cannot be parsed as a PDF.
var ErrUnreadableDocument = errors.New("unreadable document")

// Page is one extracted page. Index starts at 1 and matches the source page
// number used for attribution; Text may be empty for image-only pages.
type Page struct {
	Index int
	Text  string
}

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

var spaceRun = regexp.MustCompile(`[ \t]+`)

// ExtractPages returns every page of the document in order. Pages whose text
// is empty are kept as empty strings so indices stay aligned with source page
// numbers. Whitespace runs are collapsed within each page.
func (e *Extractor) ExtractPages(raw []byte) ([]Page, error) {
	reader := bytes.NewReader(raw)
	doc, err := pdf.NewReader(reader, reader.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}

	pages := make([]Page, 0, doc.NumPage())
	for i := 1; i <= doc.NumPage(); i++ {
		p := doc.Page(i)
		text := ""
		if !p.V.IsNull() {
			// A page that fails text extraction is kept as empty rather
			// than dropped, preserving index alignment.
			if t, err := p.GetPlainText(nil); err == nil {
				text = t
			}
		}
		pages = append(pages, Page{Index: i, Text: CollapseWhitespace(text)})
	}
	return pages, nil
}

// CollapseWhitespace squashes runs of spaces and tabs to single spaces and
// trims the ends. Newlines are kept so paragraph structure survives.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// HasText reports whether any page carries extractable text.
func HasText(pages []Page) bool {
	for _, p := range pages {
		if strings.TrimSpace(p.Text) != "" {
			return true
		}
	}
	return false
}
