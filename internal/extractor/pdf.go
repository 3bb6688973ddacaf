package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/amara-obi/docpipe/internal/common"
	"github.com/amara-obi/docpipe/internal/document"
)

// PDFExtractor reads the native text layer page by page. Pages with no
// extractable text get a placeholder marker instead of being rasterized and
// OCR'd; see DESIGN.md for the decision to keep that stub.
type PDFExtractor struct{}

func (PDFExtractor) Extract(_ context.Context, doc document.Document) (document.ExtractionResult, error) {
	reader, err := newPDFReader(doc.Data)
	if err != nil {
		return document.ExtractionResult{}, common.NewExtractionError(
			common.KindParseFailure, "could not open pdf", err)
	}

	pages := pageCount(reader)
	if pages <= 0 {
		return document.ExtractionResult{}, common.NewExtractionError(
			common.KindParseFailure, "pdf has no pages", nil)
	}

	sections := make([]string, 0, pages)
	for i := 1; i <= pages; i++ {
		text := strings.TrimSpace(pageText(reader, i))
		if text != "" {
			sections = append(sections, fmt.Sprintf("Page %d:\n%s", i, text))
		} else {
			sections = append(sections, fmt.Sprintf("Page %d: [OCR processing needed]", i))
		}
	}

	res := document.ExtractionResult{Content: strings.Join(sections, "\n\n")}
	res.SetMeta("total_pages", pages)
	return res, nil
}

// The pdf library can panic on malformed files, so every call into it is
// guarded and degrades to "no text".

func newPDFReader(data []byte) (r *pdf.Reader, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("pdf reader panic: %v", p)
		}
	}()
	return pdf.NewReader(bytes.NewReader(data), int64(len(data)))
}

func pageCount(r *pdf.Reader) (n int) {
	defer func() { _ = recover() }()
	return r.NumPage()
}

func pageText(r *pdf.Reader, page int) (text string) {
	defer func() { _ = recover() }()
	p := r.Page(page)
	if p.V.IsNull() {
		return ""
	}
	var b strings.Builder
	content := p.Content()
	for _, item := range content.Text {
		b.WriteString(item.S)
		b.WriteString(" ")
	}
	return b.String()
}
