// Package extractor turns heterogeneous input documents into uniform
// extraction results: one Extractor per supported format, a Dispatcher that
// routes by extension and isolates failures, an archive Expander, and the
// corpus Aggregator.
package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/amara-obi/docpipe/constants"
	"github.com/amara-obi/docpipe/internal/common"
	"github.com/amara-obi/docpipe/internal/document"
)

// Extractor is the per-format strategy: bytes in, uniform result out.
// Implementations return a Go error when no meaningful content could be
// produced; the Dispatcher converts it into the result's typed error.
type Extractor interface {
	Extract(ctx context.Context, doc document.Document) (document.ExtractionResult, error)
}

// TextRecognizer is the OCR capability the image-bearing extractors depend
// on. Satisfied by *ocr.Engine.
type TextRecognizer interface {
	Recognize(ctx context.Context, imagePath string) (text string, confidence float64, err error)
}

// Dispatcher routes a document to the extractor registered for its lowercase
// extension. It is the sole failure-isolation boundary: nothing escapes
// Process as a panic or Go error, so one corrupt file cannot abort a batch.
type Dispatcher struct {
	extractors map[string]Extractor
	logger     *slog.Logger
}

// NewDispatcher builds the registry of all supported formats. The recognizer
// backs the image extractor and docx embedded-image OCR.
func NewDispatcher(rec TextRecognizer, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{extractors: make(map[string]Extractor), logger: logger}

	img := &ImageExtractor{OCR: rec, Logger: logger}
	d.Register("docx", &DocxExtractor{OCR: rec, Logger: logger})
	d.Register("pdf", &PDFExtractor{})
	d.Register("xlsx", &XLSXExtractor{})
	d.Register("png", img)
	d.Register("jpg", img)
	d.Register("jpeg", img)
	d.Register("txt", &TextExtractor{})
	d.Register("eml", &EmailExtractor{})
	d.Register("json", &JSONExtractor{})
	d.Register("xml", &XMLExtractor{})
	d.Register("csv", &CSVExtractor{})
	return d
}

// Register binds an extractor to a normalized extension.
func (d *Dispatcher) Register(ext string, ex Extractor) {
	d.extractors[constants.NormalizeExt(ext)] = ex
}

// Supports reports whether an extractor is registered for the extension.
func (d *Dispatcher) Supports(ext string) bool {
	_, ok := d.extractors[constants.NormalizeExt(ext)]
	return ok
}

// Process extracts the document's content. It never panics and never
// returns an undefined result: on any failure the result carries empty
// content and a typed error.
func (d *Dispatcher) Process(ctx context.Context, doc document.Document) (res document.ExtractionResult) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("dispatch.panic", "file", doc.Name, "panic", r)
			res = document.Failure(common.NewExtractionError(
				common.KindParseFailure, fmt.Sprintf("extractor panic: %v", r), nil))
			d.annotate(&res, doc)
		}
	}()

	ext := constants.NormalizeExt(filepath.Ext(doc.Name))
	ex, ok := d.extractors[ext]
	if !ok {
		res = document.Failure(common.NewExtractionError(
			common.KindUnsupportedFormat, fmt.Sprintf("unsupported file format: %q", ext), nil))
		d.annotate(&res, doc)
		return res
	}

	d.logger.Info("dispatch.file", "file", doc.Name, "format", doc.Format)
	res, err := ex.Extract(ctx, doc)
	if err != nil {
		d.logger.Error("dispatch.extract.failed", "file", doc.Name, "error", err)
		res.Content = ""
		res.Err = common.AsExtractionError(err, common.KindParseFailure)
	}
	d.annotate(&res, doc)
	return res
}

func (d *Dispatcher) annotate(res *document.ExtractionResult, doc document.Document) {
	res.SetMeta("file_name", doc.Name)
	res.SetMeta("file_type", doc.Format)
	res.SetMeta("file_path", doc.Path)
}
