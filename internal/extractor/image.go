package extractor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"

	_ "image/jpeg" // jpg/jpeg decode support

	"github.com/amara-obi/docpipe/internal/common"
	"github.com/amara-obi/docpipe/internal/document"
	"github.com/amara-obi/docpipe/internal/imaging"
)

// ImageExtractor OCRs a standalone raster image through the full
// preprocess -> multi-config recognition -> cleanup stack.
type ImageExtractor struct {
	OCR    TextRecognizer
	Logger *slog.Logger
}

func (x *ImageExtractor) Extract(ctx context.Context, doc document.Document) (document.ExtractionResult, error) {
	img, _, err := image.Decode(bytes.NewReader(doc.Data))
	if err != nil {
		return document.ExtractionResult{}, common.NewExtractionError(
			common.KindParseFailure, "could not load image", err)
	}

	var res document.ExtractionResult
	res.SetMeta("image_width", img.Bounds().Dx())
	res.SetMeta("image_height", img.Bounds().Dy())

	text, conf, err := RecognizeImage(ctx, x.OCR, img)
	if err != nil {
		res.SetMeta("ocr_confidence", 0.0)
		return res, common.NewExtractionError(common.KindOCRFailure, "ocr produced no text", err)
	}

	res.Content = text
	res.SetMeta("ocr_confidence", conf)
	res.SetMeta("ocr_method", "multi-config")
	return res, nil
}

// RecognizeImage preprocesses the image, hands it to the recognizer via a
// scoped temp file, and returns the recognized text and confidence. The
// temp file is removed on every path.
func RecognizeImage(ctx context.Context, rec TextRecognizer, img image.Image) (string, float64, error) {
	bin := imaging.Preprocess(img)

	tmp, err := os.CreateTemp("", "docpipe-ocr-*.png")
	if err != nil {
		return "", 0, fmt.Errorf("create ocr temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if err := png.Encode(tmp, bin); err != nil {
		_ = tmp.Close()
		return "", 0, fmt.Errorf("encode preprocessed image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", 0, fmt.Errorf("close ocr temp file: %w", err)
	}

	return rec.Recognize(ctx, tmpPath)
}
