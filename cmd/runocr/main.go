package main

import (
	"bytes"
	"context"
	"image"
	"log/slog"
	"os"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/amara-obi/docpipe/internal/common"
	"github.com/amara-obi/docpipe/internal/extractor"
	"github.com/amara-obi/docpipe/internal/ocr"
)

// runocr preprocesses a single image and prints the engine's best read.
// Debugging tool for tuning OCR behavior outside a full batch.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "runocr <image-path>")
		os.Exit(2)
	}
	path := os.Args[1]

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read image", "path", path, "error", err)
		os.Exit(1)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		logger.Error("decode image", "path", path, "error", err)
		os.Exit(1)
	}

	cfg := common.LoadConfig()
	engine := ocr.NewEngine(ocr.Config{
		Tesseract:      cfg.OCR.Tesseract,
		Language:       cfg.OCR.Language,
		TessdataDir:    cfg.OCR.TessdataDir,
		AttemptTimeout: cfg.OCR.AttemptTimeout,
	}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()
	text, conf, err := extractor.RecognizeImage(ctx, engine, img)
	if err != nil {
		logger.Error("ocr failed", "path", path, "error", err,
			"duration_ms", time.Since(start).Milliseconds())
		os.Exit(1)
	}

	logger.Info("ocr ok",
		"path", path,
		"confidence", conf,
		"chars", len(text),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if _, err := os.Stdout.WriteString(text + "\n"); err != nil {
		os.Exit(1)
	}
}
