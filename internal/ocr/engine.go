// Package ocr drives an external tesseract binary over preprocessed images,
// trying several page-segmentation configurations and keeping the best read.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Config holds OCR engine settings.
type Config struct {
	Tesseract      string        // binary name or absolute path; if empty -> "tesseract"
	Language       string        // default "eng"
	TessdataDir    string        // optional --tessdata-dir value
	AttemptTimeout time.Duration // per-configuration wall clock bound; 0 = unbounded
}

// psModes is the fixed, ordered set of page-segmentation modes tried per
// image: mixed layout, single word, single line, sparse text, raw line.
// The engine mode stays at the default LSTM engine (--oem 3) throughout.
var psModes = []string{"6", "8", "7", "11", "13"}

// Attempt is one configuration's outcome. Confidence is the mean word-level
// confidence in [0,100] over tokens that reported a positive confidence.
type Attempt struct {
	Config     string
	Text       string
	Confidence float64
}

// Engine runs multi-configuration OCR over a single image file.
type Engine struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewEngine(cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	return &Engine{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// Recognize runs every configuration over the image at path and returns the
// cleaned text and confidence of the best attempt.
//
// Selection is conjunctive and order-dependent: the first successful
// configuration seeds the best attempt, and a later candidate replaces it
// only when its confidence is strictly higher AND its text is strictly
// longer. An error is returned only when every configuration fails.
func (e *Engine) Recognize(ctx context.Context, path string) (string, float64, error) {
	var best *Attempt
	var firstErr error

	for _, psm := range psModes {
		att, err := e.attempt(ctx, path, psm)
		if err != nil {
			e.logger.Warn("ocr.attempt.failed", "psm", psm, "path", path, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		e.logger.Debug("ocr.attempt.ok",
			"psm", psm, "confidence", att.Confidence, "chars", len(att.Text))
		if best == nil {
			a := att
			best = &a
			continue
		}
		if att.Confidence > best.Confidence && len(att.Text) > len(best.Text) {
			a := att
			best = &a
		}
	}

	if best == nil {
		return "", 0, fmt.Errorf("all ocr configurations failed: %w", firstErr)
	}
	return CleanText(best.Text), best.Confidence, nil
}

// attempt runs one page-segmentation mode: a TSV pass for word confidences,
// then a plain pass for the recognized text.
func (e *Engine) attempt(ctx context.Context, path, psm string) (Attempt, error) {
	if e.cfg.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.AttemptTimeout)
		defer cancel()
	}

	conf, err := e.tsvConfidence(ctx, path, psm)
	if err != nil {
		return Attempt{}, err
	}
	text, err := e.recognizeText(ctx, path, psm)
	if err != nil {
		return Attempt{}, err
	}
	return Attempt{
		Config:     "--oem 3 --psm " + psm,
		Text:       strings.TrimSpace(text),
		Confidence: conf,
	}, nil
}

func (e *Engine) baseArgs(path, psm string) []string {
	args := []string{path, "stdout", "-l", e.cfg.Language, "--oem", "3", "--psm", psm}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	return args
}

// recognizeText runs a whole-text recognition pass.
func (e *Engine) recognizeText(ctx context.Context, path, psm string) (string, error) {
	out, _, err := e.runner.Run(ctx, e.cfg.Tesseract, e.baseArgs(path, psm)...)
	if err != nil {
		return "", fmt.Errorf("tesseract psm %s: %w", psm, err)
	}
	return string(out), nil
}

// tsvConfidence runs tesseract in TSV mode and returns the mean word
// confidence in [0,100]. Tokens with no reported confidence (-1) or zero
// confidence are excluded, not treated as zero.
func (e *Engine) tsvConfidence(ctx context.Context, path, psm string) (float64, error) {
	args := append(e.baseArgs(path, psm), "tsv")
	out, _, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return 0, fmt.Errorf("tesseract TSV psm %s: %w", psm, err)
	}

	var sum float64
	var n int
	for i, ln := range strings.Split(string(out), "\n") {
		if i == 0 || ln == "" { // skip header
			continue
		}
		cols := strings.Split(ln, "\t")
		if len(cols) < 12 {
			continue
		}
		// conf is the second-to-last column; the last is the token text
		confStr := cols[len(cols)-2]
		v, err := strconv.ParseFloat(confStr, 64)
		if err != nil || v <= 0 {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}
