// Package pipeline orchestrates sequential batch ingestion: read each file,
// route it through the dispatcher (or archive expander), aggregate the
// ordered results into a corpus, and optionally persist the batch.
package pipeline

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/amara-obi/docpipe/constants"
	"github.com/amara-obi/docpipe/internal/common"
	"github.com/amara-obi/docpipe/internal/document"
	"github.com/amara-obi/docpipe/internal/extractor"
)

// Stats summarizes a batch.
type Stats struct {
	Scanned   uint32
	Succeeded uint32
	Failed    uint32
}

// Persister stores a finished batch. Satisfied by *store.Store.
type Persister interface {
	SaveBatch(ctx context.Context, corpus *document.Corpus) error
}

// Processor runs batches. Files are processed strictly in sequence; a
// failure in one file never blocks processing of subsequent files.
type Processor struct {
	Dispatcher *extractor.Dispatcher
	Expander   *extractor.Expander
	Store      Persister // optional
	Logger     *slog.Logger
}

func NewProcessor(d *extractor.Dispatcher, e *extractor.Expander, st Persister, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Dispatcher: d, Expander: e, Store: st, Logger: logger}
}

// ProcessBatch ingests the given paths in order and returns the aggregated
// corpus. Corpus entries appear in submission order; archive contents appear
// at the archive's position, in walk order. The returned error reports
// persistence failure only — per-file failures are carried on the entries.
func (p *Processor) ProcessBatch(ctx context.Context, paths []string) (*document.Corpus, Stats, error) {
	batchID := uuid.New()
	var entries []document.FileResult
	var stats Stats

	for _, path := range paths {
		stats.Scanned++
		name := filepath.Base(path)

		data, err := os.ReadFile(path)
		if err != nil {
			p.Logger.Error("batch.file.read.failed", "batch_id", batchID, "file", name, "error", err)
			entries = append(entries, document.FileResult{
				Name: name,
				Result: document.Failure(common.NewExtractionError(
					common.KindParseFailure, "could not read file", err)),
			})
			stats.Failed++
			continue
		}

		doc := document.New(name, path, data)
		if doc.Format == constants.ARCHIVE {
			children, err := p.Expander.Expand(ctx, doc)
			entries = append(entries, children...)
			for _, c := range children {
				p.countEntry(c, &stats)
			}
			if err != nil {
				p.Logger.Error("batch.archive.failed", "batch_id", batchID, "file", name, "error", err)
				entries = append(entries, document.FileResult{
					Name:   name,
					Result: document.Failure(common.AsExtractionError(err, common.KindArchiveCorrupt)),
				})
				stats.Failed++
			}
			continue
		}

		res := p.Dispatcher.Process(ctx, doc)
		entry := document.FileResult{Name: doc.Name, Result: res}
		entries = append(entries, entry)
		p.countEntry(entry, &stats)
	}

	corpus := &document.Corpus{
		ID:      batchID,
		Entries: entries,
		Text:    extractor.Aggregate(entries),
	}
	p.Logger.Info("batch.done",
		"batch_id", batchID,
		"scanned", stats.Scanned,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
		"corpus_bytes", len(corpus.Text),
	)

	if p.Store != nil {
		if err := p.Store.SaveBatch(ctx, corpus); err != nil {
			p.Logger.Error("batch.persist.failed", "batch_id", batchID, "error", err)
			return corpus, stats, common.WrapError(err, "persist batch")
		}
	}
	return corpus, stats, nil
}

func (p *Processor) countEntry(e document.FileResult, stats *Stats) {
	if e.Result.Err != nil {
		p.Logger.Warn("batch.file.failed",
			"file", e.Name, "kind", e.Result.Err.Kind, "error", e.Result.Err.Message)
		stats.Failed++
		return
	}
	stats.Succeeded++
}

// ProcessDirectory walks root and batches every supported file (archives
// included), skipping hidden entries. Walk order determines batch order.
func (p *Processor) ProcessDirectory(ctx context.Context, root string) (*document.Corpus, Stats, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if isHidden(d.Name()) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		ext := constants.NormalizeExt(filepath.Ext(path))
		if p.Dispatcher.Supports(ext) || constants.MapExtToFormat(ext) == constants.ARCHIVE {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, Stats{}, common.WrapError(err, "walk directory")
	}
	return p.ProcessBatch(ctx, paths)
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
