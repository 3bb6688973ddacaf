package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/amara-obi/docpipe/internal/common"
	"github.com/amara-obi/docpipe/internal/document"
	"github.com/amara-obi/docpipe/internal/extractor"
	"github.com/amara-obi/docpipe/internal/ocr"
	"github.com/amara-obi/docpipe/internal/pipeline"
	"github.com/amara-obi/docpipe/internal/store"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir      = flag.String("dir", "", "directory to ingest (walked recursively)")
		files    = flag.String("files", "", "comma-separated list of files to ingest")
		manifest = flag.String("manifest", "", "JSON batch manifest path")
		out      = flag.String("out", "corpus.txt", "corpus output path")
		dbPath   = flag.String("db", "", "SQLite path for batch persistence (overrides DOCPIPE_DB)")
		cfgPath  = flag.String("config", "", "YAML config file path")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if *cfgPath != "" {
		if err := cfg.ApplyFile(*cfgPath); err != nil {
			printError("Error: %v\n", err)
			os.Exit(1)
		}
	}
	if *dbPath != "" {
		cfg.Store.Path = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	var paths []string
	switch {
	case *manifest != "":
		m, err := pipeline.LoadManifest(*manifest)
		if err != nil {
			printError("Error: %v\n", err)
			os.Exit(1)
		}
		paths = m.Files
		if m.Output != "" && *out == "corpus.txt" {
			*out = m.Output
		}
	case *files != "":
		for _, f := range strings.Split(*files, ",") {
			if f = strings.TrimSpace(f); f != "" {
				paths = append(paths, f)
			}
		}
	case *dir != "":
		// handled below via ProcessDirectory
	default:
		printError("Error: one of --dir, --files or --manifest is required\n")
		os.Exit(1)
	}

	engine := ocr.NewEngine(ocr.Config{
		Tesseract:      cfg.OCR.Tesseract,
		Language:       cfg.OCR.Language,
		TessdataDir:    cfg.OCR.TessdataDir,
		AttemptTimeout: cfg.OCR.AttemptTimeout,
	}, logger)

	dispatcher := extractor.NewDispatcher(engine, logger)
	expander := extractor.NewExpander(dispatcher, logger)

	var persister pipeline.Persister
	if cfg.Store.Path != "" {
		st, err := store.Open(cfg.Store.Path, logger)
		if err != nil {
			logger.Error("open store", "error", err)
			os.Exit(1)
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logger.Error("close store", "error", cerr)
			}
		}()
		persister = st
	}

	proc := pipeline.NewProcessor(dispatcher, expander, persister, logger)

	ctx := context.Background()
	var (
		corpus *document.Corpus
		stats  pipeline.Stats
		err    error
	)
	if *dir != "" {
		corpus, stats, err = proc.ProcessDirectory(ctx, *dir)
	} else {
		corpus, stats, err = proc.ProcessBatch(ctx, paths)
	}
	if err != nil {
		logger.Error("batch finished with error", "error", err)
	}
	if corpus == nil {
		os.Exit(1)
	}

	if werr := os.WriteFile(*out, []byte(corpus.Text), 0o644); werr != nil {
		logger.Error("write corpus", "path", *out, "error", werr)
		os.Exit(1)
	}

	logger.Info("corpus written",
		"batch_id", corpus.ID,
		"path", *out,
		"files", stats.Scanned,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
		"bytes", len(corpus.Text),
	)

	for _, e := range corpus.Entries {
		if e.Result.Err != nil {
			printError("warning: %s: %s\n", e.Name, e.Result.Err.Error())
		}
	}
}
