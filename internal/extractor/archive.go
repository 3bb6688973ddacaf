package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/amara-obi/docpipe/internal/common"
	"github.com/amara-obi/docpipe/internal/document"
)

// Expander unpacks a zip archive into a scratch directory and re-submits
// every contained file with a registered extension to the dispatcher.
// The scratch directory is released unconditionally, including on error.
type Expander struct {
	Dispatcher *Dispatcher
	Logger     *slog.Logger
}

func NewExpander(d *Dispatcher, logger *slog.Logger) *Expander {
	if logger == nil {
		logger = slog.Default()
	}
	return &Expander{Dispatcher: d, Logger: logger}
}

// Expand returns one result per contained supported file, in walk order.
// Walk order is filesystem-dependent; callers must not rely on a stable
// archive-content order.
func (e *Expander) Expand(ctx context.Context, doc document.Document) ([]document.FileResult, error) {
	zr, err := zip.NewReader(bytes.NewReader(doc.Data), int64(len(doc.Data)))
	if err != nil {
		return nil, common.NewExtractionError(common.KindArchiveCorrupt, "could not open archive", err)
	}

	tmpDir, err := os.MkdirTemp("", "docpipe-zip-*")
	if err != nil {
		return nil, common.WrapError(err, "create archive scratch dir")
	}
	defer func() {
		if rerr := os.RemoveAll(tmpDir); rerr != nil {
			e.Logger.Warn("archive.scratch.cleanup.failed", "dir", tmpDir, "error", rerr)
		}
	}()

	if err := e.unpack(zr, tmpDir); err != nil {
		return nil, common.NewExtractionError(common.KindArchiveCorrupt, "could not extract archive", err)
	}

	var results []document.FileResult
	walkErr := filepath.WalkDir(tmpDir, func(path string, d fs.DirEntry, werr error) error {
		if werr != nil || d.IsDir() {
			return werr
		}
		if !e.Dispatcher.Supports(filepath.Ext(path)) {
			e.Logger.Debug("archive.entry.skipped", "entry", d.Name())
			return nil
		}
		data, rerr := os.ReadFile(path)
		if rerr != nil {
			return rerr
		}
		child := document.New(d.Name(), path, data)
		res := e.Dispatcher.Process(ctx, child)
		results = append(results, document.FileResult{Name: child.Name, Result: res})
		return nil
	})
	if walkErr != nil {
		return results, common.NewExtractionError(common.KindArchiveCorrupt, "archive walk failed", walkErr)
	}
	return results, nil
}

// unpack writes every archive entry under dir, refusing entries whose
// cleaned path would escape it.
func (e *Expander) unpack(zr *zip.Reader, dir string) error {
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		dest := filepath.Join(dir, filepath.Clean(filepath.FromSlash(f.Name)))
		if !strings.HasPrefix(dest, dir+string(os.PathSeparator)) {
			e.Logger.Warn("archive.entry.unsafe_path", "entry", f.Name)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
		if err := copyZipEntry(f, dest); err != nil {
			return err
		}
	}
	return nil
}

func copyZipEntry(f *zip.File, dest string) error {
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
