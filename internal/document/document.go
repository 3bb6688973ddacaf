// Package document defines the types that flow through the ingestion
// pipeline: an input Document, the per-file ExtractionResult, and the
// aggregated Corpus handed to the downstream generation collaborator.
package document

import (
	"path/filepath"

	"github.com/google/uuid"

	"github.com/amara-obi/docpipe/constants"
	"github.com/amara-obi/docpipe/internal/common"
)

// Document is a single input file. Immutable once read.
type Document struct {
	Name   string
	Path   string
	Format string // constants format tag derived from the extension
	Data   []byte
}

// New builds a Document from a file name, its source path, and raw bytes.
func New(name, path string, data []byte) Document {
	return Document{
		Name:   name,
		Path:   path,
		Format: constants.MapExtToFormat(filepath.Ext(name)),
		Data:   data,
	}
}

// ExtractionResult is the uniform outcome of one extraction attempt.
// Content is always defined (empty on failure, never absent). Err is set if
// and only if extraction could not produce meaningful content.
type ExtractionResult struct {
	Content   string
	Tables    []string
	ImageText []string
	Metadata  map[string]any
	Err       *common.ExtractionError
}

// SetMeta records a format-specific fact, allocating the map on first use.
func (r *ExtractionResult) SetMeta(key string, value any) {
	if r.Metadata == nil {
		r.Metadata = make(map[string]any)
	}
	r.Metadata[key] = value
}

// Meta returns a metadata value, or nil when absent.
func (r *ExtractionResult) Meta(key string) any {
	if r.Metadata == nil {
		return nil
	}
	return r.Metadata[key]
}

// Failure builds an error-bearing result with defined, empty content.
func Failure(err *common.ExtractionError) ExtractionResult {
	return ExtractionResult{Err: err}
}

// FileResult pairs a file identifier with its extraction result.
type FileResult struct {
	Name   string
	Result ExtractionResult
}

// Corpus is the ordered outcome of one batch: every per-file result plus the
// concatenated provenance-tagged text. Read-only after aggregation.
type Corpus struct {
	ID      uuid.UUID
	Entries []FileResult
	Text    string
}
