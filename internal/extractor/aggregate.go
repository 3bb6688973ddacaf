package extractor

import (
	"fmt"
	"strings"

	"github.com/amara-obi/docpipe/internal/document"
)

// Aggregate merges ordered per-file results into one provenance-tagged
// corpus string. Files with empty content contribute no content block;
// errored entries stay visible to the caller through the original result
// list for reporting, but never appear in the corpus.
func Aggregate(entries []document.FileResult) string {
	var blocks []string
	for _, e := range entries {
		if e.Result.Content != "" {
			blocks = append(blocks, fmt.Sprintf("--- Content from %s ---\n%s", e.Name, e.Result.Content))
		}
		if len(e.Result.Tables) > 0 {
			blocks = append(blocks, "Tables:\n"+strings.Join(e.Result.Tables, "\n"))
		}
		if len(e.Result.ImageText) > 0 {
			blocks = append(blocks, "Image Text:\n"+strings.Join(e.Result.ImageText, "\n"))
		}
	}
	return strings.Join(blocks, "\n\n")
}
