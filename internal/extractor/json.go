package extractor

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/amara-obi/docpipe/internal/common"
	"github.com/amara-obi/docpipe/internal/document"
)

// JSONExtractor parses and re-serializes with stable two-space indentation
// so downstream consumers see one canonical rendering.
type JSONExtractor struct{}

func (JSONExtractor) Extract(_ context.Context, doc document.Document) (document.ExtractionResult, error) {
	var data any
	if err := json.Unmarshal(doc.Data, &data); err != nil {
		return document.ExtractionResult{}, common.NewExtractionError(
			common.KindParseFailure, "invalid json", err)
	}

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return document.ExtractionResult{}, common.NewExtractionError(
			common.KindParseFailure, "could not re-serialize json", err)
	}

	res := document.ExtractionResult{Content: string(out)}
	if obj, ok := data.(map[string]any); ok {
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		res.SetMeta("keys", keys)
	}
	return res, nil
}
