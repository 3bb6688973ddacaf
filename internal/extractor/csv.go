package extractor

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"

	"github.com/amara-obi/docpipe/internal/common"
	"github.com/amara-obi/docpipe/internal/document"
)

// CSVExtractor renders the file as a fixed-width text table, header row
// included, with every column padded to its widest cell.
type CSVExtractor struct{}

func (CSVExtractor) Extract(_ context.Context, doc document.Document) (document.ExtractionResult, error) {
	r := csv.NewReader(bytes.NewReader(doc.Data))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return document.ExtractionResult{}, common.NewExtractionError(
			common.KindParseFailure, "invalid csv", err)
	}
	if len(rows) == 0 {
		return document.ExtractionResult{}, common.NewExtractionError(
			common.KindParseFailure, "empty csv", nil)
	}

	res := document.ExtractionResult{Content: renderFixedWidth(rows)}
	res.SetMeta("columns", append([]string(nil), rows[0]...))
	res.SetMeta("row_count", len(rows)-1)
	res.SetMeta("column_count", len(rows[0]))
	return res, nil
}

func renderFixedWidth(rows [][]string) string {
	widths := make([]int, 0)
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	for ri, row := range rows {
		if ri > 0 {
			b.WriteString("\n")
		}
		for i, cell := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(cell)
			if i < len(row)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-len(cell)))
			}
		}
	}
	return b.String()
}
