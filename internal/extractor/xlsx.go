package extractor

import (
	"bytes"
	"context"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/amara-obi/docpipe/internal/common"
	"github.com/amara-obi/docpipe/internal/document"
)

// XLSXExtractor flattens every sheet of a workbook into pipe-joined rows,
// concatenated in workbook order.
type XLSXExtractor struct{}

func (XLSXExtractor) Extract(_ context.Context, doc document.Document) (document.ExtractionResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(doc.Data))
	if err != nil {
		return document.ExtractionResult{}, common.NewExtractionError(
			common.KindParseFailure, "could not open workbook", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	var lines []string
	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return document.ExtractionResult{}, common.NewExtractionError(
				common.KindParseFailure, "could not read sheet "+sheet, err)
		}
		for _, row := range rows {
			if anyNonEmpty(row) {
				lines = append(lines, strings.Join(row, " | "))
			}
		}
	}

	res := document.ExtractionResult{Content: strings.Join(lines, "\n")}
	res.SetMeta("sheet_names", sheets)
	res.SetMeta("total_sheets", len(sheets))
	return res, nil
}
