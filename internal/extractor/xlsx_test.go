package extractor

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/amara-obi/docpipe/internal/document"
)

func buildWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Invoice"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "Amount"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "INV-001"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 125.5))

	_, err := f.NewSheet("Rates")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Rates", "A1", "EUR"))
	require.NoError(t, f.SetCellValue("Rates", "B1", "1.08"))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())
	return buf.Bytes()
}

func TestXLSXFlattensSheetsInOrder(t *testing.T) {
	doc := document.New("book.xlsx", "", buildWorkbook(t))

	res, err := XLSXExtractor{}.Extract(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, "Invoice | Amount\nINV-001 | 125.5\nEUR | 1.08", res.Content)
	assert.Equal(t, []string{"Sheet1", "Rates"}, res.Meta("sheet_names"))
	assert.Equal(t, 2, res.Meta("total_sheets"))
}

func TestXLSXRejectsNonWorkbook(t *testing.T) {
	_, err := XLSXExtractor{}.Extract(context.Background(), document.New("book.xlsx", "", []byte("nope")))
	require.Error(t, err)
}
