package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amara-obi/docpipe/internal/document"
)

const docxBody = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>
    <w:p><w:r><w:t>   </w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph</w:t></w:r></w:p>
    <w:tbl>
      <w:tr>
        <w:tc><w:p><w:r><w:t>A</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>B</w:t></w:r></w:p></w:tc>
      </w:tr>
      <w:tr>
        <w:tc><w:p><w:r><w:t>C</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>D</w:t></w:r></w:p></w:tc>
      </w:tr>
      <w:tr>
        <w:tc><w:p><w:r><w:t></w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>  </w:t></w:r></w:p></w:tc>
      </w:tr>
    </w:tbl>
  </w:body>
</w:document>`

func buildDocx(t *testing.T, body string, media map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(body))
	require.NoError(t, err)
	for name, data := range media {
		mw, err := zw.Create(name)
		require.NoError(t, err)
		_, err = mw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDocxParagraphsAndTables(t *testing.T) {
	x := &DocxExtractor{}
	doc := document.New("report.docx", "", buildDocx(t, docxBody, nil))

	res, err := x.Extract(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, "First paragraph\nSecond paragraph", res.Content)
	assert.Equal(t, []string{"A | B", "C | D"}, res.Tables)
	assert.Equal(t, 2, res.Meta("total_paragraphs"))
	assert.Equal(t, 1, res.Meta("total_tables"))
	assert.Empty(t, res.ImageText)
}

func TestDocxTableTextExcludedFromParagraphs(t *testing.T) {
	x := &DocxExtractor{}
	doc := document.New("report.docx", "", buildDocx(t, docxBody, nil))

	res, err := x.Extract(context.Background(), doc)
	require.NoError(t, err)
	assert.NotContains(t, res.Content, "A | B")
	assert.NotContains(t, res.Content, "A")
}

func TestDocxEmbeddedImagesRouteThroughOCR(t *testing.T) {
	rec := &fakeRecognizer{text: "Beneficiary: ACME Corp", conf: 88}
	x := &DocxExtractor{OCR: rec}
	media := map[string][]byte{"word/media/image1.png": pngBytes(t, 40, 40)}
	doc := document.New("report.docx", "", buildDocx(t, docxBody, media))

	res, err := x.Extract(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"Beneficiary: ACME Corp"}, res.ImageText)
	assert.Equal(t, 1, rec.calls)
}

func TestDocxEmbeddedImageFailureDegradesLocally(t *testing.T) {
	rec := &fakeRecognizer{text: "unused", conf: 10}
	x := &DocxExtractor{OCR: rec}
	media := map[string][]byte{"word/media/image1.png": []byte("not an image")}
	doc := document.New("report.docx", "", buildDocx(t, docxBody, media))

	res, err := x.Extract(context.Background(), doc)
	require.NoError(t, err)
	assert.Empty(t, res.ImageText)
	assert.Equal(t, "First paragraph\nSecond paragraph", res.Content)
}

func TestDocxNotAContainer(t *testing.T) {
	x := &DocxExtractor{}
	_, err := x.Extract(context.Background(), document.New("bad.docx", "", []byte("plain text")))
	require.Error(t, err)
}
