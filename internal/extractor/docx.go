package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"image"
	"io"
	"log/slog"
	"strings"

	"github.com/amara-obi/docpipe/internal/common"
	"github.com/amara-obi/docpipe/internal/document"
)

// DocxExtractor pulls paragraph text, tables, and embedded-image OCR text
// out of a word-processor document (a zip container around WordprocessingML).
type DocxExtractor struct {
	OCR    TextRecognizer
	Logger *slog.Logger
}

func (x *DocxExtractor) Extract(ctx context.Context, doc document.Document) (document.ExtractionResult, error) {
	zr, err := zip.NewReader(bytes.NewReader(doc.Data), int64(len(doc.Data)))
	if err != nil {
		return document.ExtractionResult{}, common.NewExtractionError(
			common.KindParseFailure, "not a docx container", err)
	}

	body, err := readZipFile(zr, "word/document.xml")
	if err != nil {
		return document.ExtractionResult{}, common.NewExtractionError(
			common.KindParseFailure, "missing word/document.xml", err)
	}

	paragraphs, tables, tableCount, err := parseDocumentXML(body)
	if err != nil {
		return document.ExtractionResult{}, common.NewExtractionError(
			common.KindParseFailure, "malformed document body", err)
	}

	res := document.ExtractionResult{
		Content: strings.Join(paragraphs, "\n"),
		Tables:  tables,
	}
	res.SetMeta("total_paragraphs", len(paragraphs))
	res.SetMeta("total_tables", tableCount)

	// Embedded images degrade locally: an unreadable or unrecognizable
	// image never fails the whole document.
	res.ImageText = x.embeddedImageText(ctx, zr, doc.Name)
	return res, nil
}

// embeddedImageText OCRs every image stored under the document's media
// relationships and returns the non-empty recognized texts in archive order.
func (x *DocxExtractor) embeddedImageText(ctx context.Context, zr *zip.Reader, docName string) []string {
	if x.OCR == nil {
		return nil
	}
	var texts []string
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, "word/media/") || f.FileInfo().IsDir() {
			continue
		}
		data, err := readZipFile(zr, f.Name)
		if err != nil {
			x.logWarn("docx.media.read.failed", docName, f.Name, err)
			continue
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			x.logWarn("docx.media.decode.failed", docName, f.Name, err)
			continue
		}
		text, _, err := RecognizeImage(ctx, x.OCR, img)
		if err != nil {
			x.logWarn("docx.media.ocr.failed", docName, f.Name, err)
			continue
		}
		if text != "" {
			texts = append(texts, text)
		}
	}
	return texts
}

func (x *DocxExtractor) logWarn(event, docName, member string, err error) {
	if x.Logger != nil {
		x.Logger.Warn(event, "file", docName, "member", member, "error", err)
	}
}

func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	f, err := zr.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}

// parseDocumentXML walks the WordprocessingML token stream in document
// order. Top-level paragraphs (outside any table) become content lines;
// table rows become " | "-joined cell strings, skipping fully empty rows.
func parseDocumentXML(data []byte) (paragraphs, tableRows []string, tableCount int, err error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		tblDepth int
		inPara   bool
		inText   bool
		para     strings.Builder
		cell     strings.Builder
		inCell   bool
		rowCells []string
	)

	for {
		tok, terr := dec.Token()
		if terr != nil {
			if errors.Is(terr, io.EOF) {
				break
			}
			return nil, nil, 0, terr
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tblDepth++
				if tblDepth == 1 {
					tableCount++
				}
			case "tr":
				if tblDepth > 0 {
					rowCells = rowCells[:0]
				}
			case "tc":
				if tblDepth > 0 {
					inCell = true
					cell.Reset()
				}
			case "p":
				if tblDepth == 0 {
					inPara = true
					para.Reset()
				}
			case "t":
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tbl":
				tblDepth--
			case "tr":
				if tblDepth > 0 && anyNonEmpty(rowCells) {
					tableRows = append(tableRows, strings.Join(rowCells, " | "))
				}
			case "tc":
				if inCell {
					rowCells = append(rowCells, strings.TrimSpace(cell.String()))
					inCell = false
				}
			case "p":
				if tblDepth == 0 && inPara {
					if s := strings.TrimSpace(para.String()); s != "" {
						paragraphs = append(paragraphs, s)
					}
					inPara = false
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if !inText {
				continue
			}
			if inCell {
				cell.Write(t)
			} else if inPara {
				para.Write(t)
			}
		}
	}
	return paragraphs, tableRows, tableCount, nil
}

func anyNonEmpty(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return true
		}
	}
	return false
}
