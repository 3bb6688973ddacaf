package extractor

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/amara-obi/docpipe/internal/common"
	"github.com/amara-obi/docpipe/internal/document"
)

// XMLExtractor keeps only character data, concatenated in tree order.
type XMLExtractor struct{}

func (XMLExtractor) Extract(_ context.Context, doc document.Document) (document.ExtractionResult, error) {
	dec := xml.NewDecoder(bytes.NewReader(doc.Data))

	var (
		text         strings.Builder
		rootTag      string
		elementCount int
	)
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return document.ExtractionResult{}, common.NewExtractionError(
				common.KindParseFailure, "invalid xml", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if rootTag == "" {
				rootTag = t.Name.Local
			}
			elementCount++
		case xml.CharData:
			text.Write(t)
		}
	}
	if rootTag == "" {
		return document.ExtractionResult{}, common.NewExtractionError(
			common.KindParseFailure, "xml document has no root element", nil)
	}

	res := document.ExtractionResult{Content: text.String()}
	res.SetMeta("root_tag", rootTag)
	res.SetMeta("element_count", elementCount)
	return res, nil
}
