package extractor

import (
	"context"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/amara-obi/docpipe/internal/common"
	"github.com/amara-obi/docpipe/internal/document"
)

// fallbackEncodings is tried in order when the content is not valid UTF-8.
// The first successful decode wins and its codepage name is recorded.
var fallbackEncodings = []struct {
	name string
	enc  encoding.Encoding
}{
	{"latin-1", charmap.ISO8859_1},
	{"cp1252", charmap.Windows1252},
	{"iso-8859-1", charmap.ISO8859_1},
}

// TextExtractor recovers plain text, falling back through legacy codepages
// when UTF-8 decoding fails.
type TextExtractor struct{}

func (TextExtractor) Extract(_ context.Context, doc document.Document) (document.ExtractionResult, error) {
	if utf8.Valid(doc.Data) {
		content := string(doc.Data)
		res := document.ExtractionResult{Content: content}
		res.SetMeta("line_count", lineCount(content))
		return res, nil
	}

	for _, fb := range fallbackEncodings {
		decoded, err := fb.enc.NewDecoder().Bytes(doc.Data)
		if err != nil {
			continue
		}
		content := string(decoded)
		res := document.ExtractionResult{Content: content}
		res.SetMeta("encoding_used", fb.name)
		res.SetMeta("line_count", lineCount(content))
		return res, nil
	}

	return document.ExtractionResult{}, common.NewExtractionError(
		common.KindEncodingFailure, "could not decode file", nil)
}

func lineCount(s string) int {
	return strings.Count(s, "\n") + 1
}
