package extractor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amara-obi/docpipe/internal/common"
	"github.com/amara-obi/docpipe/internal/document"
)

func TestJSONCanonicalRendering(t *testing.T) {
	doc := document.New("payload.json", "", []byte(`{"b":1,"a":{"nested":true}}`))

	res, err := JSONExtractor{}.Extract(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, "{\n  \"a\": {\n    \"nested\": true\n  },\n  \"b\": 1\n}", res.Content)
	assert.Equal(t, []string{"a", "b"}, res.Meta("keys"))
}

func TestJSONArrayHasNoKeyMetadata(t *testing.T) {
	res, err := JSONExtractor{}.Extract(context.Background(), document.New("a.json", "", []byte(`[1,2]`)))
	require.NoError(t, err)
	assert.Nil(t, res.Meta("keys"))
	assert.Equal(t, "[\n  1,\n  2\n]", res.Content)
}

func TestJSONInvalidInput(t *testing.T) {
	_, err := JSONExtractor{}.Extract(context.Background(), document.New("a.json", "", []byte(`{broken`)))
	require.Error(t, err)
	var xerr *common.ExtractionError
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, common.KindParseFailure, xerr.Kind)
}
