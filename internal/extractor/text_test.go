package extractor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amara-obi/docpipe/internal/document"
)

func TestTextUTF8PassThrough(t *testing.T) {
	doc := document.New("note.txt", "", []byte("héllo\nworld"))

	res, err := TextExtractor{}.Extract(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, "héllo\nworld", res.Content)
	assert.Equal(t, 2, res.Meta("line_count"))
	assert.Nil(t, res.Meta("encoding_used"))
}

func TestTextLatin1Fallback(t *testing.T) {
	// "café" with é as a single latin-1 byte, invalid as UTF-8.
	doc := document.New("note.txt", "", []byte{'c', 'a', 'f', 0xE9})

	res, err := TextExtractor{}.Extract(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, "café", res.Content)
	assert.Equal(t, "latin-1", res.Meta("encoding_used"))
	assert.Equal(t, 1, res.Meta("line_count"))
}

func TestTextEmptyFile(t *testing.T) {
	res, err := TextExtractor{}.Extract(context.Background(), document.New("empty.txt", "", nil))
	require.NoError(t, err)
	assert.Equal(t, "", res.Content)
}
