package extractor

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amara-obi/docpipe/internal/common"
	"github.com/amara-obi/docpipe/internal/document"
)

// fakeRecognizer stands in for the OCR engine.
type fakeRecognizer struct {
	text  string
	conf  float64
	err   error
	calls int
}

func (f *fakeRecognizer) Recognize(_ context.Context, _ string) (string, float64, error) {
	f.calls++
	return f.text, f.conf, f.err
}

// pngBytes encodes a small white image with a black block as PNG.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	for y := h / 3; y < h/2; y++ {
		for x := w / 4; x < 3*w/4; x++ {
			img.SetGray(x, y, color.Gray{Y: 0})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type panicExtractor struct{}

func (panicExtractor) Extract(context.Context, document.Document) (document.ExtractionResult, error) {
	panic("boom")
}

func TestDispatcherUnsupportedFormat(t *testing.T) {
	d := NewDispatcher(&fakeRecognizer{}, nil)
	res := d.Process(context.Background(), document.New("payload.bin", "/tmp/payload.bin", []byte{1, 2, 3}))

	require.NotNil(t, res.Err)
	assert.Equal(t, common.KindUnsupportedFormat, res.Err.Kind)
	assert.Equal(t, "", res.Content)
	assert.Equal(t, "payload.bin", res.Meta("file_name"))
}

func TestDispatcherNeverRaisesForRegisteredExtensions(t *testing.T) {
	d := NewDispatcher(&fakeRecognizer{text: "ok", conf: 80}, nil)
	garbage := []byte{0xde, 0xad, 0xbe, 0xef}
	for _, name := range []string{
		"a.docx", "a.pdf", "a.xlsx", "a.png", "a.jpg", "a.jpeg",
		"a.txt", "a.eml", "a.json", "a.xml", "a.csv",
	} {
		res := d.Process(context.Background(), document.New(name, "", garbage))
		// content is always defined, even on failure
		assert.NotNil(t, res.Metadata, name)
		if res.Err != nil {
			assert.Equal(t, "", res.Content, name)
		}
	}
}

func TestDispatcherRecoversPanics(t *testing.T) {
	d := NewDispatcher(&fakeRecognizer{}, nil)
	d.Register("wat", panicExtractor{})

	res := d.Process(context.Background(), document.New("x.wat", "", nil))
	require.NotNil(t, res.Err)
	assert.Equal(t, common.KindParseFailure, res.Err.Kind)
	assert.Contains(t, res.Err.Message, "panic")
}

func TestDispatcherAnnotatesMetadata(t *testing.T) {
	d := NewDispatcher(&fakeRecognizer{}, nil)
	res := d.Process(context.Background(), document.New("note.txt", "/data/note.txt", []byte("hello")))

	require.Nil(t, res.Err)
	assert.Equal(t, "note.txt", res.Meta("file_name"))
	assert.Equal(t, "TEXT", res.Meta("file_type"))
	assert.Equal(t, "/data/note.txt", res.Meta("file_path"))
}

func TestDispatcherSupports(t *testing.T) {
	d := NewDispatcher(&fakeRecognizer{}, nil)
	assert.True(t, d.Supports(".PDF"))
	assert.True(t, d.Supports("csv"))
	assert.False(t, d.Supports(".zip")) // archives go through the Expander
	assert.False(t, d.Supports(".bin"))
}
