package extractor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amara-obi/docpipe/internal/document"
)

const sampleEmail = "From: alice@example.com\r\n" +
	"To: bob@example.com\r\n" +
	"Subject: Wire confirmation\r\n" +
	"Date: Mon, 05 Feb 2024 10:30:00 +0000\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Payment of 1,250.00 EUR has been released.\r\n"

func TestEmailHeadersAndBody(t *testing.T) {
	doc := document.New("wire.eml", "", []byte(sampleEmail))

	res, err := EmailExtractor{}.Extract(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t,
		"Subject: Wire confirmation\n"+
			"From: alice@example.com\n"+
			"To: bob@example.com\n"+
			"Date: Mon, 05 Feb 2024 10:30:00 +0000\n"+
			"\n"+
			"Body:\n"+
			"Payment of 1,250.00 EUR has been released.",
		res.Content)
	assert.Equal(t, "Wire confirmation", res.Meta("subject"))
	assert.Equal(t, "alice@example.com", res.Meta("sender"))
	assert.Equal(t, "bob@example.com", res.Meta("recipient"))
}

func TestEmailMissingHeadersRenderEmpty(t *testing.T) {
	raw := "Content-Type: text/plain\r\n\r\nbody only\r\n"
	res, err := EmailExtractor{}.Extract(context.Background(), document.New("m.eml", "", []byte(raw)))
	require.NoError(t, err)
	assert.Contains(t, res.Content, "Subject: \n")
	assert.Contains(t, res.Content, "Body:\nbody only")
}
