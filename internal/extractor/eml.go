package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/jhillyerd/enmime"

	"github.com/amara-obi/docpipe/internal/common"
	"github.com/amara-obi/docpipe/internal/document"
)

// EmailExtractor composes a single content string from the message headers
// (subject, sender, recipient, date) followed by the plain-text body parts.
type EmailExtractor struct{}

func (EmailExtractor) Extract(_ context.Context, doc document.Document) (document.ExtractionResult, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(doc.Data))
	if err != nil {
		return document.ExtractionResult{}, common.NewExtractionError(
			common.KindParseFailure, "could not parse email", err)
	}

	subject := env.GetHeader("Subject")
	sender := env.GetHeader("From")
	recipient := env.GetHeader("To")
	date := env.GetHeader("Date")
	body := strings.TrimRight(env.Text, "\n")

	content := fmt.Sprintf("Subject: %s\nFrom: %s\nTo: %s\nDate: %s\n\nBody:\n%s",
		subject, sender, recipient, date, body)

	res := document.ExtractionResult{Content: content}
	res.SetMeta("subject", subject)
	res.SetMeta("sender", sender)
	res.SetMeta("recipient", recipient)
	return res, nil
}
