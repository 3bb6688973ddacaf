package ocr

import (
	"regexp"
	"strings"
)

// corrections maps known OCR misreads of banking-domain terms to their
// intended text. Literal, non-overlapping substrings, so replacement order
// does not matter.
var corrections = strings.NewReplacer(
	"gate", "date",
	"Beneticiary", "Beneficiary",
	"Bene:iciary", "Beneficiary",
	"Bene ficiary", "Beneficiary",
	"Arnount", "Amount",
	"Am0unt", "Amount",
	"Va|ue", "Value",
	"V4lue", "Value",
)

var reWhitespace = regexp.MustCompile(`\s+`)

// CleanText applies the misread-correction dictionary, then collapses
// whitespace runs to single spaces and trims.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	s = corrections.Replace(s)
	s = reWhitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
