package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanTextCorrections(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Value gate: 2024-01-01", "Value date: 2024-01-01"},
		{"Beneticiary account", "Beneficiary account"},
		{"Bene:iciary account", "Beneficiary account"},
		{"Bene ficiary account", "Beneficiary account"},
		{"Arnount: 100.00", "Amount: 100.00"},
		{"Am0unt: 100.00", "Amount: 100.00"},
		{"Va|ue Date", "Value Date"},
		{"V4lue Date", "Value Date"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CleanText(tc.in))
	}
}

func TestCleanTextCollapsesWhitespace(t *testing.T) {
	in := "  Amount:\t100.00\n\nBeneficiary:   ACME  "
	assert.Equal(t, "Amount: 100.00 Beneficiary: ACME", CleanText(in))
}

func TestCleanTextEmpty(t *testing.T) {
	assert.Equal(t, "", CleanText(""))
	assert.Equal(t, "", CleanText("   \n\t "))
}
