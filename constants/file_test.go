package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeExt(t *testing.T) {
	assert.Equal(t, "pdf", NormalizeExt(".PDF"))
	assert.Equal(t, "txt", NormalizeExt("txt"))
	assert.Equal(t, "", NormalizeExt("."))
}

func TestMapExtToFormat(t *testing.T) {
	cases := map[string]string{
		".docx": DOCX,
		"PDF":   PDF,
		".png":  IMAGE,
		"jpeg":  IMAGE,
		".eml":  EMAIL,
		".zip":  ARCHIVE,
		".bin":  "",
		"":      "",
	}
	for ext, want := range cases {
		assert.Equal(t, want, MapExtToFormat(ext), "ext %q", ext)
	}
}
