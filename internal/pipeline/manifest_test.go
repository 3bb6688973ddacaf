package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadManifestValid(t *testing.T) {
	path := writeManifest(t, `{"files": ["a.txt", "b.pdf"], "output": "corpus.txt"}`)

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.pdf"}, m.Files)
	assert.Equal(t, "corpus.txt", m.Output)
}

func TestLoadManifestOutputOptional(t *testing.T) {
	path := writeManifest(t, `{"files": ["a.txt"]}`)

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Empty(t, m.Output)
}

func TestLoadManifestRejectsEmptyFileList(t *testing.T) {
	_, err := LoadManifest(writeManifest(t, `{"files": []}`))
	require.Error(t, err)
}

func TestLoadManifestRejectsMissingFiles(t *testing.T) {
	_, err := LoadManifest(writeManifest(t, `{"output": "corpus.txt"}`))
	require.Error(t, err)
}

func TestLoadManifestRejectsUnknownKeys(t *testing.T) {
	_, err := LoadManifest(writeManifest(t, `{"files": ["a.txt"], "extra": true}`))
	require.Error(t, err)
}

func TestLoadManifestRejectsInvalidJSON(t *testing.T) {
	_, err := LoadManifest(writeManifest(t, `{broken`))
	require.Error(t, err)
}

func TestLoadManifestMissingFile(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
