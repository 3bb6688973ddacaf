package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Manifest is the CLI batch description: which files to ingest and where
// the corpus goes.
type Manifest struct {
	Files  []string `json:"files"`
	Output string   `json:"output,omitempty"`
}

// buildManifestSchema returns the JSON-Schema (draft 2020-12 subset) a batch
// manifest must satisfy.
func buildManifestSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"files": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items":    map[string]any{"type": "string", "minLength": 1},
			},
			"output": map[string]any{"type": "string"},
		},
		"required": []string{"files"},
	}
}

// LoadManifest reads and validates a batch manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if err := validateManifest(data); err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

func validateManifest(data []byte) error {
	b, err := json.Marshal(buildManifestSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("manifest.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("manifest.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal manifest: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("manifest does not match schema: %w", err)
	}
	return nil
}
