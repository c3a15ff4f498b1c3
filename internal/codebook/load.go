package codebook

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// Load reads and validates a YAML codebook. Unknown keys are rejected so a
// misspelled map or column name fails loudly instead of silently dropping a
// recode rule.
func Load(path string) (*Codebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read codebook %s: %w", path, err)
	}

	var cb Codebook
	if err := yaml.UnmarshalStrict(data, &cb); err != nil {
		return nil, fmt.Errorf("parse codebook %s: %w", path, err)
	}

	if err := cb.Validate(); err != nil {
		return nil, fmt.Errorf("validate codebook %s: %w", path, err)
	}

	return &cb, nil
}

// LoadOrDefault returns the codebook at path, or the compiled-in default
// when path is empty. The default is validated too, as a guard against
// drift between the canonical tables and the validation rules.
func LoadOrDefault(path string) (*Codebook, error) {
	if path == "" {
		cb := Default()
		if err := cb.Validate(); err != nil {
			return nil, fmt.Errorf("validate default codebook: %w", err)
		}
		return cb, nil
	}
	return Load(path)
}

// Export writes the codebook as YAML. Marshalling sorts map keys, so the
// output is deterministic for a given codebook value.
func (cb *Codebook) Export(path string) error {
	if err := cb.Validate(); err != nil {
		return fmt.Errorf("validate codebook before export: %w", err)
	}

	data, err := yaml.Marshal(cb)
	if err != nil {
		return fmt.Errorf("marshal codebook: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create codebook directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write codebook %s: %w", path, err)
	}

	return nil
}
