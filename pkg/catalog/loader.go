package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk YAML shape of a catalog.
type File struct {
	Variables []VariableDefinition `yaml:"variables"`
}

// LoadFile reads and validates a catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %q: %w", path, err)
	}
	cat, err := LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("catalog file %q: %w", path, err)
	}
	return cat, nil
}

// LoadBytes parses and validates catalog YAML from bytes.
func LoadBytes(data []byte) (*Catalog, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	if err := validateDefinitions(file.Variables); err != nil {
		return nil, err
	}
	return New(file.Variables), nil
}

func validateDefinitions(defs []VariableDefinition) error {
	seen := make(map[string]bool, len(defs))
	for i, d := range defs {
		if d.Path == "" {
			return fmt.Errorf("variable %d: path is required", i)
		}
		if seen[d.Path] {
			return fmt.Errorf("variable %q: duplicate path", d.Path)
		}
		seen[d.Path] = true
		if !d.Type.IsValid() {
			return fmt.Errorf("variable %q: unknown type %q (must be string, number, boolean, or array)", d.Path, d.Type)
		}
		for _, op := range d.AllowedOperators {
			if !op.IsComparison() {
				return fmt.Errorf("variable %q: %q is not a comparison operator", d.Path, op)
			}
			if op.IsOrdering() && d.Type != TypeNumber {
				return fmt.Errorf("variable %q: operator %q requires a number type, got %q", d.Path, op, d.Type)
			}
		}
	}
	return nil
}
