package catalog

import (
	"github.com/google/uuid"

	"craftwell-hq/vega/pkg/dsl/ast"
)

// Type is the declared type of a catalog variable.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
)

// IsValid reports whether t is one of the declared types.
func (t Type) IsValid() bool {
	switch t {
	case TypeString, TypeNumber, TypeBoolean, TypeArray:
		return true
	}
	return false
}

// VariableDefinition declares a variable the condition language may
// reference: its dotted payload path, display metadata, declared type, and
// the comparison operators expressions are allowed to apply to it.
type VariableDefinition struct {
	ID               string               `yaml:"id" json:"id"`
	Path             string               `yaml:"path" json:"path"`
	DSLPath          string               `yaml:"dsl_path" json:"dslPath"`
	Label            string               `yaml:"label" json:"label"`
	Type             Type                 `yaml:"type" json:"type"`
	AllowedOperators []ast.BinaryOperator `yaml:"allowed_operators" json:"allowedOperators"`
}

// DefaultAllowedOperators returns the conventional operator set for a
// variable type: numbers get the ordering operators, everything else gets
// only equality.
func DefaultAllowedOperators(t Type) []ast.BinaryOperator {
	if t == TypeNumber {
		ops := make([]ast.BinaryOperator, len(ast.ComparisonOperators))
		copy(ops, ast.ComparisonOperators)
		return ops
	}
	return []ast.BinaryOperator{ast.OperatorEqual, ast.OperatorNotEqual}
}

// Catalog is a read-only registry of variable definitions keyed by path.
// The engine treats it as immutable for the duration of a call; callers own
// its lifecycle and refresh policy.
type Catalog struct {
	defs   []VariableDefinition
	byPath map[string]*VariableDefinition
}

// New builds a catalog from definitions, filling in defaults: a generated ID
// when absent, DSLPath mirroring Path, and the conventional operator set for
// the declared type when no allowlist is given.
func New(defs []VariableDefinition) *Catalog {
	c := &Catalog{
		defs:   make([]VariableDefinition, len(defs)),
		byPath: make(map[string]*VariableDefinition, len(defs)),
	}
	copy(c.defs, defs)
	for i := range c.defs {
		d := &c.defs[i]
		if d.ID == "" {
			d.ID = uuid.New().String()
		}
		if d.DSLPath == "" {
			d.DSLPath = d.Path
		}
		if d.Label == "" {
			d.Label = d.Path
		}
		if len(d.AllowedOperators) == 0 {
			d.AllowedOperators = DefaultAllowedOperators(d.Type)
		}
		c.byPath[d.Path] = d
	}
	return c
}

// Empty returns a catalog with no variables. Every variable reference
// validated against it reports unknown_variable.
func Empty() *Catalog {
	return New(nil)
}

// Lookup returns the definition for a dotted path, if declared.
func (c *Catalog) Lookup(path string) (*VariableDefinition, bool) {
	d, ok := c.byPath[path]
	return d, ok
}

// Definitions returns the catalog's definitions in declaration order.
func (c *Catalog) Definitions() []VariableDefinition {
	out := make([]VariableDefinition, len(c.defs))
	copy(out, c.defs)
	return out
}

// Len returns the number of declared variables.
func (c *Catalog) Len() int {
	return len(c.defs)
}

// Allows reports whether the definition permits the given comparison
// operator.
func (d *VariableDefinition) Allows(op ast.BinaryOperator) bool {
	for _, allowed := range d.AllowedOperators {
		if allowed == op {
			return true
		}
	}
	return false
}
