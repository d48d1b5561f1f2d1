package jsonlogic

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// Expression is the wire and storage form of a compiled condition: a
// recursive structure of JSON scalars and single-key operator objects, e.g.
//
//	{"and": [{"<": [{"var": "facets.score"}, 0.6]}, {"var": "published"}]}
//
// Unlike the AST it carries no source ranges; it is the canonical,
// serializable artifact that crosses process and storage boundaries.
type Expression = any

// Decode parses a JSON document into an Expression. Numbers decode as
// float64 throughout, matching what FromAST produces.
func Decode(data []byte) (Expression, error) {
	var expr Expression
	if err := json.Unmarshal(data, &expr); err != nil {
		return nil, fmt.Errorf("failed to decode JSON-Logic: %w", err)
	}
	return expr, nil
}

// Encode serializes an Expression to compact JSON.
func Encode(expr Expression) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(expr); err != nil {
		return nil, fmt.Errorf("failed to encode JSON-Logic: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Equal reports whether two expressions are structurally identical.
func Equal(a, b Expression) bool {
	return reflect.DeepEqual(a, b)
}
