package diag

import (
	"fmt"
	"strings"

	"craftwell-hq/vega/pkg/dsl/ast"
)

// Code identifies a diagnostic category. The set is closed; collaborators
// (REST handlers, editors) switch on it.
type Code string

const (
	CodeEmptyExpression    Code = "empty_expression"
	CodeSyntaxError        Code = "syntax_error"
	CodeUnknownVariable    Code = "unknown_variable"
	CodeOperatorNotAllowed Code = "operator_not_allowed"
	CodeTypeMismatch       Code = "type_mismatch"
	CodeInvalidQuantifier  Code = "invalid_quantifier"
	CodeInvalidJSONLogic   Code = "invalid_json_logic"
	CodeNoopTrue           Code = "noop_true"
)

// Diagnostic is a single parse or validation finding. Range is nil when the
// node it describes was synthesized (e.g. imported from JSON-Logic).
// Diagnostics are produced once and never mutated.
type Diagnostic struct {
	Code    Code       `json:"code"`
	Message string     `json:"message"`
	Range   *ast.Range `json:"range,omitempty"`
}

// String renders the diagnostic for humans, degrading gracefully when no
// source range is available.
func (d Diagnostic) String() string {
	if d.Range == nil {
		return fmt.Sprintf("[%s] %s", d.Code, d.Message)
	}
	return fmt.Sprintf("[%s] %s (offset %d-%d)", d.Code, d.Message, d.Range.Start, d.Range.End)
}

// List accumulates diagnostics during a parse or validation pass instead of
// failing on the first finding.
type List struct {
	Diagnostics []Diagnostic
}

// Add appends a diagnostic to the list.
func (l *List) Add(code Code, message string, r *ast.Range) {
	l.Diagnostics = append(l.Diagnostics, Diagnostic{Code: code, Message: message, Range: r})
}

// Append appends pre-built diagnostics to the list.
func (l *List) Append(ds ...Diagnostic) {
	l.Diagnostics = append(l.Diagnostics, ds...)
}

// HasErrors reports whether any diagnostics were collected.
func (l *List) HasErrors() bool {
	return len(l.Diagnostics) > 0
}

// ValidationError wraps a diagnostic list for callers that prefer error
// returns at the boundary (e.g. handlers mapping it to a 400 response).
// Internally the engine collects diagnostics in result structs and never
// raises this itself except from Normalize.
type ValidationError struct {
	Diagnostics []Diagnostic
}

func (e *ValidationError) Error() string {
	if len(e.Diagnostics) == 0 {
		return "condition validation failed"
	}
	parts := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		parts[i] = d.String()
	}
	return "condition validation failed: " + strings.Join(parts, "; ")
}
