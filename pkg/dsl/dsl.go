package dsl

import (
	"strings"

	"craftwell-hq/vega/pkg/catalog"
	"craftwell-hq/vega/pkg/dsl/ast"
	"craftwell-hq/vega/pkg/dsl/diag"
	"craftwell-hq/vega/pkg/dsl/eval"
	"craftwell-hq/vega/pkg/dsl/jsonlogic"
	"craftwell-hq/vega/pkg/dsl/parser"
	"craftwell-hq/vega/pkg/dsl/render"
	"craftwell-hq/vega/pkg/dsl/validator"
)

// ParseResult is the discriminated outcome of Parse. When OK is true the
// expression is both syntactically and semantically valid: JSONLogic holds
// the wire form, Canonical the minimally parenthesized re-rendering, and
// Variables the referenced catalog definitions in first-seen order. When OK
// is false only Errors is populated; a syntactically valid but semantically
// invalid expression never reaches JSON-Logic.
type ParseResult struct {
	OK        bool
	AST       ast.Node
	JSONLogic jsonlogic.Expression
	Canonical string
	Variables []catalog.VariableDefinition
	Warnings  []diag.Diagnostic
	Errors    []diag.Diagnostic
}

// Parse tokenizes, parses, and validates a condition expression against a
// catalog, producing the persisted artifacts on success. Blank input yields
// a single empty_expression diagnostic.
func Parse(expression string, cat *catalog.Catalog) ParseResult {
	node, errs := parser.Parse(expression)
	if len(errs) > 0 {
		return ParseResult{Errors: errs}
	}

	if errs := validator.Validate(node, cat); len(errs) > 0 {
		return ParseResult{Errors: errs}
	}

	canonical := render.Expression(node)
	result := ParseResult{
		OK:        true,
		AST:       node,
		JSONLogic: jsonlogic.FromAST(node),
		Canonical: canonical,
		Variables: referencedVariables(node, cat),
	}
	if canonical == "true" {
		result.Warnings = append(result.Warnings, diag.Diagnostic{
			Code:    diag.CodeNoopTrue,
			Message: "expression always evaluates to true",
			Range:   node.Span(),
		})
	}
	return result
}

// ToDSL renders arbitrary JSON-Logic back to canonical DSL text,
// re-validating it against the catalog first.
func ToDSL(expr jsonlogic.Expression, cat *catalog.Catalog) (string, []diag.Diagnostic) {
	node, err := jsonlogic.ToAST(expr, cat)
	if err != nil {
		return "", []diag.Diagnostic{{
			Code:    diag.CodeInvalidJSONLogic,
			Message: "invalid JSON-Logic: " + err.Error(),
		}}
	}
	if errs := validator.Validate(node, cat); len(errs) > 0 {
		return "", errs
	}
	return render.Expression(node), nil
}

// Evaluate executes a compiled condition against a runtime payload. See
// package eval for the semantics.
func Evaluate(expr jsonlogic.Expression, payload map[string]any) eval.Result {
	return eval.Evaluate(expr, payload)
}

// Input carries a condition in whichever form the caller has: authored DSL
// text, raw JSON-Logic, or both.
type Input struct {
	DSL       string
	JSONLogic jsonlogic.Expression
}

// ValidationResult is the condition artifact handed to collaborators for
// persistence and transmission. CanonicalDSL is nil when the caller
// supplied raw JSON-Logic: no canonical text is derivable without
// re-rendering, which callers may do separately via ToDSL.
type ValidationResult struct {
	JSONLogic    jsonlogic.Expression         `json:"jsonLogic"`
	CanonicalDSL *string                      `json:"canonicalDsl"`
	Warnings     []diag.Diagnostic            `json:"warnings"`
	Variables    []catalog.VariableDefinition `json:"variables"`
}

// Normalize turns caller input into a ValidationResult. DSL text wins when
// both forms are supplied; raw JSON-Logic passes through unchanged with
// empty warnings and variables; supplying neither is an error. Failures are
// returned as a *diag.ValidationError wrapping the diagnostics.
func Normalize(input Input, cat *catalog.Catalog) (*ValidationResult, error) {
	if strings.TrimSpace(input.DSL) != "" {
		result := Parse(input.DSL, cat)
		if !result.OK {
			return nil, &diag.ValidationError{Diagnostics: result.Errors}
		}
		canonical := result.Canonical
		return &ValidationResult{
			JSONLogic:    result.JSONLogic,
			CanonicalDSL: &canonical,
			Warnings:     warningsOrEmpty(result.Warnings),
			Variables:    variablesOrEmpty(result.Variables),
		}, nil
	}

	if input.JSONLogic != nil {
		return &ValidationResult{
			JSONLogic: input.JSONLogic,
			Warnings:  []diag.Diagnostic{},
			Variables: []catalog.VariableDefinition{},
		}, nil
	}

	return nil, &diag.ValidationError{Diagnostics: []diag.Diagnostic{{
		Code:    diag.CodeEmptyExpression,
		Message: "no DSL expression or JSON-Logic supplied",
		Range:   &ast.Range{Start: 0, End: 0},
	}}}
}

// referencedVariables collects the catalog definitions an expression reads,
// deduplicated in first-seen order. Alias-relative references inside
// quantifier predicates are element-shaped and excluded.
func referencedVariables(node ast.Node, cat *catalog.Catalog) []catalog.VariableDefinition {
	var defs []catalog.VariableDefinition
	seen := make(map[string]bool)
	var aliases []string

	var walk func(ast.Node)
	walk = func(n ast.Node) {
		switch t := n.(type) {
		case *ast.Variable:
			if aliasClaimed(t.Path, aliases) || seen[t.Path] {
				return
			}
			seen[t.Path] = true
			if def, ok := cat.Lookup(t.Path); ok {
				defs = append(defs, *def)
			}
		case *ast.Unary:
			walk(t.Argument)
		case *ast.Binary:
			walk(t.Left)
			walk(t.Right)
		case *ast.Quantifier:
			walk(t.Collection)
			aliases = append(aliases, t.Alias)
			walk(t.Predicate)
			aliases = aliases[:len(aliases)-1]
		}
	}
	walk(node)
	return defs
}

func aliasClaimed(path string, aliases []string) bool {
	for _, alias := range aliases {
		if path == alias || strings.HasPrefix(path, alias+".") {
			return true
		}
	}
	return false
}

func warningsOrEmpty(ws []diag.Diagnostic) []diag.Diagnostic {
	if ws == nil {
		return []diag.Diagnostic{}
	}
	return ws
}

func variablesOrEmpty(vs []catalog.VariableDefinition) []catalog.VariableDefinition {
	if vs == nil {
		return []catalog.VariableDefinition{}
	}
	return vs
}
