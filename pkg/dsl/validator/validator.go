package validator

import (
	"fmt"
	"strings"

	"craftwell-hq/vega/pkg/catalog"
	"craftwell-hq/vega/pkg/dsl/ast"
	"craftwell-hq/vega/pkg/dsl/diag"
)

// Validate checks an AST against a variable catalog and returns every
// finding, not just the first: a comparison can report an unknown variable
// on one operand and, independently, a type mismatch on the other. An empty
// result means the expression is valid. The AST is never mutated.
func Validate(node ast.Node, cat *catalog.Catalog) []diag.Diagnostic {
	w := &walker{
		cat:          cat,
		seenMismatch: make(map[string]bool),
	}
	w.visit(node)
	return w.diags.Diagnostics
}

// scopeFrame tracks one quantifier nesting level. The used flag flips when
// the predicate references the bound alias; a predicate that never does is
// invalid.
type scopeFrame struct {
	alias          string
	aliasRange     *ast.Range
	predicateRange *ast.Range
	used           bool
}

type walker struct {
	cat          *catalog.Catalog
	diags        diag.List
	scopes       []*scopeFrame
	seenMismatch map[string]bool
}

func (w *walker) visit(node ast.Node) {
	switch n := node.(type) {
	case *ast.Literal:
		// Nothing to check.

	case *ast.Variable:
		w.visitVariable(n)

	case *ast.Unary:
		w.visit(n.Argument)

	case *ast.Binary:
		w.visit(n.Left)
		w.visit(n.Right)
		if !n.Operator.IsLogical() {
			w.checkComparison(n)
		}

	case *ast.Quantifier:
		w.visitQuantifier(n)
	}
}

// visitVariable resolves a variable reference. A path naming an enclosing
// quantifier alias (exactly, or as a "<alias>." prefix) marks that scope as
// used and is otherwise opaque: alias-relative paths are element-shaped and
// the catalog knows nothing about them. Anything else must be a catalog
// entry.
func (w *walker) visitVariable(n *ast.Variable) {
	if w.claimScope(n.Path) {
		return
	}
	if _, ok := w.cat.Lookup(n.Path); !ok {
		w.diags.Add(diag.CodeUnknownVariable, fmt.Sprintf("unknown variable %q", n.Path), n.Range)
	}
}

// claimScope marks the innermost scope matching the path as used. Scopes
// are searched inside out so a nested predicate can still reach an outer
// alias.
func (w *walker) claimScope(path string) bool {
	for i := len(w.scopes) - 1; i >= 0; i-- {
		frame := w.scopes[i]
		if path == frame.alias || strings.HasPrefix(path, frame.alias+".") {
			frame.used = true
			return true
		}
	}
	return false
}

// aliasClaimed reports whether a path resolves to an enclosing alias
// without flipping any used flag.
func (w *walker) aliasClaimed(path string) bool {
	for i := len(w.scopes) - 1; i >= 0; i-- {
		frame := w.scopes[i]
		if path == frame.alias || strings.HasPrefix(path, frame.alias+".") {
			return true
		}
	}
	return false
}

// checkComparison enforces the operator allowlist and type compatibility on
// a comparison node. Alias-relative operands are excluded: their element
// type is not declared anywhere.
func (w *walker) checkComparison(n *ast.Binary) {
	leftVars := w.catalogVariables(n.Left)
	rightVars := w.catalogVariables(n.Right)

	seen := make(map[string]bool)
	for _, def := range append(append([]*catalog.VariableDefinition{}, leftVars...), rightVars...) {
		if seen[def.Path] {
			continue
		}
		seen[def.Path] = true
		if !def.Allows(n.Operator) {
			w.diags.Add(diag.CodeOperatorNotAllowed,
				fmt.Sprintf("operator %q is not allowed for variable %q", n.Operator, def.Path),
				n.OperatorRange)
		}
	}

	leftLit, leftIsLit := n.Left.(*ast.Literal)
	rightLit, rightIsLit := n.Right.(*ast.Literal)
	if leftIsLit && len(rightVars) > 0 {
		w.checkLiteralTypes(leftLit, rightVars, n)
	}
	if rightIsLit && len(leftVars) > 0 {
		w.checkLiteralTypes(rightLit, leftVars, n)
	}
	if len(leftVars) > 0 && len(rightVars) > 0 {
		for _, l := range leftVars {
			for _, r := range rightVars {
				key := l.Path + "|" + r.Path + "|" + string(n.Operator)
				if w.seenMismatch[key] {
					continue
				}
				w.seenMismatch[key] = true
				if l.Type != r.Type {
					w.diags.Add(diag.CodeTypeMismatch,
						fmt.Sprintf("cannot compare variable %q (%s) with variable %q (%s)",
							l.Path, l.Type, r.Path, r.Type),
						n.OperatorRange)
				}
			}
		}
	}
}

func (w *walker) checkLiteralTypes(lit *ast.Literal, defs []*catalog.VariableDefinition, n *ast.Binary) {
	// Null compares with anything.
	if lit.Value == nil {
		return
	}
	kind := literalKind(lit.Value)
	for _, def := range defs {
		if !literalCompatible(kind, def.Type) {
			w.diags.Add(diag.CodeTypeMismatch,
				fmt.Sprintf("cannot compare variable %q (%s) with a %s literal", def.Path, def.Type, kind),
				n.OperatorRange)
		}
	}
}

func literalKind(value any) string {
	switch value.(type) {
	case float64:
		return "number"
	case string:
		return "string"
	case bool:
		return "boolean"
	default:
		return "null"
	}
}

// literalCompatible reports whether a literal of the given kind can compare
// with a variable of the given declared type. Arrays compare with nothing.
func literalCompatible(kind string, t catalog.Type) bool {
	switch t {
	case catalog.TypeNumber:
		return kind == "number"
	case catalog.TypeString:
		return kind == "string"
	case catalog.TypeBoolean:
		return kind == "boolean"
	default:
		return false
	}
}

// catalogVariables collects the catalog definitions referenced anywhere in
// a subtree, deduplicated in first-seen order. Unknown and alias-relative
// paths are skipped; visitVariable already reported the unknown ones.
func (w *walker) catalogVariables(node ast.Node) []*catalog.VariableDefinition {
	var defs []*catalog.VariableDefinition
	seen := make(map[string]bool)
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		switch t := n.(type) {
		case *ast.Variable:
			if w.aliasClaimed(t.Path) || seen[t.Path] {
				return
			}
			seen[t.Path] = true
			if def, ok := w.cat.Lookup(t.Path); ok {
				defs = append(defs, def)
			}
		case *ast.Unary:
			walk(t.Argument)
		case *ast.Binary:
			walk(t.Left)
			walk(t.Right)
		case *ast.Quantifier:
			walk(t.Collection)
			walk(t.Predicate)
		}
	}
	walk(node)
	return defs
}

func (w *walker) visitQuantifier(n *ast.Quantifier) {
	collection, isVariable := n.Collection.(*ast.Variable)
	if !isVariable {
		w.diags.Add(diag.CodeInvalidQuantifier,
			fmt.Sprintf("%s collection must be a variable reference", n.Operator),
			rangeOr(n.CollectionRange, n.Range))
		w.visit(n.Collection)
	} else {
		w.visit(collection)
		if !w.aliasClaimed(collection.Path) {
			if def, ok := w.cat.Lookup(collection.Path); ok && def.Type != catalog.TypeArray {
				w.diags.Add(diag.CodeInvalidQuantifier,
					fmt.Sprintf("%s collection %q must be an array variable, not %s", n.Operator, collection.Path, def.Type),
					rangeOr(n.CollectionRange, n.Range))
			}
		}
	}

	frame := &scopeFrame{
		alias:          n.Alias,
		aliasRange:     n.AliasRange,
		predicateRange: n.PredicateRange,
	}
	w.scopes = append(w.scopes, frame)
	w.visit(n.Predicate)
	w.scopes = w.scopes[:len(w.scopes)-1]

	if !frame.used {
		w.diags.Add(diag.CodeInvalidQuantifier,
			fmt.Sprintf("%s predicate must reference alias %q", n.Operator, n.Alias),
			rangeOr(n.PredicateRange, n.Range))
	}
}

func rangeOr(preferred, fallback *ast.Range) *ast.Range {
	if preferred != nil {
		return preferred
	}
	return fallback
}
