package jsonlogic

import "craftwell-hq/vega/pkg/dsl/ast"

// Logical connectives spell differently on the wire than in the DSL.
const (
	opAnd = "and"
	opOr  = "or"
	opNot = "!"
	opVar = "var"
)

// FromAST converts an expression AST to its JSON-Logic form. Adjacent
// same-operator &&/|| subtrees merge into one n-ary operand array, keeping
// the wire form shallow. A quantifier's alias is appended as a third
// operand only when it was written explicitly or differs from the default.
func FromAST(node ast.Node) Expression {
	switch n := node.(type) {
	case *ast.Literal:
		return n.Value

	case *ast.Variable:
		return map[string]any{opVar: n.Path}

	case *ast.Unary:
		return map[string]any{opNot: FromAST(n.Argument)}

	case *ast.Binary:
		if n.Operator.IsLogical() {
			key := opAnd
			if n.Operator == ast.OperatorOr {
				key = opOr
			}
			return map[string]any{key: flattenLogical(n)}
		}
		return map[string]any{string(n.Operator): []any{FromAST(n.Left), FromAST(n.Right)}}

	case *ast.Quantifier:
		operands := []any{FromAST(n.Collection), FromAST(n.Predicate)}
		if n.AliasProvided || n.Alias != ast.DefaultAlias {
			operands = append(operands, n.Alias)
		}
		return map[string]any{string(n.Operator): operands}
	}
	return nil
}

// flattenLogical collects the operands of a chain of same-operator logical
// nodes into a single slice, left to right.
func flattenLogical(root *ast.Binary) []any {
	var operands []any
	var collect func(ast.Node)
	collect = func(node ast.Node) {
		if b, ok := node.(*ast.Binary); ok && b.Operator == root.Operator {
			collect(b.Left)
			collect(b.Right)
			return
		}
		operands = append(operands, FromAST(node))
	}
	collect(root)
	return operands
}
