package render

import (
	"strconv"
	"strings"

	"craftwell-hq/vega/pkg/dsl/ast"
)

// Expression pretty-prints an AST back to canonical DSL text with minimal
// parenthesization. For any AST the parser can produce, parsing the
// rendered text yields the same JSON-Logic, and rendering is idempotent
// across a re-parse.
func Expression(node ast.Node) string {
	var sb strings.Builder
	write(&sb, node)
	return sb.String()
}

func write(sb *strings.Builder, node ast.Node) {
	switch n := node.(type) {
	case *ast.Literal:
		sb.WriteString(formatLiteral(n.Value))

	case *ast.Variable:
		sb.WriteString(n.Path)

	case *ast.Unary:
		sb.WriteString(string(n.Operator))
		// Any binary child binds looser than "!"; unary and atomic children
		// do not need grouping (!!a stays !!a).
		if precedence(n.Argument) < ast.PrecedenceUnary {
			writeParens(sb, n.Argument)
		} else {
			write(sb, n.Argument)
		}

	case *ast.Binary:
		writeOperand(sb, n.Left, n.Operator)
		sb.WriteByte(' ')
		sb.WriteString(string(n.Operator))
		sb.WriteByte(' ')
		writeOperand(sb, n.Right, n.Operator)

	case *ast.Quantifier:
		sb.WriteString(string(n.Operator))
		sb.WriteByte('(')
		write(sb, n.Collection)
		if n.AliasProvided || n.Alias != ast.DefaultAlias {
			sb.WriteString(" as ")
			sb.WriteString(n.Alias)
		}
		sb.WriteString(", ")
		write(sb, n.Predicate)
		sb.WriteByte(')')
	}
}

func writeOperand(sb *strings.Builder, child ast.Node, parent ast.BinaryOperator) {
	if needsParens(child, parent) {
		writeParens(sb, child)
		return
	}
	write(sb, child)
}

func writeParens(sb *strings.Builder, node ast.Node) {
	sb.WriteByte('(')
	write(sb, node)
	sb.WriteByte(')')
}

// needsParens decides grouping for a binary operand: strictly lower
// precedence always groups; equal precedence groups unless parent and child
// are the same logical connective, whose chains are associativity-safe.
// Mixed or repeated comparisons at equal precedence always group, so
// (a == b) == c survives a round trip.
func needsParens(child ast.Node, parent ast.BinaryOperator) bool {
	cp := precedence(child)
	pp := parent.Precedence()
	if cp < pp {
		return true
	}
	if cp > pp {
		return false
	}
	b, ok := child.(*ast.Binary)
	if !ok {
		return false
	}
	return !(parent.IsLogical() && b.Operator == parent)
}

// precedence of a node as an operand. Literals, variables, and quantifier
// calls are atomic: a quantifier's own parentheses already delimit it.
func precedence(node ast.Node) int {
	switch n := node.(type) {
	case *ast.Unary:
		return ast.PrecedenceUnary
	case *ast.Binary:
		return n.Operator.Precedence()
	default:
		return ast.PrecedenceAtom
	}
}

func formatLiteral(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return quoteString(v)
	}
	return "null"
}

// quoteString re-escapes a string literal for output, always with double
// quotes regardless of which delimiter the source used.
func quoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
