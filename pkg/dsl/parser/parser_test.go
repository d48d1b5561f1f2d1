package parser

import (
	"strings"
	"testing"

	"craftwell-hq/vega/pkg/dsl/ast"
	"craftwell-hq/vega/pkg/dsl/diag"
)

func mustParse(t *testing.T, expression string) ast.Node {
	t.Helper()
	node, errs := Parse(expression)
	if len(errs) > 0 {
		t.Fatalf("Parse(%q) errors = %v", expression, errs)
	}
	return node
}

func TestParse_Precedence(t *testing.T) {
	// a || b && c parses as a || (b && c)
	node := mustParse(t, "a || b && c")
	or, ok := node.(*ast.Binary)
	if !ok || or.Operator != ast.OperatorOr {
		t.Fatalf("root = %#v, want ||", node)
	}
	and, ok := or.Right.(*ast.Binary)
	if !ok || and.Operator != ast.OperatorAnd {
		t.Fatalf("right = %#v, want &&", or.Right)
	}
}

func TestParse_ComparisonBindsTighterThanAnd(t *testing.T) {
	node := mustParse(t, "x > 1 && y < 2")
	and, ok := node.(*ast.Binary)
	if !ok || and.Operator != ast.OperatorAnd {
		t.Fatalf("root = %#v, want &&", node)
	}
	left, ok := and.Left.(*ast.Binary)
	if !ok || left.Operator != ast.OperatorGreaterThan {
		t.Fatalf("left = %#v, want >", and.Left)
	}
}

func TestParse_LeftAssociative(t *testing.T) {
	node := mustParse(t, "a && b && c")
	root := node.(*ast.Binary)
	inner, ok := root.Left.(*ast.Binary)
	if !ok || inner.Operator != ast.OperatorAnd {
		t.Fatalf("chain should fold left, got left = %#v", root.Left)
	}
	if v, ok := root.Right.(*ast.Variable); !ok || v.Path != "c" {
		t.Fatalf("right = %#v, want variable c", root.Right)
	}
}

func TestParse_Literals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  any
	}{
		{name: "number", input: "1.5", want: 1.5},
		{name: "leading dot number", input: ".5", want: 0.5},
		{name: "string", input: `"hi"`, want: "hi"},
		{name: "true", input: "true", want: true},
		{name: "false", input: "false", want: false},
		{name: "null", input: "null", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := mustParse(t, tt.input)
			lit, ok := node.(*ast.Literal)
			if !ok {
				t.Fatalf("Parse(%q) = %#v, want literal", tt.input, node)
			}
			if lit.Value != tt.want {
				t.Errorf("value = %#v, want %#v", lit.Value, tt.want)
			}
		})
	}
}

func TestParse_Ranges(t *testing.T) {
	node := mustParse(t, "score >= 10")
	bin := node.(*ast.Binary)
	if bin.Range == nil || bin.Range.Start != 0 || bin.Range.End != 11 {
		t.Errorf("node range = %+v, want 0-11", bin.Range)
	}
	if bin.OperatorRange == nil || bin.OperatorRange.Start != 6 || bin.OperatorRange.End != 8 {
		t.Errorf("operator range = %+v, want 6-8", bin.OperatorRange)
	}
}

func TestParse_Quantifier(t *testing.T) {
	node := mustParse(t, "some(items as x, x.flag == true)")
	q, ok := node.(*ast.Quantifier)
	if !ok {
		t.Fatalf("root = %#v, want quantifier", node)
	}
	if q.Operator != ast.QuantifierSome {
		t.Errorf("operator = %q, want some", q.Operator)
	}
	if q.Alias != "x" || !q.AliasProvided {
		t.Errorf("alias = %q provided=%v, want x provided=true", q.Alias, q.AliasProvided)
	}
	if v, ok := q.Collection.(*ast.Variable); !ok || v.Path != "items" {
		t.Errorf("collection = %#v, want variable items", q.Collection)
	}
	if q.AliasRange == nil || q.AliasRange.Start != 14 || q.AliasRange.End != 15 {
		t.Errorf("alias range = %+v, want 14-15", q.AliasRange)
	}
}

func TestParse_QuantifierDefaultAlias(t *testing.T) {
	node := mustParse(t, "all(items, item.ok)")
	q := node.(*ast.Quantifier)
	if q.Alias != "item" || q.AliasProvided {
		t.Errorf("alias = %q provided=%v, want item provided=false", q.Alias, q.AliasProvided)
	}
	if q.AliasRange != nil {
		t.Errorf("alias range = %+v, want nil for implicit alias", q.AliasRange)
	}
}

func TestParse_SomeAsPlainVariable(t *testing.T) {
	// some without a following paren is an ordinary identifier.
	node := mustParse(t, "some == 1")
	bin, ok := node.(*ast.Binary)
	if !ok {
		t.Fatalf("root = %#v, want binary", node)
	}
	if v, ok := bin.Left.(*ast.Variable); !ok || v.Path != "some" {
		t.Errorf("left = %#v, want variable some", bin.Left)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		code     diag.Code
		contains string
	}{
		{name: "empty", input: "", code: diag.CodeEmptyExpression},
		{name: "whitespace only", input: "  \n\t ", code: diag.CodeEmptyExpression},
		{name: "trailing garbage", input: "a == 1 b", code: diag.CodeSyntaxError, contains: `unexpected token "b"`},
		{name: "unclosed paren", input: "(a == 1", code: diag.CodeSyntaxError, contains: "closing parenthesis"},
		{name: "dangling operator", input: "a &&", code: diag.CodeSyntaxError, contains: "unexpected end"},
		{name: "lexer failure", input: "a # b", code: diag.CodeSyntaxError, contains: "unexpected character"},
		{name: "dotted alias", input: "some(items as a.b, a.b)", code: diag.CodeSyntaxError, contains: "simple identifier"},
		{name: "missing comma", input: "some(items x)", code: diag.CodeSyntaxError, contains: "comma"},
		{name: "missing operand", input: "a == ", code: diag.CodeSyntaxError, contains: "unexpected end"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, errs := Parse(tt.input)
			if node != nil || len(errs) != 1 {
				t.Fatalf("Parse(%q) = (%v, %v), want exactly one error", tt.input, node, errs)
			}
			if errs[0].Code != tt.code {
				t.Errorf("code = %q, want %q", errs[0].Code, tt.code)
			}
			if tt.contains != "" && !strings.Contains(errs[0].Message, tt.contains) {
				t.Errorf("message = %q, want substring %q", errs[0].Message, tt.contains)
			}
		})
	}
}

func TestParse_ErrorLineColumn(t *testing.T) {
	_, errs := Parse("a == 1 &&\nb == )")
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %v", errs)
	}
	if !strings.Contains(errs[0].Message, "line 2, column 6") {
		t.Errorf("message = %q, want line 2, column 6", errs[0].Message)
	}
}

func TestParse_DepthGuard(t *testing.T) {
	deep := strings.Repeat("(", MaxDepth+1) + "a" + strings.Repeat(")", MaxDepth+1)
	node, errs := Parse(deep)
	if node != nil || len(errs) != 1 {
		t.Fatalf("expected a single error for deep nesting, got (%v, %v)", node, errs)
	}
	if !strings.Contains(errs[0].Message, "nesting") {
		t.Errorf("message = %q, want nesting guard", errs[0].Message)
	}
}

func TestLineIndex_Position(t *testing.T) {
	ix := NewLineIndex("ab\ncd\n\nef")
	tests := []struct {
		offset int
		line   int
		column int
	}{
		{offset: 0, line: 1, column: 1},
		{offset: 2, line: 1, column: 3},
		{offset: 3, line: 2, column: 1},
		{offset: 4, line: 2, column: 2},
		{offset: 6, line: 3, column: 1},
		{offset: 7, line: 4, column: 1},
		{offset: 9, line: 4, column: 3},
	}
	for _, tt := range tests {
		line, column := ix.Position(tt.offset)
		if line != tt.line || column != tt.column {
			t.Errorf("Position(%d) = %d:%d, want %d:%d", tt.offset, line, column, tt.line, tt.column)
		}
	}
}
