package jsonlogic

import (
	"fmt"
	"strings"

	"craftwell-hq/vega/pkg/catalog"
	"craftwell-hq/vega/pkg/dsl/ast"
)

// maxDepth bounds nesting while reconstructing an AST from JSON-Logic, the
// same guard the parser applies to source text.
const maxDepth = 100

// ToAST reconstructs an expression AST from its JSON-Logic form. All node
// ranges are nil: imported JSON-Logic has no source text behind it.
//
// N-ary and/or operand arrays fold pairwise into a left-associative binary
// chain. Inside a quantifier predicate, a var path that is neither a catalog
// key nor alias-prefixed is rewritten to "<alias>.<path>". That rewrite is a
// deliberate compatibility shim for producers that emit element-relative
// paths without the alias prefix the DSL syntax requires; it can mask a
// genuinely unknown variable inside a quantifier, so do not remove it
// without auditing stored conditions.
func ToAST(expr Expression, cat *catalog.Catalog) (ast.Node, error) {
	d := &decoder{cat: cat}
	return d.node(expr)
}

type decoder struct {
	cat     *catalog.Catalog
	aliases []string
	depth   int
}

func (d *decoder) node(v Expression) (ast.Node, error) {
	d.depth++
	defer func() { d.depth-- }()
	if d.depth > maxDepth {
		return nil, fmt.Errorf("expression nesting exceeds %d levels", maxDepth)
	}

	switch value := v.(type) {
	case nil:
		return &ast.Literal{Value: nil}, nil
	case bool:
		return &ast.Literal{Value: value}, nil
	case string:
		return &ast.Literal{Value: value}, nil
	case float64:
		return &ast.Literal{Value: value}, nil
	case int:
		return &ast.Literal{Value: float64(value)}, nil
	case int64:
		return &ast.Literal{Value: float64(value)}, nil
	case map[string]any:
		return d.operator(value)
	}
	return nil, fmt.Errorf("unsupported JSON-Logic value of type %T", v)
}

func (d *decoder) operator(obj map[string]any) (ast.Node, error) {
	if len(obj) != 1 {
		return nil, fmt.Errorf("expected a single-operator object, got %d keys", len(obj))
	}
	var op string
	var operand any
	for k, v := range obj {
		op, operand = k, v
	}

	switch op {
	case opVar:
		return d.variable(operand)

	case opNot:
		arg, err := d.node(unwrapSingle(operand))
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Operator: ast.OperatorNot, Argument: arg}, nil

	case opAnd, opOr:
		return d.logical(op, operand)

	case "==", "!=", ">", ">=", "<", "<=":
		operands, ok := operand.([]any)
		if !ok || len(operands) != 2 {
			return nil, fmt.Errorf("operator %q requires exactly 2 operands", op)
		}
		left, err := d.node(operands[0])
		if err != nil {
			return nil, err
		}
		right, err := d.node(operands[1])
		if err != nil {
			return nil, err
		}
		return &ast.Binary{Operator: ast.BinaryOperator(op), Left: left, Right: right}, nil

	case string(ast.QuantifierSome), string(ast.QuantifierAll):
		return d.quantifier(op, operand)
	}
	return nil, fmt.Errorf("unsupported operator %q", op)
}

func (d *decoder) logical(op string, operand any) (ast.Node, error) {
	operands, ok := operand.([]any)
	if !ok {
		// A bare operand is a degenerate one-element chain.
		operands = []any{operand}
	}
	if len(operands) == 0 {
		return nil, fmt.Errorf("operator %q requires at least one operand", op)
	}

	binOp := ast.OperatorAnd
	if op == opOr {
		binOp = ast.OperatorOr
	}

	left, err := d.node(operands[0])
	if err != nil {
		return nil, err
	}
	for _, rest := range operands[1:] {
		right, err := d.node(rest)
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Operator: binOp, Left: left, Right: right}
	}
	return left, nil
}

func (d *decoder) quantifier(op string, operand any) (ast.Node, error) {
	operands, ok := operand.([]any)
	if !ok || len(operands) < 2 || len(operands) > 3 {
		return nil, fmt.Errorf("operator %q requires 2 or 3 operands", op)
	}

	alias := ast.DefaultAlias
	aliasProvided := false
	if len(operands) == 3 {
		s, ok := operands[2].(string)
		if !ok || s == "" {
			return nil, fmt.Errorf("operator %q alias must be a non-empty string", op)
		}
		if strings.Contains(s, ".") {
			return nil, fmt.Errorf("operator %q alias must be a simple identifier, got %q", op, s)
		}
		alias = s
		aliasProvided = true
	}

	collection, err := d.node(operands[0])
	if err != nil {
		return nil, err
	}

	// The alias scopes the predicate only, not the collection.
	d.aliases = append(d.aliases, alias)
	predicate, err := d.node(operands[1])
	d.aliases = d.aliases[:len(d.aliases)-1]
	if err != nil {
		return nil, err
	}

	return &ast.Quantifier{
		Operator:      ast.QuantifierOperator(op),
		Collection:    collection,
		Predicate:     predicate,
		Alias:         alias,
		AliasProvided: aliasProvided,
	}, nil
}

func (d *decoder) variable(operand any) (ast.Node, error) {
	var path string
	switch v := operand.(type) {
	case string:
		path = v
	case []any:
		if len(v) != 1 {
			return nil, fmt.Errorf("var requires a path string or one-element array, got %d elements", len(v))
		}
		s, ok := v[0].(string)
		if !ok {
			return nil, fmt.Errorf("var path must be a string, got %T", v[0])
		}
		path = s
	default:
		return nil, fmt.Errorf("var requires a path string, got %T", operand)
	}
	if path == "" {
		return nil, fmt.Errorf("var path cannot be empty")
	}
	return &ast.Variable{Path: d.resolvePath(path)}, nil
}

// resolvePath keeps catalog keys and alias-relative paths as-is, and
// rewrites anything else inside a quantifier scope to be relative to the
// innermost alias (the compatibility shim described on ToAST).
func (d *decoder) resolvePath(path string) string {
	if _, ok := d.cat.Lookup(path); ok {
		return path
	}
	for i := len(d.aliases) - 1; i >= 0; i-- {
		alias := d.aliases[i]
		if path == alias || strings.HasPrefix(path, alias+".") {
			return path
		}
	}
	if len(d.aliases) > 0 {
		return d.aliases[len(d.aliases)-1] + "." + path
	}
	return path
}

// unwrapSingle unwraps a one-element operand array; JSON-Logic producers
// emit both {"!": x} and {"!": [x]}.
func unwrapSingle(operand any) any {
	if arr, ok := operand.([]any); ok && len(arr) == 1 {
		return arr[0]
	}
	return operand
}
