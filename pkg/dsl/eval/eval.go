package eval

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"craftwell-hq/vega/pkg/dsl/jsonlogic"
)

// Result is the outcome of evaluating a condition against a payload.
// ResolvedVariables records every var path the walk read, keyed by the
// path as written, for audit and trace surfaces.
type Result struct {
	OK                bool           `json:"ok"`
	Result            bool           `json:"result"`
	ResolvedVariables map[string]any `json:"resolvedVariables,omitempty"`
	Error             string         `json:"error,omitempty"`
}

// Evaluate tree-walks a JSON-Logic condition against a runtime payload.
// It never lets a failure escape as a panic: bad operand arity, malformed
// var nodes, and non-array quantifier collections all come back as
// ok:false with a message. The payload is read through dotted-path
// traversal only and never mutated.
func Evaluate(expr jsonlogic.Expression, payload map[string]any) (res Result) {
	e := &evaluator{payload: payload, resolved: make(map[string]any)}
	defer func() {
		if r := recover(); r != nil {
			res = Result{OK: false, Error: fmt.Sprintf("evaluation failed: %v", r)}
		}
	}()

	value, err := e.evaluate(expr, nil)
	if err != nil {
		return Result{OK: false, Error: err.Error()}
	}
	return Result{OK: true, Result: truthy(value), ResolvedVariables: e.resolved}
}

// scope is one frame of the quantifier alias chain, created fresh per
// iteration and discarded when the call tree unwinds.
type scope struct {
	value  any
	alias  string
	parent *scope
}

type evaluator struct {
	payload  map[string]any
	resolved map[string]any
}

func (e *evaluator) evaluate(v jsonlogic.Expression, sc *scope) (any, error) {
	switch value := v.(type) {
	case nil, bool, float64, string:
		return value, nil
	case int:
		return float64(value), nil
	case int64:
		return float64(value), nil
	case []any:
		// A bare array operand is a literal array value.
		return value, nil
	case map[string]any:
		return e.operator(value, sc)
	}
	return nil, fmt.Errorf("unsupported expression of type %T", v)
}

func (e *evaluator) operator(obj map[string]any, sc *scope) (any, error) {
	if len(obj) != 1 {
		return nil, fmt.Errorf("expected a single-operator object, got %d keys", len(obj))
	}
	var op string
	var operand any
	for k, v := range obj {
		op, operand = k, v
	}

	switch op {
	case "var":
		return e.resolveVar(operand, sc)

	case "and":
		// Short-circuit is required, not an optimization: later operands
		// may be quantifiers over values that only make sense when the
		// earlier operands held.
		for _, item := range asOperands(operand) {
			value, err := e.evaluate(item, sc)
			if err != nil {
				return nil, err
			}
			if !truthy(value) {
				return false, nil
			}
		}
		return true, nil

	case "or":
		for _, item := range asOperands(operand) {
			value, err := e.evaluate(item, sc)
			if err != nil {
				return nil, err
			}
			if truthy(value) {
				return true, nil
			}
		}
		return false, nil

	case "!":
		value, err := e.evaluate(unwrapSingle(operand), sc)
		if err != nil {
			return nil, err
		}
		return !truthy(value), nil

	case "==", "!=", ">", ">=", "<", "<=":
		return e.compare(op, operand, sc)

	case "some", "all":
		return e.quantify(op, operand, sc)
	}
	return nil, fmt.Errorf("unsupported operator %q", op)
}

func (e *evaluator) compare(op string, operand any, sc *scope) (any, error) {
	operands, ok := operand.([]any)
	if !ok || len(operands) != 2 {
		return nil, fmt.Errorf("operator %q requires exactly 2 operands", op)
	}
	left, err := e.evaluate(operands[0], sc)
	if err != nil {
		return nil, err
	}
	right, err := e.evaluate(operands[1], sc)
	if err != nil {
		return nil, err
	}

	switch op {
	case "==":
		return strictEqual(left, right), nil
	case "!=":
		return !strictEqual(left, right), nil
	}

	// Ordering coerces both sides to numbers; comparisons against NaN are
	// false, matching the reference semantics.
	l, r := toNumber(left), toNumber(right)
	switch op {
	case ">":
		return l > r, nil
	case ">=":
		return l >= r, nil
	case "<":
		return l < r, nil
	default:
		return l <= r, nil
	}
}

func (e *evaluator) quantify(op string, operand any, sc *scope) (any, error) {
	operands, ok := operand.([]any)
	if !ok || len(operands) < 2 || len(operands) > 3 {
		return nil, fmt.Errorf("operator %q requires 2 or 3 operands", op)
	}

	collection, err := e.evaluate(operands[0], sc)
	if err != nil {
		return nil, err
	}
	// Missing collections quantify over nothing; any other non-array is a
	// hard evaluation error naming the operator and, when derivable, the
	// source path.
	if collection == nil {
		collection = []any{}
	}
	items, ok := collection.([]any)
	if !ok {
		if path := varPath(operands[0]); path != "" {
			return nil, fmt.Errorf("operator %q expects an array at %q, got %s", op, path, typeName(collection))
		}
		return nil, fmt.Errorf("operator %q expects an array collection, got %s", op, typeName(collection))
	}

	alias := "item"
	if len(operands) == 3 {
		s, ok := operands[2].(string)
		if !ok || s == "" {
			return nil, fmt.Errorf("operator %q alias must be a non-empty string", op)
		}
		alias = s
	}

	for _, item := range items {
		child := &scope{value: item, alias: alias, parent: sc}
		value, err := e.evaluate(operands[1], child)
		if err != nil {
			return nil, err
		}
		if op == "some" && truthy(value) {
			return true, nil
		}
		if op == "all" && !truthy(value) {
			return false, nil
		}
	}
	// some over nothing is false; all over nothing is vacuously true.
	return op == "all", nil
}

// resolveVar resolves a var node, checking the alias scope chain innermost
// to outermost before falling back to the top-level payload. Every read is
// recorded under its original path string.
func (e *evaluator) resolveVar(operand any, sc *scope) (any, error) {
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

	value := e.lookup(path, sc)
	e.resolved[path] = value
	return value, nil
}

func (e *evaluator) lookup(path string, sc *scope) any {
	for s := sc; s != nil; s = s.parent {
		if path == s.alias {
			return s.value
		}
		if strings.HasPrefix(path, s.alias+".") {
			value, found := lookupPath(s.value, path[len(s.alias)+1:])
			if found {
				return value
			}
			// The alias claims the path even when the element lacks the
			// field; it does not leak through to the payload.
			return nil
		}
	}
	value, _ := lookupPath(e.payload, path)
	return value
}

// lookupPath traverses nested maps by dotted path.
func lookupPath(root any, path string) (any, bool) {
	current := root
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// asOperands treats a bare operand as a one-element operand list, as
// JSON-Logic producers emit both forms for and/or.
func asOperands(operand any) []any {
	if arr, ok := operand.([]any); ok {
		return arr
	}
	return []any{operand}
}

func unwrapSingle(operand any) any {
	if arr, ok := operand.([]any); ok && len(arr) == 1 {
		return arr[0]
	}
	return operand
}

// truthy replicates the reference falsy set exactly: false, 0, NaN, the
// empty string, and null are falsy; everything else, including empty arrays
// and objects, is truthy.
func truthy(v any) bool {
	switch value := v.(type) {
	case nil:
		return false
	case bool:
		return value
	case float64:
		return value != 0 && !math.IsNaN(value)
	case string:
		return value != ""
	default:
		return true
	}
}

// strictEqual compares without coercion: values of different types are
// never equal, and composite values are never equal to anything.
func strictEqual(a, b any) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case float64:
		y, ok := b.(float64)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	default:
		return false
	}
}

// toNumber coerces a value for ordering comparisons: null is 0, booleans
// are 0/1, strings parse as decimal (an empty or blank string is 0),
// everything else is NaN.
func toNumber(v any) float64 {
	switch value := v.(type) {
	case nil:
		return 0
	case bool:
		if value {
			return 1
		}
		return 0
	case float64:
		return value
	case string:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return 0
		}
		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return n
	default:
		return math.NaN()
	}
}

// varPath extracts the source path of a var operand for error messages.
func varPath(operand any) string {
	obj, ok := operand.(map[string]any)
	if !ok || len(obj) != 1 {
		return ""
	}
	raw, ok := obj["var"]
	if !ok {
		return ""
	}
	switch v := raw.(type) {
	case string:
		return v
	case []any:
		if len(v) == 1 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
	}
	return ""
}

// typeName names a runtime value the way expression authors think of it.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
