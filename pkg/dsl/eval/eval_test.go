package eval

import (
	"reflect"
	"strings"
	"testing"
)

func v(path string) map[string]any { return map[string]any{"var": path} }

func TestEvaluate_Comparisons(t *testing.T) {
	payload := map[string]any{
		"score": 0.5,
		"title": "launch",
		"flag":  true,
		"count": 3.0,
	}

	tests := []struct {
		name string
		expr any
		want bool
	}{
		{name: "less than", expr: map[string]any{"<": []any{v("score"), 0.6}}, want: true},
		{name: "greater or equal", expr: map[string]any{">=": []any{v("count"), 3.0}}, want: true},
		{name: "strict equal string", expr: map[string]any{"==": []any{v("title"), "launch"}}, want: true},
		{name: "strict equal no coercion", expr: map[string]any{"==": []any{v("count"), "3"}}, want: false},
		{name: "not equal", expr: map[string]any{"!=": []any{v("flag"), false}}, want: true},
		{name: "ordering coerces strings", expr: map[string]any{">": []any{"10", 2.0}}, want: true},
		{name: "ordering coerces booleans", expr: map[string]any{">=": []any{true, 1.0}}, want: true},
		{name: "NaN comparisons are false", expr: map[string]any{">": []any{"abc", 0.0}}, want: false},
		{name: "missing path is null", expr: map[string]any{"==": []any{v("nope.deep"), nil}}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Evaluate(tt.expr, payload)
			if !res.OK {
				t.Fatalf("Evaluate error = %q", res.Error)
			}
			if res.Result != tt.want {
				t.Errorf("result = %v, want %v", res.Result, tt.want)
			}
		})
	}
}

func TestEvaluate_Truthiness(t *testing.T) {
	tests := []struct {
		name string
		expr any
		want bool
	}{
		{name: "zero is falsy", expr: 0.0, want: false},
		{name: "empty string is falsy", expr: "", want: false},
		{name: "null is falsy", expr: nil, want: false},
		{name: "empty array is truthy", expr: map[string]any{"var": "emptyList"}, want: true},
		{name: "empty object is truthy", expr: map[string]any{"var": "emptyObj"}, want: true},
		{name: "negation of truthy", expr: map[string]any{"!": "text"}, want: false},
		{name: "negation of falsy", expr: map[string]any{"!": []any{0.0}}, want: true},
	}

	payload := map[string]any{
		"emptyList": []any{},
		"emptyObj":  map[string]any{},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Evaluate(tt.expr, payload)
			if !res.OK {
				t.Fatalf("Evaluate error = %q", res.Error)
			}
			if res.Result != tt.want {
				t.Errorf("result = %v, want %v", res.Result, tt.want)
			}
		})
	}
}

func TestEvaluate_ShortCircuit(t *testing.T) {
	// The later operand quantifies over a non-array and would error if
	// evaluated; short-circuiting must prevent that.
	probe := map[string]any{"some": []any{v("notAnArray"), v("item")}}
	payload := map[string]any{"notAnArray": "oops"}

	andExpr := map[string]any{"and": []any{false, probe}}
	res := Evaluate(andExpr, payload)
	if !res.OK || res.Result != false {
		t.Errorf("and short-circuit: got %+v, want ok=true result=false", res)
	}

	orExpr := map[string]any{"or": []any{true, probe}}
	res = Evaluate(orExpr, payload)
	if !res.OK || res.Result != true {
		t.Errorf("or short-circuit: got %+v, want ok=true result=true", res)
	}

	// Without the deciding operand first, the probe must surface its error.
	res = Evaluate(probe, payload)
	if res.OK {
		t.Fatalf("probe alone should fail, got %+v", res)
	}
}

func TestEvaluate_Quantifiers(t *testing.T) {
	payload := map[string]any{
		"items": []any{
			map[string]any{"flag": false, "score": 0.2},
			map[string]any{"flag": true, "score": 0.9},
		},
	}

	tests := []struct {
		name string
		expr any
		want bool
	}{
		{
			name: "some finds a match",
			expr: map[string]any{"some": []any{v("items"), map[string]any{"==": []any{v("item.flag"), true}}}},
			want: true,
		},
		{
			name: "all fails on first miss",
			expr: map[string]any{"all": []any{v("items"), map[string]any{"==": []any{v("item.flag"), true}}}},
			want: false,
		},
		{
			name: "explicit alias",
			expr: map[string]any{"some": []any{v("items"), map[string]any{">": []any{v("x.score"), 0.5}}, "x"}},
			want: true,
		},
		{
			name: "alias without subpath binds the element",
			expr: map[string]any{"some": []any{v("items"), v("item")}},
			want: true,
		},
		{
			name: "missing collection quantifies over nothing",
			expr: map[string]any{"some": []any{v("absent"), true}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Evaluate(tt.expr, payload)
			if !res.OK {
				t.Fatalf("Evaluate error = %q", res.Error)
			}
			if res.Result != tt.want {
				t.Errorf("result = %v, want %v", res.Result, tt.want)
			}
		})
	}
}

func TestEvaluate_AllVacuousTruth(t *testing.T) {
	expr := map[string]any{"all": []any{v("items"), map[string]any{"==": []any{v("item"), 1.0}}}}
	res := Evaluate(expr, map[string]any{"items": []any{}})
	if !res.OK || res.Result != true {
		t.Errorf("all over empty array: got %+v, want ok=true result=true", res)
	}
}

func TestEvaluate_QuantifierTypeErrorSurfaced(t *testing.T) {
	expr := map[string]any{"some": []any{v("items"), v("item")}}
	res := Evaluate(expr, map[string]any{"items": "not an array"})
	if res.OK {
		t.Fatalf("expected failure, got %+v", res)
	}
	if !strings.Contains(res.Error, "some") || !strings.Contains(res.Error, "items") {
		t.Errorf("error = %q, want operator and path named", res.Error)
	}
	if !strings.Contains(res.Error, "string") {
		t.Errorf("error = %q, want offending type named", res.Error)
	}
}

func TestEvaluate_NestedScopes(t *testing.T) {
	payload := map[string]any{
		"groups": []any{
			map[string]any{
				"enabled": true,
				"items":   []any{map[string]any{"ok": true}},
			},
		},
	}
	expr := map[string]any{"some": []any{
		v("groups"),
		map[string]any{"all": []any{
			v("g.items"),
			map[string]any{"and": []any{v("item.ok"), v("g.enabled")}},
		}},
		"g",
	}}
	res := Evaluate(expr, payload)
	if !res.OK || res.Result != true {
		t.Errorf("nested scopes: got %+v, want ok=true result=true", res)
	}
}

func TestEvaluate_ResolvedVariables(t *testing.T) {
	payload := map[string]any{
		"facets": map[string]any{"score": 0.8},
		"items":  []any{map[string]any{"flag": true}},
	}
	expr := map[string]any{"and": []any{
		map[string]any{">": []any{v("facets.score"), 0.5}},
		map[string]any{"some": []any{v("items"), v("item.flag")}},
	}}
	res := Evaluate(expr, payload)
	if !res.OK || res.Result != true {
		t.Fatalf("got %+v, want success", res)
	}
	want := map[string]any{
		"facets.score": 0.8,
		"items":        []any{map[string]any{"flag": true}},
		"item.flag":    true,
	}
	if !reflect.DeepEqual(res.ResolvedVariables, want) {
		t.Errorf("resolved variables = %#v, want %#v", res.ResolvedVariables, want)
	}
}

func TestEvaluate_MalformedExpressions(t *testing.T) {
	tests := []struct {
		name     string
		expr     any
		contains string
	}{
		{name: "unknown operator", expr: map[string]any{"xor": []any{true}}, contains: "unsupported operator"},
		{name: "multi-key object", expr: map[string]any{"and": true, "or": true}, contains: "single-operator"},
		{name: "comparison arity", expr: map[string]any{"==": []any{1.0}}, contains: "2 operands"},
		{name: "bad var operand", expr: map[string]any{"var": 1.0}, contains: "path string"},
		{name: "empty var path", expr: map[string]any{"var": ""}, contains: "empty"},
		{name: "quantifier arity", expr: map[string]any{"all": []any{true}}, contains: "2 or 3"},
		{name: "bad alias", expr: map[string]any{"all": []any{[]any{}, true, 7.0}}, contains: "alias"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Evaluate(tt.expr, map[string]any{})
			if res.OK {
				t.Fatalf("Evaluate(%#v) expected failure", tt.expr)
			}
			if !strings.Contains(res.Error, tt.contains) {
				t.Errorf("error = %q, want substring %q", res.Error, tt.contains)
			}
		})
	}
}
