package dsl

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"craftwell-hq/vega/pkg/catalog"
	"craftwell-hq/vega/pkg/dsl/diag"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	return catalog.New([]catalog.VariableDefinition{
		{Path: "facets.planKnobs.hookIntensity", Type: catalog.TypeNumber},
		{Path: "facets.planKnobs.variantCount", Type: catalog.TypeNumber},
		{Path: "score", Type: catalog.TypeNumber},
		{Path: "title", Type: catalog.TypeString},
		{Path: "published", Type: catalog.TypeBoolean},
		{Path: "items", Type: catalog.TypeArray},
	})
}

func variablePaths(defs []catalog.VariableDefinition) []string {
	paths := make([]string, len(defs))
	for i, def := range defs {
		paths[i] = def.Path
	}
	return paths
}

func TestParse_Scenario(t *testing.T) {
	cat := testCatalog(t)
	input := "facets.planKnobs.hookIntensity < 0.6 && facets.planKnobs.variantCount > 2"

	result := Parse(input, cat)
	if !result.OK {
		t.Fatalf("Parse errors = %v", result.Errors)
	}
	if result.Canonical != input {
		t.Errorf("canonical = %q, want input unchanged", result.Canonical)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", result.Warnings)
	}

	wantLogic := map[string]any{"and": []any{
		map[string]any{"<": []any{map[string]any{"var": "facets.planKnobs.hookIntensity"}, 0.6}},
		map[string]any{">": []any{map[string]any{"var": "facets.planKnobs.variantCount"}, 2.0}},
	}}
	if !reflect.DeepEqual(result.JSONLogic, wantLogic) {
		t.Errorf("jsonLogic = %#v, want %#v", result.JSONLogic, wantLogic)
	}

	wantPaths := []string{"facets.planKnobs.hookIntensity", "facets.planKnobs.variantCount"}
	if got := variablePaths(result.Variables); !reflect.DeepEqual(got, wantPaths) {
		t.Errorf("variables = %v, want %v", got, wantPaths)
	}
}

func TestParse_Errors(t *testing.T) {
	cat := testCatalog(t)
	tests := []struct {
		name       string
		expression string
		code       diag.Code
	}{
		{name: "blank", expression: "   ", code: diag.CodeEmptyExpression},
		{name: "syntax", expression: "score >", code: diag.CodeSyntaxError},
		{name: "unknown variable", expression: "unknownVar > 1", code: diag.CodeUnknownVariable},
		{name: "type mismatch", expression: "score == \"x\"", code: diag.CodeTypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Parse(tt.expression, cat)
			if result.OK {
				t.Fatalf("Parse(%q) unexpectedly ok", tt.expression)
			}
			if len(result.Errors) != 1 || result.Errors[0].Code != tt.code {
				t.Errorf("errors = %v, want one %q", result.Errors, tt.code)
			}
			if result.JSONLogic != nil || result.Canonical != "" {
				t.Errorf("failed parse must not produce artifacts: %+v", result)
			}
		})
	}
}

func TestParse_NoopTrueWarning(t *testing.T) {
	result := Parse("true", testCatalog(t))
	if !result.OK {
		t.Fatalf("Parse errors = %v", result.Errors)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Code != diag.CodeNoopTrue {
		t.Errorf("warnings = %v, want one noop_true", result.Warnings)
	}
}

func TestParse_VariablesDeduplicated(t *testing.T) {
	result := Parse("score > 1 || score < 0 || title == \"x\"", testCatalog(t))
	if !result.OK {
		t.Fatalf("Parse errors = %v", result.Errors)
	}
	want := []string{"score", "title"}
	if got := variablePaths(result.Variables); !reflect.DeepEqual(got, want) {
		t.Errorf("variables = %v, want %v", got, want)
	}
}

func TestParse_AliasReferencesExcluded(t *testing.T) {
	result := Parse("some(items as x, x.score > 1)", testCatalog(t))
	if !result.OK {
		t.Fatalf("Parse errors = %v", result.Errors)
	}
	want := []string{"items"}
	if got := variablePaths(result.Variables); !reflect.DeepEqual(got, want) {
		t.Errorf("variables = %v, want %v", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	cat := testCatalog(t)
	tests := []string{
		"score > 1 && (title == \"x\" || published)",
		"!(score > 1) || published == false",
		"some(items, item.score > 0.5) && all(items as x, x.flag != true)",
		"score == null",
	}
	for _, expression := range tests {
		t.Run(expression, func(t *testing.T) {
			first := Parse(expression, cat)
			if !first.OK {
				t.Fatalf("Parse errors = %v", first.Errors)
			}
			second := Parse(first.Canonical, cat)
			if !second.OK {
				t.Fatalf("reparse errors = %v", second.Errors)
			}
			if second.Canonical != first.Canonical {
				t.Errorf("render not idempotent: %q then %q", first.Canonical, second.Canonical)
			}
			if !reflect.DeepEqual(second.JSONLogic, first.JSONLogic) {
				t.Errorf("jsonLogic drifted across round-trip:\n%#v\n%#v", first.JSONLogic, second.JSONLogic)
			}
		})
	}
}

func TestToDSL(t *testing.T) {
	cat := testCatalog(t)

	expr := map[string]any{"and": []any{
		map[string]any{">": []any{map[string]any{"var": "score"}, 1.0}},
		map[string]any{"some": []any{
			map[string]any{"var": "items"},
			map[string]any{"==": []any{map[string]any{"var": "item.flag"}, true}},
		}},
	}}
	text, diags := ToDSL(expr, cat)
	if len(diags) > 0 {
		t.Fatalf("ToDSL diagnostics = %v", diags)
	}
	want := "score > 1 && some(items, item.flag == true)"
	if text != want {
		t.Errorf("ToDSL = %q, want %q", text, want)
	}
}

func TestToDSL_Invalid(t *testing.T) {
	cat := testCatalog(t)

	_, diags := ToDSL(map[string]any{"bogus": []any{1.0}}, cat)
	if len(diags) != 1 || diags[0].Code != diag.CodeInvalidJSONLogic {
		t.Fatalf("diagnostics = %v, want one invalid_json_logic", diags)
	}

	// Structurally valid JSON-Logic still fails catalog validation.
	_, diags = ToDSL(map[string]any{"==": []any{map[string]any{"var": "mystery"}, 1.0}}, cat)
	if len(diags) != 1 || diags[0].Code != diag.CodeUnknownVariable {
		t.Fatalf("diagnostics = %v, want one unknown_variable", diags)
	}
}

func TestNormalize(t *testing.T) {
	cat := testCatalog(t)

	t.Run("dsl input", func(t *testing.T) {
		result, err := Normalize(Input{DSL: "score > 1"}, cat)
		if err != nil {
			t.Fatalf("Normalize error = %v", err)
		}
		if result.CanonicalDSL == nil || *result.CanonicalDSL != "score > 1" {
			t.Errorf("canonicalDsl = %v, want %q", result.CanonicalDSL, "score > 1")
		}
		if len(result.Warnings) != 0 || len(result.Variables) != 1 {
			t.Errorf("result = %+v, want no warnings and one variable", result)
		}
	})

	t.Run("dsl wins over json logic", func(t *testing.T) {
		raw := map[string]any{"==": []any{map[string]any{"var": "title"}, "x"}}
		result, err := Normalize(Input{DSL: "score > 1", JSONLogic: raw}, cat)
		if err != nil {
			t.Fatalf("Normalize error = %v", err)
		}
		if result.CanonicalDSL == nil || *result.CanonicalDSL != "score > 1" {
			t.Errorf("canonicalDsl = %v, want the DSL form", result.CanonicalDSL)
		}
	})

	t.Run("json logic passthrough", func(t *testing.T) {
		raw := map[string]any{"==": []any{map[string]any{"var": "title"}, "x"}}
		result, err := Normalize(Input{JSONLogic: raw}, cat)
		if err != nil {
			t.Fatalf("Normalize error = %v", err)
		}
		if !reflect.DeepEqual(result.JSONLogic, raw) {
			t.Errorf("jsonLogic = %#v, want passthrough", result.JSONLogic)
		}
		if result.CanonicalDSL != nil {
			t.Errorf("canonicalDsl = %q, want nil", *result.CanonicalDSL)
		}
		if result.Warnings == nil || result.Variables == nil {
			t.Errorf("warnings and variables must be empty, not nil: %+v", result)
		}
	})

	t.Run("invalid dsl", func(t *testing.T) {
		_, err := Normalize(Input{DSL: "score >"}, cat)
		var verr *diag.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("error = %v, want *diag.ValidationError", err)
		}
		if len(verr.Diagnostics) != 1 || verr.Diagnostics[0].Code != diag.CodeSyntaxError {
			t.Errorf("diagnostics = %v, want one syntax_error", verr.Diagnostics)
		}
	})

	t.Run("neither form", func(t *testing.T) {
		_, err := Normalize(Input{}, cat)
		var verr *diag.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("error = %v, want *diag.ValidationError", err)
		}
		if len(verr.Diagnostics) != 1 || verr.Diagnostics[0].Code != diag.CodeEmptyExpression {
			t.Errorf("diagnostics = %v, want one empty_expression", verr.Diagnostics)
		}
		if !strings.Contains(err.Error(), "no DSL expression") {
			t.Errorf("error text = %q", err.Error())
		}
	})
}

func TestEvaluate_Facade(t *testing.T) {
	cat := testCatalog(t)
	result := Parse("facets.planKnobs.hookIntensity < 0.6", cat)
	if !result.OK {
		t.Fatalf("Parse errors = %v", result.Errors)
	}
	payload := map[string]any{
		"facets": map[string]any{"planKnobs": map[string]any{"hookIntensity": 0.4}},
	}
	res := Evaluate(result.JSONLogic, payload)
	if !res.OK || res.Result != true {
		t.Errorf("Evaluate = %+v, want ok=true result=true", res)
	}
	if got := res.ResolvedVariables["facets.planKnobs.hookIntensity"]; got != 0.4 {
		t.Errorf("resolved variable = %v, want 0.4", got)
	}
}
