package main

import (
	"os"
	"path/filepath"
	"testing"

	"craftwell-hq/vega/pkg/catalog"
)

func setCheckFlags(catalogPath, file, format string, strict bool) {
	checkFlags.catalogPath = catalogPath
	checkFlags.file = file
	checkFlags.format = format
	checkFlags.strict = strict
}

func TestCheckValidExpression(t *testing.T) {
	setCheckFlags("testdata/catalog.yaml", "", "text", false)

	err := checkExpressions(nil, []string{"facets.score > 0.5"})
	if err != nil {
		t.Errorf("checkExpressions() with valid expression returned error: %v", err)
	}
}

func TestCheckInvalidExpression(t *testing.T) {
	setCheckFlags("testdata/catalog.yaml", "", "text", false)

	err := checkExpressions(nil, []string{"unknown.var > 0.5"})
	if err == nil {
		t.Error("checkExpressions() with unknown variable should return error")
	}
}

func TestCheckStrictWarnings(t *testing.T) {
	setCheckFlags("testdata/catalog.yaml", "", "text", false)
	if err := checkExpressions(nil, []string{"true"}); err != nil {
		t.Errorf("noop expression without strict returned error: %v", err)
	}

	setCheckFlags("testdata/catalog.yaml", "", "text", true)
	if err := checkExpressions(nil, []string{"true"}); err == nil {
		t.Error("noop expression with strict should return error")
	}
}

func TestCheckNoExpressions(t *testing.T) {
	setCheckFlags("testdata/catalog.yaml", "", "text", false)

	if err := checkExpressions(nil, []string{}); err == nil {
		t.Error("checkExpressions() without input should return error")
	}
}

func TestCheckMissingCatalog(t *testing.T) {
	setCheckFlags("", "", "text", false)

	if err := checkExpressions(nil, []string{"facets.score > 0.5"}); err == nil {
		t.Error("checkExpressions() without catalog should return error")
	}
}

func TestCheckJSONFormat(t *testing.T) {
	setCheckFlags("testdata/catalog.yaml", "", "json", false)

	err := checkExpressions(nil, []string{"facets.score > 0.5"})
	if err != nil {
		t.Errorf("checkExpressions() with JSON format returned error: %v", err)
	}
}

func TestCheckExpressionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conditions.txt")
	body := "# routing conditions\nfacets.score > 0.5\n\npublished == true\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	setCheckFlags("testdata/catalog.yaml", path, "text", false)
	if err := checkExpressions(nil, nil); err != nil {
		t.Errorf("checkExpressions() with expression file returned error: %v", err)
	}
}

func TestReadExpressionLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conditions.txt")
	body := "# comment\nfacets.score > 0.5\n\n  published == true  \n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	lines, err := readExpressionLines(path)
	if err != nil {
		t.Fatalf("readExpressionLines() error: %v", err)
	}
	want := []string{"facets.score > 0.5", "published == true"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d: %v", len(lines), len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestCheckExpressionResult(t *testing.T) {
	cat, err := catalog.LoadFile("testdata/catalog.yaml")
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}

	tests := []struct {
		name       string
		expression string
		valid      bool
	}{
		{"comparison", "facets.score > 0.5", true},
		{"quantifier", "some(items, item.flag == true)", true},
		{"unknown variable", "missing.path == 1", false},
		{"type mismatch", `facets.score == "high"`, false},
		{"syntax error", "facets.score >", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := checkExpression(tt.expression, cat)
			if result.Valid != tt.valid {
				t.Errorf("Valid = %v, want %v (errors %v)", result.Valid, tt.valid, result.Errors)
			}
			if tt.valid && result.Canonical == "" {
				t.Error("valid expression should have canonical text")
			}
		})
	}
}
