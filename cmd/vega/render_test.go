package main

import (
	"os"
	"path/filepath"
	"testing"
)

func setRenderFlags(catalogPath, file string) {
	renderFlags.catalogPath = catalogPath
	renderFlags.file = file
}

func TestRenderArgument(t *testing.T) {
	setRenderFlags("testdata/catalog.yaml", "")

	err := renderJSONLogic(nil, []string{`{">": [{"var": "facets.score"}, 0.5]}`})
	if err != nil {
		t.Errorf("renderJSONLogic() with valid JSON-Logic returned error: %v", err)
	}
}

func TestRenderFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "condition.json")
	body := `{"and": [{">": [{"var": "facets.score"}, 0.5]}, {"==": [{"var": "published"}, true]}]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	setRenderFlags("testdata/catalog.yaml", path)
	if err := renderJSONLogic(nil, nil); err != nil {
		t.Errorf("renderJSONLogic() with file returned error: %v", err)
	}
}

func TestRenderUnknownVariable(t *testing.T) {
	setRenderFlags("testdata/catalog.yaml", "")

	if err := renderJSONLogic(nil, []string{`{">": [{"var": "missing.path"}, 1]}`}); err == nil {
		t.Error("renderJSONLogic() with unknown variable should return error")
	}
}

func TestRenderInvalidJSON(t *testing.T) {
	setRenderFlags("testdata/catalog.yaml", "")

	if err := renderJSONLogic(nil, []string{`{">": [`}); err == nil {
		t.Error("renderJSONLogic() with malformed JSON should return error")
	}
}

func TestRenderMissingInput(t *testing.T) {
	setRenderFlags("testdata/catalog.yaml", "")

	if err := renderJSONLogic(nil, nil); err == nil {
		t.Error("renderJSONLogic() without input should return error")
	}
}

func TestRenderMissingCatalog(t *testing.T) {
	setRenderFlags("", "")

	if err := renderJSONLogic(nil, []string{`{">": [{"var": "facets.score"}, 0.5]}`}); err == nil {
		t.Error("renderJSONLogic() without catalog should return error")
	}
}
