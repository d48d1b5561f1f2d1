// Package dsl is the entry point to the Vega condition expression engine.
//
// The engine is a small expression language for gating and routing
// decisions over marketing-content payloads:
//
//	facets.score >= 0.7 && some(items as x, x.flag == true)
//
// Expressions are tokenized and parsed into an AST (pkg/dsl/parser),
// statically validated against a typed variable catalog (pkg/dsl/validator,
// pkg/catalog), compiled to a JSON-Logic wire form (pkg/dsl/jsonlogic),
// rendered back to canonical source text (pkg/dsl/render), and evaluated
// against runtime payloads with scoped quantifier aliases (pkg/dsl/eval).
//
// This package ties the pipeline together:
//
//	result := dsl.Parse(`facets.score >= 0.7`, cat)
//	if !result.OK {
//	    // result.Errors carries structured diagnostics
//	}
//	// result.JSONLogic is the persisted artifact; evaluate it later:
//	outcome := dsl.Evaluate(result.JSONLogic, payload)
//
// Everything is synchronous and pure over its inputs: concurrent calls are
// safe with no locking. The catalog is the only shared object and is
// treated as read-only for the duration of a call.
package dsl
