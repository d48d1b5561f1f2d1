// Package jsonlogic converts between the condition expression AST and its
// JSON-Logic wire form, in both directions.
//
// The JSON-Logic form is the long-lived artifact: it is what gets persisted
// and transmitted, and what the evaluator consumes. FromAST produces it from
// a validated AST; ToAST reconstructs an AST (with nil source ranges) from
// imported JSON-Logic so it can be re-validated and rendered back to
// canonical DSL text.
//
// Round-trip guarantees: re-encoding ToAST(FromAST(ast)) yields a
// structurally equal expression, and parsing the canonical rendering of an
// AST reproduces the AST's JSON-Logic exactly.
package jsonlogic
