// Package ast provides Abstract Syntax Tree (AST) definitions for the Vega
// condition expression language.
//
// The AST represents a parsed condition expression, enabling validation,
// canonical rendering, and transcoding to the JSON-Logic wire form. Nodes
// parsed from source text carry byte ranges into the original expression for
// precise error reporting; nodes reconstructed from JSON-Logic carry nil
// ranges.
//
// # Core Types
//
// Node: the closed interface over all expression variants
//
// Literal: constant number, string, boolean, or null
//
// Variable: dotted-path reference to a catalog entry or quantifier alias
//
// Unary: "!" applied to a sub-expression
//
// Binary: "&&", "||", or a comparison between two sub-expressions
//
// Quantifier: "some"/"all" binding an alias over an array-typed variable
//
// Range: half-open byte span in the original expression text
package ast
