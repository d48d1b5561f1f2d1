// Package render pretty-prints condition expression ASTs back to canonical
// DSL source text.
//
// The output is the unique, minimally parenthesized form: a sub-expression
// is grouped only when operator precedence or associativity requires it.
// Same-operator && and || chains never group; every other equal-precedence
// pairing does. Rendering is the inverse of parsing for any AST the parser
// can produce.
package render
