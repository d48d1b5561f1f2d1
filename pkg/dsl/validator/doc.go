// Package validator checks condition expression ASTs against a variable
// catalog.
//
// Validation is a pure, accumulating pass: it walks the whole tree and
// reports every applicable finding instead of stopping at the first. The
// checks are:
//
//   - every variable path must be declared in the catalog, unless it refers
//     to an enclosing quantifier alias (those paths are element-shaped and
//     opaque to the catalog)
//   - a comparison operator must be in the allowlist of every catalog
//     variable it touches
//   - literal operands must be type-compatible with the catalog variables
//     they compare against (null compares with anything, arrays with
//     nothing), and variable-to-variable comparisons require identical
//     declared types
//   - a quantifier's collection must be a bare variable reference of array
//     type, and its predicate must reference the bound alias somewhere
//
// Diagnostics carry the most specific source range available: the operator
// range for comparison findings, the collection or predicate range for
// quantifier findings.
package validator
