// Package diag defines the structured diagnostics produced by the condition
// expression parser and validator.
//
// Failures are collected, not thrown: parse-time and validation-time findings
// accumulate into a List and are returned in a discriminated result. All
// diagnostics are non-fatal and deterministic; a failure is definitionally
// caused by bad input, so the correct caller response is to surface the
// diagnostics to whoever authored the expression, not to retry.
//
// ValidationError is the single thin error type for callers that prefer
// throw/catch-style handling at the boundary.
package diag
