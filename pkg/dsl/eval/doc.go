// Package eval executes compiled JSON-Logic conditions against runtime
// payloads.
//
// Evaluation is synchronous, allocation-local, and side-effect free over its
// inputs, so concurrent calls need no locking. and/or short-circuit;
// some/all bind their alias in a fresh scope frame per element, with
// lookups walking the scope chain innermost to outermost before reading the
// payload. Every variable read is collected into the result for audit
// surfaces.
//
// Failures never escape as panics: malformed expressions and non-array
// quantifier collections come back as ok:false results with a message.
package eval
