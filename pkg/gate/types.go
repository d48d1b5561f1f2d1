package gate

import (
	"time"

	"craftwell-hq/vega/pkg/dsl/jsonlogic"
)

// Route is a named routing rule: a compiled condition and the target that
// wins when the condition matches.
type Route struct {
	// Name identifies the route in logs, metrics, and audit records.
	Name string

	// Priority orders evaluation; lower values are evaluated first.
	Priority int

	// Target is the destination handed back when the route matches.
	Target string

	// DSL is the canonical condition text, kept for introspection.
	DSL string

	// Condition is the compiled JSON-Logic evaluated against payloads.
	Condition jsonlogic.Expression
}

// Decision is the outcome of a Decide call.
type Decision struct {
	// Matched reports whether any route's condition held.
	Matched bool

	// Route is the name of the winning route, empty when nothing matched.
	Route string

	// Target is the winning route's target.
	Target string

	// ResolvedVariables records the payload values the winning condition
	// read, for audit.
	ResolvedVariables map[string]any

	// EvaluationTime is how long the full decision took.
	EvaluationTime time.Duration
}

// FailMode selects what Decide does when a condition errors at runtime.
type FailMode string

const (
	// FailSkip treats an erroring condition as a miss and keeps walking.
	FailSkip FailMode = "skip"

	// FailStop aborts the decision and surfaces the evaluation error.
	FailStop FailMode = "stop"
)

// Config configures the gate engine.
type Config struct {
	// FailMode is applied when a condition errors (default: skip).
	FailMode FailMode

	// Timeout bounds a full Decide call (default: 50ms).
	Timeout time.Duration
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		FailMode: FailSkip,
		Timeout:  50 * time.Millisecond,
	}
}
