package audit

import (
	"errors"
	"time"
)

// Record is one audited condition evaluation: which route ran, what the
// walk returned, and the payload values it read.
type Record struct {
	ID                string
	Route             string
	OK                bool
	Result            bool
	Error             string
	ResolvedVariables map[string]any
	EvaluatedAt       time.Time
}

// Query filters audit records. Nil time bounds are open; a zero Limit
// returns everything matching.
type Query struct {
	Route string
	Since *time.Time
	Until *time.Time
	Limit int
}

// ErrClosed is returned from operations on a closed store.
var ErrClosed = errors.New("audit store is closed")
