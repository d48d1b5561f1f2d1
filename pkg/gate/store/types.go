package store

import (
	"context"
	"errors"
	"time"

	"craftwell-hq/vega/pkg/dsl/jsonlogic"
)

// ConditionRecord is a persisted condition: the canonical DSL text authored
// by a human and the compiled JSON-Logic the engine evaluates.
type ConditionRecord struct {
	ID        string
	Name      string
	DSL       string
	JSONLogic jsonlogic.Expression
	CreatedAt time.Time
	UpdatedAt time.Time
}

var (
	// ErrNotFound is returned when no record has the requested ID or name.
	ErrNotFound = errors.New("condition not found")

	// ErrDuplicateName is returned when saving a new record under an
	// already-used name.
	ErrDuplicateName = errors.New("condition name already in use")
)

// Store is the persisted conditions repository. Save assigns an ID and
// CreatedAt on first save and bumps UpdatedAt on every save.
type Store interface {
	Save(ctx context.Context, record *ConditionRecord) error
	Get(ctx context.Context, id string) (*ConditionRecord, error)
	GetByName(ctx context.Context, name string) (*ConditionRecord, error)
	List(ctx context.Context) ([]*ConditionRecord, error)
	Delete(ctx context.Context, id string) error
	Close() error
}
