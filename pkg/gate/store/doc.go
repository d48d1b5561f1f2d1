// Package store persists compiled conditions.
//
// A ConditionRecord carries both forms of a condition: the canonical DSL
// text for humans and the JSON-Logic the engine evaluates. SQLiteStore is
// the durable implementation; MemoryStore backs tests and ephemeral use.
package store
