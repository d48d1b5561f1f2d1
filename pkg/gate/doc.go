// Package gate routes payloads by evaluating compiled conditions.
//
// # Core Types
//
//   - Route: a named, prioritized condition with a target
//   - Engine: walks routes in priority order, first match wins
//   - Decision: the outcome, carrying the resolved variables for audit
//
// # Usage
//
//	routes, err := gate.LoadRules("rules.yaml", cat)
//	engine, err := gate.NewEngine(gate.DefaultConfig(), routes, nil, collector)
//	decision, err := engine.Decide(ctx, payload)
//
// Conditions are authored in DSL text inside the rules file and compiled
// against the variable catalog at load time; the engine only ever sees
// JSON-Logic. Runtime condition errors follow the configured FailMode:
// FailSkip treats the route as a miss, FailStop aborts the decision.
package gate
