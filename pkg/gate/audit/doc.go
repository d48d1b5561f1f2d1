// Package audit persists an evaluation audit trail.
//
// Every condition evaluation the gate engine performs can be recorded:
// route, outcome, error, and the payload values the condition read. The
// Store implements the engine's Recorder interface directly. A Pruner
// enforces retention on a cron schedule.
package audit
