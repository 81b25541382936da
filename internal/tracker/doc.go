// Package tracker holds the calorie-tracking state for nosh: the daily
// goal and the ordered food log.
//
// # Overview
//
// Store is the single authoritative owner of both values. Consumers read
// through Snapshot, which returns a defensive copy, and mutate through
// exactly three operations: SetGoal, AddEntry, and RemoveEntry. Each
// operation validates its input, applies the change, and writes the
// touched slot through its persistent cell in one mutex-guarded step, so
// no caller ever observes a partially updated state.
//
// # Validation
//
// Invalid input is never an error the caller has to handle. The
// operation simply does not change state and a diagnostic is logged:
//
//	store.SetGoal(-5)       // goal unchanged, warning logged
//	store.AddEntry("  ", 0) // log unchanged, warning logged
//
// The UI runs the same validators (IsPositiveNumber, IsNonEmptyString,
// IsCalorieCount) for inline feedback, but the store re-checks every
// input; the guards here are the ones that count.
//
// # Persistence
//
// The goal and the log occupy two independently keyed JSON slots. Writes
// are best-effort: a failed write leaves in-memory state authoritative
// and logs a diagnostic. On startup each slot that is missing or
// undecodable falls back to its default (goal 2000, empty log) without
// affecting the other slot.
//
// # Change notification
//
// Subscribe registers a plain callback that fires after every successful
// mutation and after any Reload that changed state. The UI uses this to
// refresh without polling; the fsnotify watcher uses Reload to pick up
// external edits to the data directory.
package tracker
