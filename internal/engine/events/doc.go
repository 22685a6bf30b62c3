// Package events provides the small observer-dispatch primitive shared by
// every layer of the engine that needs to notify dependents of a change:
// the byte buffer's begin_edit/end_edit pair, the interpretation layer's
// per-modification and end-of-edit notifications, and any future
// registry that wants the same ordering guarantees.
//
// It deliberately is not a general pub/sub library. Each publisher owns a
// Sink[T] typed to its own payload struct and calls Publish directly from
// the thread performing the edit; there is no queue, no goroutine, and no
// cross-event routing. This matches the single-threaded, cooperative
// scheduling model described for the engine: all mutation and all
// observer callbacks run on the thread that initiated the edit.
//
// # Ordering and safety
//
// Handlers within one Sink fire in registration order. A Sink snapshots
// its handler slice before dispatch, so a handler that adds or removes
// another handler during dispatch never perturbs the current round — the
// mutation takes effect starting with the next Publish. Handler
// registration returns an opaque Token, comparable for equality, used
// only to remove that handler later via Remove.
package events
