package harness

import "sync/atomic"

// Generation wraps an atomically-swappable pointer to a table of type T,
// used by the HTM-simulated hash set to publish a freshly resized backing
// array. Adapted from the teacher's genring package, which rotates arena
// "generations" in and out on a schedule; here there is a single live
// generation at a time, swapped wholesale only once the resize holder has
// confirmed (via a reader-drain, not hardware rollback) that no in-flight
// transaction can still be touching the old array, matching spec.md §4.D's
// resize contract.
type Generation[T any] struct {
    ptr atomic.Pointer[T]
    id  atomic.Uint32
}

// NewGeneration constructs a Generation whose first live value is initial.
func NewGeneration[T any](initial *T) *Generation[T] {
    g := &Generation[T]{}
    g.ptr.Store(initial)
    return g
}

// Load returns the current live table. Safe for any number of concurrent
// callers, including callers racing a concurrent Publish.
func (g *Generation[T]) Load() *T {
    return g.ptr.Load()
}

// Publish installs next as the live generation and returns the new
// generation id. Must only be called while the resize holder's fallback
// lock is held.
func (g *Generation[T]) Publish(next *T) uint32 {
    g.ptr.Store(next)
    return g.id.Add(1)
}

// ID returns the current generation's id, incremented once per Publish.
// Used by pkg/htmset purely for reporting (the resize epoch a given
// operation observed); the reader-drain protocol in pkg/htmset is what
// actually prevents a transaction from straddling a resize, not this id.
func (g *Generation[T]) ID() uint32 {
    return g.id.Load()
}
