package harness

import "sync/atomic"

// TryLock is the fallback spinlock used by the HTM-simulated hash set
// (component D). It is a direct port of the original TryLock struct's
// tryAcquire/release/isHeld surface: a single CAS-guarded bool, never an OS
// mutex, because every transactional reader needs to observe "is the lock
// held" as a plain atomic load without blocking.
type TryLock struct {
    held atomic.Bool
}

// TryAcquire attempts to take the lock, returning false immediately if it is
// already held (no spinning inside TryAcquire itself — callers that want to
// wait loop on their own, exactly as the original's call sites do).
func (l *TryLock) TryAcquire() bool {
    return l.held.CompareAndSwap(false, true)
}

// Release drops the lock. The caller must currently hold it.
func (l *TryLock) Release() {
    l.held.Store(false)
}

// IsHeld reports whether the lock is currently held by any thread. This is
// the read that a simulated transaction includes in its read-set: observing
// true mid-transaction means a pessimistic acquirer is active and the
// transaction must abort.
func (l *TryLock) IsHeld() bool {
    return l.held.Load()
}

// Acquire blocks (spinning) until the lock is free and then takes it.
func (l *TryLock) Acquire() {
    for !l.TryAcquire() {
        // spin; the critical sections guarded by this lock are short
        // (a single set operation or a resize), so no backoff is used.
    }
}
