package htmset

import (
    "sync/atomic"

    "github.com/Voskan/lockfree-kcas/internal/harness"
)

// rwGate is the closest honest Go equivalent of the hardware rollback a
// real HTM transaction would give the original algorithm for free: since a
// completed atomic.Int64.CompareAndSwap cannot be rolled back, a resize must
// instead wait until every in-flight transactional operation has finished
// touching the old table before it may replace it. Registering as a reader
// and checking the fallback lock's held-state (in that order) is the
// "read-set" a simulated transaction carries; draining readers to zero
// before rebuilding is what makes the swap safe without real hardware
// support.
type rwGate struct {
    readers atomic.Int32
}

// enter registers the caller as an in-flight transactional reader/writer of
// the current table generation. Returns false (and does not register) if
// the fallback lock is currently held — the simulated-transaction abort.
func (g *rwGate) enter(lock *harness.TryLock) bool {
    g.readers.Add(1)
    if lock.IsHeld() {
        g.readers.Add(-1)
        return false
    }
    return true
}

func (g *rwGate) leave() {
    g.readers.Add(-1)
}

// drain spins until no transactional operation is in flight. Must only be
// called after the fallback lock has been acquired, so no new operation can
// successfully enter() in the meantime.
func (g *rwGate) drain() {
    for g.readers.Load() > 0 {
    }
}
