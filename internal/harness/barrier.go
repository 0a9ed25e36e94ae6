package harness

import "sync/atomic"

// Barrier implements the custom start/stop coordination the original
// benchmarks hand-roll around worker threads: every worker signals readiness
// by calling WorkerReady, then spins on WaitToStart until the coordinator
// calls Release, then loops until IsDone reports true (set by whichever
// worker first notices the time budget has elapsed) and finally calls
// WorkerDone on its way out. Deliberately spin-based rather than
// channel-based — the same "at most one more operation per thread after the
// deadline" semantics the original relies on.
type Barrier struct {
    running atomic.Int32
    start   atomic.Bool
    done    atomic.Bool
}

// WorkerReady signals that one more worker has reached the barrier.
func (b *Barrier) WorkerReady() { b.running.Add(1) }

// WorkerDone signals that one worker has finished its run loop.
func (b *Barrier) WorkerDone() { b.running.Add(-1) }

// WaitToStart spins until Release has been called.
func (b *Barrier) WaitToStart() {
    for !b.start.Load() {
    }
}

// IsDone reports whether any worker has already flagged the run as over.
func (b *Barrier) IsDone() bool { return b.done.Load() }

// SetDone flags the run as over; idempotent, safe from multiple workers.
func (b *Barrier) SetDone() { b.done.Store(true) }

// WaitForWorkers spins until n workers have called WorkerReady.
func (b *Barrier) WaitForWorkers(n int) {
    for b.running.Load() < int32(n) {
    }
}

// Release lets every worker past WaitToStart.
func (b *Barrier) Release() { b.start.Store(true) }

// WaitForQuiescence spins until every ready worker has called WorkerDone.
func (b *Barrier) WaitForQuiescence() {
    for b.running.Load() > 0 {
    }
}
