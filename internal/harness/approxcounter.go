package harness

import "sync/atomic"

// DefaultDrainThreshold is the default per-thread shard size (in population
// units) at which a shard is folded into the shared total, per spec.md §3's
// example value of 5000.
const DefaultDrainThreshold = 5000

// ApproxCounter is the distributed population estimator used by the
// HTM-simulated hash set to decide when to resize without forcing every
// insert to contend on a single shared counter. Each thread accumulates into
// its own shard; once a shard reaches drainThreshold, it is folded into the
// shared total. Invariant (spec.md §3): approxTotal <= trueCount <=
// approxTotal + numThreads*drainThreshold.
type ApproxCounter struct {
    shards    []paddedCounter
    total     atomic.Int64
    threshold int64
}

// NewApproxCounter allocates a counter with one shard per thread and the
// given drain threshold.
func NewApproxCounter(numThreads int, drainThreshold int64) *ApproxCounter {
    if drainThreshold <= 0 {
        drainThreshold = DefaultDrainThreshold
    }
    return &ApproxCounter{
        shards:    make([]paddedCounter, numThreads),
        threshold: drainThreshold,
    }
}

// Inc records one additional live element attributed to thread tid, draining
// the shard into the shared total once it crosses the threshold, and returns
// the (possibly stale) shared total — mirroring the original Hlock::inc,
// whose return value is read by callers that want a quick "is it time to
// resize" estimate without a second method call.
func (c *ApproxCounter) Inc(tid int) int64 {
    v := c.shards[tid].v.Add(1)
    if v >= c.threshold {
        c.shards[tid].v.Add(-v)
        return c.total.Add(v)
    }
    return c.total.Load()
}

// Read returns the current shared total (an underestimate of the true
// population by up to numThreads*drainThreshold).
func (c *ApproxCounter) Read() int64 {
    return c.total.Load()
}

// Reset zeroes every shard and the shared total. Increments that race with
// it may be lost.
func (c *ApproxCounter) Reset() {
    for i := range c.shards {
        c.shards[i].v.Store(0)
    }
    c.total.Store(0)
}
