package harness

import (
    "sync/atomic"

    "github.com/Voskan/lockfree-kcas/internal/unsafehelpers"
)

// cacheLineBytes mirrors the original PADDING_BYTES constant: the minimum
// padding needed between per-thread counters so that independent threads
// incrementing their own shard never bounce the same cache line.
const cacheLineBytes = 64

// counterWordSize is unsafe.Sizeof(atomic.Int64{}) on every platform this
// repo targets: the noCopy/align64 guard fields it embeds contribute no
// storage of their own.
const counterWordSize = 8

// paddingBytes is the trailing padding that brings a paddedCounter up to
// unsafehelpers.AlignUp(counterWordSize, cacheLineBytes) total bytes. Array
// lengths must be constant expressions in Go, so the alignment arithmetic
// is duplicated here as a const and cross-checked against the real
// unsafehelpers.AlignUp call in init below, rather than computed by it
// directly.
const paddingBytes = cacheLineBytes - counterWordSize

func init() {
    if !unsafehelpers.IsPowerOfTwo(cacheLineBytes) {
        panic("harness: cacheLineBytes must be a power of two for AlignUp to hold")
    }
    if aligned := unsafehelpers.AlignUp(counterWordSize, cacheLineBytes); aligned != counterWordSize+paddingBytes {
        panic("harness: paddedCounter padding does not match unsafehelpers.AlignUp")
    }
}

// paddedCounter is a single per-thread shard of a ShardedCounter, padded out
// to a full cache line. The teacher's pkg/shard.go keeps its hit/miss/evict
// counters unpadded because they are already one-per-shard (and shards are
// large, heap-allocated objects that don't pack adjacently); here, by
// contrast, counters for *all* threads live in one contiguous slice, so
// without padding adjacent threads' counters would false-share.
type paddedCounter struct {
    v atomic.Int64
    _ [paddingBytes]byte
}

// ShardedCounter is a per-thread sharded accumulator, ported from the
// original debugCounter/Sharded types. Each thread increments only its own
// shard (wait-free, no contention); GetTotal does a relaxed linear scan and
// is meant to be called only after all writers have quiesced (exactly how
// the harness uses it: after joining every worker goroutine).
type ShardedCounter struct {
    shards []paddedCounter
}

// NewShardedCounter allocates a counter with one shard per thread.
func NewShardedCounter(numThreads int) *ShardedCounter {
    return &ShardedCounter{shards: make([]paddedCounter, numThreads)}
}

// Add adds val to thread tid's shard.
func (c *ShardedCounter) Add(tid int, val int64) {
    c.shards[tid].v.Add(val)
}

// Inc increments thread tid's shard by one.
func (c *ShardedCounter) Inc(tid int) {
    c.Add(tid, 1)
}

// Get returns thread tid's shard value.
func (c *ShardedCounter) Get(tid int) int64 {
    return c.shards[tid].v.Load()
}

// GetTotal sums every shard. Quiescent use only — no synchronization beyond
// the individual atomic loads is performed.
func (c *ShardedCounter) GetTotal() int64 {
    var total int64
    for i := range c.shards {
        total += c.shards[i].v.Load()
    }
    return total
}

// Clear resets every shard to zero.
func (c *ShardedCounter) Clear() {
    for i := range c.shards {
        c.shards[i].v.Store(0)
    }
}
