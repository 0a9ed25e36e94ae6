// Package lockfreeset implements the purely lock-free, open-addressed
// concurrent hash set (component C of the design): a fixed-capacity array
// of slot words, each transitioning EMPTY -> key -> TOMBSTONE at most once,
// using single-word compare-and-swap with linear probing and a
// Murmur3-derived hash. It is the Go-native realization of the original
// source's SetHashTableLockfree.
package lockfreeset

import (
    "fmt"
    "io"
    "sync/atomic"

    "go.uber.org/zap"

    "github.com/Voskan/lockfree-kcas/internal/harness"
)

// Empty and Tombstone are the two sentinel slot values; valid keys may be
// any int64 other than these two.
const (
    Empty     int64 = 0
    Tombstone int64 = -1
)

// Set is a fixed-capacity, open-addressed concurrent hash set of int64
// keys. Capacity is 2x the requested size at construction and never
// changes; tombstones are never reclaimed (spec.md's tombstone policy),
// which bounds this structure to a single benchmark run's duration.
type Set struct {
    data     []atomic.Int64
    capacity int
    metrics  harness.MetricsSink
    logger   *zap.Logger

    failedInserts      *harness.ShardedCounter
    successfulInserts  *harness.ShardedCounter
    someoneElseInserts *harness.ShardedCounter
    failedErase        *harness.ShardedCounter
    successfulErase    *harness.ShardedCounter
}

// New allocates a Set sized to hold roughly requestedSize live keys
// (actual capacity is 2*requestedSize), with one debug-counter shard per
// thread in [0, numThreads).
func New(numThreads, requestedSize int, opts ...Option) *Set {
    cfg := defaultConfig()
    for _, opt := range opts {
        opt(cfg)
    }
    capacity := 2 * requestedSize
    return &Set{
        data:               make([]atomic.Int64, capacity),
        capacity:           capacity,
        metrics:            cfg.metrics,
        logger:             cfg.logger,
        failedInserts:      harness.NewShardedCounter(numThreads),
        successfulInserts:  harness.NewShardedCounter(numThreads),
        someoneElseInserts: harness.NewShardedCounter(numThreads),
        failedErase:        harness.NewShardedCounter(numThreads),
        successfulErase:    harness.NewShardedCounter(numThreads),
    }
}

func (s *Set) probeStart(key int64) uint64 {
    return uint64(murmur3(key))
}

// InsertIfAbsent inserts key if no slot currently holds it, returning true
// iff this call transitioned an EMPTY slot to key.
func (s *Set) InsertIfAbsent(tid int, key int64) bool {
    if key == Empty || key == Tombstone {
        s.logger.Error("lockfreeset: invalid key passed to InsertIfAbsent", zap.Int("tid", tid), zap.Int64("key", key))
        panic(errInvalidKey)
    }
    start := s.probeStart(key)
    for i := 0; i < s.capacity; i++ {
        idx := int((start + uint64(i)) % uint64(s.capacity))
        slot := &s.data[idx]
        found := slot.Load()
        switch found {
        case key:
            s.failedInserts.Inc(tid)
            s.metrics.IncSetInsert("already_present")
            return false
        case Empty:
            if slot.CompareAndSwap(Empty, key) {
                s.successfulInserts.Inc(tid)
                s.metrics.IncSetInsert("inserted")
                return true
            }
            if slot.Load() == key {
                s.someoneElseInserts.Inc(tid)
                s.metrics.IncSetInsert("concurrent_insert")
                return false
            }
            // Lost the CAS to some other key's insert; keep probing.
        }
    }
    s.failedInserts.Inc(tid)
    s.metrics.IncSetInsert("table_full")
    s.logger.Warn("lockfreeset: table full on insert", zap.Int("tid", tid), zap.Int("capacity", s.capacity))
    return false
}

// Erase transitions a slot holding key to TOMBSTONE, returning true iff
// this call performed that transition.
func (s *Set) Erase(tid int, key int64) bool {
    if key == Empty || key == Tombstone {
        s.logger.Error("lockfreeset: invalid key passed to Erase", zap.Int("tid", tid), zap.Int64("key", key))
        panic(errInvalidKey)
    }
    start := s.probeStart(key)
    for i := 0; i < s.capacity; i++ {
        idx := int((start + uint64(i)) % uint64(s.capacity))
        slot := &s.data[idx]
        found := slot.Load()
        switch found {
        case key:
            if slot.CompareAndSwap(key, Tombstone) {
                s.successfulErase.Inc(tid)
                s.metrics.IncSetErase("erased")
                return true
            }
            // Someone else already erased it first.
            s.failedErase.Inc(tid)
            s.metrics.IncSetErase("raced")
            return false
        case Empty:
            s.failedErase.Inc(tid)
            s.metrics.IncSetErase("not_found")
            return false
        }
        // TOMBSTONE or a different key: keep probing.
    }
    s.failedErase.Inc(tid)
    s.metrics.IncSetErase("table_full")
    s.logger.Warn("lockfreeset: table full on erase", zap.Int("tid", tid), zap.Int("capacity", s.capacity))
    return false
}

// SumOfKeys is a quiescent reduction over every slot that is neither EMPTY
// nor TOMBSTONE. Callers must ensure no concurrent inserts/erases are in
// flight; this is not itself synchronized against them.
func (s *Set) SumOfKeys() int64 {
    var sum int64
    for i := range s.data {
        v := s.data[i].Load()
        if v != Empty && v != Tombstone {
            sum += v
        }
    }
    return sum
}

// PrintDebuggingDetails writes the same per-outcome counters the original
// benchmark prints at the end of a trial.
func (s *Set) PrintDebuggingDetails(w io.Writer) {
    fmt.Fprintf(w, "failed_inserts      : %d\n", s.failedInserts.GetTotal())
    fmt.Fprintf(w, "successful_inserts  : %d\n", s.successfulInserts.GetTotal())
    fmt.Fprintf(w, "someone_else_inserts: %d\n", s.someoneElseInserts.GetTotal())
    fmt.Fprintf(w, "failed_erase        : %d\n", s.failedErase.GetTotal())
    fmt.Fprintf(w, "successful_erase    : %d\n", s.successfulErase.GetTotal())
}
