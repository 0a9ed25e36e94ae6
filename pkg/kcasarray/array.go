// Package kcasarray is the KCAS consumer used as the benchmark's main
// workhorse (ADD-1 in the expanded design): a plain array of counters
// offering one operation, AtomicIncrementRandomK, which chooses K
// consecutive slots starting at a random index and increments all K of them
// atomically via pkg/kcas. It is the Go port of the original source's
// ArrayUsingKCAS template, and doubles as a worked example of consuming the
// KCAS engine from a data structure.
package kcasarray

import (
    "github.com/Voskan/lockfree-kcas/internal/harness"
    "github.com/Voskan/lockfree-kcas/internal/wordtag"
    "github.com/Voskan/lockfree-kcas/pkg/kcas"
)

// Array is a fixed-size array of tagged-word counters, all initially zero.
type Array struct {
    engine *kcas.Engine
    data   []wordtag.Cell
    size   int
    k      int
}

// New allocates an Array of size counters, where every AtomicIncrementRandomK
// call touches k of them, and zero-fills every counter with WriteInitValue
// before the Array is shared with any other thread.
func New(engine *kcas.Engine, size, k int) *Array {
    a := &Array{
        engine: engine,
        data:   make([]wordtag.Cell, size),
        size:   size,
        k:      k,
    }
    for i := range a.data {
        a.engine.WriteInitValue(&a.data[i], 0)
    }
    return a
}

// AtomicIncrementRandomK chooses K indices — the first drawn uniformly at
// random, the rest consecutive from there, wrapping around the array — and
// increments all K of them as a single KCAS. Returns whether the KCAS
// succeeded; a failure means every slot's value is unchanged and the caller
// may retry with freshly-read values.
func (a *Array) AtomicIncrementRandomK(tid int, rng *harness.Rng) bool {
    idx := make([]int, a.k)
    idx[0] = rng.Intn(a.size)
    for i := 1; i < a.k; i++ {
        idx[i] = (idx[i-1] + 1) % a.size
    }

    desc := a.engine.GetDescriptor(tid)
    for _, i := range idx {
        old := a.engine.ReadValue(tid, &a.data[i])
        a.engine.AddEntry(desc, &a.data[i], old, old+1)
    }

    return a.engine.Kcas(tid, desc)
}

// GetTotal sums every counter's current logical value, helping any
// in-progress descriptor along the way. Intended for quiescent validation
// after a benchmark run, not for use under contention.
func (a *Array) GetTotal(tidForReading int) int64 {
    var total int64
    for i := range a.data {
        total += a.engine.ReadValue(tidForReading, &a.data[i])
    }
    return total
}
