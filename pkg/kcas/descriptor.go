package kcas

import (
    "sync/atomic"

    "github.com/Voskan/lockfree-kcas/internal/wordtag"
)

type status int32

const (
    statusUndecided status = iota
    statusSucceeded
    statusFailed
)

// Entry is one (addr, expected, new) triple within a Descriptor, the
// component spec.md §4.B calls a kcas entry.
type Entry struct {
    Addr     *wordtag.Cell
    Expected wordtag.Word
    New      wordtag.Word
}

// Descriptor is one thread's in-flight KCAS attempt. Descriptors are
// pool-allocated, one per thread, and reused across calls: GetDescriptor
// resets entries and mints a fresh sequence number rather than allocating.
// The sequence number — not the struct's address — is what gives a
// descriptor-tagged Word a stable identity, since the struct itself is
// recycled (see internal/wordtag's package doc for why).
//
// tid is fixed for the lifetime of the slot (pool[tid] is always owned by
// thread tid) and is set once by the Engine before any worker goroutine
// starts, so it needs no synchronization of its own. seq, by contrast,
// changes on every attempt and is read by helper goroutines that never
// synchronize with the owner directly (only through the tagged Word they
// observe), so it is held in an atomic to avoid a data race against
// concurrent resets.
type Descriptor struct {
    tid int

    seq     atomic.Uint64 // identifies *this* attempt; bumped on every reset
    status  atomic.Int32
    entries []Entry
}

func (d *Descriptor) reset() {
    d.seq.Add(1)
    d.status.Store(int32(statusUndecided))
    d.entries = d.entries[:0]
}

func (d *Descriptor) taggedWord() wordtag.Word {
    return wordtag.MakeDescriptor(d.tid, d.seq.Load())
}

func (d *Descriptor) loadStatus() status {
    return status(d.status.Load())
}
