// Package kcas implements the lock-free K-word compare-and-swap primitive:
// an operation that atomically compares-and-swaps K independent tagged
// words, installing all K new values or leaving every word untouched, under
// arbitrarily many concurrent threads, with lock-freedom and
// linearizability. It is the Go-native realization of the descriptor-based
// helping protocol sketched (but left unfinished) in the original source's
// kcas_unfinished.h.
package kcas

import (
    "sort"
    "unsafe"

    "go.uber.org/zap"

    "github.com/Voskan/lockfree-kcas/internal/harness"
    "github.com/Voskan/lockfree-kcas/internal/unsafehelpers"
    "github.com/Voskan/lockfree-kcas/internal/wordtag"
)

// Engine owns one Descriptor slot per thread and drives the install /
// decide / cleanup protocol, including helping other threads' in-flight
// descriptors whenever one is encountered mid-install or mid-read.
type Engine struct {
    maxK int
    pool []Descriptor

    metrics harness.MetricsSink
    logger  *zap.Logger
}

// NewEngine allocates an Engine supporting numThreads distinct thread ids
// (0..numThreads-1), each with its own descriptor slot.
func NewEngine(numThreads int, opts ...Option) *Engine {
    cfg := defaultConfig()
    for _, opt := range opts {
        opt(cfg)
    }
    pool := make([]Descriptor, numThreads)
    for i := range pool {
        pool[i].tid = i
    }
    return &Engine{
        maxK:    cfg.maxK,
        pool:    pool,
        metrics: cfg.metrics,
        logger:  cfg.logger,
    }
}

// GetDescriptor returns tid's descriptor slot, cleared and ready for a new
// attempt's entries to be added. Only the owning thread may call this for
// its own tid.
func (e *Engine) GetDescriptor(tid int) *Descriptor {
    d := &e.pool[tid]
    d.reset()
    return d
}

// AddEntry appends (addr, expected, new) to d. Panics if d already holds
// MaxK entries — a precondition violation, per spec.md's failure-mode
// treatment of oversized descriptors.
func (e *Engine) AddEntry(d *Descriptor, addr *wordtag.Cell, expected, newVal int64) {
    if len(d.entries) >= e.maxK {
        e.logger.Error("kcas: descriptor entry limit exceeded", zap.Int("tid", d.tid), zap.Int("maxK", e.maxK))
        panic(errTooManyEntries)
    }
    d.entries = append(d.entries, Entry{
        Addr:     addr,
        Expected: wordtag.MakeValue(expected),
        New:      wordtag.MakeValue(newVal),
    })
}

// Kcas attempts the K-word compare-and-swap described by d, returning true
// iff every entry's address held its expected word at some linearization
// point and now holds its new word.
func (e *Engine) Kcas(tid int, d *Descriptor) bool {
    e.sortEntries(d)
    e.drive(d)
    ok := d.loadStatus() == statusSucceeded
    if ok {
        e.metrics.IncKcasOp("succeeded")
    } else {
        e.metrics.IncKcasOp("failed")
    }
    return ok
}

// ReadValue returns the logical value at addr, helping any in-progress
// descriptor installed there to its terminal state before returning.
func (e *Engine) ReadValue(tid int, addr *wordtag.Cell) int64 {
    for {
        raw := addr.ReadRaw()
        if raw.Tag() == wordtag.TagValue {
            return raw.Value()
        }
        e.help(raw)
    }
}

// WriteInitValue sets addr to the raw value v. Only safe before addr is
// published to other threads (e.g. initial array population).
func (e *Engine) WriteInitValue(addr *wordtag.Cell, v int64) {
    addr.WriteInit(wordtag.MakeValue(v))
}

// sortEntries orders d's entries by address ascending, the total order that
// prevents circular waits among helpers contending on shared addresses
// (spec.md §4.B, "Ordering and tie-breaks"). Panics on a duplicate address,
// a precondition violation.
func (e *Engine) sortEntries(d *Descriptor) {
    sort.Slice(d.entries, func(i, j int) bool {
        return unsafehelpers.AddrOf(unsafe.Pointer(d.entries[i].Addr)) <
            unsafehelpers.AddrOf(unsafe.Pointer(d.entries[j].Addr))
    })
    for i := 1; i < len(d.entries); i++ {
        if d.entries[i-1].Addr == d.entries[i].Addr {
            e.logger.Error("kcas: duplicate address in descriptor", zap.Int("tid", d.tid))
            panic(errDuplicateAddress)
        }
    }
}

// drive runs the install, decide, and cleanup phases for d. It is shared
// between Kcas (the owning thread driving its own descriptor) and help (any
// thread completing someone else's), since both follow the identical
// protocol once a descriptor's tagged pointer has been published.
func (e *Engine) drive(d *Descriptor) {
    tagged := d.taggedWord()

installLoop:
    for i := range d.entries {
        if d.loadStatus() != statusUndecided {
            break installLoop
        }
        entry := &d.entries[i]
        for {
            raw := entry.Addr.ReadRaw()
            switch raw.Tag() {
            case wordtag.TagValue:
                if raw != entry.Expected {
                    d.status.CompareAndSwap(int32(statusUndecided), int32(statusFailed))
                    break installLoop
                }
                if entry.Addr.CASRaw(raw, tagged) {
                    continue installLoop
                }
                // lost the race on this address; re-read and retry.
            case wordtag.TagDescriptor:
                if raw.DescriptorTID() == d.tid && raw.DescriptorSeq() == d.seq.Load() {
                    // a concurrent helper already installed us here.
                    continue installLoop
                }
                e.help(raw)
                // re-read after helping; the cell should now hold either a
                // plain value or, rarely, a newer descriptor.
            }
        }
    }

    d.status.CompareAndSwap(int32(statusUndecided), int32(statusSucceeded))

    e.cleanup(d, tagged)
}

// cleanup replaces every entry still tagged to d with its final word: the
// new value on success, the original expected value on failure. Safe to run
// redundantly from multiple threads — the CAS is a no-op once another
// thread has already cleaned up a given entry.
func (e *Engine) cleanup(d *Descriptor, tagged wordtag.Word) {
    succeeded := d.loadStatus() == statusSucceeded
    for i := range d.entries {
        entry := &d.entries[i]
        final := entry.Expected
        if succeeded {
            final = entry.New
        }
        // Retry is unnecessary: if the CAS fails, either another thread
        // already installed `final`, or a newer descriptor has since
        // overwritten the word and this entry no longer needs attention.
        entry.Addr.CASRaw(tagged, final)
    }
}

// help drives the descriptor referenced by a descriptor-tagged raw word to
// its terminal state. If the referenced (tid, seq) no longer matches the
// live descriptor in that thread's pool slot, the attempt has already
// completed (and been fully cleaned up, since an owning thread only starts
// a new attempt after synchronously finishing its previous one) and there
// is nothing left to do.
func (e *Engine) help(raw wordtag.Word) {
    tid := raw.DescriptorTID()
    seq := raw.DescriptorSeq()
    d := &e.pool[tid]
    if d.seq.Load() != seq {
        return
    }
    e.metrics.IncKcasHelp()
    e.drive(d)
}
