// Package unsafehelpers centralises the few unavoidable uses of the `unsafe`
// standard-library package in lockfree-kcas, so that the rest of the engine
// and hash sets stay clean and easy to audit. Every helper is documented with
// clear pre-/post-conditions.
//
// ⚠️  **DISCLAIMER**  These helpers deliberately step outside Go's normal
// memory-safety guarantees for the sake of address-ordering and padding
// calculations. Use ONLY inside this repository; they are not part of the
// public API and may change without notice.
//
// All functions are `go:linkname`-free, cgo-free and pure Go 1.24.
//
// © 2025 lockfree-kcas authors. MIT License.
package unsafehelpers

import "unsafe"

/* -------------------------------------------------------------------------
   1. Address identity
   ------------------------------------------------------------------------- */

// AddrOf returns the address of ptr as a uintptr, used purely as a total
// order over memory cells (e.g. to sort KCAS descriptor entries by address
// so that concurrent descriptors never wait on each other in a cycle). The
// returned value must never be stored, dereferenced, or treated as a stable
// identifier across a garbage-collection cycle — it is read and discarded
// within the same statement it is produced for.
func AddrOf(ptr unsafe.Pointer) uintptr {
    return uintptr(ptr)
}

/* -------------------------------------------------------------------------
   2. Alignment / padding helpers
   ------------------------------------------------------------------------- */

// AlignUp rounds x up to the nearest multiple of align (which must be a power
// of two). Used when sizing cache-line padding for per-thread structures to
// avoid false sharing.
func AlignUp(x, align uintptr) uintptr {
    return (x + align - 1) &^ (align - 1)
}

// IsPowerOfTwo returns true if x is a power of two (exactly one bit set).
func IsPowerOfTwo(x uintptr) bool {
    return x != 0 && (x&(x-1)) == 0
}
