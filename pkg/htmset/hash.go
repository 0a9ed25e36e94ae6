package htmset

// murmur3 mirrors the murmur function duplicated (identically) across both
// set_hashtable_lockfree.h and set_unfinished.h in the original source; kept
// here as its own small copy rather than shared with pkg/lockfreeset, the
// same way the original duplicates it per file rather than factoring it out.
func murmur3(k int64) uint32 {
    h := uint32(0x1a8b714c)
    x := uint32(k) * 0xcc9e2d51
    x = (x << 15) | (x >> 17)
    x *= 0x1b873593
    h ^= x
    h = (h << 13) | (h >> 19)
    h = h*5 + 0xe6546b64
    h ^= h >> 16
    h *= 0x85ebca6b
    h ^= h >> 13
    h *= 0xc2b2ae35
    h ^= h >> 16
    return h
}
