package lockfreeset

// murmur3 is a 32-bit integer finalizer-style mix, ported directly from the
// original source's murmur3_32 (itself a single-word specialization of
// MurmurHash3): it exists only to spread int64 keys uniformly across the
// probe sequence, not for any cryptographic property.
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
