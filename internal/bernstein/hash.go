// Package bernstein implements the 32-bit Bernstein (djb2) hash used by the
// LRU string cache (spec.md §4.7) to pick a bucket for a string id, a
// from-scratch port of the NG5_HASH_BERNSTEIN call in archive_sid_cache.c.
package bernstein

// Hash32 computes the Bernstein hash (h = h*33 + b for each byte) of data.
func Hash32(data []byte) uint32 {
	var h uint32 = 0
	for _, b := range data {
		h = h*33 + uint32(b)
	}
	return h
}
