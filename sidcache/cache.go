// Package sidcache implements C8 from spec.md: a bucketed least-recently-
// used cache that maps archive string identifiers to their materialized
// string value. It is grounded on archive_sid_cache.c's string_cache: one
// fixed 1024-entry LRU list per bucket, bucket selection by a Bernstein
// hash of the id, and external resolution (a database/archive lookup in
// the original, a Resolver here) on a miss.
package sidcache

import (
	"encoding/binary"
	"sync"

	"go.uber.org/zap"

	"github.com/RAO-29/carbon-mempool/internal/bernstein"
)

// bucketEntries is the fixed size of every bucket's LRU list, matching the
// original's `struct cache_entry entries[1024]`.
const bucketEntries = 1024

// Resolver materializes the string a cache miss needs. It is the Go
// analogue of the original's query_fetch_string_by_id_nocache: an archive
// (or any other backing store) lookup the cache defers to when an id
// isn't already resident.
type Resolver interface {
	Resolve(id uint64) (string, error)
}

// ResolverFunc adapts a plain function to a Resolver.
type ResolverFunc func(id uint64) (string, error)

func (f ResolverFunc) Resolve(id uint64) (string, error) { return f(id) }

// Stats mirrors struct sid_cache_stats: the running hit/miss/eviction
// counters a caller inspects to judge whether the configured capacity is
// a good fit for its access pattern.
type Stats struct {
	Hits    uint64
	Misses  uint64
	Evicted uint64
}

// entry is one slot in a bucket's LRU list. used distinguishes a slot that
// has never held a string from one that holds a cached string; the
// original relies on a NULL string pointer for the same purpose.
type entry struct {
	id         uint64
	str        string
	used       bool
	prev, next *entry
}

// bucketList is one bucket: a doubly-linked list over a fixed array of
// bucketEntries slots, most-recent-first.
type bucketList struct {
	mostRecent  *entry
	leastRecent *entry
	entries     [bucketEntries]entry
}

func newBucketList() *bucketList {
	bl := &bucketList{}
	for i := range bl.entries {
		if i > 0 {
			bl.entries[i].prev = &bl.entries[i-1]
		}
		if i+1 < len(bl.entries) {
			bl.entries[i].next = &bl.entries[i+1]
		}
	}
	bl.mostRecent = &bl.entries[0]
	bl.leastRecent = &bl.entries[len(bl.entries)-1]
	return bl
}

// makeMostRecent splices e out of its current position and relinks it at
// the head of the list, matching make_most_recent in the original exactly.
func (bl *bucketList) makeMostRecent(e *entry) {
	if bl.mostRecent == e {
		return
	}
	if e.prev != nil {
		e.prev.next = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		bl.leastRecent = e.prev
	}
	bl.mostRecent.prev = e
	e.prev = nil
	e.next = bl.mostRecent
	bl.mostRecent = e
}

// Cache is the bucketed LRU string cache (C8). The zero value is not
// usable; construct with New or NewFromArchiveSize.
type Cache struct {
	// mu is a plain blocking mutex, not the façade's spinlock: a miss can
	// call an arbitrary Resolver that may do real I/O, and busy-waiting
	// other goroutines through that is wasted CPU rather than the short,
	// bounded critical section a spinlock is suited to.
	mu       sync.Mutex
	buckets  []*bucketList
	resolver Resolver
	stats    Stats
	logger   *zap.Logger
}

// New builds a cache with the given number of buckets (spec.md's
// "capacity"). capacity is clamped to at least 1, matching
// `ng5_max(1, capacity)` in the original.
func New(capacity int, resolver Resolver, opts ...Option) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	c := &Cache{resolver: resolver}
	for _, o := range opts {
		o(c)
	}
	c.buckets = make([]*bucketList, capacity)
	for i := range c.buckets {
		c.buckets[i] = newBucketList()
	}
	return c
}

// NewFromArchiveSize derives capacity from an archive's embedded-string
// count the way string_id_cache_create_LRU does: one quarter of the
// archive's distinct embedded strings.
func NewFromArchiveSize(numEmbeddedStrings int, resolver Resolver, opts ...Option) *Cache {
	capacity := int(float64(numEmbeddedStrings) * 0.25)
	return New(capacity, resolver, opts...)
}

// Get returns the string for id, resolving and caching it on a miss.
func (c *Cache) Get(id uint64) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	list := c.buckets[c.bucketFor(id)]

	for cursor := list.mostRecent; cursor != nil; cursor = cursor.next {
		if cursor.used && cursor.id == id {
			list.makeMostRecent(cursor)
			c.stats.Hits++
			return cursor.str, nil
		}
	}

	str, err := c.resolver.Resolve(id)
	if err != nil {
		return "", err
	}

	if list.leastRecent.used {
		c.stats.Evicted++
	}
	target := list.leastRecent
	target.id = id
	target.str = str
	target.used = true
	list.makeMostRecent(target)
	c.stats.Misses++

	c.logf("cache miss resolved", zap.Uint64("id", id))
	return str, nil
}

// bucketFor hashes id with the Bernstein hash (the same primitive
// NG5_HASH_BERNSTEIN wraps) to select a bucket.
func (c *Cache) bucketFor(id uint64) uint32 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], id)
	return bernstein.Hash32(buf[:]) % uint32(len(c.buckets))
}

// Stats returns a snapshot of the running counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// ResetStats zeroes the running counters.
func (c *Cache) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = Stats{}
}

// Drop releases every cached string. Unlike the original's explicit
// per-entry free, this only needs to drop the last Go-level references to
// the bucket lists; the runtime reclaims the strings once nothing else
// reaches them.
func (c *Cache) Drop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buckets = nil
	c.logf("cache dropped")
}

func (c *Cache) logf(msg string, fields ...zap.Field) {
	if c.logger != nil {
		c.logger.Debug(msg, fields...)
	}
}
