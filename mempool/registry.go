package mempool

import "sync"

// Capabilities is the 14-bit vector of strategy traits a pool strategy can
// advertise (spec.md §4.3, GLOSSARY). The zero value, Unpooled, describes a
// strategy with no special treatment — just delegate to the system
// allocator.
type Capabilities uint16

const (
	Unpooled Capabilities = 0

	Pooled    Capabilities = 1 << iota // iota == 1 here, since iota == 0 was consumed by Unpooled
	GCSync
	GCAsync
	Pressure
	Linear
	Chunked
	Balanced
	FirstFit
	BestFit
	RandomFit
	Cracked
	Parallel
	SIMD
	Dedup
)

// Factory constructs a Strategy bound to the given pool. It is invoked by
// the façade during pool construction.
type Factory func(p *Pool) Strategy

// registryEntry is one row of the process-wide strategy registry (C3):
// a capability bitset, a factory, and an optional destructor invoked when
// a candidate produced during a by-name scan turns out not to match.
type registryEntry struct {
	caps    Capabilities
	factory Factory
	destroy func(Strategy)
}

var (
	registryMu sync.RWMutex
	registry   []registryEntry
)

// Register adds a strategy to the process-wide registry. It is how the
// framework accepts additional strategies without any change to
// mempool.New/NewByName: a third-party package need only call Register
// from an init() function. destroy may be nil.
func Register(caps Capabilities, factory Factory, destroy func(Strategy)) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = append(registry, registryEntry{caps: caps, factory: factory, destroy: destroy})
}

// RegisteredStrategies returns the number of strategies currently
// registered. The registry is immutable after startup in ordinary use, so
// this is safe to call concurrently without further synchronization.
func RegisteredStrategies() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

func snapshotRegistry() []registryEntry {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]registryEntry, len(registry))
	copy(out, registry)
	return out
}
