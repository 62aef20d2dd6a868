package mempool

import "go.uber.org/zap"

// Option configures a Pool at construction time (spec.md §2.3-style
// functional options, grounded on the arena-cache retrieval example's
// Option[K,V] pattern: the same idiom generalized to a non-generic type).
type Option func(*Pool)

// WithLogger attaches a zap logger a Pool uses for lifecycle events
// (pool creation by New or NewByName, and Drop). The default is a
// nil logger, which every log call on Pool treats as "logging disabled"
// rather than requiring callers to pass zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pool) {
		p.logger = logger
	}
}

// WithInitialCapacity pre-allocates the handle table for n live
// allocations, matching the original's vec_create(&pool->in_use, NULL,
// sizeof(...), 100) initial-capacity hint. It only affects the first
// growth of the table; it is never a hard limit.
func WithInitialCapacity(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.handles.entries = make([]handleInfo, 0, n)
		}
	}
}

func (p *Pool) logf(msg string, fields ...zap.Field) {
	if p.logger != nil {
		p.logger.Debug(msg, fields...)
	}
}
