package sidcache

import "go.uber.org/zap"

// Option configures a Cache at construction time, the same functional-
// options idiom mempool.Option uses.
type Option func(*Cache)

// WithLogger attaches a zap logger for cache-miss and drop events.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}
