package api

import "sync"

// Bus is a minimal pub/sub for cache invalidation. Cache entries are
// tagged with their cache key; a successful mutation publishes its
// declared key and every subscriber marks matching entries stale. The
// next read then refreshes over the network instead of reusing the
// cache.
type Bus struct {
	mu   sync.RWMutex
	subs []func(key string)
}

func NewBus() *Bus { return &Bus{} }

// Subscribe registers fn to run for every published key.
func (b *Bus) Subscribe(fn func(key string)) {
	b.mu.Lock()
	b.subs = append(b.subs, fn)
	b.mu.Unlock()
}

// Publish notifies all subscribers of each key in order.
func (b *Bus) Publish(keys ...string) {
	b.mu.RLock()
	subs := make([]func(string), len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()
	for _, key := range keys {
		for _, fn := range subs {
			fn(key)
		}
	}
}
