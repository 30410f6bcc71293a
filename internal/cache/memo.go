package cache

import (
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/PalikaProfile/Profile-Backend/internal/metrics"
)

// Memo caches computed page summaries for a fixed TTL. Failed loads are not cached.
type Memo[T any] struct {
	name  string
	cache *ttlcache.Cache[string, T]
}

func NewMemo[T any](name string, ttl time.Duration) *Memo[T] {
	c := ttlcache.New(
		ttlcache.WithTTL[string, T](ttl),
		ttlcache.WithDisableTouchOnHit[string, T](),
	)
	go c.Start()
	return &Memo[T]{name: name, cache: c}
}

func (m *Memo[T]) Get(key string, load func() (T, error)) (T, error) {
	if item := m.cache.Get(key); item != nil {
		metrics.CacheHits.WithLabelValues(m.name).Inc()
		return item.Value(), nil
	}
	metrics.CacheMisses.WithLabelValues(m.name).Inc()

	v, err := load()
	if err != nil {
		var zero T
		return zero, err
	}
	m.cache.Set(key, v, ttlcache.DefaultTTL)
	return v, nil
}

// Invalidate drops every key starting with prefix; "" clears the cache.
func (m *Memo[T]) Invalidate(prefix string) {
	if prefix == "" {
		m.cache.DeleteAll()
		return
	}
	for _, key := range m.cache.Keys() {
		if strings.HasPrefix(key, prefix) {
			m.cache.Delete(key)
		}
	}
}

func (m *Memo[T]) Len() int {
	return m.cache.Len()
}

func (m *Memo[T]) Stop() {
	m.cache.Stop()
}

// Invalidator is handed to mutating handlers; they call it with the key
// prefixes their change made stale.
type Invalidator func(prefixes ...string)

func (f Invalidator) Invalidate(prefixes ...string) {
	if f != nil {
		f(prefixes...)
	}
}
