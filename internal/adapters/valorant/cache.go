package valorant

import (
	"sync"
	"time"
)

// cache guarda Riot ID → puuid. Validar y armar la tarjeta piden el mismo puuid
// dos veces seguidas; con esto es una sola llamada.
type cache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[string]cachedItem
	now   func() time.Time
}

type cachedItem struct {
	value     string
	expiresAt time.Time
}

const cacheMaxItems = 2048

func newCache(ttl time.Duration) *cache {
	if ttl <= 0 {
		return nil
	}
	return &cache{ttl: ttl, items: map[string]cachedItem{}, now: time.Now}
}

func (c *cache) get(key string) (string, bool) {
	if c == nil || key == "" {
		return "", false
	}
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}
	if c.now().After(item.expiresAt) {
		// vencido: lo sacamos ya
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return "", false
	}
	return item.value, true
}

func (c *cache) set(key, value string) {
	if c == nil || key == "" || value == "" {
		return
	}
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) >= cacheMaxItems {
		c.purgeLocked(now)
	}
	c.items[key] = cachedItem{value: value, expiresAt: now.Add(c.ttl)}
}

func (c *cache) purgeLocked(now time.Time) {
	for k, v := range c.items {
		if now.After(v.expiresAt) {
			delete(c.items, k)
		}
	}
}
