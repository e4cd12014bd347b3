package classify

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ragdesk/answer-backend/internal/entity"
)

// Cache memoizes classifications by their cache key. Safe for concurrent
// use; entries expire after the configured TTL.
type Cache struct {
	store *gocache.Cache
}

func NewCache(ttl, purgeInterval time.Duration) *Cache {
	return &Cache{store: gocache.New(ttl, purgeInterval)}
}

func (c *Cache) Get(key string) (entity.Classification, bool) {
	if key == "" {
		return entity.Classification{}, false
	}
	v, ok := c.store.Get(key)
	if !ok {
		return entity.Classification{}, false
	}
	cls, ok := v.(entity.Classification)
	return cls, ok
}

// Put stores cacheable classifications only; error-path defaults are
// never memoized.
func (c *Cache) Put(cls entity.Classification) {
	if !cls.Cacheable || cls.CacheKey == "" {
		return
	}
	c.store.SetDefault(cls.CacheKey, cls)
}
