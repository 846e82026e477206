package registration

import (
	"context"

	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// CachedResolver remembers lookups for the lifetime of a run, and collapses concurrent
// lookups of the same domain into one query.
type CachedResolver struct {
	inner Resolver
	cache *lru.Cache
	group singleflight.Group
}

func newLRUCache(size int) *lru.Cache {
	c, err := lru.New(size)
	if err != nil {
		log.Error().Msgf("Error Creating LRU Cache: %s", err)
		c, _ = lru.New(1)
	}
	return c
}

func NewCachedResolver(inner Resolver, size int) *CachedResolver {
	return &CachedResolver{
		inner: inner,
		cache: newLRUCache(size),
	}
}

func (c *CachedResolver) Resolve(ctx context.Context, domain string) Result {
	if v, ok := c.cache.Get(domain); ok {
		return v.(Result)
	}

	v, _, _ := c.group.Do(domain, func() (interface{}, error) {
		res := c.inner.Resolve(ctx, domain)
		if ctx.Err() == nil {
			c.cache.Add(domain, res)
		}
		return res, nil
	})
	return v.(Result)
}

func (c *CachedResolver) Len() int {
	return c.cache.Len()
}
