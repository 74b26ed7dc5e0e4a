package querylib

import (
	"context"
	"net"
	"time"

	"github.com/dgraph-io/ristretto"
	"golang.org/x/sync/singleflight"
)

type cachingGeoDB struct {
	GeoDB

	cache *ristretto.Cache
	group *singleflight.Group
	ttl   time.Duration
}

func (c cachingGeoDB) Lookup(ctx context.Context, ip net.IP) (Record, error) {
	cacheKey := ip.String()

	if value, ok := c.cache.Get(cacheKey); ok {
		return value.(Record), nil
	}

	// simultaneous lookups of the same address share a single database
	// access which must outlive a cancellation of any of its callers
	sharedCtx := context.WithoutCancel(ctx)
	resultChan := c.group.DoChan(cacheKey, func() (interface{}, error) {
		result, err := c.GeoDB.Lookup(sharedCtx, ip)
		if err != nil {
			return nil, err
		}

		c.cache.SetWithTTL(cacheKey, result, 1, c.ttl)
		c.cache.Wait()

		return result, nil
	})

	select {
	case <-ctx.Done():
		return Record{}, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return Record{}, res.Err
		}

		return res.Val.(Record), nil
	}
}

// NewCachingGeoDB wraps a geo database with a cache of successful
// lookups. Failures are never cached.
//
// itemsCount is a maximal number of cached records, ttl is a time to
// live of each of them. If itemsCount is 0, db is returned as is.
func NewCachingGeoDB(db GeoDB, itemsCount uint, ttl time.Duration) GeoDB {
	if itemsCount == 0 {
		return db
	}

	cacheConfig := &ristretto.Config{
		MaxCost:     int64(itemsCount),
		NumCounters: 10 * int64(itemsCount),
		Metrics:     false,
		BufferItems: 64,
	}

	cache, err := ristretto.NewCache(cacheConfig)
	if err != nil {
		panic(err)
	}

	return cachingGeoDB{
		GeoDB: db,
		cache: cache,
		group: &singleflight.Group{},
		ttl:   ttl,
	}
}
