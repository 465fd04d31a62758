package topolib

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dgraph-io/ristretto"
)

type cachedLookup struct {
	fields Fields
	err    error
}

type cachingDataset struct {
	Dataset

	cache *ristretto.Cache
	ttl   time.Duration
}

// Lookup caches matches and misses. Other errors are not cached: they
// are most probably transient.
func (c cachingDataset) Lookup(addr Address) (Fields, error) {
	cacheKey := addr.String()

	if value, ok := c.cache.Get(cacheKey); ok {
		result := value.(cachedLookup)

		return result.fields, result.err
	}

	fields, err := c.Dataset.Lookup(addr)
	if err != nil && !errors.Is(err, ErrNoMatch) {
		return nil, err
	}

	c.cache.SetWithTTL(cacheKey, cachedLookup{fields: fields, err: err}, 1, c.ttl)

	return fields, err
}

func (c cachingDataset) Close() error {
	c.cache.Close()

	if closer, ok := c.Dataset.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

// NewCachingDataset wraps a dataset with a ristretto cache of given size
// and TTL. Cached fields are shared between callers so nobody should
// modify them.
func NewCachingDataset(dataset Dataset, itemsCount uint, ttl time.Duration) (Dataset, error) {
	cacheConfig := &ristretto.Config{
		MaxCost:     int64(itemsCount),
		NumCounters: 10 * int64(itemsCount),
		Metrics:     false,
		BufferItems: 64,
	}

	cache, err := ristretto.NewCache(cacheConfig)
	if err != nil {
		return nil, fmt.Errorf("cannot create a cache: %w", err)
	}

	return cachingDataset{
		Dataset: dataset,
		cache:   cache,
		ttl:     ttl,
	}, nil
}
