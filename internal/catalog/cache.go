package catalog

import (
	"context"

	"github.com/noah-isme/tcm-pricing/internal/cache"
)

// Cached is a read-through Reader. Misses are not cached, so medicines added
// to the backing store become visible on the next lookup.
type Cached struct {
	Inner Reader
	Cache *cache.JSON
}

// Lookup serves id from Redis when present, otherwise from Inner.
func (c Cached) Lookup(ctx context.Context, id string) (Entry, error) {
	key := cache.KeyMedicine(id)
	var cached Entry
	if ok, err := c.Cache.Get(ctx, key, &cached); err == nil && ok {
		return cached, nil
	}
	e, err := c.Inner.Lookup(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	_ = c.Cache.Set(ctx, key, e)
	return e, nil
}

// List serves the full list from Redis when present, otherwise from Inner.
func (c Cached) List(ctx context.Context) ([]Entry, error) {
	var cached []Entry
	if ok, err := c.Cache.Get(ctx, cache.KeyMedicineList(), &cached); err == nil && ok {
		return cached, nil
	}
	entries, err := c.Inner.List(ctx)
	if err != nil {
		return nil, err
	}
	_ = c.Cache.Set(ctx, cache.KeyMedicineList(), entries)
	return entries, nil
}

// Invalidate drops cached copies of the given ids and the full list.
func (c Cached) Invalidate(ctx context.Context, ids ...string) error {
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, cache.KeyMedicine(id))
	}
	keys = append(keys, cache.KeyMedicineList())
	return c.Cache.Delete(ctx, keys...)
}
