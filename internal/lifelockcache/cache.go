package lifelockcache

import (
	"fmt"

	"github.com/dgraph-io/ristretto"
	"github.com/lifelockgo/lifelock/pkg/config"
	"github.com/lifelockgo/lifelock/pkg/lifelock"
	"github.com/lifelockgo/lifelock/pkg/rc"
	"github.com/zeebo/xxh3"
)

// Cache is a sharded, concurrent object store. Admission and eviction
// decisions are delegated to a ristretto policy keyed by the same xxh3
// hash used to pick a shard; when ristretto dooms a key, Cache evicts it
// from the owning shard, which in turn disarms that key's lifelock.Cell.
type Cache struct {
	shards  []*shard
	mask    uint64
	policy  *ristretto.Cache
	metrics *lifelock.Metrics
}

// New builds a Cache sized and policy-tuned from cfg.
func New(cfg *config.Cache, m *lifelock.Metrics) (*Cache, error) {
	count := nextPow2(cfg.Cache.Shards.Count)
	if count == 0 {
		count = 16
	}

	c := &Cache{
		shards:  make([]*shard, count),
		mask:    uint64(count - 1),
		metrics: m,
	}
	for i := range c.shards {
		c.shards[i] = newShard(uint64(i), cfg.Cache.Shards.Preallocate, m)
	}

	policy, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cfg.Cache.Storage.MaxEntries * 10,
		MaxCost:     cfg.Cache.Storage.MaxCost,
		BufferItems: 64,
		OnEvict: func(item *ristretto.Item) {
			c.shardFor(item.Key).evict(item.Key)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("build admission policy: %w", err)
	}
	c.policy = policy

	return c, nil
}

// Set stores an entry under key. Replacing an existing entry waits, inside
// Set, for readers of the replaced entry to release it. Colder keys that
// the admission policy dooms to make room are evicted from its OnEvict
// callback on ristretto's own goroutine, not inside Set.
func (c *Cache) Set(key []byte, e Entry) {
	h := hash(key)
	delta := c.shardFor(h).set(h, e)
	if delta != 0 {
		c.policy.Set(h, struct{}{}, e.Weight())
	}
}

// Get looks up key and returns a Strong observer for its entry. The
// caller must Release the observer when done reading.
func (c *Cache) Get(key []byte) (rc.Strong[Entry], bool) {
	h := hash(key)
	strong, ok := c.shardFor(h).get(h)
	if ok {
		c.policy.Get(h)
	}
	return strong, ok
}

// Delete evicts key outright, independent of the admission policy.
func (c *Cache) Delete(key []byte) {
	h := hash(key)
	c.shardFor(h).evict(h)
	c.policy.Del(h)
}

// Len returns the total number of entries across all shards.
func (c *Cache) Len() int64 {
	var n int64
	for _, s := range c.shards {
		n += s.length()
	}
	return n
}

// Weight returns the total approximate bytes held across all shards.
func (c *Cache) Weight() int64 {
	var w int64
	for _, s := range c.shards {
		w += s.weight()
	}
	return w
}

func (c *Cache) shardFor(h uint64) *shard {
	return c.shards[h&c.mask]
}

func hash(key []byte) uint64 {
	return xxh3.Hash(key)
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
