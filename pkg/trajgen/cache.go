// pkg/trajgen/cache.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package trajgen

import (
	"crypto/sha256"
	"encoding/hex"
	"sync/atomic"
	"time"

	"github.com/mmp/trajgen/pkg/plan"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/vmihailenco/msgpack/v5"
)

// Cache memoizes MakeKinematicPlan for identical linear plans and
// configurations. It is safe for concurrent use.
type Cache struct {
	lru          *expirable.LRU[string, *plan.Plan]
	hits, misses atomic.Int64
}

// NewCache returns a cache holding up to size plans, each for at most
// ttl; a ttl of zero keeps entries until they are evicted.
func NewCache(size int, ttl time.Duration) *Cache {
	return &Cache{lru: expirable.NewLRU[string, *plan.Plan](size, nil, ttl)}
}

type cacheKey struct {
	Name   string
	Note   string
	MinDt  float64
	Points []plan.NavPoint
	Data   []plan.TcpData
	Config Config
}

func fingerprint(lpc *plan.Plan, cfg Config) (string, error) {
	k := cacheKey{Name: lpc.Name, Note: lpc.Note, MinDt: lpc.MinDt(), Points: lpc.Points(), Config: cfg}
	for i := range lpc.Size() {
		k.Data = append(k.Data, lpc.TcpData(i))
	}
	b, err := msgpack.Marshal(k)
	if err != nil {
		return "", err
	}
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:]), nil
}

// MakeKinematicPlan returns the cached result for lpc and cfg, generating
// and storing it if necessary. The returned plan is a copy that the
// caller may modify.
func (c *Cache) MakeKinematicPlan(lpc *plan.Plan, cfg Config) *plan.Plan {
	key, err := fingerprint(lpc, cfg)
	if err != nil {
		cfg.Log.Warn("unable to fingerprint plan", "plan", lpc.Name, "err", err)
		return MakeKinematicPlan(lpc, cfg)
	}
	if kpc, ok := c.lru.Get(key); ok {
		c.hits.Add(1)
		return kpc.Clone()
	}
	c.misses.Add(1)
	kpc := MakeKinematicPlan(lpc, cfg)
	c.lru.Add(key, kpc.Clone())
	return kpc
}

// Stats returns the number of lookups served from the cache and the
// number that required generation.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *Cache) Len() int { return c.lru.Len() }
