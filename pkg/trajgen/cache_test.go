// pkg/trajgen/cache_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package trajgen

import (
	"sync"
	"testing"
	"time"
)

func TestCache(t *testing.T) {
	c := NewCache(4, time.Hour)
	cfg := DefaultConfig()

	a := c.MakeKinematicPlan(cornerPlan(), cfg)
	b := c.MakeKinematicPlan(cornerPlan(), cfg)
	if hits, misses := c.Stats(); hits != 1 || misses != 1 {
		t.Errorf("hits %d misses %d", hits, misses)
	}
	if a.String() != b.String() {
		t.Errorf("cached plan differs:\n%s\n%s", a, b)
	}

	// Modifying a returned plan does not affect the cache.
	b.SetLabel(0, "changed")
	if d := c.MakeKinematicPlan(cornerPlan(), cfg); d.Point(0).Label != "A" {
		t.Errorf("cache entry modified: %s", d)
	}

	cfg.BankAngle /= 2
	c.MakeKinematicPlan(cornerPlan(), cfg)
	if _, misses := c.Stats(); misses != 2 {
		t.Errorf("expected a miss for a new configuration, got %d", misses)
	}
	if c.Len() != 2 {
		t.Errorf("cache holds %d plans", c.Len())
	}
}

func TestCacheConcurrent(t *testing.T) {
	c := NewCache(16, 0)
	cfg := DefaultConfig()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if kpc := c.MakeKinematicPlan(climbPlan(), cfg); kpc.HasError() {
				t.Errorf("%s", kpc.Message())
			}
		}()
	}
	wg.Wait()
	if hits, misses := c.Stats(); hits+misses != 8 || c.Len() != 1 {
		t.Errorf("hits %d misses %d len %d", hits, misses, c.Len())
	}
}
