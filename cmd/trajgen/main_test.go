// cmd/trajgen/main_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mmp/trajgen/pkg/math"
	"github.com/mmp/trajgen/pkg/plan"
	"github.com/mmp/trajgen/pkg/trajgen"
)

func writePlans(t *testing.T, name string, plans ...*plan.Plan) string {
	path := filepath.Join(t.TempDir(), name)
	if err := plan.WriteFile(path, plans, true); err != nil {
		t.Fatal(err)
	}
	return path
}

func corner(name string, x float64) *plan.Plan {
	p := plan.New(name)
	p.AddNavPoint(plan.NavPoint{Pos: math.MakeXYZ(0, 0, 0), Time: 0})
	p.AddNavPoint(plan.NavPoint{Pos: math.MakeXYZ(x, 0, 0), Time: x / 100})
	p.AddNavPoint(plan.NavPoint{Pos: math.MakeXYZ(x, x, 0), Time: 2 * x / 100})
	return p
}

func TestRun(t *testing.T) {
	a := writePlans(t, "a.txt", corner("one", 10000), corner("two", 20000))
	b := writePlans(t, "b.msgpack.zst", corner("three", 30000))

	cfg := trajgen.DefaultConfig()
	cache := trajgen.NewCache(16, time.Minute)
	var sb strings.Builder
	out, err := run([]string{a, b}, options{check: true, workers: 2}, cfg, cache, &sb)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 plans, got %d", len(out))
	}
	for i, name := range []string{"one", "two", "three"} {
		if out[i].Name != name {
			t.Errorf("%d: got plan %q, expected %q", i, out[i].Name, name)
		}
		if out[i].HasError() || out[i].IsLinear() {
			t.Errorf("%s: %s", name, out[i])
		}
	}
	if !strings.Contains(sb.String(), "flyable true") {
		t.Errorf("check output: %s", sb.String())
	}

	rev := writePlans(t, "k.txt", out...)
	lin, err := run([]string{rev}, options{revert: true}, cfg, cache, &sb)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range lin {
		if !p.IsLinear() || p.Size() != 3 {
			t.Errorf("reverted %s", p)
		}
	}

	if _, err := run([]string{filepath.Join(t.TempDir(), "missing.txt")}, options{}, cfg, cache, &sb); err == nil {
		t.Errorf("expected error for a missing file")
	}
}
