// pkg/plan/check_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package plan

import (
	"strings"
	"testing"
)

func TestWellFormed(t *testing.T) {
	for _, c := range []struct {
		name   string
		mutate func(p *Plan)
		idx    int
		reason string
	}{
		{"ok", func(p *Plan) {}, -1, ""},
		{"unclosed", func(p *Plan) { p.data[2].Clear(TrkAxis) }, 1, "never closed"},
		{"unopened", func(p *Plan) { p.data[1].Clear(TrkAxis) }, 2, "no matching"},
		{"zero radius", func(p *Plan) { p.data[1].SignedRadius = 0 }, 1, "zero radius"},
		{"times", func(p *Plan) { p.points[2].Time = p.points[1].Time }, 2, "within"},
		{"overlap", func(p *Plan) { p.data[2].SetBOT(1000, p.points[2].Pos); p.data[2].Trk = Begin }, 2, "overlaps"},
	} {
		t.Run(c.name, func(t *testing.T) {
			p := turnPlan()
			c.mutate(p)
			idx, why := p.WellFormedReason()
			if idx != c.idx || !strings.Contains(why, c.reason) {
				t.Errorf("got (%d, %q), expected (%d, %q)", idx, why, c.idx, c.reason)
			}
			if p.IsWellFormed() != (c.idx < 0) {
				t.Errorf("IsWellFormed disagrees")
			}
		})
	}
}

func TestConsistency(t *testing.T) {
	p := turnPlan()
	if errs := p.ConsistencyErrors(DefaultTolerances()); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	// Move the end of the turn off its circle.
	p.points[2].Pos.Y += 50
	if p.IsConsistent() {
		t.Errorf("expected inconsistency")
	}
	if p.IsConsistentTol(Tolerances{Radius: 100, Trk: 1, Gs: 10, Vs: 10}) == false {
		t.Errorf("expected loose tolerances to accept the plan")
	}
}

func TestVelocityDiscontinuities(t *testing.T) {
	p := New("corner")
	p.AddNavPoint(np(0, 0, 0, 0, ""))
	p.AddNavPoint(np(0, 1000, 0, 10, ""))
	p.AddNavPoint(np(1000, 1000, 100, 20, ""))

	errs := p.VelocityDiscontinuities(DefaultTolerances())
	if len(errs) != 2 {
		t.Fatalf("expected track and vertical speed jumps, got %v", errs)
	}
	if !strings.Contains(errs[0], "track") || !strings.Contains(errs[1], "vertical") {
		t.Errorf("unexpected errors %v", errs)
	}
	if p.IsFlyable() {
		t.Errorf("corner should not be flyable")
	}
	if !p.IsConsistent() {
		t.Errorf("a linear plan is always consistent")
	}
}
