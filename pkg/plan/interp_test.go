// pkg/plan/interp_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package plan

import (
	gomath "math"
	"testing"

	"github.com/mmp/trajgen/pkg/math"
)

func near(a, b math.Position, tol float64) bool {
	return math.Within(a.X, b.X, tol) && math.Within(a.Y, b.Y, tol) && math.Within(a.Z, b.Z, tol)
}

func TestLinearInterpolation(t *testing.T) {
	p := straightPlan(3)
	for _, c := range []struct {
		t float64
		y float64
	}{{0, 0}, {5, 500}, {15, 1500}, {20, 2000}, {25, 2500}, {-5, -500}} {
		pos, v := p.PositionVelocity(c.t, false)
		if !near(pos, math.MakeXYZ(0, c.y, 0), 1e-9) {
			t.Errorf("t=%f: got %s, expected y=%f", c.t, pos, c.y)
		}
		if !math.Within(v.Gs(), 100, 1e-9) || !math.Within(v.Trk(), 0, 1e-9) {
			t.Errorf("t=%f: velocity %s", c.t, v)
		}
	}
	if d := p.PathDistanceTotal(); d != 2000 {
		t.Errorf("total distance %f", d)
	}
	if tm := p.TimeAtDistance(1500); !math.Within(tm, 15, 1e-9) {
		t.Errorf("TimeAtDistance %f", tm)
	}
	if d := p.DistanceFromTime(12); !math.Within(d, 1200, 1e-9) {
		t.Errorf("DistanceFromTime %f", d)
	}
}

func TestTurnInterpolation(t *testing.T) {
	p := turnPlan()
	R := turnRadius
	arc := R * gomath.Pi / 2

	if d := p.PathDistance(1); !math.Within(d, arc, 1e-6) {
		t.Errorf("arc length %f, expected %f", d, arc)
	}
	if d := p.PathDistanceLinear(1); !math.Within(d, R*gomath.Sqrt2, 1e-6) {
		t.Errorf("chord %f", d)
	}
	if !math.Within(p.GsOut(1), 100, 1e-9) || !math.Within(p.GsIn(2), 100, 1e-9) {
		t.Errorf("gs %f %f", p.GsOut(1), p.GsIn(2))
	}
	if !math.Within(p.TrkOut(1), 0, 1e-9) || !math.Within(p.TrkIn(2), gomath.Pi/2, 1e-9) {
		t.Errorf("trk %f %f", math.Degrees(p.TrkOut(1)), math.Degrees(p.TrkIn(2)))
	}

	mid := 10 + arc/200
	pos, v := p.PositionVelocity(mid, false)
	center := math.MakeXYZ(R, 0, 0)
	if d := pos.DistanceH(center); !math.Within(d, R, 1e-6) {
		t.Errorf("mid-turn position %s is %f from the center", pos, d)
	}
	if !near(pos, math.MakeXYZ(R-R/gomath.Sqrt2, R/gomath.Sqrt2, 0), 1e-6) {
		t.Errorf("mid-turn position %s", pos)
	}
	if !math.Within(v.Trk(), gomath.Pi/4, 1e-6) || !math.Within(v.Gs(), 100, 1e-6) {
		t.Errorf("mid-turn velocity %s", v)
	}

	lin := p.PositionLinear(mid)
	if !near(lin, math.MakeXYZ(R/2, R/2, 0), 1e-6) {
		t.Errorf("linear mid-turn position %s", lin)
	}

	if !p.IsFlyable() {
		t.Errorf("expected flyable turn: %v", p.FlyabilityErrors(DefaultTolerances()))
	}
}

func TestPositionAtDistance(t *testing.T) {
	p := turnPlan()
	R := turnRadius
	arc := R * gomath.Pi / 2
	for _, c := range []struct {
		d   float64
		pos math.Position
	}{
		{0, math.MakeXYZ(0, -1000, 0)},
		{500, math.MakeXYZ(0, -500, 0)},
		{1000 + arc/2, math.MakeXYZ(R-R/gomath.Sqrt2, R/gomath.Sqrt2, 0)},
		{1000 + arc + 400, math.MakeXYZ(R+400, R, 0)},
	} {
		if pos := p.PositionAtDistance(c.d); !near(pos, c.pos, 1e-6) {
			t.Errorf("d=%f: got %s, expected %s", c.d, pos, c.pos)
		}
	}
}

func TestHoverTrack(t *testing.T) {
	p := New("hover")
	p.AddNavPoint(np(0, 0, 0, 0, ""))
	p.AddNavPoint(np(0, 0, 0, 60, ""))
	p.AddNavPoint(np(10000, 0, 0, 160, ""))
	p.AddNavPoint(np(10000, 0, 0, 200, ""))
	p.AddNavPoint(np(10000, 5000, 0, 300, ""))

	east, north := gomath.Pi/2, 0.0
	for _, c := range []struct {
		i       int
		in, out float64
	}{{0, east, east}, {1, east, east}, {2, east, east}, {3, east, north}} {
		if !math.Within(p.TrkIn(c.i), c.in, 1e-9) || !math.Within(p.TrkOut(c.i), c.out, 1e-9) {
			t.Errorf("%d: trk in %f out %f", c.i, math.Degrees(p.TrkIn(c.i)), math.Degrees(p.TrkOut(c.i)))
		}
	}
}

func TestGsInterpolation(t *testing.T) {
	p := gsPlan()
	for _, c := range []struct {
		i       int
		in, out float64
	}{{0, 50, 50}, {1, 70, 70}, {2, 70, 70}} {
		if !math.Within(p.GsIn(c.i), c.in, 1e-9) || !math.Within(p.GsOut(c.i), c.out, 1e-9) {
			t.Errorf("%d: gs in %f out %f", c.i, p.GsIn(c.i), p.GsOut(c.i))
		}
	}
	pos, v := p.PositionVelocity(5, false)
	if !near(pos, math.MakeXYZ(0, 275, 0), 1e-9) || !math.Within(v.Gs(), 60, 1e-9) {
		t.Errorf("t=5: %s %s", pos, v)
	}
	if tm := p.TimeAtDistance(275); !math.Within(tm, 5, 1e-9) {
		t.Errorf("TimeAtDistance %f", tm)
	}
	if d := p.DistanceFromTime(5); !math.Within(d, 275, 1e-9) {
		t.Errorf("DistanceFromTime %f", d)
	}
	if !p.IsFlyable() {
		t.Errorf("expected flyable: %v", p.FlyabilityErrors(DefaultTolerances()))
	}
}

func TestVsInterpolation(t *testing.T) {
	p := vsPlan()
	if !math.Within(p.VsOut(1), 0, 1e-9) || !math.Within(p.VsIn(2), 10, 1e-9) {
		t.Errorf("vs %f %f", p.VsOut(1), p.VsIn(2))
	}
	pos, v := p.PositionVelocity(15, false)
	if !math.Within(pos.Z, 12.5, 1e-9) || !math.Within(v.Vs(), 5, 1e-9) {
		t.Errorf("t=15: %s %s", pos, v)
	}
	if !math.Within(p.PositionLinear(15).Z, 25, 1e-9) {
		t.Errorf("linear altitude %f", p.PositionLinear(15).Z)
	}
	if !p.IsFlyable() {
		t.Errorf("expected flyable: %v", p.FlyabilityErrors(DefaultTolerances()))
	}
}

func TestLatLonInterpolation(t *testing.T) {
	p := New("ll")
	a := math.MakeLatLonAltDeg(40, -75, 1000)
	b := math.MakeLatLonAltDeg(40.5, -74.5, 2000)
	p.AddNavPoint(NavPoint{Pos: a, Time: 0})
	p.AddNavPoint(NavPoint{Pos: b, Time: 600})

	pos := p.Position(300)
	if d1, d2 := a.DistanceH(pos), pos.DistanceH(b); !math.Within(d1, d2, 1) {
		t.Errorf("midpoint distances %f %f", d1, d2)
	}
	if !math.Within(pos.Z, 1500, 1e-6) {
		t.Errorf("altitude %f", pos.Z)
	}
	gs := a.DistanceH(b) / 600
	if v := p.Velocity(300); !math.Within(v.Gs(), gs, 1e-6) {
		t.Errorf("gs %f, expected %f", v.Gs(), gs)
	}
}
