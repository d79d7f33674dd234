// pkg/math/math_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"
	"testing"
)

func TestQuadraticRoots(t *testing.T) {
	type testCase struct {
		a, b, c float64
		r0, r1  float64
		ok      bool
	}
	for _, tc := range []testCase{
		{a: 1, b: -3, c: 2, r0: 1, r1: 2, ok: true},
		{a: 1, b: 0, c: -4, r0: -2, r1: 2, ok: true},
		{a: 1, b: 2, c: 1, r0: -1, r1: -1, ok: true},
		{a: 1, b: 0, c: 1, ok: false},
		{a: 0, b: 2, c: -4, r0: 2, r1: 2, ok: true},
		{a: 0, b: 0, c: 1, ok: false},
		{a: 2, b: 0, c: 0, r0: 0, r1: 0, ok: true},
	} {
		r0, r1, ok := QuadraticRoots(tc.a, tc.b, tc.c)
		if ok != tc.ok {
			t.Errorf("%+v: got ok %v", tc, ok)
			continue
		}
		if ok && (!Within(r0, tc.r0, 1e-9) || !Within(r1, tc.r1, 1e-9)) {
			t.Errorf("%+v: got roots %f, %f", tc, r0, r1)
		}
	}
}

func TestSignAbs(t *testing.T) {
	for _, c := range []struct{ v, sign float64 }{{3.5, 1}, {-0.25, -1}, {0, 0}} {
		if s := Sign(c.v); s != c.sign {
			t.Errorf("Sign(%f) = %f", c.v, s)
		}
	}
	if Sign(-7) != -1 || Sign(int64(9)) != 1 || Sign(int8(0)) != 0 {
		t.Errorf("integer Sign")
	}
	if Abs(-3) != 3 || Abs(uint(4)) != 4 || Abs(-2.5) != 2.5 {
		t.Errorf("Abs")
	}
}

func TestTrackAngles(t *testing.T) {
	if v := To2Pi(-Pi / 2); !Within(v, 3*Pi/2, 1e-12) {
		t.Errorf("To2Pi(-pi/2) = %f", v)
	}
	if v := ToPi(3 * Pi / 2); !Within(v, -Pi/2, 1e-12) {
		t.Errorf("ToPi(3pi/2) = %f", v)
	}
	if d := TurnDelta(Radians(350), Radians(10)); !Within(d, Radians(20), 1e-12) {
		t.Errorf("TurnDelta 350->10 = %f deg", Degrees(d))
	}
	if d := TurnDelta(Radians(10), Radians(350)); !Within(d, Radians(-20), 1e-12) {
		t.Errorf("TurnDelta 10->350 = %f deg", Degrees(d))
	}
	if d := TurnDeltaDir(Radians(10), Radians(350), 1); !Within(d, Radians(340), 1e-12) {
		t.Errorf("TurnDeltaDir right 10->350 = %f deg", Degrees(d))
	}
	if TurnDir(0, Radians(90)) != 1 || TurnDir(0, Radians(-90)) != -1 {
		t.Errorf("TurnDir gave the wrong direction")
	}
	if trk := Track2([2]float64{1, 0}); !Within(trk, Pi/2, 1e-12) {
		t.Errorf("east track = %f", Degrees(trk))
	}
}

func TestLineIntersections(t *testing.T) {
	p, ok := LineLineIntersect([2]float64{0, 0}, [2]float64{10, 0}, [2]float64{5, -5}, [2]float64{5, 5})
	if !ok || Distance2(p, [2]float64{5, 0}) > 1e-9 {
		t.Errorf("LineLineIntersect: got %v %v", p, ok)
	}
	if _, ok := LineLineIntersect([2]float64{0, 0}, [2]float64{10, 0}, [2]float64{0, 1}, [2]float64{10, 1}); ok {
		t.Errorf("parallel lines should not intersect")
	}

	p, d0, d1, ok := RayRayIntersect([2]float64{0, 0}, Pi/2, [2]float64{10, 10}, Pi)
	if !ok || Distance2(p, [2]float64{10, 0}) > 1e-9 || !Within(d0, 10, 1e-9) || !Within(d1, 10, 1e-9) {
		t.Errorf("RayRayIntersect: got %v %f %f %v", p, d0, d1, ok)
	}
}

func TestGreatCircle(t *testing.T) {
	// One degree of latitude is 60nm on this earth model.
	d := GCDistance(0, 0, Radians(1), 0)
	if !Within(d, 60*MetersPerNM, 1e-6) {
		t.Errorf("one degree of latitude = %f nm", MetersToNM(d))
	}

	if c := GCInitialCourse(0, 0, 0, Radians(1)); !Within(c, Pi/2, 1e-9) {
		t.Errorf("course along the equator = %f", Degrees(c))
	}
	if c := GCInitialCourse(0, 0, Radians(1), 0); !Within(c, 0, 1e-9) {
		t.Errorf("course due north = %f", Degrees(c))
	}

	lat0, lon0 := Radians(40.6), Radians(-73.8)
	lat1, lon1 := Radians(51.5), Radians(-0.1)
	c := GCInitialCourse(lat0, lon0, lat1, lon1)
	dist := GCDistance(lat0, lon0, lat1, lon1)
	lat, lon := GCLinearInitial(lat0, lon0, c, dist)
	if GCDistance(lat, lon, lat1, lon1) > 1 {
		t.Errorf("linear initial round trip misses by %f m", GCDistance(lat, lon, lat1, lon1))
	}

	lat, lon = GCInterpolate(lat0, lon0, lat1, lon1, 0.5)
	if !Within(GCDistance(lat0, lon0, lat, lon), dist/2, 1) {
		t.Errorf("interpolated midpoint is not halfway")
	}

	// Meridian through lon=0 heading north and the equator heading east
	// meet at the origin.
	lat, lon, ok := GCIntersection(Radians(-5), 0, 0, 0, Radians(5), Pi/2)
	if !ok || !Within(lat, 0, 1e-9) || !Within(lon, 0, 1e-9) {
		t.Errorf("GCIntersection: got %f %f %v", Degrees(lat), Degrees(lon), ok)
	}

	if x := GCCrossTrackDistance(0, 0, Pi/2, Radians(-1), Radians(1)); !Within(x, 60*MetersPerNM, 10) {
		t.Errorf("cross track distance = %f nm", MetersToNM(x))
	}
}

func TestPositionVelocity(t *testing.T) {
	v := MkTrkGsVs(Radians(90), 100, 5)
	if !Within(v.Trk(), Radians(90), 1e-12) || !Within(v.Gs(), 100, 1e-12) || v.Vs() != 5 {
		t.Errorf("MkTrkGsVs round trip: %v", v)
	}
	if g := v.MkGs(50).Gs(); !Within(g, 50, 1e-12) {
		t.Errorf("MkGs: %f", g)
	}

	p := MakeXYZ(0, 0, 1000)
	q := p.Linear(v, 10)
	if !Within(q.X, 1000, 1e-9) || !Within(q.Y, 0, 1e-9) || !Within(q.Z, 1050, 1e-9) {
		t.Errorf("Euclidean linear: %v", q)
	}

	pll := MakeLatLonAltDeg(0, 0, 1000)
	qll := pll.Linear(v, 10)
	if !Within(pll.DistanceH(qll), 1000, 1e-6) || !Within(qll.Alt(), 1050, 1e-9) {
		t.Errorf("geodetic linear: %v", qll)
	}
	if !Within(pll.Track(qll), Radians(90), 1e-9) {
		t.Errorf("geodetic track: %f", Degrees(pll.Track(qll)))
	}

	mid := p.Interpolate(q, 0.5)
	if !Within(mid.X, 500, 1e-9) || !Within(mid.Z, 1025, 1e-9) {
		t.Errorf("interpolate: %v", mid)
	}

	vb := VelocityBetween(pll, qll, 10)
	if !Within(vb.Gs(), 100, 1e-6) || !Within(vb.Vs(), 5, 1e-9) {
		t.Errorf("VelocityBetween: %v", vb)
	}

	x, ok := Intersection2D(MakeXYZ(0, 0, 0), Radians(90), MakeXYZ(1000, 1000, 0), Radians(180))
	if !ok || gomath.Abs(x.X-1000) > 1e-9 || gomath.Abs(x.Y) > 1e-9 {
		t.Errorf("Intersection2D: %v %v", x, ok)
	}
}
