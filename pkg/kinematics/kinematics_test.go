// pkg/kinematics/kinematics_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package kinematics

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/mmp/trajgen/pkg/math"
)

func TestTurnRadiusBankInverse(t *testing.T) {
	for _, speed := range []float64{30, 100, 250} {
		for _, bankDeg := range []float64{1, 5, 20, 45, 80} {
			bank := math.Radians(bankDeg)
			r := TurnRadius(speed, bank)
			if b := BankAngleRadius(speed, r); !math.Within(b, bank, 1e-9) {
				t.Errorf("speed %f bank %f: got bank %f back", speed, bankDeg, math.Degrees(b))
			}
		}
	}

	if r := TurnRadius(100, 0); !math.IsInf(r) {
		t.Errorf("zero bank: expected infinite radius, got %f", r)
	}
	if r := TurnRadius(100, gomath.Pi/2); r != 0 {
		t.Errorf("vertical bank: expected zero radius, got %f", r)
	}
	if r := TurnRadius(100, math.Radians(-20)); !math.Within(r, TurnRadius(100, math.Radians(20)), 1e-9) {
		t.Errorf("negative bank should give the same radius: %f", r)
	}
}

func TestTurnOmega(t *testing.T) {
	vel := math.MkTrkGsVs(0, 100, 2)
	R := 1000.0
	omega := vel.Gs() / R
	tq := (gomath.Pi / 2) / omega

	p, v := TurnOmega(math.MakeXYZ(0, 0, 100), vel, tq, omega)
	if !math.Within(p.X, 1000, 1e-6) || !math.Within(p.Y, 1000, 1e-6) {
		t.Errorf("right quarter turn: got %v", p)
	}
	if !math.Within(p.Z, 100+2*tq, 1e-9) {
		t.Errorf("altitude: got %f", p.Z)
	}
	if !math.Within(v.Trk(), gomath.Pi/2, 1e-9) || !math.Within(v.Gs(), 100, 1e-9) {
		t.Errorf("velocity: got %v", v)
	}

	p, _ = TurnOmega(math.MakeXYZ(0, 0, 0), vel, tq, -omega)
	if !math.Within(p.X, -1000, 1e-6) || !math.Within(p.Y, 1000, 1e-6) {
		t.Errorf("left quarter turn: got %v", p)
	}

	p, v = TurnOmega(math.MakeXYZ(0, 0, 0), vel, 10, 0)
	if !math.Within(p.Y, 1000, 1e-9) || v != vel {
		t.Errorf("zero rate should be linear: got %v %v", p, v)
	}
}

func TestTurnLatLon(t *testing.T) {
	so := math.MakeLatLonAltDeg(40, -75, 3000)
	vel := math.MkTrkGsVs(math.Radians(30), 120, 0)
	R := 2000.0
	center := CenterOfTurn(so, vel, R, 1)
	if d := center.DistanceH(so); !math.Within(d, R, 1e-6) {
		t.Fatalf("center distance %f", d)
	}

	tq := (gomath.Pi / 2) * R / vel.Gs()
	p, v := TurnRadiusDir(so, vel, tq, R, 1)
	if d := center.DistanceH(p); !math.Within(d, R, 1e-3) {
		t.Errorf("turned point is %f from center", d)
	}
	if d := math.TrackDifference(v.Trk(), math.Radians(120)); d > 1e-3 {
		t.Errorf("final track off by %f deg", math.Degrees(d))
	}
	if !math.Within(p.Z, 3000, 1e-9) {
		t.Errorf("altitude changed: %f", p.Z)
	}
}

func TestTurnByDist2D(t *testing.T) {
	so := math.MakeXYZ(0, 0, 50)
	center := math.MakeXYZ(1000, 0, 0)
	p, v := TurnByDist2D(so, center, 1, gomath.Pi*1000/2, 80)
	if !math.Within(p.X, 1000, 1e-6) || !math.Within(p.Y, 1000, 1e-6) || p.Z != 50 {
		t.Errorf("got %v", p)
	}
	if !math.Within(v.Trk(), gomath.Pi/2, 1e-9) || !math.Within(v.Gs(), 80, 1e-9) {
		t.Errorf("got velocity %v", v)
	}
}

func TestTurnUntil(t *testing.T) {
	vel := math.MkTrkGsVs(0, 100, 0)
	bank := math.Radians(25)
	turnTime := TurnTime(100, gomath.Pi/2, bank)

	_, v := TurnUntil(math.MakeXYZ(0, 0, 0), vel, turnTime/2, gomath.Pi/2, bank)
	if !math.Within(v.Trk(), gomath.Pi/4, 1e-9) {
		t.Errorf("halfway: track %f", math.Degrees(v.Trk()))
	}

	p0, _ := TurnUntil(math.MakeXYZ(0, 0, 0), vel, turnTime, gomath.Pi/2, bank)
	p, v := TurnUntil(math.MakeXYZ(0, 0, 0), vel, turnTime+10, gomath.Pi/2, bank)
	if !math.Within(v.Trk(), gomath.Pi/2, 1e-9) {
		t.Errorf("after turn: track %f", math.Degrees(v.Trk()))
	}
	if !math.Within(p.X-p0.X, 1000, 1e-6) || !math.Within(p.Y, p0.Y, 1e-6) {
		t.Errorf("expected straight flight east after the turn: %v -> %v", p0, p)
	}
}

func TestGsAccelUntilRoundTrip(t *testing.T) {
	pos := math.MakeXYZ(0, 0, 1000)
	for _, gsIn := range []float64{50, 100, 200} {
		for _, target := range []float64{30, 120, 250} {
			for _, accel := range []float64{0.5, 2} {
				vel := math.MkTrkGsVs(math.Radians(45), gsIn, 0)
				at := GsAccelTime(gsIn, target, accel)
				_, v := GsAccelUntil(pos, vel, at, target, accel)
				if !math.Within(v.Gs(), target, 1e-9) {
					t.Errorf("%f -> %f at %f: got %f", gsIn, target, accel, v.Gs())
				}

				p, v := GsAccelUntil(pos, vel, at+10, target, accel)
				want := DistanceToGs(gsIn, target, accel) + 10*target
				if d := pos.DistanceH(p); !math.Within(d, want, 1e-6) {
					t.Errorf("%f -> %f at %f: distance %f, expected %f", gsIn, target, accel, d, want)
				}
				if !math.Within(v.Gs(), target, 1e-9) || !math.Within(v.Trk(), math.Radians(45), 1e-9) {
					t.Errorf("%f -> %f: final velocity %v", gsIn, target, v)
				}
			}
		}
	}
}

func TestTimeToDistance(t *testing.T) {
	for _, c := range []struct{ gs0, a, d float64 }{
		{100, 2, 3125}, {100, 0, 500}, {150, -2, 3125}, {10, 1, 0},
	} {
		tt, ok := TimeToDistance(c.gs0, c.a, c.d)
		if !ok {
			t.Errorf("%v: no solution", c)
			continue
		}
		if d := GsAccelDist(c.gs0, c.a, tt); !math.Within(d, c.d, 1e-6) {
			t.Errorf("%v: t %f covers %f", c, tt, d)
		}
	}

	if _, ok := TimeToDistance(10, -1, 100); ok {
		t.Errorf("expected to stop before covering the distance")
	}
}

func TestGsAccelToRTA(t *testing.T) {
	for _, c := range []struct{ gsIn, dist, rta, accel float64 }{
		{100, 12000, 100, 1},
		{100, 8000, 100, 1},
		{150, 25000, 200, 0.5},
		{100, 10000, 100, 1},
	} {
		sol, err := GsAccelToRTA(c.gsIn, c.dist, c.rta, c.accel)
		if err != nil {
			t.Errorf("%v: unexpected error %v", c, err)
			continue
		}
		tt, a := sol.AccelTime, sol.Accel
		d := c.gsIn*tt + 0.5*a*tt*tt + sol.GoalGs*(c.rta-tt)
		if !math.Within(d, c.dist, 1e-6) {
			t.Errorf("%v: covers %f", c, d)
		}
		if !math.Within(sol.GoalGs, c.gsIn+a*tt, 1e-9) {
			t.Errorf("%v: goal gs %f inconsistent", c, sol.GoalGs)
		}
	}

	if _, err := GsAccelToRTA(100, 20000, 100, 1); !errors.Is(err, ErrNoRTASolution) {
		t.Errorf("expected ErrNoRTASolution, got %v", err)
	}
	if _, err := GsAccelToRTA(100, 1000, 0, 1); !errors.Is(err, ErrInsufficientTime) {
		t.Errorf("expected ErrInsufficientTime, got %v", err)
	}
}

func TestGsAccelToRTAV(t *testing.T) {
	for _, c := range []struct{ gsIn, dist, rta, gsOut, accel float64 }{
		{100, 12000, 100, 100, 1},
		{100, 12000, 100, 150, 1},
		{150, 11000, 100, 80, 1},
		{100, 10000, 100, 100, 1},
	} {
		p, err := GsAccelToRTAV(c.gsIn, c.dist, c.rta, c.gsOut, c.accel)
		if err != nil {
			t.Errorf("%v: unexpected error %v", c, err)
			continue
		}
		if !math.Within(p.Duration(), c.rta, 1e-6) {
			t.Errorf("%v: duration %f", c, p.Duration())
		}
		if d := p.Distance(c.gsIn); !math.Within(d, c.dist, 1e-6) {
			t.Errorf("%v: distance %f", c, d)
		}
		if !math.Within(c.gsIn+p.Accel1*p.T1, p.GsMid, 1e-6) || !math.Within(p.GsMid+p.Accel2*p.T3, c.gsOut, 1e-6) {
			t.Errorf("%v: speeds don't match: %+v", c, p)
		}
	}

	// Speeding up and slowing back down is preferred.
	if p, err := GsAccelToRTAV(100, 12000, 100, 100, 1); err != nil || p.Accel1 != 1 || p.Accel2 != -1 ||
		!math.Within(p.GsMid, 150-10*gomath.Sqrt(5), 1e-6) {
		t.Errorf("unexpected profile %+v %v", p, err)
	}

	if _, err := GsAccelToRTAV(100, 50000, 100, 100, 1); !errors.Is(err, ErrNoRTASolution) {
		t.Errorf("expected ErrNoRTASolution, got %v", err)
	}
}

func TestVsLevelOutTimes(t *testing.T) {
	type tc struct {
		alt0, vs0, climb, target, up, down float64
		allow                              bool
	}
	for _, c := range []tc{
		{0, 0, 10, 1000, 1, 1, false},
		{0, 0, 10, 20, 1, 1, false},
		{0, -5, 10, 100, 1, 1, false},
		{0, 20, 10, 100, 1, 1, false},
		{3000, 0, 15, 0, 0.5, 1, false},
		{3000, 10, 15, 0, 0.5, 1, false},
		{0, 25, 10, 5000, 1, 2, true},
		{1000, -3, 8, 1000, 1.5, 1.5, false},
		{500, 0, 5, 500.5, 1, 1, false},
	} {
		lp, err := VsLevelOutTimes(c.alt0, c.vs0, c.climb, c.target, c.up, c.down, c.allow)
		if err != nil {
			t.Errorf("%+v: unexpected error %v", c, err)
			continue
		}
		if lp.T1 < 0 || lp.T2 < lp.T1 || lp.T3 < lp.T2 {
			t.Errorf("%+v: bad times %+v", c, lp)
		}
		alt, vs := lp.Eval(c.alt0, c.vs0, lp.T3)
		if !math.Within(alt, c.target, 1e-6) || !math.Within(vs, 0, 1e-9) {
			t.Errorf("%+v: at T3 alt %f vs %f (%+v)", c, alt, vs, lp)
		}
		if math.Abs(lp.Accel1) > max(c.up, c.down)+1e-12 || math.Abs(lp.Accel2) > max(c.up, c.down)+1e-12 {
			t.Errorf("%+v: acceleration exceeds limits: %+v", c, lp)
		}
		if !c.allow && lp.T2 > lp.T1 && math.Abs(lp.ClimbRate) > c.climb+1e-9 {
			t.Errorf("%+v: cruise rate %f exceeds climb rate", c, lp.ClimbRate)
		}
	}

	lp, _ := VsLevelOutTimes(0, 25, 10, 5000, 1, 2, true)
	if !math.Within(lp.ClimbRate, 25, 1e-9) || lp.T1 != 0 {
		t.Errorf("expected to keep the current climb rate: %+v", lp)
	}

	if _, err := VsLevelOutTimes(0, 0, 10, 1000, 0, 1, false); !errors.Is(err, ErrInvalidAccel) {
		t.Errorf("expected ErrInvalidAccel, got %v", err)
	}
	if _, err := VsLevelOutTimes(0, 0, 0, 1000, 1, 1, false); !errors.Is(err, ErrUnreachableAltitude) {
		t.Errorf("expected ErrUnreachableAltitude, got %v", err)
	}
}

func TestVsLevelOut(t *testing.T) {
	pos := math.MakeXYZ(0, 0, 0)
	vel := math.MkTrkGsVs(0, 100, 0)
	lp, err := VsLevelOutTimes(0, 0, 10, 1000, 1, 1, false)
	if err != nil {
		t.Fatal(err)
	}

	p, v, err := VsLevelOut(pos, vel, lp.T3+30, 10, 1000, 1, 1, false)
	if err != nil {
		t.Fatal(err)
	}
	if p.Z != 1000 || v.Z != 0 || !math.Within(p.Y, 100*(lp.T3+30), 1e-6) {
		t.Errorf("after level-off: %v %v", p, v)
	}

	p, v, _ = VsLevelOut(pos, vel, (lp.T1+lp.T2)/2, 10, 1000, 1, 1, false)
	if !math.Within(v.Z, 10, 1e-9) || p.Z <= 0 || p.Z >= 1000 {
		t.Errorf("mid-climb: %v %v", p, v)
	}
}

func TestVsAccelUntil(t *testing.T) {
	pos := math.MakeXYZ(0, 0, 1000)
	vel := math.MkTrkGsVs(0, 100, 0)
	at := VsAccelTime(0, -10, 2)
	p, v := VsAccelUntil(pos, vel, at+5, -10, 2)
	if !math.Within(v.Z, -10, 1e-9) {
		t.Errorf("vs %f", v.Z)
	}
	if want := 1000 - 0.5*2*at*at - 50; !math.Within(p.Z, want, 1e-9) {
		t.Errorf("alt %f, expected %f", p.Z, want)
	}
}

func TestDirectTo(t *testing.T) {
	so := math.MakeXYZ(0, 0, 1000)
	vo := math.MkTrkGsVs(0, 100, 0)

	sol, err := DirectTo(so, vo, math.MakeXYZ(10000, 0, 0), 1000)
	if err != nil {
		t.Fatal(err)
	}
	if sol.Dir != 1 {
		t.Errorf("expected right turn, got %d", sol.Dir)
	}
	if d := sol.Center.DistanceH(sol.EOT); !math.Within(d, 1000, 1e-6) {
		t.Errorf("EOT is %f from center", d)
	}
	if d := math.TrackDifference(sol.EOT.Track(math.MakeXYZ(10000, 0, 0)), sol.FinalTrk); d > 1e-9 {
		t.Errorf("final track doesn't point at goal: off by %f", d)
	}
	if !math.Within(sol.TurnAngle, sol.FinalTrk, 1e-9) || !math.Within(sol.Time, sol.TurnAngle*1000/100, 1e-9) {
		t.Errorf("unexpected turn angle/time %+v", sol)
	}

	pos, vel, tt, err := DirectToPoint(so, vo, math.MakeXYZ(-10000, 5000, 0), 1000)
	if err != nil {
		t.Fatal(err)
	}
	if tt <= 0 || !math.Within(vel.Gs(), 100, 1e-9) || pos.Z != 1000 {
		t.Errorf("left turn: %v %v %f", pos, vel, tt)
	}

	if _, err := DirectTo(so, vo, math.MakeXYZ(500, 100, 0), 1000); !errors.Is(err, ErrGoalInsideTurn) {
		t.Errorf("expected ErrGoalInsideTurn, got %v", err)
	}
	if _, err := DirectTo(so, vo, math.MakeXYZ(500, 100, 0), 0); !errors.Is(err, ErrInvalidRadius) {
		t.Errorf("expected ErrInvalidRadius, got %v", err)
	}

	sol, err = DirectTo(so, vo, math.MakeXYZ(0, 5000, 0), 1000)
	if err != nil || sol.Dir != 0 || sol.Time != 0 {
		t.Errorf("goal straight ahead: %+v %v", sol, err)
	}
}

func TestDirectToLatLon(t *testing.T) {
	so := math.MakeLatLonAltDeg(40, -75, 3000)
	vo := math.MkTrkGsVs(0, 100, 0)
	goal := so.LinearDist2D(gomath.Pi/2, 20000)

	sol, err := DirectTo(so, vo, goal, 1500)
	if err != nil {
		t.Fatal(err)
	}
	if d := sol.Center.DistanceH(sol.EOT); !math.Within(d, 1500, 0.01) {
		t.Errorf("EOT is %f from center", d)
	}
	if sol.TurnAngle < gomath.Pi/2 || sol.TurnAngle > gomath.Pi/2+0.2 {
		t.Errorf("unexpected turn angle %f", math.Degrees(sol.TurnAngle))
	}
}

func TestGenDirectToVertexList(t *testing.T) {
	so := math.MakeXYZ(0, 0, 0)
	vo := math.MkTrkGsVs(0, 100, 0)
	goal := math.MakeXYZ(0, -10000, 0)
	R := 1000.0

	verts, err := GenDirectToVertexList(so, vo, 10, goal, R, 0)
	if err != nil {
		t.Fatal(err)
	}
	// A turn of more than 180 degrees is split into three pieces.
	if len(verts) != 5 {
		t.Fatalf("expected 5 vertices, got %d: %+v", len(verts), verts)
	}
	if verts[0].Pos != so || verts[0].Time != 10 {
		t.Errorf("first vertex %+v", verts[0])
	}
	if !verts[4].Pos.AlmostEquals2D(goal, 1e-6) {
		t.Errorf("last vertex %+v", verts[4])
	}
	for i := 1; i < len(verts); i++ {
		if verts[i].Time <= verts[i-1].Time {
			t.Errorf("times not increasing at %d: %+v", i, verts)
		}
	}

	sol, _ := DirectTo(so, vo, goal, R)
	delta := sol.TurnAngle / 3
	for i := 1; i <= 3; i++ {
		if d := sol.Center.DistanceH(verts[i].Pos); !math.Within(d, R/math.Cos(delta/2), 1e-6) {
			t.Errorf("vertex %d is %f from center", i, d)
		}
	}

	verts, err = GenDirectToVertexList(so, vo, 0, math.MakeXYZ(10000, 20000, 0), R, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(verts) != 4 || !math.Within(verts[1].Pos.Y, 500, 1e-9) || verts[1].Time != 5 {
		t.Errorf("straight segment first: %+v", verts)
	}
}
