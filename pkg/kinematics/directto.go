// pkg/kinematics/directto.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package kinematics

import (
	gomath "math"

	"github.com/mmp/trajgen/pkg/math"
)

// DirectToSolution describes a turn of constant radius from the current
// state that ends on a track pointing directly at a goal.
type DirectToSolution struct {
	EOT       math.Position // end of the turn, where the aircraft heads to the goal
	Center    math.Position
	Dir       int     // +1 right, -1 left, 0 if no turn is needed
	TurnAngle float64 // non-negative, radians
	Time      float64 // time from the start to EOT
	FinalTrk  float64 // track at EOT
}

// DirectTo finds the turn of radius R, in the direction of the goal, that
// starts at so with velocity vo and ends tangent to a line through goal.
// The altitude of the EOT continues vo's vertical speed.
func DirectTo(so math.Position, vo math.Velocity, goal math.Position, R float64) (DirectToSolution, error) {
	if R <= 0 || math.IsInf(R) || math.IsNaN(R) {
		return DirectToSolution{}, ErrInvalidRadius
	}
	gs := vo.Gs()
	if math.AlmostZero(gs) {
		return DirectToSolution{}, ErrDegenerateSpeed
	}

	// Work in a local frame centered at so; bearings from the origin are
	// preserved, so vo's track can be used directly.
	pr := math.NewProjection(so)
	trk := vo.Trk()
	v := math.SinCos(trk)
	g := pr.Project(goal)

	cross := math.Cross2(v, g)
	if math.Abs(cross) < 1e-9*max(1, math.Length2(g)) && math.Dot2(v, g) >= 0 {
		return DirectToSolution{EOT: so, Center: so, FinalTrk: trk}, nil
	}
	dir := 1
	if cross > 0 {
		dir = -1
	}

	c := math.Scale2(math.SinCos(trk+float64(dir)*gomath.Pi/2), R)
	d := math.Distance2(g, c)
	if d < R {
		return DirectToSolution{}, ErrGoalInsideTurn
	}

	alpha := math.SafeACos(R / d)
	theta := math.Track2(math.Sub2(g, c)) - float64(dir)*alpha
	tp := math.Add2(c, math.Scale2(math.SinCos(theta), R))
	localTrk := math.To2Pi(theta + float64(dir)*gomath.Pi/2)

	angle := math.TurnDeltaDir(trk, localTrk, dir)
	t := angle * R / gs
	eot := pr.Inverse(tp, so.Z+vo.Z*t)
	finalTrk := localTrk
	if so.LatLon && eot.DistanceH(goal) > 0 {
		finalTrk = eot.Track(goal)
	}

	return DirectToSolution{
		EOT:       eot,
		Center:    pr.Inverse(c, so.Z),
		Dir:       dir,
		TurnAngle: angle,
		Time:      t,
		FinalTrk:  finalTrk,
	}, nil
}

// DirectToPoint returns the state at the end of the DirectTo turn: its
// position, its velocity (pointing at the goal) and the time it takes to
// get there.
func DirectToPoint(so math.Position, vo math.Velocity, goal math.Position, R float64) (math.Position, math.Velocity, float64, error) {
	sol, err := DirectTo(so, vo, goal, R)
	if err != nil {
		return math.Position{}, math.Velocity{}, 0, err
	}
	return sol.EOT, math.MkTrkGsVs(sol.FinalTrk, vo.Gs(), vo.Z), sol.Time, nil
}

// Vertex is a timed point of a linear path.
type Vertex struct {
	Pos  math.Position
	Time float64
}

// GenDirectToVertexList returns the vertices of a linear path that, once
// turns of radius R are generated at its vertices, flies from so (at time
// t0) to goal. The aircraft first flies straight for timeBeforeTurn
// seconds. The turn is split into pieces of at most 90 degrees so that
// turns of more than 180 degrees can be represented; each vertex is the
// intersection of the tangent lines of successive pieces. Altitudes
// follow vo's vertical speed and times assume constant ground speed.
func GenDirectToVertexList(so math.Position, vo math.Velocity, t0 float64, goal math.Position,
	R, timeBeforeTurn float64) ([]Vertex, error) {
	gs := vo.Gs()
	if math.AlmostZero(gs) {
		return nil, ErrDegenerateSpeed
	}

	verts := []Vertex{{Pos: so, Time: t0}}
	s1, t1 := so, t0
	if timeBeforeTurn > 0 {
		s1, t1 = so.Linear(vo, timeBeforeTurn), t0+timeBeforeTurn
		verts = append(verts, Vertex{Pos: s1, Time: t1})
	}
	v1 := vo
	if so.LatLon && timeBeforeTurn > 0 {
		v1 = math.MkTrkGsVs(so.FinalTrack(s1), gs, vo.Z)
	}

	sol, err := DirectTo(s1, v1, goal, R)
	if err != nil {
		return nil, err
	}

	pr := math.NewProjection(s1)
	alt := func(t float64) float64 { return so.Z + vo.Z*(t-t0) }

	prev := [2]float64{}
	t := t1
	if sol.Dir != 0 && sol.TurnAngle > 0 {
		n := max(1, int(math.Ceil(sol.TurnAngle/(gomath.Pi/2)-1e-9)))
		delta := sol.TurnAngle / float64(n)
		c := pr.Project(sol.Center)
		theta0 := math.Track2(math.Sub2([2]float64{}, c))
		trk0 := v1.Trk()
		for k := 0; k < n; k++ {
			// tangent point k and the track there
			thetaK := theta0 + float64(sol.Dir*k)*delta
			tp := math.Add2(c, math.Scale2(math.SinCos(thetaK), R))
			trkK := trk0 + float64(sol.Dir*k)*delta
			vtx := math.Add2(tp, math.Scale2(math.SinCos(trkK), R*math.Tan(delta/2)))

			t += math.Distance2(prev, vtx) / gs
			verts = append(verts, Vertex{Pos: pr.Inverse(vtx, alt(t)), Time: t})
			prev = vtx
		}
	}
	t += math.Distance2(prev, pr.Project(goal)) / gs
	verts = append(verts, Vertex{Pos: goal.MkAlt(alt(t)), Time: t})
	return verts, nil
}
