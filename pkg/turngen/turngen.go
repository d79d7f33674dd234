// pkg/turngen/turngen.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package turngen computes the begin, middle and end points of a turn of
// given radius that joins two legs meeting at a vertex.
package turngen

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/mmp/trajgen/pkg/kinematics"
	"github.com/mmp/trajgen/pkg/math"
)

var ErrColinear = errors.New("Legs are colinear; no turn is possible")

// TurnSolution describes the turn at a vertex. BOT, MOT and EOT carry
// altitudes and times only when produced by Generate.
type TurnSolution struct {
	BOT, MOT, EOT kinematics.Vertex
	Center        math.Position
	Dir           int     // +1 right, -1 left
	Radius        float64 // unsigned
	TurnAngle     float64 // change of course about the center, radians
	ArcLength     float64
	TangentDist   float64 // distance from the vertex to BOT (and EOT)
}

// SignedRadius returns the radius with the sign of the turn direction.
func (ts TurnSolution) SignedRadius() float64 {
	return float64(ts.Dir) * ts.Radius
}

func checkRadius(R float64) error {
	if R <= 0 || math.IsInf(R) || math.IsNaN(R) {
		return fmt.Errorf("radius %f: %w", R, kinematics.ErrInvalidRadius)
	}
	return nil
}

// Euclidean computes the turn at p2 between the legs p1-p2 and p2-p3 in
// flat geometry.
func Euclidean(p1, p2, p3 math.Position, R float64) (TurnSolution, error) {
	if err := checkRadius(R); err != nil {
		return TurnSolution{}, err
	}
	v := p2.Point2()
	a := math.Normalize2(math.Sub2(p3.Point2(), v))
	b := math.Normalize2(math.Sub2(p1.Point2(), v))
	if math.Length2(a) == 0 || math.Length2(b) == 0 || math.Abs(math.Cross2(a, b)) < 1e-12 {
		return TurnSolution{}, ErrColinear
	}

	// theta is half of the angle between the legs at the vertex.
	theta := math.SafeACos(math.Dot2(a, b)) / 2
	L := R / math.Tan(theta)
	u := math.Normalize2(math.Add2(a, b))
	hyp := R / math.Sin(theta)

	bot := math.Add2(v, math.Scale2(b, L))
	eot := math.Add2(v, math.Scale2(a, L))
	center := math.Add2(v, math.Scale2(u, hyp))
	mot := math.Add2(v, math.Scale2(u, hyp-R))

	angle := gomath.Pi - 2*theta
	dir := math.TurnDir(p1.Track(p2), p2.Track(p3))
	mk := func(xy [2]float64) kinematics.Vertex {
		return kinematics.Vertex{Pos: math.MakeXYZ(xy[0], xy[1], p2.Z)}
	}
	return TurnSolution{
		BOT:         mk(bot),
		MOT:         mk(mot),
		EOT:         mk(eot),
		Center:      math.MakeXYZ(center[0], center[1], p2.Z),
		Dir:         dir,
		Radius:      R,
		TurnAngle:   angle,
		ArcLength:   angle * R,
		TangentDist: L,
	}, nil
}

// Spherical computes the turn at p2 for lat-long positions. The tangent
// points and center come from the right spherical triangle formed by the
// vertex, the center and a tangent point.
func Spherical(p1, p2, p3 math.Position, R float64) (TurnSolution, error) {
	if err := checkRadius(R); err != nil {
		return TurnSolution{}, err
	}
	if p1.DistanceH(p2) == 0 || p2.DistanceH(p3) == 0 {
		return TurnSolution{}, ErrColinear
	}

	crsToP1 := p2.Track(p1)
	crsToP3 := p2.Track(p3)
	delta := math.TurnDelta(crsToP1, crsToP3)
	theta := math.Abs(delta) / 2
	if theta < 1e-9 || theta > gomath.Pi/2-1e-9 {
		return TurnSolution{}, ErrColinear
	}

	r := R / math.EarthRadius
	sinX := math.Tan(r) / math.Tan(theta)
	sinC := math.Sin(r) / math.Sin(theta)
	if sinX > 1 || sinC > 1 {
		return TurnSolution{}, fmt.Errorf("radius %f too large for %.1f degree turn: %w", R,
			math.Degrees(gomath.Pi-2*theta), kinematics.ErrInvalidRadius)
	}
	x := math.SafeASin(sinX) * math.EarthRadius
	hyp := math.SafeASin(sinC) * math.EarthRadius

	bisector := crsToP1 + delta/2
	bot := p2.LinearDist2D(crsToP1, x)
	eot := p2.LinearDist2D(crsToP3, x)
	center := p2.LinearDist2D(bisector, hyp)
	mot := p2.LinearDist2D(bisector, hyp-R)

	angle := math.TrackDifference(center.Track(bot), center.Track(eot))
	dir := math.TurnDir(p1.FinalTrack(p2), p2.Track(p3))
	return TurnSolution{
		BOT:         kinematics.Vertex{Pos: bot},
		MOT:         kinematics.Vertex{Pos: mot},
		EOT:         kinematics.Vertex{Pos: eot},
		Center:      center,
		Dir:         dir,
		Radius:      R,
		TurnAngle:   angle,
		ArcLength:   angle * R,
		TangentDist: x,
	}, nil
}

// Solve dispatches to Euclidean or Spherical based on the kind of the
// vertex position.
func Solve(p1, p2, p3 math.Position, R float64) (TurnSolution, error) {
	if p2.LatLon {
		return Spherical(p1, p2, p3, R)
	}
	return Euclidean(p1, p2, p3, R)
}

// Generate computes the turn at v2 and assigns times and altitudes to its
// points. The turn is flown at the ground speed of the incoming leg and
// is centered in time on the vertex: the MOT is reached at v2's time,
// with BOT and EOT half the arc's flight time before and after it.
// Altitudes are sampled from the straight-line vertical profile through
// the three vertices so that inserting the turn leaves the vertical
// profile unchanged.
func Generate(v1, v2, v3 kinematics.Vertex, R float64) (TurnSolution, error) {
	if v2.Time <= v1.Time || v3.Time <= v2.Time {
		return TurnSolution{}, fmt.Errorf("times %.2f %.2f %.2f: %w", v1.Time, v2.Time, v3.Time,
			kinematics.ErrInsufficientTime)
	}
	gs := v1.Pos.DistanceH(v2.Pos) / (v2.Time - v1.Time)
	if math.AlmostZero(gs) {
		return TurnSolution{}, kinematics.ErrDegenerateSpeed
	}

	ts, err := Solve(v1.Pos, v2.Pos, v3.Pos, R)
	if err != nil {
		return TurnSolution{}, err
	}

	half := ts.ArcLength / (2 * gs)
	ts.BOT.Time = v2.Time - half
	ts.MOT.Time = v2.Time
	ts.EOT.Time = v2.Time + half

	alt := func(t float64) float64 {
		if t <= v2.Time {
			return math.Lerp((t-v1.Time)/(v2.Time-v1.Time), v1.Pos.Z, v2.Pos.Z)
		}
		return math.Lerp((t-v2.Time)/(v3.Time-v2.Time), v2.Pos.Z, v3.Pos.Z)
	}
	for _, vt := range []*kinematics.Vertex{&ts.BOT, &ts.MOT, &ts.EOT} {
		vt.Pos = vt.Pos.MkAlt(alt(vt.Time))
	}
	ts.Center = ts.Center.MkAlt(0)
	return ts, nil
}
