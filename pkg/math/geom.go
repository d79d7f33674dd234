// pkg/math/geom.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"
)

///////////////////////////////////////////////////////////////////////////
// 2D vectors

// Various useful functions for arithmetic with 2D points/vectors. Names
// are brief in order to avoid clutter when they're used. Component 0 is
// east (x) and component 1 is north (y).

// a+b
func Add2(a, b [2]float64) [2]float64 {
	return [2]float64{a[0] + b[0], a[1] + b[1]}
}

// a-b
func Sub2(a, b [2]float64) [2]float64 {
	return [2]float64{a[0] - b[0], a[1] - b[1]}
}

// a*s
func Scale2(a [2]float64, s float64) [2]float64 {
	return [2]float64{s * a[0], s * a[1]}
}

func Dot2(a, b [2]float64) float64 {
	return a[0]*b[0] + a[1]*b[1]
}

// Cross2 returns the z component of the 3D cross product of a and b.
func Cross2(a, b [2]float64) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

func Length2(v [2]float64) float64 {
	return gomath.Hypot(v[0], v[1])
}

func Distance2(a, b [2]float64) float64 {
	return Length2(Sub2(a, b))
}

// Normalizes the given vector.
func Normalize2(a [2]float64) [2]float64 {
	l := Length2(a)
	if l == 0 {
		return [2]float64{0, 0}
	}
	return Scale2(a, 1/l)
}

// Linearly interpolate x of the way between a and b. x==0 corresponds to
// a, x==1 corresponds to b, etc.
func Lerp2(x float64, a, b [2]float64) [2]float64 {
	return [2]float64{(1-x)*a[0] + x*b[0], (1-x)*a[1] + x*b[1]}
}

// SinCos returns the unit vector along the given track angle (radians,
// clockwise from north).
func SinCos(trk float64) [2]float64 {
	return [2]float64{gomath.Sin(trk), gomath.Cos(trk)}
}

// Track2 returns the track angle of v, in [0,2pi).
func Track2(v [2]float64) float64 {
	// Note that atan2() normally measures w.r.t. the +x axis and angles
	// are positive for counter-clockwise. We want to measure w.r.t. +y and
	// to have positive angles be clockwise. Happily, swapping the order of
	// values passed to atan2()--passing (x,y), gives what we want.
	return To2Pi(gomath.Atan2(v[0], v[1]))
}

///////////////////////////////////////////////////////////////////////////
// Lines

// LineLineIntersect returns the intersection point of the two lines
// specified by the vertices (p1, p2) and (p3, p4).  An additional
// returned Boolean value indicates whether a valid intersection was found.
// (There's no intersection for parallel lines.)
func LineLineIntersect(p1, p2, p3, p4 [2]float64) ([2]float64, bool) {
	d12 := Sub2(p1, p2)
	d34 := Sub2(p3, p4)
	denom := d12[0]*d34[1] - d12[1]*d34[0]
	scale := Length2(d12) * Length2(d34)
	if scale == 0 || gomath.Abs(denom) < 1e-12*scale {
		return [2]float64{}, false
	}
	a := p1[0]*p2[1] - p1[1]*p2[0]
	b := p3[0]*p4[1] - p3[1]*p4[0]
	numx := a*d34[0] - d12[0]*b
	numy := a*d34[1] - d12[1]*b

	return [2]float64{numx / denom, numy / denom}, true
}

// RayRayIntersect intersects the line through p0 with track trk0 with the
// line through p1 with track trk1. The returned parametric distances are
// measured along each track (negative when behind the starting point).
func RayRayIntersect(p0 [2]float64, trk0 float64, p1 [2]float64, trk1 float64) (pt [2]float64, d0, d1 float64, ok bool) {
	v0, v1 := SinCos(trk0), SinCos(trk1)
	denom := Cross2(v0, v1)
	if gomath.Abs(denom) < 1e-12 {
		return [2]float64{}, 0, 0, false
	}
	w := Sub2(p1, p0)
	d0 = Cross2(w, v1) / denom
	d1 = Cross2(w, v0) / denom
	return Add2(p0, Scale2(v0, d0)), d0, d1, true
}

// SignedPointLineDistance returns the signed distance from the point p to
// the infinite line defined by (p0, p1) where points to the right of the
// line have negative distances.
func SignedPointLineDistance(p, p0, p1 [2]float64) float64 {
	// https://en.wikipedia.org/wiki/Distance_from_a_point_to_a_line
	dx, dy := p1[0]-p0[0], p1[1]-p0[1]
	sq := dx*dx + dy*dy
	if sq == 0 {
		return gomath.Inf(1)
	}
	return (dx*(p0[1]-p[1]) - dy*(p0[0]-p[0])) / gomath.Sqrt(sq)
}

// PointLineDistance returns the minimum distance from the point p to the infinite line defined by (p0, p1).
func PointLineDistance(p, p0, p1 [2]float64) float64 {
	return Abs(SignedPointLineDistance(p, p0, p1))
}

// ClosestPointOnLine returns the closest point on the (infinite) line to
// the given point p.
func ClosestPointOnLine(line [2][2]float64, p [2]float64) [2]float64 {
	d := Sub2(line[1], line[0])
	l2 := Dot2(d, d)
	if l2 == 0 {
		return line[0]
	}
	t := Dot2(Sub2(p, line[0]), d) / l2
	return Lerp2(t, line[0], line[1])
}
