// pkg/math/position.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"fmt"
)

// Position is either a Euclidean point (east, north, up; metres) or a
// geodetic one. Important: for geodetic positions, X is longitude and Y
// is latitude (both radians); Z is always altitude in metres.
//
// Every operation that needs to know which kind of point it has goes
// through the methods here, so callers can stay agnostic.
type Position struct {
	X, Y, Z float64
	LatLon  bool
}

func MakeXYZ(x, y, z float64) Position {
	return Position{X: x, Y: y, Z: z}
}

func MakeLatLonAlt(lat, lon, alt float64) Position {
	return Position{X: lon, Y: lat, Z: alt, LatLon: true}
}

// MakeLatLonAltDeg takes latitude and longitude in degrees.
func MakeLatLonAltDeg(lat, lon, alt float64) Position {
	return MakeLatLonAlt(Radians(lat), Radians(lon), alt)
}

func (p Position) Lat() float64 { return p.Y }
func (p Position) Lon() float64 { return p.X }
func (p Position) Alt() float64 { return p.Z }

// Point2 returns the horizontal components as a 2D vector; only
// meaningful for Euclidean positions.
func (p Position) Point2() [2]float64 { return [2]float64{p.X, p.Y} }

func (p Position) MkAlt(alt float64) Position {
	p.Z = alt
	return p
}

func (p Position) IsZero() bool {
	return p.X == 0 && p.Y == 0 && p.Z == 0
}

// DistanceH returns the horizontal distance between the two points.
func (p Position) DistanceH(q Position) float64 {
	if p.LatLon {
		return GCDistance(p.Y, p.X, q.Y, q.X)
	}
	return Distance2(p.Point2(), q.Point2())
}

func (p Position) DistanceV(q Position) float64 {
	return Abs(q.Z - p.Z)
}

// Track returns the initial track from p to q.
func (p Position) Track(q Position) float64 {
	if p.LatLon {
		return GCInitialCourse(p.Y, p.X, q.Y, q.X)
	}
	return Track2(Sub2(q.Point2(), p.Point2()))
}

// FinalTrack returns the track on arrival at q when travelling from p.
func (p Position) FinalTrack(q Position) float64 {
	if p.LatLon {
		return GCFinalCourse(p.Y, p.X, q.Y, q.X)
	}
	return p.Track(q)
}

// LinearDist2D returns the point reached by travelling dist from p with
// the given initial track; altitude is unchanged.
func (p Position) LinearDist2D(trk, dist float64) Position {
	if p.LatLon {
		lat, lon := GCLinearInitial(p.Y, p.X, trk, dist)
		return MakeLatLonAlt(lat, lon, p.Z)
	}
	q := Add2(p.Point2(), Scale2(SinCos(trk), dist))
	return MakeXYZ(q[0], q[1], p.Z)
}

// Linear projects p along v for time t.
func (p Position) Linear(v Velocity, t float64) Position {
	if p.LatLon {
		q := p.LinearDist2D(v.Trk(), v.Gs()*t)
		return q.MkAlt(p.Z + v.Z*t)
	}
	return MakeXYZ(p.X+v.X*t, p.Y+v.Y*t, p.Z+v.Z*t)
}

// Interpolate returns the point a fraction f of the way from p to q; the
// altitude is interpolated linearly.
func (p Position) Interpolate(q Position, f float64) Position {
	z := Lerp(f, p.Z, q.Z)
	if p.LatLon {
		lat, lon := GCInterpolate(p.Y, p.X, q.Y, q.X, f)
		return MakeLatLonAlt(lat, lon, z)
	}
	xy := Lerp2(f, p.Point2(), q.Point2())
	return MakeXYZ(xy[0], xy[1], z)
}

// AlmostEquals2D reports whether the two points are within tol
// horizontally.
func (p Position) AlmostEquals2D(q Position, tol float64) bool {
	return p.DistanceH(q) <= tol
}

// Intersection2D returns the intersection of the path through p1 with
// track trk1 and the path through p2 with track trk2; altitude is taken
// from p1.
func Intersection2D(p1 Position, trk1 float64, p2 Position, trk2 float64) (Position, bool) {
	if p1.LatLon {
		lat, lon, ok := GCIntersection(p1.Y, p1.X, trk1, p2.Y, p2.X, trk2)
		return MakeLatLonAlt(lat, lon, p1.Z), ok
	}
	pt, _, _, ok := RayRayIntersect(p1.Point2(), trk1, p2.Point2(), trk2)
	return MakeXYZ(pt[0], pt[1], p1.Z), ok
}

// VelocityBetween returns the constant velocity that takes p to q in time
// dt, expressed at p.
func VelocityBetween(p, q Position, dt float64) Velocity {
	if dt <= 0 {
		return ZeroVelocity
	}
	if p.LatLon {
		return MkTrkGsVs(p.Track(q), p.DistanceH(q)/dt, (q.Z-p.Z)/dt)
	}
	return Velocity{X: (q.X - p.X) / dt, Y: (q.Y - p.Y) / dt, Z: (q.Z - p.Z) / dt}
}

// FinalVelocityBetween is like VelocityBetween but expressed at q.
func FinalVelocityBetween(p, q Position, dt float64) Velocity {
	if !p.LatLon {
		return VelocityBetween(p, q, dt)
	}
	if dt <= 0 {
		return ZeroVelocity
	}
	return MkTrkGsVs(p.FinalTrack(q), p.DistanceH(q)/dt, (q.Z-p.Z)/dt)
}

func (p Position) String() string {
	if p.LatLon {
		return fmt.Sprintf("(%.6f, %.6f, %.0f ft)", Degrees(p.Y), Degrees(p.X), MetersToFeet(p.Z))
	}
	return fmt.Sprintf("(%.4f, %.4f, %.0f ft)", MetersToNM(p.X), MetersToNM(p.Y), MetersToFeet(p.Z))
}
