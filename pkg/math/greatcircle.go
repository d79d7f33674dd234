// pkg/math/greatcircle.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// EarthRadius is the radius of the spherical earth model, chosen so that
// one arc-minute of latitude is exactly one nautical mile.
const EarthRadius = 180 * 60 / gomath.Pi * MetersPerNM

// All great-circle functions take latitudes and longitudes in radians and
// distances in metres.

func llPoint(lat, lon float64) s2.Point {
	return s2.PointFromLatLng(s2.LatLng{Lat: s1.Angle(lat), Lng: s1.Angle(lon)})
}

func pointLL(p s2.Point) (lat, lon float64) {
	ll := s2.LatLngFromPoint(p)
	return ll.Lat.Radians(), ll.Lng.Radians()
}

// GCAngularDistance returns the central angle between the two points.
func GCAngularDistance(lat1, lon1, lat2, lon2 float64) float64 {
	return llPoint(lat1, lon1).Distance(llPoint(lat2, lon2)).Radians()
}

// GCDistance returns the great-circle distance between the two points.
func GCDistance(lat1, lon1, lat2, lon2 float64) float64 {
	return GCAngularDistance(lat1, lon1, lat2, lon2) * EarthRadius
}

// GCInitialCourse returns the course at the first point of the great
// circle from the first point to the second. Coincident points give 0.
func GCInitialCourse(lat1, lon1, lat2, lon2 float64) float64 {
	dlon := lon2 - lon1
	y := gomath.Sin(dlon) * gomath.Cos(lat2)
	x := gomath.Cos(lat1)*gomath.Sin(lat2) - gomath.Sin(lat1)*gomath.Cos(lat2)*gomath.Cos(dlon)
	if AlmostZero(x) && AlmostZero(y) {
		return 0
	}
	return To2Pi(gomath.Atan2(y, x))
}

// GCFinalCourse returns the course on arrival at the second point.
func GCFinalCourse(lat1, lon1, lat2, lon2 float64) float64 {
	if AlmostZero(GCAngularDistance(lat1, lon1, lat2, lon2)) {
		return 0
	}
	return OppositeTrack(GCInitialCourse(lat2, lon2, lat1, lon1))
}

// GCLinearInitial returns the point reached by travelling dist along the
// great circle that starts at (lat, lon) with the given initial course.
func GCLinearInitial(lat, lon, course, dist float64) (float64, float64) {
	d := dist / EarthRadius
	sinLat := gomath.Sin(lat)*gomath.Cos(d) + gomath.Cos(lat)*gomath.Sin(d)*gomath.Cos(course)
	lat2 := SafeASin(sinLat)
	lon2 := lon + gomath.Atan2(gomath.Sin(course)*gomath.Sin(d)*gomath.Cos(lat),
		gomath.Cos(d)-gomath.Sin(lat)*sinLat)
	return lat2, ToPi(lon2)
}

// GCInterpolate returns the point a fraction f of the way along the great
// circle from the first point to the second; f outside [0,1]
// extrapolates.
func GCInterpolate(lat1, lon1, lat2, lon2, f float64) (float64, float64) {
	a, b := llPoint(lat1, lon1), llPoint(lat2, lon2)
	if a.Distance(b) == 0 {
		return lat1, lon1
	}
	if f >= 0 && f <= 1 {
		return pointLL(s2.Interpolate(f, a, b))
	}
	course := GCInitialCourse(lat1, lon1, lat2, lon2)
	return GCLinearInitial(lat1, lon1, course, f*a.Distance(b).Radians()*EarthRadius)
}

// GCIntersection returns the intersection of the great circle through
// (lat1, lon1) with initial course c1 and the one through (lat2, lon2)
// with course c2. Of the two antipodal intersections, the one closer to
// the given points is returned.
func GCIntersection(lat1, lon1, c1, lat2, lon2, c2 float64) (float64, float64, bool) {
	n1 := gcNormal(lat1, lon1, c1)
	n2 := gcNormal(lat2, lon2, c2)
	x := n1.Cross(n2)
	if x.Norm() < 1e-12 {
		return 0, 0, false
	}
	x = x.Normalize()
	p1, p2 := llPoint(lat1, lon1).Vector, llPoint(lat2, lon2).Vector
	if x.Dot(p1)+x.Dot(p2) < 0 {
		x = x.Mul(-1)
	}
	lat, lon := pointLL(s2.Point{Vector: x})
	return lat, lon, true
}

// gcNormal returns the unit normal of the great circle through the point
// with the given course.
func gcNormal(lat, lon, course float64) r3.Vector {
	p := llPoint(lat, lon).Vector
	// local east and north unit vectors
	east := r3.Vector{X: -gomath.Sin(lon), Y: gomath.Cos(lon), Z: 0}
	north := r3.Vector{X: -gomath.Sin(lat) * gomath.Cos(lon), Y: -gomath.Sin(lat) * gomath.Sin(lon), Z: gomath.Cos(lat)}
	dir := east.Mul(gomath.Sin(course)).Add(north.Mul(gomath.Cos(course)))
	return p.Cross(dir).Normalize()
}

// GCCrossTrackDistance returns the signed distance of the point from the
// great circle through (lat1, lon1) with the given course; points to the
// right of the path are positive.
func GCCrossTrackDistance(lat1, lon1, course, lat, lon float64) float64 {
	n := gcNormal(lat1, lon1, course)
	p := llPoint(lat, lon).Vector
	return -SafeASin(n.Dot(p)) * EarthRadius
}
