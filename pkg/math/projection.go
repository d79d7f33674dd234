// pkg/math/projection.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

// Projection maps positions to a local Euclidean frame centered at an
// origin so that planar geometry can be done on either kind of position.
// Geodetic positions use an azimuthal equidistant projection, which is
// exact for distances and bearings measured from the origin.
type Projection struct {
	Origin Position
}

func NewProjection(origin Position) Projection {
	return Projection{Origin: origin}
}

// Project returns p's horizontal coordinates (east, north) relative to
// the origin.
func (pr Projection) Project(p Position) [2]float64 {
	if !pr.Origin.LatLon {
		return Sub2(p.Point2(), pr.Origin.Point2())
	}
	d := pr.Origin.DistanceH(p)
	if d == 0 {
		return [2]float64{}
	}
	return Scale2(SinCos(pr.Origin.Track(p)), d)
}

// Inverse maps local coordinates back to a position with the given
// altitude.
func (pr Projection) Inverse(xy [2]float64, alt float64) Position {
	if !pr.Origin.LatLon {
		o := pr.Origin.Point2()
		return MakeXYZ(o[0]+xy[0], o[1]+xy[1], alt)
	}
	d := Length2(xy)
	if d == 0 {
		return pr.Origin.MkAlt(alt)
	}
	return pr.Origin.LinearDist2D(Track2(xy), d).MkAlt(alt)
}
