// pkg/math/velocity.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"fmt"
	gomath "math"
)

// Velocity is expressed in a local east-north-up frame, metres per
// second. For geodetic positions the frame is the one at the point the
// velocity is attached to.
type Velocity struct {
	X, Y, Z float64
}

var ZeroVelocity = Velocity{}

// MkTrkGsVs returns the velocity with the given track (radians), ground
// speed and vertical speed.
func MkTrkGsVs(trk, gs, vs float64) Velocity {
	return Velocity{X: gs * gomath.Sin(trk), Y: gs * gomath.Cos(trk), Z: vs}
}

// Trk returns the track angle in [0,2pi); a velocity with no horizontal
// component has track 0.
func (v Velocity) Trk() float64 {
	if v.X == 0 && v.Y == 0 {
		return 0
	}
	return Track2([2]float64{v.X, v.Y})
}

func (v Velocity) Gs() float64 { return gomath.Hypot(v.X, v.Y) }
func (v Velocity) Vs() float64 { return v.Z }

func (v Velocity) Vect2() [2]float64 { return [2]float64{v.X, v.Y} }

// MkTrk returns the velocity with the track replaced; the ground speed
// and vertical speed are unchanged.
func (v Velocity) MkTrk(trk float64) Velocity {
	return MkTrkGsVs(trk, v.Gs(), v.Z)
}

func (v Velocity) MkGs(gs float64) Velocity {
	return MkTrkGsVs(v.Trk(), gs, v.Z)
}

func (v Velocity) MkVs(vs float64) Velocity {
	v.Z = vs
	return v
}

func (v Velocity) Scale(s float64) Velocity {
	return Velocity{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (v Velocity) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

func (v Velocity) String() string {
	return fmt.Sprintf("(trk %.2f deg, gs %.2f kts, vs %.0f fpm)", Degrees(v.Trk()), MPSToKnots(v.Gs()), MPSToFPM(v.Z))
}
