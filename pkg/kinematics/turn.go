// pkg/kinematics/turn.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package kinematics provides closed-form motion laws for an aircraft
// flying constant-rate turns and constant ground-speed and vertical-speed
// accelerations. Everything here is stateless; failures are reported
// through the errors in errors.go.
package kinematics

import (
	gomath "math"

	"github.com/mmp/trajgen/pkg/math"
)

///////////////////////////////////////////////////////////////////////////
// Turn radius, rate and bank

// TurnRadius returns the radius of a coordinated turn at the given speed
// and bank angle (radians) under standard gravity.
func TurnRadius(speed, bank float64) float64 {
	return TurnRadiusG(speed, bank, math.Gravity)
}

// TurnRadiusG is TurnRadius with an explicit gravitational acceleration.
// A bank of zero gives an infinite radius and a bank of (nearly) pi/2
// gives zero.
func TurnRadiusG(speed, bank, g float64) float64 {
	bank = math.Abs(bank)
	if bank < 1e-12 {
		return math.Inf()
	}
	if bank >= gomath.Pi/2-1e-12 {
		return 0
	}
	return speed * speed / (g * math.Tan(bank))
}

// BankAngleRadius is the inverse of TurnRadius: it returns the bank angle
// needed to fly a turn of the given radius at the given speed.
func BankAngleRadius(speed, radius float64) float64 {
	if radius <= 0 {
		return gomath.Pi / 2
	}
	if math.IsInf(radius) {
		return 0
	}
	return math.Atan(speed * speed / (radius * math.Gravity))
}

// TurnRate returns the turn rate (radians/s) for the given speed and bank
// angle; the sign follows the bank.
func TurnRate(speed, bank float64) float64 {
	if math.AlmostZero(speed) {
		return 0
	}
	if math.Abs(bank) >= gomath.Pi/2 {
		return math.Sign(bank) * math.Inf()
	}
	return math.Gravity * math.Tan(bank) / speed
}

// TurnRateRadius returns the turn rate for a turn of the given radius.
func TurnRateRadius(speed, radius float64) float64 {
	if radius <= 0 {
		return 0
	}
	return speed / radius
}

// TurnRadiusByRate returns the radius of a turn with rate omega.
func TurnRadiusByRate(speed, omega float64) float64 {
	if math.AlmostZero(omega) {
		return math.Inf()
	}
	return math.Abs(speed / omega)
}

// TurnTime returns the time needed to change track by deltaTrk at the
// given ground speed and bank angle.
func TurnTime(gs, deltaTrk, bank float64) float64 {
	omega := TurnRate(gs, bank)
	if omega == 0 {
		return math.Inf()
	}
	return math.Abs(deltaTrk / omega)
}

// TurnTimeRadius returns the time needed to turn deltaTrk on a circle of
// the given radius.
func TurnTimeRadius(gs, deltaTrk, radius float64) float64 {
	if gs <= 0 {
		return math.Inf()
	}
	return math.Abs(deltaTrk) * radius / gs
}

///////////////////////////////////////////////////////////////////////////
// Turn geometry

// CenterOfTurn returns the center of a turn of radius R starting at pos
// with velocity vel; dir is +1 for a right turn and -1 for left.
func CenterOfTurn(pos math.Position, vel math.Velocity, R float64, dir int) math.Position {
	return pos.LinearDist2D(vel.Trk()+float64(dir)*gomath.Pi/2, R)
}

// TurnOmega returns the position and velocity after turning for time t
// at rate omega (radians/s, positive to the right). Vertical motion
// continues at the initial vertical speed.
func TurnOmega(pos math.Position, vel math.Velocity, t, omega float64) (math.Position, math.Velocity) {
	if math.AlmostZero(omega) || math.AlmostZero(vel.Gs()) {
		return pos.Linear(vel, t), vel
	}

	trk := vel.Trk()
	gs := vel.Gs()
	nvel := vel.MkTrk(trk + omega*t)

	if pos.LatLon {
		dir := int(math.Sign(omega))
		R := gs / math.Abs(omega)
		center := CenterOfTurn(pos, vel, R, dir)
		np, _ := TurnByDist2D(pos, center, dir, gs*t, gs)
		np = np.MkAlt(pos.Z + vel.Z*t)
		nvel = math.MkTrkGsVs(center.FinalTrack(np)+float64(dir)*gomath.Pi/2, gs, vel.Z)
		return np, nvel
	}

	R := gs / omega
	x := pos.X + R*(math.Cos(trk)-math.Cos(trk+omega*t))
	y := pos.Y + R*(math.Sin(trk+omega*t)-math.Sin(trk))
	z := pos.Z + vel.Z*t
	return math.MakeXYZ(x, y, z), nvel
}

// TurnRadiusDir turns for time t on a circle of radius R in direction dir.
func TurnRadiusDir(pos math.Position, vel math.Velocity, t, R float64, dir int) (math.Position, math.Velocity) {
	if R <= 0 || math.IsInf(R) {
		return pos.Linear(vel, t), vel
	}
	return TurnOmega(pos, vel, t, float64(dir)*vel.Gs()/R)
}

// TurnByDist2D moves a distance d around the circle with the given
// center, starting at so and turning in direction dir. The returned
// velocity is tangent to the circle with ground speed gsAtD and zero
// vertical speed; altitude is that of so.
func TurnByDist2D(so, center math.Position, dir int, d, gsAtD float64) (math.Position, math.Velocity) {
	R := center.DistanceH(so)
	if math.AlmostZero(R) {
		return so, math.ZeroVelocity
	}
	alpha := float64(dir) * d / R
	trkFromCenter := center.Track(so)
	sn := center.LinearDist2D(trkFromCenter+alpha, R).MkAlt(so.Z)
	finalTrk := center.FinalTrack(sn) + float64(dir)*gomath.Pi/2
	return sn, math.MkTrkGsVs(finalTrk, gsAtD, 0)
}

// TurnByAngle2D rotates so around center by alpha (radians, positive to
// the right).
func TurnByAngle2D(so, center math.Position, alpha float64) math.Position {
	R := center.DistanceH(so)
	return center.LinearDist2D(center.Track(so)+alpha, R).MkAlt(so.Z)
}

// TurnUntil turns at the rate implied by the bank angle toward goalTrk for
// time t, flying straight once the goal track has been reached.
func TurnUntil(pos math.Position, vel math.Velocity, t, goalTrk, bank float64) (math.Position, math.Velocity) {
	dir := math.TurnDir(vel.Trk(), goalTrk)
	omega := float64(dir) * math.Abs(TurnRate(vel.Gs(), bank))
	turnTime := TurnTime(vel.Gs(), math.TurnDelta(vel.Trk(), goalTrk), bank)
	if t <= turnTime {
		return TurnOmega(pos, vel, t, omega)
	}
	np, nv := TurnOmega(pos, vel, turnTime, omega)
	nv = nv.MkTrk(goalTrk)
	return np.Linear(nv, t-turnTime), nv
}
