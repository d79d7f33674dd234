// pkg/kinematics/vs.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package kinematics

import (
	"fmt"

	"github.com/mmp/trajgen/pkg/math"
)

///////////////////////////////////////////////////////////////////////////
// Vertical speed acceleration

// VsAccelTime returns the time needed to change vertical speed from vs0
// to goalVs with acceleration magnitude accel.
func VsAccelTime(vs0, goalVs, accel float64) float64 {
	return GsAccelTime(vs0, goalVs, accel)
}

// VsAccel returns the position and velocity after time t with signed
// vertical acceleration a; horizontal motion is linear.
func VsAccel(pos math.Position, vel math.Velocity, t, a float64) (math.Position, math.Velocity) {
	np := pos.Linear(vel, t).MkAlt(pos.Z + vel.Z*t + 0.5*a*t*t)
	nv := vel.MkVs(vel.Z + a*t)
	if pos.LatLon && vel.Gs() > 0 {
		nv = math.MkTrkGsVs(pos.FinalTrack(np), vel.Gs(), nv.Z)
	}
	return np, nv
}

// VsAccelUntil accelerates vertically toward goalVs and then holds it.
func VsAccelUntil(pos math.Position, vel math.Velocity, t, goalVs, accel float64) (math.Position, math.Velocity) {
	a := math.Sign(goalVs-vel.Z) * math.Abs(accel)
	accelTime := VsAccelTime(vel.Z, goalVs, accel)
	if t <= accelTime {
		return VsAccel(pos, vel, t, a)
	}
	np, nv := VsAccel(pos, vel, accelTime, a)
	nv = nv.MkVs(goalVs)
	return np.Linear(nv, t-accelTime), nv
}

///////////////////////////////////////////////////////////////////////////
// Level-off

// LevelOffPlan describes a climb or descent to a target altitude: the
// vertical speed changes with acceleration Accel1 until T1, holds
// ClimbRate until T2, and changes with acceleration Accel2 to reach zero
// vertical speed at T3. All times are measured from the start.
type LevelOffPlan struct {
	T1, T2, T3     float64
	Accel1, Accel2 float64 // signed
	ClimbRate      float64 // signed vertical speed between T1 and T2
}

// Eval returns the altitude and vertical speed at time t for a level-off
// that starts at alt0 with vertical speed vs0.
func (lp LevelOffPlan) Eval(alt0, vs0, t float64) (float64, float64) {
	t = max(t, 0)
	if t <= lp.T1 {
		return alt0 + vs0*t + 0.5*lp.Accel1*t*t, vs0 + lp.Accel1*t
	}
	alt1 := alt0 + vs0*lp.T1 + 0.5*lp.Accel1*lp.T1*lp.T1
	if t <= lp.T2 {
		return alt1 + lp.ClimbRate*(t-lp.T1), lp.ClimbRate
	}
	alt2 := alt1 + lp.ClimbRate*(lp.T2-lp.T1)
	if t > lp.T3 {
		t = lp.T3
	}
	tau := t - lp.T2
	return alt2 + lp.ClimbRate*tau + 0.5*lp.Accel2*tau*tau, lp.ClimbRate + lp.Accel2*tau
}

// VsLevelOutTimes computes the level-off from alt0 at vertical speed vs0
// to targetAlt. accelUp and accelDown are the magnitudes of upward and
// downward vertical acceleration; climbRate is the magnitude of the
// cruise vertical speed. If allowClimbRateChange is set and the aircraft
// is already moving toward the target faster than climbRate, it keeps its
// current vertical speed as the cruise rate. When there is not enough
// altitude to reach the cruise rate, the peak vertical speed is reduced
// and there is no cruise phase.
func VsLevelOutTimes(alt0, vs0, climbRate, targetAlt, accelUp, accelDown float64,
	allowClimbRateChange bool) (LevelOffPlan, error) {
	accelUp, accelDown = math.Abs(accelUp), math.Abs(accelDown)
	if accelUp == 0 || accelDown == 0 {
		return LevelOffPlan{}, ErrInvalidAccel
	}

	// brake returns the signed acceleration that brings v to zero.
	brake := func(v float64) float64 {
		if v > 0 {
			return -accelDown
		}
		return accelUp
	}
	// toward returns the signed acceleration that takes v0 to v1.
	toward := func(v0, v1 float64) float64 {
		if v1 > v0 {
			return accelUp
		}
		return -accelDown
	}

	S := targetAlt - alt0
	zs := 0.0 // altitude change if we started braking now
	if vs0 != 0 {
		zs = -vs0 * vs0 / (2 * brake(vs0))
	}
	R := S - zs
	if math.Abs(R) < 1e-6 {
		if vs0 == 0 {
			return LevelOffPlan{}, nil
		}
		a := brake(vs0)
		t3 := -vs0 / a
		return LevelOffPlan{T3: t3, Accel2: a, ClimbRate: vs0}, nil
	}

	s := math.Sign(R)
	c := math.Abs(climbRate)
	if allowClimbRateChange && math.Sign(vs0) == s && math.Abs(vs0) > c {
		c = math.Abs(vs0)
	}
	if c == 0 {
		return LevelOffPlan{}, fmt.Errorf("zero climb rate with %.1f m to go: %w", S, ErrUnreachableAltitude)
	}

	vc := s * c
	a1 := 0.0
	t1 := 0.0
	d1 := 0.0
	if !math.AlmostEqual(vc, vs0) {
		a1 = toward(vs0, vc)
		t1 = (vc - vs0) / a1
		d1 = (vc*vc - vs0*vs0) / (2 * a1)
	}
	a2 := brake(vc)
	t3 := -vc / a2
	d3 := -vc * vc / (2 * a2)
	t2 := (S - d1 - d3) / vc

	if t2 < 0 {
		// The cruise rate can't be reached: accelerate toward the target
		// to a reduced peak vertical speed and then immediately level off.
		a1 = toward(0, s)
		a2 = brake(s)
		den := 1/(2*a1) + s/(2*math.Abs(a2))
		vp2 := (S + vs0*vs0/(2*a1)) / den
		if vp2 < 0 {
			return LevelOffPlan{}, fmt.Errorf("alt %.1f -> %.1f at %.2f m/s: %w", alt0, targetAlt, vs0, ErrUnreachableAltitude)
		}
		vc = s * math.Sqrt(vp2)
		t1 = (vc - vs0) / a1
		t2 = 0
		t3 = -vc / a2
	}

	if t1 < -1e-9 || t3 < -1e-9 {
		return LevelOffPlan{}, fmt.Errorf("alt %.1f -> %.1f at %.2f m/s: %w", alt0, targetAlt, vs0, ErrUnreachableAltitude)
	}
	t1 = max(t1, 0)
	return LevelOffPlan{
		T1:        t1,
		T2:        t1 + t2,
		T3:        t1 + t2 + max(t3, 0),
		Accel1:    a1,
		Accel2:    a2,
		ClimbRate: vc,
	}, nil
}

// VsLevelOut returns the state at time t of a level-off to targetAlt
// starting from pos and vel; horizontal motion is linear.
func VsLevelOut(pos math.Position, vel math.Velocity, t, climbRate, targetAlt, accelUp, accelDown float64,
	allowClimbRateChange bool) (math.Position, math.Velocity, error) {
	lp, err := VsLevelOutTimes(pos.Z, vel.Z, climbRate, targetAlt, accelUp, accelDown, allowClimbRateChange)
	if err != nil {
		return math.Position{}, math.Velocity{}, err
	}
	alt, vs := lp.Eval(pos.Z, vel.Z, t)
	if t >= lp.T3 {
		alt, vs = targetAlt, 0
	}
	np := pos.Linear(vel.MkVs(0), t).MkAlt(alt)
	return np, vel.MkVs(vs), nil
}
