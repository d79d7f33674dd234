// pkg/kinematics/gs.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package kinematics

import (
	"fmt"

	"github.com/mmp/trajgen/pkg/math"
)

///////////////////////////////////////////////////////////////////////////
// Ground speed acceleration

// GsAccelTime returns the time needed to go from gs0 to goalGs with an
// acceleration of magnitude accel. It is infinite if accel is zero and
// the speeds differ.
func GsAccelTime(gs0, goalGs, accel float64) float64 {
	dv := math.Abs(goalGs - gs0)
	if math.AlmostZero(dv) {
		return 0
	}
	if accel == 0 {
		return math.Inf()
	}
	return dv / math.Abs(accel)
}

// GsAccelDist returns the distance covered in time t starting at gs0 with
// signed acceleration a. Deceleration stops at zero speed.
func GsAccelDist(gs0, a, t float64) float64 {
	if a < 0 && gs0+a*t < 0 {
		t = -gs0 / a
	}
	return gs0*t + 0.5*a*t*t
}

// DistanceToGs returns the distance covered while accelerating from gs0
// to goalGs with acceleration magnitude accel.
func DistanceToGs(gs0, goalGs, accel float64) float64 {
	if accel == 0 {
		return math.Inf()
	}
	return math.Abs(goalGs*goalGs-gs0*gs0) / (2 * math.Abs(accel))
}

// TimeToDistance returns the time needed to cover dist starting at gs0
// with signed acceleration a. It returns false if the aircraft stops
// before covering the distance.
func TimeToDistance(gs0, a, dist float64) (float64, bool) {
	if math.AlmostZero(a) {
		if gs0 <= 0 {
			return 0, dist <= 0
		}
		return dist / gs0, true
	}
	// 0.5 a t^2 + gs0 t - dist = 0
	disc := gs0*gs0 + 2*a*dist
	if disc < 0 {
		return 0, false
	}
	// For either sign of a this is the first time dist is reached.
	t := (-gs0 + math.Sqrt(disc)) / a
	return t, t >= 0
}

// GsAccel returns the position and velocity after accelerating along the
// current track with signed acceleration a for time t. Vertical speed is
// held constant.
func GsAccel(pos math.Position, vel math.Velocity, t, a float64) (math.Position, math.Velocity) {
	gs0 := vel.Gs()
	dist := GsAccelDist(gs0, a, t)
	gs := max(0, gs0+a*t)

	np := pos.LinearDist2D(vel.Trk(), dist).MkAlt(pos.Z + vel.Z*t)
	trk := vel.Trk()
	if pos.LatLon && dist > 0 {
		trk = pos.FinalTrack(np)
	}
	return np, math.MkTrkGsVs(trk, gs, vel.Z)
}

// GsAccelUntil accelerates toward goalGs with acceleration magnitude
// accel and then continues at goalGs. t may be before or after the time
// at which goalGs is reached.
func GsAccelUntil(pos math.Position, vel math.Velocity, t, goalGs, accel float64) (math.Position, math.Velocity) {
	gs0 := vel.Gs()
	a := math.Sign(goalGs-gs0) * math.Abs(accel)
	accelTime := GsAccelTime(gs0, goalGs, accel)
	if t <= accelTime {
		return GsAccel(pos, vel, t, a)
	}
	np, nv := GsAccel(pos, vel, accelTime, a)
	nv = nv.MkGs(goalGs)
	return np.Linear(nv, t-accelTime), nv
}

///////////////////////////////////////////////////////////////////////////
// Required time of arrival

// RTASolution is a single acceleration phase followed by cruise at
// GoalGs.
type RTASolution struct {
	GoalGs    float64
	AccelTime float64
	Accel     float64 // signed
}

// GsAccelToRTA finds the speed to accelerate to (with magnitude accel)
// from gsIn so that dist is covered in exactly rta seconds.
func GsAccelToRTA(gsIn, dist, rta, accel float64) (RTASolution, error) {
	if rta <= 0 {
		return RTASolution{}, ErrInsufficientTime
	}
	if accel <= 0 {
		return RTASolution{}, ErrInvalidAccel
	}

	avg := dist / rta
	if math.Within(avg, gsIn, 1e-9) {
		return RTASolution{GoalGs: gsIn}, nil
	}
	a := math.Sign(avg-gsIn) * accel

	// gsIn*t + a*t^2/2 + (gsIn + a*t)(rta - t) = dist
	//   => t^2 - 2*rta*t + 2*(dist - gsIn*rta)/a = 0
	disc := rta*rta - 2*(dist-gsIn*rta)/a
	if disc < 0 {
		return RTASolution{}, fmt.Errorf("dist %.1f in %.1fs from %.1f m/s: %w", dist, rta, gsIn, ErrNoRTASolution)
	}
	t := rta - math.Sqrt(disc)
	if t < 0 || t > rta {
		return RTASolution{}, fmt.Errorf("accel time %.2f outside [0,%.2f]: %w", t, rta, ErrNoRTASolution)
	}
	goalGs := gsIn + a*t
	if goalGs < 0 {
		return RTASolution{}, fmt.Errorf("negative goal speed: %w", ErrNoRTASolution)
	}
	return RTASolution{GoalGs: goalGs, AccelTime: t, Accel: a}, nil
}

// RTAProfile is an accelerate / cruise / accelerate profile: the speed
// changes from gsIn to GsMid over [0,T1], holds until T1+T2, and changes
// to gsOut over the final T3 seconds.
type RTAProfile struct {
	GsMid          float64
	T1, T2, T3     float64
	Accel1, Accel2 float64 // signed
}

// Duration returns the total time of the profile.
func (p RTAProfile) Duration() float64 { return p.T1 + p.T2 + p.T3 }

// Distance returns the distance covered by the profile starting at gsIn.
func (p RTAProfile) Distance(gsIn float64) float64 {
	return gsIn*p.T1 + 0.5*p.Accel1*p.T1*p.T1 + p.GsMid*p.T2 + p.GsMid*p.T3 + 0.5*p.Accel2*p.T3*p.T3
}

// GsAccelToRTAV solves for a three-phase speed profile that starts at
// gsIn, ends at gsOut, and covers dist in exactly rta seconds. The sign
// combinations of the two accelerations are tried in the order
// accelerate/decelerate, accelerate/accelerate, decelerate/decelerate,
// decelerate/accelerate, and the first with non-negative phase durations
// is returned.
func GsAccelToRTAV(gsIn, dist, rta, gsOut, accel float64) (RTAProfile, error) {
	if rta <= 0 {
		return RTAProfile{}, ErrInsufficientTime
	}
	if accel <= 0 {
		return RTAProfile{}, ErrInvalidAccel
	}

	const eps = 1e-9
	for _, s1 := range [2]float64{1, -1} {
		for _, s2 := range [2]float64{-1, 1} {
			a1, a2 := s1*accel, s2*accel
			A := 1/(2*a2) - 1/(2*a1)
			B := rta + gsIn/a1 - gsOut/a2
			C := gsOut*gsOut/(2*a2) - gsIn*gsIn/(2*a1) - dist

			r0, r1, ok := math.QuadraticRoots(A, B, C)
			if !ok {
				continue
			}
			for _, v := range [2]float64{r0, r1} {
				t1 := (v - gsIn) / a1
				t3 := (gsOut - v) / a2
				t2 := rta - t1 - t3
				if v < -eps || t1 < -eps || t2 < -eps || t3 < -eps {
					continue
				}
				return RTAProfile{GsMid: max(v, 0), T1: max(t1, 0), T2: max(t2, 0), T3: max(t3, 0),
					Accel1: a1, Accel2: a2}, nil
			}
		}
	}
	return RTAProfile{}, fmt.Errorf("%.1f -> %.1f m/s over %.1f m in %.1fs: %w", gsIn, gsOut, dist, rta, ErrNoRTASolution)
}
