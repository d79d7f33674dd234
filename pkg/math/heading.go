// pkg/math/heading.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"
)

///////////////////////////////////////////////////////////////////////////
// tracks

// All angles here are in radians; tracks are measured clockwise from
// true north.

// To2Pi reduces an angle to [0,2pi).
func To2Pi(a float64) float64 {
	a = gomath.Mod(a, 2*gomath.Pi)
	if a < 0 {
		a += 2 * gomath.Pi
	}
	if a >= 2*gomath.Pi {
		// -tiny + 2pi rounds up
		a = 0
	}
	return a
}

// ToPi reduces an angle to (-pi,pi].
func ToPi(a float64) float64 {
	a = To2Pi(a)
	if a > gomath.Pi {
		a -= 2 * gomath.Pi
	}
	return a
}

// TurnDelta returns the signed angle of the shortest turn from track a to
// track b; positive values are turns to the right.
func TurnDelta(a, b float64) float64 {
	return ToPi(b - a)
}

// TurnDeltaDir returns the (non-negative) angle turned going from track a
// to track b in the given direction (+1 right, -1 left).
func TurnDeltaDir(a, b float64, dir int) float64 {
	if dir >= 0 {
		return To2Pi(b - a)
	}
	return To2Pi(a - b)
}

// TurnDir returns +1 if the shortest turn from track a to track b is to
// the right and -1 otherwise.
func TurnDir(a, b float64) int {
	if TurnDelta(a, b) < 0 {
		return -1
	}
	return 1
}

// TrackDifference returns the minimum difference between two tracks.
// (i.e., the result is always in the range [0,pi].)
func TrackDifference(a, b float64) float64 {
	return Abs(TurnDelta(a, b))
}

func OppositeTrack(h float64) float64 {
	return To2Pi(h + gomath.Pi)
}
