// pkg/math/core.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"

	"golang.org/x/exp/constraints"
)

const Pi = gomath.Pi

// Degrees converts an angle expressed in radians to degrees.
func Degrees(r float64) float64 {
	return r * 180 / gomath.Pi
}

// Radians converts an angle expressed in degrees to radians.
func Radians(d float64) float64 {
	return d / 180 * gomath.Pi
}

// A handful of thin wrappers follow so that callers that import this
// package as "math" don't also need the standard library's math.

func Sin(a float64) float64  { return gomath.Sin(a) }
func Cos(a float64) float64  { return gomath.Cos(a) }
func Tan(a float64) float64  { return gomath.Tan(a) }
func Sqrt(a float64) float64 { return gomath.Sqrt(a) }
func Atan(a float64) float64 { return gomath.Atan(a) }
func Atan2(y, x float64) float64 {
	return gomath.Atan2(y, x)
}
func Floor(v float64) float64 { return gomath.Floor(v) }
func Ceil(v float64) float64  { return gomath.Ceil(v) }
func Inf() float64            { return gomath.Inf(1) }
func IsInf(v float64) bool    { return gomath.IsInf(v, 0) }
func IsNaN(v float64) bool    { return gomath.IsNaN(v) }

func SafeASin(a float64) float64 {
	return gomath.Asin(Clamp(a, -1, 1))
}

func SafeACos(a float64) float64 {
	return gomath.Acos(Clamp(a, -1, 1))
}

// SafeSqrt returns 0 for slightly negative arguments that are the
// product of roundoff.
func SafeSqrt(a float64) float64 {
	if a <= 0 {
		return 0
	}
	return gomath.Sqrt(a)
}

func Sign[V constraints.Signed | constraints.Float](v V) V {
	if v > 0 {
		return 1
	} else if v < 0 {
		return -1
	}
	return 0
}

// SignNonZero is like Sign but returns 1 for 0.
func SignNonZero(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

func Abs[V constraints.Integer | constraints.Float](x V) V {
	if x < 0 {
		return -x
	}
	return x
}

func Sqr[V constraints.Integer | constraints.Float](v V) V { return v * v }

func Clamp[T constraints.Ordered](x T, low T, high T) T {
	if x < low {
		return low
	} else if x > high {
		return high
	}
	return x
}

func Lerp(x, a, b float64) float64 {
	return (1-x)*a + x*b
}

// Within returns true if a and b differ by no more than eps.
func Within(a, b, eps float64) bool {
	return Abs(a-b) <= eps
}

// AlmostEqual compares with a relative tolerance that degrades to an
// absolute one near zero.
func AlmostEqual(a, b float64) bool {
	const eps = 1e-9
	d := Abs(a - b)
	return d <= eps || d <= eps*max(Abs(a), Abs(b))
}

// AlmostZero returns true for values that are zero modulo roundoff.
func AlmostZero(a float64) bool {
	return Abs(a) < 1e-9
}

// QuadraticRoots returns the real roots of a*x^2 + b*x + c in increasing
// order; the Boolean is false if there are none. A degenerate (linear)
// equation returns its single root twice.
func QuadraticRoots(a, b, c float64) (float64, float64, bool) {
	if AlmostZero(a) {
		if AlmostZero(b) {
			return 0, 0, false
		}
		r := -c / b
		return r, r, true
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		if disc > -1e-9*Sqr(b) {
			disc = 0
		} else {
			return 0, 0, false
		}
	}
	// Numerically stable form; see Numerical Recipes 5.6.
	q := -0.5 * (b + SignNonZero(b)*gomath.Sqrt(disc))
	if q == 0 {
		// b == 0 and c == 0
		return 0, 0, true
	}
	r0, r1 := q/a, c/q
	if r0 > r1 {
		r0, r1 = r1, r0
	}
	return r0, r1, true
}
