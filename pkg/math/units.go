// pkg/math/units.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

// Internally everything is SI: metres, seconds, radians. These convert to
// and from the units aviation people actually use.

const (
	MetersPerNM   = 1852.0
	MetersPerFoot = 0.3048
	Gravity       = 9.80665 // m/s^2
)

func NMToMeters(nm float64) float64 { return nm * MetersPerNM }
func MetersToNM(m float64) float64  { return m / MetersPerNM }

func FeetToMeters(ft float64) float64 { return ft * MetersPerFoot }
func MetersToFeet(m float64) float64  { return m / MetersPerFoot }

func KnotsToMPS(kts float64) float64 { return kts * MetersPerNM / 3600 }
func MPSToKnots(mps float64) float64 { return mps * 3600 / MetersPerNM }

func FPMToMPS(fpm float64) float64 { return fpm * MetersPerFoot / 60 }
func MPSToFPM(mps float64) float64 { return mps * 60 / MetersPerFoot }
