// pkg/trajgen/config.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package trajgen

import (
	"errors"
	"fmt"

	"github.com/mmp/trajgen/pkg/kinematics"
	"github.com/mmp/trajgen/pkg/log"
	"github.com/mmp/trajgen/pkg/math"
	"github.com/mmp/trajgen/pkg/plan"
)

var ErrInvalidConfig = errors.New("Invalid trajectory generation configuration")

// Config holds every threshold used by the generation passes. It is
// passed by value; the zero value is not usable, start from
// DefaultConfig.
type Config struct {
	BankAngle float64 // radians; sets the turn radius where a vertex has none
	GsAccel   float64 // m/s^2, magnitude
	VsAccel   float64 // m/s^2, magnitude

	// Repair flags enable RepairPlan for turns and vertical speed and, for
	// ground speed, allow a larger acceleration when a speed change does
	// not fit before the next one.
	RepairTurn bool
	RepairGs   bool
	RepairVs   bool

	// ContinueGen keeps generating after an infeasible vertex, skipping it
	// and recording an error, rather than stopping at the first failure.
	ContinueGen bool

	// AddMiddle keeps a middle-of-turn point for every turn; otherwise it
	// is only kept when it carries an altitude constraint.
	AddMiddle bool

	MinVsChange      float64 // m/s; smaller vertical speed changes are ignored
	MinVsTime        float64 // s; legs longer than this anchor their altitude
	MinGsChange      float64 // m/s
	MinTrkChange     float64 // radians
	MinTurnBuffer    float64 // m; straight distance required between turns
	MinAccelTime     float64 // s; shorter accelerations are not generated
	MinDt            float64 // s; minimum spacing of points in generated plans
	GsAfterEOTOffset float64 // s; delay of a speed change that follows a turn

	Tolerances plan.Tolerances

	Log *log.Logger `msgpack:"-"`
}

func DefaultConfig() Config {
	return Config{
		BankAngle:     math.Radians(25),
		GsAccel:       2,
		VsAccel:       1,
		AddMiddle:     true,
		MinVsChange:   math.FPMToMPS(100),
		MinVsTime:     30,
		MinGsChange:   math.KnotsToMPS(1),
		MinTrkChange:  math.Radians(1),
		MinTurnBuffer: 50,
		MinAccelTime:  1,
		MinDt:         plan.DefaultMinDt,
		Tolerances:    plan.DefaultTolerances(),
	}
}

// Validate returns an error describing the first unusable value.
func (c Config) Validate() error {
	switch {
	case c.BankAngle <= 0:
		return fmt.Errorf("bank angle %.2f: %w", math.Degrees(c.BankAngle), kinematics.ErrZeroBank)
	case c.BankAngle >= math.Pi/2:
		return fmt.Errorf("bank angle %.2f: %w", math.Degrees(c.BankAngle), ErrInvalidConfig)
	case c.GsAccel <= 0:
		return fmt.Errorf("ground speed acceleration %f: %w", c.GsAccel, kinematics.ErrInvalidAccel)
	case c.VsAccel <= 0:
		return fmt.Errorf("vertical speed acceleration %f: %w", c.VsAccel, kinematics.ErrInvalidAccel)
	case c.MinDt <= 0:
		return fmt.Errorf("minimum point spacing %f: %w", c.MinDt, ErrInvalidConfig)
	case c.MinVsChange < 0 || c.MinGsChange < 0 || c.MinTrkChange < 0:
		return fmt.Errorf("negative change threshold: %w", ErrInvalidConfig)
	case c.MinTurnBuffer < 0 || c.MinAccelTime < 0 || c.MinVsTime < 0 || c.GsAfterEOTOffset < 0:
		return fmt.Errorf("negative time or distance threshold: %w", ErrInvalidConfig)
	}
	return nil
}
