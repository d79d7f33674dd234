// cmd/trajgen/config.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/mmp/trajgen/pkg/math"
	"github.com/mmp/trajgen/pkg/trajgen"

	"github.com/spf13/viper"
)

// Configuration file keys use aviation units: degrees, knots, feet per
// minute, meters and seconds.
func setDefaults(v *viper.Viper) {
	d := trajgen.DefaultConfig()
	v.SetDefault("bankAngle", math.Degrees(d.BankAngle))
	v.SetDefault("gsAccel", d.GsAccel)
	v.SetDefault("vsAccel", d.VsAccel)
	v.SetDefault("repairTurn", d.RepairTurn)
	v.SetDefault("repairGs", d.RepairGs)
	v.SetDefault("repairVs", d.RepairVs)
	v.SetDefault("continueGen", d.ContinueGen)
	v.SetDefault("addMiddle", d.AddMiddle)
	v.SetDefault("minVsChange", math.MPSToFPM(d.MinVsChange))
	v.SetDefault("minVsTime", d.MinVsTime)
	v.SetDefault("minGsChange", math.MPSToKnots(d.MinGsChange))
	v.SetDefault("minTrkChange", math.Degrees(d.MinTrkChange))
	v.SetDefault("minTurnBuffer", d.MinTurnBuffer)
	v.SetDefault("minAccelTime", d.MinAccelTime)
	v.SetDefault("minDt", d.MinDt)
	v.SetDefault("gsAfterEOTOffset", d.GsAfterEOTOffset)

	v.SetDefault("tolerances.radius", d.Tolerances.Radius)
	v.SetDefault("tolerances.trk", math.Degrees(d.Tolerances.Trk))
	v.SetDefault("tolerances.gs", math.MPSToKnots(d.Tolerances.Gs))
	v.SetDefault("tolerances.vs", math.MPSToFPM(d.Tolerances.Vs))

	v.SetDefault("cache.size", 256)
	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("workers", 8)
}

// loadConfig returns the generation settings from the configuration file
// at path, or the defaults if path is empty.
func loadConfig(path string) (*viper.Viper, trajgen.Config, error) {
	v := viper.New()
	setDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if errors.As(err, &nf) {
				return nil, trajgen.Config{}, fmt.Errorf("%s: config file not found", path)
			}
			return nil, trajgen.Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}

	cfg := trajgen.DefaultConfig()
	cfg.BankAngle = math.Radians(v.GetFloat64("bankAngle"))
	cfg.GsAccel = v.GetFloat64("gsAccel")
	cfg.VsAccel = v.GetFloat64("vsAccel")
	cfg.RepairTurn = v.GetBool("repairTurn")
	cfg.RepairGs = v.GetBool("repairGs")
	cfg.RepairVs = v.GetBool("repairVs")
	cfg.ContinueGen = v.GetBool("continueGen")
	cfg.AddMiddle = v.GetBool("addMiddle")
	cfg.MinVsChange = math.FPMToMPS(v.GetFloat64("minVsChange"))
	cfg.MinVsTime = v.GetFloat64("minVsTime")
	cfg.MinGsChange = math.KnotsToMPS(v.GetFloat64("minGsChange"))
	cfg.MinTrkChange = math.Radians(v.GetFloat64("minTrkChange"))
	cfg.MinTurnBuffer = v.GetFloat64("minTurnBuffer")
	cfg.MinAccelTime = v.GetFloat64("minAccelTime")
	cfg.MinDt = v.GetFloat64("minDt")
	cfg.GsAfterEOTOffset = v.GetFloat64("gsAfterEOTOffset")

	cfg.Tolerances.Radius = v.GetFloat64("tolerances.radius")
	cfg.Tolerances.Trk = math.Radians(v.GetFloat64("tolerances.trk"))
	cfg.Tolerances.Gs = math.KnotsToMPS(v.GetFloat64("tolerances.gs"))
	cfg.Tolerances.Vs = math.FPMToMPS(v.GetFloat64("tolerances.vs"))

	return v, cfg, cfg.Validate()
}
