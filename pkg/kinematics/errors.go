// pkg/kinematics/errors.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package kinematics

import "errors"

var (
	ErrDegenerateSpeed      = errors.New("Ground speed is zero")
	ErrGoalInsideTurn       = errors.New("Goal lies within the turn circle")
	ErrInsufficientDistance = errors.New("Insufficient distance to complete acceleration")
	ErrInsufficientTime     = errors.New("Insufficient time to complete acceleration")
	ErrInvalidAccel         = errors.New("Acceleration must be positive")
	ErrInvalidRadius        = errors.New("Turn radius must be positive and finite")
	ErrNoRTASolution        = errors.New("No speed profile meets the required time of arrival")
	ErrUnreachableAltitude  = errors.New("Target altitude cannot be reached")
	ErrZeroBank             = errors.New("Bank angle must be nonzero")
)
