// pkg/trajgen/gs.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package trajgen

import (
	"fmt"

	"github.com/mmp/trajgen/pkg/kinematics"
	"github.com/mmp/trajgen/pkg/math"
	"github.com/mmp/trajgen/pkg/plan"
)

// GenerateGsTCPs replaces every instantaneous change of ground speed with
// an acceleration zone; see GenerateGsTCPsAt.
func GenerateGsTCPs(lpc *plan.Plan, cfg Config) *plan.Plan {
	p := lpc.Clone()
	verts := indices(p, func(i int) bool { return gsChange(p, i, cfg) })
	forEachReverse(p, verts, cfg, "ground speed change", func(i int) error {
		return GenerateGsTCPsAt(p, i, cfg)
	})
	return p
}

// GenerateGsTCPsAt replaces the change of ground speed at point i with a
// zone of constant acceleration that begins at i, or GsAfterEOTOffset
// seconds later if i ends a turn. Points in the zone keep their positions
// along the path and are retimed; points after it are shifted so that
// they are still reached at the outgoing ground speed. The zone must end
// before the next change of ground speed.
func GenerateGsTCPsAt(p *plan.Plan, i int, cfg Config) error {
	if i <= 0 || i >= p.Size()-1 {
		return fmt.Errorf("index %d is not an interior point", i)
	}
	gsIn, gsOut := p.GsIn(i), p.GsOut(i)
	dgs := gsOut - gsIn
	if math.Abs(dgs) <= cfg.MinGsChange {
		return nil
	}
	if gsOut < minGs {
		p.AddWarning(i, "%s: ground speed %.2f out of %d", p.Name, gsOut, i)
		gsOut = minGs
	}

	accel := cfg.GsAccel
	T := math.Abs(dgs) / accel
	if T < cfg.MinAccelTime {
		cfg.Log.Debug("ground speed change elided", "plan", p.Name, "index", i, "time", T)
		return nil
	}

	var t0, d0 float64
	if cfg.GsAfterEOTOffset > 0 && p.TcpData(i).IsEOT() {
		t0 = cfg.GsAfterEOTOffset
		d0 = gsIn * t0
	}

	next := i + 1
	for next < p.Size()-1 && !gsChange(p, next, cfg) && p.TcpData(next).Gs == plan.None {
		next++
	}
	avail := p.PathDistanceRange(i, next)
	margin := 2 * cfg.MinDt * max(gsIn, gsOut)
	dacc := kinematics.GsAccelDist(gsIn, math.Sign(dgs)*accel, T)
	if d0+dacc+margin > avail {
		room := avail - d0 - margin
		if !cfg.RepairGs || room <= 0 {
			return fmt.Errorf("acceleration needs %.0f m, %.0f m available: %w", d0+dacc+margin, avail,
				kinematics.ErrInsufficientDistance)
		}
		accel = math.Abs(gsOut*gsOut-gsIn*gsIn) / (2 * room)
		T = math.Abs(dgs) / accel
		dacc = room
		p.AddWarning(i, "%s: ground speed acceleration at %d increased to %.2f m/s^2", p.Name, i, accel)
	}
	a := math.Sign(dgs) * accel

	ti := p.Time(i)
	dEnd := d0 + dacc
	tStart, tEnd := ti+t0, ti+t0+T
	startPos := p.Position(ti + d0/gsOut)
	tEndOrig := ti + dEnd/gsOut
	endPos := p.Position(tEndOrig)

	retime := func(s float64) float64 {
		if s < d0 {
			return ti + s/gsIn
		}
		tau, _ := kinematics.TimeToDistance(gsIn, a, s-d0)
		return tStart + tau
	}
	first, last := i+1, i
	var pending []pendingPoint
	for m := i + 1; m < p.Size(); m++ {
		s := p.PathDistanceRange(i, m)
		if s >= dEnd {
			break
		}
		last = m
		np := p.Point(m)
		np.Time = retime(s)
		pending = append(pending, pendingPoint{np, p.TcpData(m)})
	}

	src := withSource(p.TcpData(i))
	egs := src
	egs.SetEGS()
	pending = append(pending, pendingPoint{plan.NavPoint{Pos: endPos, Time: tEnd}, egs})
	if t0 > 0 {
		bgs := src
		bgs.SetBGS(a)
		pending = append(pending, pendingPoint{plan.NavPoint{Pos: startPos, Time: tStart}, bgs})
	} else {
		td := p.TcpData(i)
		td.SetBGS(a)
		p.SetTcpData(i, td)
	}

	if last >= first {
		p.RemoveRange(first, last)
	}
	if first < p.Size() {
		p.TimeShiftPlan(first, tEnd-tEndOrig)
	}
	for _, pp := range pending {
		if p.Add(pp.np, pp.td) < 0 {
			return fmt.Errorf("unable to insert %s", pp.np)
		}
	}

	cfg.Log.Debug("ground speed zone generated", "plan", p.Name, "index", i, "accel", a,
		"start", tStart, "end", tEnd)
	return nil
}
