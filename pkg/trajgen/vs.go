// pkg/trajgen/vs.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package trajgen

import (
	"fmt"

	"github.com/mmp/trajgen/pkg/kinematics"
	"github.com/mmp/trajgen/pkg/math"
	"github.com/mmp/trajgen/pkg/plan"
)

// MarkVsChanges flags the points whose altitude the vertical profile must
// keep: the first and last points, points that begin a leg longer than
// MinVsTime, and points where the vertical speed changes by more than
// MinVsChange unless the next leg immediately changes it back.
func MarkVsChanges(lpc *plan.Plan, cfg Config) *plan.Plan {
	p := lpc.Clone()
	var mark []int
	for i := range p.Size() {
		if altitudeAnchor(p, i, cfg) {
			mark = append(mark, i)
		}
	}
	for _, i := range mark {
		td := p.TcpData(i)
		td.AltPreserve = true
		p.SetTcpData(i, td)
	}
	return p
}

func altitudeAnchor(p *plan.Plan, i int, cfg Config) bool {
	n := p.Size()
	if i == 0 || i == n-1 {
		return true
	}
	if p.Time(i+1)-p.Time(i) > cfg.MinVsTime {
		return true
	}
	if !vsChange(p, i, cfg) {
		return false
	}
	undone := i+1 < n-1 && math.Abs(p.VsOut(i+1)-p.VsIn(i)) <= cfg.MinVsChange
	return !undone
}

// MakeMarkedVsConstant sets the altitudes of the points between each pair
// of consecutive altitude-preserving points so that the vertical speed is
// constant between them. The first and last points are always treated as
// altitude preserving.
func MakeMarkedVsConstant(lpc *plan.Plan, cfg Config) *plan.Plan {
	p := lpc.Clone()
	n := p.Size()
	prev := 0
	for i := 1; i < n; i++ {
		if i < n-1 && !p.TcpData(i).AltPreserve {
			continue
		}
		t0, z0 := p.Time(prev), p.Point(prev).Pos.Z
		t1, z1 := p.Time(i), p.Point(i).Pos.Z
		for k := prev + 1; k < i; k++ {
			p.SetAltitude(k, math.Lerp((p.Time(k)-t0)/(t1-t0), z0, z1))
		}
		prev = i
	}
	return p
}

// GenerateVsTCPs replaces each change of vertical speed with a zone of
// constant vertical acceleration centered on the point where the change
// happens. The zone must fit between the neighboring altitude constraints.
func GenerateVsTCPs(lpc *plan.Plan, cfg Config) *plan.Plan {
	p := lpc.Clone()
	verts := indices(p, func(i int) bool { return vsChange(p, i, cfg) })
	forEachReverse(p, verts, cfg, "vertical speed change", func(i int) error {
		return generateVsAt(p, i, cfg)
	})
	return p
}

// vsAnchor reports whether point i bounds the vertical zones on either
// side of it.
func vsAnchor(p *plan.Plan, i int, cfg Config) bool {
	td := p.TcpData(i)
	return td.AltPreserve || td.Vs != plan.None || vsChange(p, i, cfg)
}

func generateVsAt(p *plan.Plan, i int, cfg Config) error {
	vsIn, vsOut := p.VsIn(i), p.VsOut(i)
	dvs := vsOut - vsIn
	T := math.Abs(dvs) / cfg.VsAccel
	if T < cfg.MinAccelTime {
		cfg.Log.Debug("vertical speed change elided", "plan", p.Name, "index", i, "time", T)
		return nil
	}
	a := math.Sign(dvs) * cfg.VsAccel

	prev := i - 1
	for prev > 0 && !vsAnchor(p, prev, cfg) {
		prev--
	}
	next := i + 1
	for next < p.Size()-1 && !vsAnchor(p, next, cfg) {
		next++
	}

	ti, zi := p.Time(i), p.Point(i).Pos.Z
	tb, te := ti-T/2, ti+T/2
	margin := 2 * cfg.MinDt
	if tb < p.Time(prev)+margin || te > p.Time(next)-margin {
		return fmt.Errorf("%.1f s acceleration does not fit between t=%.1f and t=%.1f: %w", T,
			p.Time(prev), p.Time(next), kinematics.ErrInsufficientTime)
	}

	zb := zi - vsIn*T/2
	ze := zi + vsOut*T/2
	posB := p.Position(tb).MkAlt(zb)
	posE := p.Position(te).MkAlt(ze)

	src := withSource(p.TcpData(i))
	bvs, evs := src, src
	bvs.SetBVS(a)
	evs.SetEVS()
	b := p.Add(plan.NavPoint{Pos: posB, Time: tb}, bvs)
	if b < 0 {
		return fmt.Errorf("unable to insert BVS at t=%.2f", tb)
	}
	e := p.Add(plan.NavPoint{Pos: posE, Time: te}, evs)
	if e < 0 {
		return fmt.Errorf("unable to insert EVS at t=%.2f", te)
	}

	p.SetAltitude(b, zb)
	p.SetAltitude(e, ze)
	for k := b + 1; k < e; k++ {
		tau := p.Time(k) - tb
		p.SetAltitude(k, zb+vsIn*tau+0.5*a*tau*tau)
	}

	cfg.Log.Debug("vertical speed zone generated", "plan", p.Name, "index", i, "accel", a,
		"start", tb, "end", te)
	return nil
}
