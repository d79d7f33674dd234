// pkg/trajgen/turns.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package trajgen

import (
	"fmt"

	"github.com/mmp/trajgen/pkg/kinematics"
	"github.com/mmp/trajgen/pkg/math"
	"github.com/mmp/trajgen/pkg/plan"
	"github.com/mmp/trajgen/pkg/turngen"
)

type pendingPoint struct {
	np plan.NavPoint
	td plan.TcpData
}

// GenerateTurnTCPs replaces every vertex with a change of track by a turn:
// a BOT where the aircraft leaves the incoming leg, a MOT at the middle of
// the arc that carries the vertex's label and altitude, and an EOT where
// it joins the outgoing leg. The turn is flown at the incoming ground
// speed and centered in time on the vertex. Points outside the turn keep
// their times, so the ground speeds of the legs into and out of it change
// to absorb the difference; the ground speed pass smooths the result.
func GenerateTurnTCPs(lpc *plan.Plan, cfg Config) *plan.Plan {
	p := lpc.Clone()
	verts := indices(p, func(i int) bool { return !p.TcpData(i).IsTCP() && trackChange(p, i, cfg) })
	forEachReverse(p, verts, cfg, "turn", func(i int) error { return generateTurnAt(p, i, cfg) })
	return p
}

// turnRadius returns the radius for a turn at a vertex: the radius stored
// with the vertex if there is one, otherwise the radius flown at the given
// speed and the configured bank angle.
func turnRadius(td plan.TcpData, gs float64, cfg Config) (float64, error) {
	if r := math.Abs(td.SignedRadius); r > 0 {
		return r, nil
	}
	if cfg.BankAngle <= 0 {
		return 0, kinematics.ErrZeroBank
	}
	R := kinematics.TurnRadius(gs, cfg.BankAngle)
	if R <= 0 || math.IsInf(R) || math.IsNaN(R) {
		return 0, fmt.Errorf("radius %f: %w", R, kinematics.ErrInvalidRadius)
	}
	return R, nil
}

func generateTurnAt(p *plan.Plan, i int, cfg Config) error {
	vertex, vtd := p.Point(i), p.TcpData(i)
	gsIn, gsOut := p.GsIn(i), p.GsOut(i)
	if gsIn < minGs || gsOut < minGs {
		// Stationary at the vertex: the track changes in place.
		p.AddWarning(i, "%s: ground speed %.2f in, %.2f out; no turn at %d", p.Name, gsIn, gsOut, i)
		return nil
	}
	R, err := turnRadius(vtd, gsIn, cfg)
	if err != nil {
		return err
	}

	// Points that define the two legs; skip any that coincide with the
	// vertex.
	j := i - 1
	for j > 0 && p.Point(j).Pos.DistanceH(vertex.Pos) < 1e-6 {
		j--
	}
	k := i + 1
	for k < p.Size()-1 && p.Point(k).Pos.DistanceH(vertex.Pos) < 1e-6 {
		k++
	}

	vt := func(m int) kinematics.Vertex { return kinematics.Vertex{Pos: p.Point(m).Pos, Time: p.Time(m)} }
	ts, err := turngen.Generate(vt(j), vt(i), vt(k), R)
	if err != nil {
		return err
	}

	// The turn must fit between the vertex and its neighbors that change
	// track.
	prev := i - 1
	for prev > 0 && !trackChange(p, prev, cfg) && p.TcpData(prev).Trk == plan.None {
		prev--
	}
	next := i + 1
	for next < p.Size()-1 && !trackChange(p, next, cfg) && p.TcpData(next).Trk == plan.None {
		next++
	}
	L := ts.TangentDist
	if have := p.PathDistanceRange(prev, i); L+cfg.MinTurnBuffer > have {
		return fmt.Errorf("turn needs %.0f m before the vertex, %.0f m available: %w",
			L+cfg.MinTurnBuffer, have, kinematics.ErrInsufficientDistance)
	}
	if have := p.PathDistanceRange(i, next); L+cfg.MinTurnBuffer > have {
		return fmt.Errorf("turn needs %.0f m after the vertex, %.0f m available: %w",
			L+cfg.MinTurnBuffer, have, kinematics.ErrInsufficientDistance)
	}

	A := ts.ArcLength
	tBOT, tEOT := ts.BOT.Time, ts.EOT.Time
	gs := A / (tEOT - tBOT)
	zBOT := p.PositionLinear(tBOT).Z
	zEOT := p.PositionLinear(tEOT).Z

	// Points within L of the vertex move onto the arc, keeping their
	// fraction of the distance between BOT and EOT.
	relocate := func(m int, D float64) pendingPoint {
		s := D * A / (2 * L)
		pos, _ := kinematics.TurnByDist2D(ts.BOT.Pos, ts.Center, ts.Dir, s, gs)
		np := p.Point(m)
		np.Pos = pos.MkAlt(np.Pos.Z)
		np.Time = tBOT + s/gs
		return pendingPoint{np, p.TcpData(m)}
	}
	first, last := i, i
	var pending []pendingPoint
	for m := i - 1; m > prev; m-- {
		d := p.PathDistanceRange(m, i)
		if d >= L {
			break
		}
		first = m
		pending = append(pending, relocate(m, L-d))
	}
	for m := i + 1; m < next; m++ {
		d := p.PathDistanceRange(i, m)
		if d >= L {
			break
		}
		last = m
		pending = append(pending, relocate(m, L+d))
	}

	// The turn must also fit in time between the points that stay.
	if dt := tBOT - p.Time(first-1); dt < 2*p.MinDt() {
		return fmt.Errorf("BOT %.2f s after the previous point: %w", dt, kinematics.ErrInsufficientTime)
	}
	if last+1 < p.Size() {
		if dt := p.Time(last+1) - tEOT; dt < 2*p.MinDt() {
			return fmt.Errorf("EOT %.2f s before the next point: %w", dt, kinematics.ErrInsufficientTime)
		}
	}

	src := withSource(vtd)
	bot, eot := src, src
	bot.SetBOT(ts.SignedRadius(), ts.Center)
	eot.SetEOT()
	mot := vtd
	mot.MOT = true
	mot.SignedRadius = 0
	if !cfg.AddMiddle && !vtd.AltPreserve {
		mot.Virtual = true
	}
	pending = append(pending,
		pendingPoint{plan.NavPoint{Pos: ts.BOT.Pos.MkAlt(zBOT), Time: tBOT}, bot},
		pendingPoint{plan.NavPoint{Pos: ts.MOT.Pos.MkAlt(vertex.Pos.Z), Time: ts.MOT.Time, Label: vertex.Label}, mot},
		pendingPoint{plan.NavPoint{Pos: ts.EOT.Pos.MkAlt(zEOT), Time: tEOT}, eot})

	p.RemoveRange(first, last)
	for _, pp := range pending {
		if p.Add(pp.np, pp.td) < 0 {
			return fmt.Errorf("unable to insert %s", pp.np)
		}
	}

	cfg.Log.Debug("turn generated", "plan", p.Name, "vertex", i, "radius", ts.SignedRadius(),
		"bot", tBOT, "eot", tEOT, "relocated", len(pending)-3)
	return nil
}
