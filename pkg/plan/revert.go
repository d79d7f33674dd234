// pkg/plan/revert.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package plan

import (
	"github.com/mmp/trajgen/pkg/math"
)

// generated reports whether a point can be dropped once its TCPs have
// been removed: it did not come from the linear plan and carries nothing
// else of interest.
func (td TcpData) generated() bool {
	return !td.Original && !td.IsTCP() && !td.AltPreserve
}

// zoneBounds validates that ix begins a zone on the axis that can be
// reverted on its own and returns the index of its end.
func (p *Plan) zoneBounds(ax Axis, ix int) int {
	if ix < 0 || ix >= len(p.data) || !p.data[ix].IsBegin(ax) {
		p.AddError(ix, "%s: point is not the beginning of a %s zone", p.Name, ax)
		return -1
	}
	if p.data[ix].Kind(ax) == EndBegin {
		p.AddError(ix, "%s: %s zone shares its beginning with the previous zone", p.Name, ax)
		return -1
	}
	e := p.MatchingEnd(ax, ix)
	if e < 0 {
		p.AddError(ix, "%s: %s zone has no end", p.Name, ax)
		return -1
	}
	if p.data[e].Kind(ax) == EndBegin {
		p.AddError(e, "%s: %s zone shares its end with the next zone", p.Name, ax)
		return -1
	}
	return e
}

type pendingPoint struct {
	np NavPoint
	td TcpData
}

// StructRevertTurnTCP replaces the turn that begins at ix with the vertex
// it was generated from: the intersection of the tangents at its BOT and
// EOT, reached midway between their times. Points inside the turn are
// moved back onto the two legs by distance ratio and retimed at the
// ground speeds of the legs through the vertex. Points outside the turn
// keep their times. It returns the index of the vertex, or -1 on
// failure.
func (p *Plan) StructRevertTurnTCP(ix int) int {
	e := p.zoneBounds(TrkAxis, ix)
	if e < 0 {
		return -1
	}
	b := ix
	bot, eot := p.points[b], p.points[e]
	btd, etd := p.data[b], p.data[e]
	center, dir := btd.TurnCenter, btd.TurnDir()

	trkBOT := tangentTrack(center, bot.Pos, dir)
	trkEOT := tangentTrack(center, eot.Pos, dir)
	vertex, ok := math.Intersection2D(bot.Pos, trkBOT, eot.Pos, trkEOT)
	if !ok || vertex.DistanceH(bot.Pos) > 100*math.Abs(btd.SignedRadius) {
		if !btd.HasSource() {
			p.AddError(b, "%s: unable to reconstruct turn vertex", p.Name)
			return -1
		}
		vertex = btd.SourcePos
	}

	arc := p.PathDistanceRange(b, e)
	if arc <= 0 || eot.Time <= bot.Time {
		p.AddError(b, "%s: zero ground speed in turn", p.Name)
		return -1
	}
	lin := bot.Pos.DistanceH(vertex)
	lout := vertex.DistanceH(eot.Pos)
	tv := (bot.Time + eot.Time) / 2
	trkOut := vertex.Track(eot.Pos)

	// Ground speeds of the legs through the vertex, from the neighboring
	// points when there are any.
	gsIn, gsOut := arc/(eot.Time-bot.Time), arc/(eot.Time-bot.Time)
	if b > 0 && p.points[b-1].Time < tv {
		gsIn = (p.PathDistance(b-1) + lin) / (tv - p.points[b-1].Time)
	}
	if e < len(p.points)-1 && p.points[e+1].Time > tv {
		gsOut = (lout + p.PathDistance(e)) / (p.points[e+1].Time - tv)
	}

	vnp := NavPoint{Pos: vertex.MkAlt(p.Position(tv).Z), Time: tv}
	vtd := MakeTcpData()
	if btd.HasSource() {
		vtd.SetSource(NavPoint{Pos: btd.SourcePos, Time: btd.SourceTime}, btd.LinearIndex)
		vtd.Original = btd.LinearIndex >= 0
	}

	var pending []pendingPoint
	for k := b + 1; k < e; k++ {
		np, td := p.points[k], p.data[k]
		if td.MOT {
			// The middle of the turn carries the vertex's altitude and
			// metadata.
			vnp.Pos = vnp.Pos.MkAlt(np.Pos.Z)
			vnp.Label = np.Label
			td.MOT = false
			td.Clear(TrkAxis)
			vtd = td
			continue
		}

		D := (lin + lout) * p.PathDistanceRange(b, k) / arc
		if D <= lin {
			np.Pos = bot.Pos.LinearDist2D(trkBOT, D).MkAlt(np.Pos.Z)
			np.Time = tv - (lin-D)/gsIn
		} else {
			np.Pos = vertex.LinearDist2D(trkOut, D-lin).MkAlt(np.Pos.Z)
			np.Time = tv + (D-lin)/gsOut
		}
		td.Clear(TrkAxis)
		pending = append(pending, pendingPoint{np, td})
	}

	btd.Clear(TrkAxis)
	if !btd.generated() {
		pending = append(pending, pendingPoint{bot, btd})
	}
	etd.Clear(TrkAxis)
	if !etd.generated() {
		pending = append(pending, pendingPoint{eot, etd})
	}

	p.RemoveRange(b, e)
	p.Add(vnp, vtd)
	for _, pp := range pending {
		p.Add(pp.np, pp.td)
	}
	return p.GetIndex(tv)
}

// StructRevertGsTCP removes the ground speed acceleration zone that
// begins at ix. The points of the zone are retimed as if the speed at the
// end of the zone had been flown from its beginning, and later points
// are shifted to match. Zone boundaries that were not part of the linear
// plan are removed. It returns the index of the zone's first point, or
// of the point that follows it if it was removed, or -1 on failure.
func (p *Plan) StructRevertGsTCP(ix int) int {
	e := p.zoneBounds(GsAxis, ix)
	if e < 0 {
		return -1
	}
	b := ix
	gs := p.GsIn(e)
	if gs <= 0 {
		p.AddError(e, "%s: zero ground speed at end of acceleration", p.Name)
		return -1
	}

	tb := p.points[b].Time
	times := make([]float64, e-b+1)
	for k := b + 1; k <= e; k++ {
		times[k-b] = tb + p.PathDistanceRange(b, k)/gs
	}
	shift := times[e-b] - p.points[e].Time
	for k := b + 1; k <= e; k++ {
		p.points[k].Time = times[k-b]
	}
	for k := e + 1; k < len(p.points); k++ {
		p.points[k].Time += shift
	}

	p.data[b].Clear(GsAxis)
	p.data[e].Clear(GsAxis)
	if p.data[e].generated() {
		p.Remove(e)
	}
	if b > 0 && p.data[b].generated() {
		p.Remove(b)
	}
	return b
}

// StructRevertVsTCP removes the vertical speed acceleration zone that
// begins at ix. The vertex is placed where the incoming and outgoing
// vertical profiles intersect, at the middle of the zone, and altitudes
// of points in the zone are restored to the two linear profiles. It
// returns the index of the vertex, or -1 on failure.
func (p *Plan) StructRevertVsTCP(ix int) int {
	e := p.zoneBounds(VsAxis, ix)
	if e < 0 {
		return -1
	}
	b := ix
	vsIn, vsOut := p.VsOut(b), p.VsIn(e)
	tb, te := p.points[b].Time, p.points[e].Time
	zb := p.points[b].Pos.Z
	tv := (tb + te) / 2
	zv := zb + vsIn*(tv-tb)

	alt := func(t float64) float64 {
		if t <= tv {
			return zb + vsIn*(t-tb)
		}
		return zv + vsOut*(t-tv)
	}

	v := -1
	tol := max(p.minDt, 1e-3*(te-tb))
	for k := b + 1; k < e; k++ {
		if math.Abs(p.points[k].Time-tv) < tol && (v < 0 || math.Abs(p.points[k].Time-tv) < math.Abs(p.points[v].Time-tv)) {
			v = k
		}
	}
	for k := b + 1; k <= e; k++ {
		if k == v {
			p.SetAltitude(k, zv)
		} else {
			p.SetAltitude(k, alt(p.points[k].Time))
		}
	}
	vpos := p.Position(tv).MkAlt(zv)

	p.data[b].Clear(VsAxis)
	p.data[e].Clear(VsAxis)
	if p.data[e].generated() {
		p.Remove(e)
	}
	if p.data[b].generated() {
		p.Remove(b)
	}

	if v < 0 {
		td := MakeTcpData()
		td.AltPreserve = true
		return p.Add(NavPoint{Pos: vpos, Time: tv}, td)
	}
	return p.GetIndex(tv)
}

// RevertTCPs removes every zone, vertical speed first, then ground speed,
// then turns, leaving the linear plan the zones were generated from. It
// returns false if any zone could not be reverted.
func (p *Plan) RevertTCPs() bool {
	ok := true
	for _, ax := range []Axis{VsAxis, GsAxis, TrkAxis} {
		for i := len(p.data) - 1; i >= 0; i-- {
			if i >= len(p.data) || !p.data[i].IsBegin(ax) {
				continue
			}
			var r int
			switch ax {
			case VsAxis:
				r = p.StructRevertVsTCP(i)
			case GsAxis:
				r = p.StructRevertGsTCP(i)
			default:
				r = p.StructRevertTurnTCP(i)
			}
			ok = ok && r >= 0
		}
	}
	for i := range p.data {
		p.data[i].MOT = false
	}
	return ok
}
