// pkg/plan/zones.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package plan

import (
	"github.com/mmp/trajgen/pkg/math"
)

// prevMatch returns the largest index j <= i for which pred is true, or -1.
func (p *Plan) prevMatch(i int, pred func(TcpData) bool) int {
	for j := min(i, len(p.data)-1); j >= 0; j-- {
		if pred(p.data[j]) {
			return j
		}
	}
	return -1
}

// nextMatch returns the smallest index j >= i for which pred is true, or -1.
func (p *Plan) nextMatch(i int, pred func(TcpData) bool) int {
	for j := max(i, 0); j < len(p.data); j++ {
		if pred(p.data[j]) {
			return j
		}
	}
	return -1
}

// PrevBegin returns the index of the last zone beginning on the axis
// strictly before i, or -1.
func (p *Plan) PrevBegin(ax Axis, i int) int {
	return p.prevMatch(i-1, func(td TcpData) bool { return td.IsBegin(ax) })
}

// PrevEnd returns the index of the last zone end strictly before i, or -1.
func (p *Plan) PrevEnd(ax Axis, i int) int {
	return p.prevMatch(i-1, func(td TcpData) bool { return td.IsEnd(ax) })
}

// NextBegin returns the index of the first zone beginning strictly after
// i, or -1.
func (p *Plan) NextBegin(ax Axis, i int) int {
	return p.nextMatch(i+1, func(td TcpData) bool { return td.IsBegin(ax) })
}

// NextEnd returns the index of the first zone end strictly after i, or -1.
func (p *Plan) NextEnd(ax Axis, i int) int {
	return p.nextMatch(i+1, func(td TcpData) bool { return td.IsEnd(ax) })
}

// PrevTCP returns the index of the last point before i that is a TCP on
// the axis, or -1.
func (p *Plan) PrevTCP(ax Axis, i int) int {
	return p.prevMatch(i-1, func(td TcpData) bool { return td.Kind(ax) != None })
}

// NextTCP returns the index of the first point after i that is a TCP on
// the axis, or -1.
func (p *Plan) NextTCP(ax Axis, i int) int {
	return p.nextMatch(i+1, func(td TcpData) bool { return td.Kind(ax) != None })
}

func (p *Plan) PrevBOT(i int) int { return p.PrevBegin(TrkAxis, i) }
func (p *Plan) PrevEOT(i int) int { return p.PrevEnd(TrkAxis, i) }
func (p *Plan) NextBOT(i int) int { return p.NextBegin(TrkAxis, i) }
func (p *Plan) NextEOT(i int) int { return p.NextEnd(TrkAxis, i) }
func (p *Plan) PrevBGS(i int) int { return p.PrevBegin(GsAxis, i) }
func (p *Plan) PrevEGS(i int) int { return p.PrevEnd(GsAxis, i) }
func (p *Plan) NextBGS(i int) int { return p.NextBegin(GsAxis, i) }
func (p *Plan) NextEGS(i int) int { return p.NextEnd(GsAxis, i) }
func (p *Plan) PrevBVS(i int) int { return p.PrevBegin(VsAxis, i) }
func (p *Plan) PrevEVS(i int) int { return p.PrevEnd(VsAxis, i) }
func (p *Plan) NextBVS(i int) int { return p.NextBegin(VsAxis, i) }
func (p *Plan) NextEVS(i int) int { return p.NextEnd(VsAxis, i) }

// MatchingEnd returns the index of the end of the zone that begins at i,
// or -1 if i is not a beginning or the zone is not closed.
func (p *Plan) MatchingEnd(ax Axis, i int) int {
	if i < 0 || i >= len(p.data) || !p.data[i].IsBegin(ax) {
		return -1
	}
	return p.NextEnd(ax, i)
}

// MatchingBegin returns the index of the beginning of the zone that ends
// at i, or -1.
func (p *Plan) MatchingBegin(ax Axis, i int) int {
	if i < 0 || i >= len(p.data) || !p.data[i].IsEnd(ax) {
		return -1
	}
	return p.PrevBegin(ax, i)
}

// segmentZone returns the index of the beginning of the zone on the axis
// that contains segment i, or -1 if the segment is not in a zone.
func (p *Plan) segmentZone(ax Axis, i int) int {
	j := p.prevMatch(i, func(td TcpData) bool { return td.Kind(ax) != None })
	if j >= 0 && p.data[j].IsBegin(ax) {
		return j
	}
	return -1
}

// ZoneBegin returns the index of the beginning of the zone on the axis
// that is active at time t, or -1. Zones are half open: a zone is active
// from its beginning up to, but not including, its end.
func (p *Plan) ZoneBegin(ax Axis, t float64) int {
	seg := p.GetSegment(t)
	if seg < 0 {
		return -1
	}
	return p.segmentZone(ax, seg)
}

// InZone reports whether time t is within a zone on the axis.
func (p *Plan) InZone(ax Axis, t float64) bool {
	return p.ZoneBegin(ax, t) >= 0
}

func (p *Plan) InTrkChange(t float64) bool { return p.InZone(TrkAxis, t) }
func (p *Plan) InGsChange(t float64) bool  { return p.InZone(GsAxis, t) }
func (p *Plan) InVsChange(t float64) bool  { return p.InZone(VsAxis, t) }

// turnOnSegment returns the turn that segment i is part of.
func (p *Plan) turnOnSegment(i int) (center math.Position, dir int, ok bool) {
	b := p.segmentZone(TrkAxis, i)
	if b < 0 || p.data[b].SignedRadius == 0 {
		return math.Position{}, 0, false
	}
	return p.data[b].TurnCenter, p.data[b].TurnDir(), true
}

func (p *Plan) gsAccelOnSegment(i int) float64 {
	if b := p.segmentZone(GsAxis, i); b >= 0 {
		return p.data[b].GsAccel
	}
	return 0
}

func (p *Plan) vsAccelOnSegment(i int) float64 {
	if b := p.segmentZone(VsAxis, i); b >= 0 {
		return p.data[b].VsAccel
	}
	return 0
}

// TurnRadiusAt returns the signed radius of the turn containing segment
// i, or 0.
func (p *Plan) TurnRadiusAt(i int) float64 {
	if b := p.segmentZone(TrkAxis, i); b >= 0 {
		return p.data[b].SignedRadius
	}
	return 0
}
