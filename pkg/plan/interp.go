// pkg/plan/interp.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package plan

import (
	gomath "math"

	"github.com/mmp/trajgen/pkg/kinematics"
	"github.com/mmp/trajgen/pkg/math"
)

// Zero ground speeds are replaced with this when a direction is needed.
const minGs = 1e-6

///////////////////////////////////////////////////////////////////////////
// Distance

// PathDistance returns the distance flown from point i to point i+1: the
// arc length if the segment is part of a turn and the great circle or
// straight line distance otherwise.
func (p *Plan) PathDistance(i int) float64 {
	if i < 0 || i+1 >= len(p.points) {
		return 0
	}
	a, b := p.points[i].Pos, p.points[i+1].Pos
	if center, _, ok := p.turnOnSegment(i); ok {
		R := math.Abs(p.TurnRadiusAt(i))
		return math.TrackDifference(center.Track(a), center.Track(b)) * R
	}
	return a.DistanceH(b)
}

// PathDistanceLinear ignores turns.
func (p *Plan) PathDistanceLinear(i int) float64 {
	if i < 0 || i+1 >= len(p.points) {
		return 0
	}
	return p.points[i].Pos.DistanceH(p.points[i+1].Pos)
}

// PathDistanceRange returns the path distance from point from to point
// to.
func (p *Plan) PathDistanceRange(from, to int) float64 {
	d := 0.0
	for i := max(from, 0); i < to && i+1 < len(p.points); i++ {
		d += p.PathDistance(i)
	}
	return d
}

// PathDistanceTotal returns the length of the whole plan.
func (p *Plan) PathDistanceTotal() float64 {
	return p.PathDistanceRange(0, len(p.points)-1)
}

// DistanceFromTime returns the path distance from the start of the plan
// to the position at time t.
func (p *Plan) DistanceFromTime(t float64) float64 {
	seg := p.GetSegment(t)
	if seg < 0 {
		return 0
	}
	if seg >= len(p.points)-1 {
		return p.PathDistanceTotal() + p.GsIn(len(p.points)-1)*(t-p.LastTime())
	}
	tau := t - p.points[seg].Time
	return p.PathDistanceRange(0, seg) + kinematics.GsAccelDist(p.GsOut(seg), p.gsAccelOnSegment(seg), tau)
}

// TimeAtDistance returns the time at which the given path distance from
// the start of the plan is reached, or -1 if it is negative or can't be
// reached.
func (p *Plan) TimeAtDistance(d float64) float64 {
	seg := p.GetSegmentByDistance(d)
	if seg < 0 {
		return -1
	}
	n := len(p.points)
	if seg >= n-1 {
		gs := p.GsIn(n - 1)
		if gs <= 0 {
			return -1
		}
		return p.LastTime() + (d-p.PathDistanceTotal())/gs
	}
	rem := d - p.PathDistanceRange(0, seg)
	tau, ok := kinematics.TimeToDistance(p.GsOut(seg), p.gsAccelOnSegment(seg), rem)
	if !ok {
		return -1
	}
	return p.points[seg].Time + min(tau, p.points[seg+1].Time-p.points[seg].Time)
}

// PositionAtDistance returns the position reached after flying the given
// path distance.
func (p *Plan) PositionAtDistance(d float64) math.Position {
	t := p.TimeAtDistance(d)
	if t < 0 {
		return math.Position{}
	}
	return p.Position(t)
}

///////////////////////////////////////////////////////////////////////////
// Speeds and tracks at points

func (p *Plan) segmentDt(i int) float64 {
	return p.points[i+1].Time - p.points[i].Time
}

// GsOut returns the ground speed at the start of segment i.
func (p *Plan) GsOut(i int) float64 {
	n := len(p.points)
	if i < 0 || n < 2 {
		return 0
	}
	if i >= n-1 {
		return p.GsIn(n - 1)
	}
	dt := p.segmentDt(i)
	if dt <= 0 {
		return 0
	}
	return max(0, p.PathDistance(i)/dt-0.5*p.gsAccelOnSegment(i)*dt)
}

// GsIn returns the ground speed arriving at point i.
func (p *Plan) GsIn(i int) float64 {
	n := len(p.points)
	if i <= 0 || n < 2 {
		return p.GsOut(0)
	}
	i = min(i, n-1)
	dt := p.segmentDt(i - 1)
	if dt <= 0 {
		return 0
	}
	return max(0, p.PathDistance(i-1)/dt+0.5*p.gsAccelOnSegment(i-1)*dt)
}

// VsOut returns the vertical speed at the start of segment i.
func (p *Plan) VsOut(i int) float64 {
	n := len(p.points)
	if i < 0 || n < 2 {
		return 0
	}
	if i >= n-1 {
		return p.VsIn(n - 1)
	}
	dt := p.segmentDt(i)
	if dt <= 0 {
		return 0
	}
	dz := p.points[i+1].Pos.Z - p.points[i].Pos.Z
	return dz/dt - 0.5*p.vsAccelOnSegment(i)*dt
}

// VsIn returns the vertical speed arriving at point i.
func (p *Plan) VsIn(i int) float64 {
	n := len(p.points)
	if i <= 0 || n < 2 {
		return p.VsOut(0)
	}
	i = min(i, n-1)
	dt := p.segmentDt(i - 1)
	if dt <= 0 {
		return 0
	}
	dz := p.points[i].Pos.Z - p.points[i-1].Pos.Z
	return dz/dt + 0.5*p.vsAccelOnSegment(i-1)*dt
}

// tangentTrack returns the direction of motion at pos on a turn about
// center in direction dir.
func tangentTrack(center, pos math.Position, dir int) float64 {
	return math.To2Pi(center.FinalTrack(pos) + float64(dir)*gomath.Pi/2)
}

// TrkOut returns the track at the start of segment i.
func (p *Plan) TrkOut(i int) float64 {
	n := len(p.points)
	if i < 0 || n < 2 {
		return 0
	}
	if i >= n-1 {
		return p.TrkIn(n - 1)
	}
	if center, dir, ok := p.turnOnSegment(i); ok {
		return tangentTrack(center, p.points[i].Pos, dir)
	}
	a, b := p.points[i].Pos, p.points[i+1].Pos
	if a.DistanceH(b) < 1e-9 {
		return p.hoverTrack(i)
	}
	return a.Track(b)
}

// TrkIn returns the track arriving at point i.
func (p *Plan) TrkIn(i int) float64 {
	n := len(p.points)
	if i <= 0 || n < 2 {
		return p.TrkOut(0)
	}
	i = min(i, n-1)
	if center, dir, ok := p.turnOnSegment(i - 1); ok {
		return tangentTrack(center, p.points[i].Pos, dir)
	}
	a, b := p.points[i-1].Pos, p.points[i].Pos
	if a.DistanceH(b) < 1e-9 {
		return p.hoverTrack(i - 1)
	}
	return a.FinalTrack(b)
}

// hoverTrack returns the track for segment i, which has no horizontal
// extent: the track at the end of the nearest earlier segment that moves,
// or failing that the track at the start of the nearest later one.
func (p *Plan) hoverTrack(i int) float64 {
	moves := func(k int) bool {
		if _, _, ok := p.turnOnSegment(k); ok {
			return true
		}
		return p.points[k].Pos.DistanceH(p.points[k+1].Pos) >= 1e-9
	}
	for k := i - 1; k >= 0; k-- {
		if moves(k) {
			return p.TrkIn(k + 1)
		}
	}
	for k := i + 1; k < len(p.points)-1; k++ {
		if moves(k) {
			return p.TrkOut(k)
		}
	}
	return 0
}

// InitialVelocity returns the velocity at the start of segment i.
func (p *Plan) InitialVelocity(i int) math.Velocity {
	return math.MkTrkGsVs(p.TrkOut(i), p.GsOut(i), p.VsOut(i))
}

// FinalVelocity returns the velocity at the end of segment i, arriving at
// point i+1.
func (p *Plan) FinalVelocity(i int) math.Velocity {
	j := min(i+1, len(p.points)-1)
	return math.MkTrkGsVs(p.TrkIn(j), p.GsIn(j), p.VsIn(j))
}

///////////////////////////////////////////////////////////////////////////
// Interpolation

// PositionVelocity returns the position and velocity at time t. If linear
// is true, TCPs are ignored and every segment is flown at constant
// velocity along a straight (or great circle) path. Otherwise the
// horizontal path, ground speed and vertical speed are each computed from
// the zone active on that axis. Times outside the plan extrapolate from
// the first or last velocity.
func (p *Plan) PositionVelocity(t float64, linear bool) (math.Position, math.Velocity) {
	n := len(p.points)
	if n == 0 {
		return math.Position{}, math.ZeroVelocity
	}
	if n == 1 {
		return p.points[0].Pos, math.ZeroVelocity
	}

	seg := p.GetSegment(t)
	if seg < 0 {
		v := p.InitialVelocity(0)
		if linear {
			v = p.linearVelocity(0, p.points[0].Pos)
		}
		return p.points[0].Pos.Linear(v, t-p.points[0].Time), v
	}
	if seg >= n-1 {
		v := p.FinalVelocity(n - 2)
		if linear {
			v = p.linearVelocity(n-2, p.points[n-1].Pos)
		}
		return p.points[n-1].Pos.Linear(v, t-p.points[n-1].Time), v
	}

	np0, np1 := p.points[seg], p.points[seg+1]
	tau := t - np0.Time
	dt := np1.Time - np0.Time

	if linear {
		pos := np0.Pos.Interpolate(np1.Pos, tau/dt)
		return pos, p.linearVelocity(seg, pos)
	}

	// Horizontal
	a := p.gsAccelOnSegment(seg)
	gs0 := p.GsOut(seg)
	s := kinematics.GsAccelDist(gs0, a, tau)
	gs := max(0, gs0+a*tau)

	var pos math.Position
	var trk float64
	if center, dir, ok := p.turnOnSegment(seg); ok {
		var v math.Velocity
		pos, v = kinematics.TurnByDist2D(np0.Pos, center, dir, s, max(gs, minGs))
		trk = v.Trk()
	} else {
		d := p.PathDistance(seg)
		f := 0.0
		if d > 0 {
			f = s / d
		}
		pos = np0.Pos.Interpolate(np1.Pos, f)
		trk = p.TrkOut(seg)
		if pos.LatLon && f > 0 {
			trk = np0.Pos.FinalTrack(pos)
		}
	}

	// Vertical
	av := p.vsAccelOnSegment(seg)
	vs0 := p.VsOut(seg)
	z := np0.Pos.Z + vs0*tau + 0.5*av*tau*tau

	return pos.MkAlt(z), math.MkTrkGsVs(trk, gs, vs0+av*tau)
}

// linearVelocity returns the constant velocity of segment i, expressed at
// pos.
func (p *Plan) linearVelocity(i int, pos math.Position) math.Velocity {
	a, b := p.points[i], p.points[i+1]
	dt := b.Time - a.Time
	if dt <= 0 {
		return math.ZeroVelocity
	}
	v := math.VelocityBetween(a.Pos, b.Pos, dt)
	if a.Pos.LatLon && pos.DistanceH(b.Pos) > 0 {
		v = v.MkTrk(pos.Track(b.Pos))
	}
	return v
}

func (p *Plan) Position(t float64) math.Position {
	pos, _ := p.PositionVelocity(t, false)
	return pos
}

func (p *Plan) Velocity(t float64) math.Velocity {
	_, v := p.PositionVelocity(t, false)
	return v
}

// PositionLinear returns the position at t ignoring TCPs.
func (p *Plan) PositionLinear(t float64) math.Position {
	pos, _ := p.PositionVelocity(t, true)
	return pos
}

func (p *Plan) GsAtTime(t float64) float64 { return p.Velocity(t).Gs() }
func (p *Plan) VsAtTime(t float64) float64 { return p.Velocity(t).Vs() }
func (p *Plan) TrkAtTime(t float64) float64 { return p.Velocity(t).Trk() }
