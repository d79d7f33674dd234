// pkg/plan/check.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package plan

import (
	"fmt"

	"github.com/mmp/trajgen/pkg/math"
)

// Tolerances bounds the differences allowed by the consistency and
// flyability checks.
type Tolerances struct {
	Radius float64 // m, distance of turn points from their center
	Trk    float64 // radians
	Gs     float64 // m/s
	Vs     float64 // m/s
}

func DefaultTolerances() Tolerances {
	return Tolerances{
		Radius: 2,
		Trk:    math.Radians(1),
		Gs:     0.5,
		Vs:     0.25,
	}
}

// IndexWellFormed returns the index of the first point that violates
// well-formedness, or -1 if the plan is well formed. A plan is well
// formed if its times are strictly increasing with at least MinDt between
// points, every zone beginning is matched by an end before the next
// beginning on the same axis, and every turn has a radius.
func (p *Plan) IndexWellFormed() int {
	i, _ := p.wellFormed()
	return i
}

// WellFormedReason is like IndexWellFormed but also describes the problem.
func (p *Plan) WellFormedReason() (int, string) {
	return p.wellFormed()
}

func (p *Plan) IsWellFormed() bool {
	return p.IndexWellFormed() < 0
}

func (p *Plan) wellFormed() (int, string) {
	for i := 1; i < len(p.points); i++ {
		if p.points[i].Time-p.points[i-1].Time < p.minDt {
			return i, fmt.Sprintf("time %.4f is within %g of the previous point", p.points[i].Time, p.minDt)
		}
	}

	for _, ax := range Axes {
		open := -1
		for i, td := range p.data {
			k := td.Kind(ax)
			if k.IsEnd() {
				if open < 0 {
					return i, fmt.Sprintf("%s with no matching %s", KindName(ax, k), KindName(ax, Begin))
				}
				open = -1
			}
			if k.IsBegin() {
				if open >= 0 {
					return i, fmt.Sprintf("%s overlaps zone beginning at %d", KindName(ax, k), open)
				}
				if ax == TrkAxis && td.SignedRadius == 0 {
					return i, "turn has zero radius"
				}
				open = i
			}
		}
		if open >= 0 {
			return open, fmt.Sprintf("%s is never closed", KindName(ax, p.data[open].Kind(ax)))
		}
	}
	return -1, ""
}

// ConsistencyErrors re-derives the geometry of each zone and returns a
// description of every place where the plan does not match it: points of
// a turn must lie on its circle and speeds must be continuous inside
// acceleration zones.
func (p *Plan) ConsistencyErrors(tol Tolerances) []string {
	var errs []string
	if i, why := p.wellFormed(); i >= 0 {
		return []string{fmt.Sprintf("%d: not well formed: %s", i, why)}
	}

	for b := range p.data {
		if !p.data[b].IsBOT() {
			continue
		}
		e := p.MatchingEnd(TrkAxis, b)
		td := p.data[b]
		R := math.Abs(td.SignedRadius)
		for k := b; k <= e; k++ {
			if d := td.TurnCenter.DistanceH(p.points[k].Pos); math.Abs(d-R) > tol.Radius {
				errs = append(errs, fmt.Sprintf("%d: %.2f m from the center of the turn starting at %d; radius %.2f", k, d, b, R))
			}
		}
		for k := b + 1; k < e; k++ {
			if d := math.TrackDifference(p.TrkIn(k), p.TrkOut(k)); d > tol.Trk {
				errs = append(errs, fmt.Sprintf("%d: track changes by %.2f deg inside turn", k, math.Degrees(d)))
			}
		}
	}

	for _, c := range []struct {
		ax      Axis
		in, out func(int) float64
		tol     float64
	}{
		{GsAxis, p.GsIn, p.GsOut, tol.Gs},
		{VsAxis, p.VsIn, p.VsOut, tol.Vs},
	} {
		for b := range p.data {
			if !p.data[b].IsBegin(c.ax) {
				continue
			}
			e := p.MatchingEnd(c.ax, b)
			for k := b + 1; k < e; k++ {
				if d := math.Abs(c.in(k) - c.out(k)); d > c.tol {
					errs = append(errs, fmt.Sprintf("%d: %s changes by %.3f m/s inside acceleration zone", k, c.ax, d))
				}
			}
			if c.ax == GsAxis && c.out(b) < 0 {
				errs = append(errs, fmt.Sprintf("%d: negative ground speed", b))
			}
		}
	}
	return errs
}

// IsConsistent reports whether the plan is well formed and its zones match
// their stored geometry within the default tolerances.
func (p *Plan) IsConsistent() bool {
	return len(p.ConsistencyErrors(DefaultTolerances())) == 0
}

// IsConsistentTol is IsConsistent with explicit tolerances.
func (p *Plan) IsConsistentTol(tol Tolerances) bool {
	return len(p.ConsistencyErrors(tol)) == 0
}

// VelocityDiscontinuities returns a description of each interior point
// where the arriving and departing velocities differ by more than the
// tolerances.
func (p *Plan) VelocityDiscontinuities(tol Tolerances) []string {
	var errs []string
	for i := 1; i < len(p.points)-1; i++ {
		if d := math.TrackDifference(p.TrkIn(i), p.TrkOut(i)); d > tol.Trk && p.GsIn(i) > minGs {
			errs = append(errs, fmt.Sprintf("%d: track jumps %.2f deg", i, math.Degrees(d)))
		}
		if d := math.Abs(p.GsIn(i) - p.GsOut(i)); d > tol.Gs {
			errs = append(errs, fmt.Sprintf("%d: ground speed jumps %.3f m/s", i, d))
		}
		if d := math.Abs(p.VsIn(i) - p.VsOut(i)); d > tol.Vs {
			errs = append(errs, fmt.Sprintf("%d: vertical speed jumps %.3f m/s", i, d))
		}
	}
	return errs
}

// IsVelocityContinuous reports whether velocity is continuous at every
// point within the tolerances.
func (p *Plan) IsVelocityContinuous(tol Tolerances) bool {
	return len(p.VelocityDiscontinuities(tol)) == 0
}

// IsFlyable reports whether the plan is consistent and its velocity is
// continuous everywhere.
func (p *Plan) IsFlyable() bool {
	return p.IsFlyableTol(DefaultTolerances())
}

func (p *Plan) IsFlyableTol(tol Tolerances) bool {
	return p.IsConsistentTol(tol) && p.IsVelocityContinuous(tol)
}

// FlyabilityErrors combines ConsistencyErrors and VelocityDiscontinuities.
func (p *Plan) FlyabilityErrors(tol Tolerances) []string {
	return append(p.ConsistencyErrors(tol), p.VelocityDiscontinuities(tol)...)
}
