// pkg/plan/plan.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package plan provides Plan, a time-ordered sequence of points each
// annotated with trajectory change point (TCP) metadata, along with
// interpolation, distance, structural mutation and invariant checks.
package plan

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/brunoga/deep"

	"github.com/mmp/trajgen/pkg/math"
	"github.com/mmp/trajgen/pkg/util"
)

// DefaultMinDt is the default minimum spacing between point times.
const DefaultMinDt = 1e-3

// Plan is an ordered, time-indexed sequence of points and their TCP
// metadata. Mutating operations that fail record an error in the plan's
// log rather than returning one; callers should check HasError.
type Plan struct {
	Name string
	Note string

	points []NavPoint
	data   []TcpData
	minDt  float64
	errs   util.ErrorLog
}

func New(name string) *Plan {
	return &Plan{Name: name, minDt: DefaultMinDt}
}

// Clone returns a deep copy of the plan, including its error log.
func (p *Plan) Clone() *Plan {
	return deep.MustCopy(p)
}

func (p *Plan) MinDt() float64 { return p.minDt }

func (p *Plan) SetMinDt(dt float64) {
	p.minDt = max(dt, 0)
}

func (p *Plan) Size() int { return len(p.points) }

func (p *Plan) IsEmpty() bool { return len(p.points) == 0 }

func (p *Plan) Point(i int) NavPoint { return p.points[i] }

func (p *Plan) TcpData(i int) TcpData { return p.data[i] }

func (p *Plan) Time(i int) float64 { return p.points[i].Time }

// FirstTime returns the time of the first point, or 0 for an empty plan.
func (p *Plan) FirstTime() float64 {
	if len(p.points) == 0 {
		return 0
	}
	return p.points[0].Time
}

func (p *Plan) LastTime() float64 {
	if len(p.points) == 0 {
		return 0
	}
	return p.points[len(p.points)-1].Time
}

// Points returns a copy of the plan's points.
func (p *Plan) Points() []NavPoint {
	return slices.Clone(p.points)
}

// IsLinear reports whether no point carries a TCP.
func (p *Plan) IsLinear() bool {
	return !slices.ContainsFunc(p.data, func(td TcpData) bool { return td.IsTCP() })
}

///////////////////////////////////////////////////////////////////////////
// Errors

func (p *Plan) AddError(idx int, format string, args ...any) {
	p.errs.ErrorString(idx, format, args...)
}

func (p *Plan) AddWarning(idx int, format string, args ...any) {
	p.errs.WarningString(idx, format, args...)
}

func (p *Plan) HasError() bool { return p.errs.HaveErrors() }

func (p *Plan) HasMessage() bool { return p.errs.HaveMessages() }

// Message returns all accumulated messages and clears them.
func (p *Plan) Message() string {
	s := p.errs.String()
	p.errs.Clear()
	return s
}

func (p *Plan) MessageNoClear() string { return p.errs.String() }

// ErrorLog gives access to the plan's log so that callers can push
// context onto it.
func (p *Plan) ErrorLog() *util.ErrorLog { return &p.errs }

///////////////////////////////////////////////////////////////////////////
// Index lookup

// GetIndex returns the index of the point at time t, or -1 if there is
// none within MinDt.
func (p *Plan) GetIndex(t float64) int {
	i := p.GetNearestIndex(t)
	if i >= 0 && math.Abs(p.points[i].Time-t) < p.minDt {
		return i
	}
	return -1
}

// GetNearestIndex returns the index of the point whose time is closest to
// t, or -1 for an empty plan.
func (p *Plan) GetNearestIndex(t float64) int {
	n := len(p.points)
	if n == 0 {
		return -1
	}
	i := sort.Search(n, func(i int) bool { return p.points[i].Time >= t })
	if i == n {
		return n - 1
	}
	if i > 0 && t-p.points[i-1].Time < p.points[i].Time-t {
		return i - 1
	}
	return i
}

// GetSegment returns the index i of the segment containing t, such that
// Time(i) <= t < Time(i+1). It returns -1 before the start of the plan
// and Size()-1 at or after its last point.
func (p *Plan) GetSegment(t float64) int {
	n := len(p.points)
	if n == 0 || t < p.points[0].Time {
		return -1
	}
	// first index with time > t
	i := sort.Search(n, func(i int) bool { return p.points[i].Time > t })
	return i - 1
}

// GetSegmentByDistance returns the segment containing the given path
// distance from the start of the plan, or -1 if d is negative or the
// plan is empty.
func (p *Plan) GetSegmentByDistance(d float64) int {
	if d < 0 || len(p.points) == 0 {
		return -1
	}
	sum := 0.0
	for i := 0; i < len(p.points)-1; i++ {
		sum += p.PathDistance(i)
		if d < sum {
			return i
		}
	}
	return len(p.points) - 1
}

///////////////////////////////////////////////////////////////////////////
// Mutation

// Add inserts a point in time order and returns its index. A point within
// MinDt of an existing one is merged with it if their metadata is
// compatible; otherwise the point is rejected, an error is recorded and
// -1 is returned.
func (p *Plan) Add(np NavPoint, td TcpData) int {
	if np.Time < 0 || math.IsNaN(np.Time) {
		p.AddError(-1, "%s: invalid time %f", p.Name, np.Time)
		return -1
	}

	if j := p.GetIndex(np.Time); j >= 0 {
		merged, ok := p.data[j].merge(td)
		if !ok {
			p.AddError(j, "%s: cannot merge %s with %s at t=%.3f", p.Name, td, p.data[j], np.Time)
			return -1
		}
		p.data[j] = merged
		if p.points[j].Label == "" {
			p.points[j].Label = np.Label
		} else if np.Label != "" && np.Label != p.points[j].Label {
			p.points[j].Label += "," + np.Label
		}
		return j
	}

	i := sort.Search(len(p.points), func(i int) bool { return p.points[i].Time > np.Time })
	p.points = slices.Insert(p.points, i, np)
	p.data = slices.Insert(p.data, i, td)
	return i
}

// AddNavPoint adds a point with default metadata.
func (p *Plan) AddNavPoint(np NavPoint) int {
	return p.Add(np, MakeTcpData())
}

func (p *Plan) Remove(i int) {
	if i < 0 || i >= len(p.points) {
		p.AddError(i, "%s: remove: index out of range", p.Name)
		return
	}
	p.points = slices.Delete(p.points, i, i+1)
	p.data = slices.Delete(p.data, i, i+1)
}

// RemoveRange removes points from through to, inclusive.
func (p *Plan) RemoveRange(from, to int) {
	from, to = max(from, 0), min(to, len(p.points)-1)
	if from > to {
		return
	}
	p.points = slices.Delete(p.points, from, to+1)
	p.data = slices.Delete(p.data, from, to+1)
}

// Clear removes all points and messages.
func (p *Plan) Clear() {
	p.points, p.data = nil, nil
	p.errs.Clear()
}

// fits reports whether time t could be stored at index i without
// violating ordering with its neighbors.
func (p *Plan) fits(i int, t float64) bool {
	if i > 0 && t-p.points[i-1].Time < p.minDt {
		return false
	}
	if i+1 < len(p.points) && p.points[i+1].Time-t < p.minDt {
		return false
	}
	return t >= 0
}

// Set replaces point i, returning its (possibly new) index or -1 on
// failure.
func (p *Plan) Set(i int, np NavPoint, td TcpData) int {
	if i < 0 || i >= len(p.points) {
		p.AddError(i, "%s: set: index out of range", p.Name)
		return -1
	}
	if p.fits(i, np.Time) {
		p.points[i], p.data[i] = np, td
		return i
	}
	p.Remove(i)
	return p.Add(np, td)
}

func (p *Plan) SetTcpData(i int, td TcpData) {
	p.data[i] = td
}

// SetAltitude changes the altitude of point i.
func (p *Plan) SetAltitude(i int, alt float64) {
	p.points[i].Pos = p.points[i].Pos.MkAlt(alt)
}

func (p *Plan) SetLabel(i int, label string) {
	p.points[i].Label = label
}

// SetTime changes the time of point i. It fails, recording an error, if
// the new time would change the order of the points.
func (p *Plan) SetTime(i int, t float64) bool {
	if i < 0 || i >= len(p.points) {
		p.AddError(i, "%s: set time: index out of range", p.Name)
		return false
	}
	if !p.fits(i, t) {
		p.AddError(i, "%s: time %.3f would violate ordering", p.Name, t)
		return false
	}
	p.points[i].Time = t
	return true
}

// TimeShiftPlan adds dt to the times of all points from index from
// onward. Points that would end up at or before their predecessor (or at
// a negative time) are removed.
func (p *Plan) TimeShiftPlan(from int, dt float64) bool {
	if from < 0 || from >= len(p.points) {
		return false
	}
	if dt == 0 {
		return true
	}
	for i := from; i < len(p.points); i++ {
		p.points[i].Time += dt
	}
	if dt > 0 {
		return true
	}

	prev := -p.minDt
	if from > 0 {
		prev = p.points[from-1].Time
	}
	n := 0
	for from+n < len(p.points) && p.points[from+n].Time-prev < p.minDt {
		n++
	}
	if n > 0 {
		p.AddWarning(from, "%s: time shift of %.3f removed %d points", p.Name, dt, n)
		p.RemoveRange(from, from+n-1)
	}
	return true
}

func (p *Plan) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan %q (%d points)\n", p.Name, len(p.points))
	for i, np := range p.points {
		fmt.Fprintf(&b, "  %3d %s %s\n", i, np, p.data[i])
	}
	return b.String()
}
