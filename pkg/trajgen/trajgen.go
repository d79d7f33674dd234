// pkg/trajgen/trajgen.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package trajgen turns a linear plan, made of straight legs with
// instantaneous changes of track and speed at its vertices, into a
// kinematic plan in which every change is flown as a turn or an
// acceleration zone of bounded rate.
//
// Generation is a sequence of passes, each of which takes a plan and
// returns a modified copy. A pass that cannot handle a vertex records an
// error in the returned plan's log; callers check HasError.
package trajgen

import (
	"fmt"

	"github.com/mmp/trajgen/pkg/math"
	"github.com/mmp/trajgen/pkg/plan"
)

// Ground speeds below this are treated as zero.
const minGs = 1e-3

type pass struct {
	name string
	run  func(*plan.Plan, Config) *plan.Plan
}

// MakeKinematicPlan runs the full generation pipeline over the linear
// plan lpc, which is not modified. The result carries any errors and
// warnings from the passes; unless cfg.ContinueGen is set, generation
// stops after the first pass that reports an error.
func MakeKinematicPlan(lpc *plan.Plan, cfg Config) *plan.Plan {
	kpc := lpc.Clone()
	kpc.ErrorLog().Clear()
	kpc.SetMinDt(cfg.MinDt)

	if err := cfg.Validate(); err != nil {
		kpc.ErrorLog().Error(-1, err)
		return kpc
	}
	if kpc.Size() < 2 {
		kpc.AddError(-1, "%s: plan must have at least two points", kpc.Name)
		return kpc
	}
	if !kpc.IsLinear() {
		kpc.AddError(-1, "%s: plan already has trajectory change points", kpc.Name)
		return kpc
	}
	if i, why := kpc.WellFormedReason(); i >= 0 {
		kpc.AddError(i, "%s: %s", kpc.Name, why)
		return kpc
	}

	for i := range kpc.Size() {
		td := kpc.TcpData(i)
		td.Original = true
		td.SetSource(kpc.Point(i), i)
		kpc.SetTcpData(i, td)
	}

	passes := []pass{
		{"repair", RepairPlan},
		{"mark vs changes", MarkVsChanges},
		{"turns", GenerateTurnTCPs},
		{"ground speed", GenerateGsTCPs},
		{"constant vs", MakeMarkedVsConstant},
		{"vertical speed", GenerateVsTCPs},
		{"cleanup", Cleanup},
	}
	for _, ps := range passes {
		// Messages recorded by the pass are prefixed with its name.
		kpc.ErrorLog().Push(ps.name)
		kpc = ps.run(kpc, cfg)
		kpc.ErrorLog().Pop()
		cfg.Log.Debug("trajgen pass", "plan", kpc.Name, "pass", ps.name, "points", kpc.Size(),
			"error", kpc.HasError())
		if kpc.HasError() && !cfg.ContinueGen {
			cfg.Log.Warn("trajgen stopped", "plan", kpc.Name, "pass", ps.name, "msg", kpc.MessageNoClear())
			break
		}
	}
	return kpc
}

// MakeLinearPlan removes every trajectory change point from the kinematic
// plan kpc, returning the linear plan it was generated from.
func MakeLinearPlan(kpc *plan.Plan) *plan.Plan {
	lpc := kpc.Clone()
	lpc.ErrorLog().Clear()
	lpc.RevertTCPs()
	return lpc
}

///////////////////////////////////////////////////////////////////////////
// Helpers shared by the passes

// withSource returns fresh metadata carrying the provenance of td.
func withSource(td plan.TcpData) plan.TcpData {
	r := plan.MakeTcpData()
	r.SourcePos, r.SourceTime, r.LinearIndex = td.SourcePos, td.SourceTime, td.LinearIndex
	return r
}

func trackChange(p *plan.Plan, i int, cfg Config) bool {
	if i <= 0 || i >= p.Size()-1 {
		return false
	}
	return math.TrackDifference(p.TrkIn(i), p.TrkOut(i)) > cfg.MinTrkChange
}

func gsChange(p *plan.Plan, i int, cfg Config) bool {
	if i <= 0 || i >= p.Size()-1 {
		return false
	}
	return math.Abs(p.GsOut(i)-p.GsIn(i)) > cfg.MinGsChange
}

func vsChange(p *plan.Plan, i int, cfg Config) bool {
	if i <= 0 || i >= p.Size()-1 {
		return false
	}
	return math.Abs(p.VsOut(i)-p.VsIn(i)) > cfg.MinVsChange
}

// indices returns the indices of the interior points for which pred
// holds, in increasing order.
func indices(p *plan.Plan, pred func(int) bool) []int {
	var idx []int
	for i := 1; i < p.Size()-1; i++ {
		if pred(i) {
			idx = append(idx, i)
		}
	}
	return idx
}

// forEachReverse calls f for each index from last to first, recording
// errors in p. Unless cfg.ContinueGen is set it stops at the first
// error. Each step only inserts or removes points after the previous
// vertex, so processing in reverse keeps the indices of the unprocessed
// vertices valid.
func forEachReverse(p *plan.Plan, idx []int, cfg Config, what string, f func(int) error) {
	for k := len(idx) - 1; k >= 0; k-- {
		i := idx[k]
		p.ErrorLog().Push(fmt.Sprintf("%s at %d", what, i))
		err := f(i)
		if err != nil {
			p.AddError(i, "%s: %v", p.Name, err)
		}
		p.ErrorLog().Pop()
		if err != nil {
			cfg.Log.Debug("trajgen vertex failed", "plan", p.Name, "what", what, "index", i, "err", err)
			if !cfg.ContinueGen {
				return
			}
		}
	}
}
