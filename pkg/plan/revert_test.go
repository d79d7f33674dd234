// pkg/plan/revert_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package plan

import (
	gomath "math"
	"testing"

	"github.com/mmp/trajgen/pkg/math"
)

func TestRevertTurn(t *testing.T) {
	p := turnPlan()
	v := p.StructRevertTurnTCP(1)
	if v != 1 || p.HasError() {
		t.Fatalf("revert returned %d: %s", v, p.Message())
	}
	if p.Size() != 3 || !p.IsLinear() {
		t.Fatalf("expected three linear points: %s", p)
	}

	R := turnRadius
	arc := R * gomath.Pi / 2
	// The vertex is reached midway through the turn.
	if !near(p.Point(1).Pos, math.MakeXYZ(0, R, 0), 1e-6) || !math.Within(p.Time(1), 10+arc/200, 1e-9) {
		t.Errorf("vertex %s", p.Point(1))
	}
	// Points after the turn keep their times.
	if !math.Within(p.Time(2), 20+arc/100, 1e-9) || p.Point(2).Label != "end" {
		t.Errorf("last point %s", p.Point(2))
	}
	if !math.Within(p.GsOut(1), (R+1000)/(10+arc/200), 1e-6) {
		t.Errorf("gs out %f", p.GsOut(1))
	}
}

func TestRevertTurnMOT(t *testing.T) {
	p := turnPlan()
	R := turnRadius
	arc := R * gomath.Pi / 2
	mot := MakeTcpData()
	mot.MOT = true
	mot.Original = true
	mot.AltPreserve = true
	p.Add(NavPoint{Pos: p.Position(10 + arc/200).MkAlt(300), Time: 10 + arc/200, Label: "fix"}, mot)

	v := p.StructRevertTurnTCP(1)
	if v != 1 {
		t.Fatalf("revert returned %d: %s", v, p.Message())
	}
	np, td := p.Point(v), p.TcpData(v)
	if np.Label != "fix" || np.Pos.Z != 300 || !td.Original || !td.AltPreserve || td.MOT {
		t.Errorf("vertex %s %s", np, td)
	}
	if !near(np.Pos.MkAlt(0), math.MakeXYZ(0, R, 0), 1e-6) {
		t.Errorf("vertex position %s", np.Pos)
	}
}

func TestRevertGs(t *testing.T) {
	p := gsPlan()
	egs := p.TcpData(1)
	egs.Original = true
	p.SetTcpData(1, egs)

	if b := p.StructRevertGsTCP(0); b != 0 {
		t.Fatalf("revert returned %d: %s", b, p.Message())
	}
	if p.Size() != 3 || !p.IsLinear() {
		t.Fatalf("%s", p)
	}
	if !math.Within(p.Time(1), 600.0/70, 1e-9) || !math.Within(p.Time(2), 600.0/70+10, 1e-9) {
		t.Errorf("times %f %f", p.Time(1), p.Time(2))
	}
	if !math.Within(p.GsOut(0), 70, 1e-9) {
		t.Errorf("gs %f", p.GsOut(0))
	}

	// A generated end point is removed.
	p = gsPlan()
	p.StructRevertGsTCP(0)
	if p.Size() != 2 || !math.Within(p.Time(1), 1300.0/70, 1e-9) {
		t.Errorf("%s", p)
	}
}

func TestRevertVs(t *testing.T) {
	p := vsPlan()
	v := p.StructRevertVsTCP(1)
	if v != 1 {
		t.Fatalf("revert returned %d: %s", v, p.Message())
	}
	if p.Size() != 3 || !p.IsLinear() {
		t.Fatalf("%s", p)
	}
	np, td := p.Point(1), p.TcpData(1)
	if !near(np.Pos, math.MakeXYZ(0, 1500, 0), 1e-9) || np.Time != 15 || !td.AltPreserve {
		t.Errorf("vertex %s %s", np, td)
	}
	if !math.Within(p.VsOut(1), 10, 1e-9) {
		t.Errorf("vs out %f", p.VsOut(1))
	}
}

func TestRevertErrors(t *testing.T) {
	p := turnPlan()
	if p.StructRevertTurnTCP(0) != -1 || !p.HasError() {
		t.Errorf("expected failure reverting a non-BOT")
	}
	p = turnPlan()
	p.data[2].Clear(TrkAxis)
	if p.StructRevertTurnTCP(1) != -1 {
		t.Errorf("expected failure reverting an unclosed turn")
	}
}

func TestRevertTCPs(t *testing.T) {
	for _, p := range []*Plan{turnPlan(), gsPlan(), vsPlan()} {
		if !p.RevertTCPs() {
			t.Errorf("%s: %s", p.Name, p.Message())
		}
		if !p.IsLinear() || !p.IsWellFormed() {
			t.Errorf("%s", p)
		}
	}
}
