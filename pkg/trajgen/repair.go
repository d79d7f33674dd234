// pkg/trajgen/repair.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package trajgen

import (
	"github.com/mmp/trajgen/pkg/math"
	"github.com/mmp/trajgen/pkg/plan"
)

// RepairPlan modifies a linear plan so that later passes can fly it:
// with RepairTurn, consecutive turns that overlap are replaced by a single
// turn at the intersection of the outer legs; with RepairVs, vertical
// speed changes too close together to accelerate between are flattened.
// Every modification is recorded as a warning.
func RepairPlan(lpc *plan.Plan, cfg Config) *plan.Plan {
	p := lpc.Clone()
	if cfg.RepairTurn {
		repairTurns(p, cfg)
	}
	if cfg.RepairVs {
		repairVs(p, cfg)
	}
	return p
}

// tangentDist returns the distance from vertex i to the start of its
// turn, or +Inf if no turn is possible there.
func tangentDist(p *plan.Plan, i int, cfg Config) float64 {
	R, err := turnRadius(p.TcpData(i), p.GsIn(i), cfg)
	if err != nil {
		return math.Inf()
	}
	dtrk := math.TrackDifference(p.TrkIn(i), p.TrkOut(i))
	if dtrk >= math.Pi-1e-6 {
		return math.Inf()
	}
	return R * math.Tan(dtrk/2)
}

func repairTurns(p *plan.Plan, cfg Config) {
	for range p.Size() {
		verts := indices(p, func(i int) bool { return trackChange(p, i, cfg) })
		repaired := false
		for k := 0; k+1 < len(verts); k++ {
			a, b := verts[k], verts[k+1]
			need := tangentDist(p, a, cfg) + tangentDist(p, b, cfg) + cfg.MinTurnBuffer
			if need <= p.PathDistanceRange(a, b) {
				continue
			}
			if mergeVertices(p, a, b, cfg) {
				repaired = true
				break
			}
		}
		if !repaired {
			return
		}
	}
}

// mergeVertices replaces the turns at a and b, with no track change
// between them, by a single vertex where the leg into a meets the leg out
// of b. a and b stay in the plan as points on those legs; points between
// them are removed. It returns false if the legs do not meet ahead of a
// and behind b.
func mergeVertices(p *plan.Plan, a, b int, cfg Config) bool {
	pa, pb := p.Point(a), p.Point(b)
	trkIn, trkOut := p.TrkIn(a), p.TrkOut(b)
	x, ok := math.Intersection2D(pa.Pos, trkIn, pb.Pos, trkOut)
	if !ok {
		return false
	}
	da, db := pa.Pos.DistanceH(x), x.DistanceH(pb.Pos)
	if da < cfg.MinTurnBuffer || db < cfg.MinTurnBuffer ||
		math.TrackDifference(pa.Pos.Track(x), trkIn) > math.Pi/2 ||
		math.TrackDifference(x.Track(pb.Pos), trkOut) > math.Pi/2 {
		return false
	}
	gsIn, gsOut := p.GsIn(a), p.GsOut(b)
	if gsIn < minGs || gsOut < minGs {
		return false
	}

	tx := pa.Time + da/gsIn
	z := math.Lerp(da/(da+db), pa.Pos.Z, pb.Pos.Z)
	z = math.Clamp(z, min(pa.Pos.Z, pb.Pos.Z), max(pa.Pos.Z, pb.Pos.Z))
	shift := tx + db/gsOut - pb.Time

	td := withSource(p.TcpData(a))
	td.Info = "merged turns at " + pointName(pa) + " and " + pointName(pb)

	p.RemoveRange(a+1, b-1)
	if !p.TimeShiftPlan(a+1, shift) {
		return false
	}
	if p.Add(plan.NavPoint{Pos: x.MkAlt(z), Time: tx}, td) < 0 {
		return false
	}
	p.AddWarning(a+1, "%s: overlapping turns at %s and %s merged", p.Name, pointName(pa), pointName(pb))
	cfg.Log.Info("turns merged", "plan", p.Name, "a", a, "b", b, "shift", shift)
	return true
}

func pointName(np plan.NavPoint) string {
	if np.Label != "" {
		return np.Label
	}
	return np.Pos.String()
}

// vsHalfTime returns half the duration of the vertical acceleration at i.
func vsHalfTime(p *plan.Plan, i int, cfg Config) float64 {
	if !vsChange(p, i, cfg) {
		return 0
	}
	return math.Abs(p.VsOut(i)-p.VsIn(i)) / cfg.VsAccel / 2
}

func repairVs(p *plan.Plan, cfg Config) {
	n := p.Size()
	margin := 2 * cfg.MinDt
	for range n {
		verts := append([]int{0}, indices(p, func(i int) bool { return vsChange(p, i, cfg) })...)
		verts = append(verts, n-1)

		flattened := false
		for k := 0; k+1 < len(verts); k++ {
			i, j := verts[k], verts[k+1]
			hi, hj := vsHalfTime(p, i, cfg), vsHalfTime(p, j, cfg)
			if hi+hj+margin <= p.Time(j)-p.Time(i) {
				continue
			}

			// Flatten the smaller change unless it must keep its altitude;
			// the ends of the plan are never moved.
			cand := []int{i, j}
			if hi > hj {
				cand = []int{j, i}
			}
			for _, c := range cand {
				if c == 0 || c == n-1 || p.TcpData(c).AltPreserve {
					continue
				}
				z := math.Lerp((p.Time(c)-p.Time(c-1))/(p.Time(c+1)-p.Time(c-1)),
					p.Point(c-1).Pos.Z, p.Point(c+1).Pos.Z)
				p.AddWarning(c, "%s: vertical speed change at %s flattened, altitude %.0f to %.0f",
					p.Name, pointName(p.Point(c)), p.Point(c).Pos.Z, z)
				p.SetAltitude(c, z)
				flattened = true
				break
			}
			if flattened {
				break
			}
		}
		if !flattened {
			return
		}
	}
}
