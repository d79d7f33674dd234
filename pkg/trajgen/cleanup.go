// pkg/trajgen/cleanup.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package trajgen

import (
	"github.com/mmp/trajgen/pkg/plan"
)

// Cleanup is the last generation pass. It merges points that are closer
// than the plan's MinDt, removes virtual points that carry nothing else
// and clears the flag on the rest, and records each remaining point as
// its own source if it has none. It reports an error if the result is not
// well formed.
func Cleanup(lpc *plan.Plan, cfg Config) *plan.Plan {
	p := lpc.Clone()

	for i := p.Size() - 1; i > 0; i-- {
		if p.Time(i)-p.Time(i-1) >= p.MinDt() {
			continue
		}
		np, td := p.Point(i), p.TcpData(i)
		p.Remove(i)
		p.Add(np, td)
	}

	for i := p.Size() - 1; i >= 0; i-- {
		td := p.TcpData(i)
		if td.Virtual && !td.IsTCP() && !td.AltPreserve {
			p.Remove(i)
			continue
		}
		td.Virtual = false
		// Points are not all marked Original: reversion relies on
		// LinearIndex to tell input points (>= 0) from generated ones.
		if !td.HasSource() {
			td.SetSource(p.Point(i), -1)
		}
		p.SetTcpData(i, td)
	}

	if i, why := p.WellFormedReason(); i >= 0 {
		p.AddError(i, "%s: generated plan is not well formed: %s", p.Name, why)
	}
	return p
}
