package solver

import (
	"github.com/pursuitlab/copnumber/pkg/placement"
	"github.com/pursuitlab/copnumber/pkg/state"
)

// verdict scans for a winning opening: a placement from which every
// robber start is a cop-turn win. With rounds tracked it returns the
// placement minimizing the worst-case capture distance; ties and the
// untracked case resolve to the lowest placement ID.
func verdict(sb *state.Scoreboard, tbl *placement.Table) (win bool, bestID uint64, bestRounds int32) {
	n := sb.N()
	bestRounds = -1
	for cID := uint64(0); cID < tbl.Len(); cID++ {
		base := cID * n
		all := true
		worst := int32(0)
		for r := uint64(0); r < n; r++ {
			if !sb.CopWin(base + r) {
				all = false
				break
			}
			if sb.Rounds != nil {
				if rr := sb.Rounds[base+r]; rr > worst {
					worst = rr
				}
			}
		}
		if !all {
			continue
		}
		if sb.Rounds == nil {
			return true, cID, -1
		}
		if !win || worst < bestRounds {
			win = true
			bestID = cID
			bestRounds = worst
		}
	}
	return win, bestID, bestRounds
}
