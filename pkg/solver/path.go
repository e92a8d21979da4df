package solver

import (
	"fmt"
	"slices"

	"github.com/pursuitlab/copnumber/pkg/graph"
	"github.com/pursuitlab/copnumber/pkg/placement"
	"github.com/pursuitlab/copnumber/pkg/state"
	"github.com/pursuitlab/copnumber/pkg/transition"
)

// extractPath replays the minimax pursuit from the winning opening. The
// robber opens on the start maximizing capture distance; each cop turn
// picks the team move minimizing the worst robber reply among moves that
// keep every reply lost; each robber turn picks the longest-surviving
// reply. Requires round tracking.
func extractPath(sb *state.Scoreboard, tbl *placement.Table, adj *graph.Adjacency,
	csr *transition.Table, startCID uint64) []Ply {
	if sb.Rounds == nil {
		panic("solver: path extraction without round tracking")
	}
	var src succSource
	if csr != nil {
		src = csrSource{csr}
	} else {
		src = enumSource{tbl: tbl, enu: transition.NewEnumerator(tbl, adj)}
	}
	n := sb.N()

	// Robber opening: worst case for the cops.
	r := byte(0)
	best := int32(-1)
	for rv := uint64(0); rv < n; rv++ {
		if rr := sb.Rounds[startCID*n+rv]; rr > best {
			best = rr
			r = byte(rv)
		}
	}

	var path []Ply
	cID := startCID
	limit := 2*sb.Len() + 2
	for steps := uint64(0); ; steps++ {
		if steps > limit {
			panic("solver: path extraction did not terminate")
		}
		cfg := tbl.At(cID)
		if slices.Contains(cfg, r) {
			path = append(path, ply(cfg, r, PhaseCaptured))
			return path
		}
		path = append(path, ply(cfg, r, PhaseCopTurn))

		nextC, captured := copMove(sb, tbl, adj, src, cID, r)
		cfg = tbl.At(nextC)
		if captured {
			path = append(path, ply(cfg, r, PhaseCaptured))
			return path
		}
		path = append(path, ply(cfg, r, PhaseRobberTurn))

		r = robberMove(sb, adj, nextC*n, r)
		cID = nextC
	}
}

// copMove selects the cop reply from cID against robber r. Successors
// that leave the robber any winning escape are discarded; among the rest
// the worst robber reply is minimized, instant capture scoring zero.
// Ties resolve to the lowest placement ID.
func copMove(sb *state.Scoreboard, tbl *placement.Table, adj *graph.Adjacency,
	src succSource, cID uint64, r byte) (uint64, bool) {
	n := sb.N()
	var (
		found     bool
		bestC     uint64
		bestScore int32
	)
	for _, cn := range src.row(cID) {
		next := cn / n
		if slices.Contains(tbl.At(next), r) {
			// Immediate capture beats everything.
			return next, true
		}
		score := int32(-1)
		safe := true
		for _, r2 := range adj.Options(r) {
			id := cn + uint64(r2)
			if !sb.CopWin(id) {
				safe = false
				break
			}
			if rr := sb.Rounds[id]; rr > score {
				score = rr
			}
		}
		if !safe {
			continue
		}
		if !found || score < bestScore {
			found = true
			bestC = next
			bestScore = score
		}
	}
	if !found {
		panic(fmt.Sprintf("solver: no winning cop move from placement %d against robber %d", cID, r))
	}
	return bestC, false
}

// robberMove selects the longest-surviving robber reply under the
// placement at base. Ties resolve to the lowest vertex.
func robberMove(sb *state.Scoreboard, adj *graph.Adjacency, base uint64, r byte) byte {
	bestR := r
	best := int32(-1)
	for _, r2 := range adj.Options(r) {
		rr := sb.Rounds[base+uint64(r2)]
		if rr > best || (rr == best && r2 < bestR) {
			best = rr
			bestR = r2
		}
	}
	return bestR
}

func ply(cfg []byte, r byte, phase Phase) Ply {
	return Ply{Cops: append([]byte(nil), cfg...), Robber: r, Phase: phase}
}
