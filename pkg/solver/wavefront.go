package solver

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/pursuitlab/copnumber/pkg/errors"
	"github.com/pursuitlab/copnumber/pkg/graph"
	"github.com/pursuitlab/copnumber/pkg/observability"
	"github.com/pursuitlab/copnumber/pkg/placement"
	"github.com/pursuitlab/copnumber/pkg/state"
	"github.com/pursuitlab/copnumber/pkg/transition"
)

// succSource yields the pre-multiplied successor placements of a cop
// placement. One instance per worker; implementations need not be safe
// for concurrent use.
type succSource interface {
	row(cID uint64) []uint64
}

// csrSource reads rows from the prebuilt transition table.
type csrSource struct {
	csr *transition.Table
}

func (s csrSource) row(cID uint64) []uint64 { return s.csr.Row(cID) }

// enumSource regenerates rows on demand for low-memory mode.
type enumSource struct {
	tbl *placement.Table
	enu *transition.Enumerator
}

func (s enumSource) row(cID uint64) []uint64 { return s.enu.Successors(s.tbl.At(cID)) }

// engine drives the level-synchronous backward propagation.
type engine struct {
	sb       *state.Scoreboard
	tbl      *placement.Table
	adj      *graph.Adjacency
	csr      *transition.Table // nil in low-memory mode
	workers  int
	batch    uint64
	frontier []uint64
	logger   *log.Logger
	hooks    observability.SolverHooks
}

// run consumes the frontier wave by wave until it drains. Each wave,
// workers claim fixed-size batches through a shared atomic cursor and
// collect newly won states into private next-frontier slices, which the
// coordinator concatenates after the join.
func (e *engine) run(ctx context.Context, stats *Stats) error {
	cur := e.frontier
	wave := int32(0)
	for len(cur) > 0 {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err,
				"canceled during wave %d", wave+1)
		}
		wave++
		if len(cur) > stats.PeakFrontier {
			stats.PeakFrontier = len(cur)
		}
		stats.Processed += uint64(len(cur))

		next := make([][]uint64, e.workers)
		var cursor atomic.Uint64
		var wg sync.WaitGroup
		for w := 0; w < e.workers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				next[w] = e.drain(cur, &cursor, wave, e.newSource())
			}(w)
		}
		wg.Wait()

		total := 0
		for _, part := range next {
			total += len(part)
		}
		merged := make([]uint64, 0, total)
		for _, part := range next {
			merged = append(merged, part...)
		}
		cur = merged

		e.hooks.OnWave(ctx, int(wave), len(cur))
		e.logger.Debug("wave complete", "wave", wave, "next_frontier", len(cur))
	}
	stats.Waves = int(wave)
	return nil
}

func (e *engine) newSource() succSource {
	if e.csr != nil {
		return csrSource{e.csr}
	}
	return enumSource{tbl: e.tbl, enu: transition.NewEnumerator(e.tbl, e.adj)}
}

// drain claims batches from cur until the dispenser runs dry and returns
// the states this worker newly won.
func (e *engine) drain(cur []uint64, cursor *atomic.Uint64, wave int32, src succSource) []uint64 {
	var (
		out []uint64
		n   = e.sb.N()
	)
	for {
		end := cursor.Add(e.batch)
		start := end - e.batch
		if start >= uint64(len(cur)) {
			return out
		}
		if end > uint64(len(cur)) {
			end = uint64(len(cur))
		}
		for _, word := range cur[start:end] {
			id, robberTurn := state.Split(word)
			if robberTurn {
				// All robber escapes from this state are dead, so every
				// cop placement one team-move away wins on its turn by
				// moving here. The successor relation is symmetric, so
				// the forward row enumerates the predecessors.
				r := id % n
				for _, cn := range src.row(id / n) {
					tgt := cn + r
					if e.sb.MarkCopWin(tgt) {
						e.sb.SetRounds(tgt, (wave+1)/2)
						out = append(out, state.Word(tgt, false))
					}
				}
			} else {
				// A cop-turn win burns one safe move of every robber
				// position that could step (or stay) into it.
				base := id - id%n
				for _, r2 := range e.adj.Options(byte(id % n)) {
					if e.sb.DecSafeMoves(base + uint64(r2)) {
						out = append(out, state.Word(base+uint64(r2), true))
					}
				}
			}
		}
	}
}
