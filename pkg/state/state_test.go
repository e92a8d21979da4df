package state

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pursuitlab/copnumber/pkg/graph"
	"github.com/pursuitlab/copnumber/pkg/placement"
)

func initFixture(t *testing.T, g *graph.Graph, k int, rounds bool) (*placement.Table, *Scoreboard, []uint64) {
	t.Helper()
	adj, err := graph.NewAdjacency(g)
	require.NoError(t, err)
	tbl, err := placement.Enumerate(g.N(), k)
	require.NoError(t, err)
	sb, frontier, err := Init(tbl, adj, rounds)
	require.NoError(t, err)
	return tbl, sb, frontier
}

func TestWordRoundTrip(t *testing.T) {
	for _, id := range []uint64{0, 1, 12345, 1<<62 - 1} {
		for _, rt := range []bool{false, true} {
			gotID, gotRT := Split(Word(id, rt))
			assert.Equal(t, id, gotID)
			assert.Equal(t, rt, gotRT)
		}
	}
}

func TestInitCaptureStates(t *testing.T) {
	g, err := graph.PathGraph(3)
	require.NoError(t, err)
	tbl, sb, frontier := initFixture(t, g, 1, true)

	require.EqualValues(t, 9, sb.Len())

	n := sb.N()
	for cID := uint64(0); cID < tbl.Len(); cID++ {
		c := uint64(tbl.At(cID)[0])
		for r := uint64(0); r < n; r++ {
			id := cID*n + r
			if r == c {
				assert.True(t, sb.CopWin(id), "capture state (%d, %d)", c, r)
				assert.EqualValues(t, 0, sb.Rounds[id])
			} else {
				assert.False(t, sb.CopWin(id))
				deg := uint32(g.Degree(byte(r)))
				assert.Equal(t, deg+1, sb.SafeMoves(id), "state (%d, %d)", c, r)
				assert.EqualValues(t, -1, sb.Rounds[id])
			}
		}
	}

	// One capture state per placement, seeded on both turn parities.
	require.Len(t, frontier, 2*int(tbl.Len()))
}

func TestInitDuplicateCops(t *testing.T) {
	g, err := graph.CycleGraph(4)
	require.NoError(t, err)
	tbl, _, frontier := initFixture(t, g, 2, false)

	// Placement {v, v} holds one capture state, not two frontier pairs.
	seen := make(map[uint64]int)
	for _, w := range frontier {
		id, _ := Split(w)
		seen[id]++
	}
	for id, count := range seen {
		require.Equal(t, 2, count, "state %d seeded %d times", id, count)
	}

	var captures int
	for cID := uint64(0); cID < tbl.Len(); cID++ {
		cfg := tbl.At(cID)
		if cfg[0] == cfg[1] {
			captures++ // only one distinct occupied vertex
		} else {
			captures += 2
		}
	}
	require.Len(t, seen, captures)
}

func TestMarkCopWinOnce(t *testing.T) {
	g, err := graph.PathGraph(4)
	require.NoError(t, err)
	_, sb, _ := initFixture(t, g, 1, false)

	const id = 1
	var wins atomic.Int32
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if sb.MarkCopWin(id) {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, wins.Load())
	assert.True(t, sb.CopWin(id))
}

func TestDecSafeMovesLethalOnce(t *testing.T) {
	g, err := graph.PathGraph(4)
	require.NoError(t, err)
	_, sb, _ := initFixture(t, g, 1, false)

	// Vertex 1 in P4 has degree 2, so counter is 3: two harmless
	// decrements, one lethal.
	const id = 1 // placement {0}, robber at 1
	require.EqualValues(t, 3, sb.SafeMoves(id))
	assert.False(t, sb.DecSafeMoves(id))
	assert.False(t, sb.DecSafeMoves(id))
	assert.True(t, sb.DecSafeMoves(id))
}

func TestDecSafeMovesCaptureWrap(t *testing.T) {
	g, err := graph.CompleteGraph(5)
	require.NoError(t, err)
	tbl, sb, _ := initFixture(t, g, 1, false)

	// Capture state: counter starts at zero. The first decrement wraps
	// far from zero and no realistic number of further decrements may
	// report lethal.
	c := uint64(tbl.At(0)[0])
	id := 0*sb.N() + c
	require.True(t, sb.CopWin(id))
	for i := 0; i < 120; i++ {
		require.False(t, sb.DecSafeMoves(id), "decrement %d reported lethal", i)
		require.True(t, sb.CopWin(id), "decrement %d cleared the win bit", i)
	}
}

func TestLethalDecrementRace(t *testing.T) {
	g, err := graph.CompleteGraph(9)
	require.NoError(t, err)
	_, sb, _ := initFixture(t, g, 1, false)

	// Robber vertex 1 under placement {0}: degree 8, counter 9. Nine
	// concurrent decrements must produce exactly one lethal.
	const id = 1
	require.EqualValues(t, 9, sb.SafeMoves(id))

	var lethal atomic.Int32
	var wg sync.WaitGroup
	for w := 0; w < 9; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if sb.DecSafeMoves(id) {
				lethal.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, lethal.Load())
}
