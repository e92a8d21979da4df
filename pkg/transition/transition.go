// Package transition builds the team-move transition table.
//
// For every cop placement the table records the set of placements
// reachable in one cop turn, where each cop independently stays put or
// moves to a neighbor. The result is stored in compressed sparse row
// form: Heads[i]..Heads[i+1] delimits the successors of placement i
// inside Succs.
//
// # Encoding
//
// Successor entries are placement IDs pre-multiplied by the vertex count
// N. The solver's state IDs are cId·N + r, so a pre-multiplied successor
// plus a robber vertex is a ready-made state ID with no multiply in the
// hot loop.
//
// # Symmetry
//
// Because every cop may stay put and the underlying edges are undirected,
// the successor relation is symmetric: j ∈ succ(i) iff i ∈ succ(j). The
// solver exploits this by walking the forward table where a reverse index
// would otherwise be required.
package transition

import (
	"fmt"
	"runtime"
	"slices"
	"sync"

	"github.com/pursuitlab/copnumber/pkg/graph"
	"github.com/pursuitlab/copnumber/pkg/placement"
)

// Table is the CSR transition table over cop placements.
type Table struct {
	Heads []uint64 // len M+1, Heads[0] = 0
	Succs []uint64 // placement IDs pre-multiplied by N
}

// Len returns the number of placements covered.
func (t *Table) Len() uint64 { return uint64(len(t.Heads)) - 1 }

// Row returns the pre-multiplied successor IDs of placement id.
func (t *Table) Row(id uint64) []uint64 {
	return t.Succs[t.Heads[id]:t.Heads[id+1]]
}

// Options configures the parallel build.
type Options struct {
	// Workers is the number of build goroutines. Zero selects
	// runtime.NumCPU().
	Workers int
}

// ValidateAndSetDefaults fills zero-valued fields.
func (o *Options) ValidateAndSetDefaults() {
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
		if o.Workers <= 0 {
			o.Workers = 8
		}
	}
}

// Build materializes the transition table for every placement in tbl.
//
// The placement range is split into contiguous chunks, one per worker.
// Each worker enumerates its chunk into a private successor buffer and
// writes per-placement counts into a shared array (distinct cells, so no
// synchronization is needed). A serial prefix sum over the counts yields
// Heads, and the private buffers are concatenated in chunk order.
func Build(tbl *placement.Table, adj *graph.Adjacency, opts Options) *Table {
	opts.ValidateAndSetDefaults()

	m := tbl.Len()
	workers := opts.Workers
	if uint64(workers) > m {
		workers = int(m)
	}
	if workers < 1 {
		workers = 1
	}

	counts := make([]uint64, m)
	bufs := make([][]uint64, workers)
	chunk := (m + uint64(workers) - 1) / uint64(workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := uint64(w) * chunk
		hi := min(lo+chunk, m)
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(w int, lo, hi uint64) {
			defer wg.Done()
			var (
				buf []uint64
				enu = newEnumerator(tbl, adj)
			)
			for id := lo; id < hi; id++ {
				start := len(buf)
				buf = enu.appendSuccessors(buf, tbl.At(id))
				counts[id] = uint64(len(buf) - start)
			}
			bufs[w] = buf
		}(w, lo, hi)
	}
	wg.Wait()

	heads := make([]uint64, m+1)
	var total uint64
	for id := uint64(0); id < m; id++ {
		heads[id] = total
		total += counts[id]
	}
	heads[m] = total

	succs := make([]uint64, total)
	var off uint64
	for _, buf := range bufs {
		copy(succs[off:], buf)
		off += uint64(len(buf))
	}

	return &Table{Heads: heads, Succs: succs}
}

// Enumerator generates the successor set of a single placement. It keeps
// reusable scratch space so the low-memory solver can regenerate rows in
// a loop without allocating.
type Enumerator struct {
	tbl   *placement.Table
	adj   *graph.Adjacency
	n     uint64
	idx   []int
	tuple []byte
	rows  [][]byte
	set   []uint64
}

// NewEnumerator returns an enumerator over tbl and adj.
func NewEnumerator(tbl *placement.Table, adj *graph.Adjacency) *Enumerator {
	return newEnumerator(tbl, adj)
}

func newEnumerator(tbl *placement.Table, adj *graph.Adjacency) *Enumerator {
	k := tbl.K()
	return &Enumerator{
		tbl:   tbl,
		adj:   adj,
		n:     uint64(adj.N()),
		idx:   make([]int, k),
		tuple: make([]byte, k),
		rows:  make([][]byte, k),
	}
}

// Successors returns the sorted, deduplicated successor IDs of the given
// placement, pre-multiplied by N. The slice is reused across calls.
func (e *Enumerator) Successors(cfg []byte) []uint64 {
	e.set = e.appendSuccessors(e.set[:0], cfg)
	return e.set
}

// appendSuccessors walks the Cartesian product of each cop's option list
// (the cop's vertex first, then its neighbors), canonicalizes every
// combination by sorting, resolves it to a placement ID, and appends the
// deduplicated, sorted ID set to dst.
func (e *Enumerator) appendSuccessors(dst []uint64, cfg []byte) []uint64 {
	k := len(cfg)
	rows := e.rows
	for i, v := range cfg {
		rows[i] = e.adj.Options(v)
	}

	start := len(dst)
	for i := range e.idx {
		e.idx[i] = 0
	}
	for {
		for i := 0; i < k; i++ {
			e.tuple[i] = rows[i][e.idx[i]]
		}
		insertionSort(e.tuple)
		id, ok := e.tbl.Find(e.tuple)
		if !ok {
			panic(fmt.Sprintf("transition: canonical tuple %v not in placement table", e.tuple))
		}
		dst = append(dst, id*e.n)

		// Odometer over the option lists.
		i := k - 1
		for i >= 0 {
			e.idx[i]++
			if e.idx[i] < len(rows[i]) {
				break
			}
			e.idx[i] = 0
			i--
		}
		if i < 0 {
			break
		}
	}

	fresh := dst[start:]
	slices.Sort(fresh)
	fresh = slices.Compact(fresh)
	return dst[:start+len(fresh)]
}

// insertionSort sorts a small byte slice in place. Placements are at most
// a few hundred bytes and usually single digits, where insertion sort
// beats the generic sort.
func insertionSort(b []byte) {
	for i := 1; i < len(b); i++ {
		v := b[i]
		j := i - 1
		for j >= 0 && b[j] > v {
			b[j+1] = b[j]
			j--
		}
		b[j+1] = v
	}
}
