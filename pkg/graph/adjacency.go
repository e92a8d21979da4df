package graph

import (
	"github.com/pursuitlab/copnumber/pkg/errors"
)

// SentinelNone pads adjacency rows past the last neighbor. 255 can never
// be a vertex because MaxVertices is 254.
const SentinelNone byte = 255

// MaxOptions bounds the per-vertex move count (vertex itself plus its
// neighbors). The safe-move counter stores deg(v)+1 in seven bits, so any
// vertex with more options cannot be tracked.
const MaxOptions = 127

// Adjacency is a fixed-stride neighbor table tuned for the solver's inner
// loops. Row v starts with v itself (staying put is always a legal move),
// followed by the neighbors of v in ascending order, padded to the stride
// with SentinelNone. The fixed stride keeps row lookup a single multiply.
type Adjacency struct {
	stride int
	rows   []byte // n*stride
	n      int
}

// NewAdjacency builds the fixed-stride table for g. It fails with
// GraphTooDense when some vertex has more than MaxOptions-1 neighbors.
func NewAdjacency(g *Graph) (*Adjacency, error) {
	n := g.N()
	stride := g.MaxDegree() + 1
	if stride > MaxOptions {
		return nil, errors.New(errors.ErrCodeGraphTooDense,
			"max degree %d exceeds limit %d", stride-1, MaxOptions-1)
	}
	a := &Adjacency{stride: stride, rows: make([]byte, n*stride), n: n}
	for i := range a.rows {
		a.rows[i] = SentinelNone
	}
	for v := 0; v < n; v++ {
		row := a.rows[v*stride : (v+1)*stride]
		row[0] = byte(v)
		i := 1
		for u := 0; u < n; u++ {
			if g.Edge(byte(v), byte(u)) {
				row[i] = byte(u)
				i++
			}
		}
	}
	return a, nil
}

// Row returns the full stride for v: v itself, its neighbors in ascending
// order, then SentinelNone padding. Callers iterate until the sentinel.
func (a *Adjacency) Row(v byte) []byte {
	return a.rows[int(v)*a.stride : (int(v)+1)*a.stride]
}

// Options returns the row of v trimmed to its live entries.
func (a *Adjacency) Options(v byte) []byte {
	row := a.Row(v)
	for i, b := range row {
		if b == SentinelNone {
			return row[:i]
		}
	}
	return row
}

// Stride returns the row stride, max degree plus one.
func (a *Adjacency) Stride() int { return a.stride }

// N returns the vertex count.
func (a *Adjacency) N() int { return a.n }
