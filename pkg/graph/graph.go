// Package graph provides the undirected graph representation used by the
// pursuit solver.
//
// A Graph is a dense N×N adjacency matrix of bytes. Vertices are numbered
// 0..N-1 and fit in a byte because the solver caps N at 254. The matrix is
// symmetric with a zero diagonal; Parse validates neither property beyond
// the input alphabet, since the state encoding tolerates asymmetric input
// and the solver treats the matrix as ground truth.
//
// The package also provides a compact fixed-stride adjacency table
// (Adjacency) optimized for the solver's inner loops, and generators for a
// handful of named graph families used by the gen command and the tests.
package graph

import (
	"strings"

	"github.com/pursuitlab/copnumber/pkg/errors"
)

// MaxVertices is the largest supported vertex count. Vertex IDs must fit
// in a byte with 255 reserved as the adjacency-row sentinel.
const MaxVertices = 254

// Graph is a dense undirected graph over vertices 0..N-1.
type Graph struct {
	n   int
	adj []byte // row-major n*n, nonzero = edge
}

// New returns an empty graph on n vertices.
func New(n int) (*Graph, error) {
	if n < 1 || n > MaxVertices {
		return nil, errors.New(errors.ErrCodeGraphTooLarge,
			"vertex count %d outside [1, %d]", n, MaxVertices)
	}
	return &Graph{n: n, adj: make([]byte, n*n)}, nil
}

// N returns the number of vertices.
func (g *Graph) N() int { return g.n }

// Edge reports whether u and v are adjacent.
func (g *Graph) Edge(u, v byte) bool {
	return g.adj[int(u)*g.n+int(v)] != 0
}

// AddEdge inserts the undirected edge {u, v}. Self loops are ignored.
func (g *Graph) AddEdge(u, v byte) {
	if u == v {
		return
	}
	g.adj[int(u)*g.n+int(v)] = 1
	g.adj[int(v)*g.n+int(u)] = 1
}

// Degree returns the number of neighbors of v.
func (g *Graph) Degree(v byte) int {
	row := g.adj[int(v)*g.n : (int(v)+1)*g.n]
	d := 0
	for _, b := range row {
		if b != 0 {
			d++
		}
	}
	return d
}

// MaxDegree returns the largest vertex degree.
func (g *Graph) MaxDegree() int {
	max := 0
	for v := 0; v < g.n; v++ {
		if d := g.Degree(byte(v)); d > max {
			max = d
		}
	}
	return max
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, b := range g.adj {
		if b != 0 {
			total++
		}
	}
	return total / 2
}

// Neighbors returns the sorted neighbor list of v.
func (g *Graph) Neighbors(v byte) []byte {
	out := make([]byte, 0, 8)
	row := g.adj[int(v)*g.n : (int(v)+1)*g.n]
	for u, b := range row {
		if b != 0 {
			out = append(out, byte(u))
		}
	}
	return out
}

// String re-emits the graph as an ASCII adjacency matrix, one row per
// line. The output round-trips through Parse.
func (g *Graph) String() string {
	var sb strings.Builder
	sb.Grow(g.n*(g.n+1) + 2)
	for v := 0; v < g.n; v++ {
		row := g.adj[v*g.n : (v+1)*g.n]
		for _, b := range row {
			if b != 0 {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
