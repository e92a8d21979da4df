package graph

import (
	"github.com/pursuitlab/copnumber/pkg/errors"
)

// Named graph families used by the gen command and the test suite.

// PathGraph returns P_n, vertices 0..n-1 in a line.
func PathGraph(n int) (*Graph, error) {
	g, err := New(n)
	if err != nil {
		return nil, err
	}
	for v := 0; v < n-1; v++ {
		g.AddEdge(byte(v), byte(v+1))
	}
	return g, nil
}

// CycleGraph returns C_n. Requires n >= 3.
func CycleGraph(n int) (*Graph, error) {
	if n < 3 {
		return nil, errors.New(errors.ErrCodeInvalidArguments,
			"cycle needs at least 3 vertices, got %d", n)
	}
	g, err := PathGraph(n)
	if err != nil {
		return nil, err
	}
	g.AddEdge(byte(n-1), 0)
	return g, nil
}

// CompleteGraph returns K_n.
func CompleteGraph(n int) (*Graph, error) {
	g, err := New(n)
	if err != nil {
		return nil, err
	}
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			g.AddEdge(byte(u), byte(v))
		}
	}
	return g, nil
}

// GridGraph returns the w×h king-less grid, vertices numbered row major.
func GridGraph(w, h int) (*Graph, error) {
	if w < 1 || h < 1 {
		return nil, errors.New(errors.ErrCodeInvalidArguments,
			"grid dimensions must be positive, got %dx%d", w, h)
	}
	g, err := New(w * h)
	if err != nil {
		return nil, err
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := y*w + x
			if x+1 < w {
				g.AddEdge(byte(v), byte(v+1))
			}
			if y+1 < h {
				g.AddEdge(byte(v), byte(v+w))
			}
		}
	}
	return g, nil
}

// Petersen returns the Petersen graph: outer 5-cycle 0..4, inner
// pentagram 5..9, spokes v to v+5. Its cop number is 3, which makes it the
// standard witness that two cops are not always enough.
func Petersen() *Graph {
	g, _ := New(10)
	for v := 0; v < 5; v++ {
		g.AddEdge(byte(v), byte((v+1)%5))
		g.AddEdge(byte(v+5), byte((v+2)%5+5))
		g.AddEdge(byte(v), byte(v+5))
	}
	return g
}
