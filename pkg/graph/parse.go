package graph

import (
	"os"

	"github.com/pursuitlab/copnumber/pkg/errors"
)

// Parse reads an ASCII adjacency matrix. Each row is a run of '0' and '1'
// bytes terminated by '\n' ('\r' before the newline is ignored). The first
// non-empty row fixes N; every following row must have exactly N cells. A
// '-' byte anywhere ends the matrix and any trailing content is ignored,
// which lets graph files carry a footer.
func Parse(data []byte) (*Graph, error) {
	var (
		rows [][]byte
		row  []byte
		done bool
	)
scan:
	for _, b := range data {
		switch b {
		case '0', '1':
			row = append(row, b)
		case '\r':
			// tolerated before the newline
		case '\n':
			if len(row) > 0 {
				rows = append(rows, row)
				row = nil
			}
		case '-':
			done = true
			break scan
		default:
			return nil, errors.New(errors.ErrCodeMalformedGraph,
				"unexpected byte %q in adjacency matrix", b)
		}
	}
	if !done && len(row) > 0 {
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, errors.New(errors.ErrCodeMalformedGraph, "empty adjacency matrix")
	}
	n := len(rows[0])
	if n > MaxVertices {
		return nil, errors.New(errors.ErrCodeGraphTooLarge,
			"matrix is %d wide, limit is %d", n, MaxVertices)
	}
	if len(rows) != n {
		return nil, errors.New(errors.ErrCodeMalformedGraph,
			"matrix has %d rows, want %d", len(rows), n)
	}

	g := &Graph{n: n, adj: make([]byte, n*n)}
	for i, r := range rows {
		if len(r) != n {
			return nil, errors.New(errors.ErrCodeMalformedGraph,
				"row %d has %d cells, want %d", i, len(r), n)
		}
		for j, b := range r {
			if b == '1' {
				g.adj[i*n+j] = 1
			}
		}
	}
	return g, nil
}

// Load reads and parses a graph file.
func Load(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeGraphIO, err, "read graph file %s", path)
	}
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeGraphIO, "graph file %s is empty", path)
	}
	return Parse(data)
}
