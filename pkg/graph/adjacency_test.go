package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pursuitlab/copnumber/pkg/errors"
)

func TestNewAdjacency(t *testing.T) {
	g, err := CycleGraph(4)
	require.NoError(t, err)

	adj, err := NewAdjacency(g)
	require.NoError(t, err)

	assert.Equal(t, 3, adj.Stride())
	assert.Equal(t, 4, adj.N())

	// Row 0 of C4: vertex itself first, then neighbors ascending.
	assert.Equal(t, []byte{0, 1, 3}, adj.Options(0))
	assert.Equal(t, []byte{2, 1, 3}, adj.Options(2))
}

func TestAdjacencyPadding(t *testing.T) {
	g, err := PathGraph(3)
	require.NoError(t, err)

	adj, err := NewAdjacency(g)
	require.NoError(t, err)
	require.Equal(t, 3, adj.Stride())

	// Endpoint 0 has one neighbor, so its row carries one sentinel.
	row := adj.Row(0)
	assert.Equal(t, []byte{0, 1, SentinelNone}, row)
	assert.Equal(t, []byte{0, 1}, adj.Options(0))
}

func TestAdjacencyTooDense(t *testing.T) {
	// K128 has degree 127, options per vertex 128 > 127.
	g, err := CompleteGraph(128)
	require.NoError(t, err)

	_, err = NewAdjacency(g)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeGraphTooDense))

	// K127 sits exactly on the limit.
	g, err = CompleteGraph(127)
	require.NoError(t, err)
	adj, err := NewAdjacency(g)
	require.NoError(t, err)
	assert.Equal(t, MaxOptions, adj.Stride())
}

func TestAdjacencyPetersen(t *testing.T) {
	adj, err := NewAdjacency(Petersen())
	require.NoError(t, err)
	assert.Equal(t, 4, adj.Stride())

	for v := byte(0); v < 10; v++ {
		opts := adj.Options(v)
		require.Len(t, opts, 4, "vertex %d", v)
		assert.Equal(t, v, opts[0], "row must start with the vertex itself")
		for i := 2; i < len(opts); i++ {
			assert.Less(t, opts[i-1], opts[i], "neighbors of %d not ascending", v)
		}
	}
}
