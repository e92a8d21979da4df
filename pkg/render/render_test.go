package render

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pursuitlab/copnumber/pkg/errors"
	"github.com/pursuitlab/copnumber/pkg/graph"
	"github.com/pursuitlab/copnumber/pkg/solver"
)

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"svg", "png", "dot"} {
		f, err := ParseFormat(s)
		require.NoError(t, err)
		assert.Equal(t, Format(s), f)
	}
	_, err := ParseFormat("jpeg")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidArguments))
}

func TestToDOTPlainGraph(t *testing.T) {
	g, err := graph.CycleGraph(3)
	require.NoError(t, err)

	dot := ToDOT(g, nil)
	assert.True(t, strings.HasPrefix(dot, "graph G {"))
	assert.Contains(t, dot, "layout=neato;")
	assert.Contains(t, dot, "0 -- 1;")
	assert.Contains(t, dot, "1 -- 2;")
	assert.Contains(t, dot, "0 -- 2;")
	assert.NotContains(t, dot, "->")
	assert.NotContains(t, dot, "xlabel")
}

func TestToDOTHighlightsPursuit(t *testing.T) {
	g, err := graph.PathGraph(3)
	require.NoError(t, err)

	path := []solver.Ply{
		{Cops: []byte{1}, Robber: 0, Phase: solver.PhaseCopTurn},
		{Cops: []byte{0}, Robber: 0, Phase: solver.PhaseCaptured},
	}
	dot := ToDOT(g, path)

	assert.Contains(t, dot, `1 [fillcolor=lightblue, xlabel="cop"];`)
	assert.Contains(t, dot, `0 [fillcolor=gold, shape=doublecircle, xlabel="capture"];`)
	// Vertex 2 stays unstyled.
	assert.Contains(t, dot, "\n  2;\n")
}

func TestToDOTRobberHighlightWithoutCapture(t *testing.T) {
	g, err := graph.CycleGraph(4)
	require.NoError(t, err)

	path := []solver.Ply{
		{Cops: []byte{0}, Robber: 2, Phase: solver.PhaseCopTurn},
	}
	dot := ToDOT(g, path)

	assert.Contains(t, dot, `2 [fillcolor=lightcoral, xlabel="robber"];`)
	assert.NotContains(t, dot, "doublecircle")
}

func TestRenderDOTShortCircuits(t *testing.T) {
	g, err := graph.CompleteGraph(3)
	require.NoError(t, err)

	out, err := Render(context.Background(), g, nil, FormatDOT)
	require.NoError(t, err)
	assert.Equal(t, ToDOT(g, nil), string(out))
}
