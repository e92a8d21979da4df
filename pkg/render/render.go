// Package render draws pursuit graphs with Graphviz.
//
// The graph is emitted as undirected DOT and laid out with neato, which
// suits the small dense graphs the solver handles. When a pursuit is
// supplied the opening is highlighted: cop vertices filled blue, the
// robber's start filled red, and the capture vertex double-circled.
package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/pursuitlab/copnumber/pkg/errors"
	"github.com/pursuitlab/copnumber/pkg/graph"
	"github.com/pursuitlab/copnumber/pkg/solver"
)

// Format selects the render output.
type Format string

// Supported formats.
const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatDOT Format = "dot"
)

// ParseFormat validates a format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatSVG, FormatPNG, FormatDOT:
		return Format(s), nil
	default:
		return "", errors.New(errors.ErrCodeInvalidArguments,
			"unknown render format %q (want svg, png, or dot)", s)
	}
}

// ToDOT converts a graph to undirected DOT. A non-empty pursuit
// highlights its opening ply and final capture vertex.
func ToDOT(g *graph.Graph, path []solver.Ply) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	cops := make(map[byte]bool)
	var robber byte
	hasPath := len(path) > 0
	var capture byte
	hasCapture := false
	if hasPath {
		for _, c := range path[0].Cops {
			cops[c] = true
		}
		robber = path[0].Robber
		last := path[len(path)-1]
		if last.Phase == solver.PhaseCaptured {
			capture = last.Robber
			hasCapture = true
		}
	}

	for v := 0; v < g.N(); v++ {
		attrs := ""
		switch {
		case hasPath && cops[byte(v)]:
			attrs = " [fillcolor=lightblue, xlabel=\"cop\"]"
		case hasPath && byte(v) == robber:
			attrs = " [fillcolor=lightcoral, xlabel=\"robber\"]"
		}
		if hasCapture && byte(v) == capture {
			attrs = " [fillcolor=gold, shape=doublecircle, xlabel=\"capture\"]"
		}
		fmt.Fprintf(&buf, "  %d%s;\n", v, attrs)
	}

	buf.WriteString("\n")
	for u := 0; u < g.N(); u++ {
		for v := u + 1; v < g.N(); v++ {
			if g.Edge(byte(u), byte(v)) {
				fmt.Fprintf(&buf, "  %d -- %d;\n", u, v)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// Render produces the graph image in the requested format. FormatDOT
// short-circuits to the DOT text itself.
func Render(ctx context.Context, g *graph.Graph, path []solver.Ply, format Format) ([]byte, error) {
	dot := ToDOT(g, path)
	if format == FormatDOT {
		return []byte(dot), nil
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse DOT")
	}
	defer parsed.Close()

	var out graphviz.Format
	switch format {
	case FormatSVG:
		out = graphviz.SVG
	case FormatPNG:
		out = graphviz.PNG
	default:
		return nil, errors.New(errors.ErrCodeInvalidArguments,
			"unknown render format %q", format)
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, parsed, out, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
	}
	return buf.Bytes(), nil
}
