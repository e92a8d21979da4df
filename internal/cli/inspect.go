package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pursuitlab/copnumber/pkg/graph"
	"github.com/pursuitlab/copnumber/pkg/placement"
	"github.com/pursuitlab/copnumber/pkg/store"
)

func newInspectCmd() *cobra.Command {
	var k int

	cmd := &cobra.Command{
		Use:   "inspect <graph_file>",
		Short: "Print structural statistics for a graph file",
		Long: `Inspect parses a graph and reports its size, degree profile, and the
state-space dimensions a solve with -k cops would face, without running
the solver.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graph.Load(args[0])
			if err != nil {
				return err
			}

			n := g.N()
			maxEdges := n * (n - 1) / 2
			density := 0.0
			if maxEdges > 0 {
				density = float64(g.EdgeCount()) / float64(maxEdges)
			}

			fmt.Println(styleTitle.Render("Graph " + args[0]))
			printKeyValue("vertices", strconv.Itoa(n))
			printKeyValue("edges", strconv.Itoa(g.EdgeCount()))
			printKeyValue("max degree", strconv.Itoa(g.MaxDegree()))
			printKeyValue("density", fmt.Sprintf("%.3f", density))

			placements, err := placement.Count(n, k)
			if err != nil {
				return err
			}
			printKeyValue("cops", strconv.Itoa(k))
			printKeyValue("placements", strconv.FormatUint(placements, 10))
			printKeyValue("states", strconv.FormatUint(placements*uint64(n), 10))
			printKeyValue("store key", store.Key(g, k))
			return nil
		},
	}

	cmd.Flags().IntVarP(&k, "cops", "k", 1, "cop count for the state-space estimate")
	return cmd
}
