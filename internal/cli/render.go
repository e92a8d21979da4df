package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pursuitlab/copnumber/pkg/config"
	"github.com/pursuitlab/copnumber/pkg/errors"
	"github.com/pursuitlab/copnumber/pkg/export"
	"github.com/pursuitlab/copnumber/pkg/graph"
	"github.com/pursuitlab/copnumber/pkg/render"
	"github.com/pursuitlab/copnumber/pkg/solver"
)

func newRenderCmd(cfg *config.Config) *cobra.Command {
	var (
		formatStr string
		pathFile  string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "render <graph_file>",
		Short: "Render a graph (and optionally a pursuit) as an image",
		Long: `Render draws the graph with Graphviz. With --path the pursuit exported
by 'solve --path-out' is overlaid: cop openings in blue, the robber's
start in red, and the capture vertex double-circled. Formats: svg
(default), png, dot.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graph.Load(args[0])
			if err != nil {
				return err
			}

			if formatStr == "" {
				formatStr = cfg.Render.Format
			}
			format, err := render.ParseFormat(formatStr)
			if err != nil {
				return err
			}

			var plies []solver.Ply
			if pathFile != "" {
				f, err := os.Open(pathFile)
				if err != nil {
					return errors.Wrap(errors.ErrCodeGraphIO, err, "open path file %s", pathFile)
				}
				plies, err = export.ParsePath(f)
				f.Close()
				if err != nil {
					return err
				}
			}

			data, err := render.Render(cmd.Context(), g, plies, format)
			if err != nil {
				return err
			}

			if output == "" {
				output = args[0] + "." + string(format)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeGraphIO, err, "write %s", output)
			}

			printSuccess("rendered %d vertices as %s", g.N(), format)
			printFile(output)
			if pathFile != "" {
				printInfo("pursuit overlay from %s (%s)", pathFile,
					fmt.Sprintf("%d plies", len(plies)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatStr, "format", "f", "", "output format: svg, png, dot")
	cmd.Flags().StringVar(&pathFile, "path", "", "pursuit file to overlay (from solve --path-out)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <graph_file>.<format>)")
	return cmd
}
