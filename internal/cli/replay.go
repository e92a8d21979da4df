package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/pursuitlab/copnumber/pkg/errors"
	"github.com/pursuitlab/copnumber/pkg/export"
	"github.com/pursuitlab/copnumber/pkg/graph"
	"github.com/pursuitlab/copnumber/pkg/solver"
)

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <graph_file> <path_file>",
		Short: "Step through an extracted pursuit in the terminal",
		Long: `Replay loads a pursuit exported by 'solve --path-out' and steps through
it ply by ply. Arrow keys (or h/l) move between plies, q quits.`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graph.Load(args[0])
			if err != nil {
				return err
			}
			f, err := os.Open(args[1])
			if err != nil {
				return errors.Wrap(errors.ErrCodeGraphIO, err, "open path file %s", args[1])
			}
			plies, err := export.ParsePath(f)
			f.Close()
			if err != nil {
				return err
			}
			if len(plies) == 0 {
				return errors.New(errors.ErrCodeMalformedGraph, "path file %s is empty", args[1])
			}

			model := newReplayModel(g, plies)
			prog := tea.NewProgram(model, tea.WithContext(cmd.Context()))
			_, err = prog.Run()
			return err
		},
	}
	return cmd
}

var (
	replayCopStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	replayRobberStyle = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	replayCaughtStyle = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	replayVertexStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// replayModel is the bubbletea model stepping through pursuit plies.
type replayModel struct {
	graph *graph.Graph
	plies []solver.Ply
	idx   int
}

func newReplayModel(g *graph.Graph, plies []solver.Ply) replayModel {
	return replayModel{graph: g, plies: plies}
}

func (m replayModel) Init() tea.Cmd {
	return nil
}

func (m replayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			if m.idx > 0 {
				m.idx--
			}
		case "right", "l", " ":
			if m.idx < len(m.plies)-1 {
				m.idx++
			}
		case "home", "g":
			m.idx = 0
		case "end", "G":
			m.idx = len(m.plies) - 1
		}
	}
	return m, nil
}

func (m replayModel) View() string {
	ply := m.plies[m.idx]

	var b strings.Builder
	b.WriteString(styleTitle.Render("Pursuit Replay"))
	b.WriteString("\n")
	b.WriteString(styleDim.Render("←/→ step  g/G first/last  q quit"))
	b.WriteString("\n\n")

	b.WriteString(m.board(ply))
	b.WriteString("\n")

	phase := string(ply.Phase)
	switch ply.Phase {
	case solver.PhaseCaptured:
		b.WriteString(replayCaughtStyle.Render(phase))
	case solver.PhaseCopTurn:
		b.WriteString(replayCopStyle.Render(phase))
	default:
		b.WriteString(replayRobberStyle.Render(phase))
	}
	b.WriteString("\n")
	b.WriteString(styleDim.Render(fmt.Sprintf("cops %s  robber %d",
		copTuple(ply.Cops), ply.Robber)))
	b.WriteString("\n\n")
	b.WriteString(styleDim.Render(fmt.Sprintf("ply %d/%d", m.idx+1, len(m.plies))))
	b.WriteString("\n")
	return b.String()
}

// board renders one line per vertex with occupancy markers and the
// neighbor list, a text stand-in for a drawn graph.
func (m replayModel) board(ply solver.Ply) string {
	cops := make(map[byte]bool, len(ply.Cops))
	for _, c := range ply.Cops {
		cops[c] = true
	}

	var b strings.Builder
	for v := 0; v < m.graph.N(); v++ {
		vv := byte(v)
		marker := "  "
		switch {
		case cops[vv] && vv == ply.Robber:
			marker = replayCaughtStyle.Render("CR")
		case cops[vv]:
			marker = replayCopStyle.Render("C ")
		case vv == ply.Robber:
			marker = replayRobberStyle.Render("R ")
		}

		neighbors := m.graph.Neighbors(vv)
		parts := make([]string, len(neighbors))
		for i, u := range neighbors {
			parts[i] = fmt.Sprintf("%d", u)
		}
		b.WriteString(fmt.Sprintf("  %s %s %s\n",
			marker,
			replayVertexStyle.Render(fmt.Sprintf("%3d", v)),
			styleDim.Render("- "+strings.Join(parts, " ")),
		))
	}
	return b.String()
}
