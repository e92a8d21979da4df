package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pursuitlab/copnumber/pkg/config"
	"github.com/pursuitlab/copnumber/pkg/errors"
	"github.com/pursuitlab/copnumber/pkg/export"
	"github.com/pursuitlab/copnumber/pkg/graph"
	"github.com/pursuitlab/copnumber/pkg/solver"
	"github.com/pursuitlab/copnumber/pkg/store"
)

func newSolveCmd(cfg *config.Config) *cobra.Command {
	var (
		rounds    bool
		withPath  bool
		dpOut     string
		pathOut   string
		workers   int
		batchSize int
		lowMemory bool
		noStore   bool
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "solve <graph_file> <k>",
		Short: "Decide whether k cops capture the robber on the given graph",
		Long: `Solve reads an adjacency matrix, runs the backward-induction analysis
for k cops, and prints the final verdict. With --rounds the worst-case
capture time is minimized over openings; --path additionally extracts
the optimal pursuit. --dp-out and --path-out write the DP table and the
pursuit in the line-per-state text formats.`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := parseCopCount(args[1])
			if err != nil {
				return err
			}
			return runSolve(cmd.Context(), args[0], k, solveParams{
				cfg:       *cfg,
				rounds:    rounds,
				withPath:  withPath,
				dpOut:     dpOut,
				pathOut:   pathOut,
				workers:   workers,
				batchSize: batchSize,
				lowMemory: lowMemory || cfg.Solver.LowMemory,
				noStore:   noStore,
				force:     force,
			})
		},
	}

	cmd.Flags().BoolVar(&rounds, "rounds", false, "minimize worst-case capture time over openings")
	cmd.Flags().BoolVar(&withPath, "path", false, "extract the optimal pursuit (implies --rounds)")
	cmd.Flags().StringVar(&dpOut, "dp-out", "", "write the per-state DP table to this file")
	cmd.Flags().StringVar(&pathOut, "path-out", "", "write the extracted pursuit to this file")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = all CPUs)")
	cmd.Flags().IntVar(&batchSize, "batch", 0, "frontier batch size per worker pull")
	cmd.Flags().BoolVar(&lowMemory, "low-memory", false, "regenerate transitions instead of storing them")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "skip the verdict store entirely")
	cmd.Flags().BoolVar(&force, "force", false, "re-solve even when the store holds a verdict")

	return cmd
}

type solveParams struct {
	cfg       config.Config
	rounds    bool
	withPath  bool
	dpOut     string
	pathOut   string
	workers   int
	batchSize int
	lowMemory bool
	noStore   bool
	force     bool
}

func runSolve(ctx context.Context, graphFile string, k int, p solveParams) error {
	logger := loggerFromContext(ctx)

	g, err := graph.Load(graphFile)
	if err != nil {
		return err
	}
	logger.Debug("graph loaded", "file", graphFile, "n", g.N(), "edges", g.EdgeCount())

	var st store.Store
	if !p.noStore {
		st, err = store.New(ctx, p.cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close(ctx)
	}

	key := store.Key(g, k)
	wantExports := p.withPath || p.dpOut != "" || p.pathOut != ""
	if st != nil && !p.force && !wantExports {
		if rec, err := st.Get(ctx, key); err == nil {
			logger.Info("verdict served from store", "key", key)
			printCachedVerdict(rec, k)
			return nil
		}
	}

	opts := solver.Options{
		Workers:        firstNonZero(p.workers, p.cfg.Solver.Workers),
		BatchSize:      firstNonZero(p.batchSize, p.cfg.Solver.BatchSize),
		TrackRounds:    p.rounds || p.cfg.Solver.TrackRounds || p.dpOut != "",
		ExtractPath:    p.withPath || p.pathOut != "",
		LowMemory:      p.lowMemory,
		KeepTables:     p.dpOut != "",
		CSRBudgetBytes: p.cfg.Solver.CSRBudgetBytes,
		Logger:         logger,
	}

	prog := newProgress(logger)
	res, err := solver.Solve(ctx, g, k, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("analyzed %d states in %d waves",
		res.Stats.States, res.Stats.Waves))

	if st != nil {
		if err := st.Set(ctx, store.FromResult(key, res)); err != nil {
			logger.Warn("persist verdict", "key", key, "err", err)
		}
	}

	printStats(res)
	printVerdict(res)

	if p.dpOut != "" {
		if err := export.DPFile(p.dpOut, res.Placements, res.Scoreboard); err != nil {
			return err
		}
		printFile(p.dpOut)
	}
	if p.pathOut != "" {
		if !res.Win {
			logger.Warn("no pursuit to export on a loss")
		} else if err := export.PathFile(p.pathOut, res.Path); err != nil {
			return err
		} else {
			printFile(p.pathOut)
		}
	}
	return nil
}

// printVerdict emits the contractual verdict block on stdout. The block
// itself stays plain text; only the advisory lines above it are styled.
func printVerdict(res *solver.Result) {
	fmt.Println("\n--- FINAL VERDICT ---")
	if !res.Win {
		fmt.Printf("RESULT: LOSS. %d Cop(s) CANNOT guarantee a win.\n", res.K)
		return
	}
	fmt.Printf("RESULT: WIN. %d Cop(s) CAN win this graph.\n", res.K)
	fmt.Printf("Optimal Cop Start Positions: (%s)\n", tupleBody(res.StartConfig))
	if res.CaptureRounds >= 0 {
		fmt.Printf("Capture Time: %d rounds.\n", res.CaptureRounds)
	}
}

func printCachedVerdict(rec *store.Record, k int) {
	printInfo("cached verdict for n=%d, k=%d", rec.N, rec.K)
	fmt.Println("\n--- FINAL VERDICT ---")
	if !rec.Win {
		fmt.Printf("RESULT: LOSS. %d Cop(s) CANNOT guarantee a win.\n", k)
		return
	}
	fmt.Printf("RESULT: WIN. %d Cop(s) CAN win this graph.\n", k)
	fmt.Printf("Optimal Cop Start Positions: (%s)\n", tupleBody(rec.StartConfig))
	if rec.CaptureRounds >= 0 {
		fmt.Printf("Capture Time: %d rounds.\n", rec.CaptureRounds)
	}
}

func printStats(res *solver.Result) {
	printKeyValue("run", res.RunID)
	printKeyValue("states", strconv.FormatUint(res.Stats.States, 10))
	printKeyValue("placements", strconv.FormatUint(res.Stats.Placements, 10))
	printKeyValue("waves", strconv.Itoa(res.Stats.Waves))
	mode := "csr"
	if res.Stats.LowMemory {
		mode = "low-memory"
	}
	printKeyValue("mode", mode)
	printKeyValue("solve time", res.Stats.TotalTime.String())
}

// tupleBody renders a placement as "0, 1, 4", the original paren body.
func tupleBody(cops []byte) string {
	parts := make([]string, len(cops))
	for i, c := range cops {
		parts[i] = strconv.Itoa(int(c))
	}
	return strings.Join(parts, ", ")
}

func parseCopCount(s string) (int, error) {
	k, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidArguments,
			"cop count %q is not an integer", s)
	}
	return k, nil
}

func firstNonZero(vals ...int) int {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}
