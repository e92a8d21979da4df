// Package solver decides cops-and-robbers pursuit games by retrograde
// analysis.
//
// Given an undirected graph and a cop count k, the solver enumerates the
// full product state space (cop placement × robber vertex), seeds the
// capture states, and propagates cop wins backwards in level-synchronous
// waves until no new state flips. A placement from which every robber
// start is won is a winning opening; if one exists the cops win the
// graph.
//
// # Pipeline
//
// Solve runs the stages in order: adjacency table, placement enumeration,
// transition table (skipped in low-memory mode), scoreboard init, the
// wavefront propagation, the verdict scan, and optionally minimax path
// extraction. Stage timings land in Result.Stats and each stage reports
// to the observability hooks.
package solver

import (
	"context"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/pursuitlab/copnumber/pkg/errors"
	"github.com/pursuitlab/copnumber/pkg/graph"
	"github.com/pursuitlab/copnumber/pkg/observability"
	"github.com/pursuitlab/copnumber/pkg/placement"
	"github.com/pursuitlab/copnumber/pkg/state"
	"github.com/pursuitlab/copnumber/pkg/transition"
)

// DefaultBatchSize is the number of frontier words a worker claims per
// dispenser pull.
const DefaultBatchSize = 1024

// DefaultCSRBudget caps the estimated transition-table size before the
// solver falls back to regenerating successor rows on the fly.
const DefaultCSRBudget = uint64(2) << 30

// Options configures a solve.
type Options struct {
	// Workers is the goroutine count for the parallel stages. Zero
	// selects runtime.NumCPU().
	Workers int

	// BatchSize is the frontier batch claimed per dispenser pull.
	BatchSize int

	// TrackRounds enables capture-distance bookkeeping. Implied by
	// ExtractPath.
	TrackRounds bool

	// ExtractPath additionally computes the minimax pursuit from the
	// winning opening.
	ExtractPath bool

	// LowMemory skips the transition table and regenerates successor
	// rows during propagation.
	LowMemory bool

	// KeepTables retains the scoreboard and placement table on the
	// Result for DP export and replay. They are large; leave this off
	// unless the caller reads them.
	KeepTables bool

	// CSRBudgetBytes switches to low-memory mode automatically when the
	// estimated transition-table size exceeds it. Zero selects
	// DefaultCSRBudget.
	CSRBudgetBytes uint64

	// Logger receives stage and wave progress at debug level. Nil
	// discards.
	Logger *log.Logger
}

// ValidateAndSetDefaults fills zero-valued fields and rejects nonsense.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Workers < 0 || o.BatchSize < 0 {
		return errors.New(errors.ErrCodeInvalidArguments,
			"workers and batch size must be non-negative")
	}
	if o.Workers == 0 {
		o.Workers = runtime.NumCPU()
		if o.Workers == 0 {
			o.Workers = 8
		}
	}
	if o.BatchSize == 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.CSRBudgetBytes == 0 {
		o.CSRBudgetBytes = DefaultCSRBudget
	}
	if o.ExtractPath {
		o.TrackRounds = true
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return nil
}

// Phase labels a ply of the extracted pursuit.
type Phase string

// Ply phases, in the order they occur.
const (
	PhaseCopTurn    Phase = "Cop's Turn"
	PhaseRobberTurn Phase = "Robber's Turn"
	PhaseCaptured   Phase = "Game Over - Captured!"
)

// Ply is one position of the extracted pursuit.
type Ply struct {
	Cops   []byte
	Robber byte
	Phase  Phase
}

// Stats aggregates solve metrics.
type Stats struct {
	Placements   uint64
	States       uint64
	Transitions  uint64 // CSR entries, zero in low-memory mode
	Waves        int
	Processed    uint64 // frontier words consumed
	PeakFrontier int
	LowMemory    bool

	AdjacencyTime  time.Duration
	EnumerateTime  time.Duration
	TransitionTime time.Duration
	InitTime       time.Duration
	SolveTime      time.Duration
	VerdictTime    time.Duration
	PathTime       time.Duration
	TotalTime      time.Duration
}

// Result is the outcome of a solve.
type Result struct {
	RunID string
	N     int
	K     int

	// Win reports whether k cops capture the robber from some opening.
	Win bool

	// StartConfig is the winning opening placement, sorted ascending.
	// With rounds tracked it is the opening minimizing the worst-case
	// capture distance; nil on a loss.
	StartConfig []byte

	// CaptureRounds is the worst-case full game rounds from StartConfig,
	// -1 when rounds were not tracked or on a loss.
	CaptureRounds int32

	// Path is the minimax pursuit, present only when requested and won.
	Path []Ply

	// Scoreboard and Placements are retained only when
	// Options.KeepTables is set.
	Scoreboard *state.Scoreboard
	Placements *placement.Table

	Stats Stats
}

// Solve analyzes g with k cops.
func Solve(ctx context.Context, g *graph.Graph, k int, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	hooks := observability.Solver()
	started := time.Now()

	res := &Result{
		RunID:         uuid.NewString(),
		N:             g.N(),
		K:             k,
		CaptureRounds: -1,
	}
	logger.Debug("solve starting", "run_id", res.RunID, "n", res.N, "k", k,
		"workers", opts.Workers)

	adj, err := timed(ctx, hooks, observability.StageAdjacency, &res.Stats.AdjacencyTime,
		func() (*graph.Adjacency, error) { return graph.NewAdjacency(g) })
	if err != nil {
		return nil, err
	}

	tbl, err := timed(ctx, hooks, observability.StagePlacements, &res.Stats.EnumerateTime,
		func() (*placement.Table, error) { return placement.Enumerate(g.N(), k) })
	if err != nil {
		return nil, err
	}
	res.Stats.Placements = tbl.Len()
	logger.Debug("placements enumerated", "count", tbl.Len())

	lowMem := opts.LowMemory
	if !lowMem {
		if est := estimateCSRBytes(tbl, adj); est > opts.CSRBudgetBytes {
			logger.Debug("transition table over budget, using low-memory mode",
				"estimated_bytes", est, "budget", opts.CSRBudgetBytes)
			lowMem = true
		}
	}
	res.Stats.LowMemory = lowMem

	var csr *transition.Table
	if !lowMem {
		csr, err = timed(ctx, hooks, observability.StageTransitions, &res.Stats.TransitionTime,
			func() (*transition.Table, error) {
				return transition.Build(tbl, adj, transition.Options{Workers: opts.Workers}), nil
			})
		if err != nil {
			return nil, err
		}
		res.Stats.Transitions = uint64(len(csr.Succs))
		logger.Debug("transition table built", "entries", len(csr.Succs))
	}

	type initOut struct {
		sb       *state.Scoreboard
		frontier []uint64
	}
	io2, err := timed(ctx, hooks, observability.StageInit, &res.Stats.InitTime,
		func() (initOut, error) {
			sb, frontier, err := state.Init(tbl, adj, opts.TrackRounds)
			return initOut{sb, frontier}, err
		})
	if err != nil {
		return nil, err
	}
	sb, frontier := io2.sb, io2.frontier
	res.Stats.States = sb.Len()
	logger.Debug("scoreboard initialized", "states", sb.Len(),
		"seed_frontier", len(frontier), "bytes", 4*sb.Len())

	eng := &engine{
		sb:       sb,
		tbl:      tbl,
		adj:      adj,
		csr:      csr,
		workers:  opts.Workers,
		batch:    uint64(opts.BatchSize),
		frontier: frontier,
		logger:   logger,
		hooks:    hooks,
	}
	if _, err = timed(ctx, hooks, observability.StageWavefront, &res.Stats.SolveTime,
		func() (struct{}, error) { return struct{}{}, eng.run(ctx, &res.Stats) }); err != nil {
		return nil, err
	}

	type verdictOut struct {
		win    bool
		cID    uint64
		rounds int32
	}
	v, err := timed(ctx, hooks, observability.StageVerdict, &res.Stats.VerdictTime,
		func() (verdictOut, error) {
			win, cID, rounds := verdict(sb, tbl)
			return verdictOut{win, cID, rounds}, nil
		})
	if err != nil {
		return nil, err
	}
	res.Win = v.win
	if v.win {
		res.StartConfig = append([]byte(nil), tbl.At(v.cID)...)
		if opts.TrackRounds {
			res.CaptureRounds = v.rounds
		}
		logger.Debug("verdict", "win", true, "opening", res.StartConfig,
			"rounds", res.CaptureRounds)
	} else {
		logger.Debug("verdict", "win", false)
	}

	if opts.ExtractPath && v.win {
		if _, err = timed(ctx, hooks, observability.StagePath, &res.Stats.PathTime,
			func() (struct{}, error) {
				res.Path = extractPath(sb, tbl, adj, csr, v.cID)
				return struct{}{}, nil
			}); err != nil {
			return nil, err
		}
		logger.Debug("path extracted", "plies", len(res.Path))
	}

	if opts.KeepTables {
		res.Scoreboard = sb
		res.Placements = tbl
	}

	res.Stats.TotalTime = time.Since(started)
	logger.Debug("solve finished", "run_id", res.RunID, "win", res.Win,
		"waves", res.Stats.Waves, "elapsed", res.Stats.TotalTime)
	return res, nil
}

// timed wraps a stage with cancellation check, timing, and hook calls.
func timed[T any](ctx context.Context, hooks observability.SolverHooks, stage string,
	slot *time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, errors.Wrap(errors.ErrCodeInternal, err, "canceled before %s", stage)
	}
	hooks.OnStageStart(ctx, stage)
	start := time.Now()
	out, err := fn()
	*slot = time.Since(start)
	hooks.OnStageComplete(ctx, stage, *slot, err)
	if err != nil {
		return zero, err
	}
	return out, nil
}

// estimateCSRBytes upper-bounds the transition-table footprint as if
// every combination of cop options produced a distinct successor.
func estimateCSRBytes(tbl *placement.Table, adj *graph.Adjacency) uint64 {
	stride := uint64(adj.Stride())
	per := uint64(1)
	for i := 0; i < tbl.K(); i++ {
		if per > (1<<40)/stride {
			return 1 << 62
		}
		per *= stride
	}
	if tbl.Len() > (1<<55)/per {
		return 1 << 62
	}
	return tbl.Len() * per * 8
}
