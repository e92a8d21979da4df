// Package observability provides hooks for instrumenting the solver.
//
// The solver and the verdict store emit events through hook interfaces
// with no-op defaults, so the core packages carry no dependency on any
// metrics or tracing backend. A main package that wants instrumentation
// registers implementations at startup:
//
//	func main() {
//	    observability.SetSolverHooks(&mySolverHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call the registered hooks:
//
//	observability.Solver().OnStageStart(ctx, "transitions")
//	// ... build transition table ...
//	observability.Solver().OnStageComplete(ctx, "transitions", elapsed, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// Stage names reported by the solver pipeline.
const (
	StageAdjacency   = "adjacency"
	StagePlacements  = "placements"
	StageTransitions = "transitions"
	StageInit        = "init"
	StageWavefront   = "wavefront"
	StageVerdict     = "verdict"
	StagePath        = "path"
)

// SolverHooks receives events from the solver pipeline.
type SolverHooks interface {
	// OnStageStart fires when a pipeline stage begins.
	OnStageStart(ctx context.Context, stage string)

	// OnStageComplete fires when a pipeline stage ends.
	OnStageComplete(ctx context.Context, stage string, duration time.Duration, err error)

	// OnWave fires after each completed wavefront iteration with the
	// size of the next frontier.
	OnWave(ctx context.Context, wave int, frontierSize int)
}

// StoreHooks receives events from verdict store operations.
type StoreHooks interface {
	// OnHit records a store hit.
	OnHit(ctx context.Context, backend string)

	// OnMiss records a store miss.
	OnMiss(ctx context.Context, backend string)

	// OnSet records a store write.
	OnSet(ctx context.Context, backend string)
}

// NoopSolverHooks is a no-op implementation of SolverHooks.
type NoopSolverHooks struct{}

func (NoopSolverHooks) OnStageStart(context.Context, string)                          {}
func (NoopSolverHooks) OnStageComplete(context.Context, string, time.Duration, error) {}
func (NoopSolverHooks) OnWave(context.Context, int, int)                              {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnHit(context.Context, string)  {}
func (NoopStoreHooks) OnMiss(context.Context, string) {}
func (NoopStoreHooks) OnSet(context.Context, string)  {}

var (
	solverHooks SolverHooks = NoopSolverHooks{}
	storeHooks  StoreHooks  = NoopStoreHooks{}
	hooksMu     sync.RWMutex
)

// SetSolverHooks registers custom solver hooks. Call once at startup
// before any solve.
func SetSolverHooks(h SolverHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		solverHooks = h
	}
}

// SetStoreHooks registers custom store hooks. Call once at startup before
// any store operation.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Solver returns the registered solver hooks.
func Solver() SolverHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return solverHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores the no-op defaults. Primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	solverHooks = NoopSolverHooks{}
	storeHooks = NoopStoreHooks{}
}
