package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

type recordingSolverHooks struct {
	mu     sync.Mutex
	starts []string
	waves  []int
}

func (r *recordingSolverHooks) OnStageStart(_ context.Context, stage string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.starts = append(r.starts, stage)
}

func (r *recordingSolverHooks) OnStageComplete(context.Context, string, time.Duration, error) {}

func (r *recordingSolverHooks) OnWave(_ context.Context, wave int, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.waves = append(r.waves, wave)
}

type countingStoreHooks struct {
	hits, misses, sets int
}

func (c *countingStoreHooks) OnHit(context.Context, string)  { c.hits++ }
func (c *countingStoreHooks) OnMiss(context.Context, string) { c.misses++ }
func (c *countingStoreHooks) OnSet(context.Context, string)  { c.sets++ }

func TestDefaultHooksAreNoop(t *testing.T) {
	Reset()
	if _, ok := Solver().(NoopSolverHooks); !ok {
		t.Errorf("default solver hooks are %T, want NoopSolverHooks", Solver())
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Errorf("default store hooks are %T, want NoopStoreHooks", Store())
	}
}

func TestSetSolverHooks(t *testing.T) {
	t.Cleanup(Reset)

	rec := &recordingSolverHooks{}
	SetSolverHooks(rec)

	ctx := context.Background()
	Solver().OnStageStart(ctx, StageWavefront)
	Solver().OnWave(ctx, 1, 42)

	if len(rec.starts) != 1 || rec.starts[0] != StageWavefront {
		t.Errorf("stage starts = %v", rec.starts)
	}
	if len(rec.waves) != 1 || rec.waves[0] != 1 {
		t.Errorf("waves = %v", rec.waves)
	}
}

func TestSetStoreHooks(t *testing.T) {
	t.Cleanup(Reset)

	c := &countingStoreHooks{}
	SetStoreHooks(c)

	ctx := context.Background()
	Store().OnHit(ctx, "memory")
	Store().OnMiss(ctx, "memory")
	Store().OnMiss(ctx, "memory")
	Store().OnSet(ctx, "memory")

	if c.hits != 1 || c.misses != 2 || c.sets != 1 {
		t.Errorf("counts = %d/%d/%d, want 1/2/1", c.hits, c.misses, c.sets)
	}
}

func TestSetNilKeepsCurrent(t *testing.T) {
	t.Cleanup(Reset)

	rec := &recordingSolverHooks{}
	SetSolverHooks(rec)
	SetSolverHooks(nil)

	if Solver() != rec {
		t.Error("nil registration should not replace the current hooks")
	}
}
