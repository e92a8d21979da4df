package store

import (
	"context"
	"sync"

	"github.com/pursuitlab/copnumber/pkg/errors"
	"github.com/pursuitlab/copnumber/pkg/observability"
)

// Memory is the in-process backend. Safe for concurrent use.
type Memory struct {
	mu   sync.RWMutex
	recs map[string]*Record
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{recs: make(map[string]*Record)}
}

func (m *Memory) Get(ctx context.Context, key string) (*Record, error) {
	m.mu.RLock()
	rec, ok := m.recs[key]
	m.mu.RUnlock()
	if !ok {
		observability.Store().OnMiss(ctx, "memory")
		return nil, errors.New(errors.ErrCodeNotFound, "no record for key %s", key)
	}
	observability.Store().OnHit(ctx, "memory")
	cp := *rec
	return &cp, nil
}

func (m *Memory) Set(ctx context.Context, rec *Record) error {
	cp := *rec
	m.mu.Lock()
	m.recs[rec.Key] = &cp
	m.mu.Unlock()
	observability.Store().OnSet(ctx, "memory")
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.recs, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close(context.Context) error { return nil }
