package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pursuitlab/copnumber/pkg/config"
	"github.com/pursuitlab/copnumber/pkg/errors"
	"github.com/pursuitlab/copnumber/pkg/graph"
)

func sampleRecord() *Record {
	return &Record{
		Key:           "abc-k2",
		RunID:         "run-1",
		N:             4,
		K:             2,
		Win:           true,
		StartConfig:   []byte{0, 1},
		CaptureRounds: 1,
		Waves:         2,
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
	}
}

func testBackend(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "absent")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))

	rec := sampleRecord()
	require.NoError(t, s.Set(ctx, rec))

	got, err := s.Get(ctx, rec.Key)
	require.NoError(t, err)
	assert.Equal(t, rec.Win, got.Win)
	assert.Equal(t, rec.StartConfig, got.StartConfig)
	assert.Equal(t, rec.CaptureRounds, got.CaptureRounds)

	require.NoError(t, s.Delete(ctx, rec.Key))
	_, err = s.Get(ctx, rec.Key)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))

	// Deleting a missing key is fine.
	require.NoError(t, s.Delete(ctx, rec.Key))
	require.NoError(t, s.Close(ctx))
}

func TestMemoryBackend(t *testing.T) {
	testBackend(t, NewMemory())
}

func TestFileBackend(t *testing.T) {
	s, err := NewFile(t.TempDir())
	require.NoError(t, err)
	testBackend(t, s)
}

func TestFileBackendPersists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewFile(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, sampleRecord()))
	require.NoError(t, first.Close(ctx))

	second, err := NewFile(dir)
	require.NoError(t, err)
	got, err := second.Get(ctx, "abc-k2")
	require.NoError(t, err)
	assert.True(t, got.Win)
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.Set(ctx, sampleRecord()))

	got, err := s.Get(ctx, "abc-k2")
	require.NoError(t, err)
	got.Win = false

	again, err := s.Get(ctx, "abc-k2")
	require.NoError(t, err)
	assert.True(t, again.Win)
}

func TestKey(t *testing.T) {
	c4, err := graph.CycleGraph(4)
	require.NoError(t, err)
	c5, err := graph.CycleGraph(5)
	require.NoError(t, err)

	assert.Equal(t, Key(c4, 2), Key(c4, 2))
	assert.NotEqual(t, Key(c4, 1), Key(c4, 2))
	assert.NotEqual(t, Key(c4, 2), Key(c5, 2))
}

func TestNewSelectsBackend(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, config.StoreConfig{})
	require.NoError(t, err)
	_, ok := s.(*Memory)
	assert.True(t, ok)

	s, err = New(ctx, config.StoreConfig{Backend: "file", Path: t.TempDir()})
	require.NoError(t, err)
	_, ok = s.(*File)
	assert.True(t, ok)

	_, err = New(ctx, config.StoreConfig{Backend: "carrier-pigeon"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidArguments))
}
