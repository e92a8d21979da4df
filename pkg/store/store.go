// Package store persists solve verdicts.
//
// A verdict is small (opening placement, win flag, capture distance), so
// re-solving the same graph can be skipped entirely when a store is
// configured. Records are keyed by a content hash of the adjacency matrix
// plus the cop count.
//
// Backends:
//   - memory: per-process map, the default
//   - file: one JSON file per record under a directory, for CLI use
//   - redis: shared cache for service deployments
//   - mongo: durable archive of solve results
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/pursuitlab/copnumber/pkg/config"
	"github.com/pursuitlab/copnumber/pkg/errors"
	"github.com/pursuitlab/copnumber/pkg/graph"
	"github.com/pursuitlab/copnumber/pkg/solver"
)

// Record is a persisted verdict.
type Record struct {
	Key           string    `json:"key" bson:"_id"`
	RunID         string    `json:"run_id" bson:"run_id"`
	N             int       `json:"n" bson:"n"`
	K             int       `json:"k" bson:"k"`
	Win           bool      `json:"win" bson:"win"`
	StartConfig   []byte    `json:"start_config,omitempty" bson:"start_config,omitempty"`
	CaptureRounds int32     `json:"capture_rounds" bson:"capture_rounds"`
	Waves         int       `json:"waves" bson:"waves"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}

// FromResult builds the record for a finished solve.
func FromResult(key string, res *solver.Result) *Record {
	return &Record{
		Key:           key,
		RunID:         res.RunID,
		N:             res.N,
		K:             res.K,
		Win:           res.Win,
		StartConfig:   res.StartConfig,
		CaptureRounds: res.CaptureRounds,
		Waves:         res.Stats.Waves,
		CreatedAt:     time.Now().UTC(),
	}
}

// Key derives the store key for a graph and cop count: a hex SHA-256 of
// the canonical matrix text, suffixed with k.
func Key(g *graph.Graph, k int) string {
	sum := sha256.Sum256([]byte(g.String()))
	return fmt.Sprintf("%s-k%d", hex.EncodeToString(sum[:]), k)
}

// Store is the interface all verdict backends implement.
type Store interface {
	// Get retrieves a record by key. A missing key fails with the
	// NotFound code.
	Get(ctx context.Context, key string) (*Record, error)

	// Set writes a record, replacing any previous value for its key.
	Set(ctx context.Context, rec *Record) error

	// Delete removes a record. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// New builds the backend selected by cfg.
func New(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemory(), nil
	case "file":
		return NewFile(cfg.Path)
	case "redis":
		return NewRedis(ctx, cfg.RedisAddr)
	case "mongo":
		return NewMongo(ctx, cfg.MongoURI)
	default:
		return nil, errors.New(errors.ErrCodeInvalidArguments,
			"unknown store backend %q", cfg.Backend)
	}
}
