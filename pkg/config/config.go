// Package config loads the optional TOML configuration file.
//
// Non-zero numeric flags and the render format flag override file values;
// boolean flags can switch a file option on but not off. The file exists
// so that recurring
// solver tuning (worker count, batch size, memory budget) and store
// credentials do not have to be repeated on every invocation.
//
// # Format
//
//	[solver]
//	workers = 16
//	batch_size = 2048
//	track_rounds = true
//	low_memory = false
//	csr_budget_bytes = 2147483648
//
//	[store]
//	backend = "file"          # memory | file | redis | mongo
//	path = "/var/cache/copnumber/results"  # empty: <user cache dir>/copnumber/results; "~" is not expanded
//	redis_addr = "localhost:6379"
//	mongo_uri = "mongodb://localhost:27017"
//
//	[render]
//	format = "svg"            # svg | png | dot
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/pursuitlab/copnumber/pkg/errors"
)

// Config is the full configuration file.
type Config struct {
	Solver SolverConfig `toml:"solver"`
	Store  StoreConfig  `toml:"store"`
	Render RenderConfig `toml:"render"`
}

// SolverConfig tunes the solve pipeline.
type SolverConfig struct {
	Workers        int    `toml:"workers"`
	BatchSize      int    `toml:"batch_size"`
	TrackRounds    bool   `toml:"track_rounds"`
	LowMemory      bool   `toml:"low_memory"`
	CSRBudgetBytes uint64 `toml:"csr_budget_bytes"`
}

// StoreConfig selects and parameterizes the verdict store backend.
type StoreConfig struct {
	Backend   string `toml:"backend"`
	Path      string `toml:"path"`
	RedisAddr string `toml:"redis_addr"`
	MongoURI  string `toml:"mongo_uri"`
}

// RenderConfig sets rendering defaults.
type RenderConfig struct {
	Format string `toml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Store:  StoreConfig{Backend: "memory"},
		Render: RenderConfig{Format: "svg"},
	}
}

// Load reads and decodes a TOML configuration file. Unknown keys are
// rejected so that typos fail loudly instead of silently using defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeGraphIO, err, "read config %s", path)
	}
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidArguments, err, "parse config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidArguments,
			"unknown config key %q in %s", undecoded[0].String(), path)
	}
	return cfg, nil
}
