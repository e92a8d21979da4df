package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pursuitlab/copnumber/pkg/errors"
	"github.com/pursuitlab/copnumber/pkg/observability"
)

// File stores one JSON document per record under a directory. Writes go
// through a temp file plus rename so readers never see partial records.
type File struct {
	dir string
}

// NewFile opens (creating if needed) a file-backed store. An empty dir
// selects <user cache dir>/copnumber/results.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "resolve cache dir")
		}
		dir = filepath.Join(base, "copnumber", "results")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "create store dir %s", dir)
	}
	return &File{dir: dir}, nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *File) Get(ctx context.Context, key string) (*Record, error) {
	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		observability.Store().OnMiss(ctx, "file")
		return nil, errors.New(errors.ErrCodeNotFound, "no record for key %s", key)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read record %s", key)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode record %s", key)
	}
	observability.Store().OnHit(ctx, "file")
	return &rec, nil
}

func (f *File) Set(ctx context.Context, rec *Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "encode record %s", rec.Key)
	}
	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "create temp file")
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeStore, err, "write record %s", rec.Key)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeStore, err, "close temp file")
	}
	if err := os.Rename(tmp.Name(), f.path(rec.Key)); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeStore, err, "commit record %s", rec.Key)
	}
	observability.Store().OnSet(ctx, "file")
	return nil
}

func (f *File) Delete(_ context.Context, key string) error {
	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeStore, err, "delete record %s", key)
	}
	return nil
}

func (f *File) Close(context.Context) error { return nil }
