package store

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pursuitlab/copnumber/pkg/errors"
	"github.com/pursuitlab/copnumber/pkg/observability"
)

// redisTTL bounds how long cached verdicts live. Verdicts never go stale
// for an unchanged graph, but an expiry keeps abandoned keys from
// accumulating in a shared instance.
const redisTTL = 30 * 24 * time.Hour

const redisPrefix = "copnumber:verdict:"

// Redis caches verdicts in a shared Redis instance.
type Redis struct {
	client *goredis.Client
}

// NewRedis connects and pings the instance at addr.
func NewRedis(ctx context.Context, addr string) (*Redis, error) {
	if addr == "" {
		addr = "localhost:6379"
	}
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect redis %s", addr)
	}
	return &Redis{client: client}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (*Record, error) {
	data, err := r.client.Get(ctx, redisPrefix+key).Bytes()
	if err == goredis.Nil {
		observability.Store().OnMiss(ctx, "redis")
		return nil, errors.New(errors.ErrCodeNotFound, "no record for key %s", key)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "redis get %s", key)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode record %s", key)
	}
	observability.Store().OnHit(ctx, "redis")
	return &rec, nil
}

func (r *Redis) Set(ctx context.Context, rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "encode record %s", rec.Key)
	}
	if err := r.client.Set(ctx, redisPrefix+rec.Key, data, redisTTL).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "redis set %s", rec.Key)
	}
	observability.Store().OnSet(ctx, "redis")
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, redisPrefix+key).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "redis del %s", key)
	}
	return nil
}

func (r *Redis) Close(context.Context) error { return r.client.Close() }
