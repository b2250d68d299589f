package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Redis is a Cache shared by every process pointing at the same server.
// Values are stored as JSON under "<prefix>:<key>".
type Redis[V any] struct {
	rdb    *goredis.Client
	prefix string
	logger *slog.Logger
}

// Dial connects to addr and checks the connection.
func Dial(ctx context.Context, addr string) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

// NewRedis returns a cache storing entries under prefix.
func NewRedis[V any](rdb *goredis.Client, prefix string, logger *slog.Logger) *Redis[V] {
	return &Redis[V]{rdb: rdb, prefix: prefix, logger: logger}
}

func (r *Redis[V]) key(k string) string {
	return r.prefix + ":" + k
}

func (r *Redis[V]) Get(ctx context.Context, key string) (V, bool) {
	var v V
	raw, err := r.rdb.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			r.logger.Warn("cache get failed", "key", key, "error", err)
		}
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		r.logger.Warn("cache entry undecodable", "key", key, "error", err)
		return v, false
	}
	return v, true
}

func (r *Redis[V]) Set(ctx context.Context, key string, value V) {
	raw, err := json.Marshal(value)
	if err != nil {
		r.logger.Warn("cache entry unencodable", "key", key, "error", err)
		return
	}
	if err := r.rdb.Set(ctx, r.key(key), raw, 0).Err(); err != nil {
		r.logger.Warn("cache set failed", "key", key, "error", err)
	}
}

// Clear removes every key under the cache's prefix.
func (r *Redis[V]) Clear(ctx context.Context) {
	iter := r.rdb.Scan(ctx, 0, r.prefix+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		r.logger.Warn("cache scan failed", "prefix", r.prefix, "error", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		r.logger.Warn("cache clear failed", "prefix", r.prefix, "error", err)
	}
}
