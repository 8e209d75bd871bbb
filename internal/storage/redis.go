package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists documents as plain Redis strings under
// prefix+key.  SetMulti runs inside MULTI/EXEC.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore wraps an existing client.  An empty prefix selects
// DefaultPrefix.
func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (r *RedisStore) key(k string) string { return r.prefix + k }

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.rdb.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrAbsent
		}
		return nil, err
	}
	return v, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return r.rdb.Set(ctx, r.key(key), value, 0).Err()
}

func (r *RedisStore) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, r.key(k))
	}
	return r.rdb.Del(ctx, full...).Err()
}

func (r *RedisStore) SetMulti(ctx context.Context, values map[string][]byte) error {
	if len(values) == 0 {
		return nil
	}
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, k := range sortedKeys(values) {
			pipe.Set(ctx, r.key(k), values[k], 0)
		}
		return nil
	})
	return err
}
