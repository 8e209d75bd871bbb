// Package storage defines the key-value persistence the booking core is
// written against, together with its memory, Redis and MySQL backends.
// Every collection is stored as one JSON document under a fixed key and
// rewritten wholesale on each mutation.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Collection keys.  Backends prepend their own namespace.
const (
	KeyUsers       = "users"
	KeyMovies      = "movies"
	KeyCinemas     = "cinemas"
	KeyRooms       = "rooms"
	KeySessions    = "sessions"
	KeyOrders      = "orders"
	KeySeedVersion = "seedVersion"
	KeyAuth        = "auth"
	KeyCart        = "cart"
)

// DefaultPrefix namespaces keys in shared backends.
const DefaultPrefix = "tickets."

// ErrAbsent is returned by Get when no value is stored under the key.
var ErrAbsent = errors.New("storage: key absent")

// Store is a durable key-value store.  SetMulti must apply all writes or
// none of them.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, keys ...string) error
	SetMulti(ctx context.Context, values map[string][]byte) error
}

// GetJSON decodes the document stored under key into dst.  It returns
// false without error when the key is absent.
func GetJSON(ctx context.Context, s Store, key string, dst any) (bool, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrAbsent) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Batch accumulates JSON documents for a single SetMulti call.
type Batch struct {
	values map[string][]byte
}

// NewBatch returns an empty batch.
func NewBatch() *Batch { return &Batch{values: make(map[string][]byte)} }

// Put encodes v under key.
func (b *Batch) Put(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	b.values[key] = raw
	return nil
}

// Len returns the number of staged keys.
func (b *Batch) Len() int { return len(b.values) }

// Commit writes every staged document atomically.
func (b *Batch) Commit(ctx context.Context, s Store) error {
	if len(b.values) == 0 {
		return nil
	}
	if err := s.SetMulti(ctx, b.values); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}
