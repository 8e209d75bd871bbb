// Package catalog holds movies, cinemas, rooms and sessions in memory and
// writes each collection through to the key-value store on every change.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/cinemax-booking/internal/model"
	"github.com/iliyamo/cinemax-booking/internal/storage"
	"github.com/iliyamo/cinemax-booking/internal/utils"
)

// Store is the catalog.  Mutations persist the new collection before
// swapping it into memory, so a failed write leaves both sides as they
// were.
type Store struct {
	mu       sync.RWMutex
	kv       storage.Store
	newID    utils.IDGenerator
	validate *validator.Validate

	movies   []model.Movie
	cinemas  []model.Cinema
	rooms    []model.Room
	sessions []model.Session
}

// New returns an empty catalog bound to kv.  Call Load to hydrate it.
func New(kv storage.Store, newID utils.IDGenerator) *Store {
	if newID == nil {
		newID = utils.NewUUID
	}
	return &Store{
		kv:       kv,
		newID:    newID,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Load replaces in-memory state with the persisted collections.  Missing
// keys load as empty collections.
func (s *Store) Load(ctx context.Context) error {
	var (
		movies   []model.Movie
		cinemas  []model.Cinema
		rooms    []model.Room
		sessions []model.Session
	)
	for key, dst := range map[string]any{
		storage.KeyMovies:   &movies,
		storage.KeyCinemas:  &cinemas,
		storage.KeyRooms:    &rooms,
		storage.KeySessions: &sessions,
	} {
		if _, err := storage.GetJSON(ctx, s.kv, key, dst); err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.movies, s.cinemas, s.rooms, s.sessions = movies, cinemas, rooms, sessions
	return nil
}

func persist[T any](ctx context.Context, kv storage.Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	return storage.SetJSON(ctx, kv, key, items)
}

// indexOf returns the position of the element with the given id, or -1.
func indexOf[T any](items []T, id string, idOf func(T) string) int {
	for i := range items {
		if idOf(items[i]) == id {
			return i
		}
	}
	return -1
}

func without[T any](items []T, i int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

func cloneSlice[T any](items []T) []T {
	return append([]T(nil), items...)
}

func movieID(m model.Movie) string     { return m.ID }
func cinemaID(c model.Cinema) string   { return c.ID }
func roomID(r model.Room) string       { return r.ID }
func sessionID(s model.Session) string { return s.ID }
