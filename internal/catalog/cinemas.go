package catalog

import (
	"context"

	"github.com/jinzhu/copier"

	"github.com/iliyamo/cinemax-booking/internal/model"
	"github.com/iliyamo/cinemax-booking/internal/storage"
)

// Cinema returns the cinema with the given id.
func (s *Store) Cinema(id string) (model.Cinema, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.cinemas, id, cinemaID); i >= 0 {
		return s.cinemas[i], nil
	}
	return model.Cinema{}, ErrCinemaNotFound
}

// Cinemas lists cinemas, optionally only active ones.
func (s *Store) Cinemas(activeOnly bool) []model.Cinema {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Cinema, 0, len(s.cinemas))
	for _, c := range s.cinemas {
		if !activeOnly || c.IsActive {
			out = append(out, c)
		}
	}
	return out
}

// AddCinema creates an active cinema.
func (s *Store) AddCinema(ctx context.Context, in model.CinemaInput) (model.Cinema, error) {
	if err := s.validate.Struct(in); err != nil {
		return model.Cinema{}, invalid("cinema: %v", err)
	}
	c := model.Cinema{ID: s.newID(), IsActive: true}
	if err := copier.Copy(&c, &in); err != nil {
		return model.Cinema{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := append(cloneSlice(s.cinemas), c)
	if err := persist(ctx, s.kv, storage.KeyCinemas, next); err != nil {
		return model.Cinema{}, err
	}
	s.cinemas = next
	return c, nil
}

// UpdateCinema replaces the editable fields of a cinema.
func (s *Store) UpdateCinema(ctx context.Context, id string, in model.CinemaInput) (model.Cinema, error) {
	if err := s.validate.Struct(in); err != nil {
		return model.Cinema{}, invalid("cinema: %v", err)
	}
	return s.mutateCinema(ctx, id, func(c *model.Cinema) error {
		return copier.Copy(c, &in)
	})
}

// ToggleCinema flips IsActive.
func (s *Store) ToggleCinema(ctx context.Context, id string) (model.Cinema, error) {
	return s.mutateCinema(ctx, id, func(c *model.Cinema) error {
		c.IsActive = !c.IsActive
		return nil
	})
}

// DeleteCinema removes a cinema.  Its rooms and sessions are kept.
func (s *Store) DeleteCinema(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.cinemas, id, cinemaID)
	if i < 0 {
		return ErrCinemaNotFound
	}
	next := without(s.cinemas, i)
	if err := persist(ctx, s.kv, storage.KeyCinemas, next); err != nil {
		return err
	}
	s.cinemas = next
	return nil
}

func (s *Store) mutateCinema(ctx context.Context, id string, fn func(*model.Cinema) error) (model.Cinema, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.cinemas, id, cinemaID)
	if i < 0 {
		return model.Cinema{}, ErrCinemaNotFound
	}
	next := cloneSlice(s.cinemas)
	if err := fn(&next[i]); err != nil {
		return model.Cinema{}, err
	}
	if err := persist(ctx, s.kv, storage.KeyCinemas, next); err != nil {
		return model.Cinema{}, err
	}
	s.cinemas = next
	return next[i], nil
}
