package catalog

import (
	"context"

	"github.com/jinzhu/copier"

	"github.com/iliyamo/cinemax-booking/internal/model"
	"github.com/iliyamo/cinemax-booking/internal/storage"
)

// Movie returns the movie with the given id.
func (s *Store) Movie(id string) (model.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.movies, id, movieID); i >= 0 {
		return s.movies[i], nil
	}
	return model.Movie{}, ErrMovieNotFound
}

// Movies lists movies in insertion order, optionally only active ones.
func (s *Store) Movies(activeOnly bool) []model.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Movie, 0, len(s.movies))
	for _, m := range s.movies {
		if !activeOnly || m.IsActive {
			out = append(out, m)
		}
	}
	return out
}

// AddMovie creates an active movie.
func (s *Store) AddMovie(ctx context.Context, in model.MovieInput) (model.Movie, error) {
	if err := s.validate.Struct(in); err != nil {
		return model.Movie{}, invalid("movie: %v", err)
	}
	m := model.Movie{ID: s.newID(), IsActive: true}
	if err := copier.Copy(&m, &in); err != nil {
		return model.Movie{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := append(cloneSlice(s.movies), m)
	if err := persist(ctx, s.kv, storage.KeyMovies, next); err != nil {
		return model.Movie{}, err
	}
	s.movies = next
	return m, nil
}

// UpdateMovie replaces the editable fields of a movie.
func (s *Store) UpdateMovie(ctx context.Context, id string, in model.MovieInput) (model.Movie, error) {
	if err := s.validate.Struct(in); err != nil {
		return model.Movie{}, invalid("movie: %v", err)
	}
	return s.mutateMovie(ctx, id, func(m *model.Movie) error {
		return copier.Copy(m, &in)
	})
}

// ToggleMovie flips IsActive.
func (s *Store) ToggleMovie(ctx context.Context, id string) (model.Movie, error) {
	return s.mutateMovie(ctx, id, func(m *model.Movie) error {
		m.IsActive = !m.IsActive
		return nil
	})
}

// DeleteMovie removes a movie.  Sessions referencing it stay stored but
// no longer join.
func (s *Store) DeleteMovie(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.movies, id, movieID)
	if i < 0 {
		return ErrMovieNotFound
	}
	next := without(s.movies, i)
	if err := persist(ctx, s.kv, storage.KeyMovies, next); err != nil {
		return err
	}
	s.movies = next
	return nil
}

func (s *Store) mutateMovie(ctx context.Context, id string, fn func(*model.Movie) error) (model.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.movies, id, movieID)
	if i < 0 {
		return model.Movie{}, ErrMovieNotFound
	}
	next := cloneSlice(s.movies)
	if err := fn(&next[i]); err != nil {
		return model.Movie{}, err
	}
	if err := persist(ctx, s.kv, storage.KeyMovies, next); err != nil {
		return model.Movie{}, err
	}
	s.movies = next
	return next[i], nil
}
