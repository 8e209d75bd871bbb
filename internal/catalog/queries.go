package catalog

import (
	"sort"

	"github.com/iliyamo/cinemax-booking/internal/model"
)

// SessionFilter narrows ListSessions.  Empty fields match everything.
type SessionFilter struct {
	City     string
	CinemaID string
	Date     string
}

// SessionDetails joins a session with its movie, cinema and room.
func (s *Store) SessionDetails(id string) (model.SessionDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.sessions, id, sessionID)
	if i < 0 {
		return model.SessionDetails{}, ErrSessionNotFound
	}
	return s.join(s.sessions[i])
}

// ListSessions returns the active sessions of a movie that match f,
// ordered by date then time.  Sessions whose references no longer
// resolve are skipped.
func (s *Store) ListSessions(movieID string, f SessionFilter) []model.SessionDetails {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.SessionDetails{}
	for _, sess := range s.sessions {
		if !sess.IsActive || sess.MovieID != movieID {
			continue
		}
		if f.CinemaID != "" && sess.CinemaID != f.CinemaID {
			continue
		}
		if f.Date != "" && sess.Date != f.Date {
			continue
		}
		d, err := s.join(sess)
		if err != nil {
			continue
		}
		if f.City != "" && d.Cinema.City != f.City {
			continue
		}
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out
}

// CitiesForMovie lists, sorted and unique, the cities with an active
// session of the movie.
func (s *Store) CitiesForMovie(movieID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := map[string]struct{}{}
	out := []string{}
	for _, sess := range s.sessions {
		if !sess.IsActive || sess.MovieID != movieID {
			continue
		}
		i := indexOf(s.cinemas, sess.CinemaID, cinemaID)
		if i < 0 {
			continue
		}
		city := s.cinemas[i].City
		if _, ok := seen[city]; ok {
			continue
		}
		seen[city] = struct{}{}
		out = append(out, city)
	}
	sort.Strings(out)
	return out
}

// CinemasForMovie lists the cinemas screening the movie, restricted to
// city when it is not empty.
func (s *Store) CinemasForMovie(movieID, city string) []model.Cinema {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := map[string]struct{}{}
	out := []model.Cinema{}
	for _, sess := range s.sessions {
		if !sess.IsActive || sess.MovieID != movieID {
			continue
		}
		if _, ok := seen[sess.CinemaID]; ok {
			continue
		}
		i := indexOf(s.cinemas, sess.CinemaID, cinemaID)
		if i < 0 || (city != "" && s.cinemas[i].City != city) {
			continue
		}
		seen[sess.CinemaID] = struct{}{}
		out = append(out, s.cinemas[i])
	}
	return out
}

// join resolves the references of sess.  Callers hold the lock.
func (s *Store) join(sess model.Session) (model.SessionDetails, error) {
	mi := indexOf(s.movies, sess.MovieID, movieID)
	if mi < 0 {
		return model.SessionDetails{}, ErrMovieNotFound
	}
	ci := indexOf(s.cinemas, sess.CinemaID, cinemaID)
	if ci < 0 {
		return model.SessionDetails{}, ErrCinemaNotFound
	}
	ri := indexOf(s.rooms, sess.RoomID, roomID)
	if ri < 0 {
		return model.SessionDetails{}, ErrRoomNotFound
	}
	room := s.rooms[ri]
	room.AccessibleSeats = cloneSlice(room.AccessibleSeats)
	return model.SessionDetails{
		Session: cloneSession(sess),
		Movie:   s.movies[mi],
		Cinema:  s.cinemas[ci],
		Room:    room,
	}, nil
}
