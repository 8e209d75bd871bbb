package catalog

import (
	"context"

	"github.com/jinzhu/copier"

	"github.com/iliyamo/cinemax-booking/internal/model"
	"github.com/iliyamo/cinemax-booking/internal/seatmap"
	"github.com/iliyamo/cinemax-booking/internal/storage"
)

// Session returns the session with the given id.
func (s *Store) Session(id string) (model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.sessions, id, sessionID); i >= 0 {
		return cloneSession(s.sessions[i]), nil
	}
	return model.Session{}, ErrSessionNotFound
}

// Sessions lists every session, active or not.
func (s *Store) Sessions() []model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, cloneSession(sess))
	}
	return out
}

// AddSession schedules an active session with no occupied seats.
func (s *Store) AddSession(ctx context.Context, in model.SessionInput) (model.Session, error) {
	sess := model.Session{ID: s.newID(), IsActive: true, OccupiedSeats: []string{}}
	if err := s.buildSession(&sess, in); err != nil {
		return model.Session{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkSessionRefs(sess); err != nil {
		return model.Session{}, err
	}
	next := append(cloneSlice(s.sessions), sess)
	if err := persist(ctx, s.kv, storage.KeySessions, next); err != nil {
		return model.Session{}, err
	}
	s.sessions = next
	return sess, nil
}

// UpdateSession replaces schedule and price.  Occupancy and IsActive are
// preserved.
func (s *Store) UpdateSession(ctx context.Context, id string, in model.SessionInput) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.sessions, id, sessionID)
	if i < 0 {
		return model.Session{}, ErrSessionNotFound
	}
	updated := cloneSession(s.sessions[i])
	if err := s.buildSession(&updated, in); err != nil {
		return model.Session{}, err
	}
	if err := s.checkSessionRefs(updated); err != nil {
		return model.Session{}, err
	}
	next := cloneSlice(s.sessions)
	next[i] = updated
	if err := persist(ctx, s.kv, storage.KeySessions, next); err != nil {
		return model.Session{}, err
	}
	s.sessions = next
	return updated, nil
}

// ToggleSession flips IsActive.
func (s *Store) ToggleSession(ctx context.Context, id string) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.sessions, id, sessionID)
	if i < 0 {
		return model.Session{}, ErrSessionNotFound
	}
	next := cloneSlice(s.sessions)
	next[i].IsActive = !next[i].IsActive
	if err := persist(ctx, s.kv, storage.KeySessions, next); err != nil {
		return model.Session{}, err
	}
	s.sessions = next
	return cloneSession(next[i]), nil
}

// DeleteSession removes a session.  Orders placed for it are kept.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.sessions, id, sessionID)
	if i < 0 {
		return ErrSessionNotFound
	}
	next := without(s.sessions, i)
	if err := persist(ctx, s.kv, storage.KeySessions, next); err != nil {
		return err
	}
	s.sessions = next
	return nil
}

// UpdateOccupiedSeats overwrites the occupancy of a session.  Every seat
// must belong to the session's room.
func (s *Store) UpdateOccupiedSeats(ctx context.Context, id string, seats []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.sessions, id, sessionID)
	if i < 0 {
		return ErrSessionNotFound
	}
	ri := indexOf(s.rooms, s.sessions[i].RoomID, roomID)
	if ri < 0 {
		return ErrRoomNotFound
	}
	occupied := make([]string, 0, len(seats))
	seen := make(map[string]struct{}, len(seats))
	for _, seat := range seats {
		if !seatmap.Contains(s.rooms[ri], seat) {
			return invalid("seat %q is not in room %s", seat, s.rooms[ri].ID)
		}
		if _, dup := seen[seat]; dup {
			continue
		}
		seen[seat] = struct{}{}
		occupied = append(occupied, seat)
	}
	next := cloneSlice(s.sessions)
	next[i].OccupiedSeats = occupied
	if err := persist(ctx, s.kv, storage.KeySessions, next); err != nil {
		return err
	}
	s.sessions = next
	return nil
}

func (s *Store) buildSession(sess *model.Session, in model.SessionInput) error {
	if err := s.validate.Struct(in); err != nil {
		return invalid("session: %v", err)
	}
	if !in.BasePrice.IsPositive() {
		return invalid("session: base price must be positive")
	}
	if err := copier.Copy(sess, &in); err != nil {
		return err
	}
	sess.BasePrice = in.BasePrice
	return nil
}

// checkSessionRefs enforces the foreign keys of a session.  Callers hold
// the lock.
func (s *Store) checkSessionRefs(sess model.Session) error {
	if indexOf(s.movies, sess.MovieID, movieID) < 0 {
		return ErrMovieNotFound
	}
	if indexOf(s.cinemas, sess.CinemaID, cinemaID) < 0 {
		return ErrCinemaNotFound
	}
	ri := indexOf(s.rooms, sess.RoomID, roomID)
	if ri < 0 {
		return ErrRoomNotFound
	}
	room := s.rooms[ri]
	if room.CinemaID != sess.CinemaID {
		return invalid("session: room %s does not belong to cinema %s", room.ID, sess.CinemaID)
	}
	for _, seat := range sess.OccupiedSeats {
		if !seatmap.Contains(room, seat) {
			return invalid("session: occupied seat %q is not in room %s", seat, room.ID)
		}
	}
	return nil
}

func cloneSession(sess model.Session) model.Session {
	sess.OccupiedSeats = cloneSlice(sess.OccupiedSeats)
	if sess.OccupiedSeats == nil {
		sess.OccupiedSeats = []string{}
	}
	return sess
}
