package catalog

import (
	"context"

	"github.com/jinzhu/copier"

	"github.com/iliyamo/cinemax-booking/internal/model"
	"github.com/iliyamo/cinemax-booking/internal/seatmap"
	"github.com/iliyamo/cinemax-booking/internal/storage"
)

// Room returns the room with the given id.
func (s *Store) Room(id string) (model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.rooms, id, roomID); i >= 0 {
		return s.rooms[i], nil
	}
	return model.Room{}, ErrRoomNotFound
}

// Rooms lists every room.
func (s *Store) Rooms() []model.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.rooms)
}

// RoomsByCinema lists the rooms owned by a cinema.
func (s *Store) RoomsByCinema(cinemaID string) []model.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Room
	for _, r := range s.rooms {
		if r.CinemaID == cinemaID {
			out = append(out, r)
		}
	}
	return out
}

// AddRoom creates a room in an existing cinema.
func (s *Store) AddRoom(ctx context.Context, in model.RoomInput) (model.Room, error) {
	r := model.Room{ID: s.newID()}
	if err := s.buildRoom(&r, in); err != nil {
		return model.Room{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if indexOf(s.cinemas, in.CinemaID, cinemaID) < 0 {
		return model.Room{}, ErrCinemaNotFound
	}
	next := append(cloneSlice(s.rooms), r)
	if err := persist(ctx, s.kv, storage.KeyRooms, next); err != nil {
		return model.Room{}, err
	}
	s.rooms = next
	return r, nil
}

// UpdateRoom replaces the geometry and metadata of a room.  Shrinking a
// room below a session's occupied seats is rejected.  Moving the room to
// another cinema moves its sessions along, in the same write.
func (s *Store) UpdateRoom(ctx context.Context, id string, in model.RoomInput) (model.Room, error) {
	var updated model.Room
	if err := s.buildRoom(&updated, in); err != nil {
		return model.Room{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.rooms, id, roomID)
	if i < 0 {
		return model.Room{}, ErrRoomNotFound
	}
	if indexOf(s.cinemas, in.CinemaID, cinemaID) < 0 {
		return model.Room{}, ErrCinemaNotFound
	}
	updated.ID = id
	for _, sess := range s.sessions {
		if sess.RoomID != id {
			continue
		}
		for _, seat := range sess.OccupiedSeats {
			if !seatmap.Contains(updated, seat) {
				return model.Room{}, invalid("room: seat %s is sold in session %s", seat, sess.ID)
			}
		}
	}
	next := cloneSlice(s.rooms)
	next[i] = updated
	if s.rooms[i].CinemaID == updated.CinemaID {
		if err := persist(ctx, s.kv, storage.KeyRooms, next); err != nil {
			return model.Room{}, err
		}
		s.rooms = next
		return updated, nil
	}

	sessions := cloneSlice(s.sessions)
	for j := range sessions {
		if sessions[j].RoomID == id {
			sessions[j].CinemaID = updated.CinemaID
		}
	}
	b := storage.NewBatch()
	if err := b.Put(storage.KeyRooms, next); err != nil {
		return model.Room{}, err
	}
	if err := b.Put(storage.KeySessions, sessions); err != nil {
		return model.Room{}, err
	}
	if err := b.Commit(ctx, s.kv); err != nil {
		return model.Room{}, err
	}
	s.rooms, s.sessions = next, sessions
	return updated, nil
}

// DeleteRoom removes a room.
func (s *Store) DeleteRoom(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.rooms, id, roomID)
	if i < 0 {
		return ErrRoomNotFound
	}
	next := without(s.rooms, i)
	if err := persist(ctx, s.kv, storage.KeyRooms, next); err != nil {
		return err
	}
	s.rooms = next
	return nil
}

// buildRoom validates in and copies it onto r, deriving TotalSeats.
func (s *Store) buildRoom(r *model.Room, in model.RoomInput) error {
	if err := s.validate.Struct(in); err != nil {
		return invalid("room: %v", err)
	}
	if err := copier.Copy(r, &in); err != nil {
		return err
	}
	r.TotalSeats = r.Rows * r.Columns
	seen := make(map[string]struct{}, len(in.AccessibleSeats))
	r.AccessibleSeats = make([]string, 0, len(in.AccessibleSeats))
	for _, id := range in.AccessibleSeats {
		if !seatmap.Contains(*r, id) {
			return invalid("room: accessible seat %q outside %dx%d grid", id, r.Rows, r.Columns)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		r.AccessibleSeats = append(r.AccessibleSeats, id)
	}
	return nil
}
