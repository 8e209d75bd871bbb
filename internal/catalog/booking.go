package catalog

import (
	"context"

	"github.com/iliyamo/cinemax-booking/internal/model"
	"github.com/iliyamo/cinemax-booking/internal/storage"
)

// StageFunc inspects the session about to be booked and adds its own
// documents to the batch.  Returning an error aborts the booking.
type StageFunc func(details model.SessionDetails, b *storage.Batch) error

// BookSeats marks seats occupied in a session as part of a larger write.
// The catalog lock is held from the moment stage sees the session until
// the batch is committed, so no other booking can observe or change the
// occupancy in between.  Memory is updated only after the commit
// succeeds.
func (s *Store) BookSeats(ctx context.Context, id string, seats []string, stage StageFunc) (model.SessionDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.sessions, id, sessionID)
	if i < 0 {
		return model.SessionDetails{}, ErrSessionNotFound
	}
	details, err := s.join(s.sessions[i])
	if err != nil {
		return model.SessionDetails{}, err
	}

	b := storage.NewBatch()
	if stage != nil {
		if err := stage(details, b); err != nil {
			return model.SessionDetails{}, err
		}
	}

	next := cloneSlice(s.sessions)
	booked := cloneSession(next[i])
	booked.OccupiedSeats = append(booked.OccupiedSeats, seats...)
	next[i] = booked
	if err := b.Put(storage.KeySessions, next); err != nil {
		return model.SessionDetails{}, err
	}
	if err := b.Commit(ctx, s.kv); err != nil {
		return model.SessionDetails{}, err
	}
	s.sessions = next
	details.Session = cloneSession(booked)
	return details, nil
}
