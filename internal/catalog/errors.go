package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by every lookup failure so callers can match
// the whole family with errors.Is.
var ErrNotFound = errors.New("not found")

var (
	ErrMovieNotFound   = fmt.Errorf("movie %w", ErrNotFound)
	ErrCinemaNotFound  = fmt.Errorf("cinema %w", ErrNotFound)
	ErrRoomNotFound    = fmt.Errorf("room %w", ErrNotFound)
	ErrSessionNotFound = fmt.Errorf("session %w", ErrNotFound)
)

// ErrInvalid marks rejected input.
var ErrInvalid = errors.New("invalid input")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
