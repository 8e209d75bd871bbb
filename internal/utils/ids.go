package utils

import (
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator returns a new collision-free identifier on each call.
type IDGenerator func() string

// NewUUID is the default IDGenerator.
func NewUUID() string { return uuid.NewString() }

// ShortCode returns the first n hex characters of a fresh UUID in upper
// case, e.g. for human-readable ticket codes.
func ShortCode(n int) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n > len(raw) {
		n = len(raw)
	}
	return strings.ToUpper(raw[:n])
}

// Sequence returns an IDGenerator yielding prefix1, prefix2, ... for
// deterministic tests and seed data.
func Sequence(prefix string) IDGenerator {
	var n atomic.Int64
	return func() string {
		return prefix + strconv.FormatInt(n.Add(1), 10)
	}
}
