package model

// SeatKind distinguishes accessible seats from regular ones.
type SeatKind string

const (
    SeatRegular    SeatKind = "regular"
    SeatAccessible SeatKind = "accessible"
)

// SeatStatus is the derived state of a seat for one session.
type SeatStatus string

const (
    SeatAvailable SeatStatus = "available"
    SeatSelected  SeatStatus = "selected"
    SeatOccupied  SeatStatus = "occupied"
)

// Seat is computed on demand from a room, a session's occupancy and the
// current cart.  It is never persisted.
type Seat struct {
    ID     string     `json:"id"`     // e.g. "A1", "J12"
    Row    string     `json:"row"`    // row letter
    Number int        `json:"number"` // 1-based column
    Kind   SeatKind   `json:"type"`
    Status SeatStatus `json:"status"`
}
