package model

import "github.com/shopspring/decimal"

// Session is a single screening of a movie in a room at a given date
// and time.  OccupiedSeats is the set of seat ids already sold.
//
// Fields:
//  ID            – string identifier.
//  MovieID       – movie being screened.
//  CinemaID      – cinema of the room (denormalised for filtering).
//  RoomID        – room where the screening takes place.
//  Date          – YYYY-MM-DD.
//  Time          – HH:MM.
//  BasePrice     – full ticket price.
//  OccupiedSeats – sold seat ids.
//  IsActive      – hidden from listings and not bookable when false.
type Session struct {
    ID            string          `json:"id"`
    MovieID       string          `json:"movieId"`
    CinemaID      string          `json:"cinemaId"`
    RoomID        string          `json:"roomId"`
    Date          string          `json:"date"`
    Time          string          `json:"time"`
    BasePrice     decimal.Decimal `json:"basePrice"`
    OccupiedSeats []string        `json:"occupiedSeats"`
    IsActive      bool            `json:"isActive"`
}

// SessionInput carries the editable fields of a Session.  Occupancy is
// only ever changed by the booking core.
type SessionInput struct {
    MovieID   string          `json:"movieId" validate:"required"`
    CinemaID  string          `json:"cinemaId" validate:"required"`
    RoomID    string          `json:"roomId" validate:"required"`
    Date      string          `json:"date" validate:"required,datetime=2006-01-02"`
    Time      string          `json:"time" validate:"required,datetime=15:04"`
    BasePrice decimal.Decimal `json:"basePrice"`
}

// SessionDetails is a Session joined with the records it references.
type SessionDetails struct {
    Session
    Movie  Movie  `json:"movie"`
    Cinema Cinema `json:"cinema"`
    Room   Room   `json:"room"`
}

// IsOccupied reports whether seatID has already been sold.
func (s Session) IsOccupied(seatID string) bool {
    for _, id := range s.OccupiedSeats {
        if id == seatID {
            return true
        }
    }
    return false
}
