package model

// RoomType is the projection format of a room.
type RoomType string

const (
    Room2D   RoomType = "2D"
    Room3D   RoomType = "3D"
    RoomIMAX RoomType = "IMAX"
    RoomVIP  RoomType = "VIP"
)

// Room is a screening room inside a cinema.  Its seat grid is fully
// described by Rows and Columns; seats are never stored individually.
//
// Fields:
//  ID              – string identifier.
//  CinemaID        – owning cinema.
//  Name            – display name, unique only within a cinema.
//  Type            – 2D, 3D, IMAX or VIP.
//  Rows            – number of rows, lettered A.. (at most 26).
//  Columns         – seats per row, numbered from 1.
//  TotalSeats      – Rows × Columns.
//  AccessibleSeats – seat ids reserved for accessibility.
type Room struct {
    ID              string   `json:"id"`
    CinemaID        string   `json:"cinemaId"`
    Name            string   `json:"name"`
    Type            RoomType `json:"type"`
    Rows            int      `json:"rows"`
    Columns         int      `json:"columns"`
    TotalSeats      int      `json:"totalSeats"`
    AccessibleSeats []string `json:"accessibleSeats"`
}

// RoomInput carries the editable fields of a Room.  TotalSeats is
// derived from the geometry and is not accepted from callers.
type RoomInput struct {
    CinemaID        string   `json:"cinemaId" validate:"required"`
    Name            string   `json:"name" validate:"required"`
    Type            RoomType `json:"type" validate:"required,oneof=2D 3D IMAX VIP"`
    Rows            int      `json:"rows" validate:"gte=1,lte=26"`
    Columns         int      `json:"columns" validate:"gte=1"`
    AccessibleSeats []string `json:"accessibleSeats"`
}
