// Package seatmap derives the seat grid of a room for one session.  All
// functions are pure: they read their arguments and return fresh values.
package seatmap

import (
	"strconv"
	"strings"

	"github.com/iliyamo/cinemax-booking/internal/model"
)

// MaxRows is the largest room height with single-letter row labels.
// Rooms taller than this are rejected by catalog validation.
const MaxRows = 26

// RowLabel converts a zero-based row index to its letter, or "" when the
// index is outside A..Z.
func RowLabel(i int) string {
	if i < 0 || i >= MaxRows {
		return ""
	}
	return string(rune('A' + i))
}

// SeatID formats the id of the seat at a zero-based row and 1-based
// column.
func SeatID(row, column int) string {
	return RowLabel(row) + strconv.Itoa(column)
}

// ParseSeatID splits "B12" into row index 1 and column 12.
func ParseSeatID(id string) (row, column int, ok bool) {
	id = strings.ToUpper(strings.TrimSpace(id))
	if len(id) < 2 || id[0] < 'A' || id[0] > 'Z' {
		return 0, 0, false
	}
	n, err := strconv.Atoi(id[1:])
	if err != nil || n < 1 || id[1] == '0' || id[1] == '+' {
		return 0, 0, false
	}
	return int(id[0] - 'A'), n, true
}

// Contains reports whether id names a seat inside the room's grid.
func Contains(room model.Room, id string) bool {
	if id != strings.TrimSpace(id) || id != strings.ToUpper(id) {
		return false
	}
	r, c, ok := ParseSeatID(id)
	return ok && r < room.Rows && c <= room.Columns
}

// SeatIDs lists every seat id of the room, row-major.
func SeatIDs(room model.Room) []string {
	rows := clampRows(room.Rows)
	if rows == 0 || room.Columns <= 0 {
		return nil
	}
	out := make([]string, 0, rows*room.Columns)
	for r := 0; r < rows; r++ {
		for c := 1; c <= room.Columns; c++ {
			out = append(out, SeatID(r, c))
		}
	}
	return out
}

// Generate builds the seat map for a room given the session's occupied
// seats and the seats currently selected in the cart.  Occupied wins over
// selected.
func Generate(room model.Room, occupied, selected []string) []model.Seat {
	occ := toSet(occupied)
	sel := toSet(selected)
	acc := toSet(room.AccessibleSeats)

	rows := clampRows(room.Rows)
	if rows == 0 || room.Columns <= 0 {
		return []model.Seat{}
	}
	seats := make([]model.Seat, 0, rows*room.Columns)
	for r := 0; r < rows; r++ {
		label := RowLabel(r)
		for c := 1; c <= room.Columns; c++ {
			id := label + strconv.Itoa(c)
			seat := model.Seat{ID: id, Row: label, Number: c, Kind: model.SeatRegular, Status: model.SeatAvailable}
			if _, ok := acc[id]; ok {
				seat.Kind = model.SeatAccessible
			}
			if _, ok := occ[id]; ok {
				seat.Status = model.SeatOccupied
			} else if _, ok := sel[id]; ok {
				seat.Status = model.SeatSelected
			}
			seats = append(seats, seat)
		}
	}
	return seats
}

// Summary counts seats per status.
func Summary(seats []model.Seat) map[model.SeatStatus]int {
	out := map[model.SeatStatus]int{
		model.SeatAvailable: 0,
		model.SeatSelected:  0,
		model.SeatOccupied:  0,
	}
	for _, s := range seats {
		out[s.Status]++
	}
	return out
}

func clampRows(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxRows {
		return MaxRows
	}
	return n
}

func toSet(ids []string) map[string]struct{} {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}
