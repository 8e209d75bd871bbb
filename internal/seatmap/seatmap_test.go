package seatmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinemax-booking/internal/model"
)

func TestGenerate_OccupiedAndSelectedStatuses(t *testing.T) {
	room := model.Room{ID: "r", Rows: 2, Columns: 3}
	seats := Generate(room, []string{"A1"}, []string{"B2"})

	require.Len(t, seats, 6)
	ids := make([]string, 0, len(seats))
	status := map[string]model.SeatStatus{}
	for _, s := range seats {
		ids = append(ids, s.ID)
		status[s.ID] = s.Status
	}
	assert.Equal(t, []string{"A1", "A2", "A3", "B1", "B2", "B3"}, ids)
	assert.Equal(t, model.SeatOccupied, status["A1"])
	assert.Equal(t, model.SeatSelected, status["B2"])
	for _, id := range []string{"A2", "A3", "B1", "B3"} {
		assert.Equal(t, model.SeatAvailable, status[id], id)
	}
}

func TestGenerate_LengthMatchesGeometry(t *testing.T) {
	for _, tc := range []struct{ rows, cols int }{{1, 1}, {10, 12}, {12, 14}, {26, 3}} {
		room := model.Room{Rows: tc.rows, Columns: tc.cols}
		assert.Len(t, Generate(room, nil, nil), tc.rows*tc.cols)
		assert.Len(t, SeatIDs(room), tc.rows*tc.cols)
	}
}

func TestGenerate_OccupiedBeatsSelected(t *testing.T) {
	room := model.Room{Rows: 1, Columns: 2}
	seats := Generate(room, []string{"A1"}, []string{"A1"})
	assert.Equal(t, model.SeatOccupied, seats[0].Status)
}

func TestGenerate_AccessibleKind(t *testing.T) {
	room := model.Room{Rows: 1, Columns: 3, AccessibleSeats: []string{"A1", "A2"}}
	seats := Generate(room, nil, nil)
	assert.Equal(t, model.SeatAccessible, seats[0].Kind)
	assert.Equal(t, model.SeatAccessible, seats[1].Kind)
	assert.Equal(t, model.SeatRegular, seats[2].Kind)
}

func TestGenerate_Deterministic(t *testing.T) {
	room := model.Room{Rows: 3, Columns: 4, AccessibleSeats: []string{"C4"}}
	occ := []string{"B2", "A1"}
	first := Generate(room, occ, []string{"C3"})
	second := Generate(room, occ, []string{"C3"})
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"B2", "A1"}, occ)
}

func TestGenerate_DegenerateRoom(t *testing.T) {
	assert.Empty(t, Generate(model.Room{Rows: 0, Columns: 5}, nil, nil))
	assert.Nil(t, SeatIDs(model.Room{Rows: 2, Columns: 0}))
}

func TestRowLabelBounds(t *testing.T) {
	assert.Equal(t, "A", RowLabel(0))
	assert.Equal(t, "Z", RowLabel(25))
	assert.Equal(t, "", RowLabel(26))
	assert.Equal(t, "", RowLabel(-1))
	assert.Equal(t, "J12", SeatID(9, 12))
}

func TestParseSeatID(t *testing.T) {
	r, c, ok := ParseSeatID("J12")
	require.True(t, ok)
	assert.Equal(t, 9, r)
	assert.Equal(t, 12, c)

	for _, bad := range []string{"", "A", "1A", "A0", "A01", "A-1", "A+1", "AA1"} {
		_, _, ok := ParseSeatID(bad)
		assert.False(t, ok, bad)
	}
}

func TestContains(t *testing.T) {
	room := model.Room{Rows: 2, Columns: 3}
	assert.True(t, Contains(room, "B3"))
	assert.False(t, Contains(room, "C1"))
	assert.False(t, Contains(room, "A4"))
	assert.False(t, Contains(room, "b1"))
}

func TestSummary(t *testing.T) {
	room := model.Room{Rows: 2, Columns: 2}
	got := Summary(Generate(room, []string{"A1"}, []string{"B2"}))
	assert.Equal(t, 2, got[model.SeatAvailable])
	assert.Equal(t, 1, got[model.SeatSelected])
	assert.Equal(t, 1, got[model.SeatOccupied])
}
