package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinemax-booking/internal/model"
	"github.com/iliyamo/cinemax-booking/internal/storage"
	"github.com/iliyamo/cinemax-booking/internal/utils"
)

var errWriteFailed = errors.New("disk full")

// flakyStore fails every write once fail is set.
type flakyStore struct {
	*storage.MemoryStore
	fail bool
}

func (f *flakyStore) Set(ctx context.Context, key string, v []byte) error {
	if f.fail {
		return errWriteFailed
	}
	return f.MemoryStore.Set(ctx, key, v)
}

func (f *flakyStore) SetMulti(ctx context.Context, values map[string][]byte) error {
	if f.fail {
		return errWriteFailed
	}
	return f.MemoryStore.SetMulti(ctx, values)
}

type fixture struct {
	kv      *flakyStore
	store   *Store
	movie   model.Movie
	cinema  model.Cinema
	room    model.Room
	session model.Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{kv: &flakyStore{MemoryStore: storage.NewMemoryStore()}}
	f.store = New(f.kv, utils.Sequence("id-"))

	var err error
	f.movie, err = f.store.AddMovie(ctx, model.MovieInput{Title: "Dune", Genre: "Sci-Fi", Duration: 155, AgeRating: 12})
	require.NoError(t, err)
	f.cinema, err = f.store.AddCinema(ctx, model.CinemaInput{Name: "CineMax Paulista", City: "São Paulo", Address: "Av. Paulista, 1000"})
	require.NoError(t, err)
	f.room, err = f.store.AddRoom(ctx, model.RoomInput{CinemaID: f.cinema.ID, Name: "Sala 1", Type: model.Room2D, Rows: 2, Columns: 3, AccessibleSeats: []string{"A1"}})
	require.NoError(t, err)
	f.session, err = f.store.AddSession(ctx, model.SessionInput{
		MovieID: f.movie.ID, CinemaID: f.cinema.ID, RoomID: f.room.ID,
		Date: "2026-10-20", Time: "20:10", BasePrice: decimal.NewFromInt(30),
	})
	require.NoError(t, err)
	return f
}

func TestAddRoom_DerivesTotalSeats(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, 6, f.room.TotalSeats)
	assert.Equal(t, []string{"A1"}, f.room.AccessibleSeats)
}

func TestAddRoom_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.store.AddRoom(ctx, model.RoomInput{CinemaID: f.cinema.ID, Name: "Big", Type: model.RoomIMAX, Rows: 27, Columns: 10})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = f.store.AddRoom(ctx, model.RoomInput{CinemaID: f.cinema.ID, Name: "X", Type: "4DX", Rows: 2, Columns: 2})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = f.store.AddRoom(ctx, model.RoomInput{CinemaID: f.cinema.ID, Name: "X", Type: model.Room3D, Rows: 2, Columns: 2, AccessibleSeats: []string{"C1"}})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = f.store.AddRoom(ctx, model.RoomInput{CinemaID: "nope", Name: "X", Type: model.Room3D, Rows: 2, Columns: 2})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddSession_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := model.SessionInput{
		MovieID: f.movie.ID, CinemaID: f.cinema.ID, RoomID: f.room.ID,
		Date: "2026-10-21", Time: "14:20", BasePrice: decimal.NewFromInt(30),
	}

	in := base
	in.BasePrice = decimal.Zero
	_, err := f.store.AddSession(ctx, in)
	assert.ErrorIs(t, err, ErrInvalid)

	in = base
	in.Time = "25:00"
	_, err = f.store.AddSession(ctx, in)
	assert.ErrorIs(t, err, ErrInvalid)

	in = base
	in.MovieID = "ghost"
	_, err = f.store.AddSession(ctx, in)
	assert.ErrorIs(t, err, ErrMovieNotFound)

	other, err := f.store.AddCinema(ctx, model.CinemaInput{Name: "Other", City: "Fortaleza", Address: "Rua 1"})
	require.NoError(t, err)
	in = base
	in.CinemaID = other.ID
	_, err = f.store.AddSession(ctx, in)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLookups_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.store.Movie("x")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.store.Cinema("x")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.store.Room("x")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.store.Session("x")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.store.SessionDetails("x")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionDetails_JoinsAndIsIdempotent(t *testing.T) {
	f := newFixture(t)
	first, err := f.store.SessionDetails(f.session.ID)
	require.NoError(t, err)
	second, err := f.store.SessionDetails(f.session.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "Dune", first.Movie.Title)
	assert.Equal(t, f.cinema.ID, first.Cinema.ID)
	assert.Equal(t, f.room.ID, first.Room.ID)
}

func TestSessionDetails_MissingReference(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.DeleteMovie(context.Background(), f.movie.ID))

	_, err := f.store.SessionDetails(f.session.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// the session itself is not cascaded away
	_, err = f.store.Session(f.session.ID)
	assert.NoError(t, err)
}

func TestListSessions_FiltersAndSorts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	add := func(date, tm string) model.Session {
		s, err := f.store.AddSession(ctx, model.SessionInput{
			MovieID: f.movie.ID, CinemaID: f.cinema.ID, RoomID: f.room.ID,
			Date: date, Time: tm, BasePrice: decimal.NewFromInt(30),
		})
		require.NoError(t, err)
		return s
	}
	add("2026-10-20", "14:20")
	add("2026-10-19", "22:30")
	hidden := add("2026-10-19", "17:00")
	_, err := f.store.ToggleSession(ctx, hidden.ID)
	require.NoError(t, err)

	got := f.store.ListSessions(f.movie.ID, SessionFilter{})
	var when []string
	for _, d := range got {
		when = append(when, d.Date+" "+d.Time)
	}
	assert.Equal(t, []string{"2026-10-19 22:30", "2026-10-20 14:20", "2026-10-20 20:10"}, when)

	assert.Len(t, f.store.ListSessions(f.movie.ID, SessionFilter{Date: "2026-10-20"}), 2)
	assert.Len(t, f.store.ListSessions(f.movie.ID, SessionFilter{City: "São Paulo"}), 3)
	assert.Empty(t, f.store.ListSessions(f.movie.ID, SessionFilter{City: "Rio de Janeiro"}))
	assert.Empty(t, f.store.ListSessions(f.movie.ID, SessionFilter{CinemaID: "other"}))
}

func TestCitiesAndCinemasForMovie(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rio, err := f.store.AddCinema(ctx, model.CinemaInput{Name: "CineMax Botafogo", City: "Rio de Janeiro", Address: "Praia de Botafogo"})
	require.NoError(t, err)
	room, err := f.store.AddRoom(ctx, model.RoomInput{CinemaID: rio.ID, Name: "Sala 1", Type: model.RoomVIP, Rows: 3, Columns: 3})
	require.NoError(t, err)
	_, err = f.store.AddSession(ctx, model.SessionInput{
		MovieID: f.movie.ID, CinemaID: rio.ID, RoomID: room.ID,
		Date: "2026-10-20", Time: "17:00", BasePrice: decimal.NewFromInt(55),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Rio de Janeiro", "São Paulo"}, f.store.CitiesForMovie(f.movie.ID))
	cinemas := f.store.CinemasForMovie(f.movie.ID, "Rio de Janeiro")
	require.Len(t, cinemas, 1)
	assert.Equal(t, rio.ID, cinemas[0].ID)
	assert.Len(t, f.store.CinemasForMovie(f.movie.ID, ""), 2)
}

func TestUpdateMovie_KeepsIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.store.ToggleMovie(ctx, f.movie.ID)
	require.NoError(t, err)

	updated, err := f.store.UpdateMovie(ctx, f.movie.ID, model.MovieInput{Title: "Dune: Part Two", Genre: "Sci-Fi", Duration: 166})
	require.NoError(t, err)
	assert.Equal(t, f.movie.ID, updated.ID)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Dune: Part Two", updated.Title)
	assert.Empty(t, f.store.Movies(true))
	assert.Len(t, f.store.Movies(false), 1)
}

func TestUpdateSession_PreservesOccupancy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.UpdateOccupiedSeats(ctx, f.session.ID, []string{"A2", "B3"}))

	updated, err := f.store.UpdateSession(ctx, f.session.ID, model.SessionInput{
		MovieID: f.movie.ID, CinemaID: f.cinema.ID, RoomID: f.room.ID,
		Date: "2026-10-22", Time: "22:30", BasePrice: decimal.NewFromInt(35),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A2", "B3"}, updated.OccupiedSeats)
	assert.True(t, updated.IsActive)
	assert.True(t, updated.BasePrice.Equal(decimal.NewFromInt(35)))
}

func TestUpdateOccupiedSeats_RejectsForeignSeat(t *testing.T) {
	f := newFixture(t)
	err := f.store.UpdateOccupiedSeats(context.Background(), f.session.ID, []string{"Z9"})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestUpdateRoom_CannotDropSoldSeats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.UpdateOccupiedSeats(ctx, f.session.ID, []string{"B3"}))

	_, err := f.store.UpdateRoom(ctx, f.room.ID, model.RoomInput{CinemaID: f.cinema.ID, Name: "Sala 1", Type: model.Room2D, Rows: 1, Columns: 3})
	assert.ErrorIs(t, err, ErrInvalid)

	grown, err := f.store.UpdateRoom(ctx, f.room.ID, model.RoomInput{CinemaID: f.cinema.ID, Name: "Sala 1", Type: model.Room2D, Rows: 3, Columns: 4})
	require.NoError(t, err)
	assert.Equal(t, 12, grown.TotalSeats)
}

func TestUpdateRoom_MoveCarriesSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other, err := f.store.AddCinema(ctx, model.CinemaInput{Name: "CineMax Centro", City: "Rio de Janeiro", Address: "Rua 1"})
	require.NoError(t, err)

	moved, err := f.store.UpdateRoom(ctx, f.room.ID, model.RoomInput{CinemaID: other.ID, Name: "Sala 1", Type: model.Room2D, Rows: 2, Columns: 3})
	require.NoError(t, err)
	assert.Equal(t, other.ID, moved.CinemaID)

	d, err := f.store.SessionDetails(f.session.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, d.CinemaID)
	assert.Equal(t, other.ID, d.Cinema.ID)
	assert.Len(t, f.store.ListSessions(f.movie.ID, SessionFilter{CinemaID: other.ID}), 1)
	assert.Empty(t, f.store.ListSessions(f.movie.ID, SessionFilter{CinemaID: f.cinema.ID}))

	reloaded := New(f.kv, nil)
	require.NoError(t, reloaded.Load(ctx))
	sess, err := reloaded.Session(f.session.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, sess.CinemaID)
}

func TestUpdateRoom_MoveWriteFailureKeepsState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other, err := f.store.AddCinema(ctx, model.CinemaInput{Name: "CineMax Centro", City: "Rio de Janeiro", Address: "Rua 1"})
	require.NoError(t, err)

	f.kv.fail = true
	_, err = f.store.UpdateRoom(ctx, f.room.ID, model.RoomInput{CinemaID: other.ID, Name: "Sala 1", Type: model.Room2D, Rows: 2, Columns: 3})
	assert.ErrorIs(t, err, errWriteFailed)

	r, err := f.store.Room(f.room.ID)
	require.NoError(t, err)
	assert.Equal(t, f.cinema.ID, r.CinemaID)
	sess, err := f.store.Session(f.session.ID)
	require.NoError(t, err)
	assert.Equal(t, f.cinema.ID, sess.CinemaID)
}

func TestLoad_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.UpdateOccupiedSeats(ctx, f.session.ID, []string{"A1"}))

	reloaded := New(f.kv, nil)
	require.NoError(t, reloaded.Load(ctx))

	d, err := reloaded.SessionDetails(f.session.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"A1"}, d.OccupiedSeats)
	assert.True(t, d.BasePrice.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, f.store.Movies(false), reloaded.Movies(false))
	assert.Equal(t, f.store.Rooms(), reloaded.Rooms())
}

func TestLoad_EmptyStore(t *testing.T) {
	s := New(storage.NewMemoryStore(), nil)
	require.NoError(t, s.Load(context.Background()))
	assert.Empty(t, s.Movies(false))
	assert.Empty(t, s.Sessions())
}

func TestWriteFailure_LeavesMemoryUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.kv.fail = true

	_, err := f.store.AddMovie(ctx, model.MovieInput{Title: "Alien", Genre: "Horror", Duration: 117})
	assert.ErrorIs(t, err, errWriteFailed)
	assert.Len(t, f.store.Movies(false), 1)

	err = f.store.UpdateOccupiedSeats(ctx, f.session.ID, []string{"A1"})
	assert.ErrorIs(t, err, errWriteFailed)
	s, _ := f.store.Session(f.session.ID)
	assert.Empty(t, s.OccupiedSeats)

	assert.ErrorIs(t, f.store.DeleteCinema(ctx, f.cinema.ID), errWriteFailed)
	_, err = f.store.Cinema(f.cinema.ID)
	assert.NoError(t, err)
}

func TestBookSeats_StagesAndCommitsTogether(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, err := f.store.BookSeats(ctx, f.session.ID, []string{"A2"}, func(d model.SessionDetails, b *storage.Batch) error {
		assert.Empty(t, d.OccupiedSeats)
		return b.Put(storage.KeyOrders, []string{"order-1"})
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A2"}, d.OccupiedSeats)

	var orders []string
	ok, err := storage.GetJSON(ctx, f.kv, storage.KeyOrders, &orders)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"order-1"}, orders)

	s, _ := f.store.Session(f.session.ID)
	assert.Equal(t, []string{"A2"}, s.OccupiedSeats)
}

func TestBookSeats_StageErrorAborts(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("conflict")
	_, err := f.store.BookSeats(context.Background(), f.session.ID, []string{"A2"}, func(model.SessionDetails, *storage.Batch) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	s, _ := f.store.Session(f.session.ID)
	assert.Empty(t, s.OccupiedSeats)
}

func TestBookSeats_CommitFailure(t *testing.T) {
	f := newFixture(t)
	f.kv.fail = true
	_, err := f.store.BookSeats(context.Background(), f.session.ID, []string{"A2"}, nil)
	assert.ErrorIs(t, err, errWriteFailed)
	s, _ := f.store.Session(f.session.ID)
	assert.Empty(t, s.OccupiedSeats)
}
