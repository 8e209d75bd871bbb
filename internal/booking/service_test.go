package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinemax-booking/internal/cart"
	"github.com/iliyamo/cinemax-booking/internal/catalog"
	"github.com/iliyamo/cinemax-booking/internal/model"
	"github.com/iliyamo/cinemax-booking/internal/queue"
	"github.com/iliyamo/cinemax-booking/internal/storage"
	"github.com/iliyamo/cinemax-booking/internal/utils"
)

var errQuota = errors.New("quota exceeded")

type flakyStore struct {
	*storage.MemoryStore
	fail bool
}

func (f *flakyStore) SetMulti(ctx context.Context, values map[string][]byte) error {
	if f.fail {
		return errQuota
	}
	return f.MemoryStore.SetMulti(ctx, values)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.OrderConfirmedEvent
}

func (p *recordingPublisher) PublishOrderConfirmed(_ context.Context, ev queue.OrderConfirmedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

type env struct {
	kv      *flakyStore
	catalog *catalog.Store
	svc     *Service
	clock   *clockwork.FakeClock
	events  *recordingPublisher
	session model.Session
	buyer   model.User
}

var validPayment = PaymentInfo{
	CardNumber: "4111 1111 1111 1234",
	Expiry:     "12/29",
	CVV:        "123",
	HolderName: "Ana Silva",
}

func newEnv(t *testing.T, opts ...Option) *env {
	t.Helper()
	ctx := context.Background()
	e := &env{
		kv:     &flakyStore{MemoryStore: storage.NewMemoryStore()},
		clock:  clockwork.NewFakeClockAt(time.Date(2026, 10, 15, 18, 0, 0, 0, time.UTC)),
		events: &recordingPublisher{},
		buyer:  model.User{ID: "1", Name: "Cliente Demo", Email: "user@demo.com", Role: model.RoleUser},
	}
	e.catalog = catalog.New(e.kv, utils.Sequence("c"))

	movie, err := e.catalog.AddMovie(ctx, model.MovieInput{Title: "O Agente Sombrio", Genre: "Ação", Duration: 125, AgeRating: 14})
	require.NoError(t, err)
	cinema, err := e.catalog.AddCinema(ctx, model.CinemaInput{Name: "CineMax Copacabana", City: "Rio de Janeiro", Address: "Av. N. S. de Copacabana, 581"})
	require.NoError(t, err)
	room, err := e.catalog.AddRoom(ctx, model.RoomInput{CinemaID: cinema.ID, Name: "Sala 1", Type: model.Room2D, Rows: 5, Columns: 6})
	require.NoError(t, err)
	e.session, err = e.catalog.AddSession(ctx, model.SessionInput{
		MovieID: movie.ID, CinemaID: cinema.ID, RoomID: room.ID,
		Date: "2026-10-16", Time: "20:10", BasePrice: decimal.NewFromInt(30),
	})
	require.NoError(t, err)

	base := []Option{
		WithIDGenerator(utils.Sequence("order-")),
		WithClock(e.clock),
		WithPublisher(e.events),
		WithPaymentProcessor(SimulatedProcessor{Clock: e.clock}),
	}
	e.svc = New(e.catalog, e.kv, append(base, opts...)...)
	require.NoError(t, e.svc.Load(ctx))
	return e
}

func (e *env) cart(t *testing.T, seats ...string) *cart.Cart {
	t.Helper()
	d, err := e.catalog.SessionDetails(e.session.ID)
	require.NoError(t, err)
	c := cart.New()
	c.SetSession(d)
	for _, s := range seats {
		require.NoError(t, c.SelectSeat(s))
	}
	return c
}

func fullItems(sessionID string, seats ...string) []model.CartItem {
	out := make([]model.CartItem, 0, len(seats))
	for _, s := range seats {
		out = append(out, model.CartItem{SessionID: sessionID, SeatID: s, TicketType: model.TicketFull, Price: decimal.NewFromInt(30)})
	}
	return out
}

func persistedOrders(t *testing.T, kv storage.Store) []model.Order {
	t.Helper()
	var orders []model.Order
	_, err := storage.GetJSON(context.Background(), kv, storage.KeyOrders, &orders)
	require.NoError(t, err)
	return orders
}

func TestCommitOrder_TwoFullSeatsPricedAndMarkedOccupied(t *testing.T) {
	e := newEnv(t)
	o, err := e.svc.CommitOrder(context.Background(), e.buyer, e.session.ID, fullItems(e.session.ID, "A1", "A2"), validPayment)
	require.NoError(t, err)

	assert.Equal(t, "64.00", o.Total.StringFixed(2))
	assert.Equal(t, "60", o.Subtotal.String())
	assert.Equal(t, "4", o.Fees.String())
	assert.Equal(t, model.OrderConfirmed, o.Status)
	assert.Equal(t, "order-1", o.ID)
	assert.Equal(t, "Card ending 1234", o.PaymentMethod)
	assert.Equal(t, "**** **** **** 1234", o.CardNumber)
	assert.Regexp(t, `^TICKET-[0-9A-F]{8}$`, o.QRCode)
	assert.Equal(t, "O Agente Sombrio", o.MovieTitle)
	assert.True(t, e.clock.Now().Equal(o.CreatedAt))

	s, err := e.catalog.Session(e.session.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A2"}, s.OccupiedSeats)
	assert.Len(t, persistedOrders(t, e.kv), 1)
}

func TestCommitOrder_SecondBookingOfSameSeatConflicts(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.svc.CommitOrder(ctx, e.buyer, e.session.ID, fullItems(e.session.ID, "C5"), validPayment)
	require.NoError(t, err)

	_, err = e.svc.CommitOrder(ctx, model.User{ID: "2"}, e.session.ID, fullItems(e.session.ID, "C5", "C6"), validPayment)
	require.ErrorIs(t, err, ErrSeatConflict)
	var conflict *SeatConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{"C5"}, conflict.Seats)

	assert.Len(t, e.svc.Orders(), 1)
	assert.Len(t, persistedOrders(t, e.kv), 1)
	s, _ := e.catalog.Session(e.session.ID)
	assert.Equal(t, []string{"C5"}, s.OccupiedSeats)
}

func TestCommitOrder_ConcurrentSameSeat(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.svc.CommitOrder(ctx, e.buyer, e.session.ID, fullItems(e.session.ID, "C5"), validPayment)
		}(i)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrSeatConflict):
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 7, conflicts)
	assert.Len(t, e.svc.Orders(), 1)
}

func TestCommitOrder_PersistenceFailure(t *testing.T) {
	e := newEnv(t)
	e.kv.fail = true

	_, err := e.svc.CommitOrder(context.Background(), e.buyer, e.session.ID, fullItems(e.session.ID, "B2"), validPayment)
	require.ErrorIs(t, err, errQuota)

	assert.Empty(t, e.svc.Orders())
	assert.Empty(t, persistedOrders(t, e.kv))
	s, _ := e.catalog.Session(e.session.ID)
	assert.Empty(t, s.OccupiedSeats)
}

func TestCommitOrder_Rejections(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.CommitOrder(ctx, e.buyer, e.session.ID, nil, validPayment)
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = e.svc.CommitOrder(ctx, e.buyer, e.session.ID, fullItems(e.session.ID, "A1", "A1"), validPayment)
	assert.ErrorIs(t, err, ErrDuplicateSeat)

	_, err = e.svc.CommitOrder(ctx, e.buyer, e.session.ID, fullItems(e.session.ID, "Z1"), validPayment)
	assert.ErrorIs(t, err, ErrUnknownSeat)

	_, err = e.svc.CommitOrder(ctx, e.buyer, "missing", fullItems("missing", "A1"), validPayment)
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	_, err = e.catalog.ToggleSession(ctx, e.session.ID)
	require.NoError(t, err)
	_, err = e.svc.CommitOrder(ctx, e.buyer, e.session.ID, fullItems(e.session.ID, "A1"), validPayment)
	assert.ErrorIs(t, err, ErrSessionInactive)

	assert.Empty(t, e.svc.Orders())
}

func TestCommitOrder_RepricesFromSession(t *testing.T) {
	e := newEnv(t)
	items := []model.CartItem{
		{SeatID: "A1", TicketType: model.TicketFull, Price: decimal.NewFromInt(1)},
		{SeatID: "A2", TicketType: model.TicketHalf, Price: decimal.NewFromInt(1)},
	}
	o, err := e.svc.CommitOrder(context.Background(), e.buyer, e.session.ID, items, validPayment)
	require.NoError(t, err)
	assert.Equal(t, "45", o.Subtotal.String())
	assert.Equal(t, "49", o.Total.String())
}

func TestCheckout_ClearsCartAndPublishes(t *testing.T) {
	e := newEnv(t)
	c := e.cart(t, "D3", "D4")
	require.NoError(t, c.SetTicketType("D4", model.TicketHalf))

	o, err := e.svc.Checkout(context.Background(), CheckoutRequest{
		User:               e.buyer,
		Cart:               c,
		Payment:            validPayment,
		HalfPriceConfirmed: []string{"D4"},
		SaveCart:           true,
	})
	require.NoError(t, err)
	assert.Equal(t, "49.00", o.Total.StringFixed(2))
	assert.Zero(t, c.ItemCount())

	require.Len(t, e.events.events, 1)
	assert.Equal(t, o.ID, e.events.events[0].OrderID)
	assert.Equal(t, []string{"D3", "D4"}, e.events.events[0].Seats)

	raw, err := e.kv.Get(context.Background(), storage.KeyCart)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(raw))
}

// stalledPublisher blocks like an unreachable broker until ctx ends.
type stalledPublisher struct{ deadline bool }

func (p *stalledPublisher) PublishOrderConfirmed(ctx context.Context, _ queue.OrderConfirmedEvent) error {
	_, p.deadline = ctx.Deadline()
	<-ctx.Done()
	return ctx.Err()
}

func TestCheckout_StalledBrokerDoesNotHoldCaller(t *testing.T) {
	stalled := &stalledPublisher{}
	e := newEnv(t, WithPublisher(stalled), WithPublishTimeout(20*time.Millisecond))

	c := e.cart(t, "E1")
	done := make(chan error, 1)
	go func() {
		_, err := e.svc.Checkout(context.Background(), CheckoutRequest{User: e.buyer, Cart: c, Payment: validPayment})
		done <- err
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("checkout blocked on the event publisher")
	}
	assert.True(t, stalled.deadline)
	assert.Len(t, e.svc.Orders(), 1)
}

func TestCheckout_HalfPriceNeedsConfirmation(t *testing.T) {
	e := newEnv(t)
	c := e.cart(t, "A1")
	require.NoError(t, c.SetTicketType("A1", model.TicketHalf))

	_, err := e.svc.Checkout(context.Background(), CheckoutRequest{User: e.buyer, Cart: c, Payment: validPayment})
	assert.ErrorIs(t, err, ErrHalfPriceUnconfirmed)
	assert.Equal(t, 1, c.ItemCount())
	assert.Empty(t, e.svc.Orders())
}

func TestCheckout_InvalidPayment(t *testing.T) {
	e := newEnv(t)
	for _, p := range []PaymentInfo{
		{CardNumber: "4111", Expiry: "12/29", CVV: "123", HolderName: "Ana"},
		{CardNumber: "4111111111111234", Expiry: "13/29", CVV: "123", HolderName: "Ana"},
		{CardNumber: "4111111111111234", Expiry: "12/29", CVV: "12", HolderName: "Ana"},
		{CardNumber: "4111111111111234", Expiry: "12/29", CVV: "123", HolderName: ""},
		{CardNumber: "4111111111111234", Expiry: "12/29", CVV: "123", HolderName: "Ana", Installments: 4},
	} {
		_, err := e.svc.Checkout(context.Background(), CheckoutRequest{User: e.buyer, Cart: e.cart(t, "A1"), Payment: p})
		assert.ErrorIs(t, err, ErrInvalidPayment, "%+v", p)
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	e := newEnv(t)
	_, err := e.svc.Checkout(context.Background(), CheckoutRequest{User: e.buyer, Cart: e.cart(t), Payment: validPayment})
	assert.ErrorIs(t, err, ErrEmptyCart)
	_, err = e.svc.Checkout(context.Background(), CheckoutRequest{User: e.buyer, Payment: validPayment})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckout_WaitsForPaymentDelay(t *testing.T) {
	e := newEnv(t)
	e.svc.payments = SimulatedProcessor{Clock: e.clock, Delay: DefaultPaymentDelay}
	c := e.cart(t, "E6")

	type result struct {
		order model.Order
		err   error
	}
	done := make(chan result, 1)
	go func() {
		o, err := e.svc.Checkout(context.Background(), CheckoutRequest{User: e.buyer, Cart: c, Payment: validPayment})
		done <- result{o, err}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, e.clock.BlockUntilContext(ctx, 1))
	assert.Empty(t, e.svc.Orders())

	e.clock.Advance(DefaultPaymentDelay)
	select {
	case r := <-done:
		require.NoError(t, r.err)
		assert.Equal(t, []string{"E6"}, r.order.SeatIDs())
	case <-ctx.Done():
		t.Fatal("checkout did not finish after the payment delay")
	}
}

func TestCheckout_CancelledDuringPayment(t *testing.T) {
	e := newEnv(t)
	e.svc.payments = SimulatedProcessor{Clock: e.clock, Delay: DefaultPaymentDelay}
	c := e.cart(t, "E6")

	reqCtx, abort := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := e.svc.Checkout(reqCtx, CheckoutRequest{User: e.buyer, Cart: c, Payment: validPayment})
		done <- err
	}()

	waitCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, e.clock.BlockUntilContext(waitCtx, 1))
	abort()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-waitCtx.Done():
		t.Fatal("checkout ignored cancellation")
	}
	assert.Empty(t, e.svc.Orders())
	assert.Equal(t, 1, c.ItemCount())
	s, _ := e.catalog.Session(e.session.ID)
	assert.Empty(t, s.OccupiedSeats)
}

type decliningProcessor struct{}

func (decliningProcessor) Authorize(context.Context, decimal.Decimal, PaymentInfo) error {
	return errors.New("insufficient funds")
}

func TestCheckout_PaymentDeclined(t *testing.T) {
	e := newEnv(t, WithPaymentProcessor(decliningProcessor{}))
	_, err := e.svc.Checkout(context.Background(), CheckoutRequest{User: e.buyer, Cart: e.cart(t, "A1"), Payment: validPayment})
	assert.ErrorIs(t, err, ErrPaymentDeclined)
	assert.Empty(t, e.svc.Orders())
}

func TestLoad_RestoresOrders(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	o, err := e.svc.CommitOrder(ctx, e.buyer, e.session.ID, fullItems(e.session.ID, "A1"), validPayment)
	require.NoError(t, err)

	cat := catalog.New(e.kv, nil)
	require.NoError(t, cat.Load(ctx))
	again := New(cat, e.kv)
	require.NoError(t, again.Load(ctx))

	got, err := again.Order(o.ID)
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(o.Total))
	assert.Equal(t, o.QRCode, got.QRCode)
	s, _ := cat.Session(e.session.ID)
	assert.Equal(t, []string{"A1"}, s.OccupiedSeats)
}
