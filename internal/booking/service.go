// Package booking turns a cart into a confirmed order.  It is the only
// writer of the orders collection and the only code that adds seats to a
// session's occupancy.
package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/iliyamo/cinemax-booking/internal/cart"
	"github.com/iliyamo/cinemax-booking/internal/catalog"
	"github.com/iliyamo/cinemax-booking/internal/model"
	"github.com/iliyamo/cinemax-booking/internal/monitoring"
	"github.com/iliyamo/cinemax-booking/internal/queue"
	"github.com/iliyamo/cinemax-booking/internal/seatmap"
	"github.com/iliyamo/cinemax-booking/internal/storage"
	"github.com/iliyamo/cinemax-booking/internal/utils"
)

// DefaultFee is charged per ticket on top of the ticket price.
var DefaultFee = decimal.NewFromInt(2)

// DefaultPaymentDelay is how long the simulated payment takes.
const DefaultPaymentDelay = 3 * time.Second

// DefaultPublishTimeout bounds how long a committed checkout waits for
// the order event to be handed to the broker.
const DefaultPublishTimeout = 5 * time.Second

// EventPublisher receives an event for every confirmed order.
type EventPublisher interface {
	PublishOrderConfirmed(ctx context.Context, ev queue.OrderConfirmedEvent) error
}

// Service commits orders against a catalog.
type Service struct {
	catalog   *catalog.Store
	kv        storage.Store
	newID     utils.IDGenerator
	newQRCode func() string
	clock     clockwork.Clock
	fee       decimal.Decimal
	payments  PaymentProcessor
	events    EventPublisher
	publishTO time.Duration
	metrics   *monitoring.Metrics
	log       *zap.Logger
	validate  *validator.Validate

	// commitMu serialises commits so that the conflict check and the
	// write for one order cannot interleave with another's.
	commitMu sync.Mutex
	mu       sync.RWMutex
	orders   []model.Order
}

// Option customises a Service.
type Option func(*Service)

func WithIDGenerator(g utils.IDGenerator) Option     { return func(s *Service) { s.newID = g } }
func WithQRCodeGenerator(g func() string) Option     { return func(s *Service) { s.newQRCode = g } }
func WithClock(c clockwork.Clock) Option             { return func(s *Service) { s.clock = c } }
func WithFee(fee decimal.Decimal) Option             { return func(s *Service) { s.fee = fee } }
func WithPaymentProcessor(p PaymentProcessor) Option { return func(s *Service) { s.payments = p } }
func WithPublisher(p EventPublisher) Option          { return func(s *Service) { s.events = p } }
func WithPublishTimeout(d time.Duration) Option      { return func(s *Service) { s.publishTO = d } }
func WithMetrics(m *monitoring.Metrics) Option       { return func(s *Service) { s.metrics = m } }
func WithLogger(l *zap.Logger) Option                { return func(s *Service) { s.log = l } }

// New returns a Service with no orders loaded.  Call Load before use.
func New(cat *catalog.Store, kv storage.Store, opts ...Option) *Service {
	s := &Service{
		catalog:   cat,
		kv:        kv,
		newID:     utils.NewUUID,
		newQRCode: func() string { return "TICKET-" + utils.ShortCode(8) },
		clock:     clockwork.NewRealClock(),
		fee:       DefaultFee,
		publishTO: DefaultPublishTimeout,
		log:       zap.NewNop(),
		validate:  newValidator(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.payments == nil {
		s.payments = SimulatedProcessor{Clock: s.clock, Delay: DefaultPaymentDelay}
	}
	return s
}

// Load reads the persisted orders.
func (s *Service) Load(ctx context.Context) error {
	var orders []model.Order
	if _, err := storage.GetJSON(ctx, s.kv, storage.KeyOrders, &orders); err != nil {
		return fmt.Errorf("load orders: %w", err)
	}
	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = orders
	return nil
}

// Quote is the price breakdown of a set of items.
type Quote struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Fees     decimal.Decimal `json:"fees"`
	Total    decimal.Decimal `json:"total"`
}

// Quote prices items with the per-ticket fee.
func (s *Service) Quote(items []model.CartItem) Quote {
	sub := decimal.Zero
	for _, it := range items {
		sub = sub.Add(it.Price)
	}
	fees := s.fee.Mul(decimal.NewFromInt(int64(len(items))))
	return Quote{Subtotal: sub, Fees: fees, Total: sub.Add(fees)}
}

// CheckoutRequest is everything Checkout needs from the caller.
type CheckoutRequest struct {
	User    model.User
	Cart    *cart.Cart
	Payment PaymentInfo
	// HalfPriceConfirmed lists the seats whose half-price eligibility
	// the customer acknowledged.
	HalfPriceConfirmed []string
	// SaveCart writes the emptied cart back to the store on success.
	SaveCart bool
}

// Checkout validates the payment form, runs the payment and commits the
// cart.  The cart is cleared only when the order is committed.
func (s *Service) Checkout(ctx context.Context, req CheckoutRequest) (order model.Order, err error) {
	start := s.clock.Now()
	defer func() {
		s.metrics.ObserveCheckout(outcome(err), s.clock.Since(start))
	}()

	if req.Cart == nil {
		return model.Order{}, ErrEmptyCart
	}
	details, ok := req.Cart.Session()
	items := req.Cart.Items()
	if !ok || len(items) == 0 {
		return model.Order{}, ErrEmptyCart
	}

	payment := req.Payment.normalized()
	if err := s.validate.Struct(payment); err != nil {
		return model.Order{}, fmt.Errorf("%w: %v", ErrInvalidPayment, err)
	}
	if err := checkHalfPrice(items, req.HalfPriceConfirmed); err != nil {
		return model.Order{}, err
	}
	// fail fast before making the customer wait for payment
	if err := s.precheck(details.ID, items); err != nil {
		return model.Order{}, err
	}

	quote := s.Quote(items)
	if err := s.payments.Authorize(ctx, quote.Total, payment); err != nil {
		if ctx.Err() != nil {
			return model.Order{}, ctx.Err()
		}
		return model.Order{}, fmt.Errorf("%w: %v", ErrPaymentDeclined, err)
	}
	if err := ctx.Err(); err != nil {
		return model.Order{}, err
	}

	order, err = s.CommitOrder(ctx, req.User, details.ID, items, payment)
	if err != nil {
		return model.Order{}, err
	}

	req.Cart.Clear()
	if req.SaveCart {
		if err := req.Cart.Save(ctx, s.kv); err != nil {
			s.log.Warn("save cleared cart", zap.String("order_id", order.ID), zap.Error(err))
		}
	}
	s.publish(ctx, order)
	return order, nil
}

// CommitOrder books items for user in a session and records the order.
// Either the order is appended and the seats are marked occupied, or
// nothing changes.
func (s *Service) CommitOrder(ctx context.Context, user model.User, sessionID string, items []model.CartItem, payment PaymentInfo) (model.Order, error) {
	if len(items) == 0 {
		return model.Order{}, ErrEmptyCart
	}
	seats := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if !it.TicketType.Valid() {
			return model.Order{}, fmt.Errorf("%w: %q", ErrInvalidTicketType, it.TicketType)
		}
		if _, dup := seen[it.SeatID]; dup {
			return model.Order{}, fmt.Errorf("%w: %s", ErrDuplicateSeat, it.SeatID)
		}
		seen[it.SeatID] = struct{}{}
		seats = append(seats, it.SeatID)
	}

	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	var order model.Order
	_, err := s.catalog.BookSeats(ctx, sessionID, seats, func(d model.SessionDetails, b *storage.Batch) error {
		if err := checkBookable(d, seats); err != nil {
			return err
		}
		order = s.buildOrder(user, d, items, payment)
		s.mu.RLock()
		next := append(append(make([]model.Order, 0, len(s.orders)+1), s.orders...), order)
		s.mu.RUnlock()
		return b.Put(storage.KeyOrders, next)
	})
	if err != nil {
		if errors.Is(err, ErrSeatConflict) {
			s.metrics.SeatConflict()
		}
		return model.Order{}, err
	}

	s.mu.Lock()
	s.orders = append(s.orders, order)
	s.mu.Unlock()
	s.metrics.OrderConfirmed(order)
	s.log.Info("order confirmed",
		zap.String("order_id", order.ID),
		zap.String("session_id", sessionID),
		zap.Strings("seats", seats),
		zap.String("total", order.Total.StringFixed(2)),
	)
	return order, nil
}

// precheck runs the commit-time checks against current state without
// taking the commit lock.
func (s *Service) precheck(sessionID string, items []model.CartItem) error {
	d, err := s.catalog.SessionDetails(sessionID)
	if err != nil {
		return err
	}
	seats := make([]string, 0, len(items))
	for _, it := range items {
		seats = append(seats, it.SeatID)
	}
	return checkBookable(d, seats)
}

func checkBookable(d model.SessionDetails, seats []string) error {
	if !d.IsActive {
		return ErrSessionInactive
	}
	var taken []string
	for _, id := range seats {
		if !seatmap.Contains(d.Room, id) {
			return fmt.Errorf("%w: %s", ErrUnknownSeat, id)
		}
		if d.IsOccupied(id) {
			taken = append(taken, id)
		}
	}
	if len(taken) > 0 {
		return &SeatConflictError{SessionID: d.ID, Seats: taken}
	}
	return nil
}

func checkHalfPrice(items []model.CartItem, confirmed []string) error {
	ok := make(map[string]struct{}, len(confirmed))
	for _, id := range confirmed {
		ok[id] = struct{}{}
	}
	for _, it := range items {
		if it.TicketType != model.TicketHalf {
			continue
		}
		if _, yes := ok[it.SeatID]; !yes {
			return fmt.Errorf("%w: seat %s", ErrHalfPriceUnconfirmed, it.SeatID)
		}
	}
	return nil
}

// buildOrder prices every seat from the session as it is now, so a
// stale or forged item price never reaches the order.
func (s *Service) buildOrder(user model.User, d model.SessionDetails, items []model.CartItem, payment PaymentInfo) model.Order {
	seats := make([]model.OrderSeat, 0, len(items))
	priced := make([]model.CartItem, 0, len(items))
	for _, it := range items {
		it.Price = cart.Price(d.BasePrice, it.TicketType)
		priced = append(priced, it)
		seats = append(seats, model.OrderSeat{SeatID: it.SeatID, TicketType: it.TicketType, Price: it.Price})
	}
	q := s.Quote(priced)
	last4 := payment.LastFour()
	return model.Order{
		ID:            s.newID(),
		UserID:        user.ID,
		SessionID:     d.ID,
		MovieTitle:    d.Movie.Title,
		CinemaName:    d.Cinema.Name,
		RoomName:      d.Room.Name,
		Date:          d.Date,
		Time:          d.Time,
		Seats:         seats,
		Subtotal:      q.Subtotal,
		Fees:          q.Fees,
		Total:         q.Total,
		PaymentMethod: "Card ending " + last4,
		CardNumber:    "**** **** **** " + last4,
		CreatedAt:     s.clock.Now().UTC(),
		QRCode:        s.newQRCode(),
		Status:        model.OrderConfirmed,
	}
}

func (s *Service) publish(ctx context.Context, o model.Order) {
	if s.events == nil {
		return
	}
	// the order is already committed; a slow broker must not hold the caller
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTO)
	defer cancel()
	if err := s.events.PublishOrderConfirmed(ctx, queue.NewOrderConfirmedEvent(o)); err != nil {
		s.log.Warn("publish order event", zap.String("order_id", o.ID), zap.Error(err))
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return monitoring.OutcomeConfirmed
	case errors.Is(err, ErrSeatConflict):
		return monitoring.OutcomeConflict
	case errors.Is(err, ErrEmptyCart), errors.Is(err, ErrInvalidPayment),
		errors.Is(err, ErrHalfPriceUnconfirmed), errors.Is(err, ErrSessionInactive),
		errors.Is(err, ErrUnknownSeat), errors.Is(err, catalog.ErrNotFound):
		return monitoring.OutcomeRejected
	default:
		return monitoring.OutcomeFailed
	}
}
