// Package cart holds the in-progress seat selection for one session.
package cart

import (
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/cinemax-booking/internal/model"
	"github.com/iliyamo/cinemax-booking/internal/seatmap"
)

var (
	ErrNoSession         = errors.New("cart: no session selected")
	ErrUnknownSeat       = errors.New("cart: seat does not exist in this room")
	ErrSeatOccupied      = errors.New("cart: seat already occupied")
	ErrSeatNotSelected   = errors.New("cart: seat not in cart")
	ErrInvalidTicketType = errors.New("cart: invalid ticket type")
)

var half = decimal.NewFromFloat(0.5)

// Cart is safe for concurrent use.  The zero value is an empty cart.
type Cart struct {
	mu      sync.Mutex
	session *model.SessionDetails
	items   []model.CartItem
}

// New returns an empty cart.
func New() *Cart { return &Cart{} }

// Price returns the ticket price of type t for a session priced at base.
func Price(base decimal.Decimal, t model.TicketType) decimal.Decimal {
	if t == model.TicketHalf {
		return base.Mul(half)
	}
	return base
}

// SetSession switches the cart to details and drops every item picked
// for the previous session.
func (c *Cart) SetSession(details model.SessionDetails) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = &details
	c.items = nil
}

// Session returns the current session, if any.
func (c *Cart) Session() (model.SessionDetails, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return model.SessionDetails{}, false
	}
	return *c.session, true
}

// SelectSeat adds seatID as a full-price ticket.  Selecting a seat that
// is already in the cart does nothing.
func (c *Cart) SelectSeat(seatID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkSeat(seatID); err != nil {
		return err
	}
	if c.indexOf(seatID) >= 0 {
		return nil
	}
	c.items = append(c.items, model.CartItem{
		SessionID:  c.session.ID,
		SeatID:     seatID,
		TicketType: model.TicketFull,
		Price:      c.session.BasePrice,
	})
	return nil
}

// AddItem puts item in the cart, replacing any item for the same seat.
// The price is always derived from the session and the ticket type.
func (c *Cart) AddItem(item model.CartItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkSeat(item.SeatID); err != nil {
		return err
	}
	if item.TicketType == "" {
		item.TicketType = model.TicketFull
	}
	if !item.TicketType.Valid() {
		return ErrInvalidTicketType
	}
	item.SessionID = c.session.ID
	item.Price = Price(c.session.BasePrice, item.TicketType)
	if i := c.indexOf(item.SeatID); i >= 0 {
		c.items[i] = item
		return nil
	}
	c.items = append(c.items, item)
	return nil
}

// DeselectSeat removes seatID from the cart.  Unknown seats are ignored.
func (c *Cart) DeselectSeat(seatID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(seatID); i >= 0 {
		c.items = append(c.items[:i:i], c.items[i+1:]...)
	}
}

// SetTicketType reprices a selected seat.
func (c *Cart) SetTicketType(seatID string, t model.TicketType) error {
	if !t.Valid() {
		return ErrInvalidTicketType
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ErrNoSession
	}
	i := c.indexOf(seatID)
	if i < 0 {
		return ErrSeatNotSelected
	}
	c.items[i].TicketType = t
	c.items[i].Price = Price(c.session.BasePrice, t)
	return nil
}

// Total is the sum of item prices, fees excluded.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	sum := decimal.Zero
	for _, it := range c.items {
		sum = sum.Add(it.Price)
	}
	return sum
}

func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Items returns a copy of the cart lines in selection order.
func (c *Cart) Items() []model.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.CartItem(nil), c.items...)
}

// SelectedSeats returns the seat ids in the cart.
func (c *Cart) SelectedSeats() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, it.SeatID)
	}
	return out
}

// Clear empties the cart and forgets the session.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = nil
	c.items = nil
}

// checkSeat requires the lock.
func (c *Cart) checkSeat(seatID string) error {
	if c.session == nil {
		return ErrNoSession
	}
	if !seatmap.Contains(c.session.Room, seatID) {
		return ErrUnknownSeat
	}
	if c.session.IsOccupied(seatID) {
		return ErrSeatOccupied
	}
	return nil
}

func (c *Cart) indexOf(seatID string) int {
	for i, it := range c.items {
		if it.SeatID == seatID {
			return i
		}
	}
	return -1
}
