package booking

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/cinemax-booking/internal/model"
)

// OrderFilter narrows FilterOrders.  An empty Status matches every
// status; Query matches the order id, movie title or cinema name,
// ignoring case.
type OrderFilter struct {
	Status model.OrderStatus
	Query  string
}

// Stats summarises confirmed orders for the admin dashboard.
type Stats struct {
	Revenue         decimal.Decimal `json:"revenue"`
	TicketsSold     int             `json:"ticketsSold"`
	ConfirmedOrders int             `json:"confirmedOrders"`
}

// Orders returns every order, newest first.
func (s *Service) Orders() []model.Order {
	return s.FilterOrders(OrderFilter{})
}

// OrdersByUser returns the orders placed by userID, newest first.
func (s *Service) OrdersByUser(userID string) []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Order{}
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	newestFirst(out)
	return out
}

// Order returns the order with the given id.
func (s *Service) Order(id string) (model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return model.Order{}, ErrOrderNotFound
}

// FilterOrders returns the orders matching f, newest first.
func (s *Service) FilterOrders(f OrderFilter) []model.Order {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Order{}
	for _, o := range s.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(o.ID), q) &&
			!strings.Contains(strings.ToLower(o.MovieTitle), q) &&
			!strings.Contains(strings.ToLower(o.CinemaName), q) {
			continue
		}
		out = append(out, o)
	}
	newestFirst(out)
	return out
}

// Stats totals revenue and tickets over confirmed orders only.
func (s *Service) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Stats{Revenue: decimal.Zero}
	for _, o := range s.orders {
		if o.Status != model.OrderConfirmed {
			continue
		}
		st.Revenue = st.Revenue.Add(o.Total)
		st.TicketsSold += len(o.Seats)
		st.ConfirmedOrders++
	}
	return st
}

func newestFirst(orders []model.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
