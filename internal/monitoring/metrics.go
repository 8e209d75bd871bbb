// Package monitoring exposes Prometheus metrics for the booking flow.
package monitoring

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iliyamo/cinemax-booking/internal/model"
)

// Checkout outcomes used as the "outcome" label.
const (
	OutcomeConfirmed = "confirmed"
	OutcomeConflict  = "seat_conflict"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

// Metrics groups every collector the service registers.  A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	ordersTotal      prometheus.Counter
	ticketsSold      *prometheus.CounterVec
	revenueTotal     prometheus.Counter
	seatConflicts    prometheus.Counter
	checkoutDuration *prometheus.HistogramVec
	logins           *prometheus.CounterVec
	activeSessions   prometheus.Gauge
	occupancyRatio   prometheus.Gauge
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ordersTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "cinemax_orders_total",
			Help: "Total confirmed orders",
		}),
		ticketsSold: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cinemax_tickets_sold_total",
			Help: "Total tickets sold per ticket type",
		}, []string{"ticket_type"}),
		revenueTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "cinemax_revenue_total",
			Help: "Sum of confirmed order totals",
		}),
		seatConflicts: f.NewCounter(prometheus.CounterOpts{
			Name: "cinemax_seat_conflicts_total",
			Help: "Checkouts rejected because a seat was sold first",
		}),
		checkoutDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cinemax_checkout_duration_seconds",
			Help:    "Checkout latency including simulated payment",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"outcome"}),
		logins: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cinemax_logins_total",
			Help: "Login attempts by status",
		}, []string{"status"}),
		activeSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "cinemax_active_sessions",
			Help: "Sessions currently open for booking",
		}),
		occupancyRatio: f.NewGauge(prometheus.GaugeOpts{
			Name: "cinemax_occupancy_ratio",
			Help: "Occupied seats over total seats across active sessions",
		}),
	}
}

// OrderConfirmed records a committed order.
func (m *Metrics) OrderConfirmed(o model.Order) {
	if m == nil {
		return
	}
	m.ordersTotal.Inc()
	for _, s := range o.Seats {
		m.ticketsSold.WithLabelValues(string(s.TicketType)).Inc()
	}
	total, _ := o.Total.Float64()
	m.revenueTotal.Add(total)
}

// SeatConflict records a checkout lost to another booking.
func (m *Metrics) SeatConflict() {
	if m == nil {
		return
	}
	m.seatConflicts.Inc()
}

// ObserveCheckout records the latency of a finished checkout.
func (m *Metrics) ObserveCheckout(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.checkoutDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// Login records a login attempt.
func (m *Metrics) Login(ok bool) {
	if m == nil {
		return
	}
	status := "success"
	if !ok {
		status = "failure"
	}
	m.logins.WithLabelValues(status).Inc()
}

// SessionSource is the catalog view the occupancy collector reads.
type SessionSource interface {
	Sessions() []model.Session
	Rooms() []model.Room
}

// CollectOccupancy refreshes the session gauges from src once.
func (m *Metrics) CollectOccupancy(src SessionSource) {
	if m == nil {
		return
	}
	seats := make(map[string]int)
	for _, r := range src.Rooms() {
		seats[r.ID] = r.TotalSeats
	}
	var active, occupied, total int
	for _, s := range src.Sessions() {
		if !s.IsActive {
			continue
		}
		active++
		occupied += len(s.OccupiedSeats)
		total += seats[s.RoomID]
	}
	m.activeSessions.Set(float64(active))
	if total > 0 {
		m.occupancyRatio.Set(float64(occupied) / float64(total))
	} else {
		m.occupancyRatio.Set(0)
	}
}

// RunCollector calls CollectOccupancy every interval on clock until ctx
// is done.
func (m *Metrics) RunCollector(ctx context.Context, clock clockwork.Clock, src SessionSource, interval time.Duration) {
	if m == nil {
		return
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	ticker := clock.NewTicker(interval)
	defer ticker.Stop()
	m.CollectOccupancy(src)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			m.CollectOccupancy(src)
		}
	}
}
