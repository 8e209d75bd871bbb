// Package queue defines message payloads exchanged over the message broker
// and the consumer that turns them into the booking log.
package queue

import (
    "fmt"
    "strings"
    "time"

    "github.com/iliyamo/cinemax-booking/internal/model"
)

// BookingQueue is the durable queue order events are published to.
const BookingQueue = "booking.confirmed"

// OrderConfirmedEvent is published when an order is committed.  It
// carries enough to log or notify without reading the store.
type OrderConfirmedEvent struct {
    OrderID     string   `json:"order_id"`
    UserID      string   `json:"user_id"`
    SessionID   string   `json:"session_id"`
    MovieTitle  string   `json:"movie_title"`
    CinemaName  string   `json:"cinema_name"`
    RoomName    string   `json:"room_name"`
    Date        string   `json:"date"`
    Time        string   `json:"time"`
    Seats       []string `json:"seats"`
    Total       string   `json:"total"`
    QRCode      string   `json:"qr_code"`
    ConfirmedAt string   `json:"confirmed_at"`
}

// NewOrderConfirmedEvent builds the event for a committed order.
func NewOrderConfirmedEvent(o model.Order) OrderConfirmedEvent {
    return OrderConfirmedEvent{
        OrderID:     o.ID,
        UserID:      o.UserID,
        SessionID:   o.SessionID,
        MovieTitle:  o.MovieTitle,
        CinemaName:  o.CinemaName,
        RoomName:    o.RoomName,
        Date:        o.Date,
        Time:        o.Time,
        Seats:       o.SeatIDs(),
        Total:       o.Total.StringFixed(2),
        QRCode:      o.QRCode,
        ConfirmedAt: o.CreatedAt.UTC().Format(time.RFC3339),
    }
}

// LogLine renders ev as one line of logs/booking.log.
func (ev OrderConfirmedEvent) LogLine() string {
    return fmt.Sprintf("[%s] Order confirmed | order_id=%s | user_id=%s | session_id=%s | cinema=%q | room=%q | movie=%q | when=%s %s | total=%s | seats=[%s] | qr=%s\n",
        ev.ConfirmedAt, ev.OrderID, ev.UserID, ev.SessionID, ev.CinemaName, ev.RoomName, ev.MovieTitle,
        ev.Date, ev.Time, ev.Total, strings.Join(ev.Seats, ","), ev.QRCode)
}
