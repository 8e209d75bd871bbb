package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// TicketType is the price category of a ticket.
type TicketType string

const (
    TicketFull TicketType = "full"
    TicketHalf TicketType = "half"
)

// Valid reports whether t is a known ticket type.
func (t TicketType) Valid() bool { return t == TicketFull || t == TicketHalf }

// OrderStatus is the lifecycle state of an order.  Only confirmed is
// produced today; cancelled is kept for stored data compatibility.
type OrderStatus string

const (
    OrderConfirmed OrderStatus = "confirmed"
    OrderCancelled OrderStatus = "cancelled"
)

// CartItem is one selected seat in the cart.
type CartItem struct {
    SessionID  string          `json:"sessionId"`
    SeatID     string          `json:"seatId"`
    TicketType TicketType      `json:"ticketType"`
    Price      decimal.Decimal `json:"price"`
}

// OrderSeat is a seat line of a committed order.
type OrderSeat struct {
    SeatID     string          `json:"seatId"`
    TicketType TicketType      `json:"ticketType"`
    Price      decimal.Decimal `json:"price"`
}

// Order is the immutable record of a completed checkout.  Movie,
// cinema, room, date and time are copied so the order still renders if
// the catalog changes later.
type Order struct {
    ID            string          `json:"id"`
    UserID        string          `json:"userId"`
    SessionID     string          `json:"sessionId"`
    MovieTitle    string          `json:"movieTitle"`
    CinemaName    string          `json:"cinemaName"`
    RoomName      string          `json:"roomName"`
    Date          string          `json:"date"`
    Time          string          `json:"time"`
    Seats         []OrderSeat     `json:"seats"`
    Subtotal      decimal.Decimal `json:"subtotal"`
    Fees          decimal.Decimal `json:"fees"`
    Total         decimal.Decimal `json:"total"`
    PaymentMethod string          `json:"paymentMethod"`
    CardNumber    string          `json:"cardNumber"`
    CreatedAt     time.Time       `json:"createdAt"`
    QRCode        string          `json:"qrCode"`
    Status        OrderStatus     `json:"status"`
}

// SeatIDs returns the seat ids of the order in booking order.
func (o Order) SeatIDs() []string {
    out := make([]string, 0, len(o.Seats))
    for _, s := range o.Seats {
        out = append(out, s.SeatID)
    }
    return out
}
