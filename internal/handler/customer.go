// This file defines the endpoints available to signed-in customers:
// quoting and checking out a cart, listing their orders and rendering
// ticket QR codes.

package handler

import (
    "context"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/iliyamo/cinemax-booking/internal/auth"
    "github.com/iliyamo/cinemax-booking/internal/booking"
    "github.com/iliyamo/cinemax-booking/internal/cart"
    "github.com/iliyamo/cinemax-booking/internal/catalog"
    "github.com/iliyamo/cinemax-booking/internal/middleware"
    "github.com/iliyamo/cinemax-booking/internal/model"
)

// checkoutTimeout leaves room for the simulated payment delay.
const checkoutTimeout = 30 * time.Second

// CustomerHandler holds the dependencies of customer endpoints.
type CustomerHandler struct {
    Catalog  *catalog.Store
    Users    *auth.Store
    Bookings *booking.Service
    Log      *zap.Logger
}

// ----- DTOs -----

type cartItemReq struct {
    SeatID     string           `json:"seatId" validate:"required"`
    TicketType model.TicketType `json:"ticketType"`
}

type quoteReq struct {
    SessionID string        `json:"sessionId" validate:"required"`
    Items     []cartItemReq `json:"items" validate:"required,min=1,dive"`
}

type checkoutReq struct {
    SessionID          string              `json:"sessionId" validate:"required"`
    Items              []cartItemReq       `json:"items" validate:"required,min=1,dive"`
    Payment            booking.PaymentInfo `json:"payment" validate:"-"` // checked by booking
    HalfPriceConfirmed []string            `json:"halfPriceConfirmed"`
}

type quoteResp struct {
    Items []model.CartItem `json:"items"`
    booking.Quote
}

// buildCart loads the session and puts every requested seat into a
// fresh cart.  Prices come from the session, never from the client.
func (h *CustomerHandler) buildCart(sessionID string, items []cartItemReq) (*cart.Cart, error) {
    d, err := h.Catalog.SessionDetails(sessionID)
    if err != nil {
        return nil, err
    }
    if !d.IsActive {
        return nil, booking.ErrSessionInactive
    }
    cc := cart.New()
    cc.SetSession(d)
    for _, it := range items {
        if err := cc.AddItem(model.CartItem{SeatID: it.SeatID, TicketType: it.TicketType}); err != nil {
            return nil, err
        }
    }
    return cc, nil
}

// Quote prices a prospective cart without booking anything.
func (h *CustomerHandler) Quote(c echo.Context) error {
    var req quoteReq
    if err := bind(c, &req); err != nil {
        return writeError(c, h.Log, err)
    }
    cc, err := h.buildCart(req.SessionID, req.Items)
    if err != nil {
        return writeError(c, h.Log, err)
    }
    items := cc.Items()
    return c.JSON(http.StatusOK, quoteResp{Items: items, Quote: h.Bookings.Quote(items)})
}

// Checkout pays for and books the requested seats.
func (h *CustomerHandler) Checkout(c echo.Context) error {
    var req checkoutReq
    if err := bind(c, &req); err != nil {
        return writeError(c, h.Log, err)
    }
    user, err := h.Users.User(middleware.UserID(c))
    if err != nil {
        return writeError(c, h.Log, err)
    }
    cc, err := h.buildCart(req.SessionID, req.Items)
    if err != nil {
        return writeError(c, h.Log, err)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), checkoutTimeout)
    defer cancel()

    order, err := h.Bookings.Checkout(ctx, booking.CheckoutRequest{
        User:               user,
        Cart:               cc,
        Payment:            req.Payment,
        HalfPriceConfirmed: req.HalfPriceConfirmed,
    })
    if err != nil {
        return writeError(c, h.Log, err)
    }
    return c.JSON(http.StatusCreated, order)
}

// MyOrders lists the caller's orders, newest first.
func (h *CustomerHandler) MyOrders(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{"items": h.Bookings.OrdersByUser(middleware.UserID(c))})
}

// GetOrder returns one order.  Customers only see their own; admins see
// any.
func (h *CustomerHandler) GetOrder(c echo.Context) error {
    o, err := h.ownedOrder(c)
    if err != nil {
        return writeError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, o)
}

// OrderQR renders the ticket QR code as PNG.  ?size= sets the edge in
// pixels (64..1024, default 256).
func (h *CustomerHandler) OrderQR(c echo.Context) error {
    o, err := h.ownedOrder(c)
    if err != nil {
        return writeError(c, h.Log, err)
    }
    size := 256
    if raw := c.QueryParam("size"); raw != "" {
        n, err := strconv.Atoi(raw)
        if err != nil || n < 64 || n > 1024 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid size"})
        }
        size = n
    }
    png, err := booking.TicketQR(o, size)
    if err != nil {
        return writeError(c, h.Log, err)
    }
    return c.Blob(http.StatusOK, "image/png", png)
}

func (h *CustomerHandler) ownedOrder(c echo.Context) (model.Order, error) {
    o, err := h.Bookings.Order(c.Param("id"))
    if err != nil {
        return model.Order{}, err
    }
    if o.UserID != middleware.UserID(c) && middleware.Role(c) != string(model.RoleAdmin) {
        // hide other customers' orders entirely
        return model.Order{}, booking.ErrOrderNotFound
    }
    return o, nil
}
