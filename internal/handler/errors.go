package handler

import (
    "context"
    "errors"
    "fmt"
    "net/http"

    "github.com/go-playground/validator/v10"
    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/iliyamo/cinemax-booking/internal/auth"
    "github.com/iliyamo/cinemax-booking/internal/booking"
    "github.com/iliyamo/cinemax-booking/internal/cart"
    "github.com/iliyamo/cinemax-booking/internal/catalog"
)

// errBadRequest marks malformed or invalid request bodies.
var errBadRequest = errors.New("bad request")

// Validator plugs go-playground/validator into echo's c.Validate.
type Validator struct {
    v *validator.Validate
}

// NewValidator returns the validator installed on the echo instance.
func NewValidator() *Validator {
    return &Validator{v: validator.New()}
}

func (cv *Validator) Validate(i interface{}) error {
    if err := cv.v.Struct(i); err != nil {
        return fmt.Errorf("%w: %v", errBadRequest, err)
    }
    return nil
}

// bind decodes and validates the request body into dst.
func bind(c echo.Context, dst interface{}) error {
    if err := c.Bind(dst); err != nil {
        return fmt.Errorf("%w: invalid body", errBadRequest)
    }
    return c.Validate(dst)
}

// writeError maps domain errors to HTTP responses.  Unknown errors are
// logged and reported as 500 without detail.
func writeError(c echo.Context, log *zap.Logger, err error) error {
    var conflict *booking.SeatConflictError
    switch {
    case errors.As(err, &conflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": "seat_conflict", "seats": conflict.Seats})
    case errors.Is(err, cart.ErrSeatOccupied):
        return c.JSON(http.StatusConflict, echo.Map{"error": "seat_conflict", "message": err.Error()})
    case errors.Is(err, catalog.ErrNotFound),
        errors.Is(err, booking.ErrOrderNotFound),
        errors.Is(err, auth.ErrUserNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "message": err.Error()})
    case errors.Is(err, auth.ErrDuplicateEmail):
        return c.JSON(http.StatusConflict, echo.Map{"error": "duplicate_email"})
    case errors.Is(err, auth.ErrInvalidCredentials):
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid_credentials"})
    case errors.Is(err, booking.ErrPaymentDeclined):
        return c.JSON(http.StatusPaymentRequired, echo.Map{"error": "payment_declined"})
    case isValidation(err):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": err.Error()})
    case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
        return c.JSON(http.StatusRequestTimeout, echo.Map{"error": "request_aborted"})
    }
    if log != nil {
        log.Error("request failed",
            zap.String("method", c.Request().Method),
            zap.String("path", c.Path()),
            zap.Error(err),
        )
    }
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error"})
}

func isValidation(err error) bool {
    for _, target := range []error{
        errBadRequest,
        catalog.ErrInvalid,
        auth.ErrInvalid,
        booking.ErrEmptyCart,
        booking.ErrSessionInactive,
        booking.ErrDuplicateSeat,
        booking.ErrUnknownSeat,
        booking.ErrInvalidTicketType,
        booking.ErrHalfPriceUnconfirmed,
        booking.ErrInvalidPayment,
        cart.ErrUnknownSeat,
        cart.ErrInvalidTicketType,
        cart.ErrNoSession,
        cart.ErrSeatNotSelected,
    } {
        if errors.Is(err, target) {
            return true
        }
    }
    return false
}
