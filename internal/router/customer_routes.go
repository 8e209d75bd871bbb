package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinemax-booking/internal/handler"
	"github.com/iliyamo/cinemax-booking/internal/middleware"
	"github.com/iliyamo/cinemax-booking/internal/model"
)

// RegisterCustomer registers endpoints for signed-in users.  Admins may
// use them too; order lookups then see every order.  Checkout is rate
// limited since each call holds a payment slot for a few seconds.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleUser, model.RoleAdmin),
	)
	g.POST("/checkout/quote", h.Quote)
	g.POST("/checkout", h.Checkout, limit)
	g.GET("/my-orders", h.MyOrders)
	g.GET("/orders/:id", h.GetOrder)
	g.GET("/orders/:id/qr", h.OrderQR)
}
