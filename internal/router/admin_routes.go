package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinemax-booking/internal/handler"
	"github.com/iliyamo/cinemax-booking/internal/middleware"
	"github.com/iliyamo/cinemax-booking/internal/model"
)

// RegisterAdmin registers the admin API under /v1/admin.  All routes
// require a valid JWT and the admin role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	// ---- Movies ----
	g.GET("/movies", a.ListMovies)
	g.POST("/movies", a.CreateMovie)
	g.PUT("/movies/:id", a.UpdateMovie)
	g.PATCH("/movies/:id/toggle", a.ToggleMovie)
	g.DELETE("/movies/:id", a.DeleteMovie)

	// ---- Cinemas ----
	g.GET("/cinemas", a.ListCinemas)
	g.POST("/cinemas", a.CreateCinema)
	g.PUT("/cinemas/:id", a.UpdateCinema)
	g.PATCH("/cinemas/:id/toggle", a.ToggleCinema)
	g.DELETE("/cinemas/:id", a.DeleteCinema)

	// ---- Rooms ----
	g.GET("/rooms", a.ListRooms)
	g.POST("/rooms", a.CreateRoom)
	g.PUT("/rooms/:id", a.UpdateRoom)
	g.DELETE("/rooms/:id", a.DeleteRoom)

	// ---- Sessions ----
	g.GET("/sessions", a.ListSessions)
	g.POST("/sessions", a.CreateSession)
	g.PUT("/sessions/:id", a.UpdateSession)
	g.PATCH("/sessions/:id/toggle", a.ToggleSession)
	g.DELETE("/sessions/:id", a.DeleteSession)

	// ---- Orders ----
	g.GET("/orders", a.ListOrders)
	g.GET("/users", a.ListUsers)
	g.GET("/stats", a.Stats)
}
