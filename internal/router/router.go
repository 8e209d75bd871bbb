package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/cinemax-booking/internal/handler"
	"github.com/iliyamo/cinemax-booking/internal/middleware"
)

// RegisterRoutes registers operational routes: the health check and the
// Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo, backend string, g prometheus.Gatherer) {
	e.GET("/healthz", handler.Health(backend))
	if g != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{})))
	}
}

// RegisterAuth registers account routes.  Register and login are
// unauthenticated but pass through limit; /v1/me needs a valid token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", limit)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	e.GET("/v1/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterPublic registers the storefront.  No JWT or role middleware is
// applied so guests can browse and look at seat maps.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler) {
	g := e.Group("/v1")
	g.GET("/movies", p.ListMovies)
	g.GET("/movies/:id", p.GetMovie)
	g.GET("/movies/:id/sessions", p.MovieSessions)
	g.GET("/movies/:id/cities", p.MovieCities)
	g.GET("/cinemas", p.ListCinemas)
	g.GET("/sessions/:id", p.GetSession)
	// ?selected=A1,B2 marks the caller's picks
	g.GET("/sessions/:id/seats", p.SessionSeats)
}
