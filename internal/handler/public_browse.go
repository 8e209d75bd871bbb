// Package handler exposes HTTP handlers for both authenticated and public endpoints.
// This file defines the public browsing API: movies, cinemas, sessions and
// seat maps.  No authentication is required.

package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"
    "go.uber.org/zap"

    "github.com/iliyamo/cinemax-booking/internal/catalog"
    "github.com/iliyamo/cinemax-booking/internal/model"
    "github.com/iliyamo/cinemax-booking/internal/seatmap"
)

// PublicHandler serves the storefront.  Inactive movies and cinemas are
// hidden.
type PublicHandler struct {
    Catalog *catalog.Store
    Log     *zap.Logger
}

// SeatMapResponse is the seat grid of one session.
type SeatMapResponse struct {
    SessionID string                   `json:"sessionId"`
    Rows      int                      `json:"rows"`
    Columns   int                      `json:"columns"`
    BasePrice decimal.Decimal          `json:"basePrice"`
    Seats     []model.Seat             `json:"seats"`
    Summary   map[model.SeatStatus]int `json:"summary"`
}

// ListMovies returns every active movie.
func (h *PublicHandler) ListMovies(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{"items": h.Catalog.Movies(true)})
}

// GetMovie returns one active movie.
func (h *PublicHandler) GetMovie(c echo.Context) error {
    m, err := h.Catalog.Movie(c.Param("id"))
    if err == nil && !m.IsActive {
        err = catalog.ErrMovieNotFound
    }
    if err != nil {
        return writeError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, m)
}

// MovieSessions lists bookable sessions of a movie.  Optional query
// parameters: city, cinema_id, date (YYYY-MM-DD).
func (h *PublicHandler) MovieSessions(c echo.Context) error {
    id := c.Param("id")
    if _, err := h.Catalog.Movie(id); err != nil {
        return writeError(c, h.Log, err)
    }
    items := h.Catalog.ListSessions(id, catalog.SessionFilter{
        City:     c.QueryParam("city"),
        CinemaID: c.QueryParam("cinema_id"),
        Date:     c.QueryParam("date"),
    })
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// MovieCities lists the cities screening a movie, plus the cinemas in
// ?city= when given.
func (h *PublicHandler) MovieCities(c echo.Context) error {
    id := c.Param("id")
    if _, err := h.Catalog.Movie(id); err != nil {
        return writeError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "items":   h.Catalog.CitiesForMovie(id),
        "cinemas": h.Catalog.CinemasForMovie(id, c.QueryParam("city")),
    })
}

// ListCinemas returns active cinemas, optionally only those in ?city=.
func (h *PublicHandler) ListCinemas(c echo.Context) error {
    city := c.QueryParam("city")
    out := []model.Cinema{}
    for _, cin := range h.Catalog.Cinemas(true) {
        if city == "" || cin.City == city {
            out = append(out, cin)
        }
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetSession returns a session joined with its movie, cinema and room.
func (h *PublicHandler) GetSession(c echo.Context) error {
    d, err := h.Catalog.SessionDetails(c.Param("id"))
    if err != nil {
        return writeError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, d)
}

// SessionSeats returns the derived seat map.  ?selected=A1,B2 marks the
// caller's own picks as selected.
func (h *PublicHandler) SessionSeats(c echo.Context) error {
    d, err := h.Catalog.SessionDetails(c.Param("id"))
    if err != nil {
        return writeError(c, h.Log, err)
    }
    var selected []string
    if raw := strings.TrimSpace(c.QueryParam("selected")); raw != "" {
        selected = strings.Split(raw, ",")
    }
    seats := seatmap.Generate(d.Room, d.OccupiedSeats, selected)
    return c.JSON(http.StatusOK, SeatMapResponse{
        SessionID: d.ID,
        Rows:      d.Room.Rows,
        Columns:   d.Room.Columns,
        BasePrice: d.BasePrice,
        Seats:     seats,
        Summary:   seatmap.Summary(seats),
    })
}
