// This file defines the administrator API: catalog maintenance, the
// order log and dashboard statistics.  Every route requires the admin
// role.

package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/iliyamo/cinemax-booking/internal/auth"
    "github.com/iliyamo/cinemax-booking/internal/booking"
    "github.com/iliyamo/cinemax-booking/internal/catalog"
    "github.com/iliyamo/cinemax-booking/internal/model"
)

// AdminHandler holds the dependencies of admin endpoints.
type AdminHandler struct {
    Catalog  *catalog.Store
    Users    *auth.Store
    Bookings *booking.Service
    Log      *zap.Logger
}

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// ---- Movies ----

func (h *AdminHandler) ListMovies(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{"items": h.Catalog.Movies(false)})
}

func (h *AdminHandler) CreateMovie(c echo.Context) error {
    var in model.MovieInput
    if err := bind(c, &in); err != nil {
        return writeError(c, h.Log, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    m, err := h.Catalog.AddMovie(ctx, in)
    if err != nil {
        return writeError(c, h.Log, err)
    }
    return c.JSON(http.StatusCreated, m)
}

func (h *AdminHandler) UpdateMovie(c echo.Context) error {
    var in model.MovieInput
    if err := bind(c, &in); err != nil {
        return writeError(c, h.Log, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    m, err := h.Catalog.UpdateMovie(ctx, c.Param("id"), in)
    if err != nil {
        return writeError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, m)
}

func (h *AdminHandler) ToggleMovie(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    m, err := h.Catalog.ToggleMovie(ctx, c.Param("id"))
    if err != nil {
        return writeError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, m)
}

func (h *AdminHandler) DeleteMovie(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Catalog.DeleteMovie(ctx, c.Param("id")); err != nil {
        return writeError(c, h.Log, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// ---- Cinemas ----

func (h *AdminHandler) ListCinemas(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{"items": h.Catalog.Cinemas(false)})
}

func (h *AdminHandler) CreateCinema(c echo.Context) error {
    var in model.CinemaInput
    if err := bind(c, &in); err != nil {
        return writeError(c, h.Log, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    cin, err := h.Catalog.AddCinema(ctx, in)
    if err != nil {
        return writeError(c, h.Log, err)
    }
    return c.JSON(http.StatusCreated, cin)
}

func (h *AdminHandler) UpdateCinema(c echo.Context) error {
    var in model.CinemaInput
    if err := bind(c, &in); err != nil {
        return writeError(c, h.Log, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    cin, err := h.Catalog.UpdateCinema(ctx, c.Param("id"), in)
    if err != nil {
        return writeError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, cin)
}

func (h *AdminHandler) ToggleCinema(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    cin, err := h.Catalog.ToggleCinema(ctx, c.Param("id"))
    if err != nil {
        return writeError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, cin)
}

func (h *AdminHandler) DeleteCinema(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Catalog.DeleteCinema(ctx, c.Param("id")); err != nil {
        return writeError(c, h.Log, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// ---- Rooms ----

// ListRooms returns every room, or only those of ?cinema_id=.
func (h *AdminHandler) ListRooms(c echo.Context) error {
    if id := c.QueryParam("cinema_id"); id != "" {
        return c.JSON(http.StatusOK, echo.Map{"items": h.Catalog.RoomsByCinema(id)})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": h.Catalog.Rooms()})
}

func (h *AdminHandler) CreateRoom(c echo.Context) error {
    var in model.RoomInput
    if err := bind(c, &in); err != nil {
        return writeError(c, h.Log, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    r, err := h.Catalog.AddRoom(ctx, in)
    if err != nil {
        return writeError(c, h.Log, err)
    }
    return c.JSON(http.StatusCreated, r)
}

func (h *AdminHandler) UpdateRoom(c echo.Context) error {
    var in model.RoomInput
    if err := bind(c, &in); err != nil {
        return writeError(c, h.Log, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    r, err := h.Catalog.UpdateRoom(ctx, c.Param("id"), in)
    if err != nil {
        return writeError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, r)
}

func (h *AdminHandler) DeleteRoom(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Catalog.DeleteRoom(ctx, c.Param("id")); err != nil {
        return writeError(c, h.Log, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// ---- Sessions ----

// ListSessions returns every session including inactive ones.
func (h *AdminHandler) ListSessions(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{"items": h.Catalog.Sessions()})
}

func (h *AdminHandler) CreateSession(c echo.Context) error {
    var in model.SessionInput
    if err := bind(c, &in); err != nil {
        return writeError(c, h.Log, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    s, err := h.Catalog.AddSession(ctx, in)
    if err != nil {
        return writeError(c, h.Log, err)
    }
    return c.JSON(http.StatusCreated, s)
}

func (h *AdminHandler) UpdateSession(c echo.Context) error {
    var in model.SessionInput
    if err := bind(c, &in); err != nil {
        return writeError(c, h.Log, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    s, err := h.Catalog.UpdateSession(ctx, c.Param("id"), in)
    if err != nil {
        return writeError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, s)
}

func (h *AdminHandler) ToggleSession(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    s, err := h.Catalog.ToggleSession(ctx, c.Param("id"))
    if err != nil {
        return writeError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, s)
}

func (h *AdminHandler) DeleteSession(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Catalog.DeleteSession(ctx, c.Param("id")); err != nil {
        return writeError(c, h.Log, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// ---- Orders, users and stats ----

// ListOrders filters the order log by ?status= and ?q=.
func (h *AdminHandler) ListOrders(c echo.Context) error {
    status := model.OrderStatus(c.QueryParam("status"))
    switch status {
    case "", model.OrderConfirmed, model.OrderCancelled:
    default:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
    }
    items := h.Bookings.FilterOrders(booking.OrderFilter{Status: status, Query: c.QueryParam("q")})
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListUsers returns every account without password hashes.
func (h *AdminHandler) ListUsers(c echo.Context) error {
    users := h.Users.Users()
    out := make([]model.PublicUser, 0, len(users))
    for _, u := range users {
        out = append(out, u.Public())
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

type statsResp struct {
    booking.Stats
    Movies   int `json:"movies"`
    Cinemas  int `json:"cinemas"`
    Sessions int `json:"sessions"`
    Users    int `json:"users"`
}

// Stats returns the dashboard counters.
func (h *AdminHandler) Stats(c echo.Context) error {
    return c.JSON(http.StatusOK, statsResp{
        Stats:    h.Bookings.Stats(),
        Movies:   len(h.Catalog.Movies(false)),
        Cinemas:  len(h.Catalog.Cinemas(false)),
        Sessions: len(h.Catalog.Sessions()),
        Users:    len(h.Users.Users()),
    })
}
