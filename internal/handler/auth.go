package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinemax-booking/internal/auth"
	"github.com/iliyamo/cinemax-booking/internal/config"
	"github.com/iliyamo/cinemax-booking/internal/middleware"
	"github.com/iliyamo/cinemax-booking/internal/model"
	"github.com/iliyamo/cinemax-booking/internal/monitoring"
	"github.com/iliyamo/cinemax-booking/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg     config.Config
	Users   *auth.Store
	Clock   clockwork.Clock
	Metrics *monitoring.Metrics
	Log     *zap.Logger
}

func NewAuthHandler(cfg config.Config, users *auth.Store, clock clockwork.Clock, m *monitoring.Metrics, log *zap.Logger) *AuthHandler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &AuthHandler{Cfg: cfg, Users: users, Clock: clock, Metrics: m, Log: log}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}
type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}
type authResp struct {
	User   model.PublicUser  `json:"user"`
	Access utils.AccessToken `json:"access"`
}

// Register creates a customer account and returns an access token
// immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bind(c, &req); err != nil {
		return writeError(c, h.Log, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Register(ctx, strings.TrimSpace(req.Name), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return h.issue(c, http.StatusCreated, u)
}

// Login verifies credentials and returns a fresh access token.  Unknown
// emails and wrong passwords get the same 401.  Callers are identified by
// the token, so the store's single current-user pointer is left alone.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bind(c, &req); err != nil {
		return writeError(c, h.Log, err)
	}

	u, err := h.Users.Authenticate(strings.TrimSpace(req.Email), req.Password)
	h.Metrics.Login(err == nil)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return h.issue(c, http.StatusOK, u)
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	u, err := h.Users.User(middleware.UserID(c))
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, u.Public())
}

func (h *AuthHandler) issue(c echo.Context, status int, u model.User) error {
	ttl := time.Duration(h.Cfg.AccessTTLMin) * time.Minute
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, string(u.Role), ttl, h.Clock.Now())
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(status, authResp{User: u.Public(), Access: access})
}
