package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/cinemax-booking/internal/utils" // token parsing
)

// Context keys set by JWTAuth.
const (
    CtxUserID = "user_id"
    CtxRole   = "role"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and stores the token's subject and role in the request context.  The
// secret must match the one used when issuing tokens.  Handlers read the
// values back with UserID and Role.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }
            c.Set(CtxUserID, claims.Subject)
            c.Set(CtxRole, claims.Role)
            return next(c)
        }
    }
}

// UserID returns the authenticated user id, or "" for anonymous requests.
func UserID(c echo.Context) string {
    s, _ := c.Get(CtxUserID).(string)
    return s
}

// Role returns the authenticated user's role, or "".
func Role(c echo.Context) string {
    s, _ := c.Get(CtxRole).(string)
    return s
}
