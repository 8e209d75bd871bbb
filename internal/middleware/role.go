package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinemax-booking/internal/model"
)

// RequireRole aborts with 403 unless JWTAuth stored one of roles in the
// context.  It must run after JWTAuth.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
    allowed := make(map[string]struct{}, len(roles))
    for _, r := range roles {
        allowed[string(r)] = struct{}{}
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if _, ok := allowed[Role(c)]; !ok {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            return next(c)
        }
    }
}
