package handler // declare the package name; contains HTTP handlers

import (
    "net/http" // status codes

    "github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Health is a liveness probe for load balancers and monitoring.  It
// reports the persistence backend so operators can tell deployments
// apart.
func Health(backend string) echo.HandlerFunc {
    return func(c echo.Context) error {
        return c.JSON(http.StatusOK, echo.Map{"status": "ok", "backend": backend})
    }
}
