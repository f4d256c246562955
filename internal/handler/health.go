// Package handler contains the HTTP handlers for the booking API.
package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// Health responds with a liveness payload.
func Health(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
