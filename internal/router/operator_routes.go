package router

import (
    "github.com/labstack/echo/v4"

    "github.com/nexis-travel/bookit-server/internal/handler"
    "github.com/nexis-travel/bookit-server/internal/middleware"
    "github.com/nexis-travel/bookit-server/internal/model"
)

// RegisterOperator registers the OPERATOR-only administration endpoints
// under /v1/operator: catalog CRUD, slot management and promo codes.
func RegisterOperator(e *echo.Echo, o *handler.OperatorHandler, promos *handler.PromoAdminHandler, jwtSecret string) {
    g := e.Group(
        "/v1/operator",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleOperator),
    )

    // ---- Experiences ----
    g.POST("/experiences", o.CreateExperience)
    g.PUT("/experiences/:id", o.UpdateExperience)
    g.DELETE("/experiences/:id", o.DeactivateExperience)
    g.GET("/experiences/:id/bookings", o.ListBookings)

    // ---- Slots ----
    g.POST("/experiences/:id/slots", o.AddSlot)
    g.PUT("/experiences/:id/slots/:slotId", o.UpdateSlot)
    g.DELETE("/experiences/:id/slots/:slotId", o.DeleteSlot)

    // ---- Promo codes ----
    g.POST("/promos", promos.Create)
    g.GET("/promos", promos.List)
    g.DELETE("/promos/:code", promos.Deactivate)
}
