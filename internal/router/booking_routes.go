package router

import (
    "github.com/labstack/echo/v4"

    "github.com/nexis-travel/bookit-server/internal/handler"
)

// RegisterBooking registers the reservation commit, the customer booking
// list and the promo preview.  All three are guest-accessible: bookings
// identify the customer by contact email, not by session.  The rate
// limiter is applied here because these are the endpoints that race over
// shared slot and promo state.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, p *handler.PromoHandler, limit echo.MiddlewareFunc) {
    g := e.Group("/v1", limit)
    g.POST("/bookings", b.Create)
    g.GET("/bookings", b.List)
    g.POST("/promo/validate", p.Validate)
}
