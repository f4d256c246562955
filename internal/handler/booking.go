package handler

import (
    "context"
    "database/sql"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/nexis-travel/bookit-server/internal/promo"
    "github.com/nexis-travel/bookit-server/internal/repository"
    "github.com/nexis-travel/bookit-server/internal/service"
)

// BookingCommitter is the slice of the booking service the HTTP layer
// depends on.
type BookingCommitter interface {
    Create(ctx context.Context, in *service.CreateBookingInput) (*service.BookingConfirmation, error)
    ListByEmail(ctx context.Context, email string) ([]repository.BookingDetail, error)
}

// BookingHandler exposes the reservation commit and the customer booking
// list over HTTP.
type BookingHandler struct {
    Svc BookingCommitter
}

func NewBookingHandler(svc BookingCommitter) *BookingHandler {
    return &BookingHandler{Svc: svc}
}

// Create handles POST /v1/bookings.  Business failures map onto the
// taxonomy: bad input and capacity or promo rejections are 400, missing
// references 404, inactive or unavailable targets 410, infrastructure
// failures 500.  Promo rejections surface their reason verbatim.
func (h *BookingHandler) Create(c echo.Context) error {
    var in service.CreateBookingInput
    if err := c.Bind(&in); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    conf, err := h.Svc.Create(ctx, &in)
    if err != nil {
        return writeBookingError(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "success": true,
        "booking": conf,
    })
}

func writeBookingError(c echo.Context, err error) error {
    var verr *service.ValidationError
    if errors.As(err, &verr) {
        return c.JSON(http.StatusBadRequest, echo.Map{
            "success": false, "error": verr.Message, "field": verr.Field,
        })
    }
    var rej *promo.RejectionError
    if errors.As(err, &rej) {
        return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": rej.Reason})
    }
    switch {
    case errors.Is(err, repository.ErrExperienceNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "experience not found"})
    case errors.Is(err, repository.ErrSlotNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "slot not found"})
    case errors.Is(err, repository.ErrExperienceInactive):
        return c.JSON(http.StatusGone, echo.Map{"success": false, "error": "experience is no longer active"})
    case errors.Is(err, repository.ErrSlotUnavailable):
        return c.JSON(http.StatusGone, echo.Map{"success": false, "error": "slot is no longer available"})
    case errors.Is(err, repository.ErrCapacityExceeded):
        return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "not enough spots available"})
    }
    return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "booking failed"})
}

// List handles GET /v1/bookings?email=...  An unknown email is 404; a
// known user with no bookings gets an empty list.
func (h *BookingHandler) List(c echo.Context) error {
    email := strings.TrimSpace(c.QueryParam("email"))
    if email == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email query parameter required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    details, err := h.Svc.ListByEmail(ctx, email)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"bookings": details})
}
