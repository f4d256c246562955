package handler

import (
    "context"
    "errors"
    "net/http"
    "regexp"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/nexis-travel/bookit-server/internal/model"
    "github.com/nexis-travel/bookit-server/internal/repository"
)

// OperatorHandler serves the OPERATOR-only catalog administration: the
// experience CRUD, slot management within an experience and the per
// experience booking list.
type OperatorHandler struct {
    Experiences *repository.ExperienceRepo
    Bookings    *repository.BookingRepo
}

func NewOperatorHandler(e *repository.ExperienceRepo, b *repository.BookingRepo) *OperatorHandler {
    return &OperatorHandler{Experiences: e, Bookings: b}
}

type experienceReq struct {
    Title       string  `json:"title"`
    Description string  `json:"description"`
    Location    string  `json:"location"`
    Category    string  `json:"category"`
    BasePrice   float64 `json:"base_price"`
    IsActive    *bool   `json:"is_active"`
}

func (r *experienceReq) validate() string {
    if strings.TrimSpace(r.Title) == "" {
        return "title is required"
    }
    if strings.TrimSpace(r.Location) == "" {
        return "location is required"
    }
    if strings.TrimSpace(r.Category) == "" {
        return "category is required"
    }
    if r.BasePrice < 0 {
        return "base_price must not be negative"
    }
    return ""
}

func pathID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    return id, err == nil && id != 0
}

// CreateExperience handles POST /v1/operator/experiences.
func (h *OperatorHandler) CreateExperience(c echo.Context) error {
    var req experienceReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if msg := req.validate(); msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    exp := &model.Experience{
        Title:       strings.TrimSpace(req.Title),
        Description: req.Description,
        Location:    strings.TrimSpace(req.Location),
        Category:    strings.TrimSpace(req.Category),
        BasePrice:   req.BasePrice,
        IsActive:    true,
    }
    if req.IsActive != nil {
        exp.IsActive = *req.IsActive
    }
    if err := h.Experiences.Create(ctx, exp); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create experience failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"experience": exp})
}

// UpdateExperience handles PUT /v1/operator/experiences/:id.
func (h *OperatorHandler) UpdateExperience(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid experience id"})
    }
    var req experienceReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if msg := req.validate(); msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    exp, err := h.Experiences.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrExperienceNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "experience not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load experience failed"})
    }
    exp.Title = strings.TrimSpace(req.Title)
    exp.Description = req.Description
    exp.Location = strings.TrimSpace(req.Location)
    exp.Category = strings.TrimSpace(req.Category)
    exp.BasePrice = req.BasePrice
    if req.IsActive != nil {
        exp.IsActive = *req.IsActive
    }
    if err := h.Experiences.Update(ctx, exp); err != nil {
        if errors.Is(err, repository.ErrExperienceNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "experience not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update experience failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"experience": exp})
}

// DeactivateExperience handles DELETE /v1/operator/experiences/:id.  The
// row stays; it simply stops accepting bookings and leaves existing ones
// intact.
func (h *OperatorHandler) DeactivateExperience(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid experience id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Experiences.Deactivate(ctx, id); err != nil {
        if errors.Is(err, repository.ErrExperienceNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "experience not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "deactivate experience failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

type slotReq struct {
    Date            string  `json:"date"`       // YYYY-MM-DD
    StartTime       string  `json:"start_time"` // HH:MM
    EndTime         string  `json:"end_time"`   // HH:MM
    MaxParticipants uint32  `json:"max_participants"`
    Price           float64 `json:"price"`
    IsAvailable     *bool   `json:"is_available"`
}

var hhmmRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

func (r *slotReq) parse() (time.Time, string) {
    d, err := time.ParseInLocation("2006-01-02", r.Date, time.UTC)
    if err != nil {
        return time.Time{}, "date must be YYYY-MM-DD"
    }
    if !hhmmRe.MatchString(r.StartTime) || !hhmmRe.MatchString(r.EndTime) {
        return time.Time{}, "start_time and end_time must be HH:MM"
    }
    if r.EndTime <= r.StartTime {
        return time.Time{}, "end_time must be after start_time"
    }
    if r.MaxParticipants < 1 {
        return time.Time{}, "max_participants must be at least 1"
    }
    if r.Price < 0 {
        return time.Time{}, "price must not be negative"
    }
    return d, ""
}

// AddSlot handles POST /v1/operator/experiences/:id/slots.
func (h *OperatorHandler) AddSlot(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid experience id"})
    }
    var req slotReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    date, msg := req.parse()
    if msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if _, err := h.Experiences.GetByID(ctx, id); err != nil {
        if errors.Is(err, repository.ErrExperienceNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "experience not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load experience failed"})
    }

    slot := &model.Slot{
        ExperienceID:    id,
        Date:            date,
        StartTime:       req.StartTime,
        EndTime:         req.EndTime,
        MaxParticipants: req.MaxParticipants,
        Price:           req.Price,
        IsAvailable:     true,
    }
    if err := h.Experiences.AddSlot(ctx, slot); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create slot failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"slot": slot})
}

// UpdateSlot handles PUT /v1/operator/experiences/:id/slots/:slotId.
// Occupancy cannot be edited here; lowering the capacity ceiling below
// the current occupancy is rejected with 409.
func (h *OperatorHandler) UpdateSlot(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid experience id"})
    }
    slotID, ok := pathID(c, "slotId")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
    }
    var req slotReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    date, msg := req.parse()
    if msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    slot := &model.Slot{
        ID:              slotID,
        ExperienceID:    id,
        Date:            date,
        StartTime:       req.StartTime,
        EndTime:         req.EndTime,
        MaxParticipants: req.MaxParticipants,
        Price:           req.Price,
        IsAvailable:     true,
    }
    if req.IsAvailable != nil {
        slot.IsAvailable = *req.IsAvailable
    }
    if err := h.Experiences.UpdateSlot(ctx, slot); err != nil {
        switch {
        case errors.Is(err, repository.ErrSlotNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
        case errors.Is(err, repository.ErrConflict):
            return c.JSON(http.StatusConflict, echo.Map{"error": "capacity below booked participants"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update slot failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"slot": slot})
}

// DeleteSlot handles DELETE /v1/operator/experiences/:id/slots/:slotId.
// Slots with bookings cannot be removed.
func (h *OperatorHandler) DeleteSlot(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid experience id"})
    }
    slotID, ok := pathID(c, "slotId")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Experiences.DeleteSlot(ctx, id, slotID); err != nil {
        switch {
        case errors.Is(err, repository.ErrSlotNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
        case errors.Is(err, repository.ErrConflict):
            return c.JSON(http.StatusConflict, echo.Map{"error": "slot has bookings"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete slot failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// ListBookings handles GET /v1/operator/experiences/:id/bookings.
func (h *OperatorHandler) ListBookings(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid experience id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if _, err := h.Experiences.GetByID(ctx, id); err != nil {
        if errors.Is(err, repository.ErrExperienceNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "experience not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load experience failed"})
    }
    details, err := h.Bookings.ListByExperience(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"bookings": details})
}
