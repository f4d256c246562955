package handler

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/nexis-travel/bookit-server/internal/model"
    "github.com/nexis-travel/bookit-server/internal/repository"
)

// ExperienceReader is the read-only catalog access the public endpoints
// need.
type ExperienceReader interface {
    Search(ctx context.Context, category, location, q string) ([]model.Experience, error)
    GetWithSlots(ctx context.Context, id uint64) (*model.Experience, error)
}

// BrowseHandler serves the unauthenticated catalog endpoints.  Responses
// sit behind the Redis response cache when one is configured.
type BrowseHandler struct {
    Experiences ExperienceReader
}

func NewBrowseHandler(e ExperienceReader) *BrowseHandler {
    return &BrowseHandler{Experiences: e}
}

// ListExperiences handles GET /v1/experiences with optional category,
// location and q filters.
func (h *BrowseHandler) ListExperiences(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    out, err := h.Experiences.Search(ctx,
        c.QueryParam("category"), c.QueryParam("location"), c.QueryParam("q"))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"experiences": out})
}

// GetExperience handles GET /v1/experiences/:id, returning the experience
// with its full slot collection and live availability.
func (h *BrowseHandler) GetExperience(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid experience id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    exp, err := h.Experiences.GetWithSlots(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrExperienceNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "experience not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load experience failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"experience": exp})
}
