package handler

import (
    "context"
    "database/sql"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/nexis-travel/bookit-server/internal/model"
    "github.com/nexis-travel/bookit-server/internal/promo"
    "github.com/nexis-travel/bookit-server/internal/repository"
)

// PromoAdminHandler serves the OPERATOR promo code administration.
type PromoAdminHandler struct {
    Promos *repository.PromoRepo
}

func NewPromoAdminHandler(p *repository.PromoRepo) *PromoAdminHandler {
    return &PromoAdminHandler{Promos: p}
}

type promoCreateReq struct {
    Code                 string   `json:"code"`
    DiscountType         string   `json:"discount_type"`
    DiscountValue        float64  `json:"discount_value"`
    MinAmount            float64  `json:"min_amount"`
    MaxDiscount          *float64 `json:"max_discount"`
    ApplicableCategories []string `json:"applicable_categories"`
    ValidFrom            string   `json:"valid_from"`  // RFC 3339
    ValidUntil           string   `json:"valid_until"` // RFC 3339
    UsageLimit           uint32   `json:"usage_limit"`
}

// Create handles POST /v1/operator/promos.
func (h *PromoAdminHandler) Create(c echo.Context) error {
    var req promoCreateReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    code := promo.Normalize(req.Code)
    if code == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "code is required"})
    }
    if req.DiscountType != model.DiscountPercentage && req.DiscountType != model.DiscountFixed {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "discount_type must be percentage or fixed"})
    }
    if req.DiscountValue <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "discount_value must be greater than 0"})
    }
    if req.DiscountType == model.DiscountPercentage && req.DiscountValue > 100 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "percentage discount cannot exceed 100"})
    }
    if req.MinAmount < 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "min_amount must not be negative"})
    }
    if req.UsageLimit < 1 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "usage_limit must be at least 1"})
    }
    validFrom, err := time.Parse(time.RFC3339, req.ValidFrom)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid_from must be RFC 3339"})
    }
    validUntil, err := time.Parse(time.RFC3339, req.ValidUntil)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid_until must be RFC 3339"})
    }
    if !validUntil.After(validFrom) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid_until must be after valid_from"})
    }

    categories := make([]string, 0, len(req.ApplicableCategories))
    for _, cat := range req.ApplicableCategories {
        if cat = strings.TrimSpace(cat); cat != "" {
            categories = append(categories, cat)
        }
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    pc := &model.PromoCode{
        Code:                 code,
        DiscountType:         req.DiscountType,
        DiscountValue:        req.DiscountValue,
        MinAmount:            req.MinAmount,
        MaxDiscount:          req.MaxDiscount,
        ApplicableCategories: categories,
        ValidFrom:            validFrom.UTC(),
        ValidUntil:           validUntil.UTC(),
        UsageLimit:           req.UsageLimit,
        IsActive:             true,
    }
    if err := h.Promos.Create(ctx, pc); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "promo code already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create promo failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"promo": pc})
}

// List handles GET /v1/operator/promos.
func (h *PromoAdminHandler) List(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    promos, err := h.Promos.ListAll(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list promos failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"promos": promos})
}

// Deactivate handles DELETE /v1/operator/promos/:code.
func (h *PromoAdminHandler) Deactivate(c echo.Context) error {
    code := promo.Normalize(c.Param("code"))
    if code == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "code is required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Promos.Deactivate(ctx, code); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "promo code not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "deactivate promo failed"})
    }
    return c.NoContent(http.StatusNoContent)
}
