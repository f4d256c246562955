package handler

import (
    "context"
    "database/sql"
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/nexis-travel/bookit-server/internal/model"
    "github.com/nexis-travel/bookit-server/internal/promo"
)

// PromoFinder is the lookup the preview endpoint needs.
type PromoFinder interface {
    FindActiveByCode(ctx context.Context, code string) (*model.PromoCode, error)
}

// PromoHandler exposes the side-effect-free promo preview.
type PromoHandler struct {
    Promos PromoFinder
}

func NewPromoHandler(p PromoFinder) *PromoHandler {
    return &PromoHandler{Promos: p}
}

type promoPreviewReq struct {
    Code     string  `json:"code"`
    Amount   float64 `json:"amount"`
    Category string  `json:"category"`
}

type promoSummary struct {
    Code          string  `json:"code"`
    DiscountType  string  `json:"discountType"`
    DiscountValue float64 `json:"discountValue"`
}

// Validate handles POST /v1/promo/validate.  Rejections are part of the
// contract, not transport errors: they come back 200 with valid=false and
// the reason, so clients can show it next to the promo field.  Only a
// malformed request is a 400.
func (h *PromoHandler) Validate(c echo.Context) error {
    var req promoPreviewReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.Code == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "code is required"})
    }
    if req.Amount <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be greater than 0"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    code := promo.Normalize(req.Code)
    pc, err := h.Promos.FindActiveByCode(ctx, code)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusOK, echo.Map{"valid": false, "error": promo.ErrInvalidCode.Reason})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "promo lookup failed"})
    }

    res, err := promo.Evaluate(pc, req.Amount, req.Category, time.Now().UTC())
    if err != nil {
        var rej *promo.RejectionError
        if errors.As(err, &rej) {
            return c.JSON(http.StatusOK, echo.Map{"valid": false, "error": rej.Reason})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "promo evaluation failed"})
    }

    return c.JSON(http.StatusOK, echo.Map{
        "valid":       true,
        "discount":    res.Discount,
        "finalAmount": res.FinalAmount,
        "promo": promoSummary{
            Code:          pc.Code,
            DiscountType:  pc.DiscountType,
            DiscountValue: pc.DiscountValue,
        },
    })
}
