package handler_test

import (
    "context"
    "database/sql"
    "net/http"
    "testing"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/nexis-travel/bookit-server/internal/handler"
    "github.com/nexis-travel/bookit-server/internal/model"
)

type stubPromoFinder struct {
    findFn func(ctx context.Context, code string) (*model.PromoCode, error)
}

func (s *stubPromoFinder) FindActiveByCode(ctx context.Context, code string) (*model.PromoCode, error) {
    return s.findFn(ctx, code)
}

func livePromo() *model.PromoCode {
    now := time.Now().UTC()
    return &model.PromoCode{
        ID:            1,
        Code:          "SUMMER10",
        DiscountType:  model.DiscountPercentage,
        DiscountValue: 10,
        ValidFrom:     now.Add(-24 * time.Hour),
        ValidUntil:    now.Add(24 * time.Hour),
        UsageLimit:    100,
        UsedCount:     5,
        IsActive:      true,
    }
}

func TestPromoValidateSuccess(t *testing.T) {
    h := handler.NewPromoHandler(&stubPromoFinder{
        findFn: func(_ context.Context, code string) (*model.PromoCode, error) {
            if code != "SUMMER10" {
                t.Fatalf("lookup code = %q, want normalized SUMMER10", code)
            }
            return livePromo(), nil
        },
    })

    c, rec := postJSON(t, echo.New(), "/v1/promo/validate",
        `{"code": "  summer10 ", "amount": 200}`)
    if err := h.Validate(c); err != nil {
        t.Fatalf("handler error: %v", err)
    }
    if rec.Code != http.StatusOK {
        t.Fatalf("status = %d, want 200", rec.Code)
    }
    body := decodeBody(t, rec)
    if body["valid"] != true {
        t.Fatalf("valid = %v, want true", body["valid"])
    }
    if body["discount"] != float64(20) {
        t.Errorf("discount = %v, want 20", body["discount"])
    }
    if body["finalAmount"] != float64(180) {
        t.Errorf("finalAmount = %v, want 180", body["finalAmount"])
    }
    summary, ok := body["promo"].(map[string]any)
    if !ok || summary["code"] != "SUMMER10" {
        t.Errorf("promo summary = %v", body["promo"])
    }
}

func TestPromoValidateUnknownCode(t *testing.T) {
    h := handler.NewPromoHandler(&stubPromoFinder{
        findFn: func(context.Context, string) (*model.PromoCode, error) {
            return nil, sql.ErrNoRows
        },
    })

    c, rec := postJSON(t, echo.New(), "/v1/promo/validate",
        `{"code": "NOPE", "amount": 50}`)
    if err := h.Validate(c); err != nil {
        t.Fatalf("handler error: %v", err)
    }
    if rec.Code != http.StatusOK {
        t.Fatalf("status = %d, want 200", rec.Code)
    }
    body := decodeBody(t, rec)
    if body["valid"] != false {
        t.Fatalf("valid = %v, want false", body["valid"])
    }
    if body["error"] != "Invalid promo code" {
        t.Errorf("error = %q", body["error"])
    }
}

func TestPromoValidateExpiredCode(t *testing.T) {
    h := handler.NewPromoHandler(&stubPromoFinder{
        findFn: func(context.Context, string) (*model.PromoCode, error) {
            pc := livePromo()
            pc.ValidUntil = time.Now().UTC().Add(-time.Hour)
            return pc, nil
        },
    })

    c, rec := postJSON(t, echo.New(), "/v1/promo/validate",
        `{"code": "SUMMER10", "amount": 200}`)
    if err := h.Validate(c); err != nil {
        t.Fatalf("handler error: %v", err)
    }
    body := decodeBody(t, rec)
    if body["valid"] != false || body["error"] != "Promo code has expired" {
        t.Errorf("body = %v", body)
    }
}

func TestPromoValidateBadRequests(t *testing.T) {
    h := handler.NewPromoHandler(&stubPromoFinder{
        findFn: func(context.Context, string) (*model.PromoCode, error) {
            t.Fatal("lookup must not run for invalid input")
            return nil, nil
        },
    })
    for name, body := range map[string]string{
        "missing code":    `{"amount": 100}`,
        "zero amount":     `{"code": "SUMMER10"}`,
        "negative amount": `{"code": "SUMMER10", "amount": -5}`,
    } {
        t.Run(name, func(t *testing.T) {
            c, rec := postJSON(t, echo.New(), "/v1/promo/validate", body)
            if err := h.Validate(c); err != nil {
                t.Fatalf("handler error: %v", err)
            }
            if rec.Code != http.StatusBadRequest {
                t.Fatalf("status = %d, want 400", rec.Code)
            }
        })
    }
}
