package promo_test

import (
    "errors"
    "testing"
    "time"

    "github.com/nexis-travel/bookit-server/internal/model"
    "github.com/nexis-travel/bookit-server/internal/promo"
)

var now = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func floatPtr(v float64) *float64 { return &v }

func basePromo() *model.PromoCode {
    return &model.PromoCode{
        Code:          "SAVE10",
        DiscountType:  model.DiscountPercentage,
        DiscountValue: 10,
        MinAmount:     0,
        ValidFrom:     now.Add(-24 * time.Hour),
        ValidUntil:    now.Add(24 * time.Hour),
        UsageLimit:    100,
        UsedCount:     0,
        IsActive:      true,
    }
}

func TestEvaluatePercentage(t *testing.T) {
    pc := basePromo()
    res, err := promo.Evaluate(pc, 200, "", now)
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if res.Discount != 20 || res.FinalAmount != 180 {
        t.Fatalf("got discount=%v final=%v, want 20/180", res.Discount, res.FinalAmount)
    }
}

func TestEvaluatePercentageCap(t *testing.T) {
    pc := basePromo()
    pc.DiscountValue = 15
    pc.MaxDiscount = floatPtr(30)
    res, err := promo.Evaluate(pc, 1000, "", now)
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if res.Discount != 30 {
        t.Fatalf("discount = %v, want capped at 30", res.Discount)
    }
    if res.FinalAmount != 970 {
        t.Fatalf("final = %v, want 970", res.FinalAmount)
    }
}

func TestEvaluateFixedCappedAtAmount(t *testing.T) {
    pc := basePromo()
    pc.DiscountType = model.DiscountFixed
    pc.DiscountValue = 500
    res, err := promo.Evaluate(pc, 300, "", now)
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if res.Discount != 300 {
        t.Fatalf("discount = %v, want 300 (capped at amount)", res.Discount)
    }
    if res.FinalAmount != 0 {
        t.Fatalf("final = %v, want 0", res.FinalAmount)
    }
}

func TestEvaluateExpired(t *testing.T) {
    pc := basePromo()
    pc.ValidUntil = now.Add(-time.Hour)
    _, err := promo.Evaluate(pc, 100, "", now)
    assertRejection(t, err, "Promo code has expired")
}

func TestEvaluateNotYetValid(t *testing.T) {
    pc := basePromo()
    pc.ValidFrom = now.Add(time.Hour)
    _, err := promo.Evaluate(pc, 100, "", now)
    assertRejection(t, err, "Promo code has expired")
}

// The validity window is inclusive at both bounds: redemption at exactly
// ValidFrom and exactly ValidUntil must succeed.
func TestEvaluateWindowBoundariesInclusive(t *testing.T) {
    pc := basePromo()
    for _, instant := range []time.Time{pc.ValidFrom, pc.ValidUntil} {
        if _, err := promo.Evaluate(pc, 100, "", instant); err != nil {
            t.Fatalf("evaluation at window boundary %v rejected: %v", instant, err)
        }
    }
    if _, err := promo.Evaluate(pc, 100, "", pc.ValidUntil.Add(time.Nanosecond)); err == nil {
        t.Fatal("evaluation just past ValidUntil should be rejected")
    }
}

func TestEvaluateUsageLimit(t *testing.T) {
    pc := basePromo()
    pc.UsageLimit = 5
    pc.UsedCount = 5
    _, err := promo.Evaluate(pc, 100, "", now)
    assertRejection(t, err, "Promo code usage limit reached")
}

func TestEvaluateMinAmount(t *testing.T) {
    pc := basePromo()
    pc.MinAmount = 150
    _, err := promo.Evaluate(pc, 100, "", now)
    assertRejection(t, err, "Minimum amount of $150 required to use this promo code")

    // At exactly the minimum the code applies.
    if _, err := promo.Evaluate(pc, 150, "", now); err != nil {
        t.Fatalf("amount equal to minimum rejected: %v", err)
    }
}

func TestEvaluateCategoryRestriction(t *testing.T) {
    pc := basePromo()
    pc.ApplicableCategories = []string{"adventure", "food"}

    _, err := promo.Evaluate(pc, 100, "wellness", now)
    assertRejection(t, err, "This promo code is not applicable for the selected category")

    if _, err := promo.Evaluate(pc, 100, "food", now); err != nil {
        t.Fatalf("matching category rejected: %v", err)
    }
    // No category given: restriction is not applied.
    if _, err := promo.Evaluate(pc, 100, "", now); err != nil {
        t.Fatalf("empty category rejected: %v", err)
    }
}

// Evaluate must be side-effect free: repeated calls with identical inputs
// return identical results.
func TestEvaluateIdempotentPreview(t *testing.T) {
    pc := basePromo()
    pc.DiscountValue = 33
    first, err := promo.Evaluate(pc, 123.45, "adventure", now)
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    for i := 0; i < 10; i++ {
        again, err := promo.Evaluate(pc, 123.45, "adventure", now)
        if err != nil {
            t.Fatalf("unexpected error on repeat %d: %v", i, err)
        }
        if again != first {
            t.Fatalf("repeat %d returned %+v, first returned %+v", i, again, first)
        }
    }
}

func TestEvaluateRoundsToCents(t *testing.T) {
    pc := basePromo()
    pc.DiscountValue = 33 // 33% of 100.99 = 33.3267
    res, err := promo.Evaluate(pc, 100.99, "", now)
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if res.Discount != 33.33 {
        t.Fatalf("discount = %v, want 33.33", res.Discount)
    }
    if res.FinalAmount != 67.66 {
        t.Fatalf("final = %v, want 67.66", res.FinalAmount)
    }
}

func TestNormalize(t *testing.T) {
    if got := promo.Normalize("  save10 "); got != "SAVE10" {
        t.Fatalf("Normalize = %q, want SAVE10", got)
    }
}

func assertRejection(t *testing.T, err error, want string) {
    t.Helper()
    var rej *promo.RejectionError
    if !errors.As(err, &rej) {
        t.Fatalf("error %v is not a RejectionError", err)
    }
    if rej.Reason != want {
        t.Fatalf("reason = %q, want %q", rej.Reason, want)
    }
}
