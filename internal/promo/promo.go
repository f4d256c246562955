// Package promo implements the discount evaluation rules for promo codes.
// Evaluate is a pure function of the stored code state, the cart amount and
// the optional experience category: it never touches storage, so the same
// inputs always produce the same result.  The promo preview endpoint and
// the booking commit path share this single implementation; only the commit
// path increments the usage counter, and it does so through the repository.
package promo

import (
    "fmt"
    "math"
    "strings"
    "time"

    "github.com/nexis-travel/bookit-server/internal/model"
)

// Result carries the outcome of a successful evaluation.
type Result struct {
    Discount    float64 // discount amount, rounded to 2 decimals
    FinalAmount float64 // amount - discount, never negative, rounded to 2 decimals
}

// RejectionError reports why a code cannot be redeemed.  The Reason is a
// human-readable message surfaced verbatim to the caller.
type RejectionError struct {
    Reason string
}

func (e *RejectionError) Error() string { return e.Reason }

// Rejection reasons.  ErrInvalidCode is used by callers when the lookup
// itself finds no active code; the remaining messages come from Evaluate.
var (
    ErrInvalidCode = &RejectionError{Reason: "Invalid promo code"}
    errExpired     = &RejectionError{Reason: "Promo code has expired"}
    errLimit       = &RejectionError{Reason: "Promo code usage limit reached"}
    errCategory    = &RejectionError{Reason: "This promo code is not applicable for the selected category"}
)

// LimitReached returns the rejection used when the usage ceiling is hit.
// The repository reuses it when the conditional usage increment affects
// zero rows, so a code exhausted mid-commit reports the same reason as one
// exhausted before the request started.
func LimitReached() *RejectionError { return errLimit }

// Normalize upper-cases and trims a raw code so lookups match the stored
// representation.
func Normalize(code string) string {
    return strings.ToUpper(strings.TrimSpace(code))
}

// Evaluate applies the redemption rules in order and computes the discount.
// The first failing rule wins and is returned as a *RejectionError.  The
// validity window is inclusive on both ends: a code is live at exactly
// ValidFrom and at exactly ValidUntil.
func Evaluate(pc *model.PromoCode, amount float64, category string, now time.Time) (Result, error) {
    if now.Before(pc.ValidFrom) || now.After(pc.ValidUntil) {
        return Result{}, errExpired
    }
    if pc.UsedCount >= pc.UsageLimit {
        return Result{}, errLimit
    }
    if amount < pc.MinAmount {
        return Result{}, &RejectionError{
            Reason: fmt.Sprintf("Minimum amount of $%g required to use this promo code", pc.MinAmount),
        }
    }
    if category != "" && len(pc.ApplicableCategories) > 0 && !containsFold(pc.ApplicableCategories, category) {
        return Result{}, errCategory
    }

    var discount float64
    switch pc.DiscountType {
    case model.DiscountPercentage:
        discount = amount * pc.DiscountValue / 100
        if pc.MaxDiscount != nil && discount > *pc.MaxDiscount {
            discount = *pc.MaxDiscount
        }
    case model.DiscountFixed:
        discount = pc.DiscountValue
        if discount > amount {
            // A fixed discount can never exceed the amount it discounts.
            discount = amount
        }
    default:
        return Result{}, ErrInvalidCode
    }

    discount = Round2(discount)
    final := Round2(amount - discount)
    if final < 0 {
        final = 0
    }
    return Result{Discount: discount, FinalAmount: final}, nil
}

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
    return math.Round(v*100) / 100
}

func containsFold(list []string, s string) bool {
    for _, v := range list {
        if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(s)) {
            return true
        }
    }
    return false
}
