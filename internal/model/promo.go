package model

import "time"

// Discount types accepted in promo_codes.discount_type.
const (
    DiscountPercentage = "percentage"
    DiscountFixed      = "fixed"
)

// PromoCode is a discount rule redeemable against a booking's price.
// Codes are stored upper-cased; lookups normalize input the same way.
// A code is redeemable only while IsActive, within [ValidFrom, ValidUntil]
// (both ends inclusive), while UsedCount < UsageLimit and when the cart
// amount reaches MinAmount.  The usage counter is incremented with a
// conditional UPDATE so concurrent redemptions of a nearly exhausted code
// cannot push UsedCount past UsageLimit.
//
// Fields:
//  ID                   – primary key identifier.
//  Code                 – unique upper-case code string.
//  DiscountType         – "percentage" or "fixed".
//  DiscountValue        – percent (0-100) or fixed currency amount.
//  MinAmount            – minimum qualifying cart amount.
//  MaxDiscount          – optional cap for percentage discounts.
//  ApplicableCategories – restricts redemption to these experience
//                         categories; empty means no restriction.
//  ValidFrom/ValidUntil – validity window, inclusive on both ends.
//  UsageLimit           – maximum number of redemptions.
//  UsedCount            – redemptions so far; never exceeds UsageLimit.
//  IsActive             – operator kill switch.
type PromoCode struct {
    ID                   uint64    `json:"id"`             // promo_codes.id
    Code                 string    `json:"code"`           // promo_codes.code
    DiscountType         string    `json:"discount_type"`  // promo_codes.discount_type
    DiscountValue        float64   `json:"discount_value"` // promo_codes.discount_value
    MinAmount            float64   `json:"min_amount"`     // promo_codes.min_amount
    MaxDiscount          *float64  `json:"max_discount,omitempty"` // promo_codes.max_discount (nullable)
    ApplicableCategories []string  `json:"applicable_categories,omitempty"` // promo_codes.applicable_categories (comma separated)
    ValidFrom            time.Time `json:"valid_from"`  // promo_codes.valid_from
    ValidUntil           time.Time `json:"valid_until"` // promo_codes.valid_until
    UsageLimit           uint32    `json:"usage_limit"` // promo_codes.usage_limit
    UsedCount            uint32    `json:"used_count"`  // promo_codes.used_count
    IsActive             bool      `json:"is_active"`   // promo_codes.is_active
    CreatedAt            time.Time `json:"created_at"`  // promo_codes.created_at
    UpdatedAt            time.Time `json:"updated_at"`  // promo_codes.updated_at
}
