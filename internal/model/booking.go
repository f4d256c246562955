package model

import "time"

// BookingStatus values stored in bookings.status.  Cancellation is not
// implemented; bookings are created CONFIRMED and never transition.
const (
    BookingConfirmed = "CONFIRMED"
)

// Booking records a successful reservation against one slot of an
// experience.  Contact details are denormalized onto the row so the record
// stays readable even if the user later changes their profile.  Created
// exactly once per successful commit and never mutated afterward.
//
// Fields:
//  ID               – primary key identifier.
//  BookingReference – short human-readable reference (unique).
//  ExperienceID     – experience booked.
//  SlotID           – slot booked, scoped to ExperienceID.
//  UserID           – user who booked (found or lazily created by email).
//  ContactName      – name given at booking time.
//  ContactEmail     – email given at booking time.
//  ContactPhone     – phone given at booking time.
//  Participants     – number of participants admitted.
//  TotalPrice       – slot price * participants, before discount.
//  DiscountApplied  – promo discount, zero when no code was used.
//  FinalPrice       – TotalPrice - DiscountApplied, never negative.
//  PromoCode        – code redeemed, nil when none.
//  Status           – always CONFIRMED in the current design.
//  CreatedAt        – commit timestamp.
type Booking struct {
    ID               uint64    `json:"id"`                // bookings.id
    BookingReference string    `json:"booking_reference"` // bookings.booking_reference
    ExperienceID     uint64    `json:"experience_id"`     // bookings.experience_id
    SlotID           uint64    `json:"slot_id"`           // bookings.slot_id
    UserID           uint64    `json:"user_id"`           // bookings.user_id
    ContactName      string    `json:"contact_name"`      // bookings.contact_name
    ContactEmail     string    `json:"contact_email"`     // bookings.contact_email
    ContactPhone     string    `json:"contact_phone"`     // bookings.contact_phone
    Participants     uint32    `json:"participants"`      // bookings.participants
    TotalPrice       float64   `json:"total_price"`       // bookings.total_price
    DiscountApplied  float64   `json:"discount_applied"`  // bookings.discount_applied
    FinalPrice       float64   `json:"final_price"`       // bookings.final_price
    PromoCode        *string   `json:"promo_code,omitempty"` // bookings.promo_code (nullable)
    Status           string    `json:"status"`               // bookings.status
    CreatedAt        time.Time `json:"created_at"`           // bookings.created_at
}
