// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a booking commits successfully.
// It carries enough information for downstream consumers to log, notify or
// feed analytics without querying the primary database.
type BookingConfirmedEvent struct {
    BookingID        uint64  `json:"booking_id"`
    BookingReference string  `json:"booking_reference"`
    UserID           uint64  `json:"user_id"`
    ContactEmail     string  `json:"contact_email"`
    ExperienceID     uint64  `json:"experience_id"`
    ExperienceTitle  string  `json:"experience_title"`
    Location         string  `json:"location"`
    Category         string  `json:"category"`
    SlotDate         string  `json:"slot_date"`
    StartTime        string  `json:"start_time"`
    EndTime          string  `json:"end_time"`
    Participants     uint32  `json:"participants"`
    TotalPrice       float64 `json:"total_price"`
    DiscountApplied  float64 `json:"discount_applied"`
    FinalPrice       float64 `json:"final_price"`
    PromoCode        string  `json:"promo_code,omitempty"`
    ConfirmedAt      string  `json:"confirmed_at"`
}
