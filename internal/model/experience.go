package model

import "time"

// Experience represents a bookable travel product: a tour, activity or
// similar offering with a set of dated time slots.  Experiences are
// created and edited by operators; the booking path reads them and only
// mutates slot occupancy.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – display title of the experience.
//  Description – longer marketing description.
//  Location    – free-form location string (city, venue).
//  Category    – category label used for promo restrictions and user
//                preferences (e.g. "adventure", "food").
//  BasePrice   – default price per participant; slots may override it.
//  IsActive    – whether the experience is open for booking.
//  Slots       – the slots belonging to this experience.  Populated only
//                by repository methods that load the full aggregate.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Experience struct {
    ID          uint64    `json:"id"`          // experiences.id
    Title       string    `json:"title"`       // experiences.title
    Description string    `json:"description"` // experiences.description
    Location    string    `json:"location"`    // experiences.location
    Category    string    `json:"category"`    // experiences.category
    BasePrice   float64   `json:"base_price"`  // experiences.base_price
    IsActive    bool      `json:"is_active"`   // experiences.is_active
    Slots       []Slot    `json:"slots,omitempty"`
    CreatedAt   time.Time `json:"created_at"` // experiences.created_at
    UpdatedAt   time.Time `json:"updated_at"` // experiences.updated_at
}

// Slot is a bookable timeframe within an experience.  Slots have no
// identity outside their parent experience: they are created, updated and
// deleted only as part of it, and the repository layer exposes them only
// through ExperienceRepo.  The invariant BookedParticipants <=
// MaxParticipants is enforced by a conditional UPDATE at reservation time;
// IsAvailable flips to false in the same statement once the slot fills.
//
// Fields:
//  ID                 – primary key identifier (scoped to ExperienceID).
//  ExperienceID       – owning experience.
//  Date               – calendar date of the slot.
//  StartTime, EndTime – times of day in "HH:MM" form.
//  MaxParticipants    – capacity ceiling.
//  BookedParticipants – current occupancy.
//  Price              – price per participant for this slot.
//  IsAvailable        – false once the slot is full or withdrawn.
type Slot struct {
    ID                 uint64    `json:"id"`                  // slots.id
    ExperienceID       uint64    `json:"experience_id"`       // slots.experience_id
    Date               time.Time `json:"date"`                // slots.slot_date
    StartTime          string    `json:"start_time"`          // slots.start_time
    EndTime            string    `json:"end_time"`            // slots.end_time
    MaxParticipants    uint32    `json:"max_participants"`    // slots.max_participants
    BookedParticipants uint32    `json:"booked_participants"` // slots.booked_participants
    Price              float64   `json:"price"`               // slots.price
    IsAvailable        bool      `json:"is_available"`        // slots.is_available
    CreatedAt          time.Time `json:"created_at"`          // slots.created_at
    UpdatedAt          time.Time `json:"updated_at"`          // slots.updated_at
}
