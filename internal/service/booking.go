// Package service contains the booking commit service and the broker
// publisher.  The commit service owns the transaction that turns a booking
// request into a durable record while preserving the slot-capacity and
// promo-usage invariants; handlers stay thin translators between HTTP and
// this layer.
package service

import (
    "context"
    "database/sql"
    "fmt"
    "regexp"
    "time"

    "github.com/nexis-travel/bookit-server/internal/logger"
    "github.com/nexis-travel/bookit-server/internal/model"
    "github.com/nexis-travel/bookit-server/internal/promo"
    "github.com/nexis-travel/bookit-server/internal/queue"
    "github.com/nexis-travel/bookit-server/internal/repository"
    "github.com/nexis-travel/bookit-server/internal/utils"
)

// ContactInfo is the denormalized contact block supplied with a booking.
type ContactInfo struct {
    Name  string `json:"name"`
    Email string `json:"email"`
    Phone string `json:"phone"`
}

// CreateBookingInput is the decoded booking request.
type CreateBookingInput struct {
    ExperienceID uint64      `json:"experienceId"`
    SlotID       uint64      `json:"slotId"`
    UserInfo     ContactInfo `json:"userInfo"`
    Participants uint32      `json:"participants"`
    PromoCode    string      `json:"promoCode"`
}

// ValidationError reports a missing or malformed request field.  Handlers
// translate it into a 400 response carrying the message.
type ValidationError struct {
    Field   string
    Message string
}

func (e *ValidationError) Error() string { return e.Message }

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateCreateBooking applies the request preconditions before any
// storage is touched.  The first violated rule wins and names the
// offending field.
func ValidateCreateBooking(in *CreateBookingInput) *ValidationError {
    if in.ExperienceID == 0 {
        return &ValidationError{Field: "experienceId", Message: "experienceId is required"}
    }
    if in.SlotID == 0 {
        return &ValidationError{Field: "slotId", Message: "slotId is required"}
    }
    if in.UserInfo.Name == "" {
        return &ValidationError{Field: "userInfo.name", Message: "userInfo.name is required"}
    }
    if in.UserInfo.Email == "" {
        return &ValidationError{Field: "userInfo.email", Message: "userInfo.email is required"}
    }
    if !emailRe.MatchString(in.UserInfo.Email) {
        return &ValidationError{Field: "userInfo.email", Message: "userInfo.email is not a valid email address"}
    }
    if in.UserInfo.Phone == "" {
        return &ValidationError{Field: "userInfo.phone", Message: "userInfo.phone is required"}
    }
    if in.Participants < 1 {
        return &ValidationError{Field: "participants", Message: "participants must be at least 1"}
    }
    return nil
}

// BookingConfirmation is the composed response returned after a successful
// commit: the booking, a snapshot of the experience, the slot timing and
// the computed prices.
type BookingConfirmation struct {
    ID               uint64      `json:"id"`
    BookingReference string      `json:"bookingReference"`
    Experience       struct {
        ID       uint64 `json:"id"`
        Title    string `json:"title"`
        Location string `json:"location"`
        Category string `json:"category"`
    } `json:"experience"`
    Slot struct {
        ID        uint64 `json:"id"`
        Date      string `json:"date"`
        StartTime string `json:"startTime"`
        EndTime   string `json:"endTime"`
    } `json:"slot"`
    UserInfo        ContactInfo `json:"userInfo"`
    Participants    uint32      `json:"participants"`
    TotalPrice      float64     `json:"totalPrice"`
    DiscountApplied float64     `json:"discountApplied"`
    FinalPrice      float64     `json:"finalPrice"`
    PromoCode       *string     `json:"promoCode"`
    Status          string      `json:"status"`
    CreatedAt       time.Time   `json:"createdAt"`
}

// EventPublisher publishes booking lifecycle events to the broker.
type EventPublisher interface {
    PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// BookingService coordinates the reservation commit across the catalog,
// promo, user and booking repositories.  Every write of a commit runs in
// one transaction: if any required write fails the whole booking rolls
// back, so no invariant can be violated silently and no partial booking
// is ever visible.
type BookingService struct {
    db          *sql.DB
    experiences *repository.ExperienceRepo
    promos      *repository.PromoRepo
    users       *repository.UserRepo
    bookings    *repository.BookingRepo
    publisher   EventPublisher // may be nil; events are best-effort
}

// NewBookingService constructs a BookingService.  The publisher may be nil
// when no broker is configured.
func NewBookingService(db *sql.DB, experiences *repository.ExperienceRepo, promos *repository.PromoRepo,
    users *repository.UserRepo, bookings *repository.BookingRepo, publisher EventPublisher) *BookingService {
    if db == nil || experiences == nil || promos == nil || users == nil || bookings == nil {
        panic("nil dependency passed to NewBookingService")
    }
    return &BookingService{
        db:          db,
        experiences: experiences,
        promos:      promos,
        users:       users,
        bookings:    bookings,
        publisher:   publisher,
    }
}

// Create turns a validated booking request into a durable booking record.
//
// The sequence inside the transaction: load the experience and slot and
// apply the admission preconditions, check capacity against the freshly
// read row, price the slot, evaluate and consume the promo code, resolve
// the user by email (creating a customer row when absent), insert the
// booking, and finally reserve capacity with the conditional UPDATE that
// is the real guard under concurrency.  Expected business failures come
// back as the repository sentinels, *promo.RejectionError or
// *ValidationError; anything else is an infrastructure error.
func (s *BookingService) Create(ctx context.Context, in *CreateBookingInput) (*BookingConfirmation, error) {
    if verr := ValidateCreateBooking(in); verr != nil {
        return nil, verr
    }

    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, fmt.Errorf("begin booking tx: %w", err)
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    exp, slot, err := s.experiences.GetForBookingTx(ctx, tx, in.ExperienceID, in.SlotID)
    if err != nil {
        return nil, err
    }

    // Fast capacity check against the row just read.  The conditional
    // UPDATE below re-checks atomically at write time; this one only
    // short-circuits requests that obviously cannot fit.
    if slot.BookedParticipants+in.Participants > slot.MaxParticipants {
        return nil, repository.ErrCapacityExceeded
    }

    total := promo.Round2(slot.Price * float64(in.Participants))
    discount := 0.0
    final := total
    var promoUsed *string

    if in.PromoCode != "" {
        code := promo.Normalize(in.PromoCode)
        pc, err := s.promos.FindActiveByCodeTx(ctx, tx, code)
        if err == sql.ErrNoRows {
            return nil, promo.ErrInvalidCode
        }
        if err != nil {
            return nil, fmt.Errorf("load promo %s: %w", code, err)
        }
        res, err := promo.Evaluate(pc, total, exp.Category, time.Now().UTC())
        if err != nil {
            return nil, err
        }
        ok, err := s.promos.IncrementUsedTx(ctx, tx, code)
        if err != nil {
            return nil, fmt.Errorf("increment promo usage %s: %w", code, err)
        }
        if !ok {
            // Lost a race against the last redemption of this code.
            return nil, promo.LimitReached()
        }
        discount = res.Discount
        final = res.FinalAmount
        promoUsed = &code
    }

    user, err := s.users.FindOrCreateGuestTx(ctx, tx, in.UserInfo.Email, exp.Category)
    if err != nil {
        return nil, fmt.Errorf("resolve user: %w", err)
    }

    ref, err := utils.NewBookingReference()
    if err != nil {
        return nil, fmt.Errorf("generate booking reference: %w", err)
    }
    booking := &model.Booking{
        BookingReference: ref,
        ExperienceID:     exp.ID,
        SlotID:           slot.ID,
        UserID:           user.ID,
        ContactName:      in.UserInfo.Name,
        ContactEmail:     in.UserInfo.Email,
        ContactPhone:     in.UserInfo.Phone,
        Participants:     in.Participants,
        TotalPrice:       total,
        DiscountApplied:  discount,
        FinalPrice:       final,
        PromoCode:        promoUsed,
        Status:           model.BookingConfirmed,
    }
    if err := s.bookings.CreateTx(ctx, tx, booking); err != nil {
        return nil, fmt.Errorf("insert booking: %w", err)
    }

    if err := s.experiences.ReserveSlotTx(ctx, tx, exp.ID, slot.ID, in.Participants); err != nil {
        return nil, err
    }

    if err := s.users.TouchTx(ctx, tx, user.ID); err != nil {
        return nil, fmt.Errorf("touch user: %w", err)
    }

    if err := tx.Commit(); err != nil {
        return nil, fmt.Errorf("commit booking tx: %w", err)
    }
    committed = true

    s.publish(ctx, booking, exp, slot, user)

    conf := &BookingConfirmation{
        ID:               booking.ID,
        BookingReference: booking.BookingReference,
        UserInfo:         in.UserInfo,
        Participants:     booking.Participants,
        TotalPrice:       booking.TotalPrice,
        DiscountApplied:  booking.DiscountApplied,
        FinalPrice:       booking.FinalPrice,
        PromoCode:        booking.PromoCode,
        Status:           booking.Status,
        CreatedAt:        booking.CreatedAt,
    }
    conf.Experience.ID = exp.ID
    conf.Experience.Title = exp.Title
    conf.Experience.Location = exp.Location
    conf.Experience.Category = exp.Category
    conf.Slot.ID = slot.ID
    conf.Slot.Date = slot.Date.UTC().Format("2006-01-02")
    conf.Slot.StartTime = slot.StartTime
    conf.Slot.EndTime = slot.EndTime
    return conf, nil
}

// publish sends the booking.confirmed event.  Publishing failures are
// logged and swallowed: the booking has already committed and the client
// must see it as confirmed.
func (s *BookingService) publish(ctx context.Context, b *model.Booking, exp *model.Experience, slot *model.Slot, user model.User) {
    if s.publisher == nil {
        return
    }
    ev := queue.BookingConfirmedEvent{
        BookingID:        b.ID,
        BookingReference: b.BookingReference,
        UserID:           user.ID,
        ContactEmail:     b.ContactEmail,
        ExperienceID:     exp.ID,
        ExperienceTitle:  exp.Title,
        Location:         exp.Location,
        Category:         exp.Category,
        SlotDate:         slot.Date.UTC().Format("2006-01-02"),
        StartTime:        slot.StartTime,
        EndTime:          slot.EndTime,
        Participants:     b.Participants,
        TotalPrice:       b.TotalPrice,
        DiscountApplied:  b.DiscountApplied,
        FinalPrice:       b.FinalPrice,
        ConfirmedAt:      time.Now().UTC().Format(time.RFC3339),
    }
    if b.PromoCode != nil {
        ev.PromoCode = *b.PromoCode
    }
    if err := s.publisher.PublishBookingConfirmed(ctx, ev); err != nil {
        logger.Warn("booking.confirmed publish failed", "booking_reference", b.BookingReference, "error", err)
    }
}

// ListByEmail returns all bookings belonging to the user with the given
// email.  It returns sql.ErrNoRows when no such user exists; a user with
// zero bookings yields an empty slice.
func (s *BookingService) ListByEmail(ctx context.Context, email string) ([]repository.BookingDetail, error) {
    user, err := s.users.GetByEmail(ctx, email)
    if err != nil {
        return nil, err
    }
    return s.bookings.ListByUser(ctx, user.ID)
}
