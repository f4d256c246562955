package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/nexis-travel/bookit-server/internal/model"
)

// BookingRepo provides data access for booking records.  Bookings are
// written exactly once, inside the commit transaction owned by the booking
// service, and never mutated afterward.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// CreateTx inserts a new booking within the scope of an existing
// transaction and populates the generated ID and creation timestamp on the
// provided record.  The caller must commit or roll back the transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
    const q = `INSERT INTO bookings
               (booking_reference, experience_id, slot_id, user_id,
                contact_name, contact_email, contact_phone, participants,
                total_price, discount_applied, final_price, promo_code, status)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, q,
        b.BookingReference, b.ExperienceID, b.SlotID, b.UserID,
        b.ContactName, b.ContactEmail, b.ContactPhone, b.Participants,
        b.TotalPrice, b.DiscountApplied, b.FinalPrice, b.PromoCode, b.Status)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    // Query back the row to populate the DB-assigned timestamp.
    return tx.QueryRowContext(ctx,
        `SELECT created_at FROM bookings WHERE id = ?`, b.ID).Scan(&b.CreatedAt)
}

// BookingDetail is a booking joined with a summary of the experience and
// slot it references, as returned to customers listing their bookings.
type BookingDetail struct {
    ID               uint64  `json:"id"`
    BookingReference string  `json:"bookingReference"`
    Participants     uint32  `json:"participants"`
    TotalPrice       float64 `json:"totalPrice"`
    DiscountApplied  float64 `json:"discountApplied"`
    FinalPrice       float64 `json:"finalPrice"`
    PromoCode        *string `json:"promoCode"`
    Status           string  `json:"status"`
    CreatedAt        string  `json:"createdAt"`
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
}

// ListByUser returns all bookings made by a user, newest first, each joined
// with its experience and slot summary.  A user with no bookings yields an
// empty slice, not an error.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
    const q = `SELECT b.id, b.booking_reference, b.participants,
                      b.total_price, b.discount_applied, b.final_price,
                      b.promo_code, b.status, b.created_at,
                      e.id, e.title, e.location, e.category,
                      s.id, s.slot_date, s.start_time, s.end_time
               FROM bookings b
               JOIN experiences e ON e.id = b.experience_id
               JOIN slots s ON s.id = b.slot_id
               WHERE b.user_id = ?
               ORDER BY b.created_at DESC`
    return r.queryDetails(ctx, q, userID)
}

// ListByExperience returns all bookings against one experience, newest
// first.  Used by the operator surface.
func (r *BookingRepo) ListByExperience(ctx context.Context, experienceID uint64) ([]BookingDetail, error) {
    const q = `SELECT b.id, b.booking_reference, b.participants,
                      b.total_price, b.discount_applied, b.final_price,
                      b.promo_code, b.status, b.created_at,
                      e.id, e.title, e.location, e.category,
                      s.id, s.slot_date, s.start_time, s.end_time
               FROM bookings b
               JOIN experiences e ON e.id = b.experience_id
               JOIN slots s ON s.id = b.slot_id
               WHERE b.experience_id = ?
               ORDER BY b.created_at DESC`
    return r.queryDetails(ctx, q, experienceID)
}

func (r *BookingRepo) queryDetails(ctx context.Context, q string, arg any) ([]BookingDetail, error) {
    rows, err := r.db.QueryContext(ctx, q, arg)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    details := make([]BookingDetail, 0)
    for rows.Next() {
        var (
            d         BookingDetail
            promoCode sql.NullString
            createdAt sql.NullTime
            slotDate  sql.NullTime
        )
        if err := rows.Scan(
            &d.ID, &d.BookingReference, &d.Participants,
            &d.TotalPrice, &d.DiscountApplied, &d.FinalPrice,
            &promoCode, &d.Status, &createdAt,
            &d.Experience.ID, &d.Experience.Title, &d.Experience.Location, &d.Experience.Category,
            &d.Slot.ID, &slotDate, &d.Slot.StartTime, &d.Slot.EndTime,
        ); err != nil {
            return nil, err
        }
        if promoCode.Valid {
            pc := promoCode.String
            d.PromoCode = &pc
        }
        if createdAt.Valid {
            d.CreatedAt = createdAt.Time.UTC().Format(time.RFC3339)
        }
        if slotDate.Valid {
            d.Slot.Date = slotDate.Time.UTC().Format("2006-01-02")
        }
        details = append(details, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return details, nil
}
