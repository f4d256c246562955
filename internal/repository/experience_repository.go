package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/nexis-travel/bookit-server/internal/model"
)

// ExperienceRepo provides data access for experiences and their slots.
// Slots are value objects owned by the experience aggregate: they are
// created, updated and deleted only through this repository, and every
// slot query is scoped by experience_id.  All timestamp fields are
// stored in UTC.
type ExperienceRepo struct {
    db *sql.DB
}

// NewExperienceRepo returns a new ExperienceRepo bound to the given database.
func NewExperienceRepo(db *sql.DB) *ExperienceRepo { return &ExperienceRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions that
// span this repository and others.
func (r *ExperienceRepo) DB() *sql.DB { return r.db }

const experienceCols = `id, title, description, location, category, base_price, is_active, created_at, updated_at`

func scanExperience(row interface{ Scan(...any) error }) (*model.Experience, error) {
    var e model.Experience
    err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.Category,
        &e.BasePrice, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
    if err != nil {
        return nil, err
    }
    return &e, nil
}

// GetByID loads a single experience without its slots.  It returns
// ErrExperienceNotFound when no row exists.
func (r *ExperienceRepo) GetByID(ctx context.Context, id uint64) (*model.Experience, error) {
    row := r.db.QueryRowContext(ctx,
        `SELECT `+experienceCols+` FROM experiences WHERE id = ?`, id)
    e, err := scanExperience(row)
    if err == sql.ErrNoRows {
        return nil, ErrExperienceNotFound
    }
    if err != nil {
        return nil, err
    }
    return e, nil
}

// GetWithSlots loads an experience together with its full slot collection,
// ordered by date and start time.  It returns ErrExperienceNotFound when
// the experience does not exist.
func (r *ExperienceRepo) GetWithSlots(ctx context.Context, id uint64) (*model.Experience, error) {
    e, err := r.GetByID(ctx, id)
    if err != nil {
        return nil, err
    }
    slots, err := r.listSlots(ctx, r.db, id)
    if err != nil {
        return nil, err
    }
    e.Slots = slots
    return e, nil
}

type querier interface {
    QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (r *ExperienceRepo) listSlots(ctx context.Context, q querier, experienceID uint64) ([]model.Slot, error) {
    const sel = `SELECT id, experience_id, slot_date, start_time, end_time,
                        max_participants, booked_participants, price, is_available,
                        created_at, updated_at
                 FROM slots
                 WHERE experience_id = ?
                 ORDER BY slot_date, start_time`
    rows, err := q.QueryContext(ctx, sel, experienceID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    slots := make([]model.Slot, 0)
    for rows.Next() {
        var s model.Slot
        if err := rows.Scan(&s.ID, &s.ExperienceID, &s.Date, &s.StartTime, &s.EndTime,
            &s.MaxParticipants, &s.BookedParticipants, &s.Price, &s.IsAvailable,
            &s.CreatedAt, &s.UpdatedAt); err != nil {
            return nil, err
        }
        slots = append(slots, s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return slots, nil
}

// Search lists active experiences with optional filters.  Category matches
// exactly; location and q match with LIKE against location and title /
// description respectively.  Results are ordered newest first.
func (r *ExperienceRepo) Search(ctx context.Context, category, location, q string) ([]model.Experience, error) {
    query := `SELECT ` + experienceCols + ` FROM experiences WHERE is_active = TRUE`
    args := make([]any, 0, 4)
    if category != "" {
        query += ` AND category = ?`
        args = append(args, category)
    }
    if location != "" {
        query += ` AND location LIKE ?`
        args = append(args, "%"+location+"%")
    }
    if q != "" {
        query += ` AND (title LIKE ? OR description LIKE ?)`
        like := "%" + strings.TrimSpace(q) + "%"
        args = append(args, like, like)
    }
    query += ` ORDER BY created_at DESC`
    rows, err := r.db.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Experience, 0)
    for rows.Next() {
        var e model.Experience
        if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.Category,
            &e.BasePrice, &e.IsActive, &e.CreatedAt, &e.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, e)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Create inserts a new experience and populates the generated ID.
func (r *ExperienceRepo) Create(ctx context.Context, e *model.Experience) error {
    const q = `INSERT INTO experiences (title, description, location, category, base_price, is_active)
               VALUES (?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, e.Title, e.Description, e.Location, e.Category, e.BasePrice, e.IsActive)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    e.ID = uint64(id)
    return nil
}

// Update replaces the mutable fields of an experience.  It returns
// ErrExperienceNotFound when the row does not exist.
func (r *ExperienceRepo) Update(ctx context.Context, e *model.Experience) error {
    const q = `UPDATE experiences
               SET title = ?, description = ?, location = ?, category = ?, base_price = ?, is_active = ?
               WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, e.Title, e.Description, e.Location, e.Category,
        e.BasePrice, e.IsActive, e.ID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        // Either the row is gone or nothing changed; distinguish with a read.
        if _, err := r.GetByID(ctx, e.ID); err != nil {
            return err
        }
    }
    return nil
}

// Deactivate flips an experience's is_active flag off.  Existing bookings
// are untouched; new bookings against it fail with ErrExperienceInactive.
func (r *ExperienceRepo) Deactivate(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE experiences SET is_active = FALSE WHERE id = ?`, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        if _, err := r.GetByID(ctx, id); err != nil {
            return err
        }
    }
    return nil
}

// AddSlot inserts a slot under an experience and populates the generated
// ID.  The experience must exist; a foreign key violation surfaces as a
// plain error since operators only reach this through routes that have
// already loaded the experience.
func (r *ExperienceRepo) AddSlot(ctx context.Context, s *model.Slot) error {
    const q = `INSERT INTO slots (experience_id, slot_date, start_time, end_time,
                                  max_participants, booked_participants, price, is_available)
               VALUES (?, ?, ?, ?, ?, 0, ?, TRUE)`
    res, err := r.db.ExecContext(ctx, q, s.ExperienceID,
        s.Date.UTC().Format("2006-01-02"), s.StartTime, s.EndTime,
        s.MaxParticipants, s.Price)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    s.ID = uint64(id)
    return nil
}

// UpdateSlot adjusts a slot's schedule, pricing and capacity ceiling.  The
// occupancy counter is deliberately not writable here; it moves only
// through ReserveSlotTx.  Lowering max_participants below the current
// occupancy is rejected with ErrConflict.
func (r *ExperienceRepo) UpdateSlot(ctx context.Context, s *model.Slot) error {
    const q = `UPDATE slots
               SET slot_date = ?, start_time = ?, end_time = ?, max_participants = ?,
                   price = ?, is_available = (? AND booked_participants < ?)
               WHERE id = ? AND experience_id = ? AND booked_participants <= ?`
    res, err := r.db.ExecContext(ctx, q,
        s.Date.UTC().Format("2006-01-02"), s.StartTime, s.EndTime, s.MaxParticipants,
        s.Price, s.IsAvailable, s.MaxParticipants,
        s.ID, s.ExperienceID, s.MaxParticipants)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        // Distinguish a missing slot from a capacity conflict.
        var booked uint32
        err := r.db.QueryRowContext(ctx,
            `SELECT booked_participants FROM slots WHERE id = ? AND experience_id = ?`,
            s.ID, s.ExperienceID).Scan(&booked)
        if err == sql.ErrNoRows {
            return ErrSlotNotFound
        }
        if err != nil {
            return err
        }
        if booked > s.MaxParticipants {
            return ErrConflict
        }
    }
    return nil
}

// DeleteSlot removes an empty slot from an experience.  Slots that already
// carry bookings cannot be deleted and return ErrConflict.
func (r *ExperienceRepo) DeleteSlot(ctx context.Context, experienceID, slotID uint64) error {
    res, err := r.db.ExecContext(ctx,
        `DELETE FROM slots WHERE id = ? AND experience_id = ? AND booked_participants = 0`,
        slotID, experienceID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        var booked uint32
        err := r.db.QueryRowContext(ctx,
            `SELECT booked_participants FROM slots WHERE id = ? AND experience_id = ?`,
            slotID, experienceID).Scan(&booked)
        if err == sql.ErrNoRows {
            return ErrSlotNotFound
        }
        if err != nil {
            return err
        }
        return ErrConflict
    }
    return nil
}

// GetForBookingTx loads an experience and one of its slots within a
// transaction and applies the admission preconditions: the experience must
// exist and be active, the slot must exist and be available.  It returns
// the sentinel errors the booking path maps onto 404/410 responses.
func (r *ExperienceRepo) GetForBookingTx(ctx context.Context, tx *sql.Tx, experienceID, slotID uint64) (*model.Experience, *model.Slot, error) {
    row := tx.QueryRowContext(ctx,
        `SELECT `+experienceCols+` FROM experiences WHERE id = ?`, experienceID)
    e, err := scanExperience(row)
    if err == sql.ErrNoRows {
        return nil, nil, ErrExperienceNotFound
    }
    if err != nil {
        return nil, nil, err
    }
    if !e.IsActive {
        return nil, nil, ErrExperienceInactive
    }
    var s model.Slot
    err = tx.QueryRowContext(ctx,
        `SELECT id, experience_id, slot_date, start_time, end_time,
                max_participants, booked_participants, price, is_available,
                created_at, updated_at
         FROM slots WHERE id = ? AND experience_id = ?`,
        slotID, experienceID).Scan(
        &s.ID, &s.ExperienceID, &s.Date, &s.StartTime, &s.EndTime,
        &s.MaxParticipants, &s.BookedParticipants, &s.Price, &s.IsAvailable,
        &s.CreatedAt, &s.UpdatedAt)
    if err == sql.ErrNoRows {
        return nil, nil, ErrSlotNotFound
    }
    if err != nil {
        return nil, nil, err
    }
    if !s.IsAvailable {
        return nil, nil, ErrSlotUnavailable
    }
    return e, &s, nil
}

// ReserveSlotTx atomically admits `participants` into a slot.  The capacity
// check and the occupancy increment are a single conditional UPDATE, so two
// requests racing over the last remaining spots cannot both succeed: the
// statement only matches while the incremented occupancy still fits under
// max_participants, and it flips is_available off in the same write when
// the slot fills.  Zero affected rows means the reservation lost the race
// (or never fit) and surfaces as ErrCapacityExceeded; the caller's rollback
// then undoes every earlier write of the commit.
func (r *ExperienceRepo) ReserveSlotTx(ctx context.Context, tx *sql.Tx, experienceID, slotID uint64, participants uint32) error {
    // MySQL evaluates SET clauses left to right against updated values, so
    // the availability expression below sees the incremented counter.
    const q = `UPDATE slots
               SET booked_participants = booked_participants + ?,
                   is_available = (booked_participants < max_participants)
               WHERE id = ? AND experience_id = ?
                 AND is_available = TRUE
                 AND booked_participants + ? <= max_participants`
    res, err := tx.ExecContext(ctx, q, participants, slotID, experienceID, participants)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrCapacityExceeded
    }
    return nil
}
