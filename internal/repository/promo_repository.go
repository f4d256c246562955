package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/nexis-travel/bookit-server/internal/model"
)

// PromoRepo provides data access for promo codes.  Codes are stored
// upper-cased; callers are expected to normalize input before lookups
// (promo.Normalize).  The usage counter moves only through the guarded
// increment, never through a read-modify-write in application code.
type PromoRepo struct {
    db *sql.DB
}

// NewPromoRepo returns a new PromoRepo bound to the given database.
func NewPromoRepo(db *sql.DB) *PromoRepo { return &PromoRepo{db: db} }

const promoCols = `id, code, discount_type, discount_value, min_amount, max_discount,
                   applicable_categories, valid_from, valid_until, usage_limit, used_count,
                   is_active, created_at, updated_at`

func scanPromo(row interface{ Scan(...any) error }) (*model.PromoCode, error) {
    var (
        pc          model.PromoCode
        maxDiscount sql.NullFloat64
        categories  string
    )
    err := row.Scan(&pc.ID, &pc.Code, &pc.DiscountType, &pc.DiscountValue, &pc.MinAmount,
        &maxDiscount, &categories, &pc.ValidFrom, &pc.ValidUntil,
        &pc.UsageLimit, &pc.UsedCount, &pc.IsActive, &pc.CreatedAt, &pc.UpdatedAt)
    if err != nil {
        return nil, err
    }
    if maxDiscount.Valid {
        v := maxDiscount.Float64
        pc.MaxDiscount = &v
    }
    if categories != "" {
        for _, c := range strings.Split(categories, ",") {
            if c = strings.TrimSpace(c); c != "" {
                pc.ApplicableCategories = append(pc.ApplicableCategories, c)
            }
        }
    }
    return &pc, nil
}

// FindActiveByCode returns the active promo code with the exact (already
// normalized) code string, or sql.ErrNoRows when none exists.  Inactive
// codes are invisible to this lookup, matching the redemption rule that a
// disabled code reads as invalid rather than expired.
func (r *PromoRepo) FindActiveByCode(ctx context.Context, code string) (*model.PromoCode, error) {
    row := r.db.QueryRowContext(ctx,
        `SELECT `+promoCols+` FROM promo_codes WHERE code = ? AND is_active = TRUE`, code)
    return scanPromo(row)
}

// FindActiveByCodeTx is FindActiveByCode within an existing transaction,
// used by the booking commit so the evaluation and the usage increment see
// the same snapshot.
func (r *PromoRepo) FindActiveByCodeTx(ctx context.Context, tx *sql.Tx, code string) (*model.PromoCode, error) {
    row := tx.QueryRowContext(ctx,
        `SELECT `+promoCols+` FROM promo_codes WHERE code = ? AND is_active = TRUE`, code)
    return scanPromo(row)
}

// IncrementUsedTx bumps a code's usage counter by one, guarded by the
// usage limit: the UPDATE matches only while used_count < usage_limit, so
// concurrent redemptions of a nearly exhausted code cannot overshoot.  It
// returns false (and no error) when the guard rejected the increment.
func (r *PromoRepo) IncrementUsedTx(ctx context.Context, tx *sql.Tx, code string) (bool, error) {
    res, err := tx.ExecContext(ctx,
        `UPDATE promo_codes SET used_count = used_count + 1
         WHERE code = ? AND is_active = TRUE AND used_count < usage_limit`, code)
    if err != nil {
        return false, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    return n > 0, nil
}

// Create inserts a new promo code and populates the generated ID.  The
// code string must already be normalized; a duplicate code returns
// ErrConflict.
func (r *PromoRepo) Create(ctx context.Context, pc *model.PromoCode) error {
    var maxDiscount any
    if pc.MaxDiscount != nil {
        maxDiscount = *pc.MaxDiscount
    }
    const q = `INSERT INTO promo_codes
               (code, discount_type, discount_value, min_amount, max_discount,
                applicable_categories, valid_from, valid_until, usage_limit, used_count, is_active)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)`
    res, err := r.db.ExecContext(ctx, q,
        pc.Code, pc.DiscountType, pc.DiscountValue, pc.MinAmount, maxDiscount,
        strings.Join(pc.ApplicableCategories, ","),
        pc.ValidFrom.UTC(), pc.ValidUntil.UTC(), pc.UsageLimit, pc.IsActive)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return ErrConflict
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    pc.ID = uint64(id)
    return nil
}

// ListAll returns every promo code, newest first, for the operator admin
// surface.  Inactive and exhausted codes are included.
func (r *PromoRepo) ListAll(ctx context.Context) ([]model.PromoCode, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+promoCols+` FROM promo_codes ORDER BY created_at DESC`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.PromoCode, 0)
    for rows.Next() {
        pc, err := scanPromo(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *pc)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Deactivate flips a code's is_active flag off.  It returns sql.ErrNoRows
// when the code does not exist.
func (r *PromoRepo) Deactivate(ctx context.Context, code string) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE promo_codes SET is_active = FALSE WHERE code = ?`, code)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        var id uint64
        err := r.db.QueryRowContext(ctx,
            `SELECT id FROM promo_codes WHERE code = ?`, code).Scan(&id)
        if err != nil {
            return err
        }
    }
    return nil
}
