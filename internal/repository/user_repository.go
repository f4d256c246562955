package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/nexis-travel/bookit-server/internal/model"
	"github.com/nexis-travel/bookit-server/internal/utils"
)

// UserRepo provides data access to the users table.  Two creation paths
// exist: Create for operators registering with a password, and
// FindOrCreateGuestTx for the booking commit, which lazily materializes a
// customer row keyed by email.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id, email, password_hash, role, preferred_category, is_active, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.PreferredCategory,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts a password-bearing user and returns its ID.  The email is
// normalized to lower case; a duplicate returns ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, email, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role) VALUES (?,?,?)",
		email, hash, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email)
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id)
	return scanUser(row)
}

// FindOrCreateGuestTx resolves the user row for a booking's contact email
// within the commit transaction.  When no user exists, a CUSTOMER row is
// inserted with no password and the booked experience's category seeded as
// the preference.  The users.email UNIQUE index settles concurrent
// first-time bookings for the same address: the loser of the race hits a
// 1062 duplicate-key error and re-reads the winner's row.
func (r *UserRepo) FindOrCreateGuestTx(ctx context.Context, tx *sql.Tx, email, category string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := tx.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email)
	u, err := scanUser(row)
	if err == nil {
		return u, nil
	}
	if err != sql.ErrNoRows {
		return model.User{}, err
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role, preferred_category) VALUES (?, '', ?, ?)",
		email, model.RoleCustomer, category)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			row := tx.QueryRowContext(ctx,
				"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email)
			return scanUser(row)
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	u = model.User{
		ID:                uint64(id),
		Email:             email,
		Role:              model.RoleCustomer,
		PreferredCategory: category,
		IsActive:          true,
	}
	return u, nil
}

// TouchTx bumps a user's updated_at inside the commit transaction.  The
// bookings.user_id column is the user's booking list relationally; this
// write is the aggregate-level trace that the list changed.
func (r *UserRepo) TouchTx(ctx context.Context, tx *sql.Tx, userID uint64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE users SET updated_at = ? WHERE id = ?", time.Now().UTC(), userID)
	return err
}
