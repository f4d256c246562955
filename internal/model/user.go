package model

import "time"

// User represents an application user record as stored in the `users`
// table.  Users come into existence two ways: operators register through
// the auth endpoints with a password, while customers are created lazily on
// their first booking, keyed by email, with no password set.  The email
// column carries a UNIQUE index so concurrent first-time bookings for the
// same address converge on a single row.
//
// Fields:
//  ID                – primary key identifier.
//  Email             – unique, lower-cased email address.
//  PasswordHash      – bcrypt hash; empty for guest-created rows.
//  Role              – OPERATOR or CUSTOMER.
//  PreferredCategory – seeded from the first booked experience's category.
//  IsActive          – whether the account is active.
//  CreatedAt         – timestamp of creation.
//  UpdatedAt         – timestamp of last update.
type User struct {
    ID                uint64    // users.id
    Email             string    // users.email
    PasswordHash      string    // users.password_hash ('' when guest-created)
    Role              string    // users.role
    PreferredCategory string    // users.preferred_category
    IsActive          bool      // users.is_active
    CreatedAt         time.Time // users.created_at
    UpdatedAt         time.Time // users.updated_at
}

// Roles stored in users.role.
const (
    RoleOperator = "OPERATOR"
    RoleCustomer = "CUSTOMER"
)

// RefreshToken models an entry in the `refresh_tokens` table.  Each refresh
// token belongs to a user; only the SHA-256 hash of the raw token is stored.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
