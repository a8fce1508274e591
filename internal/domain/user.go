package domain

import "time"

// AppUser identity principal (users table).
// Lifecycle is owned by the auth layer; the rest of the app only references UserID.
type AppUser struct {
	UserID    string `db:"user_id"` // UUID, PRIMARY KEY
	Email     string `db:"email"`   // VARCHAR(255), NOT NULL, UNIQUE
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`

	// Login hashes:
	// - email_hash = sha256(lower(email))
	// - password_hash = sha256(password), independent of account
	EmailHash    []byte `db:"email_hash"`    // BYTEA, NOT NULL
	PasswordHash []byte `db:"password_hash"` // BYTEA, NOT NULL

	CreatedAt time.Time `db:"created_at"` // TIMESTAMPTZ, NOT NULL, stored UTC
}

// FullName display name used in logs and email prefill.
func (u AppUser) FullName() string {
	return u.FirstName + " " + u.LastName
}
