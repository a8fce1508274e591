package domain

import "time"

// Category user-defined contact grouping (categories table).
// Membership lives in contact_categories (contact_id, category_id); the pair is
// unique and rows are only ever created/destroyed in bulk, never edited.
type Category struct {
	CategoryID   string `db:"category_id"` // UUID, PRIMARY KEY
	AppUserID    string `db:"app_user_id"` // UUID, NOT NULL, FK users
	CategoryName string `db:"category_name"` // VARCHAR(100), NOT NULL

	CreatedAt time.Time `db:"created_at"` // TIMESTAMPTZ, NOT NULL, stored UTC

	// Member contacts (loaded via contact_categories join).
	Contacts []*Contact `db:"-"`
}
