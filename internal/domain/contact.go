package domain

import (
	"database/sql"
	"time"
)

// Contact address-book entry (contacts table).
// Every query against this model is scoped by AppUserID; a contact is never
// visible outside its owning user.
type Contact struct {
	ContactID string `db:"contact_id"` // UUID, PRIMARY KEY
	AppUserID string `db:"app_user_id"` // UUID, NOT NULL, FK users

	FirstName   string       `db:"first_name"` // VARCHAR(100), NOT NULL
	LastName    string       `db:"last_name"`  // VARCHAR(100), NOT NULL
	DateOfBirth sql.NullTime `db:"date_of_birth"` // DATE, nullable, stored UTC

	Address1 string         `db:"address1"` // VARCHAR(255), NOT NULL
	Address2 sql.NullString `db:"address2"` // VARCHAR(255), nullable
	City     string         `db:"city"`     // VARCHAR(100), NOT NULL
	State    string         `db:"state"`    // CHAR(2), NOT NULL, US state code
	ZipCode  string         `db:"zip_code"` // VARCHAR(10), NOT NULL

	Email       string `db:"email"`        // VARCHAR(255), NOT NULL
	PhoneNumber string `db:"phone_number"` // VARCHAR(25), NOT NULL

	// Optional photo, stored inline.
	ImageData []byte         `db:"image_data"` // BYTEA, nullable
	ImageType sql.NullString `db:"image_type"` // VARCHAR(100), nullable, MIME type

	CreatedAt time.Time `db:"created_at"` // TIMESTAMPTZ, NOT NULL, set once at creation, stored UTC

	// Categories the contact belongs to (loaded via contact_categories join).
	Categories []*Category `db:"-"`
}

// FullName derived "First Last"; search matches against this value.
func (c Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

// CategoryIDs ids of the loaded category set.
func (c Contact) CategoryIDs() []string {
	ids := make([]string, 0, len(c.Categories))
	for _, cat := range c.Categories {
		ids = append(ids, cat.CategoryID)
	}
	return ids
}
