package httpapi

import (
	"encoding/base64"

	"addressbook/internal/domain"
)

// ContactView JSON shape for a contact. Nullable columns flatten to empty
// strings; the image is carried base64-encoded with its MIME type.
type ContactView struct {
	ContactID   string         `json:"contact_id"`
	FirstName   string         `json:"first_name"`
	LastName    string         `json:"last_name"`
	FullName    string         `json:"full_name"`
	DateOfBirth string         `json:"date_of_birth"`
	Address1    string         `json:"address1"`
	Address2    string         `json:"address2"`
	City        string         `json:"city"`
	State       string         `json:"state"`
	ZipCode     string         `json:"zip_code"`
	Email       string         `json:"email"`
	PhoneNumber string         `json:"phone_number"`
	ImageData   string         `json:"image_data,omitempty"`
	ImageType   string         `json:"image_type,omitempty"`
	Categories  []CategoryView `json:"categories"`
}

// CategoryView JSON shape for a category.
type CategoryView struct {
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
}

func contactView(c *domain.Contact) ContactView {
	v := ContactView{
		ContactID:   c.ContactID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		FullName:    c.FullName(),
		Address1:    c.Address1,
		City:        c.City,
		State:       c.State,
		ZipCode:     c.ZipCode,
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
		Categories:  categoryViews(c.Categories),
	}
	if c.DateOfBirth.Valid {
		v.DateOfBirth = c.DateOfBirth.Time.UTC().Format("2006-01-02")
	}
	if c.Address2.Valid {
		v.Address2 = c.Address2.String
	}
	if len(c.ImageData) > 0 {
		v.ImageData = base64.StdEncoding.EncodeToString(c.ImageData)
		v.ImageType = c.ImageType.String
	}
	return v
}

func contactViews(contacts []*domain.Contact) []ContactView {
	views := make([]ContactView, 0, len(contacts))
	for _, c := range contacts {
		views = append(views, contactView(c))
	}
	return views
}

func categoryView(c *domain.Category) CategoryView {
	return CategoryView{
		CategoryID:   c.CategoryID,
		CategoryName: c.CategoryName,
	}
}

func categoryViews(categories []*domain.Category) []CategoryView {
	views := make([]CategoryView, 0, len(categories))
	for _, c := range categories {
		views = append(views, categoryView(c))
	}
	return views
}
