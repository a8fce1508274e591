package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"addressbook/internal/domain"
	"addressbook/internal/repository"

	"go.uber.org/zap"
)

// ContactService contact use cases. Inputs are allow-listed structs; the owning
// user id is always taken from the resolved session, never from the payload.
type ContactService interface {
	// ListContacts list view model: the user's contacts (optionally one
	// category's members) plus the category options for the filter.
	ListContacts(ctx context.Context, req ListContactsRequest) (*ContactListResponse, error)

	// SearchContacts case-insensitive substring match against the full name;
	// empty query behaves exactly like the unfiltered list.
	SearchContacts(ctx context.Context, appUserID, query string) ([]*domain.Contact, error)

	GetContact(ctx context.Context, appUserID, contactID string) (*domain.Contact, error)

	// ContactFormOptions category + state options for the create/edit form.
	ContactFormOptions(ctx context.Context, appUserID string) (*ContactFormOptions, error)

	CreateContact(ctx context.Context, appUserID string, input ContactInput) (string, error)
	UpdateContact(ctx context.Context, appUserID, contactID string, input ContactInput) error
	DeleteContact(ctx context.Context, appUserID, contactID string) error

	// ExportContacts XLSX workbook of the user's contacts.
	ExportContacts(ctx context.Context, appUserID string) ([]byte, error)
}

type contactService struct {
	contactsRepo   repository.ContactsRepository
	categoriesRepo repository.CategoriesRepository
	logger         *zap.Logger
}

// NewContactService creates the ContactService.
func NewContactService(contactsRepo repository.ContactsRepository, categoriesRepo repository.CategoriesRepository, logger *zap.Logger) ContactService {
	return &contactService{
		contactsRepo:   contactsRepo,
		categoriesRepo: categoriesRepo,
		logger:         logger,
	}
}

// ListContactsRequest list query.
type ListContactsRequest struct {
	AppUserID  string
	CategoryID string // optional filter
}

// ContactListResponse list view model.
type ContactListResponse struct {
	Contacts   []*domain.Contact  `json:"contacts"`
	Categories []*domain.Category `json:"categories"`
}

// ContactFormOptions create/edit form view model.
type ContactFormOptions struct {
	Categories []*domain.Category `json:"categories"`
	States     []string           `json:"states"`
}

// StoredImage uploaded photo after intake: raw bytes plus MIME type.
type StoredImage struct {
	Data        []byte
	ContentType string
}

// ContactInput allow-listed editable fields. Owner id and created timestamp
// are deliberately absent: the server assigns both.
type ContactInput struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"` // "2006-01-02", optional
	Address1    string `json:"address1"`
	Address2    string `json:"address2"`
	City        string `json:"city"`
	State       string `json:"state"`
	ZipCode     string `json:"zip_code"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`

	CategoryIDs []string     `json:"category_ids"`
	Image       *StoredImage `json:"-"` // nil keeps the stored photo on edit
}

func (in *ContactInput) validate() (dob *time.Time, verr *ValidationError) {
	ve := newValidationError()

	if strings.TrimSpace(in.FirstName) == "" {
		ve.Fields["first_name"] = "first name is required"
	}
	if strings.TrimSpace(in.LastName) == "" {
		ve.Fields["last_name"] = "last name is required"
	}
	if strings.TrimSpace(in.Email) == "" {
		ve.Fields["email"] = "email is required"
	} else if !strings.Contains(in.Email, "@") {
		ve.Fields["email"] = "email is invalid"
	}
	if in.State != "" && !isValidState(in.State) {
		ve.Fields["state"] = "state is invalid"
	}
	if in.DateOfBirth != "" {
		t, err := time.Parse("2006-01-02", in.DateOfBirth)
		if err != nil {
			ve.Fields["date_of_birth"] = "date of birth must be YYYY-MM-DD"
		} else {
			// normalized to UTC so the stored kind never drifts
			utc := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			dob = &utc
		}
	}

	if len(ve.Fields) > 0 {
		return nil, ve
	}
	return dob, nil
}

func (in *ContactInput) apply(c *domain.Contact, dob *time.Time) {
	c.FirstName = strings.TrimSpace(in.FirstName)
	c.LastName = strings.TrimSpace(in.LastName)
	c.Address1 = strings.TrimSpace(in.Address1)
	c.City = strings.TrimSpace(in.City)
	c.State = in.State
	c.ZipCode = strings.TrimSpace(in.ZipCode)
	c.Email = strings.TrimSpace(in.Email)
	c.PhoneNumber = strings.TrimSpace(in.PhoneNumber)

	c.DateOfBirth.Valid = dob != nil
	if dob != nil {
		c.DateOfBirth.Time = *dob
	}

	c.Address2.Valid = strings.TrimSpace(in.Address2) != ""
	if c.Address2.Valid {
		c.Address2.String = strings.TrimSpace(in.Address2)
	} else {
		c.Address2.String = ""
	}

	if in.Image != nil {
		c.ImageData = in.Image.Data
		c.ImageType.Valid = in.Image.ContentType != ""
		c.ImageType.String = in.Image.ContentType
	}
}

// ListContacts returns the list view model.
func (s *contactService) ListContacts(ctx context.Context, req ListContactsRequest) (*ContactListResponse, error) {
	if req.AppUserID == "" {
		return nil, fmt.Errorf("app_user_id is required")
	}

	var contacts []*domain.Contact
	var err error
	if req.CategoryID == "" {
		contacts, err = s.contactsRepo.ListContacts(ctx, req.AppUserID)
	} else {
		contacts, err = s.contactsRepo.ListContactsByCategory(ctx, req.AppUserID, req.CategoryID)
	}
	if err != nil {
		return nil, err
	}

	categories, err := s.categoriesRepo.ListCategories(ctx, req.AppUserID)
	if err != nil {
		return nil, err
	}

	return &ContactListResponse{Contacts: contacts, Categories: categories}, nil
}

// SearchContacts full-name substring search.
func (s *contactService) SearchContacts(ctx context.Context, appUserID, query string) ([]*domain.Contact, error) {
	return s.contactsRepo.SearchContacts(ctx, appUserID, strings.TrimSpace(query))
}

// GetContact owner-scoped detail load.
func (s *contactService) GetContact(ctx context.Context, appUserID, contactID string) (*domain.Contact, error) {
	return s.contactsRepo.GetContact(ctx, appUserID, contactID)
}

// ContactFormOptions category + state select lists.
func (s *contactService) ContactFormOptions(ctx context.Context, appUserID string) (*ContactFormOptions, error) {
	categories, err := s.categoriesRepo.ListCategories(ctx, appUserID)
	if err != nil {
		return nil, err
	}
	return &ContactFormOptions{Categories: categories, States: USStates}, nil
}

// CreateContact validates input and inserts the contact plus its category
// links in one transaction.
func (s *contactService) CreateContact(ctx context.Context, appUserID string, input ContactInput) (string, error) {
	if appUserID == "" {
		return "", fmt.Errorf("app_user_id is required")
	}

	dob, verr := input.validate()
	if verr != nil {
		return "", verr
	}

	contact := &domain.Contact{
		AppUserID: appUserID,
		CreatedAt: time.Now().UTC(),
	}
	input.apply(contact, dob)

	id, err := s.contactsRepo.CreateContact(ctx, contact, input.CategoryIDs)
	if err != nil {
		return "", err
	}

	s.logger.Info("Contact created",
		zap.String("app_user_id", appUserID),
		zap.String("contact_id", id),
	)
	return id, nil
}

// UpdateContact validates input, rewrites the row, then replaces the category
// set. The created timestamp survives edits, re-stamped to UTC; the stored
// photo survives when no new upload came in.
func (s *contactService) UpdateContact(ctx context.Context, appUserID, contactID string, input ContactInput) error {
	dob, verr := input.validate()
	if verr != nil {
		return verr
	}

	existing, err := s.contactsRepo.GetContact(ctx, appUserID, contactID)
	if err != nil {
		return err
	}

	existing.CreatedAt = existing.CreatedAt.UTC()
	input.apply(existing, dob)

	if err := s.contactsRepo.UpdateContact(ctx, existing); err != nil {
		return err
	}
	if err := s.contactsRepo.ReplaceContactCategories(ctx, appUserID, contactID, input.CategoryIDs); err != nil {
		return err
	}

	s.logger.Info("Contact updated",
		zap.String("app_user_id", appUserID),
		zap.String("contact_id", contactID),
	)
	return nil
}

// DeleteContact idempotent delete.
func (s *contactService) DeleteContact(ctx context.Context, appUserID, contactID string) error {
	if err := s.contactsRepo.DeleteContact(ctx, appUserID, contactID); err != nil {
		return err
	}
	s.logger.Info("Contact deleted",
		zap.String("app_user_id", appUserID),
		zap.String("contact_id", contactID),
	)
	return nil
}

// ExportContacts builds the XLSX export of the user's contact list.
func (s *contactService) ExportContacts(ctx context.Context, appUserID string) ([]byte, error) {
	contacts, err := s.contactsRepo.ListContacts(ctx, appUserID)
	if err != nil {
		return nil, err
	}
	return BuildContactsWorkbook(contacts)
}
