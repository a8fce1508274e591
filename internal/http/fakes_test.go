package httpapi

import (
	"context"
	"strings"

	"addressbook/internal/domain"
	"addressbook/internal/repository"
	"addressbook/internal/service"
)

// Fixed tokens used across the handler tests.
const (
	testToken     = "tok-1"
	testCSRF      = "csrf-1"
	testUserID    = "user-1"
	foreignUserID = "user-2"
)

type fakeAuthService struct {
	sessions map[string]*service.Session
}

func newFakeAuthService() *fakeAuthService {
	return &fakeAuthService{
		sessions: map[string]*service.Session{
			testToken: {UserID: testUserID, CSRFToken: testCSRF},
		},
	}
}

func (f *fakeAuthService) Login(ctx context.Context, req service.LoginRequest) (*service.LoginResponse, error) {
	if req.Email == "john@example.com" && req.Password == "secret1!" {
		return &service.LoginResponse{
			Token:     testToken,
			CSRFToken: testCSRF,
			UserID:    testUserID,
			Email:     req.Email,
			FullName:  "John Smith",
		}, nil
	}
	return nil, service.ErrInvalidSession
}

func (f *fakeAuthService) Logout(ctx context.Context, token string) error {
	delete(f.sessions, token)
	return nil
}

func (f *fakeAuthService) ResolveSession(ctx context.Context, token string) (*service.Session, error) {
	s, ok := f.sessions[token]
	if !ok {
		return nil, service.ErrInvalidSession
	}
	return s, nil
}

func (f *fakeAuthService) SeedDemoUser(ctx context.Context) error { return nil }

// fakeContactService in-memory ContactService keyed by owner.
type fakeContactService struct {
	contacts map[string]*domain.Contact
	deleted  []string
}

func newFakeContactService() *fakeContactService {
	return &fakeContactService{contacts: map[string]*domain.Contact{}}
}

func (f *fakeContactService) add(id, owner, first, last, email string) *domain.Contact {
	c := &domain.Contact{
		ContactID: id,
		AppUserID: owner,
		FirstName: first,
		LastName:  last,
		Email:     email,
		Address1:  "1 Main St",
		City:      "Atlanta",
		State:     "GA",
		ZipCode:   "30301",
	}
	f.contacts[id] = c
	return c
}

func (f *fakeContactService) owned(appUserID string) []*domain.Contact {
	out := make([]*domain.Contact, 0)
	for _, c := range f.contacts {
		if c.AppUserID == appUserID {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeContactService) ListContacts(ctx context.Context, req service.ListContactsRequest) (*service.ContactListResponse, error) {
	return &service.ContactListResponse{
		Contacts:   f.owned(req.AppUserID),
		Categories: []*domain.Category{},
	}, nil
}

func (f *fakeContactService) SearchContacts(ctx context.Context, appUserID, query string) ([]*domain.Contact, error) {
	out := make([]*domain.Contact, 0)
	for _, c := range f.owned(appUserID) {
		if query == "" || strings.Contains(strings.ToLower(c.FullName()), strings.ToLower(query)) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeContactService) GetContact(ctx context.Context, appUserID, contactID string) (*domain.Contact, error) {
	c, ok := f.contacts[contactID]
	if !ok || c.AppUserID != appUserID {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (f *fakeContactService) ContactFormOptions(ctx context.Context, appUserID string) (*service.ContactFormOptions, error) {
	return &service.ContactFormOptions{Categories: []*domain.Category{}, States: service.USStates}, nil
}

func (f *fakeContactService) CreateContact(ctx context.Context, appUserID string, input service.ContactInput) (string, error) {
	id := "created-1"
	f.add(id, appUserID, input.FirstName, input.LastName, input.Email)
	return id, nil
}

func (f *fakeContactService) UpdateContact(ctx context.Context, appUserID, contactID string, input service.ContactInput) error {
	c, ok := f.contacts[contactID]
	if !ok || c.AppUserID != appUserID {
		return repository.ErrNotFound
	}
	c.FirstName = input.FirstName
	c.LastName = input.LastName
	c.Email = input.Email
	return nil
}

func (f *fakeContactService) DeleteContact(ctx context.Context, appUserID, contactID string) error {
	f.deleted = append(f.deleted, contactID)
	if c, ok := f.contacts[contactID]; ok && c.AppUserID == appUserID {
		delete(f.contacts, contactID)
	}
	return nil
}

func (f *fakeContactService) ExportContacts(ctx context.Context, appUserID string) ([]byte, error) {
	return []byte("PK\x03\x04"), nil
}

type fakeCategoryService struct {
	categories map[string]*domain.Category
}

func newFakeCategoryService() *fakeCategoryService {
	return &fakeCategoryService{categories: map[string]*domain.Category{}}
}

func (f *fakeCategoryService) add(id, owner, name string) *domain.Category {
	c := &domain.Category{CategoryID: id, AppUserID: owner, CategoryName: name}
	f.categories[id] = c
	return c
}

func (f *fakeCategoryService) ListCategories(ctx context.Context, appUserID string) ([]*domain.Category, error) {
	out := make([]*domain.Category, 0)
	for _, c := range f.categories {
		if c.AppUserID == appUserID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCategoryService) GetCategory(ctx context.Context, appUserID, categoryID string) (*domain.Category, error) {
	c, ok := f.categories[categoryID]
	if !ok || c.AppUserID != appUserID {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (f *fakeCategoryService) GetCategoryWithContacts(ctx context.Context, appUserID, categoryID string) (*domain.Category, error) {
	return f.GetCategory(ctx, appUserID, categoryID)
}

func (f *fakeCategoryService) CreateCategory(ctx context.Context, appUserID string, input service.CategoryInput) (string, error) {
	id := "cat-created"
	f.add(id, appUserID, input.Name)
	return id, nil
}

func (f *fakeCategoryService) UpdateCategory(ctx context.Context, appUserID, categoryID string, input service.CategoryInput) error {
	c, ok := f.categories[categoryID]
	if !ok || c.AppUserID != appUserID {
		return repository.ErrNotFound
	}
	c.CategoryName = input.Name
	return nil
}

func (f *fakeCategoryService) DeleteCategory(ctx context.Context, appUserID, categoryID string) error {
	if c, ok := f.categories[categoryID]; ok && c.AppUserID == appUserID {
		delete(f.categories, categoryID)
	}
	return nil
}

// fakeEmailService records sends; failNext flips the outcome status.
type fakeEmailService struct {
	failNext bool
	sent     []*domain.EmailMessage
}

func (f *fakeEmailService) PrepareContactMessage(ctx context.Context, appUserID, contactID string) (*domain.EmailMessage, error) {
	return &domain.EmailMessage{Recipients: "john@example.com", FirstName: "John", LastName: "Smith"}, nil
}

func (f *fakeEmailService) PrepareGroupMessage(ctx context.Context, appUserID, categoryID string) (*domain.EmailMessage, error) {
	return &domain.EmailMessage{
		Recipients: "a@example.com;b@example.com",
		GroupName:  "Family",
		Subject:    "Group Message: Family",
	}, nil
}

func (f *fakeEmailService) Send(ctx context.Context, msg *domain.EmailMessage) (string, error) {
	if f.failNext {
		return service.SwalEmailFailed, nil
	}
	f.sent = append(f.sent, msg)
	return service.SwalEmailSent, nil
}
