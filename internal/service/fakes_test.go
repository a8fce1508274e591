package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"addressbook/internal/domain"
	"addressbook/internal/repository"
	"addressbook/internal/store"

	"github.com/google/uuid"
)

// In-memory fakes implementing the repository and store interfaces.

type fakeContactsRepo struct {
	contacts map[string]*domain.Contact // by contact_id
	links    map[string]map[string]bool // contact_id -> category_id set
	cats     *fakeCategoriesRepo
}

func newFakeContactsRepo(cats *fakeCategoriesRepo) *fakeContactsRepo {
	return &fakeContactsRepo{
		contacts: map[string]*domain.Contact{},
		links:    map[string]map[string]bool{},
		cats:     cats,
	}
}

func (f *fakeContactsRepo) owned(appUserID string) []*domain.Contact {
	out := make([]*domain.Contact, 0)
	for _, c := range f.contacts {
		if c.AppUserID == appUserID {
			copied := *c
			copied.Categories = f.categoriesOf(c.ContactID)
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out
}

func (f *fakeContactsRepo) categoriesOf(contactID string) []*domain.Category {
	out := make([]*domain.Category, 0)
	for catID := range f.links[contactID] {
		if f.cats != nil {
			if cat, ok := f.cats.categories[catID]; ok {
				out = append(out, cat)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CategoryName < out[j].CategoryName })
	return out
}

func (f *fakeContactsRepo) ListContacts(ctx context.Context, appUserID string) ([]*domain.Contact, error) {
	return f.owned(appUserID), nil
}

func (f *fakeContactsRepo) ListContactsByCategory(ctx context.Context, appUserID, categoryID string) ([]*domain.Contact, error) {
	if f.cats != nil {
		cat, ok := f.cats.categories[categoryID]
		if !ok || cat.AppUserID != appUserID {
			return nil, repository.ErrNotFound
		}
	}
	out := make([]*domain.Contact, 0)
	for _, c := range f.owned(appUserID) {
		if f.links[c.ContactID][categoryID] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeContactsRepo) SearchContacts(ctx context.Context, appUserID, query string) ([]*domain.Contact, error) {
	out := make([]*domain.Contact, 0)
	for _, c := range f.owned(appUserID) {
		if query == "" || strings.Contains(strings.ToLower(c.FullName()), strings.ToLower(query)) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeContactsRepo) GetContact(ctx context.Context, appUserID, contactID string) (*domain.Contact, error) {
	c, ok := f.contacts[contactID]
	if !ok || c.AppUserID != appUserID {
		return nil, repository.ErrNotFound
	}
	copied := *c
	copied.Categories = f.categoriesOf(contactID)
	return &copied, nil
}

func (f *fakeContactsRepo) CreateContact(ctx context.Context, contact *domain.Contact, categoryIDs []string) (string, error) {
	id := uuid.NewString()
	copied := *contact
	copied.ContactID = id
	f.contacts[id] = &copied
	f.links[id] = map[string]bool{}
	for _, catID := range categoryIDs {
		if f.cats != nil {
			if cat, ok := f.cats.categories[catID]; !ok || cat.AppUserID != contact.AppUserID {
				continue
			}
		}
		f.links[id][catID] = true
	}
	return id, nil
}

func (f *fakeContactsRepo) UpdateContact(ctx context.Context, contact *domain.Contact) error {
	existing, ok := f.contacts[contact.ContactID]
	if !ok || existing.AppUserID != contact.AppUserID {
		return repository.ErrNotFound
	}
	copied := *contact
	f.contacts[contact.ContactID] = &copied
	return nil
}

func (f *fakeContactsRepo) ReplaceContactCategories(ctx context.Context, appUserID, contactID string, categoryIDs []string) error {
	c, ok := f.contacts[contactID]
	if !ok || c.AppUserID != appUserID {
		return repository.ErrNotFound
	}
	f.links[contactID] = map[string]bool{}
	for _, catID := range categoryIDs {
		if f.cats != nil {
			if cat, ok := f.cats.categories[catID]; !ok || cat.AppUserID != appUserID {
				continue
			}
		}
		f.links[contactID][catID] = true
	}
	return nil
}

func (f *fakeContactsRepo) DeleteContact(ctx context.Context, appUserID, contactID string) error {
	if c, ok := f.contacts[contactID]; ok && c.AppUserID == appUserID {
		delete(f.contacts, contactID)
		delete(f.links, contactID)
	}
	return nil
}

type fakeCategoriesRepo struct {
	categories map[string]*domain.Category
	contacts   *fakeContactsRepo
}

func newFakeCategoriesRepo() *fakeCategoriesRepo {
	return &fakeCategoriesRepo{categories: map[string]*domain.Category{}}
}

func (f *fakeCategoriesRepo) ListCategories(ctx context.Context, appUserID string) ([]*domain.Category, error) {
	out := make([]*domain.Category, 0)
	for _, c := range f.categories {
		if c.AppUserID == appUserID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CategoryName < out[j].CategoryName })
	return out, nil
}

func (f *fakeCategoriesRepo) GetCategory(ctx context.Context, appUserID, categoryID string) (*domain.Category, error) {
	c, ok := f.categories[categoryID]
	if !ok || c.AppUserID != appUserID {
		return nil, repository.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCategoriesRepo) GetCategoryWithContacts(ctx context.Context, appUserID, categoryID string) (*domain.Category, error) {
	c, err := f.GetCategory(ctx, appUserID, categoryID)
	if err != nil {
		return nil, err
	}
	if f.contacts != nil {
		members, err := f.contacts.ListContactsByCategory(ctx, appUserID, categoryID)
		if err != nil {
			return nil, err
		}
		c.Contacts = members
	}
	return c, nil
}

func (f *fakeCategoriesRepo) CreateCategory(ctx context.Context, category *domain.Category) (string, error) {
	id := uuid.NewString()
	copied := *category
	copied.CategoryID = id
	f.categories[id] = &copied
	return id, nil
}

func (f *fakeCategoriesRepo) UpdateCategory(ctx context.Context, category *domain.Category) error {
	existing, ok := f.categories[category.CategoryID]
	if !ok || existing.AppUserID != category.AppUserID {
		return repository.ErrNotFound
	}
	existing.CategoryName = category.CategoryName
	return nil
}

func (f *fakeCategoriesRepo) DeleteCategory(ctx context.Context, appUserID, categoryID string) error {
	if c, ok := f.categories[categoryID]; ok && c.AppUserID == appUserID {
		delete(f.categories, categoryID)
	}
	return nil
}

type fakeUsersRepo struct {
	users map[string]*domain.AppUser
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: map[string]*domain.AppUser{}}
}

func (f *fakeUsersRepo) GetUser(ctx context.Context, userID string) (*domain.AppUser, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) FindUserByEmailHash(ctx context.Context, emailHash []byte) (*domain.AppUser, error) {
	for _, u := range f.users {
		if string(u.EmailHash) == string(emailHash) {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsersRepo) CreateUser(ctx context.Context, user *domain.AppUser) (string, error) {
	for _, u := range f.users {
		if string(u.EmailHash) == string(user.EmailHash) {
			return "", repository.ErrConflict
		}
	}
	id := uuid.NewString()
	copied := *user
	copied.UserID = id
	f.users[id] = &copied
	return id, nil
}

type fakeKV struct {
	data map[string]string
}

func newFakeKV() *fakeKV { return &fakeKV{data: map[string]string{}} }

func (f *fakeKV) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", store.ErrMiss
	}
	return v, nil
}

func (f *fakeKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	f.data[key] = value
	return nil
}

func (f *fakeKV) Del(ctx context.Context, key string) error {
	delete(f.data, key)
	return nil
}

type fakeMailClient struct {
	sent []sentMail
	fail bool
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (f *fakeMailClient) SendEmail(ctx context.Context, to, subject, htmlBody string) error {
	if f.fail {
		return context.DeadlineExceeded
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}
