package repository

import (
	"context"

	"addressbook/internal/domain"
)

// ContactsRepository contact data access. Every method takes the scoping
// appUserID explicitly; implementations must constrain all queries to that
// user's rows so a foreign id resolves to ErrNotFound, never to data.
type ContactsRepository interface {
	// ListContacts returns the user's contacts ordered by (last_name, first_name),
	// each with its category set loaded.
	ListContacts(ctx context.Context, appUserID string) ([]*domain.Contact, error)

	// ListContactsByCategory returns the members of one of the user's categories,
	// same ordering as ListContacts. ErrNotFound if the category is not the user's.
	ListContactsByCategory(ctx context.Context, appUserID, categoryID string) ([]*domain.Contact, error)

	// SearchContacts matches query case-insensitively against the contact's full
	// name ("First Last"). An empty query returns the full ordered list.
	SearchContacts(ctx context.Context, appUserID, query string) ([]*domain.Contact, error)

	// GetContact loads one contact with its category set.
	GetContact(ctx context.Context, appUserID, contactID string) (*domain.Contact, error)

	// CreateContact inserts the contact and its category links in one transaction.
	// Category ids not owned by the user are dropped, not linked.
	CreateContact(ctx context.Context, contact *domain.Contact, categoryIDs []string) (string, error)

	// UpdateContact rewrites the contact row. ErrNotFound when the row vanished
	// between read and write (concurrent delete); the update is dropped.
	UpdateContact(ctx context.Context, contact *domain.Contact) error

	// ReplaceContactCategories swaps the contact's category set for categoryIDs in
	// a single transaction: remove all, then add selected. No partial state is
	// ever visible.
	ReplaceContactCategories(ctx context.Context, appUserID, contactID string, categoryIDs []string) error

	// DeleteContact removes the contact and, via cascade, its join rows.
	// Deleting a missing id is a no-op.
	DeleteContact(ctx context.Context, appUserID, contactID string) error
}
