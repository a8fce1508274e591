package repository

import (
	"context"

	"addressbook/internal/domain"
)

// CategoriesRepository category data access, scoped by appUserID like
// ContactsRepository.
type CategoriesRepository interface {
	// ListCategories returns the user's categories ordered by category_name.
	ListCategories(ctx context.Context, appUserID string) ([]*domain.Category, error)

	// GetCategory loads one category without members.
	GetCategory(ctx context.Context, appUserID, categoryID string) (*domain.Category, error)

	// GetCategoryWithContacts loads one category with its member contacts,
	// ordered by (last_name, first_name).
	GetCategoryWithContacts(ctx context.Context, appUserID, categoryID string) (*domain.Category, error)

	// CreateCategory inserts the category and returns its id.
	CreateCategory(ctx context.Context, category *domain.Category) (string, error)

	// UpdateCategory renames the category. ErrNotFound when the row vanished.
	UpdateCategory(ctx context.Context, category *domain.Category) error

	// DeleteCategory removes the category and cascades its join rows.
	// Deleting a missing id is a no-op.
	DeleteCategory(ctx context.Context, appUserID, categoryID string) error
}
