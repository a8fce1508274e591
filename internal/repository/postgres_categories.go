package repository

import (
	"context"
	"database/sql"
	"fmt"

	"addressbook/internal/domain"

	"github.com/google/uuid"
)

// PostgresCategoriesRepository categories Repository implementation.
type PostgresCategoriesRepository struct {
	db *sql.DB
}

// NewPostgresCategoriesRepository creates the categories Repository.
func NewPostgresCategoriesRepository(db *sql.DB) *PostgresCategoriesRepository {
	return &PostgresCategoriesRepository{db: db}
}

var _ CategoriesRepository = (*PostgresCategoriesRepository)(nil)

const categoryColumns = `
	category_id::text,
	app_user_id::text,
	category_name,
	created_at
`

func scanCategory(row interface{ Scan(...any) error }) (*domain.Category, error) {
	var c domain.Category
	err := row.Scan(
		&c.CategoryID,
		&c.AppUserID,
		&c.CategoryName,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCategories returns the user's categories ordered by name.
func (r *PostgresCategoriesRepository) ListCategories(ctx context.Context, appUserID string) ([]*domain.Category, error) {
	if appUserID == "" {
		return nil, fmt.Errorf("app_user_id is required")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM categories
		WHERE app_user_id = $1
		ORDER BY category_name
	`, categoryColumns)

	rows, err := r.db.QueryContext(ctx, query, appUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

// GetCategory loads one category without members.
func (r *PostgresCategoriesRepository) GetCategory(ctx context.Context, appUserID, categoryID string) (*domain.Category, error) {
	if appUserID == "" || categoryID == "" {
		return nil, ErrNotFound
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM categories
		WHERE app_user_id = $1 AND category_id = $2
	`, categoryColumns)

	category, err := scanCategory(r.db.QueryRowContext(ctx, query, appUserID, categoryID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// GetCategoryWithContacts loads one category plus its member contacts, ordered
// by (last_name, first_name). Used by the group-mail flow.
func (r *PostgresCategoriesRepository) GetCategoryWithContacts(ctx context.Context, appUserID, categoryID string) (*domain.Category, error) {
	category, err := r.GetCategory(ctx, appUserID, categoryID)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			c.contact_id::text,
			c.app_user_id::text,
			c.first_name,
			c.last_name,
			c.email
		FROM contacts c
		JOIN contact_categories cc ON cc.contact_id = c.contact_id
		WHERE cc.category_id = $1
		ORDER BY c.last_name, c.first_name
	`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list category members: %w", err)
	}
	defer rows.Close()

	category.Contacts = []*domain.Contact{}
	for rows.Next() {
		var c domain.Contact
		if err := rows.Scan(&c.ContactID, &c.AppUserID, &c.FirstName, &c.LastName, &c.Email); err != nil {
			return nil, fmt.Errorf("failed to scan category member: %w", err)
		}
		category.Contacts = append(category.Contacts, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category members: %w", err)
	}
	return category, nil
}

// CreateCategory inserts the category.
func (r *PostgresCategoriesRepository) CreateCategory(ctx context.Context, category *domain.Category) (string, error) {
	if category == nil {
		return "", fmt.Errorf("category is required")
	}
	if category.AppUserID == "" {
		return "", fmt.Errorf("app_user_id is required")
	}
	if category.CategoryName == "" {
		return "", fmt.Errorf("category_name is required")
	}
	if category.CategoryID == "" {
		category.CategoryID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (category_id, app_user_id, category_name, created_at)
		VALUES ($1, $2, $3, $4)
	`, category.CategoryID, category.AppUserID, category.CategoryName, category.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to insert category: %w", err)
	}
	return category.CategoryID, nil
}

// UpdateCategory renames the category; zero rows affected -> ErrNotFound.
func (r *PostgresCategoriesRepository) UpdateCategory(ctx context.Context, category *domain.Category) error {
	if category == nil || category.CategoryID == "" || category.AppUserID == "" {
		return ErrNotFound
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE categories SET category_name = $3
		WHERE app_user_id = $1 AND category_id = $2
	`, category.AppUserID, category.CategoryID, category.CategoryName)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCategory idempotent delete; membership rows cascade with the category.
func (r *PostgresCategoriesRepository) DeleteCategory(ctx context.Context, appUserID, categoryID string) error {
	if appUserID == "" || categoryID == "" {
		return nil
	}

	_, err := r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE app_user_id = $1 AND category_id = $2`,
		appUserID, categoryID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}
