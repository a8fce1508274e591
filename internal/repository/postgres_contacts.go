package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"addressbook/internal/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresContactsRepository contacts Repository implementation.
// All queries are constrained by app_user_id; a foreign contact_id behaves
// exactly like a missing one.
type PostgresContactsRepository struct {
	db *sql.DB
}

// NewPostgresContactsRepository creates the contacts Repository.
func NewPostgresContactsRepository(db *sql.DB) *PostgresContactsRepository {
	return &PostgresContactsRepository{db: db}
}

var _ ContactsRepository = (*PostgresContactsRepository)(nil)

const contactColumns = `
	contact_id::text,
	app_user_id::text,
	first_name,
	last_name,
	date_of_birth,
	address1,
	address2,
	city,
	state,
	zip_code,
	email,
	phone_number,
	image_data,
	image_type,
	created_at
`

// qualifyContactColumns prefixes every contact column with a table alias for
// joined queries.
func qualifyContactColumns(alias string) string {
	parts := strings.Split(contactColumns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

func scanContact(row interface{ Scan(...any) error }) (*domain.Contact, error) {
	var c domain.Contact
	err := row.Scan(
		&c.ContactID,
		&c.AppUserID,
		&c.FirstName,
		&c.LastName,
		&c.DateOfBirth,
		&c.Address1,
		&c.Address2,
		&c.City,
		&c.State,
		&c.ZipCode,
		&c.Email,
		&c.PhoneNumber,
		&c.ImageData,
		&c.ImageType,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListContacts returns the user's contacts ordered by (last_name, first_name).
func (r *PostgresContactsRepository) ListContacts(ctx context.Context, appUserID string) ([]*domain.Contact, error) {
	if appUserID == "" {
		return nil, fmt.Errorf("app_user_id is required")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM contacts
		WHERE app_user_id = $1
		ORDER BY last_name, first_name
	`, contactColumns)

	rows, err := r.db.QueryContext(ctx, query, appUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts, err := collectContacts(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadCategories(ctx, contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// ListContactsByCategory returns the members of one of the user's categories.
// The category itself is ownership-checked first so a foreign category_id is
// ErrNotFound rather than an empty list.
func (r *PostgresContactsRepository) ListContactsByCategory(ctx context.Context, appUserID, categoryID string) ([]*domain.Contact, error) {
	if appUserID == "" || categoryID == "" {
		return nil, ErrNotFound
	}

	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM categories WHERE app_user_id = $1 AND category_id = $2`,
		appUserID, categoryID,
	).Scan(&one)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to check category: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM contacts c
		JOIN contact_categories cc ON cc.contact_id = c.contact_id
		WHERE c.app_user_id = $1 AND cc.category_id = $2
		ORDER BY c.last_name, c.first_name
	`, qualifyContactColumns("c"))

	rows, err := r.db.QueryContext(ctx, query, appUserID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts by category: %w", err)
	}
	defer rows.Close()

	contacts, err := collectContacts(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadCategories(ctx, contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// SearchContacts matches query case-insensitively against "first_name last_name".
func (r *PostgresContactsRepository) SearchContacts(ctx context.Context, appUserID, query string) ([]*domain.Contact, error) {
	if query == "" {
		return r.ListContacts(ctx, appUserID)
	}
	if appUserID == "" {
		return nil, fmt.Errorf("app_user_id is required")
	}

	sqlQuery := fmt.Sprintf(`
		SELECT %s
		FROM contacts
		WHERE app_user_id = $1
		  AND (first_name || ' ' || last_name) ILIKE $2
		ORDER BY last_name, first_name
	`, contactColumns)

	rows, err := r.db.QueryContext(ctx, sqlQuery, appUserID, "%"+query+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search contacts: %w", err)
	}
	defer rows.Close()

	contacts, err := collectContacts(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadCategories(ctx, contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// GetContact loads one contact with its category set.
func (r *PostgresContactsRepository) GetContact(ctx context.Context, appUserID, contactID string) (*domain.Contact, error) {
	if appUserID == "" || contactID == "" {
		return nil, ErrNotFound
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM contacts
		WHERE app_user_id = $1 AND contact_id = $2
	`, contactColumns)

	contact, err := scanContact(r.db.QueryRowContext(ctx, query, appUserID, contactID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	if err := r.loadCategories(ctx, []*domain.Contact{contact}); err != nil {
		return nil, err
	}
	return contact, nil
}

// CreateContact inserts the contact plus its category links in one transaction.
// Category ids that do not belong to the user are filtered out by the insert's
// ownership subquery.
func (r *PostgresContactsRepository) CreateContact(ctx context.Context, contact *domain.Contact, categoryIDs []string) (string, error) {
	if contact == nil {
		return "", fmt.Errorf("contact is required")
	}
	if contact.AppUserID == "" {
		return "", fmt.Errorf("app_user_id is required")
	}
	if contact.ContactID == "" {
		contact.ContactID = uuid.NewString()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO contacts (
			contact_id, app_user_id, first_name, last_name, date_of_birth,
			address1, address2, city, state, zip_code,
			email, phone_number, image_data, image_type, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`,
		contact.ContactID,
		contact.AppUserID,
		contact.FirstName,
		contact.LastName,
		contact.DateOfBirth,
		contact.Address1,
		contact.Address2,
		contact.City,
		contact.State,
		contact.ZipCode,
		contact.Email,
		contact.PhoneNumber,
		contact.ImageData,
		contact.ImageType,
		contact.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert contact: %w", err)
	}

	if err := insertCategoryLinks(ctx, tx, contact.AppUserID, contact.ContactID, categoryIDs); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit contact: %w", err)
	}
	return contact.ContactID, nil
}

// UpdateContact rewrites the row. Zero rows affected means the contact was
// deleted (or never owned) between read and write: report ErrNotFound, drop
// the update.
func (r *PostgresContactsRepository) UpdateContact(ctx context.Context, contact *domain.Contact) error {
	if contact == nil || contact.ContactID == "" || contact.AppUserID == "" {
		return ErrNotFound
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE contacts SET
			first_name = $3,
			last_name = $4,
			date_of_birth = $5,
			address1 = $6,
			address2 = $7,
			city = $8,
			state = $9,
			zip_code = $10,
			email = $11,
			phone_number = $12,
			image_data = $13,
			image_type = $14,
			created_at = $15
		WHERE app_user_id = $1 AND contact_id = $2
	`,
		contact.AppUserID,
		contact.ContactID,
		contact.FirstName,
		contact.LastName,
		contact.DateOfBirth,
		contact.Address1,
		contact.Address2,
		contact.City,
		contact.State,
		contact.ZipCode,
		contact.Email,
		contact.PhoneNumber,
		contact.ImageData,
		contact.ImageType,
		contact.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
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

// ReplaceContactCategories remove-all-then-add-selected in a single
// transaction, so no reader ever observes the empty intermediate set.
func (r *PostgresContactsRepository) ReplaceContactCategories(ctx context.Context, appUserID, contactID string, categoryIDs []string) error {
	if appUserID == "" || contactID == "" {
		return ErrNotFound
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	var one int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM contacts WHERE app_user_id = $1 AND contact_id = $2 FOR UPDATE`,
		appUserID, contactID,
	).Scan(&one)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("failed to lock contact: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM contact_categories WHERE contact_id = $1`,
		contactID,
	)
	if err != nil {
		return fmt.Errorf("failed to clear contact categories: %w", err)
	}

	if err := insertCategoryLinks(ctx, tx, appUserID, contactID, categoryIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit category replace: %w", err)
	}
	return nil
}

// DeleteContact idempotent delete; join rows go with the contact via cascade.
func (r *PostgresContactsRepository) DeleteContact(ctx context.Context, appUserID, contactID string) error {
	if appUserID == "" || contactID == "" {
		return nil
	}

	_, err := r.db.ExecContext(ctx,
		`DELETE FROM contacts WHERE app_user_id = $1 AND contact_id = $2`,
		appUserID, contactID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return nil
}

// insertCategoryLinks links contactID to every requested category the user
// actually owns; foreign ids simply produce no rows.
func insertCategoryLinks(ctx context.Context, tx *sql.Tx, appUserID, contactID string, categoryIDs []string) error {
	if len(categoryIDs) == 0 {
		return nil
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO contact_categories (contact_id, category_id)
		SELECT $1, category_id
		FROM categories
		WHERE app_user_id = $2 AND category_id = ANY($3)
		ON CONFLICT DO NOTHING
	`, contactID, appUserID, pq.Array(categoryIDs))
	if err != nil {
		return fmt.Errorf("failed to link categories: %w", err)
	}
	return nil
}

func collectContacts(rows *sql.Rows) ([]*domain.Contact, error) {
	contacts := []*domain.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contacts: %w", err)
	}
	return contacts, nil
}

// loadCategories attaches each contact's category set in one query.
func (r *PostgresContactsRepository) loadCategories(ctx context.Context, contacts []*domain.Contact) error {
	if len(contacts) == 0 {
		return nil
	}

	ids := make([]string, 0, len(contacts))
	byID := make(map[string]*domain.Contact, len(contacts))
	for _, c := range contacts {
		ids = append(ids, c.ContactID)
		byID[c.ContactID] = c
		c.Categories = []*domain.Category{}
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			cc.contact_id::text,
			cat.category_id::text,
			cat.app_user_id::text,
			cat.category_name,
			cat.created_at
		FROM contact_categories cc
		JOIN categories cat ON cat.category_id = cc.category_id
		WHERE cc.contact_id = ANY($1)
		ORDER BY cat.category_name
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load contact categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var contactID string
		var cat domain.Category
		if err := rows.Scan(&contactID, &cat.CategoryID, &cat.AppUserID, &cat.CategoryName, &cat.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan contact category: %w", err)
		}
		if c, ok := byID[contactID]; ok {
			c.Categories = append(c.Categories, &cat)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate contact categories: %w", err)
	}
	return nil
}
