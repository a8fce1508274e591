package repository

import (
	"context"
	"database/sql"
	"fmt"

	"addressbook/internal/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresUsersRepository users Repository implementation.
type PostgresUsersRepository struct {
	db *sql.DB
}

// NewPostgresUsersRepository creates the users Repository.
func NewPostgresUsersRepository(db *sql.DB) *PostgresUsersRepository {
	return &PostgresUsersRepository{db: db}
}

var _ UsersRepository = (*PostgresUsersRepository)(nil)

const userColumns = `
	user_id::text,
	email,
	first_name,
	last_name,
	email_hash,
	password_hash,
	created_at
`

func scanUser(row interface{ Scan(...any) error }) (*domain.AppUser, error) {
	var u domain.AppUser
	err := row.Scan(
		&u.UserID,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.EmailHash,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUser loads a user by id.
func (r *PostgresUsersRepository) GetUser(ctx context.Context, userID string) (*domain.AppUser, error) {
	if userID == "" {
		return nil, ErrNotFound
	}

	query := fmt.Sprintf(`SELECT %s FROM users WHERE user_id = $1`, userColumns)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// FindUserByEmailHash resolves a login hash to an account.
func (r *PostgresUsersRepository) FindUserByEmailHash(ctx context.Context, emailHash []byte) (*domain.AppUser, error) {
	if len(emailHash) == 0 {
		return nil, ErrNotFound
	}

	query := fmt.Sprintf(`SELECT %s FROM users WHERE email_hash = $1`, userColumns)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, emailHash))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateUser inserts a user; a duplicate email reports ErrConflict.
func (r *PostgresUsersRepository) CreateUser(ctx context.Context, user *domain.AppUser) (string, error) {
	if user == nil || user.Email == "" {
		return "", fmt.Errorf("email is required")
	}
	if user.UserID == "" {
		user.UserID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (user_id, email, first_name, last_name, email_hash, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		user.UserID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.EmailHash,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return "", ErrConflict
		}
		return "", fmt.Errorf("failed to insert user: %w", err)
	}
	return user.UserID, nil
}
