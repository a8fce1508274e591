package repository

import (
	"context"

	"addressbook/internal/domain"
)

// UsersRepository identity lookups. The address-book handlers only ever see the
// resolved user id; this interface exists for login and the startup seed.
type UsersRepository interface {
	// GetUser loads a user by id.
	GetUser(ctx context.Context, userID string) (*domain.AppUser, error)

	// FindUserByEmailHash resolves a login: sha256(lower(email)) -> user.
	// ErrNotFound when no account matches.
	FindUserByEmailHash(ctx context.Context, emailHash []byte) (*domain.AppUser, error)

	// CreateUser inserts a user. ErrConflict when the email is already taken.
	CreateUser(ctx context.Context, user *domain.AppUser) (string, error)
}
