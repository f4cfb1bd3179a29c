package user

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new user. Returns ErrEmailTaken on duplicate email.
	Create(ctx context.Context, u *User) error

	// GetByID retrieves a user by primary key. Returns ErrUserNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByEmail retrieves a user by their (case-normalized) email address.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Update applies partial updates to an existing user record.
	Update(ctx context.Context, id uuid.UUID, cmd *UpdateUserCommand) (*User, error)

	// SoftDelete marks the user as deleted; the row is retained.
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// List returns users matching the query, newest first.
	List(ctx context.Context, q *ListUsersQuery) ([]*User, error)
}
