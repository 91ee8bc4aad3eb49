package ports

import (
	"context"

	"github.com/bankcore/cards-api/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create persists a new user. Returns domain.ErrUsernameTaken when the
	// username is already in use.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// List returns a page of users in insertion order and the total count.
	List(ctx context.Context, page, size int) ([]*domain.User, int64, error)
	// Delete removes the user's cards first and then the user, atomically.
	// Deleting a nonexistent id is a no-op.
	Delete(ctx context.Context, id string) error
}

// RoleRepository resolves the immutable role reference data seeded at startup.
type RoleRepository interface {
	// FindByName returns domain.ErrRoleNotFound when the role is missing.
	FindByName(ctx context.Context, name string) (*domain.Role, error)
}
