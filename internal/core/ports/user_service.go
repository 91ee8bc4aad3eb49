package ports

import (
	"context"
)

// UserDto is the outward view of a user.
type UserDto struct {
	ID       string   `json:"id"`
	FullName string   `json:"fullName"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// UserPage is a single page of user DTOs.
type UserPage struct {
	Items []UserDto `json:"content"`
	Total int64     `json:"totalElements"`
	Page  int       `json:"page"`
	Size  int       `json:"size"`
}

// UserService manages user accounts. Card ownership checks delegate to it.
type UserService interface {
	// CreateUser registers a user with the USER role and a bcrypt-hashed
	// password. Fails with domain.ErrRoleNotFound when the seed role is
	// missing and domain.ErrUsernameTaken on a duplicate username.
	CreateUser(ctx context.Context, fullName, username, password string) (*UserDto, error)
	// DeleteUser removes the user together with all owned cards.
	DeleteUser(ctx context.Context, userID string) error
	FindByID(ctx context.Context, userID string) (*UserDto, error)
	List(ctx context.Context, page, size int) (*UserPage, error)
}

// AuthService implements registration and token issuance.
type AuthService interface {
	SignUp(ctx context.Context, fullName, username, password string) error
	// SignIn returns a signed bearer token, or domain.ErrBadCredentials.
	SignIn(ctx context.Context, username, password string) (string, error)
}
