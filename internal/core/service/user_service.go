package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bankcore/cards-api/internal/core/domain"
	"github.com/bankcore/cards-api/internal/core/ports"
)

// UserService implements user account management.
type UserService struct {
	users ports.UserRepository
	roles ports.RoleRepository
	log   zerolog.Logger
}

func NewUserService(users ports.UserRepository, roles ports.RoleRepository, log zerolog.Logger) *UserService {
	return &UserService{users: users, roles: roles, log: log}
}

// CreateUser registers a new user carrying the USER seed role.
func (s *UserService) CreateUser(ctx context.Context, fullName, username, password string) (*ports.UserDto, error) {
	role, err := s.roles.FindByName(ctx, domain.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("%w: username %q is already taken", domain.ErrUsernameTaken, username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("create user: hash password: %w", err)
	}

	created, err := s.users.Create(ctx, &domain.User{
		FullName:     fullName,
		Username:     username,
		PasswordHash: string(hash),
		Roles:        []string{role.Name},
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user created")
	return toUserDto(created), nil
}

// DeleteUser removes the user and all owned cards in one atomic unit. The
// cascade is explicit in the repository rather than implied by schema config,
// so the rule stays visible and testable.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.log.Info().Str("user_id", userID).Msg("user deleted")
	return nil
}

func (s *UserService) FindByID(ctx context.Context, userID string) (*ports.UserDto, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return toUserDto(user), nil
}

func (s *UserService) List(ctx context.Context, page, size int) (*ports.UserPage, error) {
	users, total, err := s.users.List(ctx, page, size)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	items := make([]ports.UserDto, 0, len(users))
	for _, u := range users {
		items = append(items, *toUserDto(u))
	}
	return &ports.UserPage{Items: items, Total: total, Page: page, Size: size}, nil
}

func toUserDto(u *domain.User) *ports.UserDto {
	return &ports.UserDto{
		ID:       u.ID,
		FullName: u.FullName,
		Username: u.Username,
		Roles:    u.Roles,
	}
}
