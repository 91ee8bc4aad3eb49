package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/bankcore/cards-api/internal/core/domain"
	"github.com/bankcore/cards-api/internal/core/ports"
)

// AuthService implements registration and bearer-token issuance.
type AuthService struct {
	users     ports.UserRepository
	userSvc   ports.UserService
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(users ports.UserRepository, userSvc ports.UserService, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, userSvc: userSvc, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// SignUp registers a new user through the user service.
func (s *AuthService) SignUp(ctx context.Context, fullName, username, password string) error {
	if _, err := s.userSvc.CreateUser(ctx, fullName, username, password); err != nil {
		return err
	}
	return nil
}

// SignIn verifies the credentials and returns a signed token carrying the
// user's identity and roles.
func (s *AuthService) SignIn(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", domain.ErrBadCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", domain.ErrBadCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", fmt.Errorf("sign in: %w", err)
	}
	return token, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"roles":    user.Roles,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
