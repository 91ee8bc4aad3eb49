package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/bankcore/cards-api/internal/core/domain"
)

const testSecret = "test-secret"

func newAuthServiceForTest() (*AuthService, *stubUserRepo) {
	users := newStubUserRepo()
	userSvc := NewUserService(users, stubRoleRepo{}, zerolog.Nop())
	auth := NewAuthService(users, userSvc, testSecret, time.Hour)
	return auth, users
}

func TestSignUpAndSignIn(t *testing.T) {
	auth, _ := newAuthServiceForTest()

	if err := auth.SignUp(context.Background(), "Ivan Petrov", "ivan", "secret-password"); err != nil {
		t.Fatalf("sign up: %v", err)
	}

	token, err := auth.SignIn(context.Background(), "ivan", "secret-password")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if token == "" {
		t.Fatal("sign in must return a token")
	}

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("claims should be a map")
	}
	if claims["username"] != "ivan" {
		t.Errorf("username claim = %v, want ivan", claims["username"])
	}
	if claims["sub"] == "" || claims["sub"] == nil {
		t.Error("sub claim must carry the user id")
	}
	roles, ok := claims["roles"].([]interface{})
	if !ok || len(roles) != 1 || roles[0] != domain.RoleUser {
		t.Errorf("roles claim = %v, want [USER]", claims["roles"])
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		t.Fatalf("exp claim missing: %v", err)
	}
	if time.Until(exp.Time) <= 0 {
		t.Error("token must not be issued already expired")
	}
}

func TestSignInWrongPassword(t *testing.T) {
	auth, _ := newAuthServiceForTest()

	if err := auth.SignUp(context.Background(), "Ivan Petrov", "ivan", "secret-password"); err != nil {
		t.Fatalf("sign up: %v", err)
	}

	_, err := auth.SignIn(context.Background(), "ivan", "wrong-password")
	if !errors.Is(err, domain.ErrBadCredentials) {
		t.Errorf("error = %v, want ErrBadCredentials", err)
	}
}

func TestSignInUnknownUser(t *testing.T) {
	auth, _ := newAuthServiceForTest()

	_, err := auth.SignIn(context.Background(), "ghost", "whatever")
	if !errors.Is(err, domain.ErrBadCredentials) {
		t.Errorf("error = %v, unknown users and bad passwords must be indistinguishable", err)
	}
}

func TestSignUpDuplicateUsername(t *testing.T) {
	auth, _ := newAuthServiceForTest()

	if err := auth.SignUp(context.Background(), "Ivan Petrov", "ivan", "secret-password"); err != nil {
		t.Fatalf("first sign up: %v", err)
	}
	err := auth.SignUp(context.Background(), "Other Ivan", "ivan", "another-password")
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Errorf("error = %v, want ErrUsernameTaken", err)
	}
}
